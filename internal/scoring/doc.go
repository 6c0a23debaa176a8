// Package scoring rates how plausibly a knowledge-base entity is the author
// behind a corpus name.
//
// Score is a pure function of a Candidate, the author's first and last
// publication years, and a Policy. A candidate first runs through an ordered
// chain of disqualifiers; the first one that fires pins the score to zero and
// becomes the only reason. Otherwise additive signals accumulate, each
// contributing a human-readable reason, and the total is clamped to [0, 1].
//
// The weights in DefaultPolicy are hand-tuned rather than calibrated.
package scoring
