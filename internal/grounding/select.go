package grounding

import (
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/corpus"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/scoring"
)

// NoCandidates is the match reason when nothing could be scored.
const NoCandidates = "no candidates found"

// SelectBest turns the scored candidates of one identity into a record. The
// first highest-scoring candidate wins; it is chosen only when its score
// clears the policy threshold. Every scored candidate is kept for audit.
func SelectBest(policy scoring.Policy, identity corpus.Identity, scored []scoring.Scored) matchstore.Record {
	rec := matchstore.Record{
		Name:         identity.Name,
		FirstPubYear: identity.FirstPubYear,
		LastPubYear:  identity.LastPubYear,
		ArticleCount: identity.ArticleCount,
		Candidates:   scored,
	}
	if len(scored) == 0 {
		rec.MatchReason = NoCandidates
		return rec
	}

	best := 0
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}
	winner := scored[best]
	rec.Confidence = winner.Score
	rec.MatchReason = winner.Reason()
	if policy.Accepts(winner.Score) {
		rec.ChosenID = winner.ID
		rec.ChosenLabel = winner.Label
		rec.ChosenURL = winner.ReferenceURL
	}
	return rec
}
