package scoring

// Policy holds every tunable of the scorer.
type Policy struct {
	// MinAge and MaxAge bound the age at first publication; outside them the
	// candidate is disqualified.
	MinAge int
	MaxAge int

	// PlausibleAgeMin..PlausibleAgeMax (inclusive) earns PlausibleAgeWeight.
	PlausibleAgeMin    int
	PlausibleAgeMax    int
	PlausibleAgeWeight float64

	// EarlyDeathPenalty applies when death precedes the last publication by
	// more than EarlyDeathGrace years (posthumous communication is possible).
	EarlyDeathGrace   int
	EarlyDeathPenalty float64

	MembershipWeight float64
	BothDatesWeight  float64
	OneDateWeight    float64
	ReferenceWeight  float64

	// Vocabulary is searched in order; only the first hit counts.
	Vocabulary       []string
	VocabularyWeight float64

	// AcceptanceThreshold must be strictly exceeded for a match to be chosen.
	// Scores are rounded to two places first, so a sum landing exactly on
	// the threshold (0.2+0.1 against 0.3) is rejected. Unrounded float
	// sums would accept it as 0.30000000000000004.
	AcceptanceThreshold float64
}

// ScienceVocabulary lists description terms that suggest a scientific author.
var ScienceVocabulary = []string{
	"scientist",
	"natural philosopher",
	"physicist",
	"chemist",
	"astronomer",
	"mathematician",
	"botanist",
	"surgeon",
	"physician",
	"royal society",
	"frs",
	"fellow",
}

// DefaultPolicy returns the stock weights.
func DefaultPolicy() Policy {
	return Policy{
		MinAge:              15,
		MaxAge:              90,
		PlausibleAgeMin:     20,
		PlausibleAgeMax:     70,
		PlausibleAgeWeight:  0.3,
		EarlyDeathGrace:     5,
		EarlyDeathPenalty:   0.1,
		MembershipWeight:    0.5,
		BothDatesWeight:     0.2,
		OneDateWeight:       0.1,
		ReferenceWeight:     0.1,
		Vocabulary:          ScienceVocabulary,
		VocabularyWeight:    0.1,
		AcceptanceThreshold: 0.3,
	}
}

// WithThreshold returns a copy of p using the given acceptance threshold.
func (p Policy) WithThreshold(threshold float64) Policy {
	p.AcceptanceThreshold = threshold
	return p
}

// Accepts reports whether score clears the acceptance threshold.
func (p Policy) Accepts(score float64) bool {
	return score > p.AcceptanceThreshold
}
