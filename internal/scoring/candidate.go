package scoring

import (
	"encoding/json"
	"strings"
)

// Candidate is one knowledge-base entity considered for a name.
type Candidate struct {
	ID            string
	Label         string
	Description   string
	BirthYear     *int
	DeathYear     *int
	IsHuman       bool
	HasMembership bool
	ReferenceURL  string
}

// Scored pairs a candidate with its score and the reasons behind it.
type Scored struct {
	Candidate
	Score   float64
	Reasons []string
}

// ReasonSeparator joins reasons into a single match_reason string.
const ReasonSeparator = "; "

// Reason returns the reasons joined for storage and display.
func (s Scored) Reason() string {
	return strings.Join(s.Reasons, ReasonSeparator)
}

// auditEntry is the stored shape of one scored candidate.
type auditEntry struct {
	QID         string  `json:"qid"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Birth       *int    `json:"birth"`
	Death       *int    `json:"death"`
	Human       bool    `json:"human"`
	FRS         bool    `json:"frs"`
	Wikipedia   string  `json:"wikipedia,omitempty"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

func (s Scored) MarshalJSON() ([]byte, error) {
	return json.Marshal(auditEntry{
		QID:         s.ID,
		Label:       s.Label,
		Description: s.Description,
		Birth:       s.BirthYear,
		Death:       s.DeathYear,
		Human:       s.IsHuman,
		FRS:         s.HasMembership,
		Wikipedia:   s.ReferenceURL,
		Score:       s.Score,
		Reason:      s.Reason(),
	})
}

func (s *Scored) UnmarshalJSON(data []byte) error {
	var entry auditEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	*s = Scored{
		Candidate: Candidate{
			ID:            entry.QID,
			Label:         entry.Label,
			Description:   entry.Description,
			BirthYear:     entry.Birth,
			DeathYear:     entry.Death,
			IsHuman:       entry.Human,
			HasMembership: entry.FRS,
			ReferenceURL:  entry.Wikipedia,
		},
		Score: entry.Score,
	}
	if entry.Reason != "" {
		s.Reasons = strings.Split(entry.Reason, ReasonSeparator)
	}
	return nil
}

// Year is a helper for building candidates with known dates.
func Year(y int) *int {
	return &y
}
