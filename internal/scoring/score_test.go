package scoring_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/scoring"
)

const (
	firstPub = 1700
	lastPub  = 1750
)

func TestScoreClampsToOne(t *testing.T) {
	c := scoring.Candidate{
		ID:            "Q1",
		BirthYear:     scoring.Year(1680),
		DeathYear:     scoring.Year(1760),
		IsHuman:       true,
		HasMembership: true,
		ReferenceURL:  "https://en.wikipedia.org/wiki/Example",
		Description:   "astronomer and mathematician",
	}
	got := scoring.Score(scoring.DefaultPolicy(), c, firstPub, lastPub)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, []string{
		"reasonable age 20 at first pub",
		"Fellow of Royal Society",
		"has birth/death dates",
		"has Wikipedia",
		"desc mentions 'astronomer'",
	}, got.Reasons)
}

func TestScoreTooYoungDisqualifies(t *testing.T) {
	c := scoring.Candidate{
		BirthYear:     scoring.Year(1745),
		IsHuman:       true,
		HasMembership: true,
		ReferenceURL:  "https://en.wikipedia.org/wiki/Example",
	}
	got := scoring.Score(scoring.DefaultPolicy(), c, firstPub, lastPub)
	assert.Zero(t, got.Score)
	assert.Equal(t, []string{"Too young (-45) at first pub"}, got.Reasons)
}

func TestScoreDiedBeforeFirstPubDisqualifies(t *testing.T) {
	c := scoring.Candidate{
		BirthYear:     scoring.Year(1640),
		DeathYear:     scoring.Year(1690),
		IsHuman:       true,
		HasMembership: true,
		ReferenceURL:  "https://en.wikipedia.org/wiki/Example",
		Description:   "natural philosopher",
	}
	got := scoring.Score(scoring.DefaultPolicy(), c, firstPub, lastPub)
	assert.Zero(t, got.Score)
	assert.Equal(t, []string{"Died 1690 before first pub 1700"}, got.Reasons)
}

func TestScoreDisqualifierOrder(t *testing.T) {
	cases := []struct {
		name string
		c    scoring.Candidate
		want string
	}{
		{"not human", scoring.Candidate{HasMembership: true, DeathYear: scoring.Year(1720)}, "Not a human entity"},
		{"born after last pub wins over age", scoring.Candidate{BirthYear: scoring.Year(1760), DeathYear: scoring.Year(1650)}, "Born 1760 after last pub 1750"},
		{"too old", scoring.Candidate{BirthYear: scoring.Year(1600)}, "Too old (100) at first pub"},
		{"age before death", scoring.Candidate{BirthYear: scoring.Year(1690), DeathYear: scoring.Year(1695)}, "Too young (10) at first pub"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scoring.Score(scoring.DefaultPolicy(), tc.c, firstPub, lastPub)
			assert.Zero(t, got.Score)
			assert.Equal(t, []string{tc.want}, got.Reasons)
		})
	}
}

func TestScoreBirthYearImpliesHuman(t *testing.T) {
	c := scoring.Candidate{BirthYear: scoring.Year(1660), IsHuman: false}
	got := scoring.Score(scoring.DefaultPolicy(), c, firstPub, lastPub)
	assert.InDelta(t, 0.4, got.Score, 1e-9)
	assert.Equal(t, []string{"reasonable age 40 at first pub", "has partial dates"}, got.Reasons)
}

func TestScoreBasicMatch(t *testing.T) {
	got := scoring.Score(scoring.DefaultPolicy(), scoring.Candidate{IsHuman: true}, firstPub, lastPub)
	assert.Zero(t, got.Score)
	assert.Equal(t, []string{scoring.BasicMatch}, got.Reasons)
}

func TestScoreEarlyDeathPenaltyClampsAtZero(t *testing.T) {
	c := scoring.Candidate{IsHuman: true, DeathYear: scoring.Year(1710)}
	got := scoring.Score(scoring.DefaultPolicy(), c, firstPub, lastPub)
	// -0.1 penalty plus 0.1 for a single date.
	assert.Zero(t, got.Score)
	assert.Equal(t, []string{"died 1710 before last pub 1750", "has partial dates"}, got.Reasons)

	c.Description = "Surgeon"
	got = scoring.Score(scoring.DefaultPolicy(), c, firstPub, lastPub)
	assert.InDelta(t, 0.1, got.Score, 1e-9)
	assert.Contains(t, got.Reasons, "desc mentions 'surgeon'")
}

func TestScoreOnlyFirstVocabularyTermCounts(t *testing.T) {
	c := scoring.Candidate{IsHuman: true, Description: "English physician, chemist and Fellow of the Royal Society"}
	got := scoring.Score(scoring.DefaultPolicy(), c, firstPub, lastPub)
	assert.InDelta(t, 0.1, got.Score, 1e-9)
	assert.Equal(t, []string{"desc mentions 'chemist'"}, got.Reasons)
}

func TestScoreStaysInRange(t *testing.T) {
	policy := scoring.DefaultPolicy()
	for birth := 1580; birth <= 1760; birth += 7 {
		for death := 1650; death <= 1800; death += 11 {
			for _, member := range []bool{false, true} {
				c := scoring.Candidate{
					IsHuman:       true,
					BirthYear:     scoring.Year(birth),
					DeathYear:     scoring.Year(death),
					HasMembership: member,
					ReferenceURL:  "x",
					Description:   "botanist",
				}
				got := scoring.Score(policy, c, firstPub, lastPub)
				require.GreaterOrEqual(t, got.Score, 0.0)
				require.LessOrEqual(t, got.Score, 1.0)
				require.NotEmpty(t, got.Reasons)
			}
		}
	}
}

func TestScoreThresholdIsStrict(t *testing.T) {
	// 0.2 (both dates) + 0.1 (link) lands exactly on the threshold.
	c := scoring.Candidate{
		IsHuman:      true,
		BirthYear:    scoring.Year(1600),
		DeathYear:    scoring.Year(1800),
		ReferenceURL: "x",
	}
	policy := scoring.DefaultPolicy()
	got := scoring.Score(policy, c, 1685, 1800)
	require.Equal(t, 0.3, got.Score)
	assert.False(t, policy.Accepts(got.Score))
	assert.True(t, policy.WithThreshold(0.25).Accepts(got.Score))

	// One date, a link and a keyword: 0.1+0.1+0.1 sums above 0.3 in floats.
	partial := scoring.Candidate{
		IsHuman:      true,
		DeathYear:    scoring.Year(1800),
		ReferenceURL: "x",
		Description:  "chemist",
	}
	got = scoring.Score(policy, partial, 1685, 1800)
	require.Equal(t, 0.3, got.Score)
	assert.False(t, policy.Accepts(got.Score))
}

func TestScoredJSONAuditShape(t *testing.T) {
	s := scoring.Scored{
		Candidate: scoring.Candidate{
			ID:            "Q46830",
			Label:         "Robert Hooke",
			Description:   "English natural philosopher",
			BirthYear:     scoring.Year(1635),
			IsHuman:       true,
			HasMembership: true,
		},
		Score:   0.9,
		Reasons: []string{"Fellow of Royal Society", "has partial dates"},
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Q46830", raw["qid"])
	assert.Equal(t, "Fellow of Royal Society; has partial dates", raw["reason"])
	assert.Nil(t, raw["death"])
	assert.Equal(t, true, raw["frs"])

	var back scoring.Scored
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}
