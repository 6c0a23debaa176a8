package scoring

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// BasicMatch is the reason recorded when no signal fired.
const BasicMatch = "basic match"

// NotHuman is the reason for candidates with no evidence of being a person.
const NotHuman = "Not a human entity"

// disqualifier returns its reason when it fires.
type disqualifier func(p Policy, c Candidate, firstPub, lastPub int) (string, bool)

// signal returns a score delta and reason when it applies.
type signal func(p Policy, c Candidate, firstPub, lastPub int) (float64, string, bool)

var disqualifiers = []disqualifier{
	notHuman,
	bornAfterLastPub,
	implausibleAge,
	diedBeforeFirstPub,
}

var signals = []signal{
	plausibleAge,
	earlyDeath,
	membership,
	dates,
	reference,
	vocabulary,
}

// Score rates c against an author active from firstPub to lastPub.
func Score(p Policy, c Candidate, firstPub, lastPub int) Scored {
	out := Scored{Candidate: c}
	for _, rule := range disqualifiers {
		if reason, hit := rule(p, c, firstPub, lastPub); hit {
			out.Reasons = []string{reason}
			return out
		}
	}

	total := 0.0
	for _, sig := range signals {
		delta, reason, ok := sig(p, c, firstPub, lastPub)
		if !ok {
			continue
		}
		total += delta
		out.Reasons = append(out.Reasons, reason)
	}
	if len(out.Reasons) == 0 {
		out.Reasons = []string{BasicMatch}
	}
	out.Score = clamp(total)
	return out
}

// clamp bounds the score to [0, 1] and rounds to two places so sums such as
// 0.2+0.1 compare exactly against the threshold.
func clamp(v float64) float64 {
	v = math.Round(v*100) / 100
	return math.Min(1, math.Max(0, v))
}

func notHuman(_ Policy, c Candidate, _, _ int) (string, bool) {
	if !c.IsHuman && c.BirthYear == nil {
		return NotHuman, true
	}
	return "", false
}

func bornAfterLastPub(_ Policy, c Candidate, _, lastPub int) (string, bool) {
	if c.BirthYear != nil && *c.BirthYear > lastPub {
		return fmt.Sprintf("Born %d after last pub %d", *c.BirthYear, lastPub), true
	}
	return "", false
}

func implausibleAge(p Policy, c Candidate, firstPub, _ int) (string, bool) {
	if c.BirthYear == nil {
		return "", false
	}
	age := firstPub - *c.BirthYear
	switch {
	case age < p.MinAge:
		return fmt.Sprintf("Too young (%d) at first pub", age), true
	case age > p.MaxAge:
		return fmt.Sprintf("Too old (%d) at first pub", age), true
	}
	return "", false
}

func diedBeforeFirstPub(_ Policy, c Candidate, firstPub, _ int) (string, bool) {
	if c.DeathYear != nil && *c.DeathYear < firstPub {
		return fmt.Sprintf("Died %d before first pub %d", *c.DeathYear, firstPub), true
	}
	return "", false
}

func plausibleAge(p Policy, c Candidate, firstPub, _ int) (float64, string, bool) {
	if c.BirthYear == nil {
		return 0, "", false
	}
	age := firstPub - *c.BirthYear
	if age < p.PlausibleAgeMin || age > p.PlausibleAgeMax {
		return 0, "", false
	}
	return p.PlausibleAgeWeight, fmt.Sprintf("reasonable age %d at first pub", age), true
}

func earlyDeath(p Policy, c Candidate, _, lastPub int) (float64, string, bool) {
	if c.DeathYear == nil || *c.DeathYear >= lastPub-p.EarlyDeathGrace {
		return 0, "", false
	}
	return -p.EarlyDeathPenalty, fmt.Sprintf("died %d before last pub %d", *c.DeathYear, lastPub), true
}

func membership(p Policy, c Candidate, _, _ int) (float64, string, bool) {
	if !c.HasMembership {
		return 0, "", false
	}
	return p.MembershipWeight, "Fellow of Royal Society", true
}

func dates(p Policy, c Candidate, _, _ int) (float64, string, bool) {
	switch {
	case c.BirthYear != nil && c.DeathYear != nil:
		return p.BothDatesWeight, "has birth/death dates", true
	case c.BirthYear != nil || c.DeathYear != nil:
		return p.OneDateWeight, "has partial dates", true
	}
	return 0, "", false
}

func reference(p Policy, c Candidate, _, _ int) (float64, string, bool) {
	if strings.TrimSpace(c.ReferenceURL) == "" {
		return 0, "", false
	}
	return p.ReferenceWeight, "has Wikipedia", true
}

func vocabulary(p Policy, c Candidate, _, _ int) (float64, string, bool) {
	if c.Description == "" {
		return 0, "", false
	}
	fold := cases.Fold()
	desc := fold.String(c.Description)
	for _, term := range p.Vocabulary {
		if strings.Contains(desc, fold.String(term)) {
			return p.VocabularyWeight, fmt.Sprintf("desc mentions '%s'", term), true
		}
	}
	return 0, "", false
}
