package matchstore

import (
	"context"
	"fmt"
)

// Confidence bucket bounds used by Stats.
const (
	HighConfidence   = 0.7
	MediumConfidence = 0.4
)

// Stats summarizes the match table. High, Medium, Low and Unmatched
// partition Total.
type Stats struct {
	Total     int
	Matched   int
	High      int // matched, confidence >= 0.7
	Medium    int // matched, 0.4 <= confidence < 0.7
	Low       int // matched, confidence < 0.4
	Unmatched int
	Reviewed  int
}

// Stats computes aggregate counts over all records.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	const query = `SELECT
        COUNT(1),
        COALESCE(SUM(CASE WHEN qid IS NOT NULL AND qid <> '' THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN qid IS NOT NULL AND qid <> '' AND COALESCE(confidence, 0) >= ? THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN qid IS NOT NULL AND qid <> '' AND COALESCE(confidence, 0) >= ? AND COALESCE(confidence, 0) < ? THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN qid IS NOT NULL AND qid <> '' AND COALESCE(confidence, 0) < ? THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN reviewed = 1 THEN 1 ELSE 0 END), 0)
    FROM author_wikidata`

	var st Stats
	err := s.db.QueryRowContext(ensureContext(ctx), query,
		HighConfidence,
		MediumConfidence, HighConfidence,
		MediumConfidence,
	).Scan(&st.Total, &st.Matched, &st.High, &st.Medium, &st.Low, &st.Reviewed)
	if err != nil {
		return Stats{}, fmt.Errorf("match stats: %w", err)
	}
	st.Unmatched = st.Total - st.Matched
	return st, nil
}

// Bucket names the confidence band of a record.
func Bucket(rec Record) string {
	switch {
	case !rec.Matched():
		return "unmatched"
	case rec.Confidence >= HighConfidence:
		return "high"
	case rec.Confidence >= MediumConfidence:
		return "medium"
	default:
		return "low"
	}
}
