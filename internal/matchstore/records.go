package matchstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/scoring"
)

// Record is one persisted grounding decision.
type Record struct {
	ID           int64
	Name         string
	FirstPubYear int
	LastPubYear  int
	ArticleCount int
	ChosenID     string
	ChosenLabel  string
	ChosenURL    string
	Confidence   float64
	MatchReason  string
	Candidates   []scoring.Scored
	Reviewed     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Matched reports whether the record carries a chosen identifier.
func (r Record) Matched() bool {
	return r.ChosenID != ""
}

const recordColumns = "id, author_name, first_pub_year, last_pub_year, article_count, qid, wikidata_label, wikipedia_url, confidence, match_reason, candidates_json, reviewed, created_at, updated_at"

// upsertSQL refreshes an existing row only when a decision column differs,
// keeping created_at and leaving updated_at alone for identical re-runs.
const upsertSQL = `INSERT INTO author_wikidata (
    author_name, first_pub_year, last_pub_year, article_count,
    qid, wikidata_label, wikipedia_url, confidence, match_reason,
    candidates_json, reviewed, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(author_name) DO UPDATE SET
    first_pub_year = excluded.first_pub_year,
    last_pub_year = excluded.last_pub_year,
    article_count = excluded.article_count,
    qid = excluded.qid,
    wikidata_label = excluded.wikidata_label,
    wikipedia_url = excluded.wikipedia_url,
    confidence = excluded.confidence,
    match_reason = excluded.match_reason,
    candidates_json = excluded.candidates_json,
    reviewed = excluded.reviewed,
    updated_at = excluded.updated_at
WHERE author_wikidata.first_pub_year IS NOT excluded.first_pub_year
   OR author_wikidata.last_pub_year IS NOT excluded.last_pub_year
   OR author_wikidata.article_count IS NOT excluded.article_count
   OR author_wikidata.qid IS NOT excluded.qid
   OR author_wikidata.wikidata_label IS NOT excluded.wikidata_label
   OR author_wikidata.wikipedia_url IS NOT excluded.wikipedia_url
   OR author_wikidata.confidence IS NOT excluded.confidence
   OR author_wikidata.match_reason IS NOT excluded.match_reason
   OR author_wikidata.candidates_json IS NOT excluded.candidates_json
   OR author_wikidata.reviewed IS NOT excluded.reviewed`

// Upsert writes rec keyed by its name, replacing the decision of any
// existing row.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.Name) == "" {
		return errors.New("record name is empty")
	}
	candidates, err := encodeCandidates(rec.Candidates)
	if err != nil {
		return fmt.Errorf("encode candidates for %q: %w", rec.Name, err)
	}
	now := s.timestamp()
	if _, err := s.execWithRetry(ctx, upsertSQL,
		rec.Name,
		rec.FirstPubYear,
		rec.LastPubYear,
		rec.ArticleCount,
		nullableString(rec.ChosenID),
		nullableString(rec.ChosenLabel),
		nullableString(rec.ChosenURL),
		rec.Confidence,
		rec.MatchReason,
		candidates,
		boolToInt(rec.Reviewed),
		now,
		now,
	); err != nil {
		return fmt.Errorf("upsert %q: %w", rec.Name, err)
	}
	return nil
}

// InsertOverride adds a curated record unless one already exists for the
// name. Curated rows are marked reviewed and carry an empty candidate list.
func (s *Store) InsertOverride(ctx context.Context, rec Record) (bool, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return false, errors.New("record name is empty")
	}
	now := s.timestamp()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO author_wikidata (
            author_name, first_pub_year, last_pub_year, article_count,
            qid, wikidata_label, wikipedia_url, confidence, match_reason,
            candidates_json, reviewed, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '[]', 1, ?, ?)
        ON CONFLICT(author_name) DO NOTHING`,
		rec.Name,
		rec.FirstPubYear,
		rec.LastPubYear,
		rec.ArticleCount,
		nullableString(rec.ChosenID),
		nullableString(rec.ChosenLabel),
		nullableString(rec.ChosenURL),
		rec.Confidence,
		rec.MatchReason,
		now,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("insert override %q: %w", rec.Name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert override %q: %w", rec.Name, err)
	}
	return affected > 0, nil
}

// Get fetches the record for name, or nil when none exists.
func (s *Store) Get(ctx context.Context, name string) (*Record, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM author_wikidata WHERE author_name = ?`, name)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return rec, nil
}

// Exists reports whether a record is stored for name.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM author_wikidata WHERE author_name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check %q: %w", name, err)
	}
	return count > 0, nil
}

// Names returns the set of names that already have a record.
func (s *Store) Names(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT author_name FROM author_wikidata`)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names[name] = struct{}{}
	}
	return names, rows.Err()
}

// Search lists records whose name contains fragment, case-insensitively,
// ordered by article count.
func (s *Store) Search(ctx context.Context, fragment string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM author_wikidata
         WHERE author_name LIKE '%' || ? || '%'
         ORDER BY article_count DESC, author_name
         LIMIT ?`, fragment, limit)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func encodeCandidates(candidates []scoring.Scored) (string, error) {
	if len(candidates) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id           int64
		name         string
		firstPub     sql.NullInt64
		lastPub      sql.NullInt64
		articleCount sql.NullInt64
		qid          sql.NullString
		label        sql.NullString
		url          sql.NullString
		confidence   sql.NullFloat64
		reason       sql.NullString
		candidates   sql.NullString
		reviewed     sql.NullInt64
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&name,
		&firstPub,
		&lastPub,
		&articleCount,
		&qid,
		&label,
		&url,
		&confidence,
		&reason,
		&candidates,
		&reviewed,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:           id,
		Name:         name,
		FirstPubYear: int(firstPub.Int64),
		LastPubYear:  int(lastPub.Int64),
		ArticleCount: int(articleCount.Int64),
		ChosenID:     qid.String,
		ChosenLabel:  label.String,
		ChosenURL:    url.String,
		Confidence:   confidence.Float64,
		MatchReason:  reason.String,
		Reviewed:     reviewed.Valid && reviewed.Int64 != 0,
		CreatedAt:    nullTime(createdRaw),
		UpdatedAt:    nullTime(updatedRaw),
	}
	if candidates.Valid && candidates.String != "" {
		// Older rows may hold audit entries this version cannot read; the
		// decision columns are still returned.
		_ = json.Unmarshal([]byte(candidates.String), &rec.Candidates)
	}
	return rec, nil
}
