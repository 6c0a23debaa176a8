// Package corpus reads author identities from the bibliographic database.
package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// Identity is one distinct author name with its publication window.
type Identity struct {
	Name         string
	FirstPubYear int
	LastPubYear  int
	ArticleCount int
}

// Reader runs read-only queries against the corpus tables.
type Reader struct {
	db *sql.DB
}

const identitiesQuery = `SELECT
    a.full_name,
    MIN(d.year),
    MAX(d.year),
    COUNT(*)
FROM authors a
JOIN documents d ON a.document_id = d.id
WHERE a.full_name IS NOT NULL
  AND a.full_name <> ''
  AND length(a.full_name) > 2`

// Open connects to the corpus database at path in query-only mode.
func Open(path string) (*Reader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("corpus path required")
	}
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?_pragma=query_only(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	r := &Reader{db: db}
	if err := r.check(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) check(ctx context.Context) error {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name IN ('authors', 'documents')`,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("inspect corpus: %w", err)
	}
	if count != 2 {
		return errors.New("corpus database lacks authors/documents tables")
	}
	return nil
}

// Close releases the connection.
func (r *Reader) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// datedOnly drops names none of whose documents carries a year; without a
// publication window there is nothing to score against.
const datedOnly = `
HAVING MIN(d.year) IS NOT NULL`

// Identities returns every distinct author name with at least one dated
// document, most prolific first.
func (r *Reader) Identities(ctx context.Context) ([]Identity, error) {
	rows, err := r.db.QueryContext(ctx, identitiesQuery+`
GROUP BY a.full_name`+datedOnly+`
ORDER BY COUNT(*) DESC, a.full_name`)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var out []Identity
	for rows.Next() {
		id, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return out, nil
}

// Lookup returns the identity for an exact name. ok is false when the name
// does not occur in the corpus or has no dated document.
func (r *Reader) Lookup(ctx context.Context, name string) (Identity, bool, error) {
	row := r.db.QueryRowContext(ctx, identitiesQuery+`
  AND a.full_name = ?
GROUP BY a.full_name`+datedOnly, name)
	id, err := scanIdentity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}
	return id, true, nil
}

func scanIdentity(scanner interface{ Scan(dest ...any) error }) (Identity, error) {
	var (
		id          Identity
		first, last sql.NullInt64
	)
	if err := scanner.Scan(&id.Name, &first, &last, &id.ArticleCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, err
		}
		return Identity{}, fmt.Errorf("scan identity: %w", err)
	}
	id.FirstPubYear = int(first.Int64)
	id.LastPubYear = int(last.Int64)
	return id, nil
}
