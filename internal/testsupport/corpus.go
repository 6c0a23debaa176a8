package testsupport

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Publication is one authored article in a seeded corpus. A zero Year is
// stored as NULL.
type Publication struct {
	Name string
	Year int
}

// Articles expands a name into count publications spread evenly from first
// to last year.
func Articles(name string, first, last, count int) []Publication {
	if count <= 1 {
		return []Publication{{Name: name, Year: first}}
	}
	out := make([]Publication, 0, count)
	for i := 0; i < count; i++ {
		year := first + (last-first)*i/(count-1)
		out = append(out, Publication{Name: name, Year: year})
	}
	return out
}

// SeedCorpus creates the documents and authors tables at path and inserts
// one document per publication.
func SeedCorpus(t testing.TB, path string, pubs ...[]Publication) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for corpus: %v", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open corpus: %v", err)
	}
	defer db.Close()

	const ddl = `
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT,
    year INTEGER
);
CREATE TABLE IF NOT EXISTS authors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    document_id INTEGER REFERENCES documents(id),
    full_name TEXT
);`
	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("create corpus tables: %v", err)
	}

	for _, group := range pubs {
		for _, pub := range group {
			res, err := db.Exec(`INSERT INTO documents (title, year) VALUES (?, ?)`, "Article by "+pub.Name, nullableYear(pub.Year))
			if err != nil {
				t.Fatalf("insert document: %v", err)
			}
			docID, err := res.LastInsertId()
			if err != nil {
				t.Fatalf("document id: %v", err)
			}
			if _, err := db.Exec(`INSERT INTO authors (document_id, full_name) VALUES (?, ?)`, docID, pub.Name); err != nil {
				t.Fatalf("insert author: %v", err)
			}
		}
	}
}

func nullableYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}
