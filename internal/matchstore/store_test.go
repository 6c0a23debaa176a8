package matchstore_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/scoring"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/testsupport"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func sampleRecord() matchstore.Record {
	return matchstore.Record{
		Name:         "Robert Hooke",
		FirstPubYear: 1665,
		LastPubYear:  1702,
		ArticleCount: 42,
		ChosenID:     "Q46830",
		ChosenLabel:  "Robert Hooke",
		ChosenURL:    "https://en.wikipedia.org/wiki/Robert_Hooke",
		Confidence:   1,
		MatchReason:  "reasonable age 30 at first pub; Fellow of Royal Society",
		Candidates: []scoring.Scored{{
			Candidate: scoring.Candidate{ID: "Q46830", Label: "Robert Hooke", BirthYear: scoring.Year(1635), IsHuman: true, HasMembership: true},
			Score:     1,
			Reasons:   []string{"reasonable age 30 at first pub", "Fellow of Royal Society"},
		}},
	}
}

func TestOpenCreatesSchemaOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Reopening an initialized database must succeed.
	again := testsupport.MustOpenStore(t, cfg)
	if again.Path() != cfg.Paths.Database {
		t.Fatalf("unexpected path %q", again.Path())
	}
}

func TestOpenAdoptsLegacyTable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedCorpus(t, cfg.Paths.Database)
	db, err := sql.Open("sqlite", cfg.Paths.Database)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE author_wikidata (
        id INTEGER PRIMARY KEY AUTOINCREMENT, author_name TEXT UNIQUE NOT NULL,
        first_pub_year INTEGER, last_pub_year INTEGER, article_count INTEGER,
        qid TEXT, wikidata_label TEXT, wikipedia_url TEXT, confidence REAL,
        match_reason TEXT, candidates_json TEXT, reviewed INTEGER DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP, updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP);
        INSERT INTO author_wikidata (author_name, qid, confidence, match_reason) VALUES ('John Wallis', 'Q313058', 0.95, 'manual');`)
	db.Close()
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}

	store := testsupport.MustOpenStore(t, cfg)
	rec, err := store.Get(context.Background(), "John Wallis")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec == nil || rec.ChosenID != "Q313058" {
		t.Fatalf("expected legacy row to survive, got %#v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("expected legacy CURRENT_TIMESTAMP to parse")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.Paths.Database)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`UPDATE grounding_schema_version SET version = 99`); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := matchstore.Open(cfg); !errors.Is(err, matchstore.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := sampleRecord()
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := store.Get(ctx, rec.Name)
	if err != nil || got == nil {
		t.Fatalf("Get: %v %v", got, err)
	}
	if got.ChosenID != rec.ChosenID || got.Confidence != 1 || got.ArticleCount != 42 {
		t.Fatalf("unexpected record: %#v", got)
	}
	if len(got.Candidates) != 1 || got.Candidates[0].ID != "Q46830" || got.Candidates[0].Reason() != rec.MatchReason {
		t.Fatalf("unexpected candidates: %#v", got.Candidates)
	}
	if got.Reviewed {
		t.Fatal("scored records should not be reviewed")
	}

	missing, err := store.Get(ctx, "Nobody")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing record, got %#v %v", missing, err)
	}
}

func TestUpsertReplacesDecisionAndKeepsCreatedAt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	clock := &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := testsupport.MustOpenStore(t, cfg, matchstore.WithClock(clock.now))
	ctx := context.Background()

	rec := sampleRecord()
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	first, _ := store.Get(ctx, rec.Name)

	rec.ChosenID = ""
	rec.ChosenLabel = ""
	rec.ChosenURL = ""
	rec.Confidence = 0.2
	rec.MatchReason = "basic match"
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	second, _ := store.Get(ctx, rec.Name)
	if second.ChosenID != "" || second.Confidence != 0.2 {
		t.Fatalf("expected replaced decision, got %#v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("updated_at not refreshed: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
	if second.ID != first.ID {
		t.Fatalf("row identity changed: %d -> %d", first.ID, second.ID)
	}
}

func TestUpsertIdenticalDecisionIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	clock := &stepClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := testsupport.MustOpenStore(t, cfg, matchstore.WithClock(clock.now))
	ctx := context.Background()

	rec := sampleRecord()
	for i := 0; i < 3; i++ {
		if err := store.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert %d: %v", i, err)
		}
	}
	got, _ := store.Get(ctx, rec.Name)
	if !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatalf("identical upserts should not touch updated_at: created %v updated %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestUpsertRejectsEmptyName(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if err := store.Upsert(context.Background(), matchstore.Record{Name: "  "}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestInsertOverrideNeverReplaces(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Upsert(ctx, sampleRecord()); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	inserted, err := store.InsertOverride(ctx, matchstore.Record{
		Name: "Robert Hooke", ChosenID: "Q1", Confidence: 0.5, MatchReason: "manual",
	})
	if err != nil {
		t.Fatalf("InsertOverride: %v", err)
	}
	if inserted {
		t.Fatal("override must not replace an existing record")
	}
	got, _ := store.Get(ctx, "Robert Hooke")
	if got.ChosenID != "Q46830" {
		t.Fatalf("existing record modified: %#v", got)
	}

	inserted, err = store.InsertOverride(ctx, matchstore.Record{
		Name: "Hans Sloane", FirstPubYear: 1685, LastPubYear: 1740, ArticleCount: 30,
		ChosenID: "Q336977", ChosenLabel: "Hans Sloane", Confidence: 0.95, MatchReason: "Manual: physician",
		Candidates: sampleRecord().Candidates,
	})
	if err != nil || !inserted {
		t.Fatalf("InsertOverride new: %v %v", inserted, err)
	}
	got, _ = store.Get(ctx, "Hans Sloane")
	if !got.Reviewed || len(got.Candidates) != 0 || got.ChosenURL != "" {
		t.Fatalf("override should be reviewed with empty candidates, got %#v", got)
	}
}

func TestNamesAndExists(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for _, name := range []string{"A. B.", "Mr. Ray", "John Ray"} {
		if err := store.Upsert(ctx, matchstore.Record{Name: name, MatchReason: "no candidates found"}); err != nil {
			t.Fatalf("Upsert %s: %v", name, err)
		}
	}
	names, err := store.Names(ctx)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %v", names)
	}
	if _, ok := names["Mr. Ray"]; !ok {
		t.Fatal("names must be exact strings")
	}
	ok, err := store.Exists(ctx, "john ray")
	if err != nil || ok {
		t.Fatalf("Exists should be case-sensitive, got %v %v", ok, err)
	}

	found, err := store.Search(ctx, "ray", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 search results, got %d", len(found))
	}
}

func TestStatsPartitionTable(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	rows := []matchstore.Record{
		{Name: "h1", ChosenID: "Q1", Confidence: 1},
		{Name: "h2", ChosenID: "Q2", Confidence: 0.7},
		{Name: "m1", ChosenID: "Q3", Confidence: 0.69},
		{Name: "m2", ChosenID: "Q4", Confidence: 0.4},
		{Name: "l1", ChosenID: "Q5", Confidence: 0.35},
		{Name: "u1", Confidence: 0.2},
		{Name: "u2", Confidence: 0},
	}
	for _, r := range rows {
		if err := store.Upsert(ctx, r); err != nil {
			t.Fatalf("Upsert %s: %v", r.Name, err)
		}
	}
	// Manual low-confidence override counts as a low match.
	if _, err := store.InsertOverride(ctx, matchstore.Record{Name: "l2", ChosenID: "Q6", Confidence: 0.1}); err != nil {
		t.Fatalf("InsertOverride: %v", err)
	}

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := matchstore.Stats{Total: 8, Matched: 6, High: 2, Medium: 2, Low: 2, Unmatched: 2, Reviewed: 1}
	if st != want {
		t.Fatalf("Stats = %+v, want %+v", st, want)
	}
	if st.High+st.Medium+st.Low+st.Unmatched != st.Total {
		t.Fatalf("buckets do not partition total: %+v", st)
	}

	for _, r := range rows {
		got, _ := store.Get(ctx, r.Name)
		if b := matchstore.Bucket(*got); b == "" {
			t.Fatalf("no bucket for %s", r.Name)
		}
	}
	if matchstore.Bucket(rows[2]) != "medium" || matchstore.Bucket(rows[5]) != "unmatched" {
		t.Fatal("unexpected bucket classification")
	}
}

func TestStatsEmptyTable(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	st, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st != (matchstore.Stats{}) {
		t.Fatalf("expected zero stats, got %+v", st)
	}
}

func TestRunAudit(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if run, err := store.LastRun(ctx); err != nil || run != nil {
		t.Fatalf("expected no runs, got %#v %v", run, err)
	}
	if err := store.BeginRun(ctx, "run-1", 5); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.FinishRun(ctx, matchstore.Run{ID: "run-1", Processed: 3, Matched: 2, Failed: 1, Interrupted: true}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	run, err := store.LastRun(ctx)
	if err != nil || run == nil {
		t.Fatalf("LastRun: %#v %v", run, err)
	}
	if run.Queued != 5 || run.Processed != 3 || run.Matched != 2 || run.Failed != 1 || !run.Interrupted {
		t.Fatalf("unexpected run: %#v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Fatal("expected finished_at")
	}
	if err := store.FinishRun(ctx, matchstore.Run{ID: "missing"}); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.lock")
	first, err := matchstore.AcquireLock(path)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := matchstore.AcquireLock(path); !errors.Is(err, matchstore.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := matchstore.AcquireLock(path)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	_ = second.Release()
}
