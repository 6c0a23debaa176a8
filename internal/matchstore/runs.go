package matchstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is the audit row for one engine invocation.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Queued      int
	Processed   int
	Matched     int
	Failed      int
	Interrupted bool
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context, runID string, queued int) error {
	if runID == "" {
		return errors.New("run id is empty")
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO grounding_runs (run_id, started_at, queued) VALUES (?, ?, ?)`,
		runID, s.timestamp(), queued,
	); err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE grounding_runs
         SET finished_at = ?, processed = ?, matched = ?, failed = ?, interrupted = ?
         WHERE run_id = ?`,
		s.timestamp(), run.Processed, run.Matched, run.Failed, boolToInt(run.Interrupted), run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: unknown run %q", run.ID)
	}
	return nil
}

// LastRun returns the most recently started run, or nil when none exist.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	var (
		run                  Run
		startedRaw, finished sql.NullString
		interrupted          int
	)
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT run_id, started_at, finished_at, queued, processed, matched, failed, interrupted
         FROM grounding_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`,
	).Scan(&run.ID, &startedRaw, &finished, &run.Queued, &run.Processed, &run.Matched, &run.Failed, &interrupted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last run: %w", err)
	}
	run.StartedAt = nullTime(startedRaw)
	run.FinishedAt = nullTime(finished)
	run.Interrupted = interrupted != 0
	return &run, nil
}
