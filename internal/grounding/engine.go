package grounding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/corpus"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/logging"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/names"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/ratelimit"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/scoring"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/wikidata"
)

// Store is the subset of the match store the engine writes to.
type Store interface {
	Names(ctx context.Context) (map[string]struct{}, error)
	Upsert(ctx context.Context, rec matchstore.Record) error
	BeginRun(ctx context.Context, runID string, queued int) error
	FinishRun(ctx context.Context, run matchstore.Run) error
}

// Options tunes one engine.
type Options struct {
	Policy         scoring.Policy
	SearchLimit    int
	CandidateLimit int
	IdentityPause  time.Duration
	ProgressEvery  int
	// Limit caps identities processed per run; zero means no cap.
	Limit int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Policy:         scoring.DefaultPolicy(),
		SearchLimit:    10,
		CandidateLimit: 5,
		IdentityPause:  500 * time.Millisecond,
		ProgressEvery:  10,
	}
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID       string
	Queued      int
	Processed   int
	Matched     int
	Failed      int
	Interrupted bool
}

// Engine resolves identities against a knowledge-base source.
type Engine struct {
	source   wikidata.Source
	store    Store
	pacer    *ratelimit.Pacer
	logger   *slog.Logger
	opts     Options
	newRunID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPacer sets the pacer used for inter-identity pauses.
func WithPacer(p *ratelimit.Pacer) Option {
	return func(e *Engine) {
		e.pacer = p
	}
}

// WithRunIDs overrides run identifier generation.
func WithRunIDs(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newRunID = gen
		}
	}
}

// New builds an engine.
func New(source wikidata.Source, store Store, opts Options, options ...Option) *Engine {
	defaults := DefaultOptions()
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = defaults.SearchLimit
	}
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = defaults.CandidateLimit
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = defaults.ProgressEvery
	}
	if opts.Policy.Vocabulary == nil && opts.Policy.MaxAge == 0 {
		opts.Policy = defaults.Policy
	}
	e := &Engine{
		source:   source,
		store:    store,
		logger:   logging.NewNop(),
		opts:     opts,
		newRunID: uuid.NewString,
	}
	for _, opt := range options {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "grounding")
	return e
}

// Run resolves every identity without a stored decision. Cancelling ctx
// stops the loop after the identity in flight has been persisted; that is
// reported through Summary.Interrupted rather than as an error.
func (e *Engine) Run(ctx context.Context, identities []corpus.Identity) (Summary, error) {
	existing, err := e.store.Names(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load existing names: %w", err)
	}
	queue := WorkQueue(identities, existing, e.opts.Limit)

	summary := Summary{RunID: e.newRunID(), Queued: len(queue)}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, e.logger)
	detached := context.WithoutCancel(ctx)

	if err := e.store.BeginRun(ctx, summary.RunID, summary.Queued); err != nil {
		return summary, err
	}
	logger.Info("grounding run started",
		logging.Int("identities", len(identities)),
		logging.Int("already_done", len(existing)),
		logging.Int("queued", summary.Queued),
	)

	sampler := logging.NewProgressSampler(e.opts.ProgressEvery, summary.Queued)
	for i, identity := range queue {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		if i > 0 {
			if err := e.pacer.Pause(ctx, e.opts.IdentityPause); err != nil {
				summary.Interrupted = true
				break
			}
		}

		rec, err := e.resolveAndStore(detached, identity)
		summary.Processed++
		switch {
		case err != nil:
			summary.Failed++
			logging.ErrorWithContext(logger, "identity failed", "identity_failed",
				logging.String(logging.FieldAuthor, identity.Name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "rerun to retry; unresolved names stay queued"),
			)
		case rec.Matched():
			summary.Matched++
		}

		if sampler.Tick() {
			logger.Info("grounding progress",
				logging.Int("processed", summary.Processed),
				logging.Int("queued", summary.Queued),
				logging.Int("matched", summary.Matched),
				logging.Int("failed", summary.Failed),
			)
		}
	}

	if err := e.store.FinishRun(detached, matchstore.Run{
		ID:          summary.RunID,
		Processed:   summary.Processed,
		Matched:     summary.Matched,
		Failed:      summary.Failed,
		Interrupted: summary.Interrupted,
	}); err != nil {
		logging.WarnWithContext(logger, "failed to record run summary", "run_audit_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "grounding_runs row left unfinished"),
		)
	}
	logger.Info("grounding run finished",
		logging.Int("processed", summary.Processed),
		logging.Int("matched", summary.Matched),
		logging.Int("failed", summary.Failed),
		logging.Bool("interrupted", summary.Interrupted),
	)
	return summary, nil
}

func (e *Engine) resolveAndStore(ctx context.Context, identity corpus.Identity) (matchstore.Record, error) {
	rec := e.Resolve(ctx, identity)
	if err := e.store.Upsert(ctx, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Resolve searches, scores and selects for one identity. Knowledge-base
// failures are logged and treated as missing data.
func (e *Engine) Resolve(ctx context.Context, identity corpus.Identity) matchstore.Record {
	ctx = logging.WithAuthor(ctx, identity.Name)
	logger := logging.WithContext(ctx, e.logger)

	hits := e.search(ctx, logger, identity.Name)
	if len(hits) > e.opts.CandidateLimit {
		hits = hits[:e.opts.CandidateLimit]
	}

	scored := make([]scoring.Scored, 0, len(hits))
	for _, hit := range hits {
		candidate, ok := e.fetchCandidate(ctx, logger, hit)
		if !ok {
			continue
		}
		s := scoring.Score(e.opts.Policy, candidate, identity.FirstPubYear, identity.LastPubYear)
		logger.Debug("candidate scored",
			logging.String(logging.FieldQID, s.ID),
			logging.String("label", s.Label),
			logging.Float64("score", s.Score),
			logging.String("reason", s.Reason()),
		)
		scored = append(scored, s)
	}

	rec := SelectBest(e.opts.Policy, identity, scored)
	result := "rejected"
	if rec.Matched() {
		result = "accepted"
	}
	attrs := append([]logging.Attr{
		logging.String(logging.FieldQID, rec.ChosenID),
		logging.Float64("confidence", rec.Confidence),
		logging.Int("candidates", len(scored)),
	}, logging.DecisionAttrs("match", result, rec.MatchReason)...)
	logger.Info("identity resolved", logging.Args(attrs...)...)
	return rec
}

// search tries each query form in order and returns the first non-empty
// hit list.
func (e *Engine) search(ctx context.Context, logger *slog.Logger, name string) []wikidata.SearchHit {
	for _, form := range names.SearchForms(name) {
		hits, err := e.source.Search(ctx, form, e.opts.SearchLimit)
		if err != nil {
			logging.WarnWithContext(logger, "knowledge-base search failed", "wikidata_search_failed",
				logging.String("query", form),
				logging.Error(err),
				logging.String(logging.FieldImpact, "query treated as returning no hits"),
				logging.String(logging.FieldErrorHint, "check network access to the Wikidata API"),
			)
			continue
		}
		if len(hits) > 0 {
			return hits
		}
		logger.Debug("no search hits", logging.String("query", form))
	}
	return nil
}

// fetchCandidate gathers details and membership for one hit. ok is false
// when the details could not be fetched; the hit is then dropped.
func (e *Engine) fetchCandidate(ctx context.Context, logger *slog.Logger, hit wikidata.SearchHit) (scoring.Candidate, bool) {
	entity, err := e.source.EntityDetails(ctx, hit.ID)
	if err != nil {
		if errors.Is(err, wikidata.ErrNotFound) {
			logger.Debug("candidate has no details", logging.String(logging.FieldQID, hit.ID))
		} else {
			logging.WarnWithContext(logger, "candidate details unavailable", "wikidata_details_failed",
				logging.String(logging.FieldQID, hit.ID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "candidate dropped from scoring"),
			)
		}
		return scoring.Candidate{}, false
	}

	member, err := e.source.HasMembership(ctx, hit.ID)
	if err != nil {
		logging.WarnWithContext(logger, "membership check failed", "wikidata_membership_failed",
			logging.String(logging.FieldQID, hit.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "membership taken from details only"),
		)
		member = false
	}

	return scoring.Candidate{
		ID:            hit.ID,
		Label:         firstNonEmpty(entity.Label, hit.Label),
		Description:   firstNonEmpty(entity.Description, hit.Description),
		BirthYear:     entity.BirthYear,
		DeathYear:     entity.DeathYear,
		IsHuman:       entity.IsHuman,
		HasMembership: entity.IsMember || member,
		ReferenceURL:  entity.WikipediaURL,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
