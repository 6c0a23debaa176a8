package overrides

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/corpus"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/logging"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
)

// Status is the outcome of applying one entry.
type Status string

const (
	StatusInserted Status = "inserted"
	StatusExists   Status = "already exists"
	StatusNotFound Status = "not found in corpus"
	StatusTooWeak  Status = "at or below threshold"
)

// Outcome records what happened to one entry.
type Outcome struct {
	Batch  string
	Author string
	QID    string
	Status Status
}

// Report summarizes an Apply call.
type Report struct {
	Inserted        int
	SkippedExisting int
	SkippedNotFound int
	SkippedTooWeak  int
	Outcomes        []Outcome
}

// Skipped returns the total of skipped entries.
func (r Report) Skipped() int {
	return r.SkippedExisting + r.SkippedNotFound + r.SkippedTooWeak
}

// CorpusLookup resolves a name to its publication window.
type CorpusLookup interface {
	Lookup(ctx context.Context, name string) (corpus.Identity, bool, error)
}

// Store is the subset of the match store used by Apply.
type Store interface {
	Exists(ctx context.Context, name string) (bool, error)
	InsertOverride(ctx context.Context, rec matchstore.Record) (bool, error)
}

// Apply inserts every entry whose name occurs in the corpus and has no record
// yet. An entry is stored as a chosen match, so its confidence must exceed
// threshold like any scored decision. Skips are outcomes, not errors; an
// error aborts the remaining entries.
func Apply(ctx context.Context, batches []Batch, threshold float64, lookup CorpusLookup, store Store, logger *slog.Logger) (Report, error) {
	logger = logging.NewComponentLogger(logger, "overrides")
	var report Report

	for _, batch := range batches {
		for _, entry := range batch.Matches {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			outcome := Outcome{Batch: batch.Name, Author: entry.Author, QID: entry.QID}

			if entry.Confidence <= threshold {
				outcome.Status = StatusTooWeak
				report.SkippedTooWeak++
				report.Outcomes = append(report.Outcomes, outcome)
				logging.WarnWithContext(logger, "override skipped", "override_below_threshold",
					logging.String(logging.FieldAuthor, entry.Author),
					logging.Float64("confidence", entry.Confidence),
					logging.Float64("threshold", threshold),
					logging.String(logging.FieldImpact, "name left for automatic grounding"),
					logging.String(logging.FieldErrorHint, "raise the entry confidence or drop the entry"),
				)
				continue
			}

			identity, found, err := lookup.Lookup(ctx, entry.Author)
			if err != nil {
				return report, fmt.Errorf("look up %q: %w", entry.Author, err)
			}
			if !found {
				outcome.Status = StatusNotFound
				report.SkippedNotFound++
				report.Outcomes = append(report.Outcomes, outcome)
				logger.Info("override skipped", logging.String(logging.FieldAuthor, entry.Author), logging.String("outcome", string(StatusNotFound)))
				continue
			}

			exists, err := store.Exists(ctx, entry.Author)
			if err != nil {
				return report, err
			}
			inserted := false
			if !exists {
				inserted, err = store.InsertOverride(ctx, matchstore.Record{
					Name:         entry.Author,
					FirstPubYear: identity.FirstPubYear,
					LastPubYear:  identity.LastPubYear,
					ArticleCount: identity.ArticleCount,
					ChosenID:     entry.QID,
					ChosenLabel:  entry.Label,
					ChosenURL:    entry.Wikipedia,
					Confidence:   entry.Confidence,
					MatchReason:  entry.Reason,
				})
				if err != nil {
					return report, err
				}
			}
			if !inserted {
				outcome.Status = StatusExists
				report.SkippedExisting++
				report.Outcomes = append(report.Outcomes, outcome)
				logger.Debug("override skipped", logging.String(logging.FieldAuthor, entry.Author), logging.String("outcome", string(StatusExists)))
				continue
			}

			outcome.Status = StatusInserted
			report.Inserted++
			report.Outcomes = append(report.Outcomes, outcome)
			logger.Info("override inserted",
				logging.String(logging.FieldAuthor, entry.Author),
				logging.String(logging.FieldQID, entry.QID),
				logging.String("label", entry.Label),
			)
		}
	}
	return report, nil
}
