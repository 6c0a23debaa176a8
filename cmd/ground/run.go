package main

import (
	"context"
	"fmt"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/config"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/corpus"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/grounding"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/logging"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/ratelimit"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/scoring"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/wikidata"
)

func runInit(cmd *cobra.Command, ctx *commandContext) error {
	return ctx.withStore(func(_ *config.Config, store *matchstore.Store) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Match table ready in %s\n", store.Path())
		return nil
	})
}

func runStats(cmd *cobra.Command, ctx *commandContext) error {
	return ctx.withStore(func(_ *config.Config, store *matchstore.Store) error {
		st, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderStats(st, shouldColorize(out)))
		return nil
	})
}

func runGround(cmd *cobra.Command, ctx *commandContext, limit int) error {
	logger, err := ctx.logger()
	if err != nil {
		return err
	}
	return ctx.withRunLock(func() error {
		return ctx.withStore(func(cfg *config.Config, store *matchstore.Store) error {
			reader, err := corpus.Open(cfg.Paths.Database)
			if err != nil {
				return fmt.Errorf("open corpus: %w", err)
			}
			defer reader.Close()

			pacer := ratelimit.New(cfg.CallDelay())
			source, err := newSource(cfg, pacer)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), unix.SIGINT, unix.SIGTERM)
			defer stop()

			identities, err := reader.Identities(runCtx)
			if err != nil {
				return fmt.Errorf("read corpus identities: %w", err)
			}

			engine := grounding.New(source, store, engineOptions(cfg, limit),
				grounding.WithLogger(logger),
				grounding.WithPacer(pacer),
			)
			summary, err := engine.Run(runCtx, identities)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d of %d queued names (%d matched, %d failed)\n",
				summary.Processed, summary.Queued, summary.Matched, summary.Failed)
			if summary.Interrupted {
				logger.Info("run interrupted; progress saved", logging.String(logging.FieldRunID, summary.RunID))
				fmt.Fprintln(out, "Interrupted: progress saved, rerun to resume")
			}

			st, err := store.Stats(context.WithoutCancel(runCtx))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderStats(st, shouldColorize(out)))
			return nil
		})
	})
}

func newSource(cfg *config.Config, pacer *ratelimit.Pacer) (*wikidata.Client, error) {
	client, err := wikidata.New(cfg.Wikidata.APIURL, cfg.Wikidata.SPARQLURL, cfg.Wikidata.UserAgent,
		wikidata.WithTimeout(cfg.RequestTimeout()),
		wikidata.WithLanguage(cfg.Wikidata.Language),
		wikidata.WithMembership(cfg.Wikidata.MembershipProperty, cfg.Wikidata.MembershipTarget),
		wikidata.WithPacer(pacer),
	)
	if err != nil {
		return nil, fmt.Errorf("create wikidata client: %w", err)
	}
	return client, nil
}

func engineOptions(cfg *config.Config, limit int) grounding.Options {
	return grounding.Options{
		Policy:         scoring.DefaultPolicy().WithThreshold(cfg.Grounding.AcceptanceThreshold),
		SearchLimit:    cfg.Wikidata.SearchLimit,
		CandidateLimit: cfg.Grounding.CandidateLimit,
		IdentityPause:  cfg.IdentityPause(),
		ProgressEvery:  cfg.Grounding.ProgressEvery,
		Limit:          limit,
	}
}
