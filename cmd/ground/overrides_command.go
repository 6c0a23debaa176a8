package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/config"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/corpus"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/overrides"
)

func newOverridesCommand(ctx *commandContext) *cobra.Command {
	overridesCmd := &cobra.Command{
		Use:   "overrides",
		Short: "Curated manual matches",
	}
	overridesCmd.AddCommand(newOverridesApplyCommand(ctx))
	return overridesCmd
}

func newOverridesApplyCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Insert curated matches for names that have no decision yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			return ctx.withRunLock(func() error {
				return ctx.withStore(func(cfg *config.Config, store *matchstore.Store) error {
					batches, err := overrides.Load(cfg.Overrides)
					if err != nil {
						return err
					}
					reader, err := corpus.Open(cfg.Paths.Database)
					if err != nil {
						return fmt.Errorf("open corpus: %w", err)
					}
					defer reader.Close()

					report, err := overrides.Apply(cmd.Context(), batches, cfg.Grounding.AcceptanceThreshold, reader, store, logger)
					if err != nil {
						return err
					}

					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Inserted: %d\n", report.Inserted)
					fmt.Fprintf(out, "Skipped (already exists): %d\n", report.SkippedExisting)
					fmt.Fprintf(out, "Skipped (not found in corpus): %d\n", report.SkippedNotFound)
					fmt.Fprintf(out, "Skipped (at or below threshold): %d\n", report.SkippedTooWeak)
					if verbose && len(report.Outcomes) > 0 {
						rows := make([][]string, 0, len(report.Outcomes))
						for _, o := range report.Outcomes {
							rows = append(rows, []string{o.Batch, o.Author, o.QID, string(o.Status)})
						}
						fmt.Fprintln(out, renderTable([]string{"Batch", "Author", "QID", "Outcome"}, rows, nil, shouldColorize(out)))
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List the outcome of every entry")
	return cmd
}
