package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var initOnly bool
	var statsOnly bool
	var limit int

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "ground",
		Short:         "Ground Philosophical Transactions authors to Wikidata",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}
			switch {
			case initOnly:
				return runInit(cmd, ctx)
			case statsOnly:
				return runStats(cmd, ctx)
			default:
				return runGround(cmd, ctx, limit)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&initOnly, "init", false, "Create the match table and exit")
	rootCmd.Flags().BoolVar(&statsOnly, "stats", false, "Print match statistics and exit")
	rootCmd.Flags().IntVar(&limit, "limit", 0, "Ground at most N names this run (0 = all)")
	rootCmd.MarkFlagsMutuallyExclusive("init", "stats")

	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newOverridesCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
