package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/config"
	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/matchstore"
)

const suggestionLimit = 10

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a stored decision with its scored candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return ctx.withStore(func(_ *config.Config, store *matchstore.Store) error {
				rec, err := store.Get(cmd.Context(), name)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if rec != nil {
					fmt.Fprintln(out, renderRecord(rec, shouldColorize(out)))
					return nil
				}

				similar, err := store.Search(cmd.Context(), strings.TrimSpace(name), suggestionLimit)
				if err != nil {
					return err
				}
				if len(similar) == 0 {
					return fmt.Errorf("no decision stored for %q", name)
				}
				fmt.Fprintf(out, "No decision stored for %q. Similar names:\n", name)
				for _, r := range similar {
					fmt.Fprintf(out, "  %s\n", r.Name)
				}
				return nil
			})
		},
	}
}
