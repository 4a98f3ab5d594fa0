package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/kimchi-drafts/internal/draft"
)

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the current draft",
		Long: `Discard the current draft, usually after the post was published.

Clearing when no draft exists is not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := styles(cmd)
			return a.withStore(cmd.Context(), func(store *draft.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.ok.Render("Draft cleared"))
				return nil
			})
		},
	}
}
