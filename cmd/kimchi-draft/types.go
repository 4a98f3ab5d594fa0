package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/kimchi-drafts/internal/model"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the post types a draft can have",
		Args:  cobra.NoArgs,
		// Needs no config or storage.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range model.AllPostTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
