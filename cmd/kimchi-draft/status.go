package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/kimchi-drafts/internal/draft"
)

func newStatusCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether a draft is waiting",
		Long: `Report whether a draft is waiting to be resumed.

With --check nothing is printed and the exit status is 1 when there is no
draft, which suits shell prompts and scripts.

Examples:
  kimchi-draft status
  kimchi-draft status --check && echo "resume your draft"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := styles(cmd)
			return a.withStore(cmd.Context(), func(store *draft.Store) error {
				has := store.HasDraft()
				if check {
					if !has {
						return errNoDraft
					}
					return nil
				}

				out := cmd.OutOrStdout()
				if !has {
					fmt.Fprintln(out, s.dim.Render("No draft"))
					return nil
				}
				d, _ := store.Draft()
				fmt.Fprintf(out, "%s %s %s\n",
					s.ok.Render("Draft:"),
					s.heading.Render(displayTitle(d)),
					s.dim.Render("(saved "+d.SavedAt.Local().Format("2006-01-02 15:04")+")"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Print nothing; exit 1 when there is no draft")
	return cmd
}
