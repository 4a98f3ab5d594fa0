package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/kimchi-drafts/internal/draft"
	"github.com/debemdeboas/kimchi-drafts/internal/model"
)

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current draft",
		Long: `Print the current draft so the compose form can be restored.

--json prints {"draft": ...} in the same layout the store persists,
with a null draft when there is none.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(store *draft.Store) error {
				d, _ := store.Draft()
				if asJSON {
					return writeDraftJSON(cmd.OutOrStdout(), d)
				}
				writeDraft(cmd.OutOrStdout(), styles(cmd), d)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func writeDraftJSON(w io.Writer, d *model.PostDraft) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Draft *model.PostDraft `json:"draft"`
	}{d})
}

func writeDraft(w io.Writer, s styleSet, d *model.PostDraft) {
	if d == nil {
		fmt.Fprintln(w, s.dim.Render("No draft"))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.heading.Render(displayTitle(d)))
	fmt.Fprintf(&b, "%s %s\n", s.label.Render("Type:  "), d.Type)
	fmt.Fprintf(&b, "%s %s\n", s.label.Render("Saved: "), d.SavedAt.Format(time.RFC3339))
	if len(d.Tags) > 0 {
		tags := make([]string, len(d.Tags))
		for i, t := range d.Tags {
			tags[i] = s.tag.Render("#" + t)
		}
		fmt.Fprintf(&b, "%s %s\n", s.label.Render("Tags:  "), strings.Join(tags, " "))
	}
	for _, img := range d.Images {
		fmt.Fprintf(&b, "%s %s\n", s.label.Render("Image: "), img)
	}
	if strings.TrimSpace(d.Content) != "" {
		fmt.Fprintf(&b, "\n%s", d.Content)
	}

	fmt.Fprintln(w, s.box.Render(strings.TrimRight(b.String(), "\n")))
}
