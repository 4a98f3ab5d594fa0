package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/kimchi-drafts/internal/draft"
	"github.com/debemdeboas/kimchi-drafts/internal/model"
	"github.com/debemdeboas/kimchi-drafts/internal/util"
)

type saveFlags struct {
	file     string
	amend    bool
	postType string
	title    string
	content  string
	tags     []string
	images   []string
}

func newSaveCmd(a *app) *cobra.Command {
	flags := &saveFlags{}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the compose form as the current draft",
		Long: `Save the compose form as the current draft, replacing any previous one.

A form whose title and content are both blank is ignored and the stored
draft is left untouched. Use --content - to read the content from stdin.

--file loads a markdown file whose optional TOML front matter (fenced by
%%% or +++) sets type, title, tags and images; the rest becomes the content.
Flags given on the command line override the file.

--amend starts from the current draft and replaces only the fields given
as flags, like reopening the compose form.

Examples:
  kimchi-draft save --type recipe --title "Baechu kimchi" --tag kimchi --tag napa
  kimchi-draft save --type diary --content - < notes.md
  kimchi-draft save --file drafts/kkakdugi.md
  kimchi-draft save --amend --tag fermented`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSave(cmd, a, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Markdown file with optional TOML front matter")
	cmd.Flags().StringVarP(&flags.postType, "type", "t", string(model.PostTypeFree), "Post type ("+typeList()+")")
	cmd.Flags().StringVar(&flags.title, "title", "", "Post title")
	cmd.Flags().StringVar(&flags.content, "content", "", "Post content, or - to read stdin")
	cmd.Flags().StringArrayVar(&flags.tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringArrayVar(&flags.images, "image", nil, "Image URL or path (repeatable)")
	cmd.Flags().BoolVar(&flags.amend, "amend", false, "Start from the current draft")
	cmd.MarkFlagsMutuallyExclusive("amend", "file")
	return cmd
}

func runSave(cmd *cobra.Command, a *app, flags *saveFlags) error {
	if flags.file != "" {
		if err := applyFile(cmd, flags); err != nil {
			return err
		}
	}

	postType, err := model.ParsePostType(flags.postType)
	if err != nil {
		return err
	}

	content := flags.content
	if content == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("error reading content from stdin: %w", err)
		}
		content = string(data)
	}

	in := model.DraftInput{
		Type:    postType,
		Title:   flags.title,
		Content: content,
		Tags:    flags.tags,
		Images:  flags.images,
	}

	s := styles(cmd)
	out := cmd.OutOrStdout()
	return a.withStore(cmd.Context(), func(store *draft.Store) error {
		if flags.amend {
			if current, ok := store.Draft(); ok {
				in = amend(cmd, current.Input(), in)
			}
		}
		if in.IsBlank() {
			fmt.Fprintln(out, s.warn.Render("Nothing to save: title and content are blank"))
			return nil
		}
		if err := store.Save(cmd.Context(), in); err != nil {
			return err
		}

		d, _ := store.Draft()
		fmt.Fprintf(out, "%s %s %s\n",
			s.ok.Render("Saved"),
			s.heading.Render(displayTitle(d)),
			s.dim.Render("("+string(d.Type)+", "+d.SavedAt.Format("2006-01-02 15:04:05 MST")+")"))
		return nil
	})
}

// amend overlays the flags given on the command line onto base.
func amend(cmd *cobra.Command, base, flags model.DraftInput) model.DraftInput {
	changed := cmd.Flags().Changed
	if changed("type") {
		base.Type = flags.Type
	}
	if changed("title") {
		base.Title = flags.Title
	}
	if changed("content") {
		base.Content = flags.Content
	}
	if changed("tag") {
		base.Tags = flags.Tags
	}
	if changed("image") {
		base.Images = flags.Images
	}
	return base
}

// applyFile fills every flag not set on the command line from the file.
func applyFile(cmd *cobra.Command, flags *saveFlags) error {
	data, err := os.ReadFile(flags.file)
	if err != nil {
		return fmt.Errorf("error reading draft file: %w", err)
	}

	fm, body, err := util.SplitFrontMatter(data)
	if errors.Is(err, util.ErrNoFrontMatter) {
		fm = &util.FrontMatter{}
	} else if err != nil {
		return fmt.Errorf("%s: %w", flags.file, err)
	}

	changed := cmd.Flags().Changed
	if !changed("type") && fm.Type != "" {
		flags.postType = fm.Type
	}
	if !changed("title") {
		flags.title = fm.Title
	}
	if !changed("content") {
		flags.content = string(body)
	}
	if !changed("tag") {
		flags.tags = fm.Tags
	}
	if !changed("image") {
		flags.images = fm.Images
	}
	return nil
}

func typeList() string {
	types := model.AllPostTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func displayTitle(d *model.PostDraft) string {
	if t := strings.TrimSpace(d.Title); t != "" {
		return t
	}
	return "(untitled)"
}
