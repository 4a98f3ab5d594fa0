package model

import (
	"strings"
	"time"
)

// DraftInput is what the compose form hands to the draft store.
type DraftInput struct {
	Type    PostType `json:"type" yaml:"type" toml:"type"`
	Title   string   `json:"title" yaml:"title" toml:"title"`
	Content string   `json:"content" yaml:"content" toml:"content"`
	Tags    []string `json:"tags" yaml:"tags" toml:"tags"`
	Images  []string `json:"images" yaml:"images" toml:"images"`
}

// IsBlank reports whether both title and content are empty after trimming.
func (in DraftInput) IsBlank() bool {
	return isBlank(in.Title, in.Content)
}

// PostDraft is an unsaved post. SavedAt is only ever set by the draft store.
type PostDraft struct {
	Type    PostType  `json:"type" yaml:"type" toml:"type"`
	Title   string    `json:"title" yaml:"title" toml:"title"`
	Content string    `json:"content" yaml:"content" toml:"content"`
	Tags    []string  `json:"tags" yaml:"tags" toml:"tags"`
	Images  []string  `json:"images" yaml:"images" toml:"images"`
	SavedAt time.Time `json:"savedAt" yaml:"savedAt" toml:"savedAt"`
}

// NewPostDraft stamps the input with savedAt. Tags and images are copied.
func NewPostDraft(in DraftInput, savedAt time.Time) *PostDraft {
	return &PostDraft{
		Type:    in.Type,
		Title:   in.Title,
		Content: in.Content,
		Tags:    cloneStrings(in.Tags),
		Images:  cloneStrings(in.Images),
		SavedAt: savedAt,
	}
}

func (d *PostDraft) IsBlank() bool {
	return isBlank(d.Title, d.Content)
}

func (d *PostDraft) Input() DraftInput {
	return DraftInput{
		Type:    d.Type,
		Title:   d.Title,
		Content: d.Content,
		Tags:    cloneStrings(d.Tags),
		Images:  cloneStrings(d.Images),
	}
}

func (d *PostDraft) Clone() *PostDraft {
	if d == nil {
		return nil
	}
	c := *d
	c.Tags = cloneStrings(d.Tags)
	c.Images = cloneStrings(d.Images)
	return &c
}

func isBlank(title, content string) bool {
	return strings.TrimSpace(title) == "" && strings.TrimSpace(content) == ""
}

// Never returns nil, so empty lists serialize as [] rather than null.
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
