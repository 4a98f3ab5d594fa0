// Package util provides front matter parsing for draft files.
package util

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

var ErrNoFrontMatter = errors.New("no front matter")

// FrontMatter is the TOML header of a draft file, fenced by %%% or +++ lines.
type FrontMatter struct {
	Type   string   `toml:"type"`
	Title  string   `toml:"title"`
	Tags   []string `toml:"tags"`
	Images []string `toml:"images"`
}

var delimiters = [][]byte{[]byte("%%%"), []byte("+++")}

func normalizeNewlines(md []byte) []byte {
	md = bytes.ReplaceAll(md, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(md, []byte("\r"), []byte("\n"))
}

// SplitFrontMatter separates the front matter from the body. Files without
// front matter return ErrNoFrontMatter along with the whole file as body.
func SplitFrontMatter(md []byte) (*FrontMatter, []byte, error) {
	md = normalizeNewlines(md)
	trimmed := bytes.TrimLeft(md, "\n \t")

	var delimiter []byte
	for _, d := range delimiters {
		if bytes.HasPrefix(trimmed, append(append([]byte(nil), d...), '\n')) {
			delimiter = d
			break
		}
	}
	if delimiter == nil {
		return nil, md, ErrNoFrontMatter
	}

	rest := trimmed[len(delimiter)+1:]
	closing := append(append([]byte("\n"), delimiter...), '\n')
	end := bytes.Index(append([]byte("\n"), rest...), closing)
	if end == -1 {
		// Closing fence on the last line without a trailing newline
		if bytes.Equal(rest, delimiter) || bytes.HasSuffix(rest, append([]byte("\n"), delimiter...)) {
			end = len(rest) - len(delimiter)
		} else {
			return nil, md, fmt.Errorf("unterminated front matter")
		}
	}

	header := rest[:max(end-1, 0)]
	body := []byte{}
	if after := end + len(delimiter) + 1; after < len(rest) {
		body = rest[after:]
	}

	fm := &FrontMatter{}
	if _, err := toml.Decode(string(header), fm); err != nil {
		return nil, md, fmt.Errorf("failed to decode front matter: %w", err)
	}
	return fm, bytes.TrimLeft(body, "\n"), nil
}
