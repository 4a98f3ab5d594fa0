package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/debemdeboas/kimchi-drafts/internal/config"
)

func TestWriteExample(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExample(&buf); err != nil {
		t.Fatalf("writeExample failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "# kimchi-drafts configuration example") {
		t.Errorf("Expected header, got %q", out[:40])
	}
	for _, want := range []string{"backend: file", "key: kimchi-post-draft", "format: json", "serverless: false"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in example config", want)
		}
	}

	// The example must load back to the defaults.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected example config to be valid, got %v", err)
	}
}
