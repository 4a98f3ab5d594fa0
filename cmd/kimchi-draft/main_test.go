package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/debemdeboas/kimchi-drafts/internal/model"
)

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "storage:\n" +
		"  backend: " + backend + "\n" +
		"  dir: " + filepath.Join(dir, ".kimchi") + "\n" +
		"database:\n" +
		"  sqlite_path: " + filepath.Join(dir, "database.db") + "\n" +
		"logging:\n" +
		"  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func execute(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--config", configPath))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDraftLifecycle(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := writeConfig(t, backend)

			out, err := execute(t, cfg, "", "status")
			if err != nil {
				t.Fatalf("status failed: %v", err)
			}
			if !strings.Contains(out, "No draft") {
				t.Errorf("Expected 'No draft', got %q", out)
			}

			out, err = execute(t, cfg, "", "save", "--type", "recipe", "--title", "Baechu kimchi",
				"--content", "Salt the cabbage overnight.", "--tag", "kimchi", "--tag", "napa", "--image", "jar.jpg")
			if err != nil {
				t.Fatalf("save failed: %v", err)
			}
			if !strings.Contains(out, "Saved Baechu kimchi (recipe,") {
				t.Errorf("Unexpected save output %q", out)
			}

			if _, err := execute(t, cfg, "", "status", "--check"); err != nil {
				t.Errorf("Expected status --check to succeed with a draft, got %v", err)
			}

			out, err = execute(t, cfg, "", "show", "--json")
			if err != nil {
				t.Fatalf("show failed: %v", err)
			}
			var shown struct {
				Draft *model.PostDraft `json:"draft"`
			}
			if err := json.Unmarshal([]byte(out), &shown); err != nil {
				t.Fatalf("Expected JSON output, got %q: %v", out, err)
			}
			if shown.Draft == nil || shown.Draft.Title != "Baechu kimchi" || shown.Draft.Type != model.PostTypeRecipe {
				t.Errorf("Unexpected draft %+v", shown.Draft)
			}
			if !slices.Equal(shown.Draft.Tags, []string{"kimchi", "napa"}) {
				t.Errorf("Expected tags [kimchi napa], got %v", shown.Draft.Tags)
			}
			if shown.Draft.SavedAt.IsZero() {
				t.Error("Expected savedAt to be set")
			}

			out, err = execute(t, cfg, "", "show")
			if err != nil {
				t.Fatalf("show failed: %v", err)
			}
			for _, want := range []string{"Baechu kimchi", "#kimchi", "jar.jpg", "Salt the cabbage overnight."} {
				if !strings.Contains(out, want) {
					t.Errorf("Expected %q in show output:\n%s", want, out)
				}
			}

			if _, err := execute(t, cfg, "", "clear"); err != nil {
				t.Fatalf("clear failed: %v", err)
			}
			if _, err := execute(t, cfg, "", "status", "--check"); !errors.Is(err, errNoDraft) {
				t.Errorf("Expected errNoDraft after clear, got %v", err)
			}

			out, err = execute(t, cfg, "", "show", "--json")
			if err != nil {
				t.Fatalf("show failed: %v", err)
			}
			if !strings.Contains(out, `"draft": null`) {
				t.Errorf("Expected null draft, got %q", out)
			}
		})
	}
}

func TestSaveBlankForm(t *testing.T) {
	cfg := writeConfig(t, "file")

	if _, err := execute(t, cfg, "", "save", "--title", "Keep me"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out, err := execute(t, cfg, "", "save", "--type", "recipe", "--title", "  ")
	if err != nil {
		t.Fatalf("Expected blank save to succeed, got %v", err)
	}
	if !strings.Contains(out, "Nothing to save") {
		t.Errorf("Expected 'Nothing to save', got %q", out)
	}

	out, _ = execute(t, cfg, "", "status")
	if !strings.Contains(out, "Keep me") {
		t.Errorf("Expected previous draft to survive a blank save, got %q", out)
	}
}

func TestSaveContentFromStdin(t *testing.T) {
	cfg := writeConfig(t, "file")

	if _, err := execute(t, cfg, "Day 3: the jar is bubbling.", "save", "--type", "diary", "--content", "-"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out, err := execute(t, cfg, "", "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "(untitled)") || !strings.Contains(out, "Day 3: the jar is bubbling.") {
		t.Errorf("Unexpected show output %q", out)
	}
}

func TestSaveInvalidType(t *testing.T) {
	cfg := writeConfig(t, "file")

	_, err := execute(t, cfg, "", "save", "--type", "poem", "--title", "x")
	if !errors.Is(err, model.ErrInvalidPostType) {
		t.Errorf("Expected ErrInvalidPostType, got %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "floppy")

	if _, err := execute(t, cfg, "", "status"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestTypes(t *testing.T) {
	out, err := execute(t, filepath.Join(t.TempDir(), "missing.yaml"), "", "types")
	if err != nil {
		t.Fatalf("types failed: %v", err)
	}

	expected := "recipe\nfree\nqna\nreview\ndiary\n"
	if out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestRunExitCodes(t *testing.T) {
	cfg := writeConfig(t, "file")
	ctx := context.Background()

	testCases := []struct {
		name     string
		args     []string
		expected int
	}{
		{"Help", []string{"--config", cfg}, 0},
		{"Check without draft", []string{"status", "--check", "--config", cfg}, 1},
		{"Bad flag", []string{"save", "--bogus"}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(ctx, tc.args); got != tc.expected {
				t.Errorf("Expected exit code %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestSaveFromFile(t *testing.T) {
	cfg := writeConfig(t, "file")
	file := filepath.Join(t.TempDir(), "kkakdugi.md")
	content := "+++\ntype = \"recipe\"\ntitle = \"Kkakdugi\"\ntags = [\"radish\"]\nimages = [\"cubes.jpg\"]\n+++\n\nCube the radish.\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write draft file: %v", err)
	}

	if _, err := execute(t, cfg, "", "save", "--file", file, "--tag", "banchan"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out, err := execute(t, cfg, "", "show", "--json")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	var shown struct {
		Draft *model.PostDraft `json:"draft"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}

	d := shown.Draft
	if d == nil || d.Type != model.PostTypeRecipe || d.Title != "Kkakdugi" || d.Content != "Cube the radish.\n" {
		t.Fatalf("Unexpected draft %+v", d)
	}
	if !slices.Equal(d.Tags, []string{"banchan"}) {
		t.Errorf("Expected command line tags to win, got %v", d.Tags)
	}
	if !slices.Equal(d.Images, []string{"cubes.jpg"}) {
		t.Errorf("Expected images from front matter, got %v", d.Images)
	}
}

func TestSaveAmend(t *testing.T) {
	cfg := writeConfig(t, "file")

	if _, err := execute(t, cfg, "", "save", "--type", "recipe", "--title", "Oi sobagi", "--content", "Stuff the cucumbers.", "--tag", "cucumber"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := execute(t, cfg, "", "save", "--amend", "--tag", "summer", "--tag", "quick"); err != nil {
		t.Fatalf("amend failed: %v", err)
	}

	out, err := execute(t, cfg, "", "show", "--json")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	var shown struct {
		Draft *model.PostDraft `json:"draft"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}

	d := shown.Draft
	if d == nil || d.Type != model.PostTypeRecipe || d.Title != "Oi sobagi" || d.Content != "Stuff the cucumbers." {
		t.Fatalf("Expected untouched fields to be kept, got %+v", d)
	}
	if !slices.Equal(d.Tags, []string{"summer", "quick"}) {
		t.Errorf("Expected amended tags, got %v", d.Tags)
	}

	if _, err := execute(t, cfg, "", "save", "--amend", "--file", "x.md"); err == nil {
		t.Error("Expected --amend and --file to be mutually exclusive")
	}
}
