package draft

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/debemdeboas/kimchi-drafts/internal/config"
	"github.com/debemdeboas/kimchi-drafts/internal/model"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.Dir = filepath.Join(t.TempDir(), ".kimchi")
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "database.db")
	return cfg
}

func TestOptionsFromConfig(t *testing.T) {
	t.Run("Unknown format", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Storage.Format = "xml"
		if _, err := OptionsFromConfig(&cfg.Storage); !errors.Is(err, ErrUnknownCodec) {
			t.Errorf("Expected ErrUnknownCodec, got %v", err)
		}
	})

	t.Run("Local backend keeps the plain key", func(t *testing.T) {
		cfg := testConfig(t)
		if _, err := OptionsFromConfig(&cfg.Storage); err != nil {
			t.Fatalf("OptionsFromConfig failed: %v", err)
		}
		if cfg.Storage.ClientID != "" {
			t.Errorf("Expected no client id for file backend, got %q", cfg.Storage.ClientID)
		}
	})

	t.Run("Shared backend resolves a client id", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Storage.Backend = config.BackendRedis
		if _, err := OptionsFromConfig(&cfg.Storage); err != nil {
			t.Fatalf("OptionsFromConfig failed: %v", err)
		}
		if cfg.Storage.ClientID == "" {
			t.Fatal("Expected generated client id")
		}
		if _, err := os.Stat(filepath.Join(cfg.Storage.Dir, config.ClientIDFile)); err != nil {
			t.Errorf("Expected client id file, got %v", err)
		}
	})
}

func TestOpenConfigured(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{config.BackendFile, config.BackendSQLite, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage.Backend = backend
			cfg.Storage.Format = CodecYAML

			store, repo, err := OpenConfigured(ctx, cfg)
			if err != nil {
				t.Fatalf("OpenConfigured failed: %v", err)
			}
			defer repo.Close()

			if err := store.Save(ctx, model.DraftInput{Type: model.PostTypeRecipe, Title: "Oi sobagi"}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			data, err := repo.GetItem(ctx, cfg.Storage.Key)
			if err != nil {
				t.Fatalf("GetItem failed: %v", err)
			}
			if !strings.Contains(string(data), "title: Oi sobagi") {
				t.Errorf("Expected YAML record, got %s", data)
			}
		})
	}

	t.Run("Gorm with sqlite url scopes the key", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Storage.Backend = config.BackendGorm
		cfg.Storage.ClientID = "11111111-2222-3333-4444-555555555555"
		cfg.Database.URL = "sqlite://" + filepath.Join(t.TempDir(), "gorm.db")

		store, repo, err := OpenConfigured(ctx, cfg)
		if err != nil {
			t.Fatalf("OpenConfigured failed: %v", err)
		}
		defer repo.Close()

		expected := "kimchi-post-draft:11111111-2222-3333-4444-555555555555"
		if store.Key() != expected {
			t.Errorf("Expected key %q, got %q", expected, store.Key())
		}
	})

	t.Run("Compressed file backend survives a restart", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Storage.Compress = true
		cfg.Storage.Compression = config.CompressionGzip

		store, repo, err := OpenConfigured(ctx, cfg)
		if err != nil {
			t.Fatalf("OpenConfigured failed: %v", err)
		}
		if err := store.Save(ctx, model.DraftInput{Type: model.PostTypeDiary, Content: "Fermenting, day 2"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		repo.Close()

		reopened, repo2, err := OpenConfigured(ctx, cfg)
		if err != nil {
			t.Fatalf("OpenConfigured failed: %v", err)
		}
		defer repo2.Close()
		d, ok := reopened.Draft()
		if !ok || d.Content != "Fermenting, day 2" {
			t.Errorf("Expected restored draft, got %+v", d)
		}
	})

	t.Run("Switching compression on an existing record", func(t *testing.T) {
		cfg := testConfig(t)

		store, repo, err := OpenConfigured(ctx, cfg)
		if err != nil {
			t.Fatalf("OpenConfigured failed: %v", err)
		}
		if err := store.Save(ctx, model.DraftInput{Type: model.PostTypeFree, Title: "Hello"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		repo.Close()

		cfg.Storage.Compress = true

		cfg.Storage.Strict = true
		if _, _, err := OpenConfigured(ctx, cfg); !errors.Is(err, ErrCorruptState) {
			t.Errorf("Expected ErrCorruptState in strict mode, got %v", err)
		}

		cfg.Storage.Strict = false
		lenient, repo2, err := OpenConfigured(ctx, cfg)
		if err != nil {
			t.Fatalf("Expected lenient open to succeed, got %v", err)
		}
		if lenient.HasDraft() {
			t.Error("Expected empty store after discarding the record")
		}
		if err := lenient.Clear(ctx); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		repo2.Close()

		cfg.Storage.Strict = true
		recovered, repo3, err := OpenConfigured(ctx, cfg)
		if err != nil {
			t.Fatalf("Expected rewritten record to open in strict mode, got %v", err)
		}
		defer repo3.Close()
		if recovered.HasDraft() {
			t.Error("Expected no draft after clear")
		}
	})

	t.Run("Strict mode rejects a corrupt record", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Storage.Strict = true
		if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(cfg.Storage.Dir, cfg.Storage.Key+".state"), []byte("{"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, _, err := OpenConfigured(ctx, cfg); !errors.Is(err, ErrCorruptState) {
			t.Errorf("Expected ErrCorruptState, got %v", err)
		}
	})
}
