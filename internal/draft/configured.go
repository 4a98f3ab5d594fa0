package draft

import (
	"context"
	"fmt"

	"github.com/debemdeboas/kimchi-drafts/internal/config"
	"github.com/debemdeboas/kimchi-drafts/internal/repository"
)

// OptionsFromConfig translates the storage section into store options.
// Shared backends get a per-client key, resolving the client id if needed.
func OptionsFromConfig(cfg *config.StorageConfig) ([]Option, error) {
	codec, err := CodecFor(cfg.Format)
	if err != nil {
		return nil, err
	}

	if cfg.Shared() {
		if _, err := cfg.ResolveClientID(); err != nil {
			return nil, err
		}
	}

	return []Option{
		WithKey(cfg.ScopedKey()),
		WithCodec(codec),
		WithStrict(cfg.Strict),
	}, nil
}

// OpenConfigured opens the configured repository and a store on top of it.
// The caller owns the returned repository and must close it.
func OpenConfigured(ctx context.Context, cfg *config.Config, opts ...Option) (*Store, repository.StateRepository, error) {
	base, err := OptionsFromConfig(&cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	repo, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening %s storage: %w", cfg.Storage.Backend, err)
	}

	store, err := Open(ctx, repo, append(base, opts...)...)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	return store, repo, nil
}
