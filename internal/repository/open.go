package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/debemdeboas/kimchi-drafts/internal/config"
	"github.com/debemdeboas/kimchi-drafts/internal/db"
	"github.com/debemdeboas/kimchi-drafts/internal/util/compression"
)

// Open builds the state repository selected by cfg.Storage.Backend, wrapped
// in compression when cfg.Storage.Compress is set.
func Open(ctx context.Context, cfg *config.Config) (StateRepository, error) {
	repo, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Compress {
		c, err := compression.ForName(cfg.Storage.Compression)
		if err != nil {
			repo.Close()
			return nil, err
		}
		repo = NewCompressedRepository(repo, c)
	}

	repoLogger.Info().
		Str("backend", cfg.Storage.Backend).
		Bool("compress", cfg.Storage.Compress).
		Msg("State repository opened")
	return repo, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (StateRepository, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return NewMemoryRepository(), nil
	case config.BackendFile:
		return NewFSRepository(cfg.Storage.Dir)
	case config.BackendSQLite:
		sqlite := db.NewSQLite(cfg.Database.SQLitePath)
		if err := sqlite.InitDB(); err != nil {
			sqlite.Close()
			return nil, err
		}
		return NewDBRepository(sqlite), nil
	case config.BackendGorm:
		return NewGormRepository(cfg.Database.URL, cfg.Database.Serverless)
	case config.BackendRedis:
		return NewRedisRepository(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.TTL)
	case config.BackendS3:
		return NewS3Repository(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
