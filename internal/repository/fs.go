package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"net/url"
	"path/filepath"
)

const stateFileSuffix = ".state"

// FSRepository keeps one file per key under dir. Writes go through a temp
// file and a rename so a crash never leaves a half-written record.
type FSRepository struct { // implements StateRepository
	dir string
}

func NewFSRepository(dir string) (*FSRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir %s: %w", dir, err)
	}
	return &FSRepository{dir: dir}, nil
}

// path escapes key so distinct keys never share a file and no key can
// leave dir.
func (r *FSRepository) path(key string) string {
	return filepath.Join(r.dir, url.QueryEscape(key)+stateFileSuffix)
}

func (r *FSRepository) GetItem(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", key, err)
	}
	return data, nil
}

func (r *FSRepository) SetItem(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, ".tmp-*"+stateFileSuffix)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write state %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync state %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state %s: %w", key, err)
	}

	if err := os.Rename(tmpName, r.path(key)); err != nil {
		return fmt.Errorf("replace state %s: %w", key, err)
	}

	repoLogger.Debug().Str("key", key).Int("bytes", len(value)).Msg("State file written")
	return nil
}

func (r *FSRepository) RemoveItem(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(r.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state %s: %w", key, err)
	}
	return nil
}

func (r *FSRepository) Close() error {
	return nil
}
