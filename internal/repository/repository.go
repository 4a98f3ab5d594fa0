// Package repository provides durable key-value storage for client-side state
// such as the in-progress post draft.
package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("state not found")

// ErrCorruptValue means a value is stored under the key but cannot be read
// back, for example because it was written with different compression.
var ErrCorruptValue = errors.New("corrupt state value")

// StateRepository is a small key-value store in the spirit of browser local
// storage: one opaque value per key.
type StateRepository interface {
	// GetItem returns ErrNotFound when nothing is stored under key.
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
	// RemoveItem succeeds when the key does not exist.
	RemoveItem(ctx context.Context, key string) error
	Close() error
}

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

var errEmptyKey = errors.New("empty state key")

func checkKey(key string) error {
	if key == "" {
		return errEmptyKey
	}
	return nil
}
