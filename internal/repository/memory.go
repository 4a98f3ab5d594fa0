package repository

import (
	"context"

	"github.com/debemdeboas/kimchi-drafts/internal/cache"
)

type MemoryRepository struct { // implements StateRepository
	items *cache.Cache[string, []byte]
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: cache.NewCache[string, []byte](),
	}
}

func (r *MemoryRepository) GetItem(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := r.items.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (r *MemoryRepository) SetItem(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.items.Set(key, append([]byte(nil), value...))
	return nil
}

func (r *MemoryRepository) RemoveItem(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.items.Delete(key)
	return nil
}

func (r *MemoryRepository) Len() int {
	return r.items.Len()
}

func (r *MemoryRepository) Close() error {
	return nil
}
