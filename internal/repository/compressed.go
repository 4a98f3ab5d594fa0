package repository

import (
	"context"
	"fmt"

	"github.com/debemdeboas/kimchi-drafts/internal/util/compression"
)

// CompressedRepository compresses values on the way into inner and
// decompresses them on the way out.
type CompressedRepository struct { // implements StateRepository
	inner      StateRepository
	compressor compression.Compressor
}

func NewCompressedRepository(inner StateRepository, compressor compression.Compressor) *CompressedRepository {
	return &CompressedRepository{
		inner:      inner,
		compressor: compressor,
	}
}

func (r *CompressedRepository) GetItem(ctx context.Context, key string) ([]byte, error) {
	compressed, err := r.inner.GetItem(ctx, key)
	if err != nil {
		return nil, err
	}

	value, err := r.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: error decompressing state %s: %v", ErrCorruptValue, key, err)
	}
	return value, nil
}

func (r *CompressedRepository) SetItem(ctx context.Context, key string, value []byte) error {
	compressed, err := r.compressor.Compress(value)
	if err != nil {
		return fmt.Errorf("error compressing state %s: %w", key, err)
	}
	return r.inner.SetItem(ctx, key, compressed)
}

func (r *CompressedRepository) RemoveItem(ctx context.Context, key string) error {
	return r.inner.RemoveItem(ctx, key)
}

func (r *CompressedRepository) Close() error {
	return r.inner.Close()
}
