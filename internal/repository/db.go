package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/debemdeboas/kimchi-drafts/internal/db"
)

// DBRepository stores state rows in the SQLite `state` table created by db.InitDB.
type DBRepository struct { // implements StateRepository
	db db.DB
}

func NewDBRepository(db db.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) GetItem(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading state %s: %w", key, err)
	}
	return value, nil
}

func (r *DBRepository) SetItem(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("error saving state %s: %w", key, err)
	}

	repoLogger.Debug().Interface("result", res).Str("key", key).Msg("State saved")
	return nil
}

func (r *DBRepository) RemoveItem(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("error removing state %s: %w", key, err)
	}
	return nil
}

func (r *DBRepository) Close() error {
	return r.db.Close()
}
