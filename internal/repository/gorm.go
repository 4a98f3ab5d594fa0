package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type StateRecord struct {
	Key       string `gorm:"column:state_key;primaryKey;size:255"`
	Value     []byte `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (StateRecord) TableName() string { return "state_records" }

// GormRepository stores state through gorm, on Postgres for postgres URLs and
// SQLite otherwise.
type GormRepository struct { // implements StateRepository
	db *gorm.DB
}

// Dialector picks the gorm driver for url. serverless switches Postgres to the
// simple protocol so it works behind transaction-mode poolers.
func Dialector(url string, serverless bool) gorm.Dialector {
	if isPostgresURL(url) {
		return postgres.New(postgres.Config{
			DSN:                  url,
			PreferSimpleProtocol: serverless,
		})
	}
	return sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
}

func isPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://") ||
		strings.Contains(url, "host=")
}

func NewGormRepository(url string, serverless bool) (*GormRepository, error) {
	if url == "" {
		return nil, errors.New("database url is required")
	}

	gdb, err := gorm.Open(Dialector(url, serverless), &gorm.Config{
		Logger:      newGormLogger(),
		PrepareStmt: !serverless,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get database handle: %w", err)
	}
	if serverless {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(30 * time.Second)
	} else {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
	}

	repo, err := NewGormRepositoryFromDB(gdb)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	repoLogger.Info().
		Bool("serverless", serverless).
		Str("dialect", gdb.Dialector.Name()).
		Msg("Gorm state repository ready")
	return repo, nil
}

func NewGormRepositoryFromDB(gdb *gorm.DB) (*GormRepository, error) {
	if err := gdb.AutoMigrate(&StateRecord{}); err != nil {
		return nil, fmt.Errorf("migrate state_records: %w", err)
	}
	return &GormRepository{db: gdb}, nil
}

func (r *GormRepository) GetItem(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var rec StateRecord
	err := r.db.WithContext(ctx).Where("state_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading state %s: %w", key, err)
	}
	return rec.Value, nil
}

func (r *GormRepository) SetItem(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	rec := StateRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("error saving state %s: %w", key, err)
	}
	return nil
}

func (r *GormRepository) RemoveItem(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Where("state_key = ?", key).Delete(&StateRecord{}).Error; err != nil {
		return fmt.Errorf("error removing state %s: %w", key, err)
	}
	return nil
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...interface{}) {
	repoLogger.Debug().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger() gormlogger.Interface {
	return gormlogger.New(gormLogWriter{}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
