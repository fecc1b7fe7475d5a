package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fabshop/backend/internal/infrastructure/config"
	"github.com/fabshop/backend/internal/infrastructure/logger"
)

// kvRecord is the single table backing the gorm store. Collections
// serialize as whole text values keyed by collection name.
type kvRecord struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName overrides the table name
func (kvRecord) TableName() string {
	return "kv_records"
}

// GormStore is a Store backed by a relational database through gorm,
// using sqlite or postgres depending on configuration
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore opens the configured database, migrates the key-value
// table and returns the store. Gorm's own logging is routed through
// the zap adapter.
func OpenGormStore(cfg config.StoreConfig, zapLogger *zap.Logger) (*GormStore, error) {
	gormCfg := &gorm.Config{
		Logger: logger.NewGormLogger(zapLogger, gormlogger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN), gormCfg)
	default:
		return nil, fmt.Errorf("gorm store does not support driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}

	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStore wraps an already-open gorm handle, migrating the
// key-value table. Used by tests with sqlite in memory.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Get returns the value under key and whether one is present
func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var record kvRecord
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.Value, true, nil
}

// Set writes the value under key
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	record := kvRecord{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Save(&record).Error
}

// Remove deletes the value under key
func (s *GormStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&kvRecord{}, "key = ?", key).Error
}

// Close releases the underlying database handle
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Store = (*GormStore)(nil)
