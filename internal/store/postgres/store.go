package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/office-management/internal/core/datamodel/kv"
	"github.com/frahmantamala/office-management/internal/store"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore implements store.Store on the kv_entries table. It runs on both the
// postgres and sqlite gorm dialects.
type KVStore struct {
	db *gorm.DB
}

func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

var _ store.Store = (*KVStore)(nil)

// AutoMigrate creates kv_entries for dialects that are not managed by goose.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&kv.Entry{})
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry kv.Entry
	err := s.db.WithContext(ctx).Where(&kv.Entry{Key: key}).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

// Set upserts the value and bumps the row version.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	now := time.Now()
	entry := kv.Entry{
		Key:       key,
		Value:     datatypes.JSON(value),
		Version:   1,
		UpdatedAt: now,
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      entry.Value,
			"version":    gorm.Expr("kv_entries.version + 1"),
			"updated_at": now,
		}),
	}).Create(&entry).Error
}

// Version returns the write counter for key, or 0 when it was never written.
func (s *KVStore) Version(ctx context.Context, key string) (int64, error) {
	var entry kv.Entry
	err := s.db.WithContext(ctx).Select("version").Where(&kv.Entry{Key: key}).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return entry.Version, nil
}

func (s *KVStore) PingContext(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
