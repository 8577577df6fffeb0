// Package dbstore keeps cache values in the settings table of the export
// database, so they survive between runs without a Redis server.
package dbstore

import (
	"context"
	"errors"
	"time"

	"github.com/kasuganosora/gearkeeper/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned for absent and expired keys.
var ErrNotFound = errors.New("cache: key not found")

// Store is a key/value view over model.Setting rows.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New returns a Store on db. The settings table must already be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var row model.Setting
	res := s.db.WithContext(ctx).Where("setting_key = ?", key).Limit(1).Find(&row)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrNotFound
	}
	if row.ExpiresAt != nil && !s.now().Before(*row.ExpiresAt) {
		if err := s.Del(ctx, key); err != nil {
			return "", err
		}
		return "", ErrNotFound
	}
	return row.Value, nil
}

// Set stores value under key. A ttl of zero keeps it until overwritten.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	row := model.Setting{Key: key, Value: value}
	if ttl > 0 {
		exp := s.now().Add(ttl)
		row.ExpiresAt = &exp
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("setting_key IN ?", keys).Delete(&model.Setting{}).Error
}

// Close is a no-op; the database belongs to the caller.
func (s *Store) Close() error { return nil }
