package cache

import (
	"context"
	"errors"
	"time"

	"github.com/kasuganosora/gearkeeper/cache/dbstore"
	cacheredis "github.com/kasuganosora/gearkeeper/cache/redis"
	"gorm.io/gorm"
)

// Cache defines the KV operations used to remember values across runs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// ErrNoBackend is returned by NewCache when neither Redis nor a database is
// configured.
var ErrNoBackend = errors.New("cache: no backend configured")

// CacheConfig holds the Redis settings.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// NewCache returns a Cache backed by Redis if RedisAddr is set, otherwise
// one backed by the settings table of db.
func NewCache(ctx context.Context, cfg CacheConfig, db *gorm.DB) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.Dial(ctx, cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.KeyPrefix,
		})
	}
	if db != nil {
		return dbstore.New(db), nil
	}
	return nil, ErrNoBackend
}

// IsNotFound reports whether err is a miss from either backend.
func IsNotFound(err error) bool {
	return errors.Is(err, dbstore.ErrNotFound) || errors.Is(err, cacheredis.ErrNotFound)
}
