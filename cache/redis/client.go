// Package redis stores cache values in a shared Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const dialTimeout = 3 * time.Second

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // prepended to every key
}

// Client is a Redis-backed key/value store.
type Client struct {
	rdb    *goredis.Client
	prefix string
}

// Dial connects and pings the server once.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})
	pctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return &Client{rdb: rdb, prefix: cfg.Prefix}, nil
}

func (c *Client) key(k string) string { return c.prefix + k }

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, c.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

// Set stores value under key. A ttl of zero keeps it until overwritten.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *Client) Close() error { return c.rdb.Close() }
