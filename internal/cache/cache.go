package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a best-effort Redis wrapper. Every operation degrades to a
// no-op when the client is nil or Redis is unreachable, so callers never
// have to branch on cache availability.
type Client struct {
	rdb *redis.Client
}

// New dials Redis at addr. The connection is lazy; a down Redis only
// shows up as cache misses.
func New(addr, password string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Get returns the stored value, or nil when the key is absent or Redis
// cannot be reached.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors both read as a miss
		return nil, nil
	}
	return data, nil
}

// Set writes value under key for ttl, swallowing Redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	_ = c.rdb.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete drops key, swallowing Redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, key).Err()
	return nil
}
