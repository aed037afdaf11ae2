package auth

import (
	"context"
	"time"

	"pkgtrack/internal/cache"
)

const consumedResetTokenKeyPrefix = "consumed:reset_token:"

// ResetTokenStore tracks which reset tokens have already been spent so a
// captured token cannot be replayed within its expiry window.
type ResetTokenStore interface {
	IsConsumed(ctx context.Context, tokenID string) (bool, error)
	MarkConsumed(ctx context.Context, tokenID string, ttl time.Duration) error
}

// RedisResetTokenStore keeps consumed-token marks in Redis. The underlying
// cache client fails safe, so with Redis down enforcement degrades to the
// token's own expiry.
type RedisResetTokenStore struct {
	cache *cache.Client
}

var _ ResetTokenStore = (*RedisResetTokenStore)(nil)

// NewResetTokenStore creates a Redis-backed reset token store.
func NewResetTokenStore(cache *cache.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{cache: cache}
}

// IsConsumed reports whether the token ID was already used.
func (s *RedisResetTokenStore) IsConsumed(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, consumedResetTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}

// MarkConsumed records the token ID as spent until it would have expired anyway.
func (s *RedisResetTokenStore) MarkConsumed(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, consumedResetTokenKeyPrefix+tokenID, []byte("1"), ttl)
}
