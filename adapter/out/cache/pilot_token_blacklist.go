// Package cache holds Redis-backed outbound adapters.
package cache

import (
	"context"
	"time"

	"mailpilot/core/port/out"

	"github.com/redis/go-redis/v9"
)

var _ out.TokenBlacklist = (*TokenBlacklist)(nil)

const blacklistPrefix = "token:blacklist:"

// TokenBlacklist stores revoked token ids as expiring Redis keys.
type TokenBlacklist struct {
	redis *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{redis: client}
}

func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return b.redis.Set(ctx, blacklistPrefix+tokenID, "1", ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.redis.Exists(ctx, blacklistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
