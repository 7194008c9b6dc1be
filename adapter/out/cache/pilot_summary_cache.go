package cache

import (
	"context"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/out"
	pkgcache "mailpilot/pkg/cache"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ out.SummaryCache = (*SummaryCache)(nil)

const summaryPrefix = "analytics:summary:"

// SummaryCache keeps analytics summaries as JSON under analytics:summary:<user>.
type SummaryCache struct {
	store *pkgcache.RedisCache
}

func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{store: pkgcache.NewRedisCache(client, summaryPrefix)}
}

func (c *SummaryCache) Get(ctx context.Context, userID uuid.UUID) (*domain.AnalyticsSummary, bool, error) {
	var summary domain.AnalyticsSummary
	ok, err := c.store.GetJSON(ctx, userID.String(), &summary)
	if err != nil || !ok {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, userID uuid.UUID, summary *domain.AnalyticsSummary, ttl time.Duration) error {
	return c.store.SetJSON(ctx, userID.String(), summary, ttl)
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.store.Delete(ctx, userID.String())
}
