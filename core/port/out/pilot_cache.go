package out

import (
	"context"
	"time"

	"mailpilot/core/domain"

	"github.com/google/uuid"
)

// SummaryCache stores computed analytics summaries per user.
type SummaryCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.AnalyticsSummary, bool, error)
	Set(ctx context.Context, userID uuid.UUID, summary *domain.AnalyticsSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
