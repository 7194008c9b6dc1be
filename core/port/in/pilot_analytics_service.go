package in

import (
	"context"

	"mailpilot/core/domain"

	"github.com/google/uuid"
)

type AnalyticsService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*domain.AnalyticsSummary, error)
}
