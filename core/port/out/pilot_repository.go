package out

import (
	"context"

	"mailpilot/core/domain"

	"github.com/google/uuid"
)

// EmailRepository persists composed emails. Every call is scoped to the owning user.
type EmailRepository interface {
	List(ctx context.Context, filter *domain.EmailFilter) ([]*domain.Email, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]*domain.Email, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Email, error)
	Create(ctx context.Context, email *domain.Email) error
	Update(ctx context.Context, email *domain.Email) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// ProfileRepository persists dashboard profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

// AnalyticsRepository appends and reads send analytics.
type AnalyticsRepository interface {
	Create(ctx context.Context, row *domain.EmailAnalytics) error
	// ListByUser returns rows ordered by sent_at descending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.EmailAnalytics, error)
}
