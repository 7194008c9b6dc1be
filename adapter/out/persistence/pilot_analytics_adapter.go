package persistence

import (
	"context"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var _ out.AnalyticsRepository = (*AnalyticsAdapter)(nil)

// AnalyticsAdapter implements out.AnalyticsRepository using PostgreSQL.
type AnalyticsAdapter struct {
	db *sqlx.DB
}

func NewAnalyticsAdapter(db *sqlx.DB) *AnalyticsAdapter {
	return &AnalyticsAdapter{db: db}
}

type analyticsRow struct {
	ID               uuid.UUID     `db:"id"`
	UserID           uuid.UUID     `db:"user_id"`
	EmailID          uuid.NullUUID `db:"email_id"`
	WasAIGenerated   bool          `db:"was_ai_generated"`
	TimeSavedSeconds int           `db:"time_saved_seconds"`
	SentAt           time.Time     `db:"sent_at"`
}

func (r *analyticsRow) toDomain() *domain.EmailAnalytics {
	a := &domain.EmailAnalytics{
		ID:               r.ID,
		UserID:           r.UserID,
		WasAIGenerated:   r.WasAIGenerated,
		TimeSavedSeconds: r.TimeSavedSeconds,
		SentAt:           r.SentAt,
	}
	if r.EmailID.Valid {
		id := r.EmailID.UUID
		a.EmailID = &id
	}
	return a
}

func (a *AnalyticsAdapter) Create(ctx context.Context, row *domain.EmailAnalytics) error {
	const query = `
		INSERT INTO email_analytics (id, user_id, email_id, was_ai_generated, time_saved_seconds, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	emailID := uuid.NullUUID{}
	if row.EmailID != nil {
		emailID = uuid.NullUUID{UUID: *row.EmailID, Valid: true}
	}
	_, err := a.db.ExecContext(ctx, query,
		row.ID, row.UserID, emailID, row.WasAIGenerated, row.TimeSavedSeconds, row.SentAt,
	)
	return mapError("create analytics", "analytics", err)
}

func (a *AnalyticsAdapter) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.EmailAnalytics, error) {
	const query = `
		SELECT id, user_id, email_id, was_ai_generated, time_saved_seconds, sent_at
		FROM email_analytics
		WHERE user_id = $1
		ORDER BY sent_at DESC
	`
	var rows []analyticsRow
	if err := a.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, mapError("list analytics", "analytics", err)
	}

	result := make([]*domain.EmailAnalytics, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result, nil
}
