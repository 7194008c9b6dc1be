package persistence

import (
	"context"
	"database/sql"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/out"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var _ out.ProfileRepository = (*ProfileAdapter)(nil)

// ProfileAdapter implements out.ProfileRepository using PostgreSQL.
type ProfileAdapter struct {
	db *sqlx.DB
}

func NewProfileAdapter(db *sqlx.DB) *ProfileAdapter {
	return &ProfileAdapter{db: db}
}

type profileRow struct {
	ID          uuid.UUID      `db:"id"`
	Email       sql.NullString `db:"email"`
	DisplayName sql.NullString `db:"display_name"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *profileRow) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:          r.ID,
		Email:       r.Email.String,
		DisplayName: r.DisplayName.String,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (a *ProfileAdapter) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	const query = `
		SELECT id, email, display_name, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	var row profileRow
	if err := a.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, mapError("get profile", "profile", err)
	}
	return row.toDomain(), nil
}

// Upsert inserts the profile or updates its display name. A non-empty email
// replaces the stored one.
func (a *ProfileAdapter) Upsert(ctx context.Context, profile *domain.Profile) error {
	const query = `
		INSERT INTO profiles (id, email, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), profiles.email),
			display_name = EXCLUDED.display_name,
			updated_at = EXCLUDED.updated_at
	`
	_, err := a.db.ExecContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.DisplayName,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return mapError("upsert profile", "profile", err)
}
