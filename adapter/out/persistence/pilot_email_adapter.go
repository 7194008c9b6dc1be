// Package persistence provides database adapters implementing outbound ports.
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

var _ out.EmailRepository = (*EmailAdapter)(nil)

// EmailAdapter implements out.EmailRepository using PostgreSQL.
type EmailAdapter struct {
	db *sqlx.DB
}

func NewEmailAdapter(db *sqlx.DB) *EmailAdapter {
	return &EmailAdapter{db: db}
}

type emailRow struct {
	ID              uuid.UUID      `db:"id"`
	UserID          uuid.UUID      `db:"user_id"`
	RecipientEmail  string         `db:"recipient_email"`
	RecipientName   sql.NullString `db:"recipient_name"`
	Subject         string         `db:"subject"`
	Body            string         `db:"body"`
	AIGeneratedBody sql.NullString `db:"ai_generated_body"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r *emailRow) toDomain() *domain.Email {
	e := &domain.Email{
		ID:             r.ID,
		UserID:         r.UserID,
		RecipientEmail: r.RecipientEmail,
		RecipientName:  r.RecipientName.String,
		Subject:        r.Subject,
		Body:           r.Body,
		Status:         domain.EmailStatus(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.AIGeneratedBody.Valid {
		body := r.AIGeneratedBody.String
		e.AIGeneratedBody = &body
	}
	return e
}

func toEmailRow(e *domain.Email) *emailRow {
	row := &emailRow{
		ID:             e.ID,
		UserID:         e.UserID,
		RecipientEmail: e.RecipientEmail,
		RecipientName:  sql.NullString{String: e.RecipientName, Valid: e.RecipientName != ""},
		Subject:        e.Subject,
		Body:           e.Body,
		Status:         string(e.Status),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.AIGeneratedBody != nil {
		row.AIGeneratedBody = sql.NullString{String: *e.AIGeneratedBody, Valid: true}
	}
	return row
}

const emailColumns = `id, user_id, recipient_email, recipient_name, subject, body,
		       ai_generated_body, status, created_at, updated_at`

// List returns the filtered emails ordered by created_at descending.
func (a *EmailAdapter) List(ctx context.Context, filter *domain.EmailFilter) ([]*domain.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE user_id = $1`
	args := []any{filter.UserID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` AND status = $2`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		if filter.Status != nil {
			query += ` LIMIT $3 OFFSET $4`
		} else {
			query += ` LIMIT $2 OFFSET $3`
		}
	}

	var rows []emailRow
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError("list emails", "email", err)
	}

	emails := make([]*domain.Email, 0, len(rows))
	for i := range rows {
		emails = append(emails, rows[i].toDomain())
	}
	return emails, nil
}

func (a *EmailAdapter) ListSent(ctx context.Context, userID uuid.UUID) ([]*domain.Email, error) {
	sent := domain.EmailStatusSent
	return a.List(ctx, &domain.EmailFilter{UserID: userID, Status: &sent})
}

func (a *EmailAdapter) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Email, error) {
	query := `SELECT ` + emailColumns + ` FROM emails WHERE id = $1 AND user_id = $2`

	var row emailRow
	if err := a.db.GetContext(ctx, &row, query, id, userID); err != nil {
		return nil, mapError("get email", "email", err)
	}
	return row.toDomain(), nil
}

func (a *EmailAdapter) Create(ctx context.Context, email *domain.Email) error {
	const query = `
		INSERT INTO emails (
			id, user_id, recipient_email, recipient_name, subject, body,
			ai_generated_body, status, created_at, updated_at
		) VALUES (
			:id, :user_id, :recipient_email, :recipient_name, :subject, :body,
			:ai_generated_body, :status, :created_at, :updated_at
		)
	`
	if _, err := a.db.NamedExecContext(ctx, query, toEmailRow(email)); err != nil {
		return mapError("create email", "email", err)
	}
	return nil
}

func (a *EmailAdapter) Update(ctx context.Context, email *domain.Email) error {
	const query = `
		UPDATE emails SET
			recipient_email = :recipient_email,
			recipient_name = :recipient_name,
			subject = :subject,
			body = :body,
			ai_generated_body = :ai_generated_body,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`
	res, err := a.db.NamedExecContext(ctx, query, toEmailRow(email))
	if err != nil {
		return mapError("update email", "email", err)
	}
	return requireAffected(res, "email")
}

func (a *EmailAdapter) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM emails WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError("delete email", "email", err)
	}
	return requireAffected(res, "email")
}
