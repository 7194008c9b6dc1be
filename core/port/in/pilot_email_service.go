package in

import (
	"context"

	"mailpilot/core/domain"

	"github.com/google/uuid"
)

type EmailService interface {
	List(ctx context.Context, userID uuid.UUID, filter *EmailListFilter) ([]*domain.Email, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Email, error)
	Save(ctx context.Context, userID uuid.UUID, input *SaveEmailInput) (*domain.Email, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type EmailListFilter struct {
	Status *domain.EmailStatus
	Limit  int
	Offset int
}

// SaveEmailInput creates an email when ID is nil and updates it otherwise.
type SaveEmailInput struct {
	ID              *uuid.UUID         `json:"id,omitempty"`
	RecipientEmail  string             `json:"recipient_email"`
	RecipientName   string             `json:"recipient_name"`
	Subject         string             `json:"subject"`
	Body            string             `json:"body"`
	AIGeneratedBody *string            `json:"ai_generated_body,omitempty"`
	Status          domain.EmailStatus `json:"status"`
}
