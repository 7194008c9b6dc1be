package domain

import (
	"time"

	"github.com/google/uuid"
)

type EmailStatus string

const (
	EmailStatusDraft EmailStatus = "draft"
	EmailStatusSent  EmailStatus = "sent"
)

func (s EmailStatus) IsValid() bool {
	return s == EmailStatusDraft || s == EmailStatusSent
}

// Email is a composed message owned by one user.
type Email struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"user_id"`
	RecipientEmail  string      `json:"recipient_email"`
	RecipientName   string      `json:"recipient_name"`
	Subject         string      `json:"subject"`
	Body            string      `json:"body"`
	AIGeneratedBody *string     `json:"ai_generated_body,omitempty"`
	Status          EmailStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// HasAIBody reports whether an AI-generated body was attached.
func (e *Email) HasAIBody() bool {
	return e.AIGeneratedBody != nil && *e.AIGeneratedBody != ""
}

// EmailFilter scopes inbox listings.
type EmailFilter struct {
	UserID uuid.UUID
	Status *EmailStatus
	Limit  int
	Offset int
}
