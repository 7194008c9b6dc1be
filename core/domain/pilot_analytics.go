package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmailAnalytics is one append-only record written when an email is sent.
type EmailAnalytics struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	EmailID          *uuid.UUID `json:"email_id,omitempty"`
	WasAIGenerated   bool       `json:"was_ai_generated"`
	TimeSavedSeconds int        `json:"time_saved_seconds"`
	SentAt           time.Time  `json:"sent_at"`
}

// AnalyticsSummary aggregates a user's send history for the analytics page.
type AnalyticsSummary struct {
	TotalEmailsSent       int              `json:"total_emails_sent"`
	AIGeneratedEmails     int              `json:"ai_generated_emails"`
	TotalTimeSavedSeconds int              `json:"total_time_saved_seconds"`
	AvgTimeSavedPerEmail  int              `json:"avg_time_saved_per_email"`
	TotalDraftsCreated    int              `json:"total_drafts_created"`
	ThisMonth             int              `json:"this_month"`
	RecentActivity        []EmailAnalytics `json:"recent_activity"`
	GeneratedAt           time.Time        `json:"generated_at"`
}
