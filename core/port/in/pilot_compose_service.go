package in

import (
	"context"

	"mailpilot/core/domain"
)

// ComposeService turns user text into generated email text.
type ComposeService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)

	DraftEmail(ctx context.Context, subject, body, recipientName string) (*domain.GenerationResult, error)
	ImproveEmail(ctx context.Context, text, tone string) (*domain.GenerationResult, error)
	SuggestResponse(ctx context.Context, incomingEmail, senderContext string) (*domain.GenerationResult, error)
	SummarizeEmail(ctx context.Context, text string) (*domain.GenerationResult, error)
}
