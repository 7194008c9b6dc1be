package out

import (
	"context"

	"mailpilot/core/domain"
)

// TextGenerator sends one prompt to the hosted text-generation service and
// returns the first completion.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, params domain.GenerationParameters) (string, error)
}
