package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/in"
	"mailpilot/core/port/out"
	"mailpilot/pkg/apperr"
	"mailpilot/pkg/logger"
	"mailpilot/pkg/metrics"
)

var _ in.ComposeService = (*Service)(nil)

// Service validates generation requests, renders the intent's prompt and
// makes exactly one backend call per accepted request.
type Service struct {
	generator out.TextGenerator
	latency   *metrics.LatencyRegistry
}

func NewService(generator out.TextGenerator) *Service {
	return &Service{generator: generator}
}

// WithLatency records backend call latency per intent into reg.
func (s *Service) WithLatency(reg *metrics.LatencyRegistry) *Service {
	s.latency = reg
	return s
}

// Generate runs the shared pipeline for any intent.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if !req.Kind.IsValid() {
		return nil, apperr.ValidationFailed("kind", fmt.Sprintf("unsupported kind: %q", req.Kind))
	}
	def := intents[req.Kind]

	for _, f := range def.required {
		if strings.TrimSpace(f.value(req)) == "" {
			return nil, apperr.MissingField(f.name, f.message)
		}
	}

	prompt := def.render(req)

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt, def.params)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("empty completion")
	}
	if s.latency != nil {
		s.latency.Record(string(req.Kind), time.Since(start), err != nil)
	}
	if err != nil {
		logger.WithContext(ctx).
			WithError(err).
			WithField("intent", string(req.Kind)).
			WithDuration(time.Since(start)).
			Error("generation failed")
		return nil, apperr.GenerationFailed(def.failure, err)
	}

	return &domain.GenerationResult{
		Intent:      req.Kind,
		ResultField: def.resultField,
		Value:       strings.TrimSpace(text),
	}, nil
}

func (s *Service) DraftEmail(ctx context.Context, subject, body, recipientName string) (*domain.GenerationResult, error) {
	return s.Generate(ctx, domain.NewDraftRequest(subject, body, recipientName))
}

func (s *Service) ImproveEmail(ctx context.Context, text, tone string) (*domain.GenerationResult, error) {
	return s.Generate(ctx, domain.NewImproveRequest(text, tone))
}

func (s *Service) SuggestResponse(ctx context.Context, incomingEmail, senderContext string) (*domain.GenerationResult, error) {
	return s.Generate(ctx, domain.NewRespondRequest(incomingEmail, senderContext))
}

func (s *Service) SummarizeEmail(ctx context.Context, text string) (*domain.GenerationResult, error) {
	return s.Generate(ctx, domain.NewSummarizeRequest(text))
}
