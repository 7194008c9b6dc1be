package email

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/in"
	"mailpilot/core/port/out"
	"mailpilot/pkg/apperr"
	"mailpilot/pkg/logger"

	"github.com/google/uuid"
)

var _ in.EmailService = (*Service)(nil)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	minTimeSavedSeconds  = 60
	timeSavedSpanSeconds = 300
)

type Service struct {
	emails    out.EmailRepository
	analytics out.AnalyticsRepository
	cache     out.SummaryCache

	// timeSaved returns the estimated seconds saved by an AI-assisted send.
	timeSaved func() int
	now       func() time.Time
}

func NewService(emails out.EmailRepository, analytics out.AnalyticsRepository, cache out.SummaryCache) *Service {
	return &Service{
		emails:    emails,
		analytics: analytics,
		cache:     cache,
		timeSaved: func() int { return minTimeSavedSeconds + rand.Intn(timeSavedSpanSeconds) },
		now:       time.Now,
	}
}

// List returns the user's emails, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter *in.EmailListFilter) ([]*domain.Email, error) {
	f := &domain.EmailFilter{UserID: userID, Limit: defaultListLimit}
	if filter != nil {
		if filter.Status != nil && !filter.Status.IsValid() {
			return nil, apperr.ValidationFailed("status", "status must be draft or sent")
		}
		f.Status = filter.Status
		if filter.Limit > 0 {
			f.Limit = filter.Limit
		}
		if filter.Offset > 0 {
			f.Offset = filter.Offset
		}
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}

	return s.emails.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Email, error) {
	return s.emails.GetByID(ctx, userID, id)
}

// Save inserts or updates an email. A sent email carrying an AI body records
// one analytics row.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, input *in.SaveEmailInput) (*domain.Email, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.EmailStatusDraft
	}

	now := s.now()
	var email *domain.Email
	if input.ID == nil {
		email = &domain.Email{
			ID:        uuid.New(),
			UserID:    userID,
			CreatedAt: now,
		}
	} else {
		existing, err := s.emails.GetByID(ctx, userID, *input.ID)
		if err != nil {
			return nil, err
		}
		email = existing
	}

	email.RecipientEmail = strings.TrimSpace(input.RecipientEmail)
	email.RecipientName = input.RecipientName
	email.Subject = input.Subject
	email.Body = input.Body
	email.AIGeneratedBody = input.AIGeneratedBody
	email.Status = status
	email.UpdatedAt = now

	if input.ID == nil {
		if err := s.emails.Create(ctx, email); err != nil {
			return nil, err
		}
	} else if err := s.emails.Update(ctx, email); err != nil {
		return nil, err
	}

	if email.Status == domain.EmailStatusSent && email.HasAIBody() {
		s.recordSend(ctx, email)
	}
	s.invalidateSummary(ctx, userID)

	return email, nil
}

func (s *Service) recordSend(ctx context.Context, email *domain.Email) {
	emailID := email.ID
	row := &domain.EmailAnalytics{
		ID:               uuid.New(),
		UserID:           email.UserID,
		EmailID:          &emailID,
		WasAIGenerated:   true,
		TimeSavedSeconds: s.timeSaved(),
		SentAt:           s.now(),
	}

	if err := s.analytics.Create(ctx, row); err != nil {
		logger.WithContext(ctx).
			WithError(err).
			WithField("email_id", email.ID.String()).
			Warn("failed to record send analytics")
	}
}

// invalidateSummary drops the cached summary after any email write. Failure is logged only.
func (s *Service) invalidateSummary(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("failed to invalidate analytics summary")
	}
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.emails.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx, userID)
	return nil
}

func validateSave(input *in.SaveEmailInput) error {
	if input == nil {
		return apperr.BadRequest("Please fill in all required fields")
	}
	if strings.TrimSpace(input.RecipientEmail) == "" {
		return apperr.MissingField("recipient_email", "Please fill in all required fields: recipient email")
	}
	if !strings.Contains(input.RecipientEmail, "@") {
		return apperr.ValidationFailed("recipient_email", "recipient email is not a valid address")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return apperr.MissingField("subject", "Please fill in all required fields: subject")
	}
	if strings.TrimSpace(input.Body) == "" {
		return apperr.MissingField("body", "Please fill in all required fields: body")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return apperr.ValidationFailed("status", "status must be draft or sent")
	}
	return nil
}
