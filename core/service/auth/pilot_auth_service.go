package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/in"
	"mailpilot/core/port/out"
	"mailpilot/pkg/apperr"
	"mailpilot/pkg/logger"

	"github.com/google/uuid"
)

var _ in.AuthService = (*Service)(nil)

// MinPasswordLength matches the auth provider's default policy.
const MinPasswordLength = 6

const maxDisplayNameLength = 100

type Service struct {
	provider  out.AuthProvider
	profiles  out.ProfileRepository
	blacklist out.TokenBlacklist
	now       func() time.Time
}

// NewService wires the auth flows. blacklist may be nil when Redis is unavailable.
func NewService(provider out.AuthProvider, profiles out.ProfileRepository, blacklist out.TokenBlacklist) *Service {
	return &Service{
		provider:  provider,
		profiles:  profiles,
		blacklist: blacklist,
		now:       time.Now,
	}
}

func (s *Service) SignUp(ctx context.Context, req *in.SignUpRequest) (*domain.AuthSession, error) {
	if req == nil {
		return nil, apperr.BadRequest("invalid request body")
	}
	email, err := validateCredentials(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < MinPasswordLength {
		return nil, apperr.ValidationFailed("password", "password must be at least 6 characters")
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if len(displayName) > maxDisplayNameLength {
		return nil, apperr.ValidationFailed("display_name", "display name is too long")
	}

	session, err := s.provider.SignUp(ctx, email, req.Password, displayName)
	if err != nil {
		return nil, err
	}

	now := s.now()
	profile := &domain.Profile{
		ID:          session.User.ID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		// The account exists at the provider; the profile is recreated on first update.
		logger.WithContext(ctx).WithError(err).WithField("user_id", session.User.ID.String()).Warn("failed to create profile")
	}

	session.User.DisplayName = displayName
	return session, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	addr, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	return s.provider.SignIn(ctx, addr, password)
}

// SignOut ends the provider session and blacklists the token until it expires.
func (s *Service) SignOut(ctx context.Context, req *in.SignOutRequest) error {
	if req == nil || req.AccessToken == "" {
		return apperr.ErrUnauthorized
	}

	if err := s.provider.SignOut(ctx, req.AccessToken); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("provider logout failed")
	}

	if s.blacklist == nil || req.TokenID == "" {
		return nil
	}

	ttl := req.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, req.TokenID, ttl); err != nil {
		return apperr.InternalWithError(err)
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, displayName string) (*domain.Profile, error) {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) > maxDisplayNameLength {
		return nil, apperr.ValidationFailed("display_name", "display name is too long")
	}

	now := s.now()
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if apperr.AsAppError(err).Code != apperr.CodeNotFound {
			return nil, err
		}
		profile = &domain.Profile{ID: userID, CreatedAt: now}
	}

	profile.DisplayName = displayName
	profile.UpdatedAt = now
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperr.MissingField("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperr.ValidationFailed("email", "email is not a valid address")
	}
	if password == "" {
		return "", apperr.MissingField("password", "password is required")
	}
	return email, nil
}
