package out

import (
	"context"
	"time"

	"mailpilot/core/domain"
)

// AuthProvider delegates credential handling to the hosted auth service.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*domain.AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

// TokenBlacklist records revoked token ids until they expire.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
