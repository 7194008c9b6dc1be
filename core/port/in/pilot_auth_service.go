package in

import (
	"context"
	"time"

	"mailpilot/core/domain"

	"github.com/google/uuid"
)

type AuthService interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*domain.AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, req *SignOutRequest) error

	Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, displayName string) (*domain.Profile, error)
}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// SignOutRequest describes the token being retired.
type SignOutRequest struct {
	AccessToken string
	TokenID     string
	ExpiresAt   time.Time
}
