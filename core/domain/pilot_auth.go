package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthUser is the identity returned by the auth provider.
type AuthUser struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
}

// AuthSession is a provider-issued session. AccessToken is empty when sign-up
// requires email confirmation.
type AuthSession struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	User         AuthUser  `json:"user"`
}
