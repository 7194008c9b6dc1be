package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the user record shown on dashboard pages. ID equals the auth user id.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
