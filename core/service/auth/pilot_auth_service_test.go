package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/in"
	"mailpilot/pkg/apperr"

	"github.com/google/uuid"
)

type fakeProvider struct {
	userID     uuid.UUID
	signUps    int
	signOuts   []string
	signInErr  error
	signOutErr error
}

func (p *fakeProvider) SignUp(_ context.Context, email, _, displayName string) (*domain.AuthSession, error) {
	p.signUps++
	return &domain.AuthSession{User: domain.AuthUser{ID: p.userID, Email: email, DisplayName: displayName}}, nil
}

func (p *fakeProvider) SignIn(_ context.Context, email, _ string) (*domain.AuthSession, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return &domain.AuthSession{AccessToken: "at", User: domain.AuthUser{ID: p.userID, Email: email}}, nil
}

func (p *fakeProvider) SignOut(_ context.Context, token string) error {
	p.signOuts = append(p.signOuts, token)
	return p.signOutErr
}

type memProfiles struct {
	rows map[uuid.UUID]*domain.Profile
}

func (m *memProfiles) GetByUserID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("profile")
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) Upsert(_ context.Context, p *domain.Profile) error {
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

type memBlacklist struct {
	revoked map[string]time.Duration
}

func (b *memBlacklist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	b.revoked[id] = ttl
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := b.revoked[id]
	return ok, nil
}

func newTestService() (*Service, *fakeProvider, *memProfiles, *memBlacklist) {
	provider := &fakeProvider{userID: uuid.New()}
	profiles := &memProfiles{rows: map[uuid.UUID]*domain.Profile{}}
	blacklist := &memBlacklist{revoked: map[string]time.Duration{}}
	return NewService(provider, profiles, blacklist), provider, profiles, blacklist
}

func TestSignUpValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   *in.SignUpRequest
		field string
	}{
		{"missing email", &in.SignUpRequest{Password: "secret1"}, "email"},
		{"invalid email", &in.SignUpRequest{Email: "not-an-email", Password: "secret1"}, "email"},
		{"missing password", &in.SignUpRequest{Email: "a@b.co"}, "password"},
		{"short password", &in.SignUpRequest{Email: "a@b.co", Password: "12345"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, provider, _, _ := newTestService()
			_, err := svc.SignUp(context.Background(), tt.req)
			appErr := apperr.AsAppError(err)
			if appErr.Status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
			if appErr.Details["field"] != tt.field {
				t.Errorf("expected field %s, got %v", tt.field, appErr.Details["field"])
			}
			if provider.signUps != 0 {
				t.Error("provider must not be called")
			}
		})
	}
}

func TestSignUpCreatesProfile(t *testing.T) {
	svc, provider, profiles, _ := newTestService()

	session, err := svc.SignUp(context.Background(), &in.SignUpRequest{
		Email: " ada@example.com ", Password: "secret1", DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.User.DisplayName != "Ada" {
		t.Errorf("expected display name on session, got %q", session.User.DisplayName)
	}

	p, ok := profiles.rows[provider.userID]
	if !ok {
		t.Fatal("profile not created")
	}
	if p.Email != "ada@example.com" || p.DisplayName != "Ada" {
		t.Errorf("unexpected profile %+v", p)
	}
}

func TestSignInPassesProviderError(t *testing.T) {
	svc, provider, _, _ := newTestService()
	provider.signInErr = apperr.Unauthorized("Invalid login credentials")

	_, err := svc.SignIn(context.Background(), "a@b.co", "wrong")
	if apperr.GetHTTPStatus(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	svc, provider, _, blacklist := newTestService()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	err := svc.SignOut(context.Background(), &in.SignOutRequest{
		AccessToken: "at", TokenID: "jti-1", ExpiresAt: now.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(provider.signOuts) != 1 {
		t.Error("expected provider logout")
	}
	if ttl := blacklist.revoked["jti-1"]; ttl != 30*time.Minute {
		t.Errorf("expected 30m revocation, got %v", ttl)
	}
}

func TestSignOutProviderFailureStillRevokes(t *testing.T) {
	svc, provider, _, blacklist := newTestService()
	provider.signOutErr = errors.New("provider unavailable")

	err := svc.SignOut(context.Background(), &in.SignOutRequest{
		AccessToken: "at", TokenID: "jti-2", ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := blacklist.revoked["jti-2"]; !ok {
		t.Error("token should be revoked locally")
	}
}

func TestSignOutExpiredTokenSkipsBlacklist(t *testing.T) {
	svc, _, _, blacklist := newTestService()

	err := svc.SignOut(context.Background(), &in.SignOutRequest{
		AccessToken: "at", TokenID: "old", ExpiresAt: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blacklist.revoked) != 0 {
		t.Error("expired tokens need no revocation")
	}
}

func TestUpdateProfileCreatesMissing(t *testing.T) {
	svc, _, profiles, _ := newTestService()
	userID := uuid.New()

	p, err := svc.UpdateProfile(context.Background(), userID, "  Grace ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DisplayName != "Grace" {
		t.Errorf("expected trimmed name, got %q", p.DisplayName)
	}
	if _, ok := profiles.rows[userID]; !ok {
		t.Error("profile should be stored")
	}
}
