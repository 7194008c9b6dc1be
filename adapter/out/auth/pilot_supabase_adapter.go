// Package auth adapts the Supabase GoTrue REST API to out.AuthProvider.
package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/out"
	"mailpilot/pkg/apperr"
	"mailpilot/pkg/httputil"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var _ out.AuthProvider = (*SupabaseAdapter)(nil)

const serviceName = "supabase-auth"

type SupabaseAdapter struct {
	baseURL string
	anonKey string
	client  *http.Client
	now     func() time.Time
}

// NewSupabaseAdapter targets projectURL, e.g. https://xyz.supabase.co.
func NewSupabaseAdapter(projectURL, anonKey string, client *http.Client) *SupabaseAdapter {
	if client == nil {
		client = httputil.NewOptimizedClient(httputil.AuthProviderClientConfig())
	}
	return &SupabaseAdapter{
		baseURL: strings.TrimSuffix(projectURL, "/") + "/auth/v1",
		anonKey: anonKey,
		client:  client,
		now:     time.Now,
	}
}

type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type gotrueSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         *gotrueUser `json:"user"`

	// Sign-up without auto-confirm returns the bare user.
	ID    string `json:"id"`
	Email string `json:"email"`
}

type gotrueError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
}

func (e *gotrueError) text() string {
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return "authentication failed"
}

func (a *SupabaseAdapter) SignUp(ctx context.Context, email, password, displayName string) (*domain.AuthSession, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"display_name": displayName},
	}
	var resp gotrueSession
	if err := a.do(ctx, http.MethodPost, "/signup", "", body, &resp); err != nil {
		return nil, err
	}
	return a.toSession(&resp)
}

func (a *SupabaseAdapter) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := map[string]string{"email": email, "password": password}
	var resp gotrueSession
	if err := a.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, apperr.ExternalError(serviceName, fmt.Errorf("token response without access token"))
	}
	return a.toSession(&resp)
}

func (a *SupabaseAdapter) SignOut(ctx context.Context, accessToken string) error {
	return a.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (a *SupabaseAdapter) toSession(resp *gotrueSession) (*domain.AuthSession, error) {
	user := resp.User
	if user == nil {
		user = &gotrueUser{ID: resp.ID, Email: resp.Email}
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, apperr.ExternalError(serviceName, fmt.Errorf("invalid user id %q: %w", user.ID, err))
	}

	session := &domain.AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		User:         domain.AuthUser{ID: id, Email: user.Email},
	}
	if name, ok := user.UserMetadata["display_name"].(string); ok {
		session.User.DisplayName = name
	}
	switch {
	case resp.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		session.ExpiresAt = a.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return session, nil
}

func (a *SupabaseAdapter) do(ctx context.Context, method, path, bearer string, in, dest any) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return apperr.InternalWithError(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return apperr.InternalWithError(err)
	}
	req.Header.Set("apikey", a.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return apperr.ExternalError(serviceName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperr.ExternalError(serviceName, err)
	}

	if resp.StatusCode >= 300 {
		return mapStatus(resp.StatusCode, data)
	}
	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return apperr.ExternalError(serviceName, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func mapStatus(status int, body []byte) error {
	var ge gotrueError
	_ = json.Unmarshal(body, &ge)
	msg := ge.text()
	cause := fmt.Errorf("%s: status %d: %s", serviceName, status, msg)

	switch {
	case status == http.StatusTooManyRequests:
		return apperr.New(apperr.CodeRateLimited, msg, status).WithError(cause)
	case status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "already registered"):
		return apperr.Conflict(msg).WithError(cause)
	case status == http.StatusUnprocessableEntity:
		return apperr.New(apperr.CodeValidationFailed, msg, http.StatusBadRequest).WithError(cause)
	case status == http.StatusBadRequest, status == http.StatusUnauthorized, status == http.StatusForbidden:
		return apperr.Unauthorized(msg).WithError(cause)
	default:
		return apperr.ExternalError(serviceName, cause)
	}
}
