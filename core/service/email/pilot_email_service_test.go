package email

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"mailpilot/core/domain"
	"mailpilot/core/port/in"
	"mailpilot/pkg/apperr"

	"github.com/google/uuid"
)

type memEmails struct {
	rows map[uuid.UUID]*domain.Email
}

func newMemEmails() *memEmails {
	return &memEmails{rows: make(map[uuid.UUID]*domain.Email)}
}

func (m *memEmails) List(_ context.Context, f *domain.EmailFilter) ([]*domain.Email, error) {
	var out []*domain.Email
	for _, e := range m.rows {
		if e.UserID != f.UserID {
			continue
		}
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memEmails) ListSent(ctx context.Context, userID uuid.UUID) ([]*domain.Email, error) {
	sent := domain.EmailStatusSent
	return m.List(ctx, &domain.EmailFilter{UserID: userID, Status: &sent})
}

func (m *memEmails) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Email, error) {
	e, ok := m.rows[id]
	if !ok || e.UserID != userID {
		return nil, apperr.NotFound("email")
	}
	cp := *e
	return &cp, nil
}

func (m *memEmails) Create(_ context.Context, e *domain.Email) error {
	cp := *e
	m.rows[e.ID] = &cp
	return nil
}

func (m *memEmails) Update(_ context.Context, e *domain.Email) error {
	existing, ok := m.rows[e.ID]
	if !ok || existing.UserID != e.UserID {
		return apperr.NotFound("email")
	}
	cp := *e
	m.rows[e.ID] = &cp
	return nil
}

func (m *memEmails) Delete(_ context.Context, userID, id uuid.UUID) error {
	e, ok := m.rows[id]
	if !ok || e.UserID != userID {
		return apperr.NotFound("email")
	}
	delete(m.rows, id)
	return nil
}

type memAnalytics struct {
	rows []*domain.EmailAnalytics
	err  error
}

func (m *memAnalytics) Create(_ context.Context, row *domain.EmailAnalytics) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, row)
	return nil
}

func (m *memAnalytics) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.EmailAnalytics, error) {
	var out []*domain.EmailAnalytics
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type spyCache struct {
	invalidated []uuid.UUID
	err         error
}

func (c *spyCache) Get(context.Context, uuid.UUID) (*domain.AnalyticsSummary, bool, error) {
	return nil, false, nil
}

func (c *spyCache) Set(context.Context, uuid.UUID, *domain.AnalyticsSummary, time.Duration) error {
	return nil
}

func (c *spyCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.invalidated = append(c.invalidated, userID)
	return c.err
}

func newTestService() (*Service, *memEmails, *memAnalytics, *spyCache) {
	emails := newMemEmails()
	analytics := &memAnalytics{}
	cache := &spyCache{}
	svc := NewService(emails, analytics, cache)
	svc.timeSaved = func() int { return 120 }
	return svc, emails, analytics, cache
}

func strPtr(s string) *string { return &s }

func validInput() *in.SaveEmailInput {
	return &in.SaveEmailInput{
		RecipientEmail: "sam@example.com",
		RecipientName:  "Sam",
		Subject:        "Q3 update",
		Body:           "numbers attached",
	}
}

func TestSaveValidation(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*in.SaveEmailInput)
		field string
	}{
		{"missing recipient", func(i *in.SaveEmailInput) { i.RecipientEmail = " " }, "recipient_email"},
		{"bad recipient", func(i *in.SaveEmailInput) { i.RecipientEmail = "sam" }, "recipient_email"},
		{"missing subject", func(i *in.SaveEmailInput) { i.Subject = "" }, "subject"},
		{"missing body", func(i *in.SaveEmailInput) { i.Body = "" }, "body"},
		{"bad status", func(i *in.SaveEmailInput) { i.Status = "archived" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, emails, _, _ := newTestService()
			input := validInput()
			tt.mut(input)

			_, err := svc.Save(context.Background(), uuid.New(), input)
			appErr := apperr.AsAppError(err)
			if appErr.Status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
			if appErr.Details["field"] != tt.field {
				t.Errorf("expected field %s, got %v", tt.field, appErr.Details["field"])
			}
			if len(emails.rows) != 0 {
				t.Error("nothing should be stored")
			}
		})
	}
}

func TestSaveDraftDefaults(t *testing.T) {
	svc, _, analytics, _ := newTestService()

	email, err := svc.Save(context.Background(), uuid.New(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email.Status != domain.EmailStatusDraft {
		t.Errorf("expected draft status, got %s", email.Status)
	}
	if email.RecipientName != "Sam" {
		t.Errorf("recipient name should be stored as given, got %q", email.RecipientName)
	}
	if len(analytics.rows) != 0 {
		t.Error("drafts must not record analytics")
	}
}

func TestSendRecordsAnalytics(t *testing.T) {
	tests := []struct {
		name    string
		aiBody  *string
		status  domain.EmailStatus
		records int
	}{
		{"sent with ai body", strPtr("Hi Sam, attached."), domain.EmailStatusSent, 1},
		{"sent without ai body", nil, domain.EmailStatusSent, 0},
		{"sent with empty ai body", strPtr(""), domain.EmailStatusSent, 0},
		{"draft with ai body", strPtr("Hi"), domain.EmailStatusDraft, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, analytics, cache := newTestService()
			userID := uuid.New()
			input := validInput()
			input.AIGeneratedBody = tt.aiBody
			input.Status = tt.status

			email, err := svc.Save(context.Background(), userID, input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cache.invalidated) != 1 || cache.invalidated[0] != userID {
				t.Errorf("expected one summary cache invalidation, got %v", cache.invalidated)
			}
			if len(analytics.rows) != tt.records {
				t.Fatalf("expected %d analytics rows, got %d", tt.records, len(analytics.rows))
			}
			if tt.records == 0 {
				return
			}

			row := analytics.rows[0]
			if !row.WasAIGenerated || row.TimeSavedSeconds != 120 {
				t.Errorf("unexpected row %+v", row)
			}
			if row.EmailID == nil || *row.EmailID != email.ID {
				t.Error("analytics row should reference the email")
			}
		})
	}
}

func TestSendSurvivesAnalyticsFailure(t *testing.T) {
	svc, emails, analytics, _ := newTestService()
	analytics.err = errors.New("connection reset")

	input := validInput()
	input.Status = domain.EmailStatusSent
	input.AIGeneratedBody = strPtr("generated")

	if _, err := svc.Save(context.Background(), uuid.New(), input); err != nil {
		t.Fatalf("save should succeed, got %v", err)
	}
	if len(emails.rows) != 1 {
		t.Error("email should be stored")
	}
}

func TestWritesInvalidateSummary(t *testing.T) {
	svc, emails, _, cache := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	input := validInput()
	input.Status = domain.EmailStatusSent
	email, err := svc.Save(ctx, userID, input)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("sent save without ai body should invalidate, got %d", len(cache.invalidated))
	}

	input.ID = &email.ID
	input.Subject = "Q3 update (final)"
	if _, err := svc.Save(ctx, userID, input); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(cache.invalidated) != 2 {
		t.Fatalf("update should invalidate, got %d", len(cache.invalidated))
	}

	if err := svc.Delete(ctx, uuid.New(), email.ID); err == nil {
		t.Fatal("expected not found for another user")
	}
	if len(cache.invalidated) != 2 {
		t.Errorf("failed delete must not invalidate, got %d", len(cache.invalidated))
	}

	if err := svc.Delete(ctx, userID, email.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(cache.invalidated) != 3 || cache.invalidated[2] != userID {
		t.Errorf("delete should invalidate the owner's summary, got %v", cache.invalidated)
	}
	if len(emails.rows) != 0 {
		t.Error("email should be removed")
	}
}

func TestInvalidateFailureIsLoggedOnly(t *testing.T) {
	svc, _, _, cache := newTestService()
	cache.err = errors.New("redis down")

	email, err := svc.Save(context.Background(), uuid.New(), validInput())
	if err != nil {
		t.Fatalf("save should succeed, got %v", err)
	}
	if err := svc.Delete(context.Background(), email.UserID, email.ID); err != nil {
		t.Fatalf("delete should succeed, got %v", err)
	}
}

func TestDefaultTimeSavedRange(t *testing.T) {
	svc := NewService(newMemEmails(), &memAnalytics{}, nil)
	for i := 0; i < 1000; i++ {
		v := svc.timeSaved()
		if v < 60 || v >= 360 {
			t.Fatalf("time saved %d out of range", v)
		}
	}
}

func TestOwnerScoping(t *testing.T) {
	svc, _, _, _ := newTestService()
	owner, other := uuid.New(), uuid.New()

	email, err := svc.Save(context.Background(), owner, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Get(context.Background(), other, email.ID); apperr.GetHTTPStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404 on foreign get, got %v", err)
	}

	update := validInput()
	update.ID = &email.ID
	update.Subject = "hijacked"
	if _, err := svc.Save(context.Background(), other, update); apperr.GetHTTPStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404 on foreign update, got %v", err)
	}

	if err := svc.Delete(context.Background(), other, email.ID); apperr.GetHTTPStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404 on foreign delete, got %v", err)
	}

	got, err := svc.Get(context.Background(), owner, email.ID)
	if err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if got.Subject != "Q3 update" {
		t.Errorf("email was modified by another user: %q", got.Subject)
	}
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := uuid.New()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }

	email, err := svc.Save(context.Background(), userID, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.now = func() time.Time { return created.Add(time.Hour) }
	update := validInput()
	update.ID = &email.ID
	update.Body = "revised"

	updated, err := svc.Save(context.Background(), userID, update)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Errorf("created_at changed to %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("updated_at not bumped: %v", updated.UpdatedAt)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := uuid.New()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return ts }
		if _, err := svc.Save(context.Background(), userID, validInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := svc.List(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 emails, got %d", len(list))
	}
	if !list[0].CreatedAt.After(list[2].CreatedAt) {
		t.Error("expected newest first")
	}

	bad := domain.EmailStatus("spam")
	if _, err := svc.List(context.Background(), userID, &in.EmailListFilter{Status: &bad}); apperr.GetHTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for bad status filter, got %v", err)
	}
}
