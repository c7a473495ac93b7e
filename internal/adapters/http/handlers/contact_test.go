package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/config"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/kv"
)

type stubLeadRepo struct {
	leads []*domain.Lead
}

func (r *stubLeadRepo) Create(lead *domain.Lead) error {
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	r.leads = append(r.leads, lead)
	return nil
}

func (r *stubLeadRepo) GetByID(id uuid.UUID) (*domain.Lead, error) {
	return nil, domain.ErrLeadNotFound
}

func (r *stubLeadRepo) List(filter domain.LeadFilter) ([]domain.Lead, int64, error) {
	return []domain.Lead{}, 0, nil
}

type stubMailer struct {
	sent int
	err  error
}

func (m *stubMailer) SendLeadNotification(*domain.Lead) error {
	if m.err != nil {
		return m.err
	}
	m.sent++
	return nil
}

func newContactHandler(mailErr error) (*ContactHandler, *stubLeadRepo, *stubMailer) {
	repo := &stubLeadRepo{}
	mail := &stubMailer{err: mailErr}
	forms := config.FormsConfig{Cooldown: 30 * time.Second, MaxMessageLen: 5000, DraftTTL: time.Hour}
	service := app.NewLeadService(repo, kv.NewMemory(), mail, forms, "https://checkout.example/buy?domain=%s")
	return NewContactHandler(service), repo, mail
}

func postContact(t *testing.T, h *ContactHandler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	var parsed map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
	}
	return rec, parsed
}

func TestContactSubmitSuccess(t *testing.T) {
	h, repo, mail := newContactHandler(nil)

	rec, body := postContact(t, h, `{
		"name": "Dana",
		"email": "dana@example.com",
		"subject": "pricing",
		"message": "Is needplumber.com negotiable?"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if body["ok"] != true || body["success"] != true {
		t.Errorf("body = %v, want ok and success true", body)
	}
	if len(repo.leads) != 1 || mail.sent != 1 {
		t.Errorf("stored %d leads, sent %d mails, want 1 and 1", len(repo.leads), mail.sent)
	}
}

func TestContactSubmitValidationIs400(t *testing.T) {
	h, repo, mail := newContactHandler(nil)

	rec, body := postContact(t, h, `{
		"name": "Dana",
		"email": "not-an-email",
		"subject": "pricing",
		"message": "hello"
	}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["ok"] != false {
		t.Errorf("ok = %v, want false", body["ok"])
	}
	details, _ := body["details"].(map[string]interface{})
	if _, present := details["email"]; !present {
		t.Errorf("details = %v, want an email field error", body["details"])
	}
	if len(repo.leads) != 0 || mail.sent != 0 {
		t.Error("invalid submission reached the pipeline")
	}
}

func TestContactSubmitMalformedBody(t *testing.T) {
	h, _, _ := newContactHandler(nil)

	rec, body := postContact(t, h, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["ok"] != false {
		t.Errorf("ok = %v, want false", body["ok"])
	}
}

func TestContactSubmitConfigErrorIs500(t *testing.T) {
	h, _, _ := newContactHandler(domain.NewMailConfigError("MAIL_API_KEY"))

	rec, body := postContact(t, h, `{
		"name": "Dana",
		"email": "dana@example.com",
		"subject": "pricing",
		"message": "hello"
	}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "MAIL_API_KEY") {
		t.Errorf("error = %q, want the missing credential named", msg)
	}
}

func TestContactSubmitProviderStatusRelayed(t *testing.T) {
	h, _, _ := newContactHandler(domain.NewProviderError(422, "from address not verified"))

	rec, body := postContact(t, h, `{
		"name": "Dana",
		"email": "dana@example.com",
		"subject": "pricing",
		"message": "hello"
	}`)

	if rec.Code != 422 {
		t.Fatalf("status = %d, want the provider's 422", rec.Code)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "from address not verified") {
		t.Errorf("error = %q, want the provider message", msg)
	}
}

func TestContactSubmitHoneypot(t *testing.T) {
	h, repo, mail := newContactHandler(nil)

	rec, body := postContact(t, h, `{
		"name": "Bot",
		"email": "bot@example.com",
		"subject": "pricing",
		"message": "spam",
		"website": "https://spam.example"
	}`)

	// Indistinguishable from a success, with zero side effects.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["ok"] != true {
		t.Errorf("ok = %v, want true", body["ok"])
	}
	if len(repo.leads) != 0 || mail.sent != 0 {
		t.Error("honeypot submission produced side effects")
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		want   string
	}{
		{
			"explicit header wins",
			func(r *http.Request) {
				r.Header.Set("X-Client-Key", "storefront-abc")
				r.Header.Set("X-Forwarded-For", "10.0.0.1")
			},
			"storefront-abc",
		},
		{
			"forwarded-for first hop",
			func(r *http.Request) { r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2") },
			"10.0.0.1",
		},
		{
			"remote addr fallback",
			func(r *http.Request) { r.RemoteAddr = "192.0.2.7:4711" },
			"192.0.2.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/contact", nil)
			tt.setup(req)
			if got := clientKey(req); got != tt.want {
				t.Errorf("clientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	values := url.Values{}
	values.Set("page", "3")
	values.Set("bad", "3x")

	if got := queryInt(values, "page", 1); got != 3 {
		t.Errorf("queryInt(page) = %d, want 3", got)
	}
	if got := queryInt(values, "absent", 7); got != 7 {
		t.Errorf("queryInt(absent) = %d, want default 7", got)
	}
	if got := queryInt(values, "bad", 7); got != 7 {
		t.Errorf("queryInt(bad) = %d, want default 7", got)
	}
}
