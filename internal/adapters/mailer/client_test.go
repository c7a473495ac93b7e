package mailer

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/config"
)

func testLead() *domain.Lead {
	return &domain.Lead{
		Kind:    domain.LeadKindContact,
		Name:    "Dana",
		Email:   "dana@example.com",
		Subject: "Pricing",
		Message: "Is needplumber.com negotiable?",
		Meta: domain.JSONMap{
			"user_agent": "Mozilla/5.0",
			"path":       "/contact",
		},
	}
}

func newTestClient(apiURL string) *Client {
	return NewClient(config.MailConfig{
		APIURL:    apiURL,
		APIKey:    "test-key",
		From:      "noreply@needsites.com",
		ContactTo: "leads@needsites.com",
	})
}

func TestSendLeadNotification(t *testing.T) {
	var got sendRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/emails" {
			t.Errorf("path = %q, want /emails", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.SendLeadNotification(testLead()); err != nil {
		t.Fatalf("SendLeadNotification: %v", err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.From != "noreply@needsites.com" {
		t.Errorf("From = %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "leads@needsites.com" {
		t.Errorf("To = %v", got.To)
	}
	if got.ReplyTo != "dana@example.com" {
		t.Errorf("ReplyTo = %q, want the submitter", got.ReplyTo)
	}
	if got.Subject != "Contact: Pricing" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if !strings.Contains(got.Text, "Is needplumber.com negotiable?") {
		t.Errorf("Text missing message body: %q", got.Text)
	}
	if !strings.Contains(got.Text, "user_agent: Mozilla/5.0") {
		t.Errorf("Text missing meta block: %q", got.Text)
	}
}

func TestMissingCredentialsAreDistinct(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MailConfig
		missing string
	}{
		{"api key", config.MailConfig{From: "a@b.com", ContactTo: "c@d.com"}, "MAIL_API_KEY"},
		{"from", config.MailConfig{APIKey: "k", ContactTo: "c@d.com"}, "MAIL_FROM"},
		{"contact to", config.MailConfig{APIKey: "k", From: "a@b.com"}, "MAIL_CONTACT_TO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.cfg)
			err := client.SendLeadNotification(testLead())

			var appErr *domain.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("err = %v, want AppError", err)
			}
			if appErr.StatusCode != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", appErr.StatusCode)
			}
			if !strings.Contains(appErr.Message, tt.missing) {
				t.Errorf("message %q does not name %s", appErr.Message, tt.missing)
			}
		})
	}
}

func TestProviderErrorPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "The from address is not verified"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendLeadNotification(testLead())

	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want AppError", err)
	}
	if appErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want the provider's 422", appErr.StatusCode)
	}
	if !strings.Contains(appErr.Message, "The from address is not verified") {
		t.Errorf("message = %q, want the provider's message", appErr.Message)
	}
}

func TestProviderErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendLeadNotification(testLead())

	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want AppError", err)
	}
	if appErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", appErr.StatusCode)
	}
}

func TestNetworkErrorIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	err := client.SendLeadNotification(testLead())

	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want AppError", err)
	}
	if appErr.Code != "NETWORK_ERROR" {
		t.Errorf("code = %q, want NETWORK_ERROR", appErr.Code)
	}
}

func TestSubjectFor(t *testing.T) {
	amount := int64(1800)
	tests := []struct {
		name string
		lead *domain.Lead
		want string
	}{
		{
			"buy now",
			&domain.Lead{Kind: domain.LeadKindBuyNow, DomainName: "needplumber.com"},
			"Buy now: needplumber.com",
		},
		{
			"offer",
			&domain.Lead{Kind: domain.LeadKindOffer, DomainName: "zentra.io", OfferAmount: &amount},
			"Offer $1800: zentra.io",
		},
		{
			"rent to own",
			&domain.Lead{Kind: domain.LeadKindRentToOwn, DomainName: "quvia.com"},
			"Rent to own: quvia.com",
		},
		{
			"contact without subject",
			&domain.Lead{Kind: domain.LeadKindContact},
			"Contact form submission",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := subjectFor(tt.lead); got != tt.want {
				t.Errorf("subjectFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
