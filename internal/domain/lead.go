package domain

import (
	"time"

	"github.com/google/uuid"
)

type LeadKind string

const (
	LeadKindContact   LeadKind = "contact"
	LeadKindBuyNow    LeadKind = "buy_now"
	LeadKindOffer     LeadKind = "offer"
	LeadKindRentToOwn LeadKind = "rent_to_own"
)

// SubmissionMeta is the attribution block attached to every lead: where
// the submission came from, on what page, when, and with what client.
type SubmissionMeta struct {
	UserAgent string `json:"user_agent,omitempty"`
	Path      string `json:"path,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Lead is one captured storefront submission. DomainName and OfferAmount
// are only set for the purchase-flow kinds.
type Lead struct {
	ID          uuid.UUID `json:"id"`
	Kind        LeadKind  `json:"kind"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message,omitempty"`
	DomainName  string    `json:"domain_name,omitempty"`
	OfferAmount *int64    `json:"offer_amount,omitempty"`
	Src         string    `json:"src,omitempty"`
	Host        string    `json:"host,omitempty"`
	Meta        JSONMap   `json:"meta,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactInput is the payload of the contact form. Honeypot carries the
// hidden field real users never fill in.
type ContactInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Subject       string `json:"subject"`
	CustomSubject string `json:"custom_subject,omitempty"`
	Message       string `json:"message"`
	Honeypot      string `json:"website,omitempty"`
}

type BuyNowInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message,omitempty"`
	DomainName string `json:"domain"`
	Src        string `json:"src,omitempty"`
	Host       string `json:"host,omitempty"`
	Honeypot   string `json:"website,omitempty"`
}

type OfferInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	DomainName  string `json:"domain"`
	OfferAmount int64  `json:"offer_amount"`
	Src         string `json:"src,omitempty"`
	Host        string `json:"host,omitempty"`
	Honeypot    string `json:"website,omitempty"`
}

type RentToOwnInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	DomainName string `json:"domain"`
	Src        string `json:"src,omitempty"`
	Host       string `json:"host,omitempty"`
	Honeypot   string `json:"website,omitempty"`
}

// LeadOutcome is what a lead endpoint reports back to the storefront.
// RedirectURL is only set for buy-now leads routed to external checkout.
type LeadOutcome struct {
	LeadID      uuid.UUID `json:"lead_id"`
	RedirectURL string    `json:"redirect_url,omitempty"`
}

// Draft is an in-progress, not-yet-submitted snapshot of form values,
// overwritten whole on every save.
type Draft struct {
	Name    string    `json:"name,omitempty"`
	Email   string    `json:"email,omitempty"`
	Message string    `json:"message,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

type LeadFilter struct {
	Kind   *LeadKind `json:"kind,omitempty"`
	Search *string   `json:"search,omitempty"`
	Pagination
}

type LeadRepository interface {
	Create(lead *Lead) error
	GetByID(id uuid.UUID) (*Lead, error)
	List(filter LeadFilter) ([]Lead, int64, error)
}
