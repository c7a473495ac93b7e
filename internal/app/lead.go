package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/config"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/kv"
)

// Mailer forwards a captured lead to the transactional email provider.
type Mailer interface {
	SendLeadNotification(lead *domain.Lead) error
}

// Deliberately simple: one local part, one domain with a dot. The
// provider does the real verification when it sends.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LeadService runs the shared lead-capture pipeline: validate, honeypot,
// throttle, persist, relay to email, plus draft persistence.
type LeadService struct {
	leadRepo    domain.LeadRepository
	store       kv.Store
	mailer      Mailer
	cooldown    time.Duration
	maxMessage  int
	draftTTL    time.Duration
	checkoutURL string
}

func NewLeadService(
	leadRepo domain.LeadRepository,
	store kv.Store,
	mailer Mailer,
	forms config.FormsConfig,
	checkoutURL string,
) *LeadService {
	return &LeadService{
		leadRepo:    leadRepo,
		store:       store,
		mailer:      mailer,
		cooldown:    forms.Cooldown,
		maxMessage:  forms.MaxMessageLen,
		draftTTL:    forms.DraftTTL,
		checkoutURL: checkoutURL,
	}
}

// ValidateEmail applies the storefront's two-part email check.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidateContact returns field-scoped errors for a contact submission.
// An empty map means the form may be submitted.
func (s *LeadService) ValidateContact(input domain.ContactInput) map[string]string {
	details := map[string]string{}
	s.validateCommon(details, input.Name, input.Email, input.Message, true)
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		details["subject"] = "Subject is required"
	} else if strings.EqualFold(subject, "other") && strings.TrimSpace(input.CustomSubject) == "" {
		details["custom_subject"] = "Please describe your reason"
	}
	return details
}

func (s *LeadService) validateCommon(details map[string]string, name, email, message string, messageRequired bool) {
	if strings.TrimSpace(name) == "" {
		details["name"] = "Name is required"
	}
	email = strings.TrimSpace(email)
	if email == "" {
		details["email"] = "Email is required"
	} else if !ValidateEmail(email) {
		details["email"] = "Enter a valid email address"
	}
	message = strings.TrimSpace(message)
	if messageRequired && message == "" {
		details["message"] = "Message is required"
	}
	if utf8.RuneCountInString(message) > s.maxMessage {
		details["message"] = fmt.Sprintf("Message must be at most %d characters", s.maxMessage)
	}
}

// SubmitContact runs the full pipeline for the contact form. clientKey
// identifies the submitter for throttling; the handler falls back to the
// remote IP when the storefront sends no key.
func (s *LeadService) SubmitContact(input domain.ContactInput, meta domain.SubmissionMeta, clientKey string) (*domain.LeadOutcome, error) {
	if details := s.ValidateContact(input); len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}
	if outcome, faked := s.trapHoneypot(input.Honeypot, domain.LeadKindContact); faked {
		return outcome, nil
	}
	if err := s.checkThrottle(domain.LeadKindContact, clientKey); err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(input.Subject)
	if strings.EqualFold(subject, "other") {
		subject = strings.TrimSpace(input.CustomSubject)
	}

	lead := &domain.Lead{
		Kind:    domain.LeadKindContact,
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: subject,
		Message: strings.TrimSpace(input.Message),
		Meta:    metaMap(meta),
	}
	return s.finish(lead, clientKey, "")
}

func (s *LeadService) SubmitBuyNow(input domain.BuyNowInput, meta domain.SubmissionMeta, clientKey string) (*domain.LeadOutcome, error) {
	details := map[string]string{}
	s.validateCommon(details, input.Name, input.Email, input.Message, false)
	if strings.TrimSpace(input.DomainName) == "" {
		details["domain"] = "Domain is required"
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}
	if outcome, faked := s.trapHoneypot(input.Honeypot, domain.LeadKindBuyNow); faked {
		return outcome, nil
	}
	if err := s.checkThrottle(domain.LeadKindBuyNow, clientKey); err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		Kind:       domain.LeadKindBuyNow,
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Message:    strings.TrimSpace(input.Message),
		DomainName: strings.ToLower(strings.TrimSpace(input.DomainName)),
		Src:        input.Src,
		Host:       input.Host,
		Meta:       metaMap(meta),
	}
	redirect := fmt.Sprintf(s.checkoutURL, lead.DomainName)
	return s.finish(lead, clientKey, redirect)
}

func (s *LeadService) SubmitOffer(input domain.OfferInput, meta domain.SubmissionMeta, clientKey string) (*domain.LeadOutcome, error) {
	details := map[string]string{}
	s.validateCommon(details, input.Name, input.Email, input.Message, true)
	if strings.TrimSpace(input.DomainName) == "" {
		details["domain"] = "Domain is required"
	}
	if input.OfferAmount <= 0 {
		details["offer_amount"] = "Offer must be a positive amount"
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}
	if outcome, faked := s.trapHoneypot(input.Honeypot, domain.LeadKindOffer); faked {
		return outcome, nil
	}
	if err := s.checkThrottle(domain.LeadKindOffer, clientKey); err != nil {
		return nil, err
	}

	amount := input.OfferAmount
	lead := &domain.Lead{
		Kind:        domain.LeadKindOffer,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Message:     strings.TrimSpace(input.Message),
		DomainName:  strings.ToLower(strings.TrimSpace(input.DomainName)),
		OfferAmount: &amount,
		Src:         input.Src,
		Host:        input.Host,
		Meta:        metaMap(meta),
	}
	return s.finish(lead, clientKey, "")
}

func (s *LeadService) SubmitRentToOwn(input domain.RentToOwnInput, meta domain.SubmissionMeta, clientKey string) (*domain.LeadOutcome, error) {
	details := map[string]string{}
	s.validateCommon(details, input.Name, input.Email, input.Message, true)
	if strings.TrimSpace(input.DomainName) == "" {
		details["domain"] = "Domain is required"
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}
	if outcome, faked := s.trapHoneypot(input.Honeypot, domain.LeadKindRentToOwn); faked {
		return outcome, nil
	}
	if err := s.checkThrottle(domain.LeadKindRentToOwn, clientKey); err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		Kind:       domain.LeadKindRentToOwn,
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Message:    strings.TrimSpace(input.Message),
		DomainName: strings.ToLower(strings.TrimSpace(input.DomainName)),
		Src:        input.Src,
		Host:       input.Host,
		Meta:       metaMap(meta),
	}
	return s.finish(lead, clientKey, "")
}

// finish persists the lead, relays it to the email provider, and stamps
// the throttle window. A mail failure surfaces to the caller but the lead
// stays persisted so no submission is lost.
func (s *LeadService) finish(lead *domain.Lead, clientKey, redirect string) (*domain.LeadOutcome, error) {
	if err := s.leadRepo.Create(lead); err != nil {
		return nil, err
	}
	if err := s.mailer.SendLeadNotification(lead); err != nil {
		log.Printf("[Leads] Lead %s stored but notification failed: %v", lead.ID, err)
		return nil, err
	}
	s.stampThrottle(lead.Kind, clientKey)
	s.clearDraftQuiet(draftKeyFor(lead.Kind, clientKey))

	return &domain.LeadOutcome{LeadID: lead.ID, RedirectURL: redirect}, nil
}

// trapHoneypot fabricates a success for automated fillers so they cannot
// tell acceptance from rejection. Nothing is stored, mailed, or stamped.
func (s *LeadService) trapHoneypot(honeypot string, kind domain.LeadKind) (*domain.LeadOutcome, bool) {
	if strings.TrimSpace(honeypot) == "" {
		return nil, false
	}
	log.Printf("[Leads] Honeypot tripped on %s form", kind)
	return &domain.LeadOutcome{LeadID: uuid.New()}, true
}

func (s *LeadService) checkThrottle(kind domain.LeadKind, clientKey string) error {
	if clientKey == "" || s.cooldown <= 0 {
		return nil
	}
	remaining, err := s.store.TTL(context.Background(), throttleKey(kind, clientKey))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		// A broken store must not block real submissions.
		log.Printf("[Leads] Throttle lookup failed: %v", err)
		return nil
	}
	seconds := int(math.Ceil(remaining.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return domain.NewThrottledError(seconds)
}

func (s *LeadService) stampThrottle(kind domain.LeadKind, clientKey string) {
	if clientKey == "" || s.cooldown <= 0 {
		return
	}
	key := throttleKey(kind, clientKey)
	if err := s.store.Set(context.Background(), key, time.Now().UTC().Format(time.RFC3339), s.cooldown); err != nil {
		log.Printf("[Leads] Throttle stamp failed: %v", err)
	}
}

// SaveDraft overwrites the whole draft snapshot for a client key.
func (s *LeadService) SaveDraft(key string, draft domain.Draft) error {
	if strings.TrimSpace(key) == "" {
		return domain.NewValidationError(map[string]string{"key": "Draft key is required"})
	}
	draft.SavedAt = time.Now().UTC()
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.store.Set(context.Background(), draftKey(key), string(raw), s.draftTTL)
}

// LoadDraft returns the stored draft, or ErrDraftNotFound when none
// exists; absence is not an error condition for the storefront.
func (s *LeadService) LoadDraft(key string) (*domain.Draft, error) {
	raw, err := s.store.Get(context.Background(), draftKey(key))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, err
	}
	var draft domain.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, domain.ErrDraftNotFound
	}
	return &draft, nil
}

func (s *LeadService) ClearDraft(key string) error {
	return s.store.Delete(context.Background(), draftKey(key))
}

func (s *LeadService) clearDraftQuiet(key string) {
	if err := s.store.Delete(context.Background(), key); err != nil {
		log.Printf("[Leads] Draft clear failed: %v", err)
	}
}

// List exposes captured leads to the operator surface.
func (s *LeadService) List(filter domain.LeadFilter) ([]domain.Lead, int64, error) {
	return s.leadRepo.List(filter)
}

func (s *LeadService) GetByID(id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			return nil, domain.NewNotFoundError("Lead")
		}
		return nil, err
	}
	return lead, nil
}

func metaMap(meta domain.SubmissionMeta) domain.JSONMap {
	m := domain.JSONMap{}
	if meta.UserAgent != "" {
		m["user_agent"] = meta.UserAgent
	}
	if meta.Path != "" {
		m["path"] = meta.Path
	}
	if meta.Referrer != "" {
		m["referrer"] = meta.Referrer
	}
	if meta.Timestamp != "" {
		m["timestamp"] = meta.Timestamp
	} else {
		m["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	}
	return m
}

func throttleKey(kind domain.LeadKind, clientKey string) string {
	return fmt.Sprintf("throttle:%s:%s", kind, clientKey)
}

func draftKey(key string) string {
	return "draft:" + key
}

func draftKeyFor(kind domain.LeadKind, clientKey string) string {
	return draftKey(fmt.Sprintf("%s:%s", kind, clientKey))
}
