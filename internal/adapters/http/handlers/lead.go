package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/UCgr8/needsites-public-sub000/internal/adapters/http/response"
	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

type LeadHandler struct {
	leadService *app.LeadService
}

func NewLeadHandler(leadService *app.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

func (h *LeadHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	var input domain.BuyNowInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	outcome, err := h.leadService.SubmitBuyNow(input, submissionMeta(r), clientKey(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, outcome)
}

func (h *LeadHandler) Offer(w http.ResponseWriter, r *http.Request) {
	var input domain.OfferInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	outcome, err := h.leadService.SubmitOffer(input, submissionMeta(r), clientKey(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, outcome)
}

func (h *LeadHandler) RentToOwn(w http.ResponseWriter, r *http.Request) {
	var input domain.RentToOwnInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	outcome, err := h.leadService.SubmitRentToOwn(input, submissionMeta(r), clientKey(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, outcome)
}

// clientKey identifies the submitter for throttle and draft bookkeeping.
// Storefronts send a stable opaque key; anything without one falls back
// to the remote address so throttling still applies.
func clientKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-Client-Key")); key != "" {
		return key
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func submissionMeta(r *http.Request) domain.SubmissionMeta {
	path := r.Header.Get("X-Storefront-Path")
	if path == "" {
		path = r.URL.Path
	}
	return domain.SubmissionMeta{
		UserAgent: r.UserAgent(),
		Path:      path,
		Referrer:  r.Referer(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
