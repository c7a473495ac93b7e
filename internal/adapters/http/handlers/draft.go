package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/UCgr8/needsites-public-sub000/internal/adapters/http/response"
	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// DraftHandler exposes server-side draft storage for the lead forms.
// Drafts are whole-object snapshots: PUT overwrites, GET returns the
// latest snapshot or 404, DELETE discards.
type DraftHandler struct {
	leadService *app.LeadService
}

func NewDraftHandler(leadService *app.LeadService) *DraftHandler {
	return &DraftHandler{leadService: leadService}
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, "Draft key is required")
		return
	}

	draft, err := h.leadService.LoadDraft(key)
	if err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			response.NotFound(w, "Draft")
			return
		}
		response.Error(w, err)
		return
	}

	response.OK(w, draft)
}

func (h *DraftHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, "Draft key is required")
		return
	}

	var draft domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.leadService.SaveDraft(key, draft); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, "Draft key is required")
		return
	}

	if err := h.leadService.ClearDraft(key); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
