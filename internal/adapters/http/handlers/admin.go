package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/UCgr8/needsites-public-sub000/internal/adapters/http/response"
	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// AdminHandler is the operator surface: listing and bundle management
// plus read access to captured leads. Everything here sits behind the
// auth middleware.
type AdminHandler struct {
	adminService *app.ListingAdminService
	leadService  *app.LeadService
	refresher    *app.Refresher
}

func NewAdminHandler(adminService *app.ListingAdminService, leadService *app.LeadService, refresher *app.Refresher) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		leadService:  leadService,
		refresher:    refresher,
	}
}

func (h *AdminHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	listing, err := h.adminService.CreateListing(input)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, listing)
}

func (h *AdminHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))

	var input domain.UpdateListingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	listing, err := h.adminService.UpdateListing(name, input)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, listing)
}

func (h *AdminHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))

	if err := h.adminService.DeleteListing(name); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

func (h *AdminHandler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateBundleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	bundle, err := h.adminService.CreateBundle(input)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, bundle)
}

func (h *AdminHandler) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var input domain.UpdateBundleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	bundle, err := h.adminService.UpdateBundle(slug, input)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, bundle)
}

func (h *AdminHandler) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.adminService.DeleteBundle(slug); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.LeadFilter{
		Pagination: domain.Pagination{
			Page:     queryInt(q, "page", 1),
			PageSize: queryInt(q, "page_size", domain.PageSize),
		},
	}
	if kind := q.Get("kind"); kind != "" {
		k := domain.LeadKind(kind)
		filter.Kind = &k
	}
	if search := q.Get("search"); search != "" {
		filter.Search = &search
	}

	leads, total, err := h.leadService.List(filter)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Paginated(w, domain.NewPaginatedResult(leads, total, filter.Pagination))
}

func (h *AdminHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid lead ID")
		return
	}

	lead, err := h.leadService.GetByID(id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, lead)
}

// RefreshCatalog forces the bundle recount and static snapshot reload
// that otherwise run on the cron schedule.
func (h *AdminHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	h.refresher.Refresh()
	response.OK(w, map[string]string{"status": "refreshed"})
}
