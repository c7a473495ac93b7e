package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/UCgr8/needsites-public-sub000/internal/adapters/http/response"
	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/catalog"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

type CatalogHandler struct {
	catalogService *app.CatalogService
}

func NewCatalogHandler(catalogService *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List serves one page of the catalog. The filter state is decoded from
// the URL query parameters; unknown or malformed parameters fall back to
// defaults rather than erroring, so stale bookmarked URLs keep working.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	state := catalog.ParseQuery(r.URL.Query())

	page := queryInt(r.URL.Query(), "page", 1)
	if page < 1 {
		page = 1
	}

	listings, total, err := h.catalogService.List(state, page)
	if err != nil {
		response.Error(w, err)
		return
	}

	pagination := domain.Pagination{Page: page, PageSize: domain.PageSize}
	response.Paginated(w, domain.NewPaginatedResult(listings, total, pagination))
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))
	if name == "" {
		response.BadRequest(w, "Listing name is required")
		return
	}

	listing, err := h.catalogService.GetListing(name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, listing)
}

func (h *CatalogHandler) Bundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.catalogService.Bundles()
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, bundles)
}

func (h *CatalogHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		response.BadRequest(w, "Bundle slug is required")
		return
	}

	bundle, err := h.catalogService.GetBundle(slug)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, bundle)
}
