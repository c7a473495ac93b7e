package app

import (
	"errors"

	"github.com/UCgr8/needsites-public-sub000/internal/catalog"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// CatalogService answers catalog queries. The remote pipeline goes through
// the listing repository; the static pipeline runs the pure engine over
// the current snapshot.
type CatalogService struct {
	listingRepo domain.ListingRepository
	bundleRepo  domain.BundleRepository
	static      *catalog.Holder
}

func NewCatalogService(
	listingRepo domain.ListingRepository,
	bundleRepo domain.BundleRepository,
	static *catalog.Holder,
) *CatalogService {
	return &CatalogService{
		listingRepo: listingRepo,
		bundleRepo:  bundleRepo,
		static:      static,
	}
}

// List runs one remote page for a filter state.
func (s *CatalogService) List(state catalog.FilterState, page int) ([]domain.Listing, int64, error) {
	if page < 1 {
		page = 1
	}
	pagination := domain.DefaultPagination()
	pagination.Page = page
	return s.listingRepo.List(state.Filter(pagination))
}

// FetchPage adapts List to the Browser's fetcher contract.
func (s *CatalogService) FetchPage(state catalog.FilterState, page int) ([]domain.Listing, int64, error) {
	return s.List(state, page)
}

func (s *CatalogService) GetListing(name string) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.NewNotFoundError("Listing")
		}
		return nil, err
	}
	return listing, nil
}

// Static applies the full client-side pipeline to the bundled catalog.
func (s *CatalogService) Static(state catalog.FilterState) []domain.Listing {
	return catalog.Apply(s.static.Get(), state)
}

func (s *CatalogService) Bundles() ([]domain.Bundle, error) {
	return s.bundleRepo.List()
}

func (s *CatalogService) GetBundle(slug string) (*domain.Bundle, error) {
	bundle, err := s.bundleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			return nil, domain.NewNotFoundError("Bundle")
		}
		return nil, err
	}
	return bundle, nil
}
