package app

import (
	"errors"
	"strings"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// ListingAdminService is the operator-side write path for the catalog.
type ListingAdminService struct {
	listingRepo domain.ListingRepository
	bundleRepo  domain.BundleRepository
}

func NewListingAdminService(listingRepo domain.ListingRepository, bundleRepo domain.BundleRepository) *ListingAdminService {
	return &ListingAdminService{listingRepo: listingRepo, bundleRepo: bundleRepo}
}

func (s *ListingAdminService) CreateListing(input domain.CreateListingInput) (*domain.Listing, error) {
	name := strings.ToLower(strings.TrimSpace(input.Name))
	details := map[string]string{}
	if name == "" {
		details["name"] = "Name is required"
	} else if !strings.Contains(name, ".") {
		details["name"] = "Name must be a fully qualified domain"
	}
	if input.Price != nil && *input.Price <= 0 {
		details["price"] = "Price must be positive"
	}
	status := domain.ListingStatus(input.Status)
	if input.Status == "" {
		status = domain.ListingStatusAvailable
	} else if status != domain.ListingStatusAvailable && status != domain.ListingStatusReserved {
		details["status"] = "Status must be available or reserved"
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}

	existing, _ := s.listingRepo.GetByName(name)
	if existing != nil {
		return nil, domain.NewConflictError("Listing with this name already exists")
	}

	listing := &domain.Listing{
		Name:         name,
		Price:        input.Price,
		Status:       status,
		Tags:         input.Tags,
		Bundle:       strings.ToLower(input.Bundle),
		Keyword:      input.Keyword,
		Availability: input.Availability,
	}
	if err := s.listingRepo.Create(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *ListingAdminService) UpdateListing(name string, input domain.UpdateListingInput) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.NewNotFoundError("Listing")
		}
		return nil, err
	}

	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, domain.NewValidationError(map[string]string{"price": "Price must be positive"})
		}
		listing.Price = input.Price
	}
	if input.Status != nil {
		status := domain.ListingStatus(*input.Status)
		if status != domain.ListingStatusAvailable && status != domain.ListingStatusReserved {
			return nil, domain.NewValidationError(map[string]string{"status": "Status must be available or reserved"})
		}
		listing.Status = status
	}
	if input.Tags != nil {
		listing.Tags = *input.Tags
	}
	if input.Bundle != nil {
		listing.Bundle = strings.ToLower(*input.Bundle)
	}
	if input.Keyword != nil {
		listing.Keyword = *input.Keyword
	}
	if input.Availability != nil {
		listing.Availability = *input.Availability
	}

	if err := s.listingRepo.Update(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *ListingAdminService) DeleteListing(name string) error {
	listing, err := s.listingRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return domain.NewNotFoundError("Listing")
		}
		return err
	}
	return s.listingRepo.Delete(listing.ID)
}

func (s *ListingAdminService) CreateBundle(input domain.CreateBundleInput) (*domain.Bundle, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	details := map[string]string{}
	if slug == "" {
		details["slug"] = "Slug is required"
	}
	if strings.TrimSpace(input.Title) == "" {
		details["title"] = "Title is required"
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}

	existing, _ := s.bundleRepo.GetBySlug(slug)
	if existing != nil {
		return nil, domain.NewConflictError("Bundle with this slug already exists")
	}

	bundle := &domain.Bundle{
		Slug:        slug,
		Title:       input.Title,
		Tagline:     input.Tagline,
		Description: input.Description,
	}
	if err := s.bundleRepo.Create(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (s *ListingAdminService) UpdateBundle(slug string, input domain.UpdateBundleInput) (*domain.Bundle, error) {
	bundle, err := s.bundleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			return nil, domain.NewNotFoundError("Bundle")
		}
		return nil, err
	}
	if input.Title != nil {
		bundle.Title = *input.Title
	}
	if input.Tagline != nil {
		bundle.Tagline = *input.Tagline
	}
	if input.Description != nil {
		bundle.Description = *input.Description
	}
	if err := s.bundleRepo.Update(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (s *ListingAdminService) DeleteBundle(slug string) error {
	bundle, err := s.bundleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			return domain.NewNotFoundError("Bundle")
		}
		return err
	}
	return s.bundleRepo.Delete(bundle.ID)
}
