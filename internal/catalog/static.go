package catalog

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// Snapshot is the static catalog: the full listing set bundled with the
// storefront plus its bundle definitions, immutable once built.
type Snapshot struct {
	Bundles  []domain.Bundle
	Listings []domain.Listing

	bySlug map[string]int
}

func (s *Snapshot) BundleBySlug(slug string) (*domain.Bundle, bool) {
	if s == nil || slug == "" {
		return nil, false
	}
	i, ok := s.bySlug[strings.ToLower(slug)]
	if !ok {
		return nil, false
	}
	return &s.Bundles[i], true
}

type datasetFile struct {
	Bundles  []datasetBundle  `yaml:"bundles"`
	Listings []datasetListing `yaml:"listings"`
}

type datasetBundle struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Tagline     string `yaml:"tagline"`
	Description string `yaml:"description"`
	Count       int    `yaml:"count"`
}

type datasetListing struct {
	Name      string   `yaml:"name"`
	Price     *int64   `yaml:"price"`
	Status    string   `yaml:"status"`
	Tags      []string `yaml:"tags"`
	Bundle    string   `yaml:"bundle"`
	Keyword   string   `yaml:"keyword"`
	BuyNow    bool     `yaml:"buy_now"`
	Offer     bool     `yaml:"offer"`
	RentToOwn bool     `yaml:"rent_to_own"`
}

// LoadSnapshot parses and validates the static dataset. Malformed entries
// are logged and skipped rather than propagated, so one bad row never
// takes the catalog down. Only an unreadable or unparsable file errors.
func LoadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog dataset: %w", err)
	}

	var file datasetFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog dataset: %w", err)
	}

	snapshot := &Snapshot{bySlug: make(map[string]int)}

	for _, b := range file.Bundles {
		if b.Slug == "" || b.Title == "" {
			log.Printf("[Catalog] Skipping bundle with missing slug or title: %+v", b)
			continue
		}
		slug := strings.ToLower(b.Slug)
		if _, dup := snapshot.bySlug[slug]; dup {
			log.Printf("[Catalog] Skipping duplicate bundle %q", b.Slug)
			continue
		}
		snapshot.bySlug[slug] = len(snapshot.Bundles)
		snapshot.Bundles = append(snapshot.Bundles, domain.Bundle{
			Slug:        slug,
			Title:       b.Title,
			Tagline:     b.Tagline,
			Description: b.Description,
			Count:       b.Count,
		})
	}

	seen := make(map[string]bool)
	for _, l := range file.Listings {
		listing, err := validateListing(l)
		if err != nil {
			log.Printf("[Catalog] Skipping listing %q: %v", l.Name, err)
			continue
		}
		key := strings.ToLower(listing.Name)
		if seen[key] {
			log.Printf("[Catalog] Skipping duplicate listing %q", listing.Name)
			continue
		}
		seen[key] = true
		if listing.Bundle != "" {
			if _, ok := snapshot.BundleBySlug(listing.Bundle); !ok {
				// Free-text bundle labels drift; tolerate them.
				log.Printf("[Catalog] Listing %q references unknown bundle %q", listing.Name, listing.Bundle)
			}
		}
		snapshot.Listings = append(snapshot.Listings, *listing)
	}

	return snapshot, nil
}

func validateListing(l datasetListing) (*domain.Listing, error) {
	name := strings.ToLower(strings.TrimSpace(l.Name))
	if name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if !strings.Contains(name, ".") {
		return nil, fmt.Errorf("name %q has no TLD", name)
	}
	if l.Price != nil && *l.Price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}

	status := domain.ListingStatus(l.Status)
	if l.Status == "" {
		status = domain.ListingStatusAvailable
	} else if status != domain.ListingStatusAvailable && status != domain.ListingStatusReserved {
		return nil, fmt.Errorf("unknown status %q", l.Status)
	}

	return &domain.Listing{
		Name:    name,
		Price:   l.Price,
		Status:  status,
		Tags:    l.Tags,
		Bundle:  strings.ToLower(l.Bundle),
		Keyword: l.Keyword,
		Availability: domain.Availability{
			BuyNow:    l.BuyNow,
			Offer:     l.Offer,
			RentToOwn: l.RentToOwn,
		},
	}, nil
}

// Holder publishes the current snapshot and lets the refresher swap in a
// new one atomically while requests read concurrently.
type Holder struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

func NewHolder(snapshot *Snapshot) *Holder {
	return &Holder{snapshot: snapshot}
}

func (h *Holder) Get() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

func (h *Holder) Set(snapshot *Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = snapshot
}
