package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// Apply runs the static pipeline over an in-memory listing set: match,
// then sort, in that order. Relevance depends on the pre-sort match order,
// so the order of the two steps is load-bearing. Apply never errors; empty
// input yields an empty output.
func Apply(snapshot *Snapshot, state FilterState) []domain.Listing {
	matched := Match(snapshot, state)
	Sort(matched, state)
	return matched
}

// Match returns the listings passing every active predicate, preserving
// input order. Predicates on default-valued dimensions pass everything.
func Match(snapshot *Snapshot, state FilterState) []domain.Listing {
	if snapshot == nil {
		return []domain.Listing{}
	}

	query := strings.ToLower(strings.TrimSpace(state.Query))
	result := []domain.Listing{}
	for _, listing := range snapshot.Listings {
		if !matchesSearch(snapshot, &listing, query) {
			continue
		}
		if !matchesTags(&listing, state.Tags) {
			continue
		}
		if state.Bundle != "" && !strings.EqualFold(listing.Bundle, state.Bundle) {
			continue
		}
		if state.TLD != "" && !strings.EqualFold(listing.TLD(), state.TLD) {
			continue
		}
		if n := listing.Length(); n < state.MinLength || n > state.MaxLength {
			continue
		}
		if state.BuyNow && !listing.Availability.BuyNow {
			continue
		}
		if state.Offer && !listing.Availability.Offer {
			continue
		}
		if state.RentToOwn && !listing.Availability.RentToOwn {
			continue
		}
		result = append(result, listing)
	}
	return result
}

// matchesSearch is a case-insensitive substring check against the listing
// name, its bundle's title, and any tag. An empty query passes.
func matchesSearch(snapshot *Snapshot, listing *domain.Listing, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(listing.Name), query) {
		return true
	}
	if bundle, ok := snapshot.BundleBySlug(listing.Bundle); ok {
		if strings.Contains(strings.ToLower(bundle.Title), query) {
			return true
		}
	}
	for _, tag := range listing.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// matchesTags passes when no tags are selected or the listing carries at
// least one of them. OR across tags, not AND.
func matchesTags(listing *domain.Listing, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range selected {
		if listing.HasTag(tag) {
			return true
		}
	}
	return false
}

// Sort orders listings in place by the state's sort key. The sort is
// stable so price ties keep their match order. Relevance keeps the match
// order when a query is active and falls back to price-high otherwise.
func Sort(listings []domain.Listing, state FilterState) {
	key := state.Sort
	if key == "" {
		key = domain.DefaultSort
	}
	if key == domain.SortRelevance {
		if strings.TrimSpace(state.Query) != "" {
			return
		}
		key = domain.SortPriceHigh
	}

	switch key {
	case domain.SortPriceHigh:
		sort.SliceStable(listings, func(i, j int) bool {
			return priceBefore(&listings[i], &listings[j], false)
		})
	case domain.SortPriceLow:
		sort.SliceStable(listings, func(i, j int) bool {
			return priceBefore(&listings[i], &listings[j], true)
		})
	case domain.SortNameAZ:
		collator := newCollator()
		sort.SliceStable(listings, func(i, j int) bool {
			return collator.CompareString(listings[i].Name, listings[j].Name) < 0
		})
	case domain.SortNameZA:
		collator := newCollator()
		sort.SliceStable(listings, func(i, j int) bool {
			return collator.CompareString(listings[i].Name, listings[j].Name) > 0
		})
	case domain.SortLength:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Length() < listings[j].Length()
		})
	}
}

// Page slices the first visible listings, the way the storefront grows
// the list one page at a time. Out-of-range counts clamp, never panic.
func Page(listings []domain.Listing, visible int) []domain.Listing {
	if visible <= 0 {
		return []domain.Listing{}
	}
	if visible > len(listings) {
		visible = len(listings)
	}
	return listings[:visible]
}

func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// priceBefore orders by price in either direction with "contact for
// price" listings last, the same placement NULLS LAST gives the remote
// pipeline.
func priceBefore(a, b *domain.Listing, ascending bool) bool {
	if a.Price == nil {
		return false
	}
	if b.Price == nil {
		return true
	}
	if ascending {
		return *a.Price < *b.Price
	}
	return *a.Price > *b.Price
}
