package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

// Length-range defaults. A state carrying exactly these bounds encodes to
// an empty range so shared URLs stay minimal.
const (
	DefaultMinLength = 1
	DefaultMaxLength = 50
)

// Recognized query parameter names. Anything else in the URL is ignored.
const (
	paramQuery     = "q"
	paramTags      = "tags"
	paramSort      = "sort"
	paramTLD       = "tld"
	paramBundle    = "bundle"
	paramMinLength = "minLength"
	paramMaxLength = "maxLength"
	paramBuyNow    = "availability_bin"
	paramOffer     = "availability_offer"
	paramRTO       = "availability_rto"
)

// FilterState is the single source of truth for catalog browsing. It is
// reconstructed from the URL on every request and never mutated in place;
// controls produce a new state and re-encode it.
type FilterState struct {
	Query     string
	Tags      []string
	Bundle    string
	TLD       string
	MinLength int
	MaxLength int
	BuyNow    bool
	Offer     bool
	RentToOwn bool
	Sort      domain.SortKey
}

// DefaultFilterState returns the state an unparameterized URL decodes to.
func DefaultFilterState() FilterState {
	return FilterState{
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
		Sort:      domain.DefaultSort,
	}
}

// ParseQuery decodes recognized parameters into a FilterState. Absent or
// malformed values fall back to their defaults; unknown parameters are
// ignored so old links keep working as the storefront grows.
func ParseQuery(values url.Values) FilterState {
	state := DefaultFilterState()

	state.Query = values.Get(paramQuery)
	state.Tags = splitTags(values.Get(paramTags))
	state.Bundle = values.Get(paramBundle)
	state.TLD = values.Get(paramTLD)

	if raw := values.Get(paramSort); raw != "" {
		if key, ok := domain.ParseSortKey(raw); ok {
			state.Sort = key
		}
	}
	if raw := values.Get(paramMinLength); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			state.MinLength = n
		}
	}
	if raw := values.Get(paramMaxLength); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			state.MaxLength = n
		}
	}
	state.BuyNow = parseBool(values.Get(paramBuyNow))
	state.Offer = parseBool(values.Get(paramOffer))
	state.RentToOwn = parseBool(values.Get(paramRTO))

	return state
}

// Encode produces the query parameters for a state. Keys whose value
// equals the default are omitted, so ParseQuery(state.Encode()) == state
// for every reachable state and default URLs stay bare.
func (s FilterState) Encode() url.Values {
	values := url.Values{}

	if s.Query != "" {
		values.Set(paramQuery, s.Query)
	}
	if len(s.Tags) > 0 {
		values.Set(paramTags, strings.Join(s.Tags, ","))
	}
	if s.Bundle != "" {
		values.Set(paramBundle, s.Bundle)
	}
	if s.TLD != "" {
		values.Set(paramTLD, s.TLD)
	}
	if s.Sort != "" && s.Sort != domain.DefaultSort {
		values.Set(paramSort, string(s.Sort))
	}
	if s.MinLength != DefaultMinLength {
		values.Set(paramMinLength, strconv.Itoa(s.MinLength))
	}
	if s.MaxLength != DefaultMaxLength {
		values.Set(paramMaxLength, strconv.Itoa(s.MaxLength))
	}
	if s.BuyNow {
		values.Set(paramBuyNow, "true")
	}
	if s.Offer {
		values.Set(paramOffer, "true")
	}
	if s.RentToOwn {
		values.Set(paramRTO, "true")
	}

	return values
}

// Equal compares two states field by field. Tag order matters: the codec
// preserves it, so states reachable through the UI compare correctly.
func (s FilterState) Equal(other FilterState) bool {
	if s.Query != other.Query ||
		s.Bundle != other.Bundle ||
		s.TLD != other.TLD ||
		s.MinLength != other.MinLength ||
		s.MaxLength != other.MaxLength ||
		s.BuyNow != other.BuyNow ||
		s.Offer != other.Offer ||
		s.RentToOwn != other.RentToOwn ||
		s.Sort != other.Sort ||
		len(s.Tags) != len(other.Tags) {
		return false
	}
	for i := range s.Tags {
		if s.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// Filter translates the state into the repository filter used by the
// remote pipeline. Default-valued dimensions stay unset so the query
// builder skips them.
func (s FilterState) Filter(pagination domain.Pagination) domain.ListingFilter {
	filter := domain.ListingFilter{
		Sort:       s.Sort,
		Pagination: pagination,
	}
	if s.Query != "" {
		q := s.Query
		filter.Search = &q
	}
	if len(s.Tags) > 0 {
		filter.Tags = s.Tags
	}
	if s.Bundle != "" {
		b := s.Bundle
		filter.Bundle = &b
	}
	if s.TLD != "" {
		t := s.TLD
		filter.TLD = &t
	}
	if s.MinLength != DefaultMinLength {
		min := s.MinLength
		filter.MinLength = &min
	}
	if s.MaxLength != DefaultMaxLength {
		max := s.MaxLength
		filter.MaxLength = &max
	}
	filter.BuyNow = s.BuyNow
	filter.Offer = s.Offer
	filter.RentToOwn = s.RentToOwn
	return filter
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
