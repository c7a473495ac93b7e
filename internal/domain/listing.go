package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusReserved  ListingStatus = "reserved"
)

// SortKey selects the comparator applied to catalog results. The zero
// value is not valid; use DefaultSort.
type SortKey string

const (
	SortPriceHigh SortKey = "price-high"
	SortPriceLow  SortKey = "price-low"
	SortNameAZ    SortKey = "a-z"
	SortNameZA    SortKey = "z-a"
	SortLength    SortKey = "length-ascending"
	SortRelevance SortKey = "relevance"
)

const DefaultSort = SortPriceHigh

func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortPriceHigh, SortPriceLow, SortNameAZ, SortNameZA, SortLength, SortRelevance:
		return SortKey(s), true
	}
	return "", false
}

// Availability records which purchase flows are enabled for a listing.
// The three flags are independent.
type Availability struct {
	BuyNow    bool `json:"buy_now"`
	Offer     bool `json:"offer"`
	RentToOwn bool `json:"rent_to_own"`
}

// Listing is one catalog entry. Name is globally unique across bundles.
// A nil Price means "contact for price".
type Listing struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Price        *int64        `json:"price,omitempty"`
	Status       ListingStatus `json:"status"`
	Tags         []string      `json:"tags"`
	Bundle       string        `json:"bundle,omitempty"`
	Keyword      string        `json:"keyword,omitempty"`
	Availability Availability  `json:"availability"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	DeletedAt    *time.Time    `json:"-"`
}

// TLD returns the substring after the last dot, or "" for a bare label.
func (l *Listing) TLD() string {
	if i := strings.LastIndex(l.Name, "."); i >= 0 {
		return l.Name[i+1:]
	}
	return ""
}

// Length is the character count of the full domain name, matching
// char_length in the remote pipeline for internationalized names.
func (l *Listing) Length() int {
	return utf8.RuneCountInString(l.Name)
}

func (l *Listing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type CreateListingInput struct {
	Name         string       `json:"name"`
	Price        *int64       `json:"price,omitempty"`
	Status       string       `json:"status,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Bundle       string       `json:"bundle,omitempty"`
	Keyword      string       `json:"keyword,omitempty"`
	Availability Availability `json:"availability"`
}

type UpdateListingInput struct {
	Price        *int64        `json:"price,omitempty"`
	Status       *string       `json:"status,omitempty"`
	Tags         *[]string     `json:"tags,omitempty"`
	Bundle       *string       `json:"bundle,omitempty"`
	Keyword      *string       `json:"keyword,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
}

// ListingFilter carries every catalog filter dimension. Dimensions combine
// with AND; the tag set matches with OR within its own dimension.
type ListingFilter struct {
	Search    *string  `json:"search,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Bundle    *string  `json:"bundle,omitempty"`
	TLD       *string  `json:"tld,omitempty"`
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	BuyNow    bool     `json:"buy_now,omitempty"`
	Offer     bool     `json:"offer,omitempty"`
	RentToOwn bool     `json:"rent_to_own,omitempty"`
	Sort      SortKey  `json:"sort,omitempty"`
	Pagination
}

type ListingRepository interface {
	Create(listing *Listing) error
	GetByName(name string) (*Listing, error)
	Update(listing *Listing) error
	Delete(id uuid.UUID) error
	List(filter ListingFilter) ([]Listing, int64, error)
}
