package postgres

import (
	"reflect"
	"testing"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestBuildListingWhere(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.ListingFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "empty filter",
			filter:    domain.ListingFilter{},
			wantWhere: "deleted_at IS NULL",
			wantArgs:  []interface{}{},
		},
		{
			name:      "search matches name and keyword",
			filter:    domain.ListingFilter{Search: strPtr("plumb")},
			wantWhere: "deleted_at IS NULL AND (name ILIKE $1 OR keyword ILIKE $1)",
			wantArgs:  []interface{}{"%plumb%"},
		},
		{
			name:      "bundle is lowercased exact match",
			filter:    domain.ListingFilter{Bundle: strPtr("Needs")},
			wantWhere: "deleted_at IS NULL AND bundle = $1",
			wantArgs:  []interface{}{"needs"},
		},
		{
			name:      "tags use array overlap",
			filter:    domain.ListingFilter{Tags: []string{"services", "home"}},
			wantWhere: "deleted_at IS NULL AND tags && $1",
			wantArgs:  []interface{}{[]string{"services", "home"}},
		},
		{
			name:      "tld anchors on the suffix",
			filter:    domain.ListingFilter{TLD: strPtr("IO")},
			wantWhere: "deleted_at IS NULL AND name LIKE $1",
			wantArgs:  []interface{}{"%.io"},
		},
		{
			name:      "length bounds",
			filter:    domain.ListingFilter{MinLength: intPtr(5), MaxLength: intPtr(20)},
			wantWhere: "deleted_at IS NULL AND char_length(name) >= $1 AND char_length(name) <= $2",
			wantArgs:  []interface{}{5, 20},
		},
		{
			name:      "availability flags take no placeholders",
			filter:    domain.ListingFilter{BuyNow: true, RentToOwn: true},
			wantWhere: "deleted_at IS NULL AND buy_now = TRUE AND rent_to_own = TRUE",
			wantArgs:  []interface{}{},
		},
		{
			name: "all dimensions number placeholders in order",
			filter: domain.ListingFilter{
				Search:    strPtr("need"),
				Bundle:    strPtr("needs"),
				Tags:      []string{"services"},
				TLD:       strPtr("com"),
				MinLength: intPtr(4),
				MaxLength: intPtr(30),
				Offer:     true,
			},
			wantWhere: "deleted_at IS NULL AND (name ILIKE $1 OR keyword ILIKE $1) AND bundle = $2 AND tags && $3" +
				" AND name LIKE $4 AND char_length(name) >= $5 AND char_length(name) <= $6 AND offer = TRUE",
			wantArgs: []interface{}{"%need%", "needs", []string{"services"}, "%.com", 4, 30},
		},
		{
			name:      "empty search and bundle strings are skipped",
			filter:    domain.ListingFilter{Search: strPtr(""), Bundle: strPtr("")},
			wantWhere: "deleted_at IS NULL",
			wantArgs:  []interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildListingWhere(tt.filter)
			if where != tt.wantWhere {
				t.Errorf("where = %q\nwant    %q", where, tt.wantWhere)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestListingOrderBy(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.ListingFilter
		want   string
	}{
		{"zero sort defaults to price high", domain.ListingFilter{}, "price DESC NULLS LAST, name ASC"},
		{"price high", domain.ListingFilter{Sort: domain.SortPriceHigh}, "price DESC NULLS LAST, name ASC"},
		{"price low", domain.ListingFilter{Sort: domain.SortPriceLow}, "price ASC NULLS LAST, name ASC"},
		{"a to z", domain.ListingFilter{Sort: domain.SortNameAZ}, "name ASC"},
		{"z to a", domain.ListingFilter{Sort: domain.SortNameZA}, "name DESC"},
		{"length", domain.ListingFilter{Sort: domain.SortLength}, "char_length(name) ASC, name ASC"},
		{
			"relevance with search degrades to name",
			domain.ListingFilter{Sort: domain.SortRelevance, Search: strPtr("need")},
			"name ASC",
		},
		{
			"relevance without search behaves like price high",
			domain.ListingFilter{Sort: domain.SortRelevance},
			"price DESC NULLS LAST, name ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listingOrderBy(tt.filter); got != tt.want {
				t.Errorf("listingOrderBy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNullStringScan(t *testing.T) {
	var dst string
	s := &nullString{&dst}

	if err := s.Scan("needs"); err != nil || dst != "needs" {
		t.Errorf("Scan(string) = %v, dst = %q", err, dst)
	}
	if err := s.Scan([]byte("startups")); err != nil || dst != "startups" {
		t.Errorf("Scan(bytes) = %v, dst = %q", err, dst)
	}
	if err := s.Scan(nil); err != nil || dst != "" {
		t.Errorf("Scan(nil) = %v, dst = %q", err, dst)
	}
	if err := s.Scan(42); err == nil {
		t.Error("Scan(int) accepted an unsupported type")
	}
}
