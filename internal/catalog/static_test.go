package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestLoadSnapshot(t *testing.T) {
	path := writeDataset(t, `
bundles:
  - slug: Needs
    title: Needs
    tagline: Direct-intent domains
    count: 2
  - slug: ""
    title: Broken
  - slug: needs
    title: Duplicate

listings:
  - name: NeedPlumber.com
    price: 2400
    status: available
    tags: [services]
    bundle: Needs
    buy_now: true
  - name: quvia.com
    bundle: startups
  - name: ""
    price: 100
  - name: nodot
    price: 100
  - name: badprice.com
    price: -5
  - name: badstatus.com
    price: 100
    status: sold
  - name: needplumber.com
    price: 999
`)

	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}

	if len(snapshot.Bundles) != 1 {
		t.Fatalf("got %d bundles, want 1", len(snapshot.Bundles))
	}
	if snapshot.Bundles[0].Slug != "needs" {
		t.Errorf("bundle slug = %q, want lowercased needs", snapshot.Bundles[0].Slug)
	}

	// Malformed rows are skipped; the unknown-bundle row is kept.
	if len(snapshot.Listings) != 2 {
		t.Fatalf("got %d listings, want 2: %+v", len(snapshot.Listings), snapshot.Listings)
	}
	first := snapshot.Listings[0]
	if first.Name != "needplumber.com" {
		t.Errorf("listing name = %q, want lowercased needplumber.com", first.Name)
	}
	if first.Status != domain.ListingStatusAvailable || !first.Availability.BuyNow {
		t.Errorf("listing fields not carried over: %+v", first)
	}
	if snapshot.Listings[1].Bundle != "startups" {
		t.Errorf("unknown bundle label should be tolerated, got %q", snapshot.Listings[1].Bundle)
	}
}

func TestLoadSnapshotMissingStatusDefaultsToAvailable(t *testing.T) {
	path := writeDataset(t, `
listings:
  - name: bare.com
    price: 10
`)
	snapshot, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(snapshot.Listings) != 1 || snapshot.Listings[0].Status != domain.ListingStatusAvailable {
		t.Errorf("got %+v, want one available listing", snapshot.Listings)
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	t.Run("unreadable file", func(t *testing.T) {
		if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("LoadSnapshot() on missing file returned nil error")
		}
	})

	t.Run("unparsable yaml", func(t *testing.T) {
		path := writeDataset(t, "listings: [what")
		if _, err := LoadSnapshot(path); err == nil {
			t.Error("LoadSnapshot() on broken yaml returned nil error")
		}
	})
}

func TestBundleBySlug(t *testing.T) {
	snapshot := testSnapshot()

	if _, ok := snapshot.BundleBySlug("needs"); !ok {
		t.Error("BundleBySlug(needs) not found")
	}
	if _, ok := snapshot.BundleBySlug("nope"); ok {
		t.Error("BundleBySlug(nope) unexpectedly found")
	}
	if _, ok := snapshot.BundleBySlug(""); ok {
		t.Error("BundleBySlug(empty) unexpectedly found")
	}

	var nilSnapshot *Snapshot
	if _, ok := nilSnapshot.BundleBySlug("needs"); ok {
		t.Error("BundleBySlug on nil snapshot unexpectedly found")
	}
}

func TestHolderSwap(t *testing.T) {
	first := &Snapshot{Listings: []domain.Listing{{Name: "a.com"}}}
	second := &Snapshot{Listings: []domain.Listing{{Name: "b.com"}, {Name: "c.com"}}}

	holder := NewHolder(first)
	if got := holder.Get(); len(got.Listings) != 1 {
		t.Fatalf("Get() before swap returned %d listings, want 1", len(got.Listings))
	}

	holder.Set(second)
	if got := holder.Get(); len(got.Listings) != 2 {
		t.Errorf("Get() after swap returned %d listings, want 2", len(got.Listings))
	}
}
