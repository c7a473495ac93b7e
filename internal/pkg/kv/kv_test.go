package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Errorf("Get(k) = %q, %v", got, err)
	}

	if err := store.Set(ctx, "k", "v2", 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := store.Get(ctx, "k"); got != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(absent) = %v", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryWithClock(func() time.Time { return now })

	if err := store.Set(ctx, "k", "v", 30*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(29 * time.Second)
	if _, err := store.Get(ctx, "k"); err != nil {
		t.Errorf("Get before expiry: %v", err)
	}

	now = now.Add(time.Second)
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get at expiry err = %v, want ErrNotFound", err)
	}
}

func TestMemoryTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryWithClock(func() time.Time { return now })

	if _, err := store.TTL(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("TTL(missing) err = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "forever", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl, err := store.TTL(ctx, "forever"); err != nil || ttl != 0 {
		t.Errorf("TTL(no expiry) = %v, %v, want 0, nil", ttl, err)
	}

	if err := store.Set(ctx, "k", "v", 30*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(10 * time.Second)
	if ttl, err := store.TTL(ctx, "k"); err != nil || ttl != 20*time.Second {
		t.Errorf("TTL = %v, %v, want 20s, nil", ttl, err)
	}

	now = now.Add(25 * time.Second)
	if _, err := store.TTL(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("TTL after expiry err = %v, want ErrNotFound", err)
	}
}
