package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/UCgr8/needsites-public-sub000/internal/adapters/postgres"
	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/catalog"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/config"
)

// seed creates the operator account and imports the static catalog
// dataset into Postgres so the remote pipeline starts with the same
// inventory the static pipeline ships with.
func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	seedOperator(pool)
	seedCatalog(pool, cfg.Catalog.DataPath)
}

func seedOperator(pool *pgxpool.Pool) {
	email := getEnv("SEED_OPERATOR_EMAIL", "operator@needsites.local")
	password := getEnv("SEED_OPERATOR_PASSWORD", "operator123")
	name := getEnv("SEED_OPERATOR_NAME", "Operator")

	var exists bool
	err := pool.QueryRow(context.Background(),
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)", email,
	).Scan(&exists)
	if err != nil {
		log.Fatalf("Failed to check existing user: %v", err)
	}

	if exists {
		log.Printf("Operator %s already exists, skipping", email)
		return
	}

	passwordHash, err := app.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	id := uuid.New()
	now := time.Now()

	_, err = pool.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'ACTIVE'::user_status, $5, $5)`,
		id, email, passwordHash, name, now,
	)
	if err != nil {
		log.Fatalf("Failed to create operator: %v", err)
	}

	log.Printf("Created operator: %s (%s)", name, email)
}

func seedCatalog(pool *pgxpool.Pool, dataPath string) {
	snapshot, err := catalog.LoadSnapshot(dataPath)
	if err != nil {
		log.Fatalf("Failed to load catalog snapshot: %v", err)
	}

	bundleRepo := postgres.NewBundleRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)

	var bundles, listings int
	for i := range snapshot.Bundles {
		b := snapshot.Bundles[i]
		if _, err := bundleRepo.GetBySlug(b.Slug); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrBundleNotFound) {
			log.Fatalf("Failed to check bundle %s: %v", b.Slug, err)
		}
		if err := bundleRepo.Create(&b); err != nil {
			log.Fatalf("Failed to create bundle %s: %v", b.Slug, err)
		}
		bundles++
	}

	for i := range snapshot.Listings {
		l := snapshot.Listings[i]
		if _, err := listingRepo.GetByName(l.Name); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrListingNotFound) {
			log.Fatalf("Failed to check listing %s: %v", l.Name, err)
		}
		if err := listingRepo.Create(&l); err != nil {
			log.Fatalf("Failed to create listing %s: %v", l.Name, err)
		}
		listings++
	}

	if err := bundleRepo.RecountAll(); err != nil {
		log.Fatalf("Failed to recount bundles: %v", err)
	}

	log.Printf("Seeded catalog: %d new bundles, %d new listings", bundles, listings)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
