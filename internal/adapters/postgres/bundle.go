package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

type BundleRepository struct {
	db *pgxpool.Pool
}

func NewBundleRepository(db *pgxpool.Pool) *BundleRepository {
	return &BundleRepository{db: db}
}

func (r *BundleRepository) Create(b *domain.Bundle) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()

	_, err := r.db.Exec(context.Background(),
		`INSERT INTO bundles (id, slug, title, tagline, description, count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Slug, b.Title, b.Tagline, b.Description, b.Count, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint") {
			return domain.NewConflictError("Bundle with this slug already exists")
		}
		return err
	}
	return nil
}

func (r *BundleRepository) GetBySlug(slug string) (*domain.Bundle, error) {
	b := &domain.Bundle{}
	err := r.db.QueryRow(context.Background(),
		`SELECT id, slug, title, tagline, description, count, created_at, updated_at, deleted_at
		FROM bundles WHERE slug = $1 AND deleted_at IS NULL`, strings.ToLower(slug),
	).Scan(&b.ID, &b.Slug, &b.Title, &b.Tagline, &b.Description, &b.Count, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBundleNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BundleRepository) Update(b *domain.Bundle) error {
	b.UpdatedAt = time.Now()
	_, err := r.db.Exec(context.Background(),
		`UPDATE bundles SET title=$1, tagline=$2, description=$3, count=$4, updated_at=$5
		WHERE id=$6 AND deleted_at IS NULL`,
		b.Title, b.Tagline, b.Description, b.Count, b.UpdatedAt, b.ID,
	)
	return err
}

func (r *BundleRepository) Delete(id uuid.UUID) error {
	now := time.Now()
	_, err := r.db.Exec(context.Background(),
		`UPDATE bundles SET deleted_at=$1, updated_at=$1 WHERE id=$2 AND deleted_at IS NULL`,
		now, id,
	)
	return err
}

func (r *BundleRepository) List() ([]domain.Bundle, error) {
	rows, err := r.db.Query(context.Background(),
		`SELECT id, slug, title, tagline, description, count, created_at, updated_at, deleted_at
		FROM bundles WHERE deleted_at IS NULL ORDER BY title ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bundles []domain.Bundle
	for rows.Next() {
		var b domain.Bundle
		if err := rows.Scan(&b.ID, &b.Slug, &b.Title, &b.Tagline, &b.Description, &b.Count, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}

	if bundles == nil {
		bundles = []domain.Bundle{}
	}
	return bundles, nil
}

// RecountAll replaces the advisory count of every bundle with the number
// of live listings that actually carry its slug.
func (r *BundleRepository) RecountAll() error {
	_, err := r.db.Exec(context.Background(),
		`UPDATE bundles SET count = (
			SELECT COUNT(*) FROM listings
			WHERE listings.bundle = bundles.slug AND listings.deleted_at IS NULL
		), updated_at = NOW()
		WHERE deleted_at IS NULL`,
	)
	return err
}
