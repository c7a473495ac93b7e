package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bundle is a named grouping of listings by theme or industry. Count is
// advisory: the refresher recomputes it from actual listings, but nothing
// enforces it between runs.
type Bundle struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Tagline     string     `json:"tagline,omitempty"`
	Description string     `json:"description,omitempty"`
	Count       int        `json:"count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

type CreateBundleInput struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
}

type UpdateBundleInput struct {
	Title       *string `json:"title,omitempty"`
	Tagline     *string `json:"tagline,omitempty"`
	Description *string `json:"description,omitempty"`
}

type BundleRepository interface {
	Create(bundle *Bundle) error
	GetBySlug(slug string) (*Bundle, error)
	Update(bundle *Bundle) error
	Delete(id uuid.UUID) error
	List() ([]Bundle, error)
	RecountAll() error
}
