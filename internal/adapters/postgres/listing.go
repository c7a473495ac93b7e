package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

type ListingRepository struct {
	db *pgxpool.Pool
}

func NewListingRepository(db *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, name, price, status::text, tags, bundle, keyword,
	buy_now, offer, rent_to_own, created_at, updated_at, deleted_at`

func (r *ListingRepository) Create(l *domain.Listing) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	l.UpdatedAt = time.Now()

	_, err := r.db.Exec(context.Background(),
		`INSERT INTO listings (id, name, price, status, tags, bundle, keyword, buy_now, offer, rent_to_own, created_at, updated_at)
		VALUES ($1, $2, $3, $4::listing_status, $5, $6, $7, $8, $9, $10, $11, $12)`,
		l.ID, l.Name, l.Price, string(l.Status), l.Tags, nullable(l.Bundle), nullable(l.Keyword),
		l.Availability.BuyNow, l.Availability.Offer, l.Availability.RentToOwn,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint") {
			return domain.NewConflictError("Listing with this name already exists")
		}
		return err
	}
	return nil
}

func (r *ListingRepository) GetByName(name string) (*domain.Listing, error) {
	l := &domain.Listing{}
	err := r.db.QueryRow(context.Background(),
		fmt.Sprintf(`SELECT %s FROM listings WHERE name = $1 AND deleted_at IS NULL`, listingColumns),
		strings.ToLower(name),
	).Scan(scanTargets(l)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *ListingRepository) Update(l *domain.Listing) error {
	l.UpdatedAt = time.Now()
	_, err := r.db.Exec(context.Background(),
		`UPDATE listings SET price=$1, status=$2::listing_status, tags=$3, bundle=$4, keyword=$5,
			buy_now=$6, offer=$7, rent_to_own=$8, updated_at=$9
		WHERE id = $10 AND deleted_at IS NULL`,
		l.Price, string(l.Status), l.Tags, nullable(l.Bundle), nullable(l.Keyword),
		l.Availability.BuyNow, l.Availability.Offer, l.Availability.RentToOwn,
		l.UpdatedAt, l.ID,
	)
	return err
}

func (r *ListingRepository) Delete(id uuid.UUID) error {
	now := time.Now()
	_, err := r.db.Exec(context.Background(),
		`UPDATE listings SET deleted_at=$1, updated_at=$1 WHERE id=$2 AND deleted_at IS NULL`,
		now, id,
	)
	return err
}

func (r *ListingRepository) List(filter domain.ListingFilter) ([]domain.Listing, int64, error) {
	whereClause, args := buildListingWhere(filter)

	var total int64
	err := r.db.QueryRow(context.Background(),
		fmt.Sprintf("SELECT COUNT(*) FROM listings WHERE %s", whereClause), args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	argIdx := len(args) + 1
	query := fmt.Sprintf(
		`SELECT %s FROM listings WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		listingColumns, whereClause, listingOrderBy(filter), argIdx, argIdx+1,
	)
	args = append(args, filter.Limit(), filter.Offset())

	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(scanTargets(&l)...); err != nil {
			return nil, 0, err
		}
		listings = append(listings, l)
	}

	if listings == nil {
		listings = []domain.Listing{}
	}
	return listings, total, nil
}

// buildListingWhere translates a catalog filter into a WHERE clause.
// Dimensions combine with AND; the tag overlap is the one OR-within-a-
// dimension case (a listing passes when it carries any selected tag).
func buildListingWhere(filter domain.ListingFilter) (string, []interface{}) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR keyword ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Bundle != nil && *filter.Bundle != "" {
		where = append(where, fmt.Sprintf("bundle = $%d", argIdx))
		args = append(args, strings.ToLower(*filter.Bundle))
		argIdx++
	}
	if len(filter.Tags) > 0 {
		where = append(where, fmt.Sprintf("tags && $%d", argIdx))
		args = append(args, filter.Tags)
		argIdx++
	}
	if filter.TLD != nil && *filter.TLD != "" {
		where = append(where, fmt.Sprintf("name LIKE $%d", argIdx))
		args = append(args, "%."+strings.ToLower(*filter.TLD))
		argIdx++
	}
	if filter.MinLength != nil {
		where = append(where, fmt.Sprintf("char_length(name) >= $%d", argIdx))
		args = append(args, *filter.MinLength)
		argIdx++
	}
	if filter.MaxLength != nil {
		where = append(where, fmt.Sprintf("char_length(name) <= $%d", argIdx))
		args = append(args, *filter.MaxLength)
		argIdx++
	}
	if filter.BuyNow {
		where = append(where, "buy_now = TRUE")
	}
	if filter.Offer {
		where = append(where, "offer = TRUE")
	}
	if filter.RentToOwn {
		where = append(where, "rent_to_own = TRUE")
	}

	return strings.Join(where, " AND "), args
}

// listingOrderBy maps a sort key to a column/direction pair. No server-
// side relevance ranking exists, so relevance with an active search
// degrades to name ascending, and without one behaves like price-high.
func listingOrderBy(filter domain.ListingFilter) string {
	sort := filter.Sort
	if sort == "" {
		sort = domain.DefaultSort
	}
	if sort == domain.SortRelevance {
		if filter.Search != nil && *filter.Search != "" {
			sort = domain.SortNameAZ
		} else {
			sort = domain.SortPriceHigh
		}
	}

	switch sort {
	case domain.SortPriceLow:
		return "price ASC NULLS LAST, name ASC"
	case domain.SortNameAZ:
		return "name ASC"
	case domain.SortNameZA:
		return "name DESC"
	case domain.SortLength:
		return "char_length(name) ASC, name ASC"
	default:
		return "price DESC NULLS LAST, name ASC"
	}
}

func scanTargets(l *domain.Listing) []interface{} {
	return []interface{}{
		&l.ID, &l.Name, &l.Price, &l.Status, &l.Tags, &nullString{&l.Bundle}, &nullString{&l.Keyword},
		&l.Availability.BuyNow, &l.Availability.Offer, &l.Availability.RentToOwn,
		&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
	}
}

// bundle and keyword are nullable free-text labels in the table; scan
// NULL as the empty string rather than forcing pointer fields upstream.
type nullString struct{ dst *string }

func (s *nullString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s.dst = ""
	case string:
		*s.dst = v
	case []byte:
		*s.dst = string(v)
	default:
		return fmt.Errorf("unsupported type %T for string scan", value)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
