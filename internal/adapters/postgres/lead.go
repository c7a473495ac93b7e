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

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(lead *domain.Lead) error {
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()

	_, err := r.db.Exec(context.Background(),
		`INSERT INTO leads (id, kind, name, email, subject, message, domain_name, offer_amount, src, host, meta, created_at)
		VALUES ($1, $2::lead_kind, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		lead.ID, string(lead.Kind), lead.Name, lead.Email,
		nullable(lead.Subject), nullable(lead.Message), nullable(lead.DomainName),
		lead.OfferAmount, nullable(lead.Src), nullable(lead.Host),
		lead.Meta, lead.CreatedAt,
	)
	return err
}

func (r *LeadRepository) GetByID(id uuid.UUID) (*domain.Lead, error) {
	lead := &domain.Lead{}
	err := r.db.QueryRow(context.Background(),
		`SELECT id, kind::text, name, email, subject, message, domain_name, offer_amount, src, host, meta, created_at
		FROM leads WHERE id = $1`, id,
	).Scan(
		&lead.ID, &lead.Kind, &lead.Name, &lead.Email,
		&nullString{&lead.Subject}, &nullString{&lead.Message}, &nullString{&lead.DomainName},
		&lead.OfferAmount, &nullString{&lead.Src}, &nullString{&lead.Host},
		&lead.Meta, &lead.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) List(filter domain.LeadFilter) ([]domain.Lead, int64, error) {
	where := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Kind != nil {
		where = append(where, fmt.Sprintf("kind::text = $%d", argIdx))
		args = append(args, string(*filter.Kind))
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR domain_name ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRow(context.Background(),
		fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause), args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT id, kind::text, name, email, subject, message, domain_name, offer_amount, src, host, meta, created_at
		FROM leads WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1,
	)
	args = append(args, filter.Limit(), filter.Offset())

	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(
			&l.ID, &l.Kind, &l.Name, &l.Email,
			&nullString{&l.Subject}, &nullString{&l.Message}, &nullString{&l.DomainName},
			&l.OfferAmount, &nullString{&l.Src}, &nullString{&l.Host},
			&l.Meta, &l.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}

	if leads == nil {
		leads = []domain.Lead{}
	}
	return leads, total, nil
}
