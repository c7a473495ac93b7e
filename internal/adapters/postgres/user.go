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

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *domain.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.db.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::user_status, $6, $7)`,
		user.ID, user.Email, user.PasswordHash, user.Name,
		string(user.Status), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint") {
			return domain.NewConflictError("Email already exists")
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(context.Background(),
		`SELECT id, email, password_hash, name, status::text, last_login_at, created_at, updated_at, deleted_at
		FROM users WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Status,
		&user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(context.Background(),
		`SELECT id, email, password_hash, name, status::text, last_login_at, created_at, updated_at, deleted_at
		FROM users WHERE email = $1 AND deleted_at IS NULL`, email,
	).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Status,
		&user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Update(user *domain.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.Exec(context.Background(),
		`UPDATE users SET email=$1, password_hash=$2, name=$3, status=$4::user_status, last_login_at=$5, updated_at=$6
		WHERE id = $7 AND deleted_at IS NULL`,
		user.Email, user.PasswordHash, user.Name, string(user.Status),
		user.LastLoginAt, user.UpdatedAt, user.ID,
	)
	return err
}
