package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/georgemunganga/coffee-tracker/internal/platform/database"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL store account repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *StoreAccount) error {
	query := `
		INSERT INTO users (username, password_hash, store_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, a.Username, a.PasswordHash, a.StoreName).
		Scan(&a.ID, &a.CreatedAt)
	if database.HasCode(err, database.UniqueViolation) {
		return fmt.Errorf("%w: %s", apperr.ErrUsernameTaken, a.Username)
	}
	return err
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*StoreAccount, error) {
	query := `
		SELECT id, username, password_hash, store_name, created_at
		FROM users
		WHERE id = $1
	`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*StoreAccount, error) {
	query := `
		SELECT id, username, password_hash, store_name, created_at
		FROM users
		WHERE username = $1
	`
	return r.scan(r.db.QueryRowContext(ctx, query, username))
}

func (r *postgresRepository) GetByStoreName(ctx context.Context, name string) (*StoreAccount, error) {
	query := `
		SELECT id, username, password_hash, store_name, created_at
		FROM users
		WHERE LOWER(store_name) = LOWER($1)
		ORDER BY id
		LIMIT 1
	`
	return r.scan(r.db.QueryRowContext(ctx, query, name))
}

func (r *postgresRepository) scan(row *sql.Row) (*StoreAccount, error) {
	a := &StoreAccount{}
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.StoreName, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrUnknownStore
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
