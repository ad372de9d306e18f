// Package pg implements the user repository on PostgreSQL via pgx.
package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cotato/auth-service/internal/domain/repository"
)

// UserStore is the pgx-backed UserRepository.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a user store over the given pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) FindByEmailAndProvider(ctx context.Context, email, provider string) (*repository.User, error) {
	const query = `
        SELECT id, name, email, provider, created_at
          FROM app_user
         WHERE email = $1 AND provider = $2`

	var u repository.User
	err := s.pool.QueryRow(ctx, query, email, provider).Scan(
		&u.ID, &u.Name, &u.Email, &u.Provider, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*repository.User, error) {
	const query = `
        SELECT id, name, email, provider, created_at
          FROM app_user
         WHERE id = $1`

	var u repository.User
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Provider, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user behind the (email, provider) unique index.
// ON CONFLICT DO NOTHING makes the insert race-safe: the losing side of a
// concurrent first login gets ErrConflict and re-reads instead of creating
// a duplicate row.
func (s *UserStore) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	const query = `
        INSERT INTO app_user (id, name, email, provider)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (email, provider) DO NOTHING
        RETURNING id, name, email, provider, created_at`

	var u repository.User
	err := s.pool.QueryRow(ctx, query, uuid.NewString(), in.Name, in.Email, in.Provider).Scan(
		&u.ID, &u.Name, &u.Email, &u.Provider, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
