package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Denyusha/uink-backend/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile returns the public profile for a user id.
func (r *Repository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var (
		profile Profile
		photo   *string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, full_name, bio, photo, joined FROM users WHERE id = $1`, id).
		Scan(&profile.ID, &profile.FullName, &profile.Bio, &photo, &profile.Joined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("users: get profile: %w", err)
	}
	profile.Photo = photo
	return &profile, nil
}
