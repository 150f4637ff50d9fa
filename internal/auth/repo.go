package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Denyusha/uink-backend/internal/platform/httpx"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const uniqueViolation = "23505"

// Create inserts a new user record. Email uniqueness is enforced by the
// database constraint.
func (r *PGRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, full_name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING joined`,
		user.ID, user.FullName, user.Email, user.PasswordHash)
	if err := row.Scan(&user.Joined); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("auth: email already registered: %w", httpx.ErrDuplicate)
		}
		return fmt.Errorf("auth: create user: %w", err)
	}
	return nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx,
		`SELECT id, full_name, email, password_hash, COALESCE(photo, ''), bio, joined
		 FROM users WHERE email = $1`, email).Scan(
		&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Photo, &user.Bio, &user.Joined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields and returns the updated record.
func (r *PGRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET
			full_name = COALESCE($2, full_name),
			bio       = COALESCE($3, bio),
			photo     = COALESCE($4, photo)
		 WHERE id = $1
		 RETURNING id, full_name, email, password_hash, COALESCE(photo, ''), bio, joined`,
		id, update.FullName, update.Bio, update.PhotoURL).Scan(
		&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Photo, &user.Bio, &user.Joined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("auth: update profile: %w", err)
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
