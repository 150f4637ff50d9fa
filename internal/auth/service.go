package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Denyusha/uink-backend/internal/platform/httpx"
)

// Service wraps credential and profile business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateUser hashes the raw password and persists the account. A taken email
// fails with httpx.ErrDuplicate regardless of which layer detects it.
func (s *Service) CreateUser(ctx context.Context, fullName, email, rawPassword string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user := &User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate validates email/password credentials. A missing account and a
// wrong password produce the same error so callers cannot enumerate users;
// store failures keep their detail and surface as internal errors instead.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, httpx.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httpx.ErrInvalidCredentials
	}
	return user, nil
}

// ProfileUpdate carries a partial profile mutation; nil fields are left
// unchanged.
type ProfileUpdate struct {
	FullName *string
	Bio      *string
	PhotoURL *string
}

// UpdateProfile applies a partial update to the requester's own record and
// returns the updated user.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error) {
	return s.repo.UpdateProfile(ctx, userID, update)
}
