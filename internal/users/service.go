package users

import "context"

// RepositoryPort defines data access methods for public profiles.
type RepositoryPort interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
}

// Service handles public profile lookups.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the public profile for a user id.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetProfile(ctx, id)
}
