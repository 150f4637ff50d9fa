package blogs

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Denyusha/uink-backend/internal/auth"
	"github.com/Denyusha/uink-backend/internal/platform/httpx"
)

const featuredSampleSize = 4

// Service enforces the ownership and moderation rules around blog content.
// Every mutation derives the acting user from the verified identity, never
// from client-supplied fields.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs a new Service.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// CreateParams carries validated blog creation input. Tags arrive as a
// comma-separated string, matching the upload form.
type CreateParams struct {
	Title         string
	Category      string
	Tags          string
	Content       string
	Status        string
	FeaturedImage string
}

// Create persists a new blog. The author is forced to the requester's
// identity regardless of anything in the request body.
func (s *Service) Create(ctx context.Context, identity auth.Identity, params CreateParams) (*Blog, error) {
	if params.Title == "" || params.Content == "" || params.Category == "" {
		return nil, fmt.Errorf("blogs: title, content and category are required: %w", httpx.ErrValidation)
	}
	category, ok := NormalizeCategory(params.Category)
	if !ok {
		return nil, fmt.Errorf("blogs: unknown category %q: %w", params.Category, httpx.ErrValidation)
	}
	status := params.Status
	switch status {
	case "":
		status = StatusDraft
	case StatusDraft, StatusPublished:
	default:
		return nil, fmt.Errorf("blogs: invalid status %q: %w", params.Status, httpx.ErrValidation)
	}

	blog := &Blog{
		Title:         params.Title,
		Content:       params.Content,
		Category:      category,
		Tags:          splitTags(params.Tags),
		FeaturedImage: params.FeaturedImage,
		AuthorID:      identity.UserID,
		AuthorName:    identity.Username,
		Status:        status,
		Comments:      []Comment{},
		Ratings:       []Rating{},
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return blog, nil
}

// Get returns one blog with its author name, comments and ratings.
func (s *Service) Get(ctx context.Context, id string) (*Blog, error) {
	return s.repo.Get(ctx, id)
}

// ListGrouped returns published blogs grouped by the fixed category list,
// one slice per category in canonical order. The five category queries run
// concurrently, and the assembled result is served from cache when fresh.
func (s *Service) ListGrouped(ctx context.Context) ([][]Blog, error) {
	key, err := s.cache.BuildKey(ctx, "blogs", "grouped")
	if err != nil {
		return nil, err
	}
	var grouped [][]Blog
	err = s.cache.FetchJSON(ctx, key, &grouped, func(ctx context.Context) (interface{}, error) {
		result := make([][]Blog, len(Categories))
		g, gctx := errgroup.WithContext(ctx)
		for i, category := range Categories {
			g.Go(func() error {
				list, err := s.repo.ListPublishedByCategory(gctx, category)
				if err != nil {
					return err
				}
				result[i] = list
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return result, nil
	})
	return grouped, err
}

// Mine returns all blogs owned by the requester, drafts included.
func (s *Service) Mine(ctx context.Context, identity auth.Identity) ([]Blog, error) {
	return s.repo.ListByAuthor(ctx, identity.UserID)
}

// Delete removes a blog if and only if the requester is its author.
func (s *Service) Delete(ctx context.Context, identity auth.Identity, id string) error {
	blog, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if blog.AuthorID != identity.UserID {
		return fmt.Errorf("blogs: not the author: %w", httpx.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Comment appends a comment with the identity forced from the token.
func (s *Service) Comment(ctx context.Context, identity auth.Identity, blogID, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("blogs: comment text is required: %w", httpx.ErrValidation)
	}
	comment := &Comment{
		UserID:   identity.UserID,
		Username: identity.Username,
		Text:     text,
	}
	if err := s.repo.AddComment(ctx, blogID, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Rate records the requester's rating. A value outside [1,5] is invalid and
// a second rating from the same user is a conflict.
func (s *Service) Rate(ctx context.Context, identity auth.Identity, blogID string, value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("blogs: rating must be between 1 and 5: %w", httpx.ErrValidation)
	}
	if err := s.repo.AddRating(ctx, blogID, Rating{UserID: identity.UserID, Value: value}); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Featured returns a random sample of published blogs for the featured
// stories strip.
func (s *Service) Featured(ctx context.Context) ([]FeaturedBlog, error) {
	// Random sampling is the point, so the sample itself is not cached.
	return s.repo.FeaturedRandom(ctx, featuredSampleSize)
}

func (s *Service) invalidate(ctx context.Context) {
	// Cache staleness is tolerable; invalidation failure must not fail the
	// mutation that triggered it.
	_ = s.cache.Bump(ctx)
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
