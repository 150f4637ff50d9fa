package blogs_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Denyusha/uink-backend/internal/auth"
	"github.com/Denyusha/uink-backend/internal/blogs"
	"github.com/Denyusha/uink-backend/internal/platform/httpx"
	_ "github.com/Denyusha/uink-backend/testing"
)

type mockRepository struct {
	blogs    map[string]*blogs.Blog
	comments map[string][]blogs.Comment
	ratings  map[string][]blogs.Rating
	nextID   int

	getError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		blogs:    make(map[string]*blogs.Blog),
		comments: make(map[string][]blogs.Comment),
		ratings:  make(map[string][]blogs.Rating),
		nextID:   1,
	}
}

func (m *mockRepository) Create(ctx context.Context, blog *blogs.Blog) error {
	if blog.ID == "" {
		blog.ID = fmt.Sprintf("blog-%d", m.nextID)
		m.nextID++
	}
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt
	stored := *blog
	m.blogs[blog.ID] = &stored
	return nil
}

func (m *mockRepository) Get(ctx context.Context, id string) (*blogs.Blog, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	b, ok := m.blogs[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	out := *b
	out.Comments = append([]blogs.Comment{}, m.comments[id]...)
	out.Ratings = append([]blogs.Rating{}, m.ratings[id]...)
	out.AverageRating = blogs.AverageRating(out.Ratings)
	return &out, nil
}

func (m *mockRepository) ListPublishedByCategory(ctx context.Context, category string) ([]blogs.Blog, error) {
	result := []blogs.Blog{}
	for _, b := range m.blogs {
		if b.Status == blogs.StatusPublished && b.Category == category {
			out := *b
			out.AverageRating = blogs.AverageRating(m.ratings[b.ID])
			result = append(result, out)
		}
	}
	return result, nil
}

func (m *mockRepository) ListByAuthor(ctx context.Context, authorID string) ([]blogs.Blog, error) {
	result := []blogs.Blog{}
	for _, b := range m.blogs {
		if b.AuthorID == authorID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.blogs[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.blogs, id)
	delete(m.comments, id)
	delete(m.ratings, id)
	return nil
}

func (m *mockRepository) AddComment(ctx context.Context, blogID string, comment *blogs.Comment) error {
	if _, ok := m.blogs[blogID]; !ok {
		return httpx.ErrNotFound
	}
	if comment.ID == "" {
		comment.ID = fmt.Sprintf("comment-%d", m.nextID)
		m.nextID++
	}
	comment.CreatedAt = time.Now()
	m.comments[blogID] = append(m.comments[blogID], *comment)
	return nil
}

func (m *mockRepository) AddRating(ctx context.Context, blogID string, rating blogs.Rating) error {
	if _, ok := m.blogs[blogID]; !ok {
		return httpx.ErrNotFound
	}
	for _, r := range m.ratings[blogID] {
		if r.UserID == rating.UserID {
			return fmt.Errorf("already rated: %w", httpx.ErrDuplicate)
		}
	}
	m.ratings[blogID] = append(m.ratings[blogID], rating)
	return nil
}

func (m *mockRepository) FeaturedRandom(ctx context.Context, n int) ([]blogs.FeaturedBlog, error) {
	result := []blogs.FeaturedBlog{}
	for _, b := range m.blogs {
		if b.Status != blogs.StatusPublished {
			continue
		}
		if len(result) == n {
			break
		}
		result = append(result, blogs.FeaturedBlog{ID: b.ID, Title: b.Title, Category: b.Category, Author: b.AuthorName})
	}
	return result, nil
}

var _ blogs.Repository = (*mockRepository)(nil)

var (
	ann = auth.Identity{UserID: "user-ann", Username: "Ann"}
	bob = auth.Identity{UserID: "user-bob", Username: "Bob"}
)

func newTestService() (*blogs.Service, *mockRepository) {
	repo := newMockRepository()
	return blogs.NewService(repo, blogs.NewCache(nil, time.Minute)), repo
}

func TestCreateForcesAuthorFromIdentity(t *testing.T) {
	service, repo := newTestService()

	blog, err := service.Create(context.Background(), ann, blogs.CreateParams{
		Title:    "Hi",
		Category: "movies",
		Tags:     "review, bollywood ,",
		Content:  "body",
		Status:   blogs.StatusPublished,
	})
	require.NoError(t, err)

	assert.Equal(t, ann.UserID, blog.AuthorID)
	assert.Equal(t, "Movies", blog.Category)
	assert.Equal(t, []string{"review", "bollywood"}, blog.Tags)
	assert.Equal(t, ann.UserID, repo.blogs[blog.ID].AuthorID)
}

func TestCreateDefaultsToDraft(t *testing.T) {
	service, _ := newTestService()

	blog, err := service.Create(context.Background(), ann, blogs.CreateParams{
		Title: "Hi", Category: "Movies", Content: "body",
	})
	require.NoError(t, err)
	assert.Equal(t, blogs.StatusDraft, blog.Status)
}

func TestCreateValidation(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Create(ctx, ann, blogs.CreateParams{Category: "Movies", Content: "body"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = service.Create(ctx, ann, blogs.CreateParams{Title: "Hi", Category: "Gardening", Content: "body"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = service.Create(ctx, ann, blogs.CreateParams{Title: "Hi", Category: "Movies", Content: "body", Status: "archived"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteOnlyByAuthor(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	blog, err := service.Create(ctx, ann, blogs.CreateParams{Title: "Hi", Category: "Movies", Content: "body"})
	require.NoError(t, err)

	err = service.Delete(ctx, bob, blog.ID)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Contains(t, repo.blogs, blog.ID)

	require.NoError(t, service.Delete(ctx, ann, blog.ID))
	assert.NotContains(t, repo.blogs, blog.ID)
}

func TestDeleteMissingBlog(t *testing.T) {
	service, _ := newTestService()
	err := service.Delete(context.Background(), ann, "nope")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCommentForcesIdentity(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	blog, err := service.Create(ctx, ann, blogs.CreateParams{Title: "Hi", Category: "Movies", Content: "body"})
	require.NoError(t, err)

	comment, err := service.Comment(ctx, bob, blog.ID, "nice read")
	require.NoError(t, err)
	assert.Equal(t, bob.UserID, comment.UserID)
	assert.Equal(t, "Bob", comment.Username)
	assert.Len(t, repo.comments[blog.ID], 1)

	_, err = service.Comment(ctx, bob, blog.ID, "   ")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = service.Comment(ctx, bob, "nope", "text")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestRateValidRangeAndUniqueness(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	blog, err := service.Create(ctx, ann, blogs.CreateParams{Title: "Hi", Category: "Movies", Content: "body"})
	require.NoError(t, err)

	assert.ErrorIs(t, service.Rate(ctx, bob, blog.ID, 0), httpx.ErrValidation)
	assert.ErrorIs(t, service.Rate(ctx, bob, blog.ID, 6), httpx.ErrValidation)

	require.NoError(t, service.Rate(ctx, bob, blog.ID, 4))
	assert.ErrorIs(t, service.Rate(ctx, bob, blog.ID, 5), httpx.ErrDuplicate)

	// A different user may still rate.
	require.NoError(t, service.Rate(ctx, ann, blog.ID, 3))

	got, err := service.Get(ctx, blog.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, got.AverageRating, 1e-9)
}

func TestListGroupedFollowsCategoryOrderAndSkipsDrafts(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Create(ctx, ann, blogs.CreateParams{Title: "Pub", Category: "Movies", Content: "body", Status: blogs.StatusPublished})
	require.NoError(t, err)
	_, err = service.Create(ctx, ann, blogs.CreateParams{Title: "Draft", Category: "Movies", Content: "body", Status: blogs.StatusDraft})
	require.NoError(t, err)
	_, err = service.Create(ctx, bob, blogs.CreateParams{Title: "Match", Category: "Cricket", Content: "body", Status: blogs.StatusPublished})
	require.NoError(t, err)

	grouped, err := service.ListGrouped(ctx)
	require.NoError(t, err)
	require.Len(t, grouped, len(blogs.Categories))

	// Index 1 is Movies, index 4 is Cricket, per the fixed category order.
	require.Len(t, grouped[1], 1)
	assert.Equal(t, "Pub", grouped[1][0].Title)
	require.Len(t, grouped[4], 1)
	assert.Equal(t, "Match", grouped[4][0].Title)
	assert.Empty(t, grouped[0])
	for _, group := range grouped {
		for _, b := range group {
			assert.Equal(t, blogs.StatusPublished, b.Status)
		}
	}
}

func TestMineReturnsOwnBlogsIncludingDrafts(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Create(ctx, ann, blogs.CreateParams{Title: "Mine", Category: "Movies", Content: "body", Status: blogs.StatusDraft})
	require.NoError(t, err)
	_, err = service.Create(ctx, bob, blogs.CreateParams{Title: "Not mine", Category: "Movies", Content: "body", Status: blogs.StatusPublished})
	require.NoError(t, err)

	mine, err := service.Mine(ctx, ann)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)
}

func TestFeaturedSamplesPublishedOnly(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := service.Create(ctx, ann, blogs.CreateParams{
			Title: fmt.Sprintf("Blog %d", i), Category: "Movies", Content: "body", Status: blogs.StatusPublished,
		})
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, ann, blogs.CreateParams{Title: "Hidden", Category: "Movies", Content: "body"})
	require.NoError(t, err)

	featured, err := service.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, blogs.FeaturedSampleSize)
	for _, f := range featured {
		assert.NotEqual(t, "Hidden", f.Title)
	}
}
