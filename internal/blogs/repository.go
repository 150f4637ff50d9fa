package blogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Denyusha/uink-backend/internal/platform/db"
	"github.com/Denyusha/uink-backend/internal/platform/httpx"
)

// Repository defines persistence operations for blogs and their embedded
// comments and ratings.
type Repository interface {
	Create(ctx context.Context, blog *Blog) error
	Get(ctx context.Context, id string) (*Blog, error)
	ListPublishedByCategory(ctx context.Context, category string) ([]Blog, error)
	ListByAuthor(ctx context.Context, authorID string) ([]Blog, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, blogID string, comment *Comment) error
	AddRating(ctx context.Context, blogID string, rating Rating) error
	FeaturedRandom(ctx context.Context, n int) ([]FeaturedBlog, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new blog record.
func (r *PGRepository) Create(ctx context.Context, blog *Blog) error {
	if blog.ID == "" {
		blog.ID = uuid.NewString()
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO blogs (id, title, content, category, tags, featured_image, author, status)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
		 RETURNING created_at, updated_at`,
		blog.ID, blog.Title, blog.Content, blog.Category, blog.Tags, blog.FeaturedImage, blog.AuthorID, blog.Status)
	if err := row.Scan(&blog.CreatedAt, &blog.UpdatedAt); err != nil {
		return fmt.Errorf("blogs: create: %w", err)
	}
	return nil
}

const blogColumns = `b.id, b.title, b.content, b.category, b.tags,
	COALESCE(b.featured_image, ''), b.author, u.full_name, b.status, b.created_at, b.updated_at`

func scanBlog(row pgx.Row) (*Blog, error) {
	var b Blog
	err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Category, &b.Tags,
		&b.FeaturedImage, &b.AuthorID, &b.AuthorName, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get fetches a single blog with its author name, comments and ratings.
func (r *PGRepository) Get(ctx context.Context, id string) (*Blog, error) {
	blog, err := scanBlog(r.pool.QueryRow(ctx,
		`SELECT `+blogColumns+` FROM blogs b JOIN users u ON u.id = b.author WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("blogs: get: %w", err)
	}

	blog.Comments, err = r.comments(ctx, id)
	if err != nil {
		return nil, err
	}
	blog.Ratings, err = r.ratings(ctx, id)
	if err != nil {
		return nil, err
	}
	blog.AverageRating = AverageRating(blog.Ratings)
	return blog, nil
}

func (r *PGRepository) comments(ctx context.Context, blogID string) ([]Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, username, body, created_at
		 FROM blog_comments WHERE blog_id = $1 ORDER BY created_at`, blogID)
	if err != nil {
		return nil, fmt.Errorf("blogs: comments: %w", err)
	}
	defer rows.Close()
	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *PGRepository) ratings(ctx context.Context, blogID string) ([]Rating, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, value FROM blog_ratings WHERE blog_id = $1`, blogID)
	if err != nil {
		return nil, fmt.Errorf("blogs: ratings: %w", err)
	}
	defer rows.Close()
	ratings := []Rating{}
	for rows.Next() {
		var rt Rating
		if err := rows.Scan(&rt.UserID, &rt.Value); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// ListPublishedByCategory returns published blogs in one category, newest
// first, annotated with the computed average rating. The published-only
// filter lives here so no caller can widen it.
func (r *PGRepository) ListPublishedByCategory(ctx context.Context, category string) ([]Blog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+blogColumns+`,
			COALESCE((SELECT AVG(value)::float8 FROM blog_ratings br WHERE br.blog_id = b.id), 0)
		 FROM blogs b JOIN users u ON u.id = b.author
		 WHERE b.status = $1 AND b.category = $2
		 ORDER BY b.created_at DESC`, StatusPublished, category)
	if err != nil {
		return nil, fmt.Errorf("blogs: list by category: %w", err)
	}
	defer rows.Close()
	return collectBlogs(rows)
}

// ListByAuthor returns all blogs owned by the author, drafts included.
func (r *PGRepository) ListByAuthor(ctx context.Context, authorID string) ([]Blog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+blogColumns+`,
			COALESCE((SELECT AVG(value)::float8 FROM blog_ratings br WHERE br.blog_id = b.id), 0)
		 FROM blogs b JOIN users u ON u.id = b.author
		 WHERE b.author = $1
		 ORDER BY b.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("blogs: list by author: %w", err)
	}
	defer rows.Close()
	return collectBlogs(rows)
}

func collectBlogs(rows pgx.Rows) ([]Blog, error) {
	blogs := []Blog{}
	for rows.Next() {
		var b Blog
		dest := []any{&b.ID, &b.Title, &b.Content, &b.Category, &b.Tags,
			&b.FeaturedImage, &b.AuthorID, &b.AuthorName, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&b.AverageRating}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		b.Comments = []Comment{}
		b.Ratings = []Rating{}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// Delete removes a blog and, via cascade, its comments and ratings.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("blogs: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// AddComment appends a comment to the blog. The existence check and insert
// run in one transaction so a concurrent blog deletion cannot orphan it.
func (r *PGRepository) AddComment(ctx context.Context, blogID string, comment *Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blogs WHERE id = $1)`, blogID).Scan(&exists); err != nil {
			return fmt.Errorf("blogs: check blog: %w", err)
		}
		if !exists {
			return httpx.ErrNotFound
		}
		row := tx.QueryRow(ctx,
			`INSERT INTO blog_comments (id, blog_id, user_id, username, body)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at`,
			comment.ID, blogID, comment.UserID, comment.Username, comment.Text)
		if err := row.Scan(&comment.CreatedAt); err != nil {
			return fmt.Errorf("blogs: add comment: %w", err)
		}
		return nil
	})
}

// AddRating appends a rating. The unique constraint on (blog_id, user_id)
// makes the one-rating-per-user invariant hold even when two submissions
// from the same user race.
func (r *PGRepository) AddRating(ctx context.Context, blogID string, rating Rating) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blogs WHERE id = $1)`, blogID).Scan(&exists); err != nil {
		return fmt.Errorf("blogs: check blog: %w", err)
	}
	if !exists {
		return httpx.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO blog_ratings (blog_id, user_id, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (blog_id, user_id) DO NOTHING`,
		blogID, rating.UserID, rating.Value)
	if err != nil {
		return fmt.Errorf("blogs: add rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("blogs: already rated: %w", httpx.ErrDuplicate)
	}
	return nil
}

// FeaturedRandom samples n random published blogs with their author's name
// and photo.
func (r *PGRepository) FeaturedRandom(ctx context.Context, n int) ([]FeaturedBlog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.title, b.category, COALESCE(b.featured_image, ''),
			u.full_name, COALESCE(u.photo, '')
		 FROM blogs b JOIN users u ON u.id = b.author
		 WHERE b.status = $1
		 ORDER BY random()
		 LIMIT $2`, StatusPublished, n)
	if err != nil {
		return nil, fmt.Errorf("blogs: featured: %w", err)
	}
	defer rows.Close()
	featured := []FeaturedBlog{}
	for rows.Next() {
		var f FeaturedBlog
		if err := rows.Scan(&f.ID, &f.Title, &f.Category, &f.FeaturedImage, &f.Author, &f.ProfilePic); err != nil {
			return nil, err
		}
		featured = append(featured, f)
	}
	return featured, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
