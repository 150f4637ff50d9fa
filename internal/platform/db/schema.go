package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup. The blogging domain keeps
// comments and ratings as child rows of their blog; the unique constraint on
// blog_ratings is what makes one-rating-per-user hold under concurrent
// submissions.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	photo         TEXT,
	bio           TEXT NOT NULL DEFAULT '',
	joined        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS blogs (
	id             UUID PRIMARY KEY,
	title          TEXT NOT NULL,
	content        TEXT NOT NULL,
	category       TEXT NOT NULL,
	tags           TEXT[] NOT NULL DEFAULT '{}',
	featured_image TEXT,
	author         UUID NOT NULL REFERENCES users(id),
	status         TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS blogs_status_category_idx ON blogs (status, category, created_at DESC);
CREATE INDEX IF NOT EXISTS blogs_author_idx ON blogs (author);

CREATE TABLE IF NOT EXISTS blog_comments (
	id         UUID PRIMARY KEY,
	blog_id    UUID NOT NULL REFERENCES blogs(id) ON DELETE CASCADE,
	user_id    UUID NOT NULL,
	username   TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS blog_comments_blog_idx ON blog_comments (blog_id, created_at);

CREATE TABLE IF NOT EXISTS blog_ratings (
	blog_id UUID NOT NULL REFERENCES blogs(id) ON DELETE CASCADE,
	user_id UUID NOT NULL,
	value   INT NOT NULL CHECK (value BETWEEN 1 AND 5),
	UNIQUE (blog_id, user_id)
);
`

// Migrate applies the schema, creating missing tables and indexes.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("platform/db: migrate: %w", err)
	}
	return nil
}
