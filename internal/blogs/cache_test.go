package blogs_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Denyusha/uink-backend/internal/blogs"
)

func newTestCache(t *testing.T) *blogs.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return blogs.NewCache(client, time.Minute)
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(ctx context.Context) (interface{}, error) {
		loads++
		return []string{"a", "b"}, nil
	}

	key, err := cache.BuildKey(ctx, "blogs", "grouped")
	require.NoError(t, err)

	var first, second []string
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)
}

func TestCacheBumpChangesKey(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "blogs", "grouped")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "blogs", "grouped")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestCacheNilClientCallsLoader(t *testing.T) {
	cache := blogs.NewCache(nil, time.Minute)
	ctx := context.Background()

	loads := 0
	var out []int
	err := cache.FetchJSON(ctx, "any", &out, func(ctx context.Context) (interface{}, error) {
		loads++
		return []int{1, 2, 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, out)
	assert.Equal(t, 1, loads)

	require.NoError(t, cache.Bump(ctx))
}
