package users_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Denyusha/uink-backend/internal/platform/httpx"
	"github.com/Denyusha/uink-backend/internal/users"
	_ "github.com/Denyusha/uink-backend/testing"
)

type stubRepo struct {
	profiles map[string]*users.Profile
}

func (s *stubRepo) GetProfile(ctx context.Context, id string) (*users.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return p, nil
}

func newRouter(repo *stubRepo) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := users.NewHandler(logger, users.NewService(repo))
	r := chi.NewRouter()
	r.Route("/api/users", handler.MountRoutes)
	return r
}

func TestGetProfile(t *testing.T) {
	joined := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	router := newRouter(&stubRepo{profiles: map[string]*users.Profile{
		"user-1": {ID: "user-1", FullName: "Ann", Bio: "writer", Joined: joined},
	}})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/user-1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var profile users.Profile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "Ann", profile.FullName)
	assert.Equal(t, "writer", profile.Bio)
	assert.Nil(t, profile.Photo)
	// Public profiles never expose email or credential fields.
	assert.NotContains(t, rr.Body.String(), "email")
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestGetProfileNotFound(t *testing.T) {
	router := newRouter(&stubRepo{profiles: map[string]*users.Profile{}})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
