package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Denyusha/uink-backend/internal/platform/httpx"
)

// Middleware guards protected routes by verifying the bearer token and
// attaching the verified identity to the request context.
type Middleware struct {
	Tokens *Tokens
	Logger *slog.Logger
}

// RequireAuth rejects the request with a generic 401 unless a valid bearer
// token is presented. The protected handler is never invoked on failure.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			m.log("authorization header invalid", err, r)
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		claims, err := m.Tokens.Verify(token)
		if err != nil {
			// Expired vs malformed vs mis-signed is logged but never
			// surfaced to the client.
			m.log("token verification failed", err, r)
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		ctx := ContextWithIdentity(r.Context(), Identity{UserID: claims.UserID, Username: claims.Username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m Middleware) log(msg string, err error, r *http.Request) {
	if m.Logger == nil {
		return
	}
	m.Logger.Warn(msg, slog.Any("error", err), slog.String("path", r.URL.Path))
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}
