package auth

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Denyusha/uink-backend/internal/platform/httpx"
)

const maxUploadMemory = 10 << 20

// Uploader stores an image with the external image host and returns the
// hosted URL. Only the URL is ever persisted.
type Uploader interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Handler wires HTTP endpoints for signup, signin and profile updates.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *Tokens
	uploader  Uploader
	guard     Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *Tokens, uploader Uploader) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		uploader:  uploader,
		guard:     Middleware{Tokens: tokens, Logger: logger},
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/signin", h.handleSignin)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuth)
		r.Put("/profile", h.handleProfileUpdate)
	})
}

type signupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "fullName, email and password are required")
		return
	}
	if _, err := h.service.CreateUser(r.Context(), req.FullName, req.Email, req.Password); err != nil {
		h.logger.Error("signup failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signinResponse struct {
	Token string        `json:"token"`
	User  PublicProfile `json:"user"`
}

func (h *Handler) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		// Same response as a failed lookup so the validation path cannot be
		// used to probe which emails exist.
		httpx.RespondError(w, httpx.ErrInvalidCredentials)
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if httpx.Internal(err) {
			h.logger.Error("signin failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	token, err := h.tokens.Issue(user.ID, user.FullName)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, signinResponse{Token: token, User: user.Public()})
}

func (h *Handler) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	update, uploadedURL, err := h.decodeProfileUpdate(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	// The target record is always the requester's own, derived from the
	// verified token.
	user, err := h.service.UpdateProfile(r.Context(), identity.UserID, update)
	if err != nil {
		h.logger.Error("update profile", slog.Any("error", err), slog.String("user_id", identity.UserID))
		if uploadedURL != "" {
			if delErr := h.uploader.Delete(r.Context(), uploadedURL); delErr != nil {
				h.logger.Warn("release uploaded photo", slog.Any("error", delErr))
			}
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]PublicProfile{"user": user.Public()})
}

func (h *Handler) decodeProfileUpdate(r *http.Request) (ProfileUpdate, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req struct {
			FullName *string `json:"fullName"`
			Bio      *string `json:"bio"`
		}
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return ProfileUpdate{}, "", httpx.ErrValidation
		}
		return ProfileUpdate{FullName: req.FullName, Bio: req.Bio}, "", nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return ProfileUpdate{}, "", httpx.ErrValidation
	}
	var update ProfileUpdate
	if v := r.FormValue("fullName"); v != "" {
		update.FullName = &v
	}
	if v := r.FormValue("bio"); v != "" {
		update.Bio = &v
	}
	file, header, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return update, "", nil
	}
	if err != nil {
		return ProfileUpdate{}, "", httpx.ErrValidation
	}
	defer func() {
		_ = file.Close()
	}()
	url, err := h.uploader.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("upload profile photo", slog.Any("error", err))
		return ProfileUpdate{}, "", err
	}
	update.PhotoURL = &url
	return update, url, nil
}
