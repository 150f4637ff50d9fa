package blogs

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Denyusha/uink-backend/internal/auth"
	"github.com/Denyusha/uink-backend/internal/platform/httpx"
)

const maxUploadMemory = 10 << 20

// Uploader stores featured images on the external image host.
type Uploader interface {
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Handler wires HTTP endpoints for blog content.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	uploader  Uploader
	guard     auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, uploader Uploader, guard auth.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		uploader:  uploader,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers blog routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/featured/random", h.featured)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuth)
		r.Post("/", h.create)
		r.Get("/mine", h.mine)
		r.Post("/{id}/comment", h.comment)
		r.Post("/{id}/rate", h.rate)
		r.Delete("/{id}", h.delete)
	})
	r.Get("/{id}", h.get)
}

type createRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Tags     string `json:"tags"`
	Content  string `json:"content"`
	Status   string `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	params, uploadedURL, err := h.decodeCreate(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	blog, err := h.service.Create(r.Context(), identity, params)
	if err != nil {
		h.logger.Error("create blog", slog.Any("error", err), slog.String("user_id", identity.UserID))
		if uploadedURL != "" {
			if delErr := h.uploader.Delete(r.Context(), uploadedURL); delErr != nil {
				h.logger.Warn("release uploaded image", slog.Any("error", delErr))
			}
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "Blog created", "blog": blog})
}

func (h *Handler) decodeCreate(r *http.Request) (CreateParams, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req createRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return CreateParams{}, "", httpx.ErrValidation
		}
		return CreateParams{
			Title:    req.Title,
			Category: req.Category,
			Tags:     req.Tags,
			Content:  req.Content,
			Status:   req.Status,
		}, "", nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return CreateParams{}, "", httpx.ErrValidation
	}
	params := CreateParams{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
		Tags:     r.FormValue("tags"),
		Content:  r.FormValue("content"),
		Status:   r.FormValue("status"),
	}
	file, header, err := r.FormFile("featuredImage")
	if err == http.ErrMissingFile {
		return params, "", nil
	}
	if err != nil {
		return CreateParams{}, "", httpx.ErrValidation
	}
	defer func() {
		_ = file.Close()
	}()
	url, err := h.uploader.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("upload featured image", slog.Any("error", err))
		return CreateParams{}, "", err
	}
	params.FeaturedImage = url
	return params, url, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.ListGrouped(r.Context())
	if err != nil {
		h.logger.Error("list blogs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, grouped)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "fetch blog", err)
		return
	}
	httpx.JSON(w, http.StatusOK, blog)
}

// respondError logs errors outside the sentinel taxonomy with full detail;
// the client only ever sees the generic mapped body.
func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if httpx.Internal(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	list, err := h.service.Mine(r.Context(), identity)
	if err != nil {
		h.logger.Error("list own blogs", slog.Any("error", err), slog.String("user_id", identity.UserID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, "delete blog", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Blog deleted successfully"})
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *Handler) comment(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req commentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "text is required")
		return
	}
	comment, err := h.service.Comment(r.Context(), identity, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.respondError(w, "add comment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "Comment added", "comment": comment})
}

type rateRequest struct {
	Value int `json:"value"`
}

func (h *Handler) rate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req rateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Rate(r.Context(), identity, chi.URLParam(r, "id"), req.Value); err != nil {
		h.respondError(w, "rate blog", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"message": "Rating submitted"})
}

func (h *Handler) featured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.service.Featured(r.Context())
	if err != nil {
		h.logger.Error("featured blogs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, featured)
}
