package articles

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
	"github.com/user/conduit-go/monitoring"
)

var validate = validator.New()

// Handlers wraps the article Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleList godoc
// @Summary List articles
// @Description Lists articles newest first, optionally filtered by author, tag, and favoriting user.
// @Tags Articles
// @Produce json
// @Param author query string false "Filter by author username"
// @Param tag query string false "Filter by tag name"
// @Param favorited query string false "Filter by favoriting username"
// @Success 200 {object} articles.ArticleListResponse
// @Router /articles [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Author:    r.URL.Query().Get("author"),
			Tag:       r.URL.Query().Get("tag"),
			Favorited: r.URL.Query().Get("favorited"),
		}

		result, err := h.service.List(r.Context(), filter, auth.ViewerFromContext(r.Context()))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, result)
	}
}

// HandleGet godoc
// @Summary Get an article
// @Description Returns a single article by slug.
// @Tags Articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} articles.ArticleResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		view, err := h.service.GetBySlug(r.Context(), slug, auth.ViewerFromContext(r.Context()))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}

// HandleCreate godoc
// @Summary Create an article
// @Description Creates an article for the authenticated user; the slug is derived from the title.
// @Tags Articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param articleBody body articles.CreateArticleRequest true "Article to create"
// @Success 201 {object} articles.ArticleResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 422 {object} apperror.ErrorResponse "Validation - Missing fields or duplicate title"
// @Router /articles [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}

		var req CreateArticleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("title, description, and body are required", err))
			return
		}

		view, err := h.service.Create(r.Context(), userID, req.Article)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		monitoring.ArticlesCreated.Inc()
		auth.WriteJSON(w, http.StatusCreated, ArticleResponse{Article: *view})
	}
}

// HandleUpdate godoc
// @Summary Update an article
// @Description Applies a partial update to the authenticated user's own article. The slug never changes.
// @Tags Articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param articleBody body articles.UpdateArticleRequest true "Fields to update"
// @Success 200 {object} articles.ArticleResponse
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}
		slug := chi.URLParam(r, "slug")

		var req UpdateArticleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		view, err := h.service.Update(r.Context(), slug, userID, req.Article)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}

// HandleDelete godoc
// @Summary Delete an article
// @Description Deletes the authenticated user's own article along with its comments and favorites.
// @Tags Articles
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 204 "Article deleted"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}
		slug := chi.URLParam(r, "slug")

		if err := h.service.Delete(r.Context(), slug, userID); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleFavorite godoc
// @Summary Favorite an article
// @Description Marks the article as favorited by the authenticated user. Idempotent.
// @Tags Articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} articles.ArticleResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug}/favorite [post]
func (h *Handlers) HandleFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}
		slug := chi.URLParam(r, "slug")

		view, err := h.service.Favorite(r.Context(), slug, userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		monitoring.ArticlesFavorited.Inc()
		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}

// HandleUnfavorite godoc
// @Summary Unfavorite an article
// @Description Removes the authenticated user's favorite from the article. Idempotent.
// @Tags Articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} articles.ArticleResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug}/favorite [delete]
func (h *Handlers) HandleUnfavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}
		slug := chi.URLParam(r, "slug")

		view, err := h.service.Unfavorite(r.Context(), slug, userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}
