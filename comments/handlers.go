package comments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
	"github.com/user/conduit-go/monitoring"
)

var validate = validator.New()

// Handlers wraps the comment Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate godoc
// @Summary Post a comment
// @Description Posts a comment on an article as the authenticated user.
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param commentBody body comments.CreateCommentRequest true "Comment to post"
// @Success 200 {object} comments.CommentResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Failure 422 {object} apperror.ErrorResponse "Validation - Missing body"
// @Router /articles/{slug}/comments [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}
		slug := chi.URLParam(r, "slug")

		var req CreateCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("comment body is required", err))
			return
		}

		view, err := h.service.Create(r.Context(), slug, userID, req.Comment)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		monitoring.CommentsPosted.Inc()
		auth.WriteJSON(w, http.StatusOK, CommentResponse{Comment: *view})
	}
}

// HandleList godoc
// @Summary List comments
// @Description Lists an article's comments oldest first.
// @Tags Comments
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} comments.CommentListResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug}/comments [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		result, err := h.service.List(r.Context(), slug)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, result)
	}
}

// HandleDelete godoc
// @Summary Delete a comment
// @Description Deletes the authenticated user's own comment from an article.
// @Tags Comments
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param id path int true "Comment id"
// @Success 204 "Comment deleted"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Article or comment not found"
// @Router /articles/{slug}/comments/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}
		slug := chi.URLParam(r, "slug")

		commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("comment id must be an integer", err))
			return
		}

		if err := h.service.Delete(r.Context(), slug, commentID, userID); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
