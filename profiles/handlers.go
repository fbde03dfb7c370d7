package profiles

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// Handlers wraps the profile Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGet godoc
// @Summary Get a profile
// @Description Returns a user's public profile. Following is personalized when a token is sent.
// @Tags Profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /profiles/{username} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		view, err := h.service.Get(r.Context(), username, auth.ViewerFromContext(r.Context()))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: *view})
	}
}

// HandleFollow godoc
// @Summary Follow a user
// @Description Makes the authenticated user follow the named user. Idempotent.
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Failure 422 {object} apperror.ErrorResponse "Validation - Cannot follow yourself"
// @Router /profiles/{username}/follow [post]
func (h *Handlers) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}
		username := chi.URLParam(r, "username")

		view, err := h.service.Follow(r.Context(), username, userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: *view})
	}
}

// HandleUnfollow godoc
// @Summary Unfollow a user
// @Description Removes the authenticated user's follow of the named user. Idempotent.
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /profiles/{username}/follow [delete]
func (h *Handlers) HandleUnfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}
		username := chi.URLParam(r, "username")

		view, err := h.service.Unfollow(r.Context(), username, userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: *view})
	}
}
