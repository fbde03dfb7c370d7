package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/monitoring"
)

var validate = validator.New()

// Handlers wraps the auth Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user and returns the user with a token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.UserResponse "User created successfully"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Malformed body"
// @Failure 422 {object} apperror.ErrorResponse "Validation - Missing fields or email taken"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError("username, email, and password are required", err))
			return
		}

		user, err := h.service.Register(r.Context(), req.User)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		monitoring.RegisterSuccess.Inc()
		WriteJSON(w, http.StatusCreated, UserResponse{User: *user})
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Logs in an existing user by email and returns the user with a token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.UserResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Malformed body"
// @Failure 422 {object} apperror.ErrorResponse "Validation - Unknown email or wrong password"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError("email and password are required", err))
			return
		}

		user, err := h.service.Login(r.Context(), req.User)
		if err != nil {
			monitoring.LoginFailure.WithLabelValues("invalid_credentials").Inc()
			WriteError(w, r, err)
			return
		}

		monitoring.LoginSuccess.Inc()
		WriteJSON(w, http.StatusOK, UserResponse{User: *user})
	}
}

// HandleCurrentUser godoc
// @Summary Get current user
// @Description Returns the currently authenticated user with a fresh token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.UserResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /user [get]
func (h *Handlers) HandleCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}

		user, err := h.service.CurrentUser(r.Context(), userID)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, UserResponse{User: *user})
	}
}

// HandleUpdateUser godoc
// @Summary Update current user
// @Description Applies a partial update to the currently authenticated user.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userBody body auth.UpdateUserRequest true "Fields to update"
// @Success 200 {object} auth.UserResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 422 {object} apperror.ErrorResponse "Validation - e.g. email already registered"
// @Router /user [put]
func (h *Handlers) HandleUpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("user identity not found in context", nil))
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			WriteError(w, r, apperror.NewValidationError("invalid email format", err))
			return
		}

		user, err := h.service.UpdateUser(r.Context(), userID, req.User)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, UserResponse{User: *user})
	}
}

// WriteJSON serializes data to JSON and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"detail":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into the standardized error response. Errors
// that are not AppErrors are wrapped as internal errors so clients always see
// the same shape.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
