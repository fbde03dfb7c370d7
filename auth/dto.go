// Package auth is responsible for user identity: registration, login, the
// current-user endpoints, and the JWT token boundary consumed by the rest of
// the application.
package auth

// RegisterRequest represents the registration request payload.
// The body carries the RealWorld user envelope: {"user": {...}}.
type RegisterRequest struct {
	User RegisterUser `json:"user"`
}

// RegisterUser holds the fields required to create an account.
type RegisterUser struct {
	Username string `json:"username" validate:"required" example:"jake"`
	Email    string `json:"email" validate:"required,email" example:"jake@jake.jake"`
	Password string `json:"password" validate:"required" example:"jakejake"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	User LoginUser `json:"user"`
}

// LoginUser holds login credentials. Login is by email.
type LoginUser struct {
	Email    string `json:"email" validate:"required" example:"jake@jake.jake"`
	Password string `json:"password" validate:"required" example:"jakejake"`
}

// UpdateUserRequest represents the current-user update payload.
type UpdateUserRequest struct {
	User UpdateUser `json:"user"`
}

// UpdateUser carries optional fields for a partial update. Nil fields are
// left unchanged.
type UpdateUser struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Image    *string `json:"image,omitempty"`
}

// UserView is the authenticated-user representation returned by the user
// endpoints, always carrying a freshly issued token.
type UserView struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Token    string  `json:"token"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// UserResponse wraps a UserView in the user envelope.
type UserResponse struct {
	User UserView `json:"user"`
}
