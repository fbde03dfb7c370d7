package auth

import "time"

// User represents a user record as stored in the database.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never exposed in responses
	Bio          *string   `json:"bio,omitempty"`
	Image        *string   `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries the optional fields of a partial user update. A nil field
// means "leave unchanged". PasswordHash is the already-hashed credential.
type UserPatch struct {
	Email        *string
	Username     *string
	PasswordHash *string
	Bio          *string
	Image        *string
}
