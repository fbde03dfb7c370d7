package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/config"
)

// ContextKey is a type used for context keys to avoid collisions.
type ContextKey string

const (
	// UserIDKey is the key used to store the authenticated user's ID in the
	// request context.
	UserIDKey ContextKey = "userID"
	// UsernameKey is the key used to store the authenticated user's username.
	UsernameKey ContextKey = "username"
)

// tokenFromHeader extracts the raw token from an Authorization header of the
// form "Token <jwt>". "Bearer" is accepted as an alias.
func tokenFromHeader(authHeader string) (string, bool) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		return "", false
	}
	scheme := strings.ToLower(parts[0])
	if scheme != "token" && scheme != "bearer" {
		return "", false
	}
	return parts[1], true
}

// Required returns middleware that rejects requests without a valid token and
// adds the user identity to the request context.
func Required(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("authorization header missing", nil))
				return
			}

			tokenString, ok := tokenFromHeader(authHeader)
			if !ok {
				WriteError(w, r, apperror.NewAuthError("authorization header format must be Token {token}", nil))
				return
			}

			claims, err := VerifyToken(cfg, tokenString)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid token", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

// Optional returns middleware that adds the user identity to the context when
// a valid token is present and otherwise lets the request through as
// anonymous. Malformed or expired tokens are treated as no token at all.
func Optional(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := tokenFromHeader(authHeader)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := VerifyToken(cfg, tokenString)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

func withIdentity(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, UsernameKey, claims.Username)
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns 0 and false for anonymous requests.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// ViewerFromContext returns the optional viewer identity as a nullable ID,
// for endpoints that personalize responses without requiring authentication.
func ViewerFromContext(ctx context.Context) *int {
	if userID, ok := UserIDFromContext(ctx); ok {
		return &userID
	}
	return nil
}
