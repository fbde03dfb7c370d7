package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"auth", NewAuthError("no token", nil), http.StatusUnauthorized},
		{"unauthorized", NewUnauthorizedError("not the author", nil), http.StatusForbidden},
		{"not found", NewNotFoundError("gone", nil), http.StatusNotFound},
		{"validation", NewValidationError("email taken", nil), http.StatusUnprocessableEntity},
		{"bad request", NewBadRequestError("bad json", nil), http.StatusBadRequest},
		{"database", NewDatabaseError("boom", nil), http.StatusInternalServerError},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"conflict", NewConflictError("exists", nil), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestToResponseHidesUnderlyingError(t *testing.T) {
	err := NewDatabaseError("failed to create user", errors.New("pq: connection refused"))

	resp := err.ToResponse()
	assert.Equal(t, "failed to create user", resp.Detail)
	assert.NotContains(t, resp.Detail, "connection refused")
}

func TestFromError(t *testing.T) {
	appErr, ok := FromError(NewNotFoundError("gone", nil))
	require.True(t, ok)
	assert.Equal(t, NotFoundError, appErr.Type)

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = FromError(nil)
	assert.False(t, ok)
}

func TestFromErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer context: %w", NewValidationError("email taken", nil))

	appErr, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ValidationError, appErr.Type)
	assert.True(t, IsValidationError(wrapped))
}

func TestTypeCheckers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("gone", nil)))
	assert.False(t, IsNotFound(NewAuthError("no", nil)))

	assert.True(t, IsAuthError(NewAuthError("no", nil)))
	assert.True(t, IsUnauthorizedError(NewUnauthorizedError("no", nil)))
	assert.True(t, IsValidationError(NewValidationError("no", nil)))
	assert.True(t, IsConflictError(NewConflictError("no", nil)))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := NewInternalError("something broke", cause)

	assert.Contains(t, err.Error(), "something broke")
	assert.Contains(t, err.Error(), "underlying")
	assert.Equal(t, cause, errors.Unwrap(err))
}
