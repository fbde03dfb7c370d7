package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityEchoHandler(t *testing.T) (http.Handler, *int) {
	t.Helper()
	var seenID int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserIDFromContext(r.Context()); ok {
			seenID = id
		} else {
			seenID = 0
		}
		w.WriteHeader(http.StatusOK)
	})
	return handler, &seenID
}

func TestRequiredMissingHeader(t *testing.T) {
	handler, _ := identityEchoHandler(t)
	wrapped := Required(testAuthConfig())(handler)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["detail"])
}

func TestRequiredMalformedHeader(t *testing.T) {
	handler, _ := identityEchoHandler(t)
	wrapped := Required(testAuthConfig())(handler)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "just-a-token-without-scheme")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequiredInvalidToken(t *testing.T) {
	handler, _ := identityEchoHandler(t)
	wrapped := Required(testAuthConfig())(handler)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Token not.a.jwt")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequiredTokenScheme(t *testing.T) {
	cfg := testAuthConfig()
	token, err := IssueToken(cfg, 7, "alice")
	require.NoError(t, err)

	handler, seenID := identityEchoHandler(t)
	wrapped := Required(cfg)(handler)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, *seenID)
}

func TestRequiredBearerScheme(t *testing.T) {
	cfg := testAuthConfig()
	token, err := IssueToken(cfg, 7, "alice")
	require.NoError(t, err)

	handler, seenID := identityEchoHandler(t)
	wrapped := Required(cfg)(handler)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, *seenID)
}

func TestOptionalNoHeader(t *testing.T) {
	handler, seenID := identityEchoHandler(t)
	wrapped := Optional(testAuthConfig())(handler)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, *seenID)
}

func TestOptionalBadTokenIsAnonymous(t *testing.T) {
	handler, seenID := identityEchoHandler(t)
	wrapped := Optional(testAuthConfig())(handler)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Authorization", "Token garbage")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, *seenID)
}

func TestOptionalValidToken(t *testing.T) {
	cfg := testAuthConfig()
	token, err := IssueToken(cfg, 3, "bob")
	require.NoError(t, err)

	handler, seenID := identityEchoHandler(t)
	wrapped := Optional(cfg)(handler)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, *seenID)
}
