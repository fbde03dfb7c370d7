package tags

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	names []string
}

func (f *fakeStore) AllTagNames(_ context.Context) ([]string, error) {
	return f.names, nil
}

func TestHandleList(t *testing.T) {
	handlers := NewHandlers(&fakeStore{names: []string{"go", "testing"}})

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	rec := httptest.NewRecorder()
	handlers.HandleList()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body TagListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"go", "testing"}, body.Tags)
}

func TestHandleListEmpty(t *testing.T) {
	handlers := NewHandlers(&fakeStore{names: []string{}})

	req := httptest.NewRequest(http.MethodGet, "/tags", nil)
	rec := httptest.NewRecorder()
	handlers.HandleList()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// empty list serializes as [], not null
	assert.JSONEq(t, `{"tags":[]}`, rec.Body.String())
}
