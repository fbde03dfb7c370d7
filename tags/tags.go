// Package tags exposes the global tag list.
package tags

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// TagListResponse wraps the global tag list.
type TagListResponse struct {
	Tags []string `json:"tags"`
}

// Store is the persistence boundary for the tag list.
type Store interface {
	AllTagNames(ctx context.Context) ([]string, error)
}

// PgxStore implements Store against PostgreSQL.
type PgxStore struct {
	db *pgxpool.Pool
}

// NewPgxStore creates a PgxStore backed by the given pool.
func NewPgxStore(db *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: db}
}

// AllTagNames returns every tag ever used, in creation order. Tags are kept
// even when no article references them anymore.
func (s *PgxStore) AllTagNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT name FROM tags ORDER BY id`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tags", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan tag", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate tags", err)
	}
	return names, nil
}

var _ Store = (*PgxStore)(nil)

// Handlers wraps the tag Store to provide HTTP handlers.
type Handlers struct {
	store Store
}

// NewHandlers creates a new Handlers instance
func NewHandlers(store Store) *Handlers {
	return &Handlers{store: store}
}

// HandleList godoc
// @Summary List tags
// @Description Returns every tag ever used on an article.
// @Tags Tags
// @Produce json
// @Success 200 {object} tags.TagListResponse
// @Router /tags [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := h.store.AllTagNames(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, TagListResponse{Tags: names})
	}
}
