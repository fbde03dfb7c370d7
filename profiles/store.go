package profiles

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/conduit-go/apperror"
)

// FollowStore is the persistence boundary for follow edges.
type FollowStore interface {
	IsFollowing(ctx context.Context, followerID, followedID int) (bool, error)
	CreateFollow(ctx context.Context, followerID, followedID int) error
	DeleteFollow(ctx context.Context, followerID, followedID int) error
}

// PgxFollowStore implements FollowStore against PostgreSQL.
type PgxFollowStore struct {
	db *pgxpool.Pool
}

// NewPgxFollowStore creates a PgxFollowStore backed by the given pool.
func NewPgxFollowStore(db *pgxpool.Pool) *PgxFollowStore {
	return &PgxFollowStore{db: db}
}

func (s *PgxFollowStore) IsFollowing(ctx context.Context, followerID, followedID int) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
		 )`, followerID, followedID).Scan(&exists)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check follow status", err)
	}
	return exists, nil
}

// CreateFollow records the follow edge; following twice is a no-op.
func (s *PgxFollowStore) CreateFollow(ctx context.Context, followerID, followedID int) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, followerID, followedID)
	if err != nil {
		return apperror.NewDatabaseError("failed to create follow", err)
	}
	return nil
}

// DeleteFollow removes the follow edge; unfollowing an absent edge is a
// no-op.
func (s *PgxFollowStore) DeleteFollow(ctx context.Context, followerID, followedID int) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followedID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete follow", err)
	}
	return nil
}

var _ FollowStore = (*PgxFollowStore)(nil)
