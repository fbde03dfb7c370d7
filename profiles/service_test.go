package profiles

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/articles"
)

type edge struct {
	follower int
	followed int
}

type fakeFollowStore struct {
	edges map[edge]bool
}

func newFakeFollowStore() *fakeFollowStore {
	return &fakeFollowStore{edges: map[edge]bool{}}
}

func (f *fakeFollowStore) IsFollowing(_ context.Context, followerID, followedID int) (bool, error) {
	return f.edges[edge{followerID, followedID}], nil
}

func (f *fakeFollowStore) CreateFollow(_ context.Context, followerID, followedID int) error {
	f.edges[edge{followerID, followedID}] = true
	return nil
}

func (f *fakeFollowStore) DeleteFollow(_ context.Context, followerID, followedID int) error {
	delete(f.edges, edge{followerID, followedID})
	return nil
}

var _ FollowStore = (*fakeFollowStore)(nil)

type fakeDirectory struct {
	users map[int]articles.Author
}

func (f *fakeDirectory) AuthorByID(_ context.Context, id int) (*articles.Author, error) {
	a, ok := f.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", id), nil)
	}
	return &a, nil
}

func (f *fakeDirectory) AuthorByUsername(_ context.Context, username string) (*articles.Author, error) {
	for _, a := range f.users {
		if a.Username == username {
			found := a
			return &found, nil
		}
	}
	return nil, apperror.NewNotFoundError(fmt.Sprintf("user '%s' not found", username), nil)
}

func (f *fakeDirectory) AuthorsByIDs(_ context.Context, ids []int) (map[int]articles.Author, error) {
	result := map[int]articles.Author{}
	for _, id := range ids {
		if a, ok := f.users[id]; ok {
			result[id] = a
		}
	}
	return result, nil
}

var _ articles.UserDirectory = (*fakeDirectory)(nil)

func newTestService() (*Service, *fakeFollowStore) {
	follows := newFakeFollowStore()
	bio := "about alice"
	users := &fakeDirectory{users: map[int]articles.Author{
		1: {ID: 1, Username: "alice", Bio: &bio},
		2: {ID: 2, Username: "bob"},
	}}
	return NewService(follows, users), follows
}

func TestGetProfileAnonymous(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.Get(context.Background(), "alice", nil)
	require.NoError(t, err)

	assert.Equal(t, "alice", view.Username)
	require.NotNil(t, view.Bio)
	assert.Equal(t, "about alice", *view.Bio)
	assert.False(t, view.Following)
}

func TestGetProfileNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "nobody", nil)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestFollow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Follow(ctx, "alice", 2)
	require.NoError(t, err)
	assert.True(t, view.Following)

	bob := 2
	view, err = svc.Get(ctx, "alice", &bob)
	require.NoError(t, err)
	assert.True(t, view.Following)

	// the other direction is unaffected
	alice := 1
	view, err = svc.Get(ctx, "bob", &alice)
	require.NoError(t, err)
	assert.False(t, view.Following)
}

func TestFollowIdempotent(t *testing.T) {
	svc, follows := newTestService()
	ctx := context.Background()

	_, err := svc.Follow(ctx, "alice", 2)
	require.NoError(t, err)
	view, err := svc.Follow(ctx, "alice", 2)
	require.NoError(t, err)

	assert.True(t, view.Following)
	assert.Len(t, follows.edges, 1)
}

func TestFollowSelf(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Follow(context.Background(), "alice", 1)
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestFollowNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Follow(context.Background(), "nobody", 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUnfollow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Follow(ctx, "alice", 2)
	require.NoError(t, err)

	view, err := svc.Unfollow(ctx, "alice", 2)
	require.NoError(t, err)
	assert.False(t, view.Following)

	bob := 2
	view, err = svc.Get(ctx, "alice", &bob)
	require.NoError(t, err)
	assert.False(t, view.Following)
}

func TestUnfollowNeverFollowed(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.Unfollow(context.Background(), "alice", 2)
	require.NoError(t, err)
	assert.False(t, view.Following)
}
