package comments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/articles"
)

type fakeStore struct {
	slugs    map[string]int64
	comments map[int64]*Comment
	users    map[int]articles.Author
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slugs:    map[string]int64{},
		comments: map[int64]*Comment{},
		users:    map[int]articles.Author{},
		nextID:   1,
	}
}

func (f *fakeStore) ArticleIDBySlug(_ context.Context, slug string) (int64, error) {
	id, ok := f.slugs[slug]
	if !ok {
		return 0, apperror.NewNotFoundError(fmt.Sprintf("article '%s' not found", slug), nil)
	}
	return id, nil
}

func (f *fakeStore) CreateComment(_ context.Context, comment *Comment) error {
	comment.ID = f.nextID
	f.nextID++
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeStore) CommentsByArticle(_ context.Context, articleID int64) ([]Record, error) {
	var records []Record
	for id := int64(1); id < f.nextID; id++ {
		c, ok := f.comments[id]
		if !ok || c.ArticleID != articleID {
			continue
		}
		records = append(records, Record{Comment: *c, Author: f.users[c.AuthorID]})
	}
	return records, nil
}

func (f *fakeStore) CommentByID(_ context.Context, id int64) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("comment with id %d not found", id), nil)
	}
	found := *c
	return &found, nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("comment with id %d not found", id), nil)
	}
	delete(f.comments, id)
	return nil
}

var _ Store = (*fakeStore)(nil)

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

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	users := map[int]articles.Author{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, Username: "bob"},
	}
	store.users = users
	store.slugs["first-post"] = 10
	store.slugs["second-post"] = 11
	return NewService(store, &fakeDirectory{users: users}), store
}

func TestCreateComment(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, "first-post", 2, CreateComment{Body: "nice article"})
	require.NoError(t, err)

	assert.Equal(t, "nice article", view.Body)
	assert.Equal(t, "bob", view.Author.Username)
	assert.False(t, view.Author.Following)
	assert.NotZero(t, view.ID)
}

func TestCreateCommentArticleNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "missing", 2, CreateComment{Body: "hi"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListComments(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "first-post", 1, CreateComment{Body: "first"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "first-post", 2, CreateComment{Body: "second"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "second-post", 1, CreateComment{Body: "elsewhere"})
	require.NoError(t, err)

	result, err := svc.List(ctx, "first-post")
	require.NoError(t, err)
	require.Len(t, result.Comments, 2)
	assert.Equal(t, "first", result.Comments[0].Body)
	assert.Equal(t, "second", result.Comments[1].Body)
	assert.Equal(t, "bob", result.Comments[1].Author.Username)
}

func TestListCommentsEmpty(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.List(context.Background(), "first-post")
	require.NoError(t, err)
	assert.NotNil(t, result.Comments)
	assert.Len(t, result.Comments, 0)
}

func TestDeleteComment(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, "first-post", 1, CreateComment{Body: "mine"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "first-post", view.ID, 1))

	result, err := svc.List(ctx, "first-post")
	require.NoError(t, err)
	assert.Len(t, result.Comments, 0)
}

func TestDeleteCommentNotAuthor(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, "first-post", 1, CreateComment{Body: "mine"})
	require.NoError(t, err)

	err = svc.Delete(ctx, "first-post", view.ID, 2)
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorizedError(err))
}

func TestDeleteCommentWrongArticle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, "first-post", 1, CreateComment{Body: "mine"})
	require.NoError(t, err)

	// the comment exists, but not under this slug
	err = svc.Delete(ctx, "second-post", view.ID, 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteCommentMissingArticle(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Delete(context.Background(), "missing", 1, 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
