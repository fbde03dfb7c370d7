package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/conduit-go/apperror"
)

type fakeUserStore struct {
	users  map[int]*User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int]*User{}, nextID: 1}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.NewValidationError("email already registered", nil)
		}
		if u.Username == user.Username {
			return apperror.NewValidationError("username already taken", nil)
		}
	}
	user.ID = f.nextID
	f.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) UserByID(_ context.Context, id int) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", id), nil)
	}
	found := *u
	return &found, nil
}

func (f *fakeUserStore) UserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			found := *u
			return &found, nil
		}
	}
	return nil, apperror.NewNotFoundError(fmt.Sprintf("user with email '%s' not found", email), nil)
}

func (f *fakeUserStore) UserByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, apperror.NewNotFoundError(fmt.Sprintf("user with username '%s' not found", username), nil)
}

func (f *fakeUserStore) UpdateUser(_ context.Context, id int, patch UserPatch) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", id), nil)
	}
	if patch.Email != nil {
		u.Email = strings.ToLower(*patch.Email)
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Bio != nil {
		u.Bio = patch.Bio
	}
	if patch.Image != nil {
		u.Image = patch.Image
	}
	u.UpdatedAt = time.Now()
	updated := *u
	return &updated, nil
}

var _ UserStore = (*fakeUserStore)(nil)

func newTestService() (*Service, *fakeUserStore) {
	store := newFakeUserStore()
	return NewService(store, testAuthConfig()), store
}

func TestRegister(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	view, err := svc.Register(ctx, RegisterUser{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", view.Email)
	assert.Equal(t, "alice", view.Username)
	assert.NotEmpty(t, view.Token)
	assert.Nil(t, view.Bio)
	assert.Nil(t, view.Image)

	// password is stored hashed, never verbatim
	stored := store.users[1]
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUser{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterUser{Username: "alice2", Email: "alice@example.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUser{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	view, err := svc.Login(ctx, LoginUser{Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)
	assert.NotEmpty(t, view.Token)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), LoginUser{Email: "nobody@example.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
	assert.Contains(t, err.Error(), "email not found")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUser{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginUser{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
	assert.Contains(t, err.Error(), "invalid password")
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUser{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	view, err := svc.CurrentUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)

	_, err = svc.CurrentUser(ctx, 99)
	require.Error(t, err)
	assert.True(t, apperror.IsAuthError(err))
}

func TestUpdateUser(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUser{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	bio := "hello there"
	newPassword := "newpw"
	view, err := svc.UpdateUser(ctx, 1, UpdateUser{Bio: &bio, Password: &newPassword})
	require.NoError(t, err)

	require.NotNil(t, view.Bio)
	assert.Equal(t, "hello there", *view.Bio)
	// untouched fields survive
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "alice@example.com", view.Email)

	// the new password is hashed and usable for login
	assert.NotEqual(t, "newpw", store.users[1].PasswordHash)
	_, err = svc.Login(ctx, LoginUser{Email: "alice@example.com", Password: "newpw"})
	require.NoError(t, err)
}
