package profiles

import (
	"context"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/articles"
)

// Service implements profile reads and the follow/unfollow operations.
type Service struct {
	follows FollowStore
	users   articles.UserDirectory
}

// NewService creates a new profile Service.
func NewService(follows FollowStore, users articles.UserDirectory) *Service {
	return &Service{follows: follows, users: users}
}

// Get returns the public profile for a username. When a viewer is present,
// following reflects whether the viewer follows the user; anonymous viewers
// always see false.
func (s *Service) Get(ctx context.Context, username string, viewerID *int) (*ProfileView, error) {
	user, err := s.users.AuthorByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != nil {
		following, err = s.follows.IsFollowing(ctx, *viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	view := newView(user, following)
	return &view, nil
}

// Follow makes the requester follow the named user and returns the profile
// with following true. Following an already-followed user is a no-op;
// following yourself is a validation error.
func (s *Service) Follow(ctx context.Context, username string, followerID int) (*ProfileView, error) {
	user, err := s.users.AuthorByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.ID == followerID {
		return nil, apperror.NewValidationError("you cannot follow yourself", nil)
	}

	if err := s.follows.CreateFollow(ctx, followerID, user.ID); err != nil {
		return nil, err
	}

	view := newView(user, true)
	return &view, nil
}

// Unfollow removes the requester's follow of the named user and returns the
// profile with following false. Unfollowing a user who was never followed is
// a no-op.
func (s *Service) Unfollow(ctx context.Context, username string, followerID int) (*ProfileView, error) {
	user, err := s.users.AuthorByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.follows.DeleteFollow(ctx, followerID, user.ID); err != nil {
		return nil, err
	}

	view := newView(user, false)
	return &view, nil
}

func newView(user *articles.Author, following bool) ProfileView {
	return ProfileView{
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.Image,
		Following: following,
	}
}
