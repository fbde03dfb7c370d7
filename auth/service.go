package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/config"
)

// Service provides registration, login, and current-user operations.
type Service struct {
	store      UserStore
	authConfig *config.AuthConfig
}

// NewService creates a new auth Service.
func NewService(store UserStore, authConfig *config.AuthConfig) *Service {
	return &Service{store: store, authConfig: authConfig}
}

// Register creates a new user and returns the user view with a token.
// A duplicate email or username surfaces as a validation error.
func (s *Service) Register(ctx context.Context, req RegisterUser) (*UserView, error) {
	// Check the email up front for the friendlier message; the unique
	// constraint still backstops races.
	if _, err := s.store.UserByEmail(ctx, req.Email); err == nil {
		return nil, apperror.NewValidationError("email already registered", nil)
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Email:        strings.ToLower(req.Email),
		Username:     req.Username,
		PasswordHash: string(hashed),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.userView(user)
}

// Login authenticates a user by email and password.
// Both unknown email and wrong password are validation failures, matching the
// API's 422 contract for bad credentials.
func (s *Service) Login(ctx context.Context, req LoginUser) (*UserView, error) {
	user, err := s.store.UserByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewValidationError("email not found", nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.NewValidationError("invalid password", nil)
	}

	return s.userView(user)
}

// CurrentUser returns the authenticated user's view with a fresh token.
func (s *Service) CurrentUser(ctx context.Context, userID int) (*UserView, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("user not found", nil)
		}
		return nil, err
	}
	return s.userView(user)
}

// UpdateUser applies a partial update to the authenticated user. Only
// provided fields overwrite; the password is re-hashed before storage.
func (s *Service) UpdateUser(ctx context.Context, userID int, req UpdateUser) (*UserView, error) {
	patch := UserPatch{
		Email:    req.Email,
		Username: req.Username,
		Bio:      req.Bio,
		Image:    req.Image,
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashedStr := string(hashed)
		patch.PasswordHash = &hashedStr
	}

	user, err := s.store.UpdateUser(ctx, userID, patch)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("user not found", nil)
		}
		return nil, err
	}
	return s.userView(user)
}

func (s *Service) userView(user *User) (*UserView, error) {
	token, err := IssueToken(s.authConfig, user.ID, user.Username)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	return &UserView{
		Email:    user.Email,
		Username: user.Username,
		Token:    token,
		Bio:      user.Bio,
		Image:    user.Image,
	}, nil
}
