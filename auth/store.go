package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/conduit-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// UserStore is the persistence boundary for user records. Absent rows come
// back as apperror NotFound; uniqueness conflicts come back as apperror
// Validation with a user-facing message.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	UserByID(ctx context.Context, id int) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, id int, patch UserPatch) (*User, error)
}

// PgxUserStore implements UserStore against PostgreSQL.
type PgxUserStore struct {
	db *pgxpool.Pool
}

// NewPgxUserStore creates a PgxUserStore backed by the given pool.
func NewPgxUserStore(db *pgxpool.Pool) *PgxUserStore {
	return &PgxUserStore{db: db}
}

const userColumns = `id, email, username, password_hash, bio, image, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Bio,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// uniqueViolationError maps a 23505 on the users table to the user-facing
// validation message for the violated constraint.
func uniqueViolationError(err error) *apperror.AppError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return apperror.NewValidationError("email already registered", nil)
		}
		if strings.Contains(pgErr.ConstraintName, "username") {
			return apperror.NewValidationError("username already taken", nil)
		}
	}
	return nil
}

func (s *PgxUserStore) CreateUser(ctx context.Context, user *User) error {
	query := `INSERT INTO users (email, username, password_hash, bio, image)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, user.Email, user.Username, user.PasswordHash, user.Bio, user.Image).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if appErr := uniqueViolationError(err); appErr != nil {
			return appErr
		}
		return apperror.NewDatabaseError("failed to create user", err)
	}
	return nil
}

func (s *PgxUserStore) UserByID(ctx context.Context, id int) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by id", err)
	}
	return user, nil
}

func (s *PgxUserStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	user, err := scanUser(s.db.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with email '%s' not found", email), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by email", err)
	}
	return user, nil
}

func (s *PgxUserStore) UserByUsername(ctx context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	user, err := scanUser(s.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with username '%s' not found", username), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by username", err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of patch and returns the merged row.
// The SET clause is built dynamically so unspecified fields are untouched.
func (s *PgxUserStore) UpdateUser(ctx context.Context, id int, patch UserPatch) (*User, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Email != nil {
		addClause("email", strings.ToLower(*patch.Email))
	}
	if patch.Username != nil {
		addClause("username", *patch.Username)
	}
	if patch.PasswordHash != nil {
		addClause("password_hash", *patch.PasswordHash)
	}
	if patch.Bio != nil {
		addClause("bio", *patch.Bio)
	}
	if patch.Image != nil {
		addClause("image", *patch.Image)
	}

	if len(setClauses) == 0 {
		return s.UserByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, userColumns)

	user, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", id), nil)
		}
		if appErr := uniqueViolationError(err); appErr != nil {
			return nil, appErr
		}
		return nil, apperror.NewDatabaseError("failed to update user", err)
	}
	return user, nil
}

var _ UserStore = (*PgxUserStore)(nil)
