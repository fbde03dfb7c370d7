package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/articles"
)

// Record pairs a comment with its author, as loaded by the list join.
type Record struct {
	Comment Comment
	Author  articles.Author
}

// Store is the persistence boundary for comments.
type Store interface {
	ArticleIDBySlug(ctx context.Context, slug string) (int64, error)
	CreateComment(ctx context.Context, comment *Comment) error
	CommentsByArticle(ctx context.Context, articleID int64) ([]Record, error)
	CommentByID(ctx context.Context, id int64) (*Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// PgxStore implements Store against PostgreSQL.
type PgxStore struct {
	db *pgxpool.Pool
}

// NewPgxStore creates a PgxStore backed by the given pool.
func NewPgxStore(db *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: db}
}

func (s *PgxStore) ArticleIDBySlug(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT id FROM articles WHERE slug = $1`, slug).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFoundError(fmt.Sprintf("article '%s' not found", slug), nil)
		}
		return 0, apperror.NewDatabaseError("failed to get article by slug", err)
	}
	return id, nil
}

func (s *PgxStore) CreateComment(ctx context.Context, comment *Comment) error {
	query := `INSERT INTO comments (body, article_id, author_id)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`
	err := s.db.QueryRow(ctx, query, comment.Body, comment.ArticleID, comment.AuthorID).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return apperror.NewDatabaseError("failed to create comment", err)
	}
	return nil
}

// CommentsByArticle returns the article's comments oldest first, with their
// authors loaded in the same query.
func (s *PgxStore) CommentsByArticle(ctx context.Context, articleID int64) ([]Record, error) {
	query := `SELECT c.id, c.body, c.article_id, c.author_id, c.created_at, c.updated_at,
	                 u.id, u.username, u.bio, u.image
	          FROM comments c
	          JOIN users u ON u.id = c.author_id
	          WHERE c.article_id = $1
	          ORDER BY c.id`
	rows, err := s.db.Query(ctx, query, articleID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list comments", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		err := rows.Scan(
			&rec.Comment.ID,
			&rec.Comment.Body,
			&rec.Comment.ArticleID,
			&rec.Comment.AuthorID,
			&rec.Comment.CreatedAt,
			&rec.Comment.UpdatedAt,
			&rec.Author.ID,
			&rec.Author.Username,
			&rec.Author.Bio,
			&rec.Author.Image,
		)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan comment", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate comments", err)
	}
	return records, nil
}

func (s *PgxStore) CommentByID(ctx context.Context, id int64) (*Comment, error) {
	var c Comment
	query := `SELECT id, body, article_id, author_id, created_at, updated_at
	          FROM comments WHERE id = $1`
	err := s.db.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Body, &c.ArticleID, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("comment with id %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get comment by id", err)
	}
	return &c, nil
}

func (s *PgxStore) DeleteComment(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete comment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("comment with id %d not found", id), nil)
	}
	return nil
}

var _ Store = (*PgxStore)(nil)
