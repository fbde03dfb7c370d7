package articles

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

const pgUniqueViolation = "23505"

// Store is the persistence boundary for articles, tags, and favorites.
// Absent rows come back as apperror NotFound; a duplicate slug comes back as
// apperror Validation.
type Store interface {
	CreateArticleWithTags(ctx context.Context, article *Article, tags []string) error
	ArticleBySlug(ctx context.Context, slug string) (*Article, error)
	UpdateArticle(ctx context.Context, id int64, patch ArticlePatch) (*Article, error)
	DeleteArticle(ctx context.Context, id int64) error

	// ListArticles returns articles newest first, optionally restricted to an
	// author and/or a set of article IDs. A nil ids slice means unrestricted.
	ListArticles(ctx context.Context, authorID *int, ids []int64) ([]Article, error)
	ArticleIDsByTag(ctx context.Context, tag string) ([]int64, error)
	ArticleIDsFavoritedBy(ctx context.Context, userID int) ([]int64, error)

	TagsForArticles(ctx context.Context, ids []int64) (map[int64][]string, error)
	FavoriteCounts(ctx context.Context, ids []int64) (map[int64]int, error)
	FavoritedSet(ctx context.Context, userID int, ids []int64) (map[int64]bool, error)

	AddFavorite(ctx context.Context, userID int, articleID int64) error
	RemoveFavorite(ctx context.Context, userID int, articleID int64) error
}

// UserDirectory resolves the author records embedded in article and comment
// views. It is implemented by the article store itself but kept as a separate
// interface so the service can be tested against a fake user set.
type UserDirectory interface {
	AuthorByID(ctx context.Context, id int) (*Author, error)
	AuthorByUsername(ctx context.Context, username string) (*Author, error)
	AuthorsByIDs(ctx context.Context, ids []int) (map[int]Author, error)
}

// PgxStore implements Store and UserDirectory against PostgreSQL.
type PgxStore struct {
	db *pgxpool.Pool
}

// NewPgxStore creates a PgxStore backed by the given pool.
func NewPgxStore(db *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: db}
}

const articleColumns = `id, slug, title, description, body, author_id, created_at, updated_at`

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article
	err := row.Scan(
		&a.ID,
		&a.Slug,
		&a.Title,
		&a.Description,
		&a.Body,
		&a.AuthorID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CreateArticleWithTags inserts the article and attaches its tags in a single
// transaction, so a failed tag insert never leaves a half-created article.
// Tags are created on first use and reused afterwards.
func (s *PgxStore) CreateArticleWithTags(ctx context.Context, article *Article, tags []string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO articles (slug, title, description, body, author_id)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query, article.Slug, article.Title, article.Description, article.Body, article.AuthorID).
		Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewValidationError("an article with this title already exists", nil)
		}
		return apperror.NewDatabaseError("failed to create article", err)
	}

	for _, tag := range tags {
		var tagID int
		// The no-op DO UPDATE makes RETURNING yield the id on conflict too.
		err = tx.QueryRow(ctx,
			`INSERT INTO tags (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`, tag).Scan(&tagID)
		if err != nil {
			return apperror.NewDatabaseError("failed to upsert tag", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, article.ID, tagID)
		if err != nil {
			return apperror.NewDatabaseError("failed to attach tag", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewDatabaseError("failed to commit article creation", err)
	}
	return nil
}

func (s *PgxStore) ArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE slug = $1`, articleColumns)
	article, err := scanArticle(s.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("article '%s' not found", slug), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get article by slug", err)
	}
	return article, nil
}

// UpdateArticle applies the non-nil fields of patch and returns the merged
// row. The slug column is never touched, even when the title changes.
func (s *PgxStore) UpdateArticle(ctx context.Context, id int64, patch ArticlePatch) (*Article, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Title != nil {
		addClause("title", *patch.Title)
	}
	if patch.Description != nil {
		addClause("description", *patch.Description)
	}
	if patch.Body != nil {
		addClause("body", *patch.Body)
	}

	if len(setClauses) == 0 {
		return s.articleByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE articles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, articleColumns)

	article, err := scanArticle(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("article with id %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to update article", err)
	}
	return article, nil
}

func (s *PgxStore) articleByID(ctx context.Context, id int64) (*Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE id = $1`, articleColumns)
	article, err := scanArticle(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("article with id %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get article by id", err)
	}
	return article, nil
}

// DeleteArticle removes the article row. Tag links, favorites, and comments
// go with it via ON DELETE CASCADE.
func (s *PgxStore) DeleteArticle(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete article", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("article with id %d not found", id), nil)
	}
	return nil
}

func (s *PgxStore) ListArticles(ctx context.Context, authorID *int, ids []int64) ([]Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles`, articleColumns)
	var conditions []string
	var args []interface{}
	argID := 1

	if authorID != nil {
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", argID))
		args = append(args, *authorID)
		argID++
	}
	if ids != nil {
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", argID))
		args = append(args, ids)
		argID++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list articles", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan article", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate articles", err)
	}
	return articles, nil
}

func (s *PgxStore) ArticleIDsByTag(ctx context.Context, tag string) ([]int64, error) {
	rows, err := s.db.Query(ctx,
		`SELECT at.article_id
		 FROM article_tags at
		 JOIN tags t ON t.id = at.tag_id
		 WHERE t.name = $1`, tag)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query articles by tag", err)
	}
	defer rows.Close()
	return collectIDs(rows)
}

func (s *PgxStore) ArticleIDsFavoritedBy(ctx context.Context, userID int) ([]int64, error) {
	rows, err := s.db.Query(ctx,
		`SELECT article_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query favorited articles", err)
	}
	defer rows.Close()
	return collectIDs(rows)
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan article id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate article ids", err)
	}
	return ids, nil
}

// TagsForArticles returns the tag names per article, ordered by tag id so the
// list reflects tag creation order.
func (s *PgxStore) TagsForArticles(ctx context.Context, ids []int64) (map[int64][]string, error) {
	result := make(map[int64][]string)
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT at.article_id, t.name
		 FROM article_tags at
		 JOIN tags t ON t.id = at.tag_id
		 WHERE at.article_id = ANY($1)
		 ORDER BY t.id`, ids)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query article tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID int64
		var name string
		if err := rows.Scan(&articleID, &name); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan article tag", err)
		}
		result[articleID] = append(result[articleID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate article tags", err)
	}
	return result, nil
}

func (s *PgxStore) FavoriteCounts(ctx context.Context, ids []int64) (map[int64]int, error) {
	result := make(map[int64]int)
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT article_id, COUNT(*)
		 FROM favorites
		 WHERE article_id = ANY($1)
		 GROUP BY article_id`, ids)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query favorite counts", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID int64
		var count int
		if err := rows.Scan(&articleID, &count); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan favorite count", err)
		}
		result[articleID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate favorite counts", err)
	}
	return result, nil
}

// FavoritedSet returns which of the given articles the user has favorited.
func (s *PgxStore) FavoritedSet(ctx context.Context, userID int, ids []int64) (map[int64]bool, error) {
	result := make(map[int64]bool)
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT article_id FROM favorites
		 WHERE user_id = $1 AND article_id = ANY($2)`, userID, ids)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query favorited set", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID int64
		if err := rows.Scan(&articleID); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan favorited article", err)
		}
		result[articleID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate favorited set", err)
	}
	return result, nil
}

// AddFavorite records the favorite edge; favoriting twice is a no-op.
func (s *PgxStore) AddFavorite(ctx context.Context, userID int, articleID int64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO favorites (user_id, article_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userID, articleID)
	if err != nil {
		return apperror.NewDatabaseError("failed to add favorite", err)
	}
	return nil
}

// RemoveFavorite deletes the favorite edge; removing an absent edge is a
// no-op.
func (s *PgxStore) RemoveFavorite(ctx context.Context, userID int, articleID int64) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND article_id = $2`, userID, articleID)
	if err != nil {
		return apperror.NewDatabaseError("failed to remove favorite", err)
	}
	return nil
}

const authorColumns = `id, username, bio, image`

func scanAuthor(row pgx.Row) (*Author, error) {
	var a Author
	if err := row.Scan(&a.ID, &a.Username, &a.Bio, &a.Image); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PgxStore) AuthorByID(ctx context.Context, id int) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, authorColumns)
	author, err := scanAuthor(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by id", err)
	}
	return author, nil
}

func (s *PgxStore) AuthorByUsername(ctx context.Context, username string) (*Author, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, authorColumns)
	author, err := scanAuthor(s.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user '%s' not found", username), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by username", err)
	}
	return author, nil
}

func (s *PgxStore) AuthorsByIDs(ctx context.Context, ids []int) (map[int]Author, error) {
	result := make(map[int]Author)
	if len(ids) == 0 {
		return result, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ANY($1)`, authorColumns)
	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query users", err)
	}
	defer rows.Close()

	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan user", err)
		}
		result[author.ID] = *author
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate users", err)
	}
	return result, nil
}

var (
	_ Store         = (*PgxStore)(nil)
	_ UserDirectory = (*PgxStore)(nil)
)
