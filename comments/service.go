package comments

import (
	"context"
	"fmt"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/articles"
)

// Service implements comment operations. Every operation resolves the
// article slug first, so a missing article is always a not-found regardless
// of the comment id.
type Service struct {
	store Store
	users articles.UserDirectory
}

// NewService creates a new comment Service.
func NewService(store Store, users articles.UserDirectory) *Service {
	return &Service{store: store, users: users}
}

// Create posts a comment on the article by the given user.
func (s *Service) Create(ctx context.Context, slug string, authorID int, req CreateComment) (*CommentView, error) {
	articleID, err := s.store.ArticleIDBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	author, err := s.users.AuthorByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		Body:      req.Body,
		ArticleID: articleID,
		AuthorID:  authorID,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	view := newView(comment, *author)
	return &view, nil
}

// List returns the article's comments oldest first.
func (s *Service) List(ctx context.Context, slug string) (*CommentListResponse, error) {
	articleID, err := s.store.ArticleIDBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	records, err := s.store.CommentsByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(records))
	for _, rec := range records {
		views = append(views, newView(&rec.Comment, rec.Author))
	}
	return &CommentListResponse{Comments: views}, nil
}

// Delete removes the requester's own comment from the article. A comment id
// that exists under a different article is treated as not found.
func (s *Service) Delete(ctx context.Context, slug string, commentID int64, requesterID int) error {
	articleID, err := s.store.ArticleIDBySlug(ctx, slug)
	if err != nil {
		return err
	}

	comment, err := s.store.CommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ArticleID != articleID {
		return apperror.NewNotFoundError(fmt.Sprintf("comment with id %d not found", commentID), nil)
	}
	if comment.AuthorID != requesterID {
		return apperror.NewUnauthorizedError("you are not the author of this comment", nil)
	}

	return s.store.DeleteComment(ctx, commentID)
}

func newView(c *Comment, author articles.Author) CommentView {
	return CommentView{
		ID:        c.ID,
		CreatedAt: articles.FormatTime(c.CreatedAt),
		UpdatedAt: articles.FormatTime(c.UpdatedAt),
		Body:      c.Body,
		Author: articles.AuthorView{
			Username: author.Username,
			Bio:      author.Bio,
			Image:    author.Image,
		},
	}
}
