// Package comments implements commenting on articles.
package comments

import (
	"time"

	"github.com/user/conduit-go/articles"
)

// Comment represents a comment row as stored in the database.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	ArticleID int64     `json:"article_id"`
	AuthorID  int       `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentView is the comment representation returned by the API.
type CommentView struct {
	ID        int64               `json:"id"`
	CreatedAt string              `json:"createdAt"`
	UpdatedAt string              `json:"updatedAt"`
	Body      string              `json:"body"`
	Author    articles.AuthorView `json:"author"`
}

// CommentResponse wraps a single comment view in its envelope.
type CommentResponse struct {
	Comment CommentView `json:"comment"`
}

// CommentListResponse wraps the comments of an article.
type CommentListResponse struct {
	Comments []CommentView `json:"comments"`
}

// CreateCommentRequest is the envelope for comment creation.
type CreateCommentRequest struct {
	Comment CreateComment `json:"comment" validate:"required"`
}

// CreateComment carries the body of a new comment.
type CreateComment struct {
	Body string `json:"body" validate:"required"`
}
