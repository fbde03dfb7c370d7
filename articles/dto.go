package articles

// CreateArticleRequest is the envelope for article creation.
type CreateArticleRequest struct {
	Article CreateArticle `json:"article" validate:"required"`
}

// CreateArticle carries the fields of a new article. The tag list is
// optional; duplicates are removed while preserving first-seen order.
type CreateArticle struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Body        string   `json:"body" validate:"required"`
	TagList     []string `json:"tagList"`
}

// UpdateArticleRequest is the envelope for a partial article update.
type UpdateArticleRequest struct {
	Article UpdateArticle `json:"article" validate:"required"`
}

// UpdateArticle carries the optional fields of an article update. Absent
// fields are left unchanged; the slug and tag list cannot be updated.
type UpdateArticle struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Body        *string `json:"body"`
}

// ListFilter holds the optional query filters for the article list. Empty
// strings mean the filter is not applied; filters combine with AND.
type ListFilter struct {
	Author    string
	Tag       string
	Favorited string
}
