// Package articles implements the article domain: slugs, tags, favorites,
// and the aggregation that composes article views for the API.
package articles

import "time"

// Article represents an article row as stored in the database. The slug is
// derived from the title at creation time and immutable thereafter.
type Article struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	AuthorID    int       `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArticlePatch carries the optional fields of a partial article update.
// A nil field means "leave unchanged". The slug is never part of a patch.
type ArticlePatch struct {
	Title       *string
	Description *string
	Body        *string
}

// Author is the subset of a user record needed to render the author
// sub-object of article and comment views.
type Author struct {
	ID       int
	Username string
	Bio      *string
	Image    *string
}

// AuthorView is the embedded author shape of article and comment views.
// Following is not computed for embedded authors and stays false.
type AuthorView struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

// ArticleView is the composed article representation returned by the API.
type ArticleView struct {
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Body           string     `json:"body"`
	TagList        []string   `json:"tagList"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
	FavoritesCount int        `json:"favoritesCount"`
	Favorited      bool       `json:"favorited"`
	Author         AuthorView `json:"author"`
}

// ArticleResponse wraps a single article view in its envelope.
type ArticleResponse struct {
	Article ArticleView `json:"article"`
}

// ArticleListResponse wraps a list of article views with the result count.
type ArticleListResponse struct {
	Articles      []ArticleView `json:"articles"`
	ArticlesCount int           `json:"articlesCount"`
}

// FormatTime renders a timestamp as ISO-8601 UTC with a trailing Z, the
// format used for createdAt/updatedAt throughout the API.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func authorView(a Author) AuthorView {
	return AuthorView{
		Username: a.Username,
		Bio:      a.Bio,
		Image:    a.Image,
	}
}
