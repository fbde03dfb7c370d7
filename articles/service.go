package articles

import (
	"context"

	"github.com/user/conduit-go/apperror"
)

// Service implements article operations on top of the store and the user
// directory. List results and single views are assembled with one batch query
// per relation (authors, tags, favorite counts, viewer favorites).
type Service struct {
	store Store
	users UserDirectory
}

// NewService creates a new article Service.
func NewService(store Store, users UserDirectory) *Service {
	return &Service{store: store, users: users}
}

// Create inserts a new article for the author, derives the slug from the
// title, and attaches the deduplicated tag list.
func (s *Service) Create(ctx context.Context, authorID int, req CreateArticle) (*ArticleView, error) {
	author, err := s.users.AuthorByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	article := &Article{
		Slug:        Slugify(req.Title),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		AuthorID:    authorID,
	}
	tags := dedupeTags(req.TagList)

	if err := s.store.CreateArticleWithTags(ctx, article, tags); err != nil {
		return nil, err
	}

	view := newView(article, tags, *author)
	return &view, nil
}

// GetBySlug returns the article view, with favorited computed for the viewer
// when one is present.
func (s *Service) GetBySlug(ctx context.Context, slug string, viewerID *int) (*ArticleView, error) {
	article, err := s.store.ArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.viewOne(ctx, article, viewerID)
}

// List returns articles matching the filter, newest first. Filters combine
// with AND; a filter that matches nothing short-circuits to an empty result.
func (s *Service) List(ctx context.Context, filter ListFilter, viewerID *int) (*ArticleListResponse, error) {
	empty := &ArticleListResponse{Articles: []ArticleView{}, ArticlesCount: 0}

	var authorID *int
	if filter.Author != "" {
		author, err := s.users.AuthorByUsername(ctx, filter.Author)
		if err != nil {
			if apperror.IsNotFound(err) {
				return empty, nil
			}
			return nil, err
		}
		authorID = &author.ID
	}

	// ids stays nil while no id-based filter applies; an empty non-nil slice
	// means a filter matched nothing.
	var ids []int64
	if filter.Tag != "" {
		tagIDs, err := s.store.ArticleIDsByTag(ctx, filter.Tag)
		if err != nil {
			return nil, err
		}
		if len(tagIDs) == 0 {
			return empty, nil
		}
		ids = tagIDs
	}

	if filter.Favorited != "" {
		user, err := s.users.AuthorByUsername(ctx, filter.Favorited)
		if err != nil {
			if apperror.IsNotFound(err) {
				return empty, nil
			}
			return nil, err
		}
		favIDs, err := s.store.ArticleIDsFavoritedBy(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(favIDs) == 0 {
			return empty, nil
		}
		if ids == nil {
			ids = favIDs
		} else {
			ids = intersectIDs(ids, favIDs)
			if len(ids) == 0 {
				return empty, nil
			}
		}
	}

	articles, err := s.store.ListArticles(ctx, authorID, ids)
	if err != nil {
		return nil, err
	}

	views, err := s.views(ctx, articles, viewerID)
	if err != nil {
		return nil, err
	}
	return &ArticleListResponse{Articles: views, ArticlesCount: len(views)}, nil
}

// Update applies a partial update to the requester's own article. The slug is
// kept as-is even when the title changes, so existing links stay valid.
func (s *Service) Update(ctx context.Context, slug string, requesterID int, req UpdateArticle) (*ArticleView, error) {
	article, err := s.store.ArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != requesterID {
		return nil, apperror.NewUnauthorizedError("you are not the author of this article", nil)
	}

	updated, err := s.store.UpdateArticle(ctx, article.ID, ArticlePatch{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
	})
	if err != nil {
		return nil, err
	}
	return s.viewOne(ctx, updated, &requesterID)
}

// Delete removes the requester's own article along with its tag links,
// favorites, and comments.
func (s *Service) Delete(ctx context.Context, slug string, requesterID int) error {
	article, err := s.store.ArticleBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if article.AuthorID != requesterID {
		return apperror.NewUnauthorizedError("you are not the author of this article", nil)
	}
	return s.store.DeleteArticle(ctx, article.ID)
}

// Favorite marks the article as favorited by the user and returns the
// refreshed view. Favoriting an already-favorited article is a no-op.
func (s *Service) Favorite(ctx context.Context, slug string, userID int) (*ArticleView, error) {
	article, err := s.store.ArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddFavorite(ctx, userID, article.ID); err != nil {
		return nil, err
	}
	return s.viewOne(ctx, article, &userID)
}

// Unfavorite removes the user's favorite and returns the refreshed view.
// Unfavoriting an article that was never favorited is a no-op.
func (s *Service) Unfavorite(ctx context.Context, slug string, userID int) (*ArticleView, error) {
	article, err := s.store.ArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveFavorite(ctx, userID, article.ID); err != nil {
		return nil, err
	}
	return s.viewOne(ctx, article, &userID)
}

func (s *Service) viewOne(ctx context.Context, article *Article, viewerID *int) (*ArticleView, error) {
	views, err := s.views(ctx, []Article{*article}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views assembles article views in bulk: one query per relation regardless of
// how many articles are rendered.
func (s *Service) views(ctx context.Context, articles []Article, viewerID *int) ([]ArticleView, error) {
	views := make([]ArticleView, 0, len(articles))
	if len(articles) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(articles))
	authorIDSet := make(map[int]bool)
	var authorIDs []int
	for _, a := range articles {
		ids = append(ids, a.ID)
		if !authorIDSet[a.AuthorID] {
			authorIDSet[a.AuthorID] = true
			authorIDs = append(authorIDs, a.AuthorID)
		}
	}

	authors, err := s.users.AuthorsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	tags, err := s.store.TagsForArticles(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.FavoriteCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	favorited := map[int64]bool{}
	if viewerID != nil {
		favorited, err = s.store.FavoritedSet(ctx, *viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	for i := range articles {
		a := &articles[i]
		view := newView(a, tags[a.ID], authors[a.AuthorID])
		view.FavoritesCount = counts[a.ID]
		view.Favorited = favorited[a.ID]
		views = append(views, view)
	}
	return views, nil
}

func newView(a *Article, tags []string, author Author) ArticleView {
	if tags == nil {
		tags = []string{}
	}
	return ArticleView{
		Slug:        a.Slug,
		Title:       a.Title,
		Description: a.Description,
		Body:        a.Body,
		TagList:     tags,
		CreatedAt:   FormatTime(a.CreatedAt),
		UpdatedAt:   FormatTime(a.UpdatedAt),
		Author:      authorView(author),
	}
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

func intersectIDs(a, b []int64) []int64 {
	inB := make(map[int64]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	var result []int64
	for _, id := range a {
		if inB[id] {
			result = append(result, id)
		}
	}
	return result
}
