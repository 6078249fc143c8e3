package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/query"
)

// ErrEmptyTag is returned, without any request, for blank tag input
var ErrEmptyTag = errors.New("tag name is empty")

// ErrEmptyHighlight is returned, without any request, for blank selections
var ErrEmptyHighlight = errors.New("highlight text is empty")

// Backend is the REST surface; *api.APIClient implements it
type Backend interface {
	ListFeeds(ctx context.Context) ([]model.Feed, error)
	GetFeed(ctx context.Context, id int64) (*model.Feed, error)
	CreateFeed(ctx context.Context, req model.FeedCreate) (*model.Feed, error)
	UpdateFeed(ctx context.Context, id int64, req model.FeedUpdate) (*model.Feed, error)
	DeleteFeed(ctx context.Context, id int64) error
	RefreshFeed(ctx context.Context, id int64) error
	ListArticles(ctx context.Context, f filter.Filter, sort filter.Sort) ([]model.Article, error)
	GetArticle(ctx context.Context, id int64) (*model.Article, error)
	UpdateArticle(ctx context.Context, id int64, req model.ArticleUpdate) (*model.Article, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
	AddTag(ctx context.Context, articleID int64, name string) ([]model.Tag, error)
	RemoveTag(ctx context.Context, articleID int64, name string) ([]model.Tag, error)
	ListHighlights(ctx context.Context, articleID int64) ([]model.Highlight, error)
	CreateHighlight(ctx context.Context, articleID int64, req model.HighlightCreate) (*model.Highlight, error)
	UpdateHighlight(ctx context.Context, id int64, req model.HighlightUpdate) (*model.Highlight, error)
	DeleteHighlight(ctx context.Context, id int64) error
}

// ContentService is the data-access layer: cached reads, and writes that
// invalidate what they affect. Errors from the backend pass through unchanged.
type ContentService struct {
	backend Backend
	cache   *query.Cache
	logger  *slog.Logger
}

// New wires a service over backend and cache
func New(backend Backend, cache *query.Cache, logger *slog.Logger) *ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentService{backend: backend, cache: cache, logger: logger}
}

// Cache exposes the underlying cache for manual refreshes
func (s *ContentService) Cache() *query.Cache {
	return s.cache
}

// Refresh drops feeds and article lists so the next reads refetch them
func (s *ContentService) Refresh() {
	s.cache.InvalidateResource(query.Feeds)
	s.cache.InvalidateResource(query.Articles)
}

// NormalizeTagName trims and lowercases user input; "" means no request
func NormalizeTagName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Feeds lists subscribed feeds
func (s *ContentService) Feeds(ctx context.Context) ([]model.Feed, error) {
	return query.Fetch(ctx, s.cache, query.FeedsKey(), s.backend.ListFeeds)
}

// Feed fetches one feed. It bypasses the cache so last_fetched is current.
func (s *ContentService) Feed(ctx context.Context, id int64) (model.Feed, error) {
	f, err := s.backend.GetFeed(ctx, id)
	if err != nil {
		return model.Feed{}, err
	}
	return *f, nil
}

// CreateFeed subscribes to url
func (s *ContentService) CreateFeed(ctx context.Context, url, name string) (model.Feed, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.Feed{}, fmt.Errorf("feed URL is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = url
	}

	feed, err := s.backend.CreateFeed(ctx, model.FeedCreate{URL: url, Name: name})
	if err != nil {
		return model.Feed{}, err
	}
	s.cache.Invalidate(query.FeedCreated, feed.ID)
	s.logger.Info("feed created", "feed_id", feed.ID, "url", url)
	return *feed, nil
}

// RenameFeed changes a feed's display name
func (s *ContentService) RenameFeed(ctx context.Context, id int64, name string) (model.Feed, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Feed{}, fmt.Errorf("feed name is required")
	}
	feed, err := s.backend.UpdateFeed(ctx, id, model.FeedUpdate{Name: &name})
	if err != nil {
		return model.Feed{}, err
	}
	s.cache.Invalidate(query.FeedUpdated, id)
	return *feed, nil
}

// SetFeedActive pauses or resumes scheduled fetching
func (s *ContentService) SetFeedActive(ctx context.Context, id int64, active bool) (model.Feed, error) {
	feed, err := s.backend.UpdateFeed(ctx, id, model.FeedUpdate{IsActive: &active})
	if err != nil {
		return model.Feed{}, err
	}
	s.cache.Invalidate(query.FeedUpdated, id)
	return *feed, nil
}

// DeleteFeed unsubscribes; its articles disappear server side
func (s *ContentService) DeleteFeed(ctx context.Context, id int64) error {
	if err := s.backend.DeleteFeed(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(query.FeedDeleted, id)
	s.logger.Info("feed deleted", "feed_id", id)
	return nil
}

// RefreshFeed schedules an immediate fetch
func (s *ContentService) RefreshFeed(ctx context.Context, id int64) error {
	if err := s.backend.RefreshFeed(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(query.FeedRefreshed, id)
	return nil
}

// Articles lists articles matching f
func (s *ContentService) Articles(ctx context.Context, f filter.Filter, sort filter.Sort) ([]model.Article, error) {
	key := query.ArticlesKey(f.Key(), string(sort))
	return query.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]model.Article, error) {
		return s.backend.ListArticles(ctx, f, sort)
	})
}

// Article fetches one article
func (s *ContentService) Article(ctx context.Context, id int64) (model.Article, error) {
	return query.Fetch(ctx, s.cache, query.ArticleKey(id), func(ctx context.Context) (model.Article, error) {
		a, err := s.backend.GetArticle(ctx, id)
		if err != nil {
			return model.Article{}, err
		}
		return *a, nil
	})
}

// UpdateArticle applies a partial update and invalidates lists and the article
func (s *ContentService) UpdateArticle(ctx context.Context, id int64, upd model.ArticleUpdate) (model.Article, error) {
	if upd.Empty() {
		return model.Article{}, fmt.Errorf("nothing to update")
	}
	a, err := s.backend.UpdateArticle(ctx, id, upd)
	if err != nil {
		return model.Article{}, err
	}
	s.cache.Invalidate(query.ArticleUpdated, id)
	return *a, nil
}

// MarkRead sets is_read if the article is unread. It reports whether a
// request was sent.
func (s *ContentService) MarkRead(ctx context.Context, a model.Article) (bool, error) {
	if a.IsRead {
		return false, nil
	}
	if _, err := s.UpdateArticle(ctx, a.ID, model.ArticleUpdate{IsRead: model.Bool(true)}); err != nil {
		return true, fmt.Errorf("failed to mark as read: %w", err)
	}
	return true, nil
}

// ToggleSaved flips is_saved
func (s *ContentService) ToggleSaved(ctx context.Context, a model.Article) (model.Article, error) {
	return s.UpdateArticle(ctx, a.ID, model.ArticleUpdate{IsSaved: model.Bool(!a.IsSaved)})
}

// ToggleArchived flips is_archived
func (s *ContentService) ToggleArchived(ctx context.Context, a model.Article) (model.Article, error) {
	return s.UpdateArticle(ctx, a.ID, model.ArticleUpdate{IsArchived: model.Bool(!a.IsArchived)})
}

// SetNote replaces the article note; an empty note clears it
func (s *ContentService) SetNote(ctx context.Context, id int64, note string) (model.Article, error) {
	return s.UpdateArticle(ctx, id, model.ArticleUpdate{Note: &note})
}

// Tags lists the global tag vocabulary
func (s *ContentService) Tags(ctx context.Context) ([]model.Tag, error) {
	return query.Fetch(ctx, s.cache, query.TagsKey(), s.backend.ListTags)
}

// AttachTag normalizes raw and attaches it. Blank input sends nothing.
func (s *ContentService) AttachTag(ctx context.Context, articleID int64, raw string) ([]model.Tag, error) {
	name := NormalizeTagName(raw)
	if name == "" {
		return nil, ErrEmptyTag
	}
	tags, err := s.backend.AddTag(ctx, articleID, name)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(query.TagAttached, articleID)
	return tags, nil
}

// DetachTag removes a tag by name
func (s *ContentService) DetachTag(ctx context.Context, articleID int64, name string) ([]model.Tag, error) {
	name = NormalizeTagName(name)
	if name == "" {
		return nil, ErrEmptyTag
	}
	tags, err := s.backend.RemoveTag(ctx, articleID, name)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(query.TagDetached, articleID)
	return tags, nil
}

// Highlights lists the highlights of an article
func (s *ContentService) Highlights(ctx context.Context, articleID int64) ([]model.Highlight, error) {
	return query.Fetch(ctx, s.cache, query.HighlightsKey(articleID), func(ctx context.Context) ([]model.Highlight, error) {
		return s.backend.ListHighlights(ctx, articleID)
	})
}

// CreateHighlight stores text with color. Nothing is rendered locally;
// the marker appears once highlights are refetched.
func (s *ContentService) CreateHighlight(ctx context.Context, articleID int64, text string, color model.Color) (model.Highlight, error) {
	if strings.TrimSpace(text) == "" {
		return model.Highlight{}, ErrEmptyHighlight
	}
	if !color.Valid() {
		return model.Highlight{}, fmt.Errorf("unknown highlight color %q", color)
	}
	h, err := s.backend.CreateHighlight(ctx, articleID, model.HighlightCreate{Text: text, Color: color})
	if err != nil {
		return model.Highlight{}, err
	}
	s.cache.Invalidate(query.HighlightCreated, articleID)
	s.logger.Info("highlight created", "article_id", articleID, "highlight_id", h.ID, "color", string(color))
	return *h, nil
}

// UpdateHighlight changes color or note of a highlight on articleID
func (s *ContentService) UpdateHighlight(ctx context.Context, articleID, id int64, upd model.HighlightUpdate) (model.Highlight, error) {
	if upd.Color != nil && !upd.Color.Valid() {
		return model.Highlight{}, fmt.Errorf("unknown highlight color %q", *upd.Color)
	}
	h, err := s.backend.UpdateHighlight(ctx, id, upd)
	if err != nil {
		return model.Highlight{}, err
	}
	s.cache.Invalidate(query.HighlightUpdated, articleID)
	return *h, nil
}

// DeleteHighlight removes a highlight of articleID
func (s *ContentService) DeleteHighlight(ctx context.Context, articleID, id int64) error {
	if err := s.backend.DeleteHighlight(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(query.HighlightDeleted, articleID)
	return nil
}

// Reader is everything the reading pane needs for one article
type Reader struct {
	Article    model.Article
	Highlights []model.Highlight
}

// LoadReader fetches an article and its highlights in parallel
func (s *ContentService) LoadReader(ctx context.Context, id int64) (Reader, error) {
	var r Reader
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.Article(gctx, id)
		r.Article = a
		return err
	})
	g.Go(func() error {
		hs, err := s.Highlights(gctx, id)
		r.Highlights = hs
		return err
	})
	if err := g.Wait(); err != nil {
		return Reader{}, err
	}
	return r, nil
}
