package operations

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krepsys/tui/internal/api"
	"github.com/krepsys/tui/internal/apitest"
	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/query"
	"github.com/krepsys/tui/internal/service"
)

func newService(t *testing.T) (*service.ContentService, *apitest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := apitest.New()
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Options{BaseURL: srv.URL, Logger: logger})
	require.NoError(t, err)
	cache, err := query.NewCache(64, nil, logger)
	require.NoError(t, err)
	return service.New(client, cache, logger), srv
}

func exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

// INVARIANT: a superseded article request cannot be applied
// BREAKS: rapid filter switching shows the older filter's articles
func TestLoadArticlesSupersedes(t *testing.T) {
	svc, srv := newService(t)
	srv.AddArticle(model.Article{FeedID: 1, Title: "a"})
	ctx := context.Background()
	slot := &query.Slot{}

	first := LoadArticles(ctx, svc, slot, filter.All.Filter, filter.Newest)
	second := LoadArticles(ctx, svc, slot, filter.Unread.Filter, filter.Newest)

	m1 := exec(t, first).(ArticlesLoadedMsg)
	m2 := exec(t, second).(ArticlesLoadedMsg)

	assert.False(t, slot.Current(m1.Token))
	assert.True(t, slot.Current(m2.Token))
	assert.Error(t, m1.Result.Err, "first request context was cancelled")
	require.True(t, m2.Result.Ok())
	assert.Len(t, m2.Result.Data, 1)
	assert.Equal(t, filter.Unread.Filter.Key()+"|newest", m2.Key)
}

func TestLoadReaderAndFeeds(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()
	srv.AddFeed("Blog", "https://blog.example/feed")
	a := srv.AddArticle(model.Article{FeedID: 1, Title: "a", Content: "<p>x y</p>"})
	srv.AddHighlight(a.ID, "x", model.Pink)

	r := exec(t, LoadReader(ctx, svc, &query.Slot{}, a.ID)).(ReaderLoadedMsg)
	require.True(t, r.Result.Ok())
	assert.Equal(t, a.ID, r.ID)
	assert.Len(t, r.Result.Data.Highlights, 1)

	f := exec(t, LoadFeeds(ctx, svc)).(FeedsLoadedMsg)
	require.True(t, f.Result.Ok())
	assert.Equal(t, "Blog", f.Result.Data[0].Name)

	missing := exec(t, LoadReader(ctx, svc, &query.Slot{}, 999)).(ReaderLoadedMsg)
	assert.ErrorIs(t, missing.Result.Err, api.ErrNotFound)
}

// INVARIANT: feed creation failures carry the server detail verbatim
// BREAKS: users see "API error" instead of why the feed was rejected
func TestAddFeedErrorIsVerbatim(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()
	srv.AddFeed("Blog", "https://blog.example/feed")

	msg := exec(t, AddFeed(ctx, svc, "https://blog.example/feed", "")).(FeedOperationMsg)
	assert.False(t, msg.Success)
	assert.Equal(t, "Feed with URL https://blog.example/feed already exists", msg.Message)

	ok := exec(t, AddFeed(ctx, svc, "https://other.example/rss", "Other")).(FeedOperationMsg)
	assert.True(t, ok.Success)
	assert.Equal(t, "✓ Added feed: Other", ok.Message)
}

func TestFeedMutations(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()
	feed := srv.AddFeed("Blog", "https://blog.example/feed")

	renamed := exec(t, RenameFeed(ctx, svc, feed.ID, "Better")).(FeedOperationMsg)
	assert.True(t, renamed.Success)
	assert.Equal(t, "✓ Renamed feed: Better", renamed.Message)

	fetched := exec(t, FetchFeed(ctx, svc, feed.ID)).(FeedOperationMsg)
	assert.True(t, fetched.Success)
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/feeds/{id}/refresh"))

	removed := exec(t, RemoveFeed(ctx, svc, feed.ID, "")).(FeedOperationMsg)
	assert.True(t, removed.Success)
	assert.Equal(t, "✓ Removed feed: #1", removed.Message)

	gone := exec(t, RemoveFeed(ctx, svc, feed.ID, "Better")).(FeedOperationMsg)
	assert.False(t, gone.Success)
	assert.ErrorIs(t, gone.Error, api.ErrNotFound)
}

func TestArticleOperations(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()
	a := srv.AddArticle(model.Article{FeedID: 1, Title: "a"})

	read := exec(t, MarkRead(ctx, svc, a)).(MarkedReadMsg)
	require.NoError(t, read.Error)
	assert.True(t, read.Sent)

	a.IsRead = true
	again := exec(t, MarkRead(ctx, svc, a)).(MarkedReadMsg)
	assert.False(t, again.Sent)
	assert.Equal(t, 1, srv.Count(http.MethodPatch, "/api/articles/{id}/"))

	saved := exec(t, ToggleSaved(ctx, svc, a)).(ArticleUpdatedMsg)
	require.NoError(t, saved.Error)
	assert.Equal(t, ActionSaved, saved.Action)
	assert.True(t, saved.Article.IsSaved)

	archived := exec(t, ToggleArchived(ctx, svc, saved.Article)).(ArticleUpdatedMsg)
	require.NoError(t, archived.Error)
	assert.True(t, archived.Article.IsArchived)

	noted := exec(t, SaveNote(ctx, svc, a.ID, "remember")).(ArticleUpdatedMsg)
	require.NoError(t, noted.Error)
	require.NotNil(t, noted.Article.Note)
	assert.Equal(t, "remember", *noted.Article.Note)
}

func TestAnnotationOperations(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()
	a := srv.AddArticle(model.Article{FeedID: 1, Title: "a", Content: "<p>climate change</p>"})

	tagged := exec(t, AttachTag(ctx, svc, a.ID, "Politics")).(TagsChangedMsg)
	require.NoError(t, tagged.Error)
	assert.True(t, tagged.Attached)
	require.Len(t, tagged.Tags, 1)
	assert.Equal(t, "politics", tagged.Tags[0].Name)

	blank := exec(t, AttachTag(ctx, svc, a.ID, "   ")).(TagsChangedMsg)
	assert.ErrorIs(t, blank.Error, service.ErrEmptyTag)

	untagged := exec(t, DetachTag(ctx, svc, a.ID, "politics")).(TagsChangedMsg)
	require.NoError(t, untagged.Error)
	assert.Empty(t, untagged.Tags)

	created := exec(t, CreateHighlight(ctx, svc, a.ID, model.HighlightCreate{Text: "climate", Color: model.Blue})).(HighlightSavedMsg)
	require.NoError(t, created.Error)
	assert.True(t, created.Created)

	recolored := exec(t, RecolorHighlight(ctx, svc, a.ID, created.Highlight.ID, model.Pink)).(HighlightSavedMsg)
	require.NoError(t, recolored.Error)
	assert.Equal(t, model.Pink, recolored.Highlight.Color)

	deleted := exec(t, DeleteHighlight(ctx, svc, a.ID, created.Highlight.ID)).(HighlightDeletedMsg)
	require.NoError(t, deleted.Error)

	tags := exec(t, LoadTags(ctx, svc)).(TagsLoadedMsg)
	require.NoError(t, tags.Err)
}
