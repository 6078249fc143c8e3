package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krepsys/tui/internal/apitest"
	"github.com/krepsys/tui/internal/config"
	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T) (*APIClient, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{BaseURL: srv.URL, Logger: quietLogger()})
	require.NoError(t, err)
	return client, srv
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)

	_, err = NewClient(Options{BaseURL: "not a url"})
	assert.Error(t, err)

	c, err := NewClient(Options{BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.API.Key = "k"
	cfg.API.Timeout = 3

	c, err := NewClientFromConfig(cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "k", c.apiKey)
	assert.Equal(t, cfg.APITimeout(), c.httpClient.Timeout)
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.Equal(t, "/api/feeds/", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, APIKey: "secret", Logger: quietLogger()})
	require.NoError(t, err)

	feeds, err := c.ListFeeds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feeds)

	assert.Equal(t, "secret", got.Get("X-API-Key"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestFeedLifecycle(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	feed, err := c.CreateFeed(ctx, model.FeedCreate{URL: "https://example.com/rss", Name: "Example"})
	require.NoError(t, err)
	assert.Equal(t, "Example", feed.Name)

	renamed, err := c.UpdateFeed(ctx, feed.ID, model.FeedUpdate{Name: model.String("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)

	got, err := c.GetFeed(ctx, feed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	require.NoError(t, c.RefreshFeed(ctx, feed.ID))
	require.NoError(t, c.DeleteFeed(ctx, feed.ID))

	feeds, err := c.ListFeeds(ctx)
	require.NoError(t, err)
	assert.Empty(t, feeds)
	assert.Equal(t, 1, srv.Count("DELETE", "/api/feeds/{id}"))
}

// INVARIANT: the server's detail message reaches the caller verbatim
// BREAKS: feed creation failures show a generic error instead of the reason
func TestCreateFeedSurfacesDetail(t *testing.T) {
	c, srv := newTestClient(t)
	srv.AddFeed("Existing", "https://dup.example/rss")

	_, err := c.CreateFeed(context.Background(), model.FeedCreate{URL: "https://dup.example/rss", Name: "Dup"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Feed with URL https://dup.example/rss already exists", err.Error())
}

func TestValidationDetailList(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.CreateFeed(context.Background(), model.FeedCreate{URL: "ftp://nope", Name: "x"})
	require.Error(t, err)
	assert.Equal(t, "invalid or missing URL scheme", err.Error())
}

func TestNotFound(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.GetArticle(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = c.ListFeeds(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network error")
}

func TestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = c.ListFeeds(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = c.ListTags(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 500")
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestListArticlesEncodesFilterAndSort(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = c.ListArticles(context.Background(), filter.Unread.Filter.WithFeed(3), filter.Oldest)
	require.NoError(t, err)
	assert.Equal(t, "feed_id=3&is_archived=false&is_read=false&sort=oldest", query)
}

func TestArticleUpdateAndTags(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	a := srv.AddArticle(model.Article{FeedID: 1, Title: "A", Content: "<p>x</p>"})

	updated, err := c.UpdateArticle(ctx, a.ID, model.ArticleUpdate{IsSaved: model.Bool(true), Note: model.String("later")})
	require.NoError(t, err)
	assert.True(t, updated.IsSaved)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "later", *updated.Note)

	tags, err := c.AddTag(ctx, a.ID, "politics")
	require.NoError(t, err)
	require.Len(t, tags, 1)

	all, err := c.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, "politics", all[0].Name)

	tags, err = c.RemoveTag(ctx, a.ID, "politics")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestRemoveTagEscapesName(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = c.RemoveTag(context.Background(), 5, "long read/essay")
	require.NoError(t, err)
	assert.Equal(t, "/api/articles/5/tags/long%20read%2Fessay", path)
}

func TestHighlightLifecycle(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	a := srv.AddArticle(model.Article{FeedID: 1, Content: "<p>We discuss climate change today.</p>"})

	h, err := c.CreateHighlight(ctx, a.ID, model.HighlightCreate{Text: "climate change", Color: model.Green})
	require.NoError(t, err)
	assert.Equal(t, model.Green, h.Color)

	pink := model.Pink
	h2, err := c.UpdateHighlight(ctx, h.ID, model.HighlightUpdate{Color: &pink, Note: model.String("key")})
	require.NoError(t, err)
	assert.Equal(t, model.Pink, h2.Color)

	list, err := c.ListHighlights(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// 204 responses decode to nothing
	require.NoError(t, c.DeleteHighlight(ctx, h.ID))
	list, err = c.ListHighlights(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContextCancellation(t *testing.T) {
	c, srv := newTestClient(t)
	release := srv.Hold("GET", "/api/feeds/")
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListFeeds(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
