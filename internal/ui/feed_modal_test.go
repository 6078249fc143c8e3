package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// INVARIANT: a failed feed mutation shows the server's message verbatim
// BREAKS: users see a generic error instead of why the server refused
func TestFeedModalAddErrorIsVerbatim(t *testing.T) {
	m, srv := testModel(t)
	srv.AddFeed("Blog", "https://blog.example/feed")
	m = drain(t, m, m.Init())

	m = press(t, m, "F", "a")
	require.True(t, m.feedModal.IsVisible())
	require.Equal(t, "add", m.feedModal.Mode())
	m = typeText(t, m, "https://blog.example/feed")
	m = press(t, m, "enter")

	assert.Equal(t, "Feed with URL https://blog.example/feed already exists", m.feedModal.Error())
	assert.Equal(t, "add", m.feedModal.Mode(), "form stays open for a fix")
	assert.Equal(t, "Feed with URL https://blog.example/feed already exists", m.statusMessage)
	assert.Len(t, m.feeds.Data, 1)
}

func TestFeedModalAddsFeed(t *testing.T) {
	m, srv := started(t)

	m = press(t, m, "F", "a")
	m = typeText(t, m, "https://news.example/rss")
	m = press(t, m, "tab")
	m = typeText(t, m, "News")
	m = press(t, m, "enter")

	assert.Equal(t, "list", m.feedModal.Mode())
	assert.Empty(t, m.feedModal.Error())
	assert.Equal(t, 1, srv.Count("POST", "/api/feeds/"))
	require.Len(t, m.feeds.Data, 1)
	assert.Equal(t, "News", m.feeds.Data[0].Name)
	assert.Contains(t, m.View(), "News")
}

func TestFeedModalRequiresURL(t *testing.T) {
	m, srv := started(t)

	m = press(t, m, "F", "a", "enter")

	assert.Equal(t, "URL is required", m.feedModal.Error())
	assert.Zero(t, srv.Count("POST", "/api/feeds/"))
}

func TestFeedModalRenameAndRemove(t *testing.T) {
	m, srv := testModel(t)
	srv.AddFeed("Blog", "https://blog.example/feed")
	m = drain(t, m, m.Init())

	m = press(t, m, "F", "r")
	require.Equal(t, "rename", m.feedModal.Mode())
	for range "Blog" {
		m = press(t, m, "backspace")
	}
	m = typeText(t, m, "Engineering")
	m = press(t, m, "enter")

	require.Len(t, m.feeds.Data, 1)
	assert.Equal(t, "Engineering", m.feeds.Data[0].Name)
	assert.Equal(t, "list", m.feedModal.Mode())

	m = press(t, m, "d")
	require.Equal(t, "confirm_remove", m.feedModal.Mode())
	m = press(t, m, "n")
	assert.Equal(t, "list", m.feedModal.Mode())
	assert.Len(t, m.feeds.Data, 1)

	m = press(t, m, "d", "y")
	assert.Empty(t, m.feeds.Data)
	assert.Equal(t, "✓ Removed feed: Engineering", m.statusMessage)
}

func TestFeedModalFetch(t *testing.T) {
	m, srv := testModel(t)
	srv.AddFeed("Blog", "https://blog.example/feed")
	m = drain(t, m, m.Init())

	m = press(t, m, "F", "f")

	assert.Equal(t, 1, srv.Count("POST", "/api/feeds/{id}/refresh"))
}

func TestFeedModalCloseReloadsFeeds(t *testing.T) {
	m, srv := started(t)
	m = press(t, m, "F")
	require.True(t, m.feedModal.IsVisible())

	srv.AddFeed("Late", "https://late.example/feed")
	m.svc.Refresh()
	m = press(t, m, "esc")

	assert.False(t, m.feedModal.IsVisible())
	require.Len(t, m.feeds.Data, 1)
	assert.Equal(t, "Late", m.feeds.Data[0].Name)
}
