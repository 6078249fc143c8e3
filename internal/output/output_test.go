package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krepsys/tui/internal/model"
)

func plainPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewPrinterWithWriters(&out, &errOut, false), &out, &errOut
}

func TestPrinterWithoutColors(t *testing.T) {
	p, out, errOut := plainPrinter()

	p.Success("Added feed: %s", "Blog")
	p.Error("Feed with URL %s already exists", "https://blog.example/feed")
	p.Print("plain")

	assert.Equal(t, "[OK] Added feed: Blog\nplain\n", out.String())
	assert.Equal(t, "[ERROR] Feed with URL https://blog.example/feed already exists\n", errOut.String())
	assert.Equal(t, "*", p.Unread(true))
	assert.Equal(t, " ", p.Unread(false))
	assert.Equal(t, "x", p.Bold("x"))
}

func TestUseColorsHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColors())
}

func TestUseColorsDumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, UseColors())
}

func TestFeedsTable(t *testing.T) {
	p, out, _ := plainPrinter()
	feeds := []model.Feed{
		{ID: 1, Name: "Blog", URL: "https://blog.example/feed", IsActive: true},
		{ID: 2, Name: "Old", URL: "https://old.example/rss"},
	}

	require.NoError(t, Feeds(p, feeds))

	got := out.String()
	assert.Contains(t, got, "Blog")
	assert.Contains(t, got, "https://blog.example/feed")
	assert.Contains(t, got, "never")
	assert.Contains(t, got, "Old (paused)")
}

func TestFeedDetail(t *testing.T) {
	p, out, _ := plainPrinter()
	f := model.Feed{ID: 4, Name: "Blog", URL: "https://blog.example/feed", FetchInterval: 3600}

	require.NoError(t, FeedDetail(p, f))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "Blog\n"))
	assert.Contains(t, got, "https://blog.example/feed")
	assert.Contains(t, got, "paused")
	assert.Contains(t, got, "1h0m0s")
	assert.Contains(t, got, "never")
	assert.NotContains(t, got, "added")
}

func TestArticlesTable(t *testing.T) {
	p, out, _ := plainPrinter()
	published := model.NewTimestamp(time.Date(2025, 11, 5, 12, 0, 0, 0, time.Local))
	articles := []model.Article{
		{ID: 7, FeedID: 1, Title: "Hello", PublishedAt: published, IsSaved: true, Tags: []model.Tag{{ID: 1, Name: "go"}}},
		{ID: 8, FeedID: 1, Title: "Read one", PublishedAt: published, IsRead: true},
	}

	require.NoError(t, Articles(p, articles, []model.Feed{{ID: 1, Name: "Blog"}}))

	got := out.String()
	assert.Contains(t, got, "*★")
	assert.Contains(t, got, "Hello")
	assert.Contains(t, got, "Blog")
	assert.Contains(t, got, "2025-11-05")
	assert.Contains(t, got, "#go")
}

func TestTagsTable(t *testing.T) {
	p, out, _ := plainPrinter()
	require.NoError(t, Tags(p, []model.Tag{{ID: 3, Name: "politics"}}))
	assert.Contains(t, out.String(), "politics")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}
