package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krepsys/tui/internal/commands"
)

func TestRelativeDate(t *testing.T) {
	now := time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "now"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{49 * time.Hour, "2d"},
		{10 * 24 * time.Hour, "Oct 26"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeDate(now.Add(-tt.ago), now))
		})
	}
	assert.Empty(t, relativeDate(time.Time{}, now))
}

func TestTruncateAndFit(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "hello w…", truncate("hello world", 8))
	assert.Empty(t, truncate("anything", 0))

	// Wide runes count as two cells
	got := truncate("日本語のタイトル", 7)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 7)

	assert.Equal(t, 12, runewidth.StringWidth(fit("abc", 12)))
	assert.Equal(t, 4, runewidth.StringWidth(fit("abcdefgh", 4)))
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a · c", joinNonEmpty(" · ", "a", "", "c"))
	assert.Empty(t, joinNonEmpty(" · ", "", ""))
}

func TestCopyToClipboard(t *testing.T) {
	var copied string
	orig := copyFunc
	t.Cleanup(func() { copyFunc = orig })

	copyFunc = func(s string) error {
		copied = s
		return nil
	}
	require.NoError(t, CopyToClipboard("https://blog.example/post"))
	assert.Equal(t, "https://blog.example/post", copied)

	assert.Error(t, CopyToClipboard(""))

	copyFunc = func(string) error { return errors.New("no display") }
	err := CopyToClipboard("x")
	require.Error(t, err)
	assert.Equal(t, "failed to copy to clipboard: no display", err.Error())
}

func TestYankCopiesArticleURL(t *testing.T) {
	var copied string
	orig := copyFunc
	t.Cleanup(func() { copyFunc = orig })
	copyFunc = func(s string) error {
		copied = s
		return nil
	}

	m, srv := testModel(t)
	_, _, newer := seedArticles(srv)
	m = drain(t, m, m.Init())
	m = press(t, m, "tab", "y")

	assert.Equal(t, newer.URL, copied)
	assert.Equal(t, "URL copied to clipboard", m.statusMessage)
}

func TestExportWritesMarkdown(t *testing.T) {
	m, srv := testModel(t)
	seedArticles(srv)
	m = drain(t, m, m.Init())
	m = openFirst(t, m)

	dir := t.TempDir()
	next, cmd, handled := m.handleCommand(commands.ExportMsg{Dir: dir})
	require.True(t, handled)
	m = drain(t, next, cmd)

	assert.Contains(t, m.statusMessage, "✓ Exported to "+dir)
}
