package commands

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
)

func run(t *testing.T, line string) tea.Msg {
	t.Helper()
	cmd := NewRegistry().Run(line)
	require.NotNil(t, cmd, "command %q returned nil", line)
	return cmd()
}

func TestRunDispatch(t *testing.T) {
	tests := []struct {
		line string
		want tea.Msg
	}{
		{"refresh", RefreshMsg{}},
		{"help", HelpMsg{}},
		{"filter Unread", FilterMsg{Named: filter.Unread}},
		{"feed 3", FeedMsg{ID: 3}},
		{"sort", SortMsg{Toggle: true}},
		{"sort oldest", SortMsg{Sort: filter.Oldest}},
		{"theme", ThemeMsg{}},
		{"theme light", ThemeMsg{Name: "light"}},
		{"add https://x.example/feed My Feed", AddFeedMsg{URL: "https://x.example/feed", Name: "My Feed"}},
		{"add https://x.example/feed", AddFeedMsg{URL: "https://x.example/feed"}},
		{"remove 4", RemoveFeedMsg{ID: 4}},
		{"rename 4 Better Name", RenameFeedMsg{ID: 4, Name: "Better Name"}},
		{"fetch", FetchFeedMsg{}},
		{"fetch 2", FetchFeedMsg{ID: 2}},
		{"save", SaveMsg{}},
		{"archive", ArchiveMsg{}},
		{"tag", TagMsg{}},
		{"tag machine learning", TagMsg{Name: "machine learning"}},
		{"untag go", UntagMsg{Name: "go"}},
		{"note", NoteMsg{}},
		{"highlight g climate change", HighlightMsg{Color: model.Green, Text: "climate change"}},
		{"unhighlight 12", UnhighlightMsg{ID: 12}},
		{"open", OpenMsg{}},
		{"yank", YankMsg{}},
		{"export", ExportMsg{Dir: "."}},
		{"export /tmp/out", ExportMsg{Dir: "/tmp/out"}},
		{"unh 12", UnhighlightMsg{ID: 12}},
		{"exp", ExportMsg{Dir: "."}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.line))
		})
	}
}

func TestNoteWithText(t *testing.T) {
	m, ok := run(t, "note read the follow-up").(NoteMsg)
	require.True(t, ok)
	require.NotNil(t, m.Text)
	assert.Equal(t, "read the follow-up", *m.Text)
}

// INVARIANT: malformed arguments produce an ErrorMsg, never a half-filled action
// BREAKS: ":remove abc" deletes feed 0 or panics
func TestRunErrors(t *testing.T) {
	for _, line := range []string{
		"filter",
		"filter starred",
		"feed",
		"feed abc",
		"sort sideways",
		"add",
		"remove",
		"remove -1",
		"rename 3",
		"fetch x",
		"untag",
		"highlight purple words",
		"highlight yellow",
		"unhighlight",
		"bogus",
	} {
		t.Run(line, func(t *testing.T) {
			m, ok := run(t, line).(ErrorMsg)
			require.True(t, ok, "got %T", m)
			assert.NotEmpty(t, m.Message)
		})
	}
}

func TestAmbiguousPrefix(t *testing.T) {
	m, ok := run(t, "f").(ErrorMsg)
	require.True(t, ok)
	assert.Equal(t, "Ambiguous command 'f': feed, fetch, filter", m.Message)
}

func TestQuit(t *testing.T) {
	cmd := NewRegistry().Run("q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestRunEmptyLine(t *testing.T) {
	assert.Nil(t, NewRegistry().Run("   "))
}

func TestComplete(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"refresh", "remove", "rename"}, r.Complete("re"))
	assert.Empty(t, r.Complete("zz"))
	assert.Contains(t, r.GetCommands(), "unhighlight")
}
