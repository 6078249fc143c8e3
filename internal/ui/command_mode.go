package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krepsys/tui/internal/commands"
	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/theme"
)

const maxCommandHistory = 100

// HistoryStore persists command-line entries between sessions
type HistoryStore interface {
	Append(ctx context.Context, command string) error
	Recent(ctx context.Context, limit int) ([]string, error)
}

// CommandMode represents the neovim-style command mode
type CommandMode struct {
	active         bool
	input          textinput.Model
	history        []string
	historyIdx     int
	suggestions    []string
	suggestionIdx  int    // next suggestion to insert on tab
	completionBase string // text the suggestions were computed from
	registry       *commands.Registry
	store          HistoryStore
	ctx            context.Context
	width          int
	error          string
}

// clearErrorMsg is sent to clear command error after delay
type clearErrorMsg struct{}

// historyAppendedMsg reports the outcome of persisting one entry
type historyAppendedMsg struct {
	Err error
}

// HistoryLoadedMsg carries the persisted history read at start
type HistoryLoadedMsg struct {
	Entries []string
	Err     error
}

// NewCommandMode creates a new command mode instance
func NewCommandMode(ctx context.Context, store HistoryStore) CommandMode {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50
	ti.Prompt = ":"

	return CommandMode{
		input:      ti,
		history:    make([]string, 0, maxCommandHistory),
		historyIdx: -1,
		registry:   commands.NewRegistry(),
		store:      store,
		ctx:        ctx,
		width:      80,
	}
}

// LoadHistory reads persisted entries; a nil store loads nothing
func (c CommandMode) LoadHistory() tea.Cmd {
	if c.store == nil {
		return nil
	}
	store, ctx := c.store, c.ctx
	return func() tea.Msg {
		entries, err := store.Recent(ctx, maxCommandHistory)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

// SetHistory replaces the in-memory history
func (c *CommandMode) SetHistory(entries []string) {
	if len(entries) > maxCommandHistory {
		entries = entries[len(entries)-maxCommandHistory:]
	}
	c.history = append(c.history[:0], entries...)
}

// History returns the in-memory history, oldest first
func (c CommandMode) History() []string {
	return c.history
}

// SetWidth updates the width of the command mode display
func (c *CommandMode) SetWidth(width int) {
	c.width = width
	c.input.Width = width - 4
}

// Show activates command mode
func (c *CommandMode) Show() {
	c.ShowWith("")
}

// ShowWith activates command mode with the line prefilled
func (c *CommandMode) ShowWith(value string) {
	c.active = true
	c.input.Focus()
	c.input.SetValue(value)
	c.input.CursorEnd()
	c.historyIdx = len(c.history)
	c.error = ""
	c.resetCompletion()
}

// Hide deactivates command mode
func (c *CommandMode) Hide() {
	c.active = false
	c.input.Blur()
	c.input.SetValue("")
	c.historyIdx = -1
	c.error = ""
	c.resetCompletion()
}

func (c *CommandMode) resetCompletion() {
	c.suggestions = nil
	c.suggestionIdx = 0
	c.completionBase = ""
}

// IsActive returns whether command mode is currently active
func (c CommandMode) IsActive() bool {
	return c.active
}

// SetError shows err on the command line until a key or the timeout clears it
func (c *CommandMode) SetError(err string) tea.Cmd {
	c.error = err
	c.active = true
	c.input.Blur()

	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// Update handles input events for command mode
func (c *CommandMode) Update(msg tea.Msg) (CommandMode, tea.Cmd) {
	if !c.active {
		return *c, nil
	}

	switch msg := msg.(type) {
	case clearErrorMsg:
		if c.error != "" {
			c.Hide()
		}
		return *c, nil

	case tea.KeyMsg:
		if c.error != "" {
			c.Hide()
			return *c, nil
		}

		switch msg.Type {
		case tea.KeyEscape, tea.KeyCtrlC:
			c.Hide()
			return *c, nil

		case tea.KeyEnter:
			line := strings.TrimSpace(c.input.Value())
			c.Hide()
			if line == "" {
				return *c, nil
			}
			c.addToHistory(line)

			parts := parseCommandWithQuotes(line)
			if len(parts) == 0 {
				return *c, nil
			}
			return *c, tea.Batch(c.registry.Execute(parts[0], parts[1:]), c.persist(line))

		case tea.KeyUp:
			if c.historyIdx > 0 {
				c.historyIdx--
				c.input.SetValue(c.history[c.historyIdx])
				c.input.CursorEnd()
			}
			return *c, nil

		case tea.KeyDown:
			if c.historyIdx < len(c.history)-1 {
				c.historyIdx++
				c.input.SetValue(c.history[c.historyIdx])
				c.input.CursorEnd()
			} else if c.historyIdx == len(c.history)-1 {
				c.historyIdx = len(c.history)
				c.input.SetValue("")
			}
			return *c, nil

		case tea.KeyTab:
			c.cycleCompletion()
			return *c, nil

		case tea.KeyBackspace:
			if c.input.Value() == "" {
				c.Hide()
				return *c, nil
			}
		}
	}

	var cmd tea.Cmd
	before := c.input.Value()
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.resetCompletion()
	}
	return *c, cmd
}

// cycleCompletion inserts the next completion of the typed text
func (c *CommandMode) cycleCompletion() {
	current := c.input.Value()
	if current == "" {
		return
	}

	cycling := len(c.suggestions) > 0 &&
		current == c.suggestions[(c.suggestionIdx+len(c.suggestions)-1)%len(c.suggestions)]
	if !cycling {
		c.completionBase = current
		c.suggestions = c.Complete(current)
		c.suggestionIdx = 0
		if len(c.suggestions) == 0 {
			return
		}
	}

	c.input.SetValue(c.suggestions[c.suggestionIdx])
	c.input.CursorEnd()
	c.suggestionIdx = (c.suggestionIdx + 1) % len(c.suggestions)
}

// persist appends line to the store in the background
func (c CommandMode) persist(line string) tea.Cmd {
	if c.store == nil {
		return nil
	}
	store, ctx := c.store, c.ctx
	return func() tea.Msg {
		return historyAppendedMsg{Err: store.Append(ctx, line)}
	}
}

// View renders the command line
func (c CommandMode) View(th theme.Theme) string {
	if !c.active {
		return ""
	}

	if c.error != "" {
		return th.Styles().Error.Width(c.width).Padding(0, 1).Render(c.error)
	}

	content := c.input.View()
	if len(c.suggestions) > 1 {
		pos := c.suggestionIdx
		if pos == 0 {
			pos = len(c.suggestions)
		}
		content += fmt.Sprintf(" [%d/%d]", pos, len(c.suggestions))
	}

	return lipgloss.NewStyle().
		Foreground(th.Accent).
		Width(c.width).
		Padding(0, 1).
		Render(content)
}

// Complete returns completions for the typed text. Command names complete
// first; theme and filter arguments complete after a space.
func (c *CommandMode) Complete(prefix string) []string {
	lower := strings.ToLower(prefix)

	argument := func(cmd string, values []string) []string {
		rest := strings.TrimSpace(prefix[len(cmd)+1:])
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, strings.ToLower(rest)) {
				out = append(out, cmd+" "+v)
			}
		}
		return out
	}

	switch {
	case strings.HasPrefix(lower, "theme "):
		names := make([]string, 0, len(theme.Available))
		for _, t := range theme.Available {
			names = append(names, t.Name)
		}
		return argument("theme", names)
	case strings.HasPrefix(lower, "filter "):
		ids := make([]string, 0, len(filter.NamedFilters))
		for _, n := range filter.NamedFilters {
			ids = append(ids, n.ID)
		}
		return argument("filter", ids)
	case strings.HasPrefix(lower, "sort "):
		return argument("sort", []string{string(filter.Newest), string(filter.Oldest)})
	}

	if c.registry == nil {
		return nil
	}
	return c.registry.Complete(lower)
}

// addToHistory adds a command to the history
func (c *CommandMode) addToHistory(cmd string) {
	if len(c.history) > 0 && c.history[len(c.history)-1] == cmd {
		return
	}
	if len(c.history) >= maxCommandHistory {
		c.history = c.history[1:]
	}
	c.history = append(c.history, cmd)
}

// parseCommandWithQuotes splits on spaces, keeping "quoted args" whole and
// honoring backslash escapes
func parseCommandWithQuotes(cmd string) []string {
	var args []string
	var current strings.Builder
	var inQuotes, escaped bool

	runes := []rune(cmd)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
