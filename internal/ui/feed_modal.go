package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/theme"
	"github.com/krepsys/tui/internal/ui/operations"
)

type feedModalMode string

const (
	feedModeList    feedModalMode = "list"
	feedModeAdd     feedModalMode = "add"
	feedModeRename  feedModalMode = "rename"
	feedModeConfirm feedModalMode = "confirm_remove"
)

// FeedModal manages subscriptions: add, rename, refresh and delete
type FeedModal struct {
	Modal
	ctx      context.Context
	svc      operations.Service
	feeds    []model.Feed
	cursor   int
	mode     feedModalMode
	urlInput textinput.Model
	name     textinput.Model
	focusURL bool
	pending  bool
	errorMsg string
	status   string
}

// NewFeedModal creates a hidden feed modal
func NewFeedModal(ctx context.Context, svc operations.Service) FeedModal {
	url := textinput.New()
	url.Placeholder = "https://example.com/feed.xml"
	url.Prompt = "URL:  "
	url.CharLimit = 2048

	name := textinput.New()
	name.Placeholder = "optional"
	name.Prompt = "Name: "
	name.CharLimit = 256

	return FeedModal{
		Modal:    NewModal("FEEDS", 56, 14),
		ctx:      ctx,
		svc:      svc,
		mode:     feedModeList,
		urlInput: url,
		name:     name,
	}
}

// SetSize keeps the modal small unless the terminal is tiny
func (m *FeedModal) SetSize(width, height int) {
	m.width = min(56, max(width-6, 20))
	m.height = min(14, max(height-4, 6))
	m.urlInput.Width = m.width - 10
	m.name.Width = m.width - 10
}

// Open shows the modal on the feed list
func (m *FeedModal) Open(feeds []model.Feed) {
	m.LoadFeeds(feeds)
	m.toList()
	m.status = ""
	m.Show()
}

// LoadFeeds replaces the listed feeds, keeping the cursor in range
func (m *FeedModal) LoadFeeds(feeds []model.Feed) {
	m.feeds = feeds
	if m.cursor >= len(m.feeds) {
		m.cursor = max(len(m.feeds)-1, 0)
	}
}

// Mode is the current modal screen
func (m FeedModal) Mode() string { return string(m.mode) }

// Error is the message shown under the form
func (m FeedModal) Error() string { return m.errorMsg }

func (m *FeedModal) selected() (model.Feed, bool) {
	if m.cursor < 0 || m.cursor >= len(m.feeds) {
		return model.Feed{}, false
	}
	return m.feeds[m.cursor], true
}

func (m *FeedModal) toList() {
	m.mode = feedModeList
	m.pending = false
	m.errorMsg = ""
	m.urlInput.Blur()
	m.name.Blur()
}

func (m *FeedModal) focus(url bool) {
	m.focusURL = url
	if url {
		m.urlInput.Focus()
		m.name.Blur()
	} else {
		m.name.Focus()
		m.urlInput.Blur()
	}
}

// Update handles input for the feed modal
func (m FeedModal) Update(msg tea.Msg) (FeedModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case operations.FeedOperationMsg:
		m.pending = false
		if msg.Success {
			m.toList()
			m.status = msg.Message
			return m, nil
		}
		// Failures stay on the form with the server's detail
		m.errorMsg = msg.Message
		if m.mode == feedModeConfirm {
			m.mode = feedModeList
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case feedModeList:
			return m.updateList(msg)
		case feedModeAdd, feedModeRename:
			return m.updateForm(msg)
		case feedModeConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m FeedModal) updateList(msg tea.KeyMsg) (FeedModal, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.feeds)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.mode = feedModeAdd
		m.errorMsg = ""
		m.urlInput.SetValue("")
		m.name.SetValue("")
		m.focus(true)
	case "r", "enter":
		if f, ok := m.selected(); ok {
			m.mode = feedModeRename
			m.errorMsg = ""
			m.name.SetValue(f.Name)
			m.name.CursorEnd()
			m.focus(false)
		}
	case "f":
		if f, ok := m.selected(); ok {
			m.errorMsg = ""
			return m, operations.FetchFeed(m.ctx, m.svc, f.ID)
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = feedModeConfirm
			m.errorMsg = ""
		}
	case "esc", "q", "F":
		m.toList()
		m.Hide()
	}
	return m, nil
}

func (m FeedModal) updateForm(msg tea.KeyMsg) (FeedModal, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.toList()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		if m.mode == feedModeAdd {
			m.focus(!m.focusURL)
		}
		return m, nil
	case tea.KeyEnter:
		if m.pending {
			return m, nil
		}
		if m.mode == feedModeAdd {
			url := strings.TrimSpace(m.urlInput.Value())
			if url == "" {
				m.errorMsg = "URL is required"
				return m, nil
			}
			m.pending = true
			return m, operations.AddFeed(m.ctx, m.svc, url, m.name.Value())
		}
		f, ok := m.selected()
		name := strings.TrimSpace(m.name.Value())
		if !ok || name == "" || name == f.Name {
			m.toList()
			return m, nil
		}
		m.pending = true
		return m, operations.RenameFeed(m.ctx, m.svc, f.ID, name)
	}

	var cmd tea.Cmd
	if m.mode == feedModeAdd && m.focusURL {
		m.urlInput, cmd = m.urlInput.Update(msg)
	} else {
		m.name, cmd = m.name.Update(msg)
	}
	return m, cmd
}

func (m FeedModal) updateConfirm(msg tea.KeyMsg) (FeedModal, tea.Cmd) {
	switch msg.String() {
	case "y":
		f, ok := m.selected()
		if !ok {
			m.toList()
			return m, nil
		}
		m.pending = true
		return m, operations.RemoveFeed(m.ctx, m.svc, f.ID, f.Name)
	case "n", "esc":
		m.toList()
	}
	return m, nil
}

func (m FeedModal) body(th theme.Theme) string {
	styles := th.Styles()
	var b strings.Builder

	switch m.mode {
	case feedModeList:
		if len(m.feeds) == 0 {
			b.WriteString(styles.Muted.Render("No feeds yet. Press a to add one."))
			b.WriteString("\n")
		}
		for i, f := range m.feeds {
			line := truncate(f.Name, m.width-12)
			if !f.IsActive {
				line += " (paused)"
			}
			if i == m.cursor {
				b.WriteString(styles.Selected.Render("▶ " + line))
			} else {
				b.WriteString(styles.Text.Render("  " + line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("a:add  r:rename  f:fetch  d:delete  esc:close"))

	case feedModeAdd, feedModeRename:
		if m.mode == feedModeAdd {
			b.WriteString(m.urlInput.View())
			b.WriteString("\n")
		}
		b.WriteString(m.name.View())
		b.WriteString("\n\n")
		hint := "enter:save  esc:cancel"
		if m.mode == feedModeAdd {
			hint = "tab:next field  " + hint
		}
		if m.pending {
			hint = "saving..."
		}
		b.WriteString(styles.Muted.Render(hint))

	case feedModeConfirm:
		f, _ := m.selected()
		b.WriteString(styles.Error.Render(fmt.Sprintf("Delete %q and all its articles?", f.Name)))
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render("y:delete  n:cancel"))
	}

	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render("✗ " + m.errorMsg))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styles.Success.Render(m.status))
	}
	return b.String()
}

// ViewWithOverlay draws the modal centered over background
func (m FeedModal) ViewWithOverlay(background string, width, height int, th theme.Theme) string {
	m.SetContent(m.body(th))
	return m.Modal.ViewWithOverlay(background, width, height, th)
}
