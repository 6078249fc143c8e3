package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/commands"
	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/theme"
	"github.com/krepsys/tui/internal/ui/operations"
)

// handleCommand applies the messages produced by the : registry
func (m Model) handleCommand(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case commands.ErrorMsg:
		cmd := m.commandMode.SetError(msg.Message)
		return m, cmd, true

	case commands.HelpMsg:
		m.helpModal.SetSize(m.width, m.height)
		m.helpModal.Show()
		return m, nil, true

	case commands.RefreshMsg:
		m.svc.Refresh()
		status := m.setStatus("Refreshing...")
		return m, tea.Batch(
			operations.LoadFeeds(m.ctx, m.svc),
			m.loadArticles(),
			operations.LoadTags(m.ctx, m.svc),
			m.reloadReader(),
			status,
		), true

	case commands.FilterMsg:
		m.focus = focusList
		m.sidebarCursor = namedIndex(msg.Named.ID)
		next, cmd := m.applySelection(m.sel.ChooseNamed(msg.Named))
		return next, cmd, true

	case commands.FeedMsg:
		idx, ok := m.feedIndex(msg.ID)
		if !ok {
			cmd := m.commandMode.SetError(fmt.Sprintf("feed: no feed with id %d", msg.ID))
			return m, cmd, true
		}
		m.focus = focusList
		m.sidebarCursor = idx
		next, cmd := m.applySelection(m.sel.ChooseFeed(msg.ID))
		return next, cmd, true

	case commands.SortMsg:
		if msg.Toggle {
			m.sort = m.sort.Toggle()
		} else {
			m.sort = msg.Sort
		}
		m.articles = pendingKeep(m.articles)
		status := m.setStatus("Sort: " + string(m.sort))
		return m, tea.Batch(m.loadArticles(), status), true

	case commands.ThemeMsg:
		next := theme.Next(m.theme)
		if msg.Name != "" {
			t, ok := theme.ByName(strings.ToLower(msg.Name))
			if !ok {
				cmd := m.commandMode.SetError(fmt.Sprintf("theme: unknown theme '%s'", msg.Name))
				return m, cmd, true
			}
			next = t
		}
		m.theme = next
		m.rebuildRenderer()
		status := m.setStatus("Theme: " + next.Name)
		return m, status, true

	case commands.AddFeedMsg:
		return m, operations.AddFeed(m.ctx, m.svc, msg.URL, msg.Name), true

	case commands.RemoveFeedMsg:
		name := ""
		if idx, ok := m.feedIndex(msg.ID); ok {
			name = m.sidebarFeed(idx).Name
		}
		return m, operations.RemoveFeed(m.ctx, m.svc, msg.ID, name), true

	case commands.RenameFeedMsg:
		return m, operations.RenameFeed(m.ctx, m.svc, msg.ID, msg.Name), true

	case commands.FetchFeedMsg:
		id := msg.ID
		if id == 0 {
			selected, ok := m.sel.Feed()
			if !ok {
				cmd := m.commandMode.SetError("fetch: no feed selected")
				return m, cmd, true
			}
			id = selected
		}
		return m, operations.FetchFeed(m.ctx, m.svc, id), true

	case commands.SaveMsg:
		return m.withArticle(func(m *Model, a model.Article) tea.Cmd {
			return operations.ToggleSaved(m.ctx, m.svc, a)
		})

	case commands.ArchiveMsg:
		return m.withArticle(func(m *Model, a model.Article) tea.Cmd {
			return operations.ToggleArchived(m.ctx, m.svc, a)
		})

	case commands.TagMsg:
		if msg.Name == "" {
			return m.withReader(func(m Model) (Model, tea.Cmd) { return m.openTagInput() })
		}
		return m.withArticle(func(m *Model, a model.Article) tea.Cmd {
			return operations.AttachTag(m.ctx, m.svc, a.ID, msg.Name)
		})

	case commands.UntagMsg:
		return m.withArticle(func(m *Model, a model.Article) tea.Cmd {
			return operations.DetachTag(m.ctx, m.svc, a.ID, msg.Name)
		})

	case commands.NoteMsg:
		if msg.Text == nil {
			return m.withReader(func(m Model) (Model, tea.Cmd) { return m.openNoteEditor() })
		}
		return m.withArticle(func(m *Model, a model.Article) tea.Cmd {
			return operations.SaveNote(m.ctx, m.svc, a.ID, *msg.Text)
		})

	case commands.HighlightMsg:
		return m.withReader(func(m Model) (Model, tea.Cmd) {
			req := model.HighlightCreate{Text: msg.Text, Color: msg.Color}
			return m, operations.CreateHighlight(m.ctx, m.svc, m.reader.Data.Article.ID, req)
		})

	case commands.UnhighlightMsg:
		return m.withReader(func(m Model) (Model, tea.Cmd) {
			return m, operations.DeleteHighlight(m.ctx, m.svc, m.reader.Data.Article.ID, msg.ID)
		})

	case commands.OpenMsg:
		return m.withArticle(func(m *Model, a model.Article) tea.Cmd {
			if err := openInBrowser(a.URL); err != nil {
				m.logger.Warn("failed to open browser", "url", a.URL, "error", err)
				return m.setStatus("✗ Failed to open browser")
			}
			return m.setStatus("Opening in browser...")
		})

	case commands.YankMsg:
		return m.withArticle(func(m *Model, a model.Article) tea.Cmd {
			if err := CopyToClipboard(a.URL); err != nil {
				return m.setStatus("✗ " + err.Error())
			}
			return m.setStatus("URL copied to clipboard")
		})

	case commands.ExportMsg:
		return m.withReader(func(m Model) (Model, tea.Cmd) {
			r := m.reader.Data
			return m, operations.Export(m.exporter, msg.Dir, r.Article, r.Highlights)
		})
	}
	return m, nil, false
}

// withArticle runs fn on the current article, or reports that there is none
func (m Model) withArticle(fn func(*Model, model.Article) tea.Cmd) (Model, tea.Cmd, bool) {
	a, ok := m.currentArticle()
	if !ok {
		cmd := m.commandMode.SetError("No article selected")
		return m, cmd, true
	}
	cmd := fn(&m, a)
	return m, cmd, true
}

// withReader runs fn only when an article is loaded in the reader
func (m Model) withReader(fn func(Model) (Model, tea.Cmd)) (Model, tea.Cmd, bool) {
	if !m.reader.Ok() {
		cmd := m.commandMode.SetError("Open an article first")
		return m, cmd, true
	}
	next, cmd := fn(m)
	return next, cmd, true
}
