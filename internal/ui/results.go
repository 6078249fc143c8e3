package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/query"
	"github.com/krepsys/tui/internal/service"
	"github.com/krepsys/tui/internal/ui/operations"
)

// pendingKeep marks r loading while keeping its data on screen
func pendingKeep[T any](r query.Result[T]) query.Result[T] {
	r.Status = query.StatusLoading
	r.Err = nil
	return r
}

// handleResult applies the messages produced by operations
func (m Model) handleResult(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case operations.FeedsLoadedMsg:
		if !msg.Result.Ok() {
			// Keep the last good list under the error
			m.feeds.Status, m.feeds.Err = msg.Result.Status, msg.Result.Err
			m.logger.Warn("failed to load feeds", "error", msg.Result.Err)
			return m, nil, true
		}
		m.feeds = msg.Result
		m.feedModal.LoadFeeds(msg.Result.Data)
		m.sidebarCursor = min(m.sidebarCursor, m.sidebarLen()-1)

		// The selected feed was deleted elsewhere
		if id, ok := m.sel.Feed(); ok {
			if _, found := m.feedIndex(id); !found {
				m.sidebarCursor = 0
				next, cmd := m.applySelection(m.sel.ChooseNamed(filter.All))
				return next, cmd, true
			}
		}
		return m, nil, true

	case operations.ArticlesLoadedMsg:
		if !m.articlesSlot.Current(msg.Token) {
			return m, nil, true
		}
		m.articles = msg.Result
		if !msg.Result.Ok() {
			m.logger.Warn("failed to load articles", "key", msg.Key, "error", msg.Result.Err)
			return m, nil, true
		}
		m.listCursor = m.cursorFor(msg.Result.Data)
		return m, nil, true

	case operations.ReaderLoadedMsg:
		if !m.readerSlot.Current(msg.Token) {
			return m, nil, true
		}
		m.reader = msg.Result
		m.refreshReader(true)
		if m.mode == modeSelect {
			m.relayoutSelection()
		}
		if m.mode == modeHighlights {
			m.highlightCursor = min(m.highlightCursor, max(len(m.reader.Data.Highlights)-1, 0))
		}
		if msg.Result.Ok() && m.readTrigger.Loaded(msg.Result.Data.Article) {
			return m, operations.MarkRead(m.ctx, m.svc, msg.Result.Data.Article), true
		}
		return m, nil, true

	case operations.TagsLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to load tags", "error", msg.Err)
			return m, nil, true
		}
		m.tags = msg.Tags
		m.tagInput.SetSuggestions(tagNames(msg.Tags))
		return m, nil, true

	case operations.MarkedReadMsg:
		if msg.Error != nil {
			status := m.setStatus("✗ " + msg.Error.Error())
			return m, status, true
		}
		if !msg.Sent {
			return m, nil, true
		}
		return m, m.loadArticles(), true

	case operations.ArticleUpdatedMsg:
		if msg.Error != nil {
			status := m.setStatus("✗ " + msg.Error.Error())
			return m, status, true
		}
		if msg.Action == operations.ActionNote {
			m.mode = modeNormal
			m.noteArea.Blur()
		}
		status := m.setStatus(updateStatus(msg))
		return m, tea.Batch(m.loadArticles(), m.reloadReader(), status), true

	case operations.TagsChangedMsg:
		if msg.Error != nil {
			status := m.setStatus("✗ " + msg.Error.Error())
			return m, status, true
		}
		text := "✓ Tagged: " + service.NormalizeTagName(msg.Name)
		if !msg.Attached {
			text = "✓ Removed tag: " + service.NormalizeTagName(msg.Name)
		}
		status := m.setStatus(text)
		return m, tea.Batch(
			m.reloadReader(),
			m.loadArticles(),
			operations.LoadTags(m.ctx, m.svc),
			status,
		), true

	case operations.HighlightSavedMsg:
		if msg.Created {
			if msg.Error != nil {
				m.flow = m.flow.Failed(msg.Error)
				status := m.setStatus("✗ " + msg.Error.Error())
				return m, status, true
			}
			m.flow = m.flow.Saved()
			m.cursor = m.cursor.Clear()
			status := m.setStatus(fmt.Sprintf("✓ Highlighted in %s", msg.Highlight.Color))
			return m, tea.Batch(m.reloadReader(), status), true
		}
		if msg.Error != nil {
			status := m.setStatus("✗ " + msg.Error.Error())
			return m, status, true
		}
		status := m.setStatus(fmt.Sprintf("✓ Highlight is now %s", msg.Highlight.Color))
		return m, tea.Batch(m.reloadReader(), status), true

	case operations.HighlightDeletedMsg:
		if msg.Error != nil {
			status := m.setStatus("✗ " + msg.Error.Error())
			return m, status, true
		}
		status := m.setStatus("✓ Highlight removed")
		return m, tea.Batch(m.reloadReader(), status), true

	case operations.FeedOperationMsg:
		status := m.setStatus(msg.Message)
		if !msg.Success {
			if msg.Error != nil {
				m.logger.Warn("feed operation failed", "error", msg.Error)
			}
			return m, status, true
		}
		return m, tea.Batch(operations.LoadFeeds(m.ctx, m.svc), m.loadArticles(), status), true

	case operations.ExportedMsg:
		if msg.Error != nil {
			status := m.setStatus("✗ " + msg.Error.Error())
			return m, status, true
		}
		status := m.setStatus("✓ Exported to " + msg.Path)
		return m, status, true
	}
	return m, nil, false
}

func updateStatus(msg operations.ArticleUpdatedMsg) string {
	a := msg.Article
	switch msg.Action {
	case operations.ActionSaved:
		if a.IsSaved {
			return "★ Saved"
		}
		return "☆ Unsaved"
	case operations.ActionArchived:
		if a.IsArchived {
			return "✓ Archived"
		}
		return "✓ Unarchived"
	default:
		if a.Note == nil || *a.Note == "" {
			return "✓ Note cleared"
		}
		return "✓ Note saved"
	}
}
