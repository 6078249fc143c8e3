package operations

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/export"
	"github.com/krepsys/tui/internal/model"
)

// ArticleAction names the change an ArticleUpdatedMsg reports
type ArticleAction int

const (
	ActionSaved ArticleAction = iota
	ActionArchived
	ActionNote
)

// MarkedReadMsg reports the implicit mark-as-read of an opened article
type MarkedReadMsg struct {
	ID    int64
	Sent  bool
	Error error
}

// ArticleUpdatedMsg reports an explicit article update
type ArticleUpdatedMsg struct {
	Action  ArticleAction
	Article model.Article
	Error   error
}

// ExportedMsg reports a markdown export
type ExportedMsg struct {
	Path  string
	Error error
}

// MarkRead sends is_read=true unless a is already read
func MarkRead(ctx context.Context, svc Service, a model.Article) tea.Cmd {
	return func() tea.Msg {
		sent, err := svc.MarkRead(ctx, a)
		return MarkedReadMsg{ID: a.ID, Sent: sent, Error: err}
	}
}

// ToggleSaved flips is_saved
func ToggleSaved(ctx context.Context, svc Service, a model.Article) tea.Cmd {
	return func() tea.Msg {
		updated, err := svc.ToggleSaved(ctx, a)
		return ArticleUpdatedMsg{Action: ActionSaved, Article: updated, Error: err}
	}
}

// ToggleArchived flips is_archived
func ToggleArchived(ctx context.Context, svc Service, a model.Article) tea.Cmd {
	return func() tea.Msg {
		updated, err := svc.ToggleArchived(ctx, a)
		return ArticleUpdatedMsg{Action: ActionArchived, Article: updated, Error: err}
	}
}

// SaveNote replaces the article note
func SaveNote(ctx context.Context, svc Service, id int64, note string) tea.Cmd {
	return func() tea.Msg {
		updated, err := svc.SetNote(ctx, id, note)
		return ArticleUpdatedMsg{Action: ActionNote, Article: updated, Error: err}
	}
}

// Export writes the article and its highlights as markdown into dir
func Export(e *export.Exporter, dir string, a model.Article, hs []model.Highlight) tea.Cmd {
	return func() tea.Msg {
		path, err := e.Write(dir, a, hs)
		return ExportedMsg{Path: path, Error: err}
	}
}
