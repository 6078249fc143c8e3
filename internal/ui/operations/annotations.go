package operations

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/model"
)

// TagsChangedMsg reports an attach or detach
type TagsChangedMsg struct {
	ArticleID int64
	Name      string
	Attached  bool
	Tags      []model.Tag
	Error     error
}

// HighlightSavedMsg reports a created or updated highlight
type HighlightSavedMsg struct {
	ArticleID int64
	Highlight model.Highlight
	Created   bool
	Error     error
}

// HighlightDeletedMsg reports a deleted highlight
type HighlightDeletedMsg struct {
	ArticleID int64
	ID        int64
	Error     error
}

// AttachTag normalizes raw and attaches it
func AttachTag(ctx context.Context, svc Service, articleID int64, raw string) tea.Cmd {
	return func() tea.Msg {
		tags, err := svc.AttachTag(ctx, articleID, raw)
		return TagsChangedMsg{ArticleID: articleID, Name: raw, Attached: true, Tags: tags, Error: err}
	}
}

// DetachTag removes a tag by name
func DetachTag(ctx context.Context, svc Service, articleID int64, name string) tea.Cmd {
	return func() tea.Msg {
		tags, err := svc.DetachTag(ctx, articleID, name)
		return TagsChangedMsg{ArticleID: articleID, Name: name, Tags: tags, Error: err}
	}
}

// CreateHighlight saves a (text, color) pair for the article
func CreateHighlight(ctx context.Context, svc Service, articleID int64, req model.HighlightCreate) tea.Cmd {
	return func() tea.Msg {
		h, err := svc.CreateHighlight(ctx, articleID, req.Text, req.Color)
		return HighlightSavedMsg{ArticleID: articleID, Highlight: h, Created: true, Error: err}
	}
}

// RecolorHighlight changes a highlight's color
func RecolorHighlight(ctx context.Context, svc Service, articleID, id int64, color model.Color) tea.Cmd {
	return func() tea.Msg {
		h, err := svc.UpdateHighlight(ctx, articleID, id, model.HighlightUpdate{Color: &color})
		return HighlightSavedMsg{ArticleID: articleID, Highlight: h, Error: err}
	}
}

// DeleteHighlight removes a highlight by id
func DeleteHighlight(ctx context.Context, svc Service, articleID, id int64) tea.Cmd {
	return func() tea.Msg {
		err := svc.DeleteHighlight(ctx, articleID, id)
		return HighlightDeletedMsg{ArticleID: articleID, ID: id, Error: err}
	}
}
