// Package operations holds the tea.Cmd factories behind every UI action.
// Each command calls the service and returns a result message; nothing
// here touches the model.
package operations

import (
	"context"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/service"
)

// Service is the part of *service.ContentService the UI uses
type Service interface {
	Refresh()

	Feeds(ctx context.Context) ([]model.Feed, error)
	CreateFeed(ctx context.Context, url, name string) (model.Feed, error)
	RenameFeed(ctx context.Context, id int64, name string) (model.Feed, error)
	DeleteFeed(ctx context.Context, id int64) error
	RefreshFeed(ctx context.Context, id int64) error

	Articles(ctx context.Context, f filter.Filter, sort filter.Sort) ([]model.Article, error)
	LoadReader(ctx context.Context, id int64) (service.Reader, error)
	MarkRead(ctx context.Context, a model.Article) (bool, error)
	ToggleSaved(ctx context.Context, a model.Article) (model.Article, error)
	ToggleArchived(ctx context.Context, a model.Article) (model.Article, error)
	SetNote(ctx context.Context, id int64, note string) (model.Article, error)

	Tags(ctx context.Context) ([]model.Tag, error)
	AttachTag(ctx context.Context, articleID int64, raw string) ([]model.Tag, error)
	DetachTag(ctx context.Context, articleID int64, name string) ([]model.Tag, error)

	CreateHighlight(ctx context.Context, articleID int64, text string, color model.Color) (model.Highlight, error)
	UpdateHighlight(ctx context.Context, articleID, id int64, upd model.HighlightUpdate) (model.Highlight, error)
	DeleteHighlight(ctx context.Context, articleID, id int64) error
}

var _ Service = (*service.ContentService)(nil)
