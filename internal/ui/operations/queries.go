package operations

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/query"
	"github.com/krepsys/tui/internal/service"
)

// FeedsLoadedMsg carries the feed list
type FeedsLoadedMsg struct {
	Result query.Result[[]model.Feed]
}

// ArticlesLoadedMsg carries one article list response. Token identifies
// the request inside its slot; superseded responses must be dropped.
type ArticlesLoadedMsg struct {
	Token  uint64
	Key    string
	Result query.Result[[]model.Article]
}

// ReaderLoadedMsg carries an article with its highlights
type ReaderLoadedMsg struct {
	Token  uint64
	ID     int64
	Result query.Result[service.Reader]
}

// TagsLoadedMsg carries the global tag vocabulary
type TagsLoadedMsg struct {
	Tags []model.Tag
	Err  error
}

// LoadFeeds fetches the sidebar feeds
func LoadFeeds(ctx context.Context, svc Service) tea.Cmd {
	return func() tea.Msg {
		feeds, err := svc.Feeds(ctx)
		return FeedsLoadedMsg{Result: query.From(feeds, err)}
	}
}

// LoadArticles begins a request in slot, cancelling the one it supersedes
func LoadArticles(ctx context.Context, svc Service, slot *query.Slot, f filter.Filter, sort filter.Sort) tea.Cmd {
	reqCtx, token := slot.Begin(ctx)
	key := f.Key() + "|" + string(sort)
	return func() tea.Msg {
		articles, err := svc.Articles(reqCtx, f, sort)
		return ArticlesLoadedMsg{Token: token, Key: key, Result: query.From(articles, err)}
	}
}

// LoadReader begins a reader request in slot
func LoadReader(ctx context.Context, svc Service, slot *query.Slot, id int64) tea.Cmd {
	reqCtx, token := slot.Begin(ctx)
	return func() tea.Msg {
		r, err := svc.LoadReader(reqCtx, id)
		return ReaderLoadedMsg{Token: token, ID: id, Result: query.From(r, err)}
	}
}

// LoadTags fetches the autocomplete vocabulary
func LoadTags(ctx context.Context, svc Service) tea.Cmd {
	return func() tea.Msg {
		tags, err := svc.Tags(ctx)
		return TagsLoadedMsg{Tags: tags, Err: err}
	}
}
