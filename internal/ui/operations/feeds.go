package operations

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// FeedOperationMsg is the result of any feed mutation. On failure Message
// is the error text as the server sent it.
type FeedOperationMsg struct {
	Message string
	Success bool
	Error   error
}

func feedResult(success string, err error) FeedOperationMsg {
	if err != nil {
		return FeedOperationMsg{Message: err.Error(), Error: err}
	}
	return FeedOperationMsg{Message: success, Success: true}
}

// AddFeed subscribes to url; an empty name lets the service default it
func AddFeed(ctx context.Context, svc Service, url, name string) tea.Cmd {
	return func() tea.Msg {
		feed, err := svc.CreateFeed(ctx, url, name)
		return feedResult(fmt.Sprintf("✓ Added feed: %s", feed.Name), err)
	}
}

// RemoveFeed deletes a feed and its articles
func RemoveFeed(ctx context.Context, svc Service, id int64, name string) tea.Cmd {
	return func() tea.Msg {
		err := svc.DeleteFeed(ctx, id)
		if name == "" {
			name = fmt.Sprintf("#%d", id)
		}
		return feedResult(fmt.Sprintf("✓ Removed feed: %s", name), err)
	}
}

// RenameFeed changes a feed's display name
func RenameFeed(ctx context.Context, svc Service, id int64, name string) tea.Cmd {
	return func() tea.Msg {
		feed, err := svc.RenameFeed(ctx, id, name)
		return feedResult(fmt.Sprintf("✓ Renamed feed: %s", feed.Name), err)
	}
}

// FetchFeed asks the server to fetch a feed now
func FetchFeed(ctx context.Context, svc Service, id int64) tea.Cmd {
	return func() tea.Msg {
		err := svc.RefreshFeed(ctx, id)
		return feedResult(fmt.Sprintf("✓ Fetch scheduled for feed #%d", id), err)
	}
}
