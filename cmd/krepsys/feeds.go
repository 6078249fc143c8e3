package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/krepsys/tui/internal/output"
)

func newFeedsCmd(a *app) *cobra.Command {
	feeds := &cobra.Command{
		Use:   "feeds",
		Short: "List and manage subscribed feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.svc.Feeds(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			if len(list) == 0 {
				p.Print("No feeds yet. Add one with: krepsys feeds add <url>")
				return nil
			}
			return output.Feeds(p, list)
		},
	}

	add := &cobra.Command{
		Use:   "add <url>",
		Short: "Subscribe to a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			feed, err := a.svc.CreateFeed(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			a.printer(cmd).Success("Added feed: %s (id %d)", feed.Name, feed.ID)
			return nil
		},
	}
	add.Flags().String("name", "", "display name (default is the feed URL)")

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Unsubscribe from a feed and drop its articles",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("feed", args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteFeed(cmd.Context(), id); err != nil {
				return err
			}
			a.printer(cmd).Success("Removed feed %d", id)
			return nil
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh <id>",
		Short: "Ask the server to fetch a feed now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("feed", args[0])
			if err != nil {
				return err
			}
			if err := a.svc.RefreshFeed(cmd.Context(), id); err != nil {
				return err
			}
			a.printer(cmd).Success("Fetch scheduled for feed %d", id)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("feed", args[0])
			if err != nil {
				return err
			}
			feed, err := a.svc.Feed(cmd.Context(), id)
			if err != nil {
				return err
			}
			return output.FeedDetail(a.printer(cmd), feed)
		},
	}

	feeds.AddCommand(add, rm, refresh, show)
	return feeds
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}
