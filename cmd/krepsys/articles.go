package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/krepsys/tui/internal/export"
	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/output"
	"github.com/krepsys/tui/internal/render"
	"github.com/krepsys/tui/internal/theme"
)

func newArticlesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Table of articles",
		Long: `List articles, newest first unless --sort oldest is given.

Examples:
  krepsys articles                 # Everything
  krepsys articles --unread        # Unread and not archived
  krepsys articles --feed 3 --saved`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := articleFilter(cmd)
			if err != nil {
				return err
			}
			sortFlag, _ := cmd.Flags().GetString("sort")
			sort, err := filter.ParseSort(sortFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			list, err := a.svc.Articles(ctx, f, sort)
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			if len(list) == 0 {
				p.Print("No articles")
				return nil
			}
			feeds, err := a.svc.Feeds(ctx)
			if err != nil {
				return err
			}
			return output.Articles(p, list, feeds)
		},
	}
	cmd.Flags().Int64("feed", 0, "only articles from this feed id")
	cmd.Flags().Bool("unread", false, "unread, not archived")
	cmd.Flags().Bool("saved", false, "saved articles")
	cmd.Flags().Bool("archived", false, "archived articles")
	cmd.Flags().String("sort", "newest", "newest or oldest")
	cmd.MarkFlagsMutuallyExclusive("unread", "saved", "archived")
	return cmd
}

// articleFilter maps the flags onto a named filter, optionally scoped to a feed
func articleFilter(cmd *cobra.Command) (filter.Filter, error) {
	named := filter.All
	for _, n := range []filter.Named{filter.Unread, filter.Saved, filter.Archived} {
		if on, _ := cmd.Flags().GetBool(n.ID); on {
			named = n
		}
	}
	f := named.Filter
	feedID, _ := cmd.Flags().GetInt64("feed")
	if cmd.Flags().Changed("feed") {
		if feedID <= 0 {
			return filter.Filter{}, fmt.Errorf("invalid feed id %d", feedID)
		}
		f = f.WithFeed(feedID)
	}
	return f, nil
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.svc.Tags(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer(cmd)
			if len(tags) == 0 {
				p.Print("No tags")
				return nil
			}
			return output.Tags(p, tags)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <article-id>",
		Short: "Print an article with its highlights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("article", args[0])
			if err != nil {
				return err
			}
			reader, err := a.svc.LoadReader(cmd.Context(), id)
			if err != nil {
				return err
			}

			width, _ := cmd.Flags().GetInt("width")
			th, _ := theme.ByName(a.cfg.TUI.Theme)
			r, err := render.New(th, width, a.cfg.TUI.Sanitize)
			if err != nil {
				return err
			}
			body, err := r.Article(reader.Article, reader.Highlights)
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			p.Header(reader.Article.Title)
			p.Print("%s", reader.Article.URL)
			p.Print("%s", body)
			return nil
		},
	}
	cmd.Flags().Int("width", 80, "wrap width")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <article-id>",
		Short: "Write an article and its highlights as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("article", args[0])
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				if dir, err = os.Getwd(); err != nil {
					return err
				}
			}
			reader, err := a.svc.LoadReader(cmd.Context(), id)
			if err != nil {
				return err
			}
			path, err := export.New(a.cfg.TUI.Sanitize).Write(dir, reader.Article, reader.Highlights)
			if err != nil {
				return err
			}
			a.printer(cmd).Success("Exported to %s", path)
			return nil
		},
	}
	cmd.Flags().String("dir", "", "output directory (default is the current directory)")
	return cmd
}
