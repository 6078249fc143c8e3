package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/krepsys/tui/internal/api"
	"github.com/krepsys/tui/internal/config"
	"github.com/krepsys/tui/internal/db"
	"github.com/krepsys/tui/internal/export"
	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/logging"
	"github.com/krepsys/tui/internal/output"
	"github.com/krepsys/tui/internal/query"
	"github.com/krepsys/tui/internal/service"
	"github.com/krepsys/tui/internal/theme"
	"github.com/krepsys/tui/internal/ui"
)

// app is the state shared by every subcommand, filled in by load
type app struct {
	cfgFile string
	apiURL  string

	cfg     *config.Config
	logger  *slog.Logger
	logFile io.Closer
	svc     *service.ContentService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "krepsys",
		Short: "Terminal reader for a Krepsys server",
		Long: `krepsys reads the feeds, articles and highlights kept by a Krepsys server.

Without a subcommand it starts the interactive reader.

Example usage:
  krepsys                      # Start the TUI
  krepsys feeds                # List subscribed feeds
  krepsys feeds add URL        # Subscribe to a feed
  krepsys articles --unread    # Table of unread articles
  krepsys show 42              # Print an article with its highlights
  krepsys export 42 --dir out  # Write an article as markdown`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: a.runTUI,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/krepsys/config.toml)")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "server base URL, overrides [api].base_url and "+config.EnvAPIURL)

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Start the interactive reader",
			Args:  cobra.NoArgs,
			RunE:  a.runTUI,
		},
		newFeedsCmd(a),
		newArticlesCmd(a),
		newTagsCmd(a),
		newShowCmd(a),
		newExportCmd(a),
	)
	return root
}

// load reads the config, opens the log file and wires the data layer
func (a *app) load() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	a.cfg = cfg

	logger, closer, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger, a.logFile = logger, closer
	a.logger.Debug("configuration loaded",
		"config", path,
		"base_url", cfg.API.BaseURL,
		"theme", cfg.TUI.Theme,
	)

	client, err := api.NewClientFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	cache, err := query.NewCache(cfg.Cache.MaxEntries, query.DefaultGraph, logger)
	if err != nil {
		return err
	}
	a.svc = service.New(client, cache, logger)
	return nil
}

func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func (a *app) printer(cmd *cobra.Command) *output.Printer {
	return output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.UseColors())
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	th, ok := theme.ByName(cfg.TUI.Theme)
	if !ok {
		a.logger.Warn("unknown theme, using default", "theme", cfg.TUI.Theme)
	}
	sort, err := filter.ParseSort(cfg.TUI.Sort)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := ui.Options{
		Service:         a.svc,
		Exporter:        export.New(cfg.TUI.Sanitize),
		Logger:          a.logger,
		Theme:           th,
		Sort:            sort,
		Sanitize:        cfg.TUI.Sanitize,
		RefreshInterval: time.Duration(cfg.TUI.RefreshInterval) * time.Second,
	}

	if cfg.History.Enabled {
		history, err := db.OpenHistory(cfg.History.Path)
		if err != nil {
			// The reader still works without persisted history
			a.logger.Warn("command history unavailable", "path", cfg.History.Path, "error", err)
		} else {
			defer history.Close()
			opts.History = history
		}
	}

	program := tea.NewProgram(ui.NewModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
