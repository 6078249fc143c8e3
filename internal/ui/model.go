package ui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/export"
	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/highlight"
	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/query"
	"github.com/krepsys/tui/internal/render"
	"github.com/krepsys/tui/internal/service"
	"github.com/krepsys/tui/internal/state"
	"github.com/krepsys/tui/internal/theme"
	"github.com/krepsys/tui/internal/ui/operations"
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusList
	focusReader
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeSelect
	modeTag
	modeNote
	modeHighlights
)

// Options wires the model to its collaborators
type Options struct {
	Service         operations.Service
	Exporter        *export.Exporter
	History         HistoryStore
	Logger          *slog.Logger
	Theme           theme.Theme
	Sort            filter.Sort
	Sanitize        bool
	RefreshInterval time.Duration
	Now             func() time.Time
}

// Model represents the application state for the TUI
type Model struct {
	ctx      context.Context
	svc      operations.Service
	exporter *export.Exporter
	logger   *slog.Logger
	now      func() time.Time

	theme    theme.Theme
	renderer *render.Renderer
	sanitize bool
	width    int
	height   int
	ready    bool

	focus       focusArea
	mode        inputMode
	sel         state.Selection
	sort        filter.Sort
	readTrigger *state.ReadTrigger

	feeds        query.Result[[]model.Feed]
	articles     query.Result[[]model.Article]
	reader       query.Result[service.Reader]
	tags         []model.Tag
	articlesSlot *query.Slot
	readerSlot   *query.Slot

	sidebarCursor int
	listCursor    int
	viewport      viewport.Model
	spinner       spinner.Model

	tagInput        textinput.Model
	noteArea        textarea.Model
	highlightCursor int

	// selection mode
	cursor    highlight.Cursor
	selectTop int
	flow      highlight.Flow

	feedModal   FeedModal
	helpModal   HelpModal
	commandMode CommandMode

	statusMessage   string
	refreshInterval time.Duration
}

// NewModel creates a Model bound to ctx; requests are cancelled with it
func NewModel(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	th := opts.Theme
	if th.Name == "" {
		th = theme.CleanCyber
	}
	sort := opts.Sort
	if sort == "" {
		sort = filter.Newest
	}
	exporter := opts.Exporter
	if exporter == nil {
		exporter = export.New(opts.Sanitize)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	tags := textinput.New()
	tags.Prompt = "tag: "
	tags.Placeholder = "name"
	tags.CharLimit = 64
	tags.ShowSuggestions = true

	note := textarea.New()
	note.Placeholder = "Write a note..."
	note.ShowLineNumbers = false
	note.CharLimit = 0

	return Model{
		ctx:             ctx,
		svc:             opts.Service,
		exporter:        exporter,
		logger:          logger,
		now:             now,
		theme:           th,
		sanitize:        opts.Sanitize,
		focus:           focusSidebar,
		sel:             state.NewSelection(filter.All),
		sort:            sort,
		readTrigger:     &state.ReadTrigger{},
		feeds:           query.Pending[[]model.Feed](),
		articles:        query.Pending[[]model.Article](),
		articlesSlot:    &query.Slot{},
		readerSlot:      &query.Slot{},
		viewport:        viewport.New(80, 20),
		spinner:         sp,
		tagInput:        tags,
		noteArea:        note,
		feedModal:       NewFeedModal(ctx, opts.Service),
		helpModal:       NewHelpModal(),
		commandMode:     NewCommandMode(ctx, opts.History),
		refreshInterval: opts.RefreshInterval,
	}
}

// Init starts the first loads and the timers
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		operations.LoadFeeds(m.ctx, m.svc),
		m.loadArticles(),
		operations.LoadTags(m.ctx, m.svc),
		m.commandMode.LoadHistory(),
		m.spinner.Tick,
	}
	if m.refreshInterval > 0 {
		cmds = append(cmds, autoRefreshCmd(m.refreshInterval))
	}
	return tea.Batch(cmds...)
}

func (m Model) loadArticles() tea.Cmd {
	return operations.LoadArticles(m.ctx, m.svc, m.articlesSlot, m.sel.Filter(), m.sort)
}

// reloadReader refetches the open article, keeping its content on screen
func (m Model) reloadReader() tea.Cmd {
	id, ok := m.sel.Article()
	if !ok {
		return nil
	}
	return operations.LoadReader(m.ctx, m.svc, m.readerSlot, id)
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to load command history", "error", msg.Err)
			return m, nil
		}
		m.commandMode.SetHistory(msg.Entries)
		return m, nil

	case historyAppendedMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to persist command", "error", msg.Err)
		}
		return m, nil

	case clearErrorMsg:
		m.commandMode, cmd = m.commandMode.Update(msg)
		return m, cmd

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}

	// Command mode handles keys first
	if key, ok := msg.(tea.KeyMsg); ok && m.commandMode.IsActive() {
		m.commandMode, cmd = m.commandMode.Update(key)
		return m, cmd
	}

	if m.feedModal.IsVisible() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			m.feedModal, cmd = m.feedModal.Update(msg)
			if !m.feedModal.IsVisible() {
				return m, tea.Batch(cmd, operations.LoadFeeds(m.ctx, m.svc))
			}
			return m, cmd
		case operations.FeedOperationMsg:
			m.feedModal, _ = m.feedModal.Update(msg)
		}
	}

	if key, ok := msg.(tea.KeyMsg); ok && m.helpModal.IsVisible() {
		m.helpModal, cmd = m.helpModal.Update(key)
		return m, cmd
	}

	if next, cmd, handled := m.handleCommand(msg); handled {
		return next, cmd
	}
	if next, cmd, handled := m.handleResult(msg); handled {
		return next, cmd
	}

	switch msg := msg.(type) {
	case autoRefreshMsg:
		return m, m.autoRefresh()
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// setStatus shows message in the status bar for a few seconds
func (m *Model) setStatus(message string) tea.Cmd {
	m.statusMessage = message
	return clearStatusAfterDelay(3 * time.Second)
}

// autoRefresh drops cached feeds and lists, reloads them, and reschedules.
// It skips a beat while the user is editing.
func (m Model) autoRefresh() tea.Cmd {
	next := autoRefreshCmd(m.refreshInterval)
	if m.refreshInterval <= 0 {
		next = nil
	}
	if m.mode == modeSelect || m.mode == modeNote || m.mode == modeTag || m.feedModal.IsVisible() {
		return next
	}
	m.svc.Refresh()
	return tea.Batch(operations.LoadFeeds(m.ctx, m.svc), m.loadArticles(), next)
}

// resize lays the panes out again and rebuilds the renderer for the new width
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true

	l := m.layout()
	m.viewport.Width = l.textWidth
	m.viewport.Height = l.textHeight
	m.noteArea.SetWidth(l.textWidth)
	m.noteArea.SetHeight(max(l.textHeight-2, 3))
	m.tagInput.Width = max(width-12, 10)

	m.feedModal.SetSize(width, height)
	m.helpModal.SetSize(width, height)
	m.commandMode.SetWidth(width)
	m.rebuildRenderer()
}

// rebuildRenderer recreates the article renderer for the current theme and width
func (m *Model) rebuildRenderer() {
	width := m.layout().textWidth
	if m.renderer != nil && m.renderer.Width() == max(width, 20) && m.renderer.Theme().Name == m.theme.Name {
		m.refreshReader(false)
		return
	}
	r, err := render.New(m.theme, width, m.sanitize)
	if err != nil {
		m.logger.Error("failed to build renderer", "error", err)
		m.renderer = nil
	} else {
		m.renderer = r
	}
	m.refreshReader(false)
	if m.mode == modeSelect {
		m.relayoutSelection()
	}
}

// currentArticle is the article actions apply to: the open one in the
// reader, otherwise the one under the list cursor
func (m Model) currentArticle() (model.Article, bool) {
	if m.focus != focusList && m.reader.Ok() {
		return m.reader.Data.Article, true
	}
	if a, ok := m.listArticle(); ok {
		return a, true
	}
	if m.reader.Ok() {
		return m.reader.Data.Article, true
	}
	return model.Article{}, false
}

// openArticle is the reader entry point: it selects id and loads it.
// Mark-as-read fires from the load result, once per id.
func (m Model) openArticle(id int64) (Model, tea.Cmd) {
	m.sel = m.sel.ChooseArticle(id)
	m.readTrigger.Select(id)
	m.reader = query.Pending[service.Reader]()
	m.mode = modeNormal
	m.flow = m.flow.Dismiss()
	m.focus = focusReader
	m.viewport.GotoTop()
	return m, operations.LoadReader(m.ctx, m.svc, m.readerSlot, id)
}

// applySelection reloads articles after the filter or feed changed. The
// article selection was cleared by the transition.
func (m Model) applySelection(next state.Selection) (Model, tea.Cmd) {
	m.sel = next
	m.readerSlot.Cancel()
	m.readTrigger.Reset()
	m.reader = query.Result[service.Reader]{}
	m.mode = modeNormal
	m.flow = m.flow.Dismiss()
	m.listCursor = 0
	m.articles = query.Pending[[]model.Article]()
	m.viewport.SetContent("")
	return m, m.loadArticles()
}
