package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
)

// CommandFunc is a function that executes a command
type CommandFunc func(args []string) tea.Cmd

// Registry holds all available commands
type Registry struct {
	commands map[string]CommandFunc
}

// NewRegistry creates a new command registry with built-in commands
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]CommandFunc),
	}

	// vim-style: full names only, prefixes resolve in Execute
	r.Register("quit", cmdQuit)
	r.Register("refresh", cmdRefresh)
	r.Register("help", cmdHelp)
	r.Register("filter", cmdFilter)
	r.Register("feed", cmdFeed)
	r.Register("sort", cmdSort)
	r.Register("theme", cmdTheme)

	// Feed management
	r.Register("add", cmdAdd)
	r.Register("remove", cmdRemove)
	r.Register("rename", cmdRename)
	r.Register("fetch", cmdFetch)

	// Reader actions on the open article
	r.Register("save", cmdSave)
	r.Register("archive", cmdArchive)
	r.Register("tag", cmdTag)
	r.Register("untag", cmdUntag)
	r.Register("note", cmdNote)
	r.Register("highlight", cmdHighlight)
	r.Register("unhighlight", cmdUnhighlight)
	r.Register("open", cmdOpen)
	r.Register("yank", cmdYank)
	r.Register("export", cmdExport)

	return r
}

// Register adds a command to the registry
func (r *Registry) Register(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Execute runs a command by name with arguments
func (r *Registry) Execute(name string, args []string) tea.Cmd {
	if fn, ok := r.commands[name]; ok {
		return fn(args)
	}

	var matches []string
	var matchedFn CommandFunc
	lowerName := strings.ToLower(name)

	for cmdName, fn := range r.commands {
		if strings.HasPrefix(strings.ToLower(cmdName), lowerName) {
			matches = append(matches, cmdName)
			matchedFn = fn
		}
	}

	if len(matches) == 1 {
		return matchedFn(args)
	}

	if len(matches) > 1 {
		sort.Strings(matches)
		return showError(fmt.Sprintf("Ambiguous command '%s': %s", name, strings.Join(matches, ", ")))
	}

	return showError(fmt.Sprintf("Unknown command: %s", name))
}

// Run parses a full command line ("tag go") and executes it
func (r *Registry) Run(line string) tea.Cmd {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	return r.Execute(parts[0], parts[1:])
}

// GetCommands returns all registered command names, sorted
func (r *Registry) GetCommands() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Complete returns command names starting with prefix
func (r *Registry) Complete(prefix string) []string {
	var out []string
	for _, name := range r.GetCommands() {
		if strings.HasPrefix(name, strings.ToLower(prefix)) {
			out = append(out, name)
		}
	}
	return out
}

func cmdQuit(args []string) tea.Cmd {
	return tea.Quit
}

func cmdRefresh(args []string) tea.Cmd {
	return msg(RefreshMsg{})
}

func cmdHelp(args []string) tea.Cmd {
	return msg(HelpMsg{})
}

// cmdFilter switches to a named filter
func cmdFilter(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Message: "filter: name required (all, unread, saved, archived)"}
		}
		n, ok := filter.Lookup(strings.ToLower(args[0]))
		if !ok {
			return ErrorMsg{Message: fmt.Sprintf("filter: unknown filter '%s' (all, unread, saved, archived)", args[0])}
		}
		return FilterMsg{Named: n}
	}
}

// cmdFeed selects a feed by id
func cmdFeed(args []string) tea.Cmd {
	return func() tea.Msg {
		id, err := requireID("feed", args)
		if err != nil {
			return ErrorMsg{Message: err.Error()}
		}
		return FeedMsg{ID: id}
	}
}

// cmdSort sets the list order, toggling without an argument
func cmdSort(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return SortMsg{Toggle: true}
		}
		s, err := filter.ParseSort(args[0])
		if err != nil {
			return ErrorMsg{Message: fmt.Sprintf("sort: %v", err)}
		}
		return SortMsg{Sort: s}
	}
}

// cmdTheme cycles themes, or picks one by name
func cmdTheme(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ThemeMsg{}
		}
		return ThemeMsg{Name: args[0]}
	}
}

// cmdAdd subscribes to a feed; remaining args form the name
func cmdAdd(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Message: "add: URL required"}
		}
		return AddFeedMsg{URL: args[0], Name: strings.Join(args[1:], " ")}
	}
}

func cmdRemove(args []string) tea.Cmd {
	return func() tea.Msg {
		id, err := requireID("remove", args)
		if err != nil {
			return ErrorMsg{Message: err.Error()}
		}
		return RemoveFeedMsg{ID: id}
	}
}

func cmdRename(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) < 2 {
			return ErrorMsg{Message: "rename: requires feed id and new name"}
		}
		id, err := requireID("rename", args)
		if err != nil {
			return ErrorMsg{Message: err.Error()}
		}
		return RenameFeedMsg{ID: id, Name: strings.Join(args[1:], " ")}
	}
}

// cmdFetch asks the server to refresh a feed; no id means the selected feed
func cmdFetch(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return FetchFeedMsg{}
		}
		id, err := requireID("fetch", args)
		if err != nil {
			return ErrorMsg{Message: err.Error()}
		}
		return FetchFeedMsg{ID: id}
	}
}

func cmdSave(args []string) tea.Cmd {
	return msg(SaveMsg{})
}

func cmdArchive(args []string) tea.Cmd {
	return msg(ArchiveMsg{})
}

func cmdTag(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return TagMsg{}
		}
		return TagMsg{Name: strings.Join(args, " ")}
	}
}

func cmdUntag(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return ErrorMsg{Message: "untag: tag name required"}
		}
		return UntagMsg{Name: strings.Join(args, " ")}
	}
}

// cmdNote opens the note editor, or sets the note directly
func cmdNote(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) == 0 {
			return NoteMsg{}
		}
		text := strings.Join(args, " ")
		return NoteMsg{Text: &text}
	}
}

// cmdHighlight saves a highlight from literal text: highlight <color> <text...>
func cmdHighlight(args []string) tea.Cmd {
	return func() tea.Msg {
		if len(args) < 2 {
			return ErrorMsg{Message: "highlight: requires color and text"}
		}
		c, err := model.ParseColor(strings.ToLower(args[0]))
		if err != nil {
			return ErrorMsg{Message: fmt.Sprintf("highlight: %v", err)}
		}
		return HighlightMsg{Color: c, Text: strings.Join(args[1:], " ")}
	}
}

func cmdUnhighlight(args []string) tea.Cmd {
	return func() tea.Msg {
		id, err := requireID("unhighlight", args)
		if err != nil {
			return ErrorMsg{Message: err.Error()}
		}
		return UnhighlightMsg{ID: id}
	}
}

func cmdOpen(args []string) tea.Cmd {
	return msg(OpenMsg{})
}

func cmdYank(args []string) tea.Cmd {
	return msg(YankMsg{})
}

// cmdExport writes the open article as markdown; default dir is the cwd
func cmdExport(args []string) tea.Cmd {
	return func() tea.Msg {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		return ExportMsg{Dir: dir}
	}
}

func requireID(name string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s: id required", name)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: invalid id '%s'", name, args[0])
	}
	return id, nil
}

func msg(m tea.Msg) tea.Cmd {
	return func() tea.Msg { return m }
}

// showError returns a command that shows an error message
func showError(message string) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Message: message}
	}
}

// Message types for commands

// RefreshMsg signals that feeds and articles should be reloaded
type RefreshMsg struct{}

// ErrorMsg contains an error message to display
type ErrorMsg struct {
	Message string
}

// HelpMsg signals to show the help modal
type HelpMsg struct{}

// FilterMsg selects a named filter
type FilterMsg struct {
	Named filter.Named
}

// FeedMsg selects a feed
type FeedMsg struct {
	ID int64
}

// SortMsg changes the list order
type SortMsg struct {
	Sort   filter.Sort
	Toggle bool
}

// ThemeMsg switches theme; empty Name cycles
type ThemeMsg struct {
	Name string
}

// AddFeedMsg subscribes to a feed
type AddFeedMsg struct {
	URL  string
	Name string
}

// RemoveFeedMsg deletes a feed
type RemoveFeedMsg struct {
	ID int64
}

// RenameFeedMsg renames a feed
type RenameFeedMsg struct {
	ID   int64
	Name string
}

// FetchFeedMsg schedules a server-side fetch; zero ID means the selected feed
type FetchFeedMsg struct {
	ID int64
}

// SaveMsg toggles saved on the open article
type SaveMsg struct{}

// ArchiveMsg toggles archived on the open article
type ArchiveMsg struct{}

// TagMsg attaches a tag; empty Name opens the tag input
type TagMsg struct {
	Name string
}

// UntagMsg detaches a tag by name
type UntagMsg struct {
	Name string
}

// NoteMsg sets the note; nil Text opens the editor
type NoteMsg struct {
	Text *string
}

// HighlightMsg saves a highlight from literal text
type HighlightMsg struct {
	Color model.Color
	Text  string
}

// UnhighlightMsg deletes a highlight by id
type UnhighlightMsg struct {
	ID int64
}

// OpenMsg signals to open URL in browser
type OpenMsg struct{}

// YankMsg signals to copy URL to clipboard
type YankMsg struct{}

// ExportMsg writes the open article as markdown into Dir
type ExportMsg struct {
	Dir string
}
