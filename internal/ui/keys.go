package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/commands"
)

// handleKey routes a key press by input mode, then by focused pane
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeTag:
		return m.updateTagInput(msg)
	case modeNote:
		return m.updateNoteEditor(msg)
	case modeSelect:
		return m.updateSelect(msg)
	case modeHighlights:
		return m.updateHighlights(msg)
	}

	switch msg.String() {
	case "q":
		if m.focus == focusReader {
			m.focus = focusList
			return m, nil
		}
		return m, tea.Quit
	case ":":
		m.commandMode.Show()
		return m, nil
	case "?":
		next, cmd, _ := m.handleCommand(commands.HelpMsg{})
		return next, cmd
	case "F":
		m.feedModal.SetSize(m.width, m.height)
		m.feedModal.Open(m.feeds.Data)
		return m, nil
	case "tab":
		m.focus = (m.focus + 1) % 3
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		return m, nil
	case "r":
		next, cmd, _ := m.handleCommand(commands.RefreshMsg{})
		return next, cmd
	case "O":
		next, cmd, _ := m.handleCommand(commands.SortMsg{Toggle: true})
		return next, cmd
	case "s":
		next, cmd, _ := m.handleCommand(commands.SaveMsg{})
		return next, cmd
	case "a":
		next, cmd, _ := m.handleCommand(commands.ArchiveMsg{})
		return next, cmd
	case "o":
		next, cmd, _ := m.handleCommand(commands.OpenMsg{})
		return next, cmd
	case "y":
		next, cmd, _ := m.handleCommand(commands.YankMsg{})
		return next, cmd
	case "t":
		next, cmd, _ := m.handleCommand(commands.TagMsg{})
		return next, cmd
	case "T":
		if !m.reader.Ok() {
			cmd := m.commandMode.SetError("Open an article first")
			return m, cmd
		}
		m.commandMode.ShowWith("untag ")
		return m, nil
	case "n":
		next, cmd, _ := m.handleCommand(commands.NoteMsg{})
		return next, cmd
	case "v":
		return m.enterSelect()
	case "H":
		return m.openHighlights()
	case "e":
		next, cmd, _ := m.handleCommand(commands.ExportMsg{Dir: "."})
		return next, cmd
	}

	switch m.focus {
	case focusSidebar:
		return m.sidebarKey(msg)
	case focusList:
		return m.listKey(msg)
	}
	return m.readerKey(msg)
}

func (m Model) sidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.sidebarCursor < m.sidebarLen()-1 {
			m.sidebarCursor++
		}
	case "k", "up":
		if m.sidebarCursor > 0 {
			m.sidebarCursor--
		}
	case "g", "home":
		m.sidebarCursor = 0
	case "G", "end":
		m.sidebarCursor = max(m.sidebarLen()-1, 0)
	case "enter", "l", "right":
		return m.chooseSidebar()
	}
	return m, nil
}

func (m Model) listKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	count := len(m.articles.Data)
	switch msg.String() {
	case "j", "down":
		if m.listCursor < count-1 {
			m.listCursor++
		}
	case "k", "up":
		if m.listCursor > 0 {
			m.listCursor--
		}
	case "g", "home":
		m.listCursor = 0
	case "G", "end":
		m.listCursor = max(count-1, 0)
	case "h", "left", "esc":
		m.focus = focusSidebar
	case "enter", "l", "right":
		if a, ok := m.listArticle(); ok {
			return m.openArticle(a.ID)
		}
	}
	return m, nil
}

func (m Model) readerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "h", "left":
		m.focus = focusList
		return m, nil
	case "g", "home":
		m.viewport.GotoTop()
		return m, nil
	case "G", "end":
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleMouse scrolls the pane under the pointer. In selection mode the
// reader text takes press, drag and release.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeSelect {
		return m.selectMouse(msg)
	}

	l := m.layout()
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown
	switch {
	case msg.X < l.sidebarWidth:
		if wheel {
			return m.sidebarKey(wheelKey(msg))
		}
	case msg.X < l.sidebarWidth+l.listWidth:
		if wheel {
			return m.listKey(wheelKey(msg))
		}
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			return m.clickList(msg.Y)
		}
	default:
		if wheel {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.focus = focusReader
		}
	}
	return m, nil
}

func wheelKey(msg tea.MouseMsg) tea.KeyMsg {
	if msg.Button == tea.MouseButtonWheelUp {
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyDown}
}

// clickList opens the article drawn at screen row y
func (m Model) clickList(y int) (Model, tea.Cmd) {
	// header line, top border, title and blank line
	row := y - 4
	if row < 0 || !m.articles.Ok() {
		return m, nil
	}
	visible := max((m.layout().paneHeight-4)/2, 1)
	start := 0
	if m.listCursor >= visible {
		start = m.listCursor - visible + 1
	}
	idx := start + row/2
	if idx >= len(m.articles.Data) {
		return m, nil
	}
	m.focus = focusList
	m.listCursor = idx
	return m.openArticle(m.articles.Data[idx].ID)
}
