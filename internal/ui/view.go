package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// layout is the pane geometry for the current terminal size. Pane widths
// include borders; text* is the reader's inner text area.
type layout struct {
	width, height int

	sidebarWidth int
	listWidth    int
	readerWidth  int
	paneHeight   int

	textWidth  int
	textHeight int
	// readerX/readerY are the screen cell of the reader text origin
	readerX int
	readerY int
}

func (m Model) layout() layout {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	l := layout{width: w, height: h}
	// header line and status line
	l.paneHeight = max(h-2, 5)
	l.sidebarWidth = max(22, w/5)
	l.listWidth = max(w*35/100, 24)
	l.readerWidth = max(w-l.sidebarWidth-l.listWidth, 14)

	l.textWidth = l.readerWidth - 4
	l.textHeight = max(l.paneHeight-2, 1)
	l.readerX = l.sidebarWidth + l.listWidth + 2
	l.readerY = 2
	return l
}

// View renders the current state of the model
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	l := m.layout()

	header := m.theme.Header(m.headerText(l.width), l.width)

	pane := func(content string, width int, focused bool) string {
		return m.theme.BorderStyle(focused).
			Width(width - 2).
			Height(l.paneHeight - 2).
			MaxHeight(l.paneHeight).
			Render(content)
	}
	inner := l.paneHeight - 2
	sidebar := pane(m.renderSidebar(l.sidebarWidth-2, inner), l.sidebarWidth, m.focus == focusSidebar)
	list := pane(m.renderList(l.listWidth-2, inner), l.listWidth, m.focus == focusList)
	reader := m.theme.BorderStyle(m.focus == focusReader).
		Width(l.readerWidth - 2).
		Height(inner).
		MaxHeight(l.paneHeight).
		Padding(0, 1).
		Render(m.renderReader(l.textWidth, l.textHeight))

	panes := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, list, reader)

	bottom := m.statusBar(l.width)
	if m.commandMode.IsActive() {
		bottom = m.commandMode.View(m.theme)
	}
	view := lipgloss.JoinVertical(lipgloss.Left, header, panes, lipgloss.NewStyle().MaxWidth(l.width).Render(bottom))

	if m.feedModal.IsVisible() {
		return m.feedModal.ViewWithOverlay(view, l.width, l.height, m.theme)
	}
	if m.helpModal.IsVisible() {
		return m.helpModal.ViewWithOverlay(view, l.width, l.height, m.theme)
	}
	return view
}

func (m Model) headerText(width int) string {
	left := " KREPSYS · " + m.selectionLabel()
	right := fmt.Sprintf("sort: %s · %s ", m.sort, m.now().Format("15:04"))
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// statusBar shows the tag input, a transient message, a highlight error,
// or the key hints for the focused pane
func (m Model) statusBar(width int) string {
	styles := m.theme.Styles()
	switch {
	case m.mode == modeTag:
		return styles.Title.Render("tag ") + m.tagInput.View()
	case m.statusMessage != "":
		style := styles.Success
		if strings.HasPrefix(m.statusMessage, "✗") {
			style = styles.Error
		}
		return style.Render(truncate(m.statusMessage, width))
	case m.flow.Err() != "":
		return styles.Error.Render(truncate("✗ "+m.flow.Err(), width))
	}
	return styles.Muted.Render(truncate(m.hints(), width))
}

func (m Model) hints() string {
	switch m.mode {
	case modeSelect:
		return "selecting · enter pick color · esc back"
	case modeHighlights:
		return "j/k move · c recolor · d delete · esc close"
	case modeNote:
		return "ctrl+s save note · esc cancel"
	}
	switch m.focus {
	case focusSidebar:
		return "j/k move · enter choose · tab next pane · F feeds · : command · ? help · q quit"
	case focusList:
		return "j/k move · enter read · s save · a archive · o open · O sort · r refresh · ? help"
	}
	return "j/k scroll · v select text · H highlights · t tag · n note · y yank · esc back"
}
