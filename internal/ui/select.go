package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	rtruncate "github.com/muesli/reflow/truncate"

	"github.com/krepsys/tui/internal/highlight"
	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/ui/operations"
)

// enterSelect shows the article as selectable words
func (m Model) enterSelect() (Model, tea.Cmd) {
	if !m.reader.Ok() {
		return m, nil
	}
	m.mode = modeSelect
	m.flow = m.flow.Dismiss()
	m.cursor = highlight.NewCursor(highlight.LayoutContent(m.reader.Data.Article.Content, m.layout().textWidth))
	m.selectTop = 0
	if len(m.cursor.Layout().Words) == 0 {
		m.mode = modeNormal
		cmd := m.setStatus("Nothing to select in this article")
		return m, cmd
	}
	return m, nil
}

// relayoutSelection rebuilds the layout after the content or width changed,
// keeping the cursor on the same word index
func (m *Model) relayoutSelection() {
	if !m.reader.Ok() {
		m.mode = modeNormal
		return
	}
	pos := m.cursor.Pos()
	m.cursor = highlight.NewCursor(highlight.LayoutContent(m.reader.Data.Article.Content, m.layout().textWidth)).MoveTo(pos)
	m.scrollToCursor()
}

// scrollToCursor keeps the cursor's line inside the visible rows
func (m *Model) scrollToCursor() {
	words := m.cursor.Layout().Words
	if len(words) == 0 {
		return
	}
	line := words[m.cursor.Pos()].Line
	h := m.layout().textHeight
	if line < m.selectTop {
		m.selectTop = line
	}
	if line >= m.selectTop+h {
		m.selectTop = line - h + 1
	}
}

// release is the end of a selection gesture: it opens the picker above a
// non-empty selection and dismisses it otherwise
func (m Model) release() Model {
	text := m.cursor.Text(m.reader.Data.Article.Content)
	rect, _ := m.cursor.Bounds()
	rect.Y -= m.selectTop
	l := m.layout()
	m.flow = m.flow.Release(text, rect, l.textWidth, l.textHeight)
	return m
}

// chooseColor saves the picker's text in color
func (m Model) chooseColor(c model.Color) (Model, tea.Cmd) {
	flow, req, ok := m.flow.Choose(c)
	if !ok {
		return m, nil
	}
	m.flow = flow
	return m, operations.CreateHighlight(m.ctx, m.svc, m.reader.Data.Article.ID, req)
}

var pickerKeys = map[string]model.Color{
	"1": model.Yellow, "2": model.Green, "3": model.Blue, "4": model.Pink,
	"y": model.Yellow, "g": model.Green, "b": model.Blue, "p": model.Pink,
}

func (m Model) updateSelect(msg tea.KeyMsg) (Model, tea.Cmd) {
	if p, open := m.flow.Picker(); open {
		key := msg.String()
		if c, ok := pickerKeys[key]; ok {
			return m.chooseColor(c)
		}
		switch key {
		case "tab", "l", "right":
			m.flow = m.flow.Cycle(1)
		case "shift+tab", "h", "left":
			m.flow = m.flow.Cycle(-1)
		case "enter":
			return m.chooseColor(p.Color())
		case "esc":
			m.flow = m.flow.Dismiss()
		}
		return m, nil
	}

	switch msg.String() {
	case "h", "left":
		m.cursor = m.cursor.Move(-1)
	case "l", "right":
		m.cursor = m.cursor.Move(1)
	case "j", "down":
		m.cursor = m.cursor.MoveLine(1)
	case "k", "up":
		m.cursor = m.cursor.MoveLine(-1)
	case "0", "home":
		m.cursor = m.cursor.MoveTo(0)
	case "G", "end":
		m.cursor = m.cursor.MoveTo(len(m.cursor.Layout().Words) - 1)
	case "v", " ":
		m.cursor = m.cursor.ToggleAnchor()
	case "enter":
		return m.release(), nil
	case "esc", "q":
		if m.cursor.Anchored() {
			m.cursor = m.cursor.Clear()
			return m, nil
		}
		m.mode = modeNormal
		return m, nil
	}
	m.scrollToCursor()
	return m, nil
}

// selectMouse maps a mouse gesture in the reader text area to the cursor.
// Press anchors, motion extends, release opens or dismisses the picker.
func (m Model) selectMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	l := m.layout()
	col, row := msg.X-l.readerX, msg.Y-l.readerY
	if col < 0 || row < 0 || col >= l.textWidth || row >= l.textHeight {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonWheelUp {
			m.selectTop = max(m.selectTop-3, 0)
			return m, nil
		}
		if msg.Button == tea.MouseButtonWheelDown {
			m.selectTop = min(m.selectTop+3, max(m.cursor.Layout().Lines-l.textHeight, 0))
			return m, nil
		}
		if msg.Button != tea.MouseButtonLeft || m.flow.Open() {
			return m, nil
		}
		if i, ok := m.cursor.Layout().WordAt(row+m.selectTop, col); ok {
			m.cursor = m.cursor.Clear().MoveTo(i).ToggleAnchor()
		}
	case tea.MouseActionMotion:
		if m.cursor.Anchored() {
			if i, ok := m.cursor.Layout().WordAt(row+m.selectTop, col); ok {
				m.cursor = m.cursor.MoveTo(i)
			}
		}
	case tea.MouseActionRelease:
		if m.flow.Open() {
			return m, nil
		}
		return m.release(), nil
	}
	return m, nil
}

// renderSelection draws the visible layout lines with the selection,
// stored highlights and the cursor word styled, then the picker on top
func (m Model) renderSelection(width, height int) string {
	styles := m.theme.Styles()
	content := m.reader.Data.Article.Content
	spans := highlight.Spans(content, m.reader.Data.Highlights)
	layout := m.cursor.Layout()

	rows := make([]strings.Builder, height)
	cols := make([]int, height)
	for i, w := range layout.Words {
		row := w.Line - m.selectTop
		if row < 0 {
			continue
		}
		if row >= height {
			break
		}
		if gap := w.Col - cols[row]; gap > 0 {
			rows[row].WriteString(strings.Repeat(" ", gap))
		}

		style := styles.Text
		for _, s := range spans {
			if w.Start < s.End && w.End > s.Start {
				style = m.theme.MarkStyle(s.Color)
				break
			}
		}
		if m.cursor.Selected(i) {
			style = styles.Selected.Reverse(true)
		}
		if i == m.cursor.Pos() {
			style = style.Underline(true)
		}
		rows[row].WriteString(style.Render(w.Display))
		cols[row] = w.Col + w.Width
	}

	lines := make([]string, height)
	for i := range rows {
		lines[i] = rows[i].String()
	}

	if p, open := m.flow.Picker(); open {
		box := strings.Split(m.renderPicker(p), "\n")
		for i, boxLine := range box {
			y := p.At.Y + i
			if y < 0 || y >= len(lines) {
				continue
			}
			left := rtruncate.String(lines[y], uint(p.At.X))
			if pad := p.At.X - lipgloss.Width(left); pad > 0 {
				left += strings.Repeat(" ", pad)
			}
			lines[y] = left + boxLine
		}
	}

	hint := "h/l j/k move · v select · enter pick color · esc back"
	if m.flow.Open() {
		hint = "1-4 or y/g/b/p save · tab cycle · esc dismiss"
	}
	if m.flow.Saving() {
		hint = "saving highlight..."
	}
	if len(lines) > 0 {
		lines[height-1] = styles.Muted.Render(rtruncate.StringWithTail(hint, uint(width), "…"))
	}
	return strings.Join(lines, "\n")
}

// renderPicker draws the color popup, the cursor color bracketed
func (m Model) renderPicker(p highlight.Picker) string {
	var swatches []string
	for i, c := range model.Colors {
		label := " " + string(c[0]) + " "
		if i == p.Index {
			label = "[" + string(c[0]) + "]"
		}
		swatches = append(swatches, m.theme.MarkStyle(c).Render(label))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Accent).
		Width(highlight.PickerWidth - 2).
		Align(lipgloss.Center)
	return box.Render(strings.Join(swatches, " "))
}
