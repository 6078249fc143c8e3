package ui

import (
	"fmt"
	"html"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/ui/operations"
)

// openHighlights shows the panel listing the open article's highlights
func (m Model) openHighlights() (Model, tea.Cmd) {
	if !m.reader.Ok() {
		cmd := m.commandMode.SetError("Open an article first")
		return m, cmd
	}
	if len(m.reader.Data.Highlights) == 0 {
		cmd := m.setStatus("No highlights yet. Press v to select text.")
		return m, cmd
	}
	m.mode = modeHighlights
	m.highlightCursor = 0
	return m, nil
}

// nextColor cycles through the palette
func nextColor(c model.Color) model.Color {
	for i, candidate := range model.Colors {
		if candidate == c {
			return model.Colors[(i+1)%len(model.Colors)]
		}
	}
	return model.Colors[0]
}

func (m Model) updateHighlights(msg tea.KeyMsg) (Model, tea.Cmd) {
	hs := m.reader.Data.Highlights
	switch msg.String() {
	case "j", "down":
		if m.highlightCursor < len(hs)-1 {
			m.highlightCursor++
		}
	case "k", "up":
		if m.highlightCursor > 0 {
			m.highlightCursor--
		}
	case "d", "x":
		if m.highlightCursor < len(hs) {
			return m, operations.DeleteHighlight(m.ctx, m.svc, m.reader.Data.Article.ID, hs[m.highlightCursor].ID)
		}
	case "c":
		if m.highlightCursor < len(hs) {
			h := hs[m.highlightCursor]
			return m, operations.RecolorHighlight(m.ctx, m.svc, m.reader.Data.Article.ID, h.ID, nextColor(h.Color))
		}
	case "esc", "q", "H":
		m.mode = modeNormal
	}
	return m, nil
}

func (m Model) renderHighlights(width, height int) string {
	styles := m.theme.Styles()
	hs := m.reader.Data.Highlights

	lines := []string{
		styles.Title.Render(fmt.Sprintf("HIGHLIGHTS (%d)", len(hs))) +
			styles.Muted.Render("  c recolor · d delete · esc close"),
		"",
	}
	if len(hs) == 0 {
		lines = append(lines, styles.Muted.Render("No highlights"))
		return strings.Join(lines, "\n")
	}

	for i, h := range hs {
		prefix := "  "
		if i == m.highlightCursor {
			prefix = styles.Selected.Render("▶ ")
		}
		swatch := m.theme.MarkStyle(h.Color).Render(" " + string(h.Color) + " ")
		text := highlightText(h.Text)
		lines = append(lines, prefix+swatch+" "+styles.Text.Render(truncate(text, max(width-len(h.Color)-6, 4))))
		if h.Note != nil && *h.Note != "" {
			lines = append(lines, "    "+styles.Dimmed.Render(truncate(*h.Note, max(width-4, 4))))
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// highlightText is the stored substring as a reader sees it
func highlightText(stored string) string {
	return strings.Join(strings.Fields(html.UnescapeString(stored)), " ")
}
