package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krepsys/tui/internal/theme"
)

// HelpModal represents the help/keyboard shortcuts modal
type HelpModal struct {
	Modal
}

type helpEntry struct {
	key, desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"NAVIGATION", []helpEntry{
		{"tab / shift+tab", "cycle focus: sidebar, list, reader"},
		{"j / k", "move or scroll"},
		{"enter", "choose filter, feed or article"},
		{"g / G", "top / bottom of list"},
		{"esc", "back to the list"},
	}},
	{"ARTICLE", []helpEntry{
		{"s", "toggle saved"},
		{"a", "toggle archived"},
		{"o", "open original in browser"},
		{"y", "copy URL"},
		{"t / T", "add tag / remove tag"},
		{"n", "edit note (ctrl+s save, esc cancel)"},
		{"v", "select text to highlight"},
		{"H", "highlights (d delete, c recolor)"},
		{"e", "export as markdown"},
	}},
	{"SELECTION", []helpEntry{
		{"h / l, j / k", "move word / line"},
		{"v", "start or drop the selection"},
		{"enter", "open color picker"},
		{"1-4, y g b p", "save highlight in color"},
		{"esc", "dismiss picker / leave selection"},
	}},
	{"GENERAL", []helpEntry{
		{"F", "manage feeds"},
		{"O", "toggle sort order"},
		{"r", "refresh"},
		{":", "command mode (tab completes)"},
		{"?", "this help"},
		{"q", "quit"},
	}},
}

// NewHelpModal creates a new HelpModal instance
func NewHelpModal() HelpModal {
	return HelpModal{Modal: NewModal("KEYBOARD SHORTCUTS", 70, 30)}
}

// SetSize updates the modal size based on terminal dimensions
func (m *HelpModal) SetSize(width, height int) {
	m.width = min(max(int(float64(width)*0.75), 50), max(width-4, 10))
	m.height = max(height-8, 10)
}

// Update handles input for the help modal
func (m HelpModal) Update(msg tea.Msg) (HelpModal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			m.Hide()
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// ViewWithOverlay draws the shortcut table centered over background
func (m HelpModal) ViewWithOverlay(background string, width, height int, th theme.Theme) string {
	m.SetContent(m.body(th))
	return m.Modal.ViewWithOverlay(background, width, height, th)
}

func (m HelpModal) body(th theme.Theme) string {
	styles := th.Styles()
	keyStyle := lipgloss.NewStyle().Foreground(th.Meta).Bold(true).Width(18)

	var b strings.Builder
	b.WriteString(styles.Muted.Italic(true).Render("Commands: press : and tab to list them"))
	b.WriteString("\n\n")
	for i, s := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.Title.Render("▸ " + s.title))
		b.WriteString("\n")
		for _, e := range s.entries {
			b.WriteString("  " + keyStyle.Render(e.key) + styles.Text.Render(e.desc) + "\n")
		}
	}
	return b.String()
}
