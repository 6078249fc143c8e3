package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/krepsys/tui/internal/theme"
)

// Modal represents a generic modal overlay component
type Modal struct {
	title   string
	width   int
	height  int
	content string
	visible bool
}

// NewModal creates a new Modal instance
func NewModal(title string, width, height int) Modal {
	return Modal{
		title:  title,
		width:  width,
		height: height,
	}
}

// Show makes the modal visible
func (m *Modal) Show() {
	m.visible = true
}

// Hide makes the modal invisible
func (m *Modal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is currently visible
func (m Modal) IsVisible() bool {
	return m.visible
}

// SetContent updates the modal content
func (m *Modal) SetContent(content string) {
	m.content = content
}

// View renders the modal box if visible
func (m Modal) View(th theme.Theme) string {
	if !m.visible {
		return ""
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Width(m.width).
		Height(m.height).
		Padding(1, 2)

	var body strings.Builder
	if m.title != "" {
		body.WriteString(th.Styles().Title.Render(m.title))
		body.WriteString("\n\n")
	}
	body.WriteString(m.content)

	return box.Render(body.String())
}

// ViewWithOverlay centers the modal over background. The header line stays
// visible, everything else is blanked.
func (m Modal) ViewWithOverlay(background string, termWidth, termHeight int, th theme.Theme) string {
	if !m.visible {
		return background
	}

	lines := strings.Split(background, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.Repeat(" ", termWidth)
	}

	modalLines := strings.Split(m.View(th), "\n")
	startY := max(0, (termHeight-len(modalLines))/2)
	startX := max(0, (termWidth-lipgloss.Width(modalLines[0]))/2)

	result := make([]string, max(len(lines), startY+len(modalLines)))
	copy(result, lines)
	pad := strings.Repeat(" ", startX)
	for i, line := range modalLines {
		if y := startY + i; y < len(result) {
			result[y] = pad + line
		}
	}
	return strings.Join(result, "\n")
}
