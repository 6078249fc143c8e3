package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/query"
)

// listArticle is the article under the list cursor
func (m Model) listArticle() (model.Article, bool) {
	items := m.articles.Data
	if m.listCursor < 0 || m.listCursor >= len(items) {
		return model.Article{}, false
	}
	return items[m.listCursor], true
}

// cursorFor keeps the cursor on the selected article, or in range, when
// the list is replaced
func (m Model) cursorFor(items []model.Article) int {
	if id, ok := m.sel.Article(); ok {
		for i, a := range items {
			if a.ID == id {
				return i
			}
		}
	}
	if m.listCursor >= len(items) {
		return max(len(items)-1, 0)
	}
	return m.listCursor
}

func (m Model) renderList(width, height int) string {
	styles := m.theme.Styles()

	count := len(m.articles.Data)
	title := styles.Title.Render(strings.ToUpper(m.selectionLabel()))
	badge := styles.Tag.Render(fmt.Sprintf(" %d ", count))
	if m.articles.Loading() {
		badge = styles.Muted.Render(" " + m.spinner.View())
	}
	lines := []string{title + badge, ""}
	body := height - len(lines)

	switch {
	case m.articles.Status == query.StatusError:
		lines = append(lines, styles.Error.Render(wrap("✗ "+m.articles.Message(), width)))
		return strings.Join(lines, "\n")
	case m.articles.Loading() && count == 0:
		lines = append(lines, styles.Muted.Render(m.spinner.View()+" Loading articles..."))
		return strings.Join(lines, "\n")
	case count == 0:
		lines = append(lines, styles.Muted.Render("No articles found"))
		return strings.Join(lines, "\n")
	}

	// Two rows per article
	visible := max(body/2, 1)
	start := 0
	if m.listCursor >= visible {
		start = m.listCursor - visible + 1
	}
	end := min(start+visible, count)

	openID, hasOpen := m.sel.Article()
	for i := start; i < end; i++ {
		a := m.articles.Data[i]
		lines = append(lines, m.renderListItem(a, i == m.listCursor, hasOpen && a.ID == openID, width)...)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderListItem(a model.Article, cursor, open bool, width int) []string {
	styles := m.theme.Styles()

	dot := " "
	if !a.IsRead {
		dot = styles.Unread.Render("●")
	}
	saved := " "
	if a.IsSaved {
		saved = styles.Saved.Render("★")
	}
	date := relativeDate(a.DisplayTime(), m.now())
	dateWidth := runewidth.StringWidth(date)

	titleWidth := max(width-6-dateWidth, 4)
	titleStyle := styles.Text
	if a.IsRead {
		titleStyle = styles.Muted
	}
	if cursor && m.focus == focusList {
		titleStyle = styles.Selected
	} else if open {
		titleStyle = styles.Title
	}

	prefix := "  "
	if cursor {
		prefix = styles.Selected.Render("▶ ")
	}
	first := prefix + dot + saved + " " + titleStyle.Render(fit(a.Title, titleWidth)) + " " + styles.Muted.Render(date)

	meta := m.feedName(a.FeedID)
	if a.Author != nil && *a.Author != "" {
		meta = joinNonEmpty(" · ", meta, *a.Author)
	}
	for _, t := range a.Tags {
		meta += " #" + t.Name
	}
	second := "     " + styles.Dimmed.Render(truncate(meta, max(width-5, 1)))

	return []string{first, lipgloss.NewStyle().MaxWidth(width).Render(second)}
}

// feedName looks up a feed's display name
func (m Model) feedName(id int64) string {
	for _, f := range m.feeds.Data {
		if f.ID == id {
			return f.Name
		}
	}
	return ""
}
