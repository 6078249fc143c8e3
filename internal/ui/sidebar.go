package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/filter"
	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/query"
)

// The sidebar lists the named filters first, then the feeds

func (m Model) sidebarLen() int {
	return len(filter.NamedFilters) + len(m.feeds.Data)
}

// sidebarFeed returns the feed at sidebar index idx
func (m Model) sidebarFeed(idx int) model.Feed {
	return m.feeds.Data[idx-len(filter.NamedFilters)]
}

// feedIndex is the sidebar index of feed id
func (m Model) feedIndex(id int64) (int, bool) {
	for i, f := range m.feeds.Data {
		if f.ID == id {
			return len(filter.NamedFilters) + i, true
		}
	}
	return 0, false
}

func namedIndex(id string) int {
	for i, n := range filter.NamedFilters {
		if n.ID == id {
			return i
		}
	}
	return 0
}

// chooseSidebar applies the entry under the sidebar cursor
func (m Model) chooseSidebar() (Model, tea.Cmd) {
	m.focus = focusList
	if m.sidebarCursor < len(filter.NamedFilters) {
		return m.applySelection(m.sel.ChooseNamed(filter.NamedFilters[m.sidebarCursor]))
	}
	if m.sidebarCursor >= m.sidebarLen() {
		return m, nil
	}
	return m.applySelection(m.sel.ChooseFeed(m.sidebarFeed(m.sidebarCursor).ID))
}

// selectionLabel names the active filter or feed for the header
func (m Model) selectionLabel() string {
	if id, ok := m.sel.Feed(); ok {
		if idx, found := m.feedIndex(id); found {
			return m.sidebarFeed(idx).Name
		}
		return fmt.Sprintf("Feed #%d", id)
	}
	if n, ok := m.sel.ActiveNamed(); ok {
		return n.Label
	}
	return "Custom filter"
}

func (m Model) renderSidebar(width, height int) string {
	styles := m.theme.Styles()
	var lines []string

	section := func(title string) string {
		return styles.Muted.Render("── " + title + " " + strings.Repeat("─", max(width-len(title)-4, 0)))
	}

	active, hasActive := m.sel.ActiveNamed()
	selectedFeed, hasFeed := m.sel.Feed()
	line := func(idx int, marker, label string, chosen bool) string {
		text := fit(marker+" "+label, width-2)
		switch {
		case m.focus == focusSidebar && idx == m.sidebarCursor:
			return styles.Selected.Render("▶ " + text)
		case chosen:
			return styles.Title.Render("  " + text)
		default:
			return styles.Text.Render("  " + text)
		}
	}

	lines = append(lines, section("FILTERS"))
	for i, n := range filter.NamedFilters {
		chosen := hasActive && active.ID == n.ID
		marker := "○"
		if chosen {
			marker = "●"
		}
		lines = append(lines, line(i, marker, n.Label, chosen))
	}

	lines = append(lines, "", section("FEEDS"))
	switch {
	case m.feeds.Loading() && len(m.feeds.Data) == 0:
		lines = append(lines, styles.Muted.Render("  "+m.spinner.View()+" loading"))
	case m.feeds.Status == query.StatusError:
		lines = append(lines, styles.Error.Render(wrap("  "+m.feeds.Message(), width-2)))
	case len(m.feeds.Data) == 0:
		lines = append(lines, styles.Muted.Render("  No feeds. Press F to add one."))
	}
	for i, f := range m.feeds.Data {
		chosen := hasFeed && selectedFeed == f.ID
		marker := "◇"
		if chosen {
			marker = "◆"
		}
		lines = append(lines, line(len(filter.NamedFilters)+i, marker, f.Name, chosen))
	}

	if len(lines) > height {
		// Keep the cursor row on screen
		row := m.sidebarCursor + 1
		if m.sidebarCursor >= len(filter.NamedFilters) {
			row += 2
		}
		top := max(0, row-height+1)
		lines = lines[top:min(top+height, len(lines))]
	}
	return strings.Join(lines, "\n")
}
