package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/query"
	"github.com/krepsys/tui/internal/render"
	"github.com/krepsys/tui/internal/service"
	"github.com/krepsys/tui/internal/ui/operations"
)

// refreshReader renders the loaded article into the viewport. Scroll is
// kept unless top is set.
func (m *Model) refreshReader(top bool) {
	if !m.reader.Ok() {
		m.viewport.SetContent("")
		return
	}
	offset := m.viewport.YOffset
	m.viewport.SetContent(m.readerContent())
	if top {
		m.viewport.GotoTop()
	} else {
		m.viewport.SetYOffset(offset)
	}
}

// readerContent is the header block followed by the rendered body
func (m Model) readerContent() string {
	styles := m.theme.Styles()
	r := m.reader.Data
	a := r.Article
	width := m.layout().textWidth

	var b strings.Builder
	b.WriteString(styles.Title.Render(wrap(a.Title, width)))
	b.WriteString("\n")

	byline := ""
	if a.Author != nil && *a.Author != "" {
		byline = "By " + *a.Author
	}
	meta := joinNonEmpty(" · ", byline, m.feedName(a.FeedID), longDate(a.DisplayTime()))
	if meta != "" {
		b.WriteString(styles.Muted.Render(meta))
		b.WriteString("\n")
	}

	var flags []string
	if a.IsSaved {
		flags = append(flags, styles.Saved.Render("★ saved"))
	}
	if a.IsArchived {
		flags = append(flags, styles.Muted.Render("archived"))
	}
	if len(r.Highlights) > 0 {
		flags = append(flags, styles.Tag.Render(pluralize(len(r.Highlights), "highlight")))
	}
	if len(flags) > 0 {
		b.WriteString(strings.Join(flags, "  "))
		b.WriteString("\n")
	}

	if len(a.Tags) > 0 {
		names := make([]string, len(a.Tags))
		for i, t := range a.Tags {
			names[i] = "#" + t.Name
		}
		b.WriteString(styles.Tag.Render(wrap(strings.Join(names, " "), width)))
		b.WriteString("\n")
	}

	if a.Note != nil && *a.Note != "" {
		note := m.theme.BorderStyle(false).Padding(0, 1).Width(max(width-2, 10))
		b.WriteString(note.Render(styles.Text.Italic(true).Render(*a.Note)))
		b.WriteString("\n")
	}

	b.WriteString(styles.Muted.Render(strings.Repeat("─", max(width, 1))))
	b.WriteString("\n\n")
	b.WriteString(m.articleBody(a, r.Highlights))
	return b.String()
}

// articleBody renders content with highlights painted in
func (m Model) articleBody(a model.Article, hs []model.Highlight) string {
	styles := m.theme.Styles()
	if m.renderer == nil {
		return styles.Muted.Render(render.Strip(a.Content))
	}
	out, err := m.renderer.Article(a, hs)
	if err != nil {
		m.logger.Warn("markdown rendering failed", "article_id", a.ID, "error", err)
	}
	if strings.TrimSpace(out) == "" {
		return styles.Muted.Render("No content. Press o to open the original.")
	}
	return out
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func tagNames(tags []model.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

// openTagInput focuses the autocompleting tag field
func (m Model) openTagInput() (Model, tea.Cmd) {
	m.mode = modeTag
	m.tagInput.SetValue("")
	cmd := m.tagInput.Focus()
	return m, tea.Batch(cmd, operations.LoadTags(m.ctx, m.svc))
}

// updateTagInput handles keys while the tag field is open. Blank input
// closes the field with an error and sends no request.
func (m Model) updateTagInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.tagInput.Blur()
		return m, nil
	case tea.KeyEnter:
		raw := m.tagInput.Value()
		m.mode = modeNormal
		m.tagInput.Blur()
		if !m.reader.Ok() {
			return m, nil
		}
		if strings.TrimSpace(raw) == "" {
			status := m.setStatus("✗ " + service.ErrEmptyTag.Error())
			return m, status
		}
		return m, operations.AttachTag(m.ctx, m.svc, m.reader.Data.Article.ID, raw)
	}
	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	return m, cmd
}

// openNoteEditor loads the current note into the textarea
func (m Model) openNoteEditor() (Model, tea.Cmd) {
	m.mode = modeNote
	note := ""
	if n := m.reader.Data.Article.Note; n != nil {
		note = *n
	}
	m.noteArea.SetValue(note)
	cmd := m.noteArea.Focus()
	return m, cmd
}

func (m Model) updateNoteEditor(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.noteArea.Blur()
		return m, nil
	case "ctrl+s":
		if !m.reader.Ok() {
			return m, nil
		}
		return m, operations.SaveNote(m.ctx, m.svc, m.reader.Data.Article.ID, strings.TrimSpace(m.noteArea.Value()))
	}
	var cmd tea.Cmd
	m.noteArea, cmd = m.noteArea.Update(msg)
	return m, cmd
}

func (m Model) renderReader(width, height int) string {
	styles := m.theme.Styles()

	switch {
	case m.reader.Status == query.StatusIdle:
		return styles.Muted.Render("Select an article to read")
	case m.reader.Loading():
		return styles.Muted.Render(m.spinner.View() + " Loading article...")
	case m.reader.Status == query.StatusError:
		return styles.Error.Render(wrap("✗ "+m.reader.Message(), width))
	}

	switch m.mode {
	case modeSelect:
		return m.renderSelection(width, height)
	case modeHighlights:
		return m.renderHighlights(width, height)
	case modeNote:
		title := styles.Title.Render("NOTE") + styles.Muted.Render("  ctrl+s save · esc cancel")
		return title + "\n\n" + m.noteArea.View()
	}
	return m.viewport.View()
}
