// Package render turns article HTML plus highlights into terminal text.
//
// The pipeline is: overlay highlights on the raw HTML, optionally sanitize,
// convert to markdown with highlights as sentinel runes, render with
// glamour in the theme's style, then paint sentinels as backgrounds.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/theme"
)

// Renderer is bound to one theme and width; build a new one when either changes
type Renderer struct {
	theme     theme.Theme
	width     int
	sanitizer *Sanitizer
	term      *glamour.TermRenderer
}

// New creates a renderer; sanitize enables the bluemonday pass
func New(th theme.Theme, width int, sanitize bool) (*Renderer, error) {
	if width < 20 {
		width = 20
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithStyles(th.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	r := &Renderer{theme: th, width: width, term: term}
	if sanitize {
		r.sanitizer = NewSanitizer()
	}
	return r, nil
}

// Width is the wrap width the renderer was built for
func (r *Renderer) Width() int { return r.width }

// Theme is the palette the renderer paints with
func (r *Renderer) Theme() theme.Theme { return r.theme }

// Article renders the body of a with its highlights
func (r *Renderer) Article(a model.Article, highlights []model.Highlight) (string, error) {
	markdown, err := Markdown(a.Content, highlights, Options{
		Sanitizer: r.sanitizer,
		BaseURL:   a.URL,
		Mark:      Sentinels,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	out, err := r.term.Render(markdown)
	if err != nil {
		// Fall back to the unstyled markdown rather than an empty pane
		return Paint(markdown, r.theme), fmt.Errorf("failed to render markdown: %w", err)
	}
	return Paint(strings.TrimRight(out, "\n"), r.theme), nil
}
