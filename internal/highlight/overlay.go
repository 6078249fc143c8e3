// Package highlight reinjects stored highlights into article HTML and
// drives the select-text-then-pick-a-color flow that creates them.
//
// Highlights carry no position. Each one is matched textually: every
// occurrence of its text in the current HTML is wrapped, in list order,
// against the output of the previous highlights.
package highlight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/krepsys/tui/internal/model"
)

// MarkClass prefixes the class of every inserted marker
const MarkClass = "hl"

// markerColor falls back to yellow for unknown colors
func markerColor(c model.Color) model.Color {
	if c.Valid() {
		return c
	}
	return model.Yellow
}

// Marker returns the opening and closing tags wrapping h's text
func Marker(h model.Highlight) (openTag, closeTag string) {
	color := markerColor(h.Color)
	openTag = fmt.Sprintf(`<mark class="%s %s-%s" data-highlight-id="%s" data-color="%s">`,
		MarkClass, MarkClass, color, strconv.FormatInt(h.ID, 10), color)
	return openTag, "</mark>"
}

// Apply wraps every occurrence of each highlight's text. HTML without any
// highlight text is returned unchanged; empty texts are ignored.
func Apply(content string, highlights []model.Highlight) string {
	for _, h := range highlights {
		if h.Text == "" {
			continue
		}
		openTag, closeTag := Marker(h)
		content = strings.ReplaceAll(content, h.Text, openTag+h.Text+closeTag)
	}
	return content
}

// Occurrences counts non-overlapping matches of text in content. More than
// one means the stored highlight is ambiguous and will mark every copy.
func Occurrences(content, text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(content, text)
}

// Span is a byte range of the raw content covered by a highlight
type Span struct {
	Start, End int
	ID         int64
	Color      model.Color
}

// Spans locates each highlight in the original content, independent of the
// others. Used to paint highlights over selectable text.
func Spans(content string, highlights []model.Highlight) []Span {
	var spans []Span
	for _, h := range highlights {
		if h.Text == "" {
			continue
		}
		from := 0
		for {
			i := strings.Index(content[from:], h.Text)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, Span{Start: start, End: start + len(h.Text), ID: h.ID, Color: markerColor(h.Color)})
			from = start + len(h.Text)
		}
	}
	return spans
}
