// Package theme holds the color schemes of the reader and the derived
// lipgloss and glamour styles.
package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/krepsys/tui/internal/model"
)

// Mark is the paint of one highlight color
type Mark struct {
	Background string
	Foreground string
}

// Theme is a named palette
type Theme struct {
	Name     string
	Accent   lipgloss.Color // focus, headings, selection
	Meta     lipgloss.Color // tags and metadata
	Alert    lipgloss.Color // errors
	Success  lipgloss.Color
	Unread   lipgloss.Color // unread dot
	Saved    lipgloss.Color // saved marker
	Muted    lipgloss.Color
	Border   lipgloss.Color
	Text     lipgloss.Color
	Gradient [2]string // header gradient
	Marks    map[model.Color]Mark
}

var darkMarks = map[model.Color]Mark{
	model.Yellow: {Background: "#6B5B00", Foreground: "#FFF4B3"},
	model.Green:  {Background: "#1E5631", Foreground: "#CFFFE0"},
	model.Blue:   {Background: "#1D3F72", Foreground: "#D6E8FF"},
	model.Pink:   {Background: "#6E2450", Foreground: "#FFD6EE"},
}

// CleanCyber is the default dark scheme
var CleanCyber = Theme{
	Name:     "clean_cyber",
	Accent:   lipgloss.Color("#00D9FF"),
	Meta:     lipgloss.Color("#E6CCFF"),
	Alert:    lipgloss.Color("#9F4DFF"),
	Success:  lipgloss.Color("#00FF88"),
	Unread:   lipgloss.Color("#FF0066"),
	Saved:    lipgloss.Color("#FF8800"),
	Muted:    lipgloss.Color("#666666"),
	Border:   lipgloss.Color("#333333"),
	Text:     lipgloss.Color("#EEEEEE"),
	Gradient: [2]string{"#00D9FF", "#9F4DFF"},
	Marks:    darkMarks,
}

// MonokaiPro is a warm dark scheme
var MonokaiPro = Theme{
	Name:     "monokai_pro",
	Accent:   lipgloss.Color("#78DCE8"),
	Meta:     lipgloss.Color("#AB9DF2"),
	Alert:    lipgloss.Color("#FF6188"),
	Success:  lipgloss.Color("#A9DC76"),
	Unread:   lipgloss.Color("#FF6188"),
	Saved:    lipgloss.Color("#FC9867"),
	Muted:    lipgloss.Color("#727072"),
	Border:   lipgloss.Color("#403E41"),
	Text:     lipgloss.Color("#FCFCFA"),
	Gradient: [2]string{"#FC9867", "#FF6188"},
	Marks:    darkMarks,
}

// Light uses softer tones and brighter highlight paint
var Light = Theme{
	Name:     "light",
	Accent:   lipgloss.Color("#06B6D4"),
	Meta:     lipgloss.Color("#8B5CF6"),
	Alert:    lipgloss.Color("#EC4899"),
	Success:  lipgloss.Color("#22C55E"),
	Unread:   lipgloss.Color("#F43F5E"),
	Saved:    lipgloss.Color("#FB923C"),
	Muted:    lipgloss.Color("#64748B"),
	Border:   lipgloss.Color("#475569"),
	Text:     lipgloss.Color("#F1F5F9"),
	Gradient: [2]string{"#06B6D4", "#8B5CF6"},
	Marks: map[model.Color]Mark{
		model.Yellow: {Background: "#A16207", Foreground: "#FFFFFF"},
		model.Green:  {Background: "#15803D", Foreground: "#FFFFFF"},
		model.Blue:   {Background: "#1D4ED8", Foreground: "#FFFFFF"},
		model.Pink:   {Background: "#BE185D", Foreground: "#FFFFFF"},
	},
}

// Available lists themes in cycling order
var Available = []Theme{CleanCyber, MonokaiPro, Light}

// ByName returns the named theme, falling back to CleanCyber
func ByName(name string) (Theme, bool) {
	for _, t := range Available {
		if t.Name == name {
			return t, true
		}
	}
	return CleanCyber, false
}

// Next returns the theme after t in Available
func Next(t Theme) Theme {
	for i, candidate := range Available {
		if candidate.Name == t.Name {
			return Available[(i+1)%len(Available)]
		}
	}
	return Available[0]
}

// Mark returns the paint for a highlight color, yellow for unknown colors
func (t Theme) Mark(c model.Color) Mark {
	if m, ok := t.Marks[c]; ok {
		return m
	}
	return t.Marks[model.Yellow]
}

func (t Theme) BorderStyle(focused bool) lipgloss.Style {
	color := t.Border
	if focused {
		color = t.Accent
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color)
}

// StyleSet is the per-theme set of text styles used by the views
type StyleSet struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Dimmed   lipgloss.Style
	Tag      lipgloss.Style
	Unread   lipgloss.Style
	Saved    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Header   lipgloss.Style
}

// Styles derives the view styles from the palette
func (t Theme) Styles() StyleSet {
	return StyleSet{
		Title:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Text:     lipgloss.NewStyle().Foreground(t.Text),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Dimmed:   lipgloss.NewStyle().Foreground(t.Muted).Faint(true),
		Tag:      lipgloss.NewStyle().Foreground(t.Meta),
		Unread:   lipgloss.NewStyle().Foreground(t.Unread).Bold(true),
		Saved:    lipgloss.NewStyle().Foreground(t.Saved),
		Success:  lipgloss.NewStyle().Foreground(t.Success),
		Error:    lipgloss.NewStyle().Foreground(t.Alert).Bold(true),
		Header:   lipgloss.NewStyle().Background(t.Border).Foreground(t.Accent).Bold(true),
	}
}

// MarkStyle is the lipgloss style painting highlighted words
func (t Theme) MarkStyle(c model.Color) lipgloss.Style {
	m := t.Mark(c)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.Background)).
		Foreground(lipgloss.Color(m.Foreground))
}

// GlamourStyle converts the palette to a glamour style for article bodies
func (t Theme) GlamourStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig

	// No document margin; the reader pane has its own padding
	style.Document.Margin = uintPtr(0)
	style.Document.StylePrimitive.Color = stringPtr(string(t.Text))

	style.Heading.StylePrimitive.Color = stringPtr(string(t.Accent))
	style.Heading.StylePrimitive.Bold = boolPtr(true)
	for _, h := range []*ansi.StyleBlock{&style.H1, &style.H2, &style.H3, &style.H4, &style.H5, &style.H6} {
		h.StylePrimitive.Prefix = "▸ "
		h.StylePrimitive.Suffix = ""
		h.StylePrimitive.Format = ""
		h.StylePrimitive.Color = stringPtr(string(t.Accent))
	}
	style.H1.StylePrimitive.Bold = boolPtr(true)
	style.H2.StylePrimitive.Bold = boolPtr(true)

	style.Link.Color = stringPtr(string(t.Meta))
	style.LinkText.Color = stringPtr(string(t.Meta))
	style.Code.Color = stringPtr(string(t.Success))
	style.CodeBlock.StylePrimitive.Color = stringPtr(string(t.Success))
	style.Emph.Color = stringPtr(string(t.Saved))
	style.Strong.Color = stringPtr(string(t.Unread))

	style.List.StyleBlock.Indent = uintPtr(1)
	style.List.StyleBlock.IndentToken = stringPtr("  ")
	style.List.StyleBlock.StylePrimitive.Color = stringPtr(string(t.Text))
	style.List.LevelIndent = 4
	style.Item.BlockPrefix = "• "
	style.Item.Color = stringPtr(string(t.Text))
	style.Enumeration.Color = stringPtr(string(t.Text))

	style.BlockQuote.StylePrimitive.Color = stringPtr(string(t.Muted))
	style.BlockQuote.StylePrimitive.Italic = boolPtr(true)

	return style
}

func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }
func boolPtr(b bool) *bool       { return &b }

// Header renders a full-width title bar over the theme gradient
func (t Theme) Header(text string, width int) string {
	return RenderWithGradientBackground(text, width, t.Gradient[0], t.Gradient[1])
}

// RenderWithGradientBackground renders text padded or cut to width over a
// left-to-right background gradient
func RenderWithGradientBackground(text string, width int, startColor, endColor string) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) < width {
		runes = append(runes, []rune(strings.Repeat(" ", width-len(runes)))...)
	} else {
		runes = runes[:width]
	}

	var result strings.Builder
	for i, r := range runes {
		position := float64(i) / float64(max(width-1, 1))
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(InterpolateColor(startColor, endColor, position))).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

// InterpolateColor blends two hex colors; position is clamped to [0,1]
func InterpolateColor(startColor, endColor string, position float64) string {
	startR, startG, startB, err := ParseHexColor(startColor)
	if err != nil {
		return startColor
	}
	endR, endG, endB, err := ParseHexColor(endColor)
	if err != nil {
		return startColor
	}

	position = min(max(position, 0), 1)
	r := int(float64(startR) + float64(endR-startR)*position)
	g := int(float64(startG) + float64(endG-startG)*position)
	b := int(float64(startB) + float64(endB-startB)*position)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// ParseHexColor parses "#RRGGBB"
func ParseHexColor(hexColor string) (int, int, int, error) {
	hexColor = strings.TrimPrefix(hexColor, "#")
	if len(hexColor) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color format")
	}

	var rgb [3]int
	for i := range rgb {
		v, err := strconv.ParseInt(hexColor[i*2:i*2+2], 16, 0)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid color component %q: %w", hexColor[i*2:i*2+2], err)
		}
		rgb[i] = int(v)
	}
	return rgb[0], rgb[1], rgb[2], nil
}
