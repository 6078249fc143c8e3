package render

import (
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/krepsys/tui/internal/highlight"
	"github.com/krepsys/tui/internal/model"
)

// Private-use runes bracket highlighted runs through markdown and glamour.
// markOpen+i opens a run of model.Colors[i].
const (
	markOpen  = '\uE010'
	markClose = '\uE001'
)

// MarkFunc formats the markdown of one highlighted run
type MarkFunc func(color model.Color, content string) string

// Sentinels wraps content in the runes Paint turns into backgrounds
func Sentinels(color model.Color, content string) string {
	return string(rune(markOpen+colorIndex(color))) + content + string(markClose)
}

// EqualsMarks renders a highlight as ==content==
func EqualsMarks(_ model.Color, content string) string {
	return "==" + content + "=="
}

func colorIndex(c model.Color) int {
	for i, candidate := range model.Colors {
		if candidate == c {
			return i
		}
	}
	return 0
}

// Options controls Markdown
type Options struct {
	Sanitizer *Sanitizer // nil skips sanitizing
	BaseURL   string     // article URL; relative links and images resolve against it
	Mark      MarkFunc   // nil uses Sentinels
}

// Markdown overlays highlights on content and converts the result
func Markdown(content string, highlights []model.Highlight, opts Options) (string, error) {
	content = highlight.Apply(content, highlights)
	if opts.Sanitizer != nil {
		content = opts.Sanitizer.Sanitize(content)
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	mark := opts.Mark
	if mark == nil {
		mark = Sentinels
	}

	base := baseURL(opts.BaseURL)
	conv := md.NewConverter(domainOf(base), true, &md.Options{
		GetAbsoluteURL: func(_ *goquery.Selection, raw, _ string) string {
			return resolve(base, raw)
		},
	})
	conv.AddRules(md.Rule{
		Filter: []string{"mark"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			if content == "" {
				return md.String("")
			}
			color := model.Color(selec.AttrOr("data-color", string(model.Yellow)))
			return md.String(mark(color, content))
		},
	})

	out, err := conv.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("failed to convert article to markdown: %w", err)
	}
	return out, nil
}

// baseURL parses the article URL; nil when it is not absolute
func baseURL(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}
	return u
}

func domainOf(base *url.URL) string {
	if base == nil {
		return ""
	}
	return base.Host
}

// resolve makes raw absolute against base, keeping base's scheme.
// data: URIs and unparsable values pass through.
func resolve(base *url.URL, raw string) string {
	if base == nil {
		return raw
	}
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || ref.Scheme == "data" {
		return raw
	}
	return base.ResolveReference(ref).String()
}
