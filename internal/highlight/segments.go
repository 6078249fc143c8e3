package highlight

import (
	"html"
	"strings"
	"unicode"

	xhtml "golang.org/x/net/html"
)

// Segment is one text node of the content. Start/End are byte offsets
// into the raw HTML, so Raw is always content[Start:End].
type Segment struct {
	Start, End int
	Raw        string
	// Block is set when a block element opened since the previous segment
	Block bool
}

// Word is a whitespace-delimited run inside a segment
type Word struct {
	Segment    int
	Start, End int
	Display    string
}

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true, "table": true, "hr": true,
	"section": true, "article": true, "figure": true, "figcaption": true,
}

var skipTags = map[string]bool{"script": true, "style": true, "head": true, "title": true}

// Segments tokenizes content and returns its visible text nodes
func Segments(content string) []Segment {
	z := xhtml.NewTokenizer(strings.NewReader(content))

	var segs []Segment
	offset := 0
	skip := 0
	block := true

	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		raw := string(z.Raw())
		start := offset
		offset += len(raw)

		switch tt {
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && tt == xhtml.StartTagToken {
				skip++
			}
			if blockTags[tag] {
				block = true
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && skip > 0 {
				skip--
			}
			if blockTags[tag] {
				block = true
			}
		case xhtml.TextToken:
			if skip > 0 || strings.TrimSpace(raw) == "" {
				continue
			}
			segs = append(segs, Segment{Start: start, End: offset, Raw: raw, Block: block})
			block = false
		}
	}
	return segs
}

// Words splits segments on whitespace, keeping absolute offsets
func Words(segs []Segment) []Word {
	var words []Word
	for i, seg := range segs {
		inWord := false
		wordStart := 0
		flush := func(end int) {
			raw := seg.Raw[wordStart:end]
			words = append(words, Word{
				Segment: i,
				Start:   seg.Start + wordStart,
				End:     seg.Start + end,
				Display: html.UnescapeString(raw),
			})
		}
		for j, r := range seg.Raw {
			if unicode.IsSpace(r) {
				if inWord {
					flush(j)
					inWord = false
				}
				continue
			}
			if !inWord {
				wordStart = j
				inWord = true
			}
		}
		if inWord {
			flush(len(seg.Raw))
		}
	}
	return words
}
