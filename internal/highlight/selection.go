package highlight

import (
	"github.com/mattn/go-runewidth"
)

// Placed is a word positioned in the selectable text layout
type Placed struct {
	Word
	Line, Col, Width int
}

// Layout wraps words into lines of at most Width cells
type Layout struct {
	Words []Placed
	Lines int
	Width int
}

// NewLayout places words line by line. Block segments start after a blank line.
func NewLayout(segs []Segment, words []Word, width int) Layout {
	if width < 1 {
		width = 1
	}
	l := Layout{Width: width, Words: make([]Placed, 0, len(words))}
	line, col := 0, 0
	lastSeg := -1

	for _, w := range words {
		wWidth := runewidth.StringWidth(w.Display)
		switch {
		case len(l.Words) == 0:
		case w.Segment != lastSeg && segs[w.Segment].Block:
			line += 2
			col = 0
		case col > 0 && col+1+wWidth > width:
			line++
			col = 0
		case col > 0:
			col++
		}
		l.Words = append(l.Words, Placed{Word: w, Line: line, Col: col, Width: wWidth})
		col += wWidth
		lastSeg = w.Segment
	}
	if len(l.Words) > 0 {
		l.Lines = line + 1
	}
	return l
}

// Cursor is a keyboard text selection over a layout. Without an anchor
// the selection is collapsed. A selection never crosses a text node, so
// its text is always a contiguous substring of the content.
type Cursor struct {
	layout   Layout
	pos      int
	anchor   int
	anchored bool
}

// NewCursor starts at the first word with nothing selected
func NewCursor(l Layout) Cursor {
	return Cursor{layout: l}
}

// Layout returns the layout the cursor moves over
func (c Cursor) Layout() Layout { return c.layout }

// Pos is the index of the word under the cursor
func (c Cursor) Pos() int { return c.pos }

// Anchored reports whether a selection is being extended
func (c Cursor) Anchored() bool { return c.anchored }

// bounds limits movement to the anchor's segment while anchored
func (c Cursor) bounds() (lo, hi int) {
	n := len(c.layout.Words)
	if !c.anchored || n == 0 {
		return 0, n - 1
	}
	seg := c.layout.Words[c.anchor].Segment
	lo, hi = c.anchor, c.anchor
	for lo > 0 && c.layout.Words[lo-1].Segment == seg {
		lo--
	}
	for hi < n-1 && c.layout.Words[hi+1].Segment == seg {
		hi++
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Move shifts the cursor by delta words
func (c Cursor) Move(delta int) Cursor {
	if len(c.layout.Words) == 0 {
		return c
	}
	lo, hi := c.bounds()
	c.pos = clamp(c.pos+delta, lo, hi)
	return c
}

// MoveLine moves to the word nearest the current column delta lines away
func (c Cursor) MoveLine(delta int) Cursor {
	if len(c.layout.Words) == 0 {
		return c
	}
	cur := c.layout.Words[c.pos]
	target := cur.Line + delta
	lo, hi := c.bounds()

	best := -1
	bestDist := 0
	for i := lo; i <= hi; i++ {
		w := c.layout.Words[i]
		if w.Line != target {
			continue
		}
		d := w.Col - cur.Col
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		// Target line is a paragraph gap or outside the bounds
		if delta > 0 {
			return c.Move(1)
		}
		return c.Move(-1)
	}
	c.pos = best
	return c
}

// MoveTo puts the cursor on word i, kept inside the anchor's segment
func (c Cursor) MoveTo(i int) Cursor {
	if len(c.layout.Words) == 0 {
		return c
	}
	lo, hi := c.bounds()
	c.pos = clamp(i, lo, hi)
	return c
}

// ToggleAnchor starts a selection at the cursor, or clears it
func (c Cursor) ToggleAnchor() Cursor {
	if c.anchored {
		c.anchored = false
		return c
	}
	if len(c.layout.Words) == 0 {
		return c
	}
	c.anchor = c.pos
	c.anchored = true
	return c
}

// Clear collapses the selection and keeps the cursor where it is
func (c Cursor) Clear() Cursor {
	c.anchored = false
	return c
}

// Range returns the selected word indices, inclusive
func (c Cursor) Range() (lo, hi int, ok bool) {
	if !c.anchored || len(c.layout.Words) == 0 {
		return 0, 0, false
	}
	lo, hi = c.anchor, c.pos
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// Selected reports whether word i is inside the selection
func (c Cursor) Selected(i int) bool {
	lo, hi, ok := c.Range()
	return ok && i >= lo && i <= hi
}

// Text is the exact substring of content covered by the selection, or ""
// when collapsed
func (c Cursor) Text(content string) string {
	lo, hi, ok := c.Range()
	if !ok {
		return ""
	}
	start, end := c.layout.Words[lo].Start, c.layout.Words[hi].End
	if start < 0 || end > len(content) || start >= end {
		return ""
	}
	return content[start:end]
}

// Bounds is the bounding box of the selection in layout cells
func (c Cursor) Bounds() (Rect, bool) {
	lo, hi, ok := c.Range()
	if !ok {
		return Rect{}, false
	}
	first, last := c.layout.Words[lo], c.layout.Words[hi]
	if first.Line == last.Line {
		return Rect{X: first.Col, Y: first.Line, W: last.Col + last.Width - first.Col, H: 1}, true
	}

	minCol, maxCol := first.Col, first.Col+first.Width
	for i := lo; i <= hi; i++ {
		w := c.layout.Words[i]
		if w.Col < minCol {
			minCol = w.Col
		}
		if w.Col+w.Width > maxCol {
			maxCol = w.Col + w.Width
		}
	}
	return Rect{X: minCol, Y: first.Line, W: maxCol - minCol, H: last.Line - first.Line + 1}, true
}

// WordAt returns the word covering cell (col, line), or the nearest word
// before it on that line
func (l Layout) WordAt(line, col int) (int, bool) {
	best := -1
	for i, w := range l.Words {
		if w.Line != line {
			if w.Line > line {
				break
			}
			continue
		}
		if w.Col > col {
			break
		}
		best = i
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// LayoutContent tokenizes content and lays out its words at width
func LayoutContent(content string, width int) Layout {
	segs := Segments(content)
	return NewLayout(segs, Words(segs), width)
}
