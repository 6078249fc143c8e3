package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentsAreExactSubstrings(t *testing.T) {
	content := `<html><head><title>T</title><style>p{}</style></head><body>` +
		`<p>We discuss <b>climate</b> change &amp; more.</p><script>var x=1</script><p>Second</p></body></html>`

	segs := Segments(content)

	var raws []string
	for _, s := range segs {
		assert.Equal(t, s.Raw, content[s.Start:s.End])
		raws = append(raws, s.Raw)
	}
	assert.Equal(t, []string{"We discuss ", "climate", " change &amp; more.", "Second"}, raws)
	assert.True(t, segs[0].Block)
	assert.False(t, segs[1].Block)
	assert.True(t, segs[3].Block)
}

func TestWordsKeepOffsetsAndUnescape(t *testing.T) {
	content := "<p>AT&amp;T  rocks</p>"
	words := Words(Segments(content))

	require.Len(t, words, 2)
	assert.Equal(t, "AT&amp;T", content[words[0].Start:words[0].End])
	assert.Equal(t, "AT&T", words[0].Display)
	assert.Equal(t, "rocks", content[words[1].Start:words[1].End])
}

func TestLayoutWraps(t *testing.T) {
	l := LayoutContent("<p>aaa bbb ccc</p><p>ddd</p>", 7)

	require.Len(t, l.Words, 4)
	assert.Equal(t, 0, l.Words[0].Line)
	assert.Equal(t, 0, l.Words[1].Line)
	assert.Equal(t, 4, l.Words[1].Col)
	assert.Equal(t, 1, l.Words[2].Line)
	assert.Equal(t, 3, l.Words[3].Line, "new paragraph leaves a blank line")
	assert.Equal(t, 4, l.Lines)
}

// INVARIANT: the selected text is an exact substring of the article content
// BREAKS: saved highlights never match and never render
func TestCursorTextIsSubstring(t *testing.T) {
	content := "<p>We discuss climate change today.</p>"
	c := NewCursor(LayoutContent(content, 80))

	assert.Equal(t, "", c.Text(content), "collapsed selection")

	c = c.Move(2).ToggleAnchor().Move(1)
	assert.Equal(t, "climate change", c.Text(content))

	r, ok := c.Bounds()
	require.True(t, ok)
	assert.Equal(t, Rect{X: 11, Y: 0, W: 14, H: 1}, r)
}

func TestCursorStaysInSegmentWhileAnchored(t *testing.T) {
	content := "<p>one two</p><p>three</p>"
	c := NewCursor(LayoutContent(content, 80)).ToggleAnchor().Move(5)

	assert.Equal(t, 1, c.Pos())
	assert.Equal(t, "one two", c.Text(content))

	c = c.ToggleAnchor().Move(5)
	assert.Equal(t, 2, c.Pos(), "free movement once the anchor is dropped")
}

func TestCursorBackwardSelection(t *testing.T) {
	content := "<p>a b c d</p>"
	c := NewCursor(LayoutContent(content, 80)).Move(3).ToggleAnchor().Move(-2)

	lo, hi, ok := c.Range()
	require.True(t, ok)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)
	assert.Equal(t, "b c d", c.Text(content))
	assert.True(t, c.Selected(2))
	assert.False(t, c.Selected(0))
}

func TestCursorMoveLine(t *testing.T) {
	l := LayoutContent("<p>aaa bbb ccc ddd</p>", 7)
	c := NewCursor(l).Move(1)
	require.Equal(t, 0, l.Words[c.Pos()].Line)

	c = c.MoveLine(1)
	assert.Equal(t, 1, l.Words[c.Pos()].Line)
	assert.Equal(t, 3, c.Pos())
}

func TestMultiLineBounds(t *testing.T) {
	content := "<p>aaa bbb ccc</p>"
	c := NewCursor(LayoutContent(content, 7)).Move(1).ToggleAnchor().Move(1)

	r, ok := c.Bounds()
	require.True(t, ok)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 7, H: 2}, r)
}

func TestEmptyContentCursor(t *testing.T) {
	c := NewCursor(LayoutContent("", 40)).Move(1).ToggleAnchor()
	assert.False(t, c.Anchored())
	assert.Equal(t, "", c.Text(""))
}

func TestWordAtAndMoveTo(t *testing.T) {
	l := LayoutContent("<p>aaa bbb ccc</p><p>ddd</p>", 7)

	i, ok := l.WordAt(0, 5)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = l.WordAt(3, 0)
	require.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = l.WordAt(2, 0)
	assert.False(t, ok, "blank paragraph gap")

	c := NewCursor(l).MoveTo(2).ToggleAnchor().MoveTo(3)
	assert.Equal(t, 2, c.Pos(), "anchored cursor cannot leave its paragraph")
	assert.Equal(t, 3, NewCursor(l).MoveTo(10).Pos())
}
