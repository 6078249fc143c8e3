package highlight

import (
	"strings"

	"github.com/krepsys/tui/internal/model"
)

// Rect is a cell rectangle relative to the article container
type Rect struct {
	X, Y, W, H int
}

// Point is a cell position relative to the article container
type Point struct {
	X, Y int
}

// PlacePicker anchors a w x h popup centered above sel, inside a
// containerW x containerH area. It flips below when there is no room above.
func PlacePicker(sel Rect, containerW, containerH, w, h int) Point {
	x := sel.X + sel.W/2 - w/2
	if x+w > containerW {
		x = containerW - w
	}
	if x < 0 {
		x = 0
	}

	y := sel.Y - h
	if y < 0 {
		y = sel.Y + sel.H
	}
	if y+h > containerH {
		y = containerH - h
	}
	if y < 0 {
		y = 0
	}
	return Point{X: x, Y: y}
}

// PickerWidth and PickerHeight size the rendered color popup
const (
	PickerWidth  = 34
	PickerHeight = 3
)

// Picker is the open color popup. It carries the exact selected text.
type Picker struct {
	Text  string
	At    Point
	Index int
}

// Color is the color under the picker's cursor
func (p Picker) Color() model.Color {
	return model.Colors[p.Index]
}

// Flow is the selection-to-highlight interaction. It holds at most one
// transient picker; nothing is rendered locally while a save is pending.
type Flow struct {
	picker *Picker
	saving bool
	err    string
}

// Release handles the end of a selection gesture. A collapsed or blank
// selection dismisses any open picker; anything else opens a fresh one.
func (f Flow) Release(text string, sel Rect, containerW, containerH int) Flow {
	if strings.TrimSpace(text) == "" {
		return f.Dismiss()
	}
	at := PlacePicker(sel, containerW, containerH, PickerWidth, PickerHeight)
	return Flow{picker: &Picker{Text: text, At: at}}
}

// Open reports whether the picker is shown
func (f Flow) Open() bool { return f.picker != nil }

// Saving reports whether a create request is in flight
func (f Flow) Saving() bool { return f.saving }

// Err is the message of the last failed save
func (f Flow) Err() string { return f.err }

// Picker returns the open picker
func (f Flow) Picker() (Picker, bool) {
	if f.picker == nil {
		return Picker{}, false
	}
	return *f.picker, true
}

// Cycle moves the picker's color cursor
func (f Flow) Cycle(delta int) Flow {
	if f.picker == nil {
		return f
	}
	p := *f.picker
	n := len(model.Colors)
	p.Index = ((p.Index+delta)%n + n) % n
	f.picker = &p
	return f
}

// Choose returns the create payload for color and marks the flow saving.
// ok is false when no picker is open or a save is already pending.
func (f Flow) Choose(color model.Color) (Flow, model.HighlightCreate, bool) {
	if f.picker == nil || f.saving || !color.Valid() {
		return f, model.HighlightCreate{}, false
	}
	f.saving = true
	f.err = ""
	return f, model.HighlightCreate{Text: f.picker.Text, Color: color}, true
}

// Saved closes the picker after a successful create
func (f Flow) Saved() Flow {
	return Flow{}
}

// Failed keeps the picker open with the error so the user can retry or dismiss
func (f Flow) Failed(err error) Flow {
	f.saving = false
	if err != nil {
		f.err = err.Error()
	}
	return f
}

// Dismiss discards the picker
func (f Flow) Dismiss() Flow {
	return Flow{}
}
