package state

import "github.com/krepsys/tui/internal/model"

// ReadTrigger fires mark-as-read once per article becoming the active
// selection, and only after that article has loaded unread
type ReadTrigger struct {
	selected int64
	fired    bool
}

// Select records a selection change; a new id re-arms the trigger
func (t *ReadTrigger) Select(id int64) {
	if id != t.selected {
		t.selected = id
		t.fired = false
	}
}

// Reset forgets the current selection
func (t *ReadTrigger) Reset() {
	t.selected = 0
	t.fired = false
}

// Loaded reports whether a, just loaded, should be marked read now
func (t *ReadTrigger) Loaded(a model.Article) bool {
	if t.fired || a.ID == 0 || a.ID != t.selected {
		return false
	}
	t.fired = true
	return !a.IsRead
}
