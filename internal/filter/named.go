package filter

// Named is a sidebar filter with a fixed predicate
type Named struct {
	ID     string
	Label  string
	Filter Filter
}

func boolPtr(b bool) *bool { return &b }

var (
	All      = Named{ID: "all", Label: "All Articles", Filter: Filter{}}
	Unread   = Named{ID: "unread", Label: "Unread", Filter: Filter{IsRead: boolPtr(false), IsArchived: boolPtr(false)}}
	Saved    = Named{ID: "saved", Label: "Saved", Filter: Filter{IsSaved: boolPtr(true)}}
	Archived = Named{ID: "archived", Label: "Archived", Filter: Filter{IsArchived: boolPtr(true)}}
)

// NamedFilters in sidebar order
var NamedFilters = []Named{All, Unread, Saved, Archived}

// Lookup finds a named filter by id
func Lookup(id string) (Named, bool) {
	for _, n := range NamedFilters {
		if n.ID == id {
			return n, true
		}
	}
	return Named{}, false
}

// Active returns the named filter whose predicate serializes like f
func Active(f Filter) (Named, bool) {
	key := f.Key()
	for _, n := range NamedFilters {
		if n.Filter.Key() == key {
			return n, true
		}
	}
	return Named{}, false
}
