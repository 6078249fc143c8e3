// Package state holds the filter/selection state of a running session
package state

import (
	"github.com/krepsys/tui/internal/filter"
)

// Selection is the cross product of feed, filter and article selection.
// The zero value is "All" with nothing selected.
type Selection struct {
	filter  filter.Filter
	feed    *int64
	article *int64
}

// NewSelection starts from a named filter
func NewSelection(n filter.Named) Selection {
	return Selection{filter: n.Filter}
}

// ChooseFeed selects feed id, folds feed_id into the filter and clears the article
func (s Selection) ChooseFeed(id int64) Selection {
	return Selection{filter: s.filter.WithFeed(id), feed: &id}
}

// ChooseNamed replaces the filter wholesale and clears feed and article
func (s Selection) ChooseNamed(n filter.Named) Selection {
	return Selection{filter: n.Filter}
}

// ChooseFilter replaces the filter with an arbitrary predicate, keeping a
// feed selection only if the predicate still names that feed
func (s Selection) ChooseFilter(f filter.Filter) Selection {
	next := Selection{filter: f}
	if f.FeedID != nil {
		id := *f.FeedID
		next.feed = &id
	}
	return next
}

// ChooseArticle selects an article without touching the filter
func (s Selection) ChooseArticle(id int64) Selection {
	s.article = &id
	return s
}

// ClearArticle drops the article selection
func (s Selection) ClearArticle() Selection {
	s.article = nil
	return s
}

// Filter is the active predicate
func (s Selection) Filter() filter.Filter { return s.filter }

// Feed returns the selected feed id
func (s Selection) Feed() (int64, bool) {
	if s.feed == nil {
		return 0, false
	}
	return *s.feed, true
}

// Article returns the selected article id
func (s Selection) Article() (int64, bool) {
	if s.article == nil {
		return 0, false
	}
	return *s.article, true
}

// ActiveNamed is the named filter shown as selected, if any. A feed
// selection suppresses it even though the predicates could overlap.
func (s Selection) ActiveNamed() (filter.Named, bool) {
	if s.feed != nil {
		return filter.Named{}, false
	}
	return filter.Active(s.filter)
}
