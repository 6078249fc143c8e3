// Package filter holds the client-side article predicate and the named
// filters shown in the sidebar. Filters are never persisted; two filters
// are the same selection iff their Keys are equal.
package filter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/krepsys/tui/internal/model"
)

// Filter is a predicate over article fields. Nil fields match anything.
type Filter struct {
	FeedID     *int64 `json:"feed_id,omitempty"`
	IsRead     *bool  `json:"is_read,omitempty"`
	IsSaved    *bool  `json:"is_saved,omitempty"`
	IsArchived *bool  `json:"is_archived,omitempty"`
}

// Key is the canonical serialized form used for equality and cache keys
func (f Filter) Key() string {
	// Marshal of a struct of pointers cannot fail
	b, _ := json.Marshal(f)
	return string(b)
}

// Equal reports structural equality
func (f Filter) Equal(other Filter) bool {
	return f.Key() == other.Key()
}

// WithFeed returns a copy of f with feed_id set
func (f Filter) WithFeed(feedID int64) Filter {
	id := feedID
	f.FeedID = &id
	return f
}

// Values encodes the filter as /articles/ query parameters
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.FeedID != nil {
		v.Set("feed_id", strconv.FormatInt(*f.FeedID, 10))
	}
	if f.IsRead != nil {
		v.Set("is_read", strconv.FormatBool(*f.IsRead))
	}
	if f.IsSaved != nil {
		v.Set("is_saved", strconv.FormatBool(*f.IsSaved))
	}
	if f.IsArchived != nil {
		v.Set("is_archived", strconv.FormatBool(*f.IsArchived))
	}
	return v
}

// FromValues parses query parameters produced by Values
func FromValues(v url.Values) (Filter, error) {
	var f Filter
	if s := v.Get("feed_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid feed_id %q: %w", s, err)
		}
		f.FeedID = &id
	}
	for name, dst := range map[string]**bool{
		"is_read":     &f.IsRead,
		"is_saved":    &f.IsSaved,
		"is_archived": &f.IsArchived,
	} {
		s := v.Get(name)
		if s == "" {
			continue
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid %s %q: %w", name, s, err)
		}
		*dst = &b
	}
	return f, nil
}

// Matches evaluates the predicate locally against one article
func (f Filter) Matches(a model.Article) bool {
	if f.FeedID != nil && a.FeedID != *f.FeedID {
		return false
	}
	if f.IsRead != nil && a.IsRead != *f.IsRead {
		return false
	}
	if f.IsSaved != nil && a.IsSaved != *f.IsSaved {
		return false
	}
	if f.IsArchived != nil && a.IsArchived != *f.IsArchived {
		return false
	}
	return true
}

// Apply returns the articles that match f, preserving order
func (f Filter) Apply(articles []model.Article) []model.Article {
	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// Sort is the article list order
type Sort string

const (
	Newest Sort = "newest"
	Oldest Sort = "oldest"
)

// ParseSort accepts "newest" or "oldest"; empty means newest
func ParseSort(s string) (Sort, error) {
	switch s {
	case "", "newest":
		return Newest, nil
	case "oldest":
		return Oldest, nil
	}
	return "", fmt.Errorf("invalid sort %q (newest, oldest)", s)
}

// Toggle flips the order
func (s Sort) Toggle() Sort {
	if s == Oldest {
		return Newest
	}
	return Oldest
}
