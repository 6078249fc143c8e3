package model

import (
	"fmt"
	"time"
)

// Feed is a subscribed content source
type Feed struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	FetchInterval int       `json:"fetch_interval,omitempty"`
	IsActive      bool      `json:"is_active"`
	LastFetched   Timestamp `json:"last_fetched"`
	CreatedAt     Timestamp `json:"created_at"`
}

// Tag is a free-text label shared across articles
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Article is a single fetched item. Content is pre-sanitized HTML owned by the server.
type Article struct {
	ID          int64     `json:"id"`
	FeedID      int64     `json:"feed_id"`
	Title       string    `json:"title"`
	Author      *string   `json:"author,omitempty"`
	URL         string    `json:"url"`
	Content     string    `json:"content"`
	PublishedAt Timestamp `json:"published_at"`
	FetchedAt   Timestamp `json:"fetched_at"`
	IsRead      bool      `json:"is_read"`
	IsSaved     bool      `json:"is_saved"`
	IsArchived  bool      `json:"is_archived"`
	Note        *string   `json:"note,omitempty"`
	Tags        []Tag     `json:"tags"`
}

// DisplayTime returns published_at, falling back to fetched_at
func (a Article) DisplayTime() time.Time {
	if !a.PublishedAt.IsZero() {
		return a.PublishedAt.Time
	}
	return a.FetchedAt.Time
}

// HasTag reports whether the article carries a tag with the given name
func (a Article) HasTag(name string) bool {
	for _, t := range a.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Color is one of the fixed highlight colors
type Color string

const (
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	Pink   Color = "pink"
)

// Colors lists highlight colors in picker order
var Colors = []Color{Yellow, Green, Blue, Pink}

// Valid reports whether c is a known highlight color
func (c Color) Valid() bool {
	switch c {
	case Yellow, Green, Blue, Pink:
		return true
	}
	return false
}

// ParseColor accepts a color name or its first letter
func ParseColor(s string) (Color, error) {
	switch s {
	case "yellow", "y":
		return Yellow, nil
	case "green", "g":
		return Green, nil
	case "blue", "b":
		return Blue, nil
	case "pink", "p":
		return Pink, nil
	}
	return "", fmt.Errorf("unknown highlight color %q (yellow, green, blue, pink)", s)
}

// Highlight is a saved (text, color) pair inside an article.
// Text has no stored position; it is matched textually against the content.
type Highlight struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"article_id"`
	Text      string    `json:"text"`
	Color     Color     `json:"color"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// FeedCreate is the payload for POST /feeds/
type FeedCreate struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// FeedUpdate is a partial update for PATCH /feeds/{id}
type FeedUpdate struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ArticleUpdate is a partial update for PATCH /articles/{id}/.
// Nil fields are omitted from the request body.
type ArticleUpdate struct {
	IsRead     *bool   `json:"is_read,omitempty"`
	IsSaved    *bool   `json:"is_saved,omitempty"`
	IsArchived *bool   `json:"is_archived,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// Empty reports whether the update carries no fields
func (u ArticleUpdate) Empty() bool {
	return u.IsRead == nil && u.IsSaved == nil && u.IsArchived == nil && u.Note == nil
}

// TagRequest is the payload for POST /articles/{id}/tags
type TagRequest struct {
	Name string `json:"name"`
}

// HighlightCreate is the payload for POST /articles/{id}/highlights
type HighlightCreate struct {
	Text  string  `json:"text"`
	Color Color   `json:"color"`
	Note  *string `json:"note,omitempty"`
}

// HighlightUpdate is a partial update for PATCH /articles/highlights/{id}
type HighlightUpdate struct {
	Color *Color  `json:"color,omitempty"`
	Note  *string `json:"note,omitempty"`
}

// Bool returns a pointer to b
func Bool(b bool) *bool { return &b }

// String returns a pointer to s
func String(s string) *string { return &s }
