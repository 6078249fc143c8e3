package model

import (
	"fmt"
	"time"
)

// Timestamp wraps time.Time to accept the backend's ISO8601 variants.
// The zero value encodes as null.
type Timestamp struct {
	time.Time
}

// timestampFormats are tried in order; naive timestamps are read as UTC
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// UnmarshalJSON parses "2025-11-05T17:42:11.630705" and friends
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)

	if s == "null" {
		t.Time = time.Time{}
		return nil
	}

	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid time string: %s", s)
	}
	s = s[1 : len(s)-1]
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	var err error
	for _, format := range timestampFormats {
		var parsed time.Time
		parsed, err = time.Parse(format, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("failed to parse time %q: %w", s, err)
}

// MarshalJSON writes RFC3339 with microseconds, or null for the zero time
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format("2006-01-02T15:04:05.999999Z07:00") + `"`), nil
}
