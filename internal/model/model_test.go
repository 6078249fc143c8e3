package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		zero  bool
	}{
		{"naive microseconds", `"2025-11-05T17:42:11.630705"`, time.Date(2025, 11, 5, 17, 42, 11, 630705000, time.UTC), false},
		{"naive seconds", `"2025-11-05T17:42:11"`, time.Date(2025, 11, 5, 17, 42, 11, 0, time.UTC), false},
		{"rfc3339 zulu", `"2025-11-05T17:42:11Z"`, time.Date(2025, 11, 5, 17, 42, 11, 0, time.UTC), false},
		{"space separated with tz", `"2025-11-05 17:42:11.630705+00:00"`, time.Date(2025, 11, 5, 17, 42, 11, 630705000, time.UTC), false},
		{"null", `null`, time.Time{}, true},
		{"empty string", `""`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			if tt.zero {
				assert.True(t, ts.IsZero())
				return
			}
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestampUnmarshalInvalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestArticleDecodesNullableFields(t *testing.T) {
	body := `{"id":7,"feed_id":2,"title":"T","url":"https://x","content":"<p>x</p>",
		"published_at":null,"fetched_at":"2025-01-02T03:04:05","is_read":false,
		"is_saved":true,"is_archived":false,"tags":[{"id":1,"name":"go"}]}`

	var a Article
	require.NoError(t, json.Unmarshal([]byte(body), &a))

	assert.Nil(t, a.Author)
	assert.Nil(t, a.Note)
	assert.True(t, a.PublishedAt.IsZero())
	assert.Equal(t, a.FetchedAt.Time, a.DisplayTime())
	assert.True(t, a.HasTag("go"))
	assert.False(t, a.HasTag("rust"))
}

func TestArticleUpdateOmitsUnsetFields(t *testing.T) {
	b, err := json.Marshal(ArticleUpdate{IsRead: Bool(true)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_read":true}`, string(b))

	assert.True(t, ArticleUpdate{}.Empty())
	assert.False(t, ArticleUpdate{Note: String("")}.Empty())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("g")
	require.NoError(t, err)
	assert.Equal(t, Green, c)

	_, err = ParseColor("purple")
	assert.Error(t, err)

	assert.True(t, Pink.Valid())
	assert.False(t, Color("red").Valid())
}
