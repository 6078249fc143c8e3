package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krepsys/tui/internal/model"
)

func TestCleanCyberColors(t *testing.T) {
	tests := []struct {
		name     string
		color    string
		expected string
	}{
		{"Accent", string(CleanCyber.Accent), "#00D9FF"},
		{"Meta", string(CleanCyber.Meta), "#E6CCFF"},
		{"Success", string(CleanCyber.Success), "#00FF88"},
		{"Unread", string(CleanCyber.Unread), "#FF0066"},
		{"Muted", string(CleanCyber.Muted), "#666666"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.color)
		})
	}
}

// INVARIANT: every theme paints every highlight color
// BREAKS: a highlight renders without background in some theme
func TestEveryThemeHasMarks(t *testing.T) {
	for _, th := range Available {
		for _, c := range model.Colors {
			m := th.Mark(c)
			assert.NotEmpty(t, m.Background, "%s/%s", th.Name, c)
			_, _, _, err := ParseHexColor(m.Background)
			assert.NoError(t, err)
		}
		assert.Equal(t, th.Mark(model.Yellow), th.Mark("red"))
	}
}

func TestByNameAndNext(t *testing.T) {
	th, ok := ByName("light")
	require.True(t, ok)
	assert.Equal(t, "light", th.Name)

	th, ok = ByName("neon")
	assert.False(t, ok)
	assert.Equal(t, "clean_cyber", th.Name)

	assert.Equal(t, "monokai_pro", Next(CleanCyber).Name)
	assert.Equal(t, "clean_cyber", Next(Light).Name)
}

func TestInterpolateColor(t *testing.T) {
	assert.Equal(t, "#000000", InterpolateColor("#000000", "#FFFFFF", 0))
	assert.Equal(t, "#FFFFFF", InterpolateColor("#000000", "#FFFFFF", 2))
	assert.Equal(t, "#7F7F7F", InterpolateColor("#000000", "#FFFFFF", 0.5))
	assert.Equal(t, "bogus", InterpolateColor("bogus", "#FFFFFF", 0.5))
}

func TestGlamourStyleUsesPalette(t *testing.T) {
	s := CleanCyber.GlamourStyle()
	require.NotNil(t, s.Document.Color)
	assert.Equal(t, "#EEEEEE", *s.Document.Color)
	assert.Equal(t, "▸ ", s.H2.Prefix)
	assert.Equal(t, uint(0), *s.Document.Margin)
}

func TestHeaderWidth(t *testing.T) {
	assert.Equal(t, "", CleanCyber.Header("x", 0))
	out := CleanCyber.Header("Krepsys", 12)
	assert.True(t, strings.Contains(out, "K"))
}
