package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/theme"
)

const bgReset = "\x1b[49m"

func bgSGR(hex string) string {
	r, g, b, err := theme.ParseHexColor(hex)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

// Paint replaces highlight sentinels with background colors. Inside a run
// the background is restored after every SGR reset and around line breaks,
// so glamour's own styling cannot clear it. Nested runs restore the outer color.
func Paint(s string, th theme.Theme) string {
	if !strings.ContainsRune(s, markClose) {
		return s
	}

	var out strings.Builder
	out.Grow(len(s) + 64)
	var stack []string

	active := func() string {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1]
	}

	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], "\x1b[0m") || strings.HasPrefix(s[i:], "\x1b[m") {
			n := 4
			if s[i+2] == 'm' {
				n = 3
			}
			out.WriteString(s[i : i+n])
			out.WriteString(active())
			i += n
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r >= markOpen && r < markOpen+rune(len(model.Colors)):
			sgr := bgSGR(th.Mark(model.Colors[r-markOpen]).Background)
			stack = append(stack, sgr)
			out.WriteString(sgr)
		case r == markClose:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if bg := active(); bg != "" {
				out.WriteString(bg)
			} else {
				out.WriteString(bgReset)
			}
		case r == '\n' && len(stack) > 0:
			out.WriteString(bgReset)
			out.WriteByte('\n')
			out.WriteString(active())
		default:
			out.WriteString(s[i : i+size])
		}
		i += size
	}

	if len(stack) > 0 {
		out.WriteString(bgReset)
	}
	return out.String()
}

// Strip removes sentinels without painting
func Strip(s string) string {
	return strings.Map(func(r rune) rune {
		if r == markClose || (r >= markOpen && r < markOpen+rune(len(model.Colors))) {
			return -1
		}
		return r
	}, s)
}
