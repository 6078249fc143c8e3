package render

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var markClass = regexp.MustCompile(`^hl( hl-(yellow|green|blue|pink))?$`)

// Sanitizer strips active content from article HTML while keeping the
// highlight markers inserted by the overlay
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a UGC policy that also allows highlight markers
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("data-highlight-id").Matching(regexp.MustCompile(`^[0-9]+$`)).OnElements("mark")
	policy.AllowAttrs("data-color").Matching(regexp.MustCompile(`^(yellow|green|blue|pink)$`)).OnElements("mark")
	policy.AllowAttrs("class").Matching(markClass).OnElements("mark")
	policy.RequireNoFollowOnLinks(true)
	return &Sanitizer{policy: policy}
}

// Sanitize returns cleaned HTML
func (s *Sanitizer) Sanitize(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return s.policy.Sanitize(content)
}
