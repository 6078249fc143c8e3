// Package export writes an annotated article as a markdown file
package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/krepsys/tui/internal/model"
	"github.com/krepsys/tui/internal/render"
)

const maxSlug = 100

// FrontMatter is the YAML header of an exported article
type FrontMatter struct {
	Title       string     `yaml:"title"`
	URL         string     `yaml:"url"`
	Author      string     `yaml:"author,omitempty"`
	FeedID      int64      `yaml:"feed_id"`
	PublishedAt *time.Time `yaml:"published_at,omitempty"`
	Tags        []string   `yaml:"tags"`
	Saved       bool       `yaml:"saved"`
	Archived    bool       `yaml:"archived"`
	ExportedAt  time.Time  `yaml:"exported_at"`
}

// Exporter renders articles to markdown documents
type Exporter struct {
	sanitizer *render.Sanitizer
	now       func() time.Time
}

// New creates an exporter; sanitize strips active content from the body
func New(sanitize bool) *Exporter {
	e := &Exporter{now: func() time.Time { return time.Now().UTC() }}
	if sanitize {
		e.sanitizer = render.NewSanitizer()
	}
	return e
}

// Markdown builds the full document for a and its highlights
func (e *Exporter) Markdown(a model.Article, highlights []model.Highlight) (string, error) {
	fm := FrontMatter{
		Title:      a.Title,
		URL:        a.URL,
		FeedID:     a.FeedID,
		Tags:       make([]string, 0, len(a.Tags)),
		Saved:      a.IsSaved,
		Archived:   a.IsArchived,
		ExportedAt: e.now(),
	}
	if a.Author != nil {
		fm.Author = *a.Author
	}
	if !a.PublishedAt.IsZero() {
		t := a.PublishedAt.UTC()
		fm.PublishedAt = &t
	}
	for _, t := range a.Tags {
		fm.Tags = append(fm.Tags, t.Name)
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	body, err := render.Markdown(a.Content, highlights, render.Options{
		Sanitizer: e.sanitizer,
		BaseURL:   a.URL,
		Mark:      render.EqualsMarks,
	})
	if err != nil {
		return "", err
	}

	var content strings.Builder
	content.WriteString("---\n")
	content.Write(header)
	content.WriteString("---\n\n")
	content.WriteString("# " + a.Title + "\n\n")

	if body != "" {
		content.WriteString(body)
		content.WriteString("\n")
	} else {
		content.WriteString(fmt.Sprintf("*No content. Source: %s*\n", a.URL))
	}

	if a.Note != nil && strings.TrimSpace(*a.Note) != "" {
		content.WriteString("\n## Note\n\n")
		content.WriteString(strings.TrimSpace(*a.Note))
		content.WriteString("\n")
	}

	if len(highlights) > 0 {
		content.WriteString("\n## Highlights\n\n")
		for _, h := range highlights {
			content.WriteString(fmt.Sprintf("- [%s] %s\n", h.Color, oneLine(html.UnescapeString(h.Text))))
			if h.Note != nil && strings.TrimSpace(*h.Note) != "" {
				content.WriteString("  > " + oneLine(*h.Note) + "\n")
			}
		}
	}

	return content.String(), nil
}

// Filename is <slug(title)>-<id>.md
func Filename(a model.Article) string {
	base := slug.Make(a.Title)
	if len(base) > maxSlug {
		base = strings.TrimRight(base[:maxSlug], "-")
	}
	if base == "" {
		base = "article"
	}
	return base + "-" + strconv.FormatInt(a.ID, 10) + ".md"
}

// Write renders a into dir and returns the written path.
// An existing file gets a numeric suffix instead of being overwritten.
func (e *Exporter) Write(dir string, a model.Article, highlights []model.Highlight) (string, error) {
	content, err := e.Markdown(a, highlights)
	if err != nil {
		return "", fmt.Errorf("failed to build content: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := resolveCollision(filepath.Join(dir, Filename(a)))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

func resolveCollision(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; n <= 100; n++ {
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
	return fmt.Sprintf("%s-%d%s", base, time.Now().Unix(), ext)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
