package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/krepsys/tui/internal/model"
)

// Table collects rows and renders them borderless
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a table writing to w
func NewTable(w io.Writer, headers []string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	return &Table{table: table, header: headers}
}

// AddRow adds a row to the table
func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Len is the number of rows added
func (t *Table) Len() int { return len(t.rows) }

// Render writes the header and rows
func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return fmt.Errorf("failed to add rows: %w", err)
	}
	return t.table.Render()
}

// Feeds renders the feed list
func Feeds(p *Printer, feeds []model.Feed) error {
	t := NewTable(p.Out(), []string{"id", "name", "url", "last fetched"})
	for _, f := range feeds {
		fetched := "never"
		if !f.LastFetched.IsZero() {
			fetched = f.LastFetched.Local().Format("2006-01-02 15:04")
		}
		name := p.Bold(f.Name)
		if !f.IsActive {
			name = p.Dim(f.Name + " (paused)")
		}
		t.AddRow(strconv.FormatInt(f.ID, 10), name, f.URL, fetched)
	}
	return t.Render()
}

// FeedDetail renders one feed as field/value rows
func FeedDetail(p *Printer, f model.Feed) error {
	status := "active"
	if !f.IsActive {
		status = "paused"
	}
	fetched := "never"
	if !f.LastFetched.IsZero() {
		fetched = f.LastFetched.Local().Format("2006-01-02 15:04")
	}
	interval := "server default"
	if f.FetchInterval > 0 {
		interval = (time.Duration(f.FetchInterval) * time.Second).String()
	}

	p.Header(f.Name)
	t := NewTable(p.Out(), []string{"field", "value"})
	t.AddRow("id", strconv.FormatInt(f.ID, 10))
	t.AddRow("url", f.URL)
	t.AddRow("status", status)
	t.AddRow("interval", interval)
	t.AddRow("last fetched", fetched)
	if !f.CreatedAt.IsZero() {
		t.AddRow("added", f.CreatedAt.Local().Format(time.DateOnly))
	}
	return t.Render()
}

// Articles renders an article list; feeds names the feed column
func Articles(p *Printer, articles []model.Article, feeds []model.Feed) error {
	names := make(map[int64]string, len(feeds))
	for _, f := range feeds {
		names[f.ID] = f.Name
	}

	t := NewTable(p.Out(), []string{"", "id", "title", "feed", "date", "tags"})
	for _, a := range articles {
		flags := p.Unread(!a.IsRead)
		if a.IsSaved {
			flags += "★"
		}
		date := ""
		if when := a.DisplayTime(); !when.IsZero() {
			date = when.Local().Format(time.DateOnly)
		}
		t.AddRow(flags, strconv.FormatInt(a.ID, 10), clip(a.Title, 60), names[a.FeedID], date, tagList(a.Tags))
	}
	return t.Render()
}

// Tags renders the tag vocabulary
func Tags(p *Printer, tags []model.Tag) error {
	t := NewTable(p.Out(), []string{"id", "name"})
	for _, tag := range tags {
		t.AddRow(strconv.FormatInt(tag.ID, 10), tag.Name)
	}
	return t.Render()
}

func tagList(tags []model.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = "#" + t.Name
	}
	return strings.Join(names, " ")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
