// Package output formats the non-interactive krepsys commands
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes status lines for CLI commands
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// UseColors reports whether stdout should be colored. NO_COLOR and a dumb
// terminal turn colors off.
func UseColors() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return !color.NoColor
}

// NewPrinter writes to stdout and stderr
func NewPrinter(useColors bool) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, useColors)
}

// NewPrinterWithWriters is NewPrinter with explicit writers
func NewPrinterWithWriters(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// Out is the writer for command output, tables included
func (p *Printer) Out() io.Writer { return p.out }

// Success prints a success line
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Error prints an error line to stderr
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Print prints a plain line
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a section header
func (p *Printer) Header(title string) {
	if p.useColors {
		color.New(color.FgCyan, color.Bold).Fprintf(p.out, "%s\n", title)
		return
	}
	fmt.Fprintf(p.out, "%s\n", title)
}

// Unread marks an unread article
func (p *Printer) Unread(unread bool) string {
	if !unread {
		return " "
	}
	if p.useColors {
		return color.CyanString("●")
	}
	return "*"
}

// Bold returns text in bold
func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}

// Dim returns dimmed text
func (p *Printer) Dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}
