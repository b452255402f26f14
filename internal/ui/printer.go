// Package ui renders bookdb's human-facing output: context banners, tables
// for ls, and status lines. Everything goes to stderr so stdout stays clean
// for values and scripting.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dukaforge/bookdb/pkg/chain"
)

var (
	colorAccent  = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A80")

	styleBanner = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSuccess = lipgloss.NewStyle().Foreground(colorAccent)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarning)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
)

// Printer renders styled output. Quiet suppresses banners and informational
// lines but never errors.
type Printer struct {
	out   io.Writer
	quiet bool
}

// NewPrinter returns a Printer writing to stderr.
func NewPrinter(quiet bool) *Printer {
	return &Printer{out: os.Stderr, quiet: quiet}
}

// NewPrinterTo returns a Printer writing to w, for tests.
func NewPrinterTo(w io.Writer, quiet bool) *Printer {
	return &Printer{out: w, quiet: quiet}
}

// ContextChanged shows the context banner. It implements session.Notifier.
func (p *Printer) ContextChanged(c chain.Chain) {
	if p.quiet {
		return
	}
	label := "Context"
	switch c.Mode {
	case chain.Ephemeral:
		label = "Context (one-shot)"
	case chain.Action:
		label = "Context (action)"
	}
	fmt.Fprintln(p.out, styleBanner.Render(fmt.Sprintf("%s: %s", label, c.String())))
}

// CursorStatus renders the cursor breakdown for the cursor command.
func (p *Printer) CursorStatus(cur chain.Cursor) {
	fmt.Fprintln(p.out, styleHeader.Render("Cursor status"))
	fmt.Fprintf(p.out, "  Base:    %s\n", cur.Base)
	if cur.Chain == nil {
		fmt.Fprintf(p.out, "  Context: %s\n", styleMuted.Render("<not set>"))
		fmt.Fprintln(p.out, styleMuted.Render("  Use 'bookdb use @container.subcontainer.var.keystore' to set a context."))
		return
	}
	c := cur.Chain
	fmt.Fprintf(p.out, "  Context: %s\n", c.String())
	fmt.Fprintf(p.out, "    Container:    %s\n", c.Container)
	fmt.Fprintf(p.out, "    Subcontainer: %s\n", c.Subcontainer)
	fmt.Fprintf(p.out, "    Anchor:       %s\n", c.Anchor)
	fmt.Fprintf(p.out, "    Tail:         %s\n", c.Tail)
	fmt.Fprintf(p.out, "    Mode:         %s (%s)\n", c.Mode.Prefix(), c.Mode)
}

// Table renders rows under a header line with aligned columns.
func (p *Printer) Table(title string, headers []string, rows [][]string) {
	if title != "" {
		fmt.Fprintln(p.out, styleHeader.Render(title))
	}
	if len(rows) == 0 {
		fmt.Fprintln(p.out, styleMuted.Render("  (none)"))
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&b, "  %-*s", widths[i], h)
	}
	fmt.Fprintln(p.out, styleMuted.Render(b.String()))
	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			fmt.Fprintf(&b, "  %-*s", widths[i], cell)
		}
		fmt.Fprintln(p.out, b.String())
	}
	fmt.Fprintln(p.out, styleMuted.Render(fmt.Sprintf("  Total: %d", len(rows))))
}

// Successf prints a success line unless quiet.
func (p *Printer) Successf(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, styleSuccess.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Infof prints an informational line unless quiet.
func (p *Printer) Infof(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Warnf prints a warning line unless quiet.
func (p *Printer) Warnf(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, styleWarn.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Errorf always prints, quiet or not.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.out, styleError.Render("✗ "+fmt.Sprintf(format, args...)))
}
