// Package textutil provides ANSI-aware text shaping for the progress UI's
// single-screen view, so a long step name or failure message wraps or
// truncates cleanly instead of breaking the terminal layout.
package textutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
)

// WrapText wraps text to width columns, accounting for ANSI escapes so
// styled strings still wrap at the right visible column.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// TruncateWithEllipsis shortens line to width visible columns, replacing
// the tail with "..." when it was cut. A line already within width is
// returned unchanged.
func TruncateWithEllipsis(line string, width int) string {
	lineWidth := ansi.StringWidth(line)
	if lineWidth <= width {
		return line
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}
	return ansi.Cut(line, 0, width-3) + "..."
}
