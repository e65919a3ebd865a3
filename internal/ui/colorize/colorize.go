// Package colorize renders highlighted ranges for terminals and browsers.
package colorize

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"themecheck/internal/highlight"
	"themecheck/internal/style"
)

// NoColorEnv disables ANSI output when set to any non-empty value.
const NoColorEnv = "THEMECHECK_NO_COLOR"

// Enabled reports whether ANSI colors should be emitted by default.
func Enabled() bool {
	return os.Getenv(NoColorEnv) == ""
}

// RangeStyle converts a resolved style into a lipgloss style.
func RangeStyle(rs highlight.ResolvedStyle) lipgloss.Style {
	s := lipgloss.NewStyle()
	if rs.Foreground != "" {
		s = s.Foreground(lipgloss.Color(rs.Foreground))
	}
	if rs.FontStyle.Has(style.Bold) {
		s = s.Bold(true)
	}
	if rs.FontStyle.Has(style.Italic) {
		s = s.Italic(true)
	}
	if rs.FontStyle.Has(style.Underline) {
		s = s.Underline(true)
	}
	if rs.FontStyle.Has(style.Strikethrough) {
		s = s.Strikethrough(true)
	}
	return s
}

// Lines renders ranges one string per document line, styled when color is
// set. Ranges must be in document order, as Merge produces them.
func Lines(ranges []highlight.Range, color bool) []string {
	var lines []string
	var sb strings.Builder
	line := -1
	for _, r := range ranges {
		for line < r.Start.Line {
			if line >= 0 {
				lines = append(lines, sb.String())
				sb.Reset()
			}
			line++
		}
		if r.Text == "" {
			continue
		}
		if color {
			sb.WriteString(RangeStyle(r.Style).Render(r.Text))
		} else {
			sb.WriteString(r.Text)
		}
	}
	if line >= 0 {
		lines = append(lines, sb.String())
	}
	return lines
}

// ANSI renders ranges as terminal text with one line per document line.
func ANSI(ranges []highlight.Range, color bool) string {
	return strings.Join(Lines(ranges, color), "\n")
}

// Plain returns the document text the ranges cover.
func Plain(ranges []highlight.Range) string {
	var sb strings.Builder
	line := 0
	for _, r := range ranges {
		for ; line < r.Start.Line; line++ {
			sb.WriteByte('\n')
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}
