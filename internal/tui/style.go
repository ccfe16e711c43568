package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func mutedStyle(t *Theme) lipgloss.Style  { return lipgloss.NewStyle().Foreground(t.FgDim) }
func accentStyle(t *Theme) lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Accent) }
func fgStyle(t *Theme) lipgloss.Style     { return lipgloss.NewStyle().Foreground(t.Fg) }
func brightStyle(t *Theme) lipgloss.Style { return lipgloss.NewStyle().Foreground(t.FgBright) }
func errorStyle(t *Theme) lipgloss.Style  { return lipgloss.NewStyle().Foreground(t.Critical) }

// styledSep returns a " · " separator with a muted dot.
func styledSep(t *Theme) string {
	return " " + mutedStyle(t).Render("·") + " "
}

// cursorRow highlights a row as the cursor selection using Reverse.
func cursorRow(row string, w int) string {
	plain := Truncate(stripANSI(row), w)
	if pad := w - lipgloss.Width(plain); pad > 0 {
		plain += strings.Repeat(" ", pad)
	}
	return lipgloss.NewStyle().Reverse(true).Render(plain)
}

// padLines pads or trims content to exactly h lines.
func padLines(content string, h int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < h {
		lines = append(lines, "")
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

// labelValue renders a "Label  value" detail row with a fixed label column.
func labelValue(label, value string, labelW int, t *Theme) string {
	if pad := labelW - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	return mutedStyle(t).Render(label) + " " + brightStyle(t).Render(value)
}
