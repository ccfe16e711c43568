package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// Truncate shortens a plain (non-styled) string to maxLen, ending in "…" if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

// TruncateStyled shortens a string that may contain ANSI escape sequences.
func TruncateStyled(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "…")
}

func stripANSI(s string) string { return ansi.Strip(s) }

// formatSize renders an image size the way `docker images` does ("187 MB").
func formatSize(n int64) string {
	if n < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}

// formatAge renders t relative to now ("3 days ago"); the zero time is "-".
func formatAge(t, now time.Time) string {
	if t.IsZero() || t.Unix() <= 0 {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Overlay composites fg centered on top of bg. Both strings are
// newline-separated terminal renderings.
func Overlay(bg, fg string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	fgW := 0
	for _, l := range fgLines {
		fgW = max(fgW, lipgloss.Width(l))
	}
	x := max((width-fgW)/2, 0)
	y := max((height-len(fgLines))/2, 0)

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLine := bgLines[row]

		left := ansi.Truncate(bgLine, x, "")
		if leftW := lipgloss.Width(left); leftW < x {
			left += strings.Repeat(" ", x-leftW)
		}
		right := ansi.TruncateLeft(bgLine, x+lipgloss.Width(fgLine), "")
		bgLines[row] = left + fgLine + right
	}

	if len(bgLines) > height {
		bgLines = bgLines[:height]
	}
	return strings.Join(bgLines, "\n")
}

// renderBox renders a rounded box with the title embedded in the top border.
// content is padded or cut to fit the inner area.
func renderBox(title, content string, width, height int, border lipgloss.Color, titleStyle lipgloss.Style) string {
	width = max(width, 4)
	height = max(height, 2)
	innerW := width - 2
	borderStyle := lipgloss.NewStyle().Foreground(border)

	var top string
	if title != "" {
		titleStr := " " + title + " "
		if lipgloss.Width(titleStr) > innerW-1 {
			titleStr = TruncateStyled(titleStr, innerW-1)
		}
		trailing := max(innerW-1-lipgloss.Width(titleStr), 0)
		top = borderStyle.Render("╭─") + titleStyle.Render(titleStr) + borderStyle.Render(strings.Repeat("─", trailing)+"╮")
	} else {
		top = borderStyle.Render("╭" + strings.Repeat("─", innerW) + "╮")
	}

	var b strings.Builder
	b.WriteString(top)
	innerH := height - 2
	if innerH > 0 {
		lines := strings.Split(padLines(content, innerH), "\n")
		for _, line := range lines {
			line = TruncateStyled(line, innerW)
			pad := max(innerW-lipgloss.Width(line), 0)
			b.WriteByte('\n')
			b.WriteString(borderStyle.Render("│"))
			b.WriteString(line)
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(borderStyle.Render("│"))
		}
	}
	b.WriteByte('\n')
	b.WriteString(borderStyle.Render("╰" + strings.Repeat("─", innerW) + "╯"))
	return b.String()
}

// dialogTips builds a footer tip string from alternating key-label pairs.
// Arguments: "enter", "run", "esc", "close", ...
func dialogTips(theme *Theme, bindings ...string) string {
	fg := fgStyle(theme)
	muted := mutedStyle(theme)
	var parts []string
	for i := 0; i+1 < len(bindings); i += 2 {
		parts = append(parts, fg.Render(bindings[i])+" "+muted.Render(bindings[i+1]))
	}
	return strings.Join(parts, "  ")
}

// dialogLayout describes a centered modal dialog.
type dialogLayout struct {
	title      string
	titleColor lipgloss.Color // defaults to theme.Accent
	width      int            // desired modal width (clamped to terminal - 4)
	lines      []string       // content lines, left-aligned with a 2 column margin
	tips       string         // footer tip line
}

func (d dialogLayout) render(termW, termH int, theme *Theme) string {
	modalW := min(d.width, termW-4)
	innerW := modalW - 2

	padded := []string{""}
	for _, l := range d.lines {
		if l == "" {
			padded = append(padded, "")
			continue
		}
		padded = append(padded, "  "+l)
	}
	if d.tips != "" {
		tipPad := max((innerW-lipgloss.Width(d.tips))/2, 2)
		padded = append(padded, "", strings.Repeat(" ", tipPad)+d.tips)
	}

	modalH := min(len(padded)+2, termH-2)
	titleColor := d.titleColor
	if titleColor == "" {
		titleColor = theme.Accent
	}
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	return renderBox(d.title, strings.Join(padded, "\n"), modalW, modalH, theme.Accent, titleStyle)
}

// wrapText wraps a string into lines of the given width, breaking on rune boundaries.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			lines = append(lines, "")
			continue
		}
		for len(runes) > width {
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		lines = append(lines, string(runes))
	}
	return lines
}

// centerText pads a styled string to center it within totalW.
func centerText(s string, totalW int) string {
	w := lipgloss.Width(s)
	if w >= totalW {
		return s
	}
	return strings.Repeat(" ", (totalW-w)/2) + s
}
