package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// crashReport replaces the dashboard after a panic so the terminal stays
// usable and the trace can be copied out.
type crashReport struct {
	message string
	stack   string
	copied  bool
	copyErr error
}

func newCrashReport(r any, stack []byte) *crashReport {
	return &crashReport{
		message: fmt.Sprint(r),
		stack:   strings.TrimSpace(string(stack)),
	}
}

func (c *crashReport) text() string {
	return "panic: " + c.message + "\n\n" + c.stack
}

func (a App) updateCrash(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "c":
			a.crash.copyErr = clipboard.WriteAll(a.crash.text())
			a.crash.copied = a.crash.copyErr == nil
		}
	}
	return a, nil
}

func (c *crashReport) view(w, h int, t *Theme) string {
	if w == 0 || h == 0 {
		return ""
	}
	lines := []string{
		errorStyle(t).Bold(true).Render("opendocker crashed"),
		"",
		fgStyle(t).Render(Truncate("panic: "+c.message, max(w-2, 1))),
		"",
	}
	for _, l := range strings.Split(c.stack, "\n") {
		lines = append(lines, mutedStyle(t).Render(Truncate(strings.ReplaceAll(l, "\t", "  "), max(w-2, 1))))
	}

	footer := dialogTips(t, "c", "copy trace", "q", "quit")
	switch {
	case c.copied:
		footer += "  " + accentStyle(t).Render("copied")
	case c.copyErr != nil:
		footer += "  " + errorStyle(t).Render("copy failed: "+c.copyErr.Error())
	}

	bodyH := max(h-1, 0)
	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}
	for i, l := range lines {
		lines[i] = " " + l
	}
	return padLines(strings.Join(lines, "\n"), bodyH) + "\n " + footer
}
