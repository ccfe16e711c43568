package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thobiasn/opendocker/internal/docker"
	"github.com/thobiasn/opendocker/internal/state"
)

const (
	minSidebarW = 28
	maxSidebarW = 48
	// Below this width the detail panel is dropped.
	minSplitW = 70
)

func (a App) View() (out string) {
	if a.crash != nil {
		return a.crash.view(a.width, a.height, a.theme)
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in view", "panic", r)
			out = fmt.Sprintf("render error: %v", r)
		}
	}()
	if a.width == 0 || a.height == 0 {
		return ""
	}

	base := a.renderMain()
	if a.dialogs.Len() > 0 {
		base = Overlay(base, a.dialogs.View(a.width, a.height), a.width, a.height)
	}
	return base
}

func (a App) renderMain() string {
	footer := a.renderFooter(a.width)
	bodyH := a.height - lipgloss.Height(footer)

	var body string
	if a.width < minSplitW {
		body = a.renderSidebar(a.width, bodyH)
	} else {
		sideW := min(max(a.width/3, minSidebarW), maxSidebarW)
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			a.renderSidebar(sideW, bodyH),
			a.renderDetail(a.width-sideW, bodyH),
		)
	}
	return padLines(body, bodyH) + "\n" + footer
}

// renderSidebar stacks one box per pane. The focused pane takes the spare
// height; the others collapse to a single summary line.
func (a App) renderSidebar(w, h int) string {
	const collapsedH = 3
	active := a.state.ActivePane()
	expandedH := max(h-collapsedH*(len(state.Kinds)-1), collapsedH)

	var boxes []string
	for i, k := range state.Kinds {
		title := fmt.Sprintf("[%d] %s", i+1, k.Title())
		if k != active {
			titleStyle := mutedStyle(a.theme)
			boxes = append(boxes, renderBox(title, a.paneSummary(k), w, collapsedH, a.theme.Border, titleStyle))
			continue
		}
		titleStyle := accentStyle(a.theme).Bold(true)
		content := a.paneContent(k, w-2, expandedH-2)
		boxes = append(boxes, renderBox(title, content, w, expandedH, a.theme.Accent, titleStyle))
	}
	return padLines(strings.Join(boxes, "\n"), h)
}

func (a App) spinnerView() string {
	sp := a.spinner
	sp.Style = accentStyle(a.theme)
	return sp.View()
}

// paneSummary is the one-line body of a collapsed pane.
func (a App) paneSummary(k state.Kind) string {
	if !a.state.Loaded(k) {
		return " " + a.spinnerView() + mutedStyle(a.theme).Render(" loading")
	}
	n := a.state.Len(k)
	noun := k.String()
	if n == 1 {
		noun = strings.TrimSuffix(noun, "s")
	}
	return mutedStyle(a.theme).Render(fmt.Sprintf(" %d %s", n, noun))
}

func (a App) paneContent(k state.Kind, w, h int) string {
	if !a.state.Loaded(k) {
		return " " + a.spinnerView() + mutedStyle(a.theme).Render(" loading "+k.String())
	}

	query := a.state.Query(k)
	filterLine := ""
	if a.state.Filtering() {
		in := a.filter
		in.Width = max(w-4, 1)
		filterLine = in.View()
	} else if query != "" {
		filterLine = mutedStyle(a.theme).Render("/ " + query)
	}
	listH := h
	if filterLine != "" {
		listH--
	}

	var rows []string
	switch k {
	case state.KindContainers:
		rows = listRows(&a.state.Containers, w, listH, a.containerRow)
	case state.KindImages:
		rows = listRows(&a.state.Images, w, listH, a.imageRow)
	case state.KindVolumes:
		rows = listRows(&a.state.Volumes, w, listH, a.volumeRow)
	}
	if len(rows) == 0 {
		msg := "No " + k.String() + " found"
		if query != "" {
			msg = "No " + k.String() + " match"
		}
		rows = []string{mutedStyle(a.theme).Render(" " + msg)}
	}

	content := padLines(strings.Join(rows, "\n"), listH)
	if filterLine != "" {
		content += "\n" + filterLine
	}
	return content
}

// listRows renders the visible slice of l that keeps the active row in view.
func listRows[T state.Entity](l *state.List[T], w, h int, render func(T, int) string) []string {
	vis := l.Visible()
	if h <= 0 || len(vis) == 0 {
		return nil
	}
	cur := 0
	for i, e := range vis {
		if e.Key() == l.ActiveID() {
			cur = i
			break
		}
	}
	offset := max(cur-h+1, 0)
	end := min(offset+h, len(vis))

	rows := make([]string, 0, end-offset)
	for _, e := range vis[offset:end] {
		row := render(e, w)
		if e.Key() == l.ActiveID() {
			row = cursorRow(row, w)
		}
		rows = append(rows, row)
	}
	return rows
}

func (a App) containerRow(c docker.Container, w int) string {
	dot := a.theme.StateIndicator(c.State)
	name := Truncate(c.Name, max(w-4, 1))
	return " " + dot + " " + fgStyle(a.theme).Render(name)
}

func (a App) imageRow(img docker.Image, w int) string {
	size := formatSize(img.Size)
	nameW := max(w-lipgloss.Width(size)-3, 1)
	name := Truncate(img.Name+":"+img.Tag, nameW)
	pad := max(w-2-lipgloss.Width(name)-lipgloss.Width(size), 1)
	return " " + fgStyle(a.theme).Render(name) + strings.Repeat(" ", pad) + mutedStyle(a.theme).Render(size)
}

func (a App) volumeRow(v docker.Volume, w int) string {
	return " " + fgStyle(a.theme).Render(Truncate(v.Name, max(w-2, 1)))
}

func (a App) renderFooter(w int) string {
	h := a.help
	h.Width = w
	h.Styles.ShortKey = fgStyle(a.theme)
	h.Styles.ShortDesc = mutedStyle(a.theme)
	h.Styles.ShortSeparator = mutedStyle(a.theme)
	left := h.ShortHelpView(a.bindings)

	var right string
	switch {
	case a.resolver.Pending():
		leader, _ := a.resolver.Captured()
		right = accentStyle(a.theme).Render(leader.String() + " …")
	case a.status.text != "":
		style := fgStyle(a.theme)
		if a.status.err {
			style = errorStyle(a.theme)
		}
		right = style.Render(Truncate(a.status.text, max(w/2, 10)))
	}

	gap := w - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		left = TruncateStyled(left, max(w-lipgloss.Width(right)-3, 0))
		gap = max(w-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	}
	line := " " + left + strings.Repeat(" ", gap) + right
	if !a.debug {
		return line
	}
	return a.renderDebug(w) + "\n" + line
}

// renderDebug shows poll health, chord state and dialog depth.
func (a App) renderDebug(w int) string {
	parts := []string{
		pollSummary("containers", a.containers.Stats()),
		pollSummary("images", a.images.Stats()),
		pollSummary("volumes", a.volumes.Stats()),
		fmt.Sprintf("dialogs %d", a.dialogs.Len()),
		fmt.Sprintf("leader %v", a.resolver.Pending()),
	}
	if a.host != "" {
		parts = append(parts, a.host)
	}
	return " " + mutedStyle(a.theme).Render(Truncate(strings.Join(parts, " · "), max(w-2, 1)))
}
