package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thobiasn/opendocker/internal/docker"
	"github.com/thobiasn/opendocker/internal/poll"
	"github.com/thobiasn/opendocker/internal/state"
)

const detailLabelW = 11

// renderDetail renders the panel for the active entity of the focused pane.
func (a App) renderDetail(w, h int) string {
	kind := a.state.ActivePane()
	var title string
	var lines []string

	switch kind {
	case state.KindContainers:
		title = "Container"
		if c, ok := a.state.Containers.Active(); ok {
			lines = a.containerDetail(c, w-4)
		}
	case state.KindImages:
		title = "Image"
		if img, ok := a.state.Images.Active(); ok {
			lines = a.imageDetail(img)
		}
	case state.KindVolumes:
		title = "Volume"
		if v, ok := a.state.Volumes.Active(); ok {
			lines = a.volumeDetail(v)
		}
	}
	if lines == nil {
		lines = []string{mutedStyle(a.theme).Render("Nothing selected")}
	}

	for i, l := range lines {
		lines[i] = " " + l
	}
	titleStyle := brightStyle(a.theme).Bold(true)
	return renderBox(title, strings.Join(lines, "\n"), w, h, a.theme.Border, titleStyle)
}

func (a App) containerDetail(c docker.Container, w int) []string {
	t := a.theme
	st := lipgloss.NewStyle().Foreground(t.StateColor(c.State)).Render(c.State)
	lines := []string{
		brightStyle(t).Bold(true).Render(c.Name),
		mutedStyle(t).Render(c.Status) + styledSep(t) + st,
		"",
		labelValue("Image", c.Image, detailLabelW, t),
		labelValue("Id", docker.ShortID(c.ID), detailLabelW, t),
		labelValue("Created", formatAge(c.Created, a.now()), detailLabelW, t),
	}

	if len(c.Ports) > 0 {
		lines = append(lines, "", mutedStyle(t).Render("Ports"))
		for _, p := range c.Ports {
			lines = append(lines, "  "+fgStyle(t).Render(formatPort(p)))
		}
	}
	if len(c.Labels) > 0 {
		lines = append(lines, "", mutedStyle(t).Render("Labels"))
		for _, kv := range sortedPairs(c.Labels) {
			lines = append(lines, "  "+fgStyle(t).Render(Truncate(kv, max(w-2, 1))))
		}
	}
	return lines
}

func (a App) imageDetail(img docker.Image) []string {
	t := a.theme
	lines := []string{
		labelValue("Image", img.Name, detailLabelW, t),
		labelValue("Tag", img.Tag, detailLabelW, t),
		labelValue("Size", formatSize(img.Size), detailLabelW, t),
		labelValue("Created", formatAge(img.Created, a.now()), detailLabelW, t),
		labelValue("Id", docker.ShortID(img.ID), detailLabelW, t),
	}
	if len(img.Labels) > 0 {
		lines = append(lines, "", mutedStyle(t).Render("Labels"))
		for _, kv := range sortedPairs(img.Labels) {
			lines = append(lines, "  "+fgStyle(t).Render(kv))
		}
	}
	return lines
}

func (a App) volumeDetail(v docker.Volume) []string {
	t := a.theme
	lines := []string{
		labelValue("Name", v.Name, detailLabelW, t),
		labelValue("Driver", v.Driver, detailLabelW, t),
		labelValue("Scope", v.Scope, detailLabelW, t),
		labelValue("Mountpoint", v.Mountpoint, detailLabelW, t),
	}
	if v.CreatedAt != "" {
		created := v.CreatedAt
		if ts, err := time.Parse(time.RFC3339, v.CreatedAt); err == nil {
			created = formatAge(ts, a.now())
		}
		lines = append(lines, labelValue("Created", created, detailLabelW, t))
	}
	if len(v.Labels) > 0 {
		lines = append(lines, "", mutedStyle(t).Render("Labels"))
		for _, kv := range sortedPairs(v.Labels) {
			lines = append(lines, "  "+fgStyle(t).Render(kv))
		}
	}
	if len(v.Options) > 0 {
		lines = append(lines, "", mutedStyle(t).Render("Options"))
		for _, kv := range sortedPairs(v.Options) {
			lines = append(lines, "  "+fgStyle(t).Render(kv))
		}
	}
	return lines
}

// formatPort renders a port the way `docker ps` does.
func formatPort(p docker.Port) string {
	if p.Public == 0 {
		return fmt.Sprintf("%d/%s", p.Private, p.Type)
	}
	ip := p.IP
	if ip == "" {
		ip = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d->%d/%s", ip, p.Public, p.Private, p.Type)
}

// sortedPairs renders a map as sorted "k=v" strings.
func sortedPairs(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func pollSummary(name string, s poll.Stats) string {
	text := fmt.Sprintf("%s %d/%d %s", name, s.Polls-s.Failures, s.Polls, s.Last.Round(time.Millisecond))
	if s.LastErr != nil {
		text += " err"
	}
	return text
}
