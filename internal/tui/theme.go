package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds all colors used by the TUI. Views reference theme fields,
// never raw color values.
type Theme struct {
	Name string

	Fg       lipgloss.Color // default text
	FgDim    lipgloss.Color // labels, hints, collapsed panes
	FgBright lipgloss.Color // values, entity names
	Border   lipgloss.Color // inactive pane borders
	Accent   lipgloss.Color // focused pane, selection, spinner

	Healthy  lipgloss.Color // running
	Warning  lipgloss.Color // paused, restarting
	Critical lipgloss.Color // exited, errors
}

// DarkTheme returns the Tokyo Night palette.
func DarkTheme() Theme {
	return Theme{
		Name:     "dark",
		Fg:       lipgloss.Color("#a9b1d6"),
		FgDim:    lipgloss.Color("#565f89"),
		FgBright: lipgloss.Color("#c0caf5"),
		Border:   lipgloss.Color("#292e42"),
		Accent:   lipgloss.Color("#7aa2f7"),
		Healthy:  lipgloss.Color("#9ece6a"),
		Warning:  lipgloss.Color("#e0af68"),
		Critical: lipgloss.Color("#f7768e"),
	}
}

// LightTheme returns the Tokyo Night Day palette.
func LightTheme() Theme {
	return Theme{
		Name:     "light",
		Fg:       lipgloss.Color("#3760bf"),
		FgDim:    lipgloss.Color("#848cb5"),
		FgBright: lipgloss.Color("#1a1b26"),
		Border:   lipgloss.Color("#a8aecb"),
		Accent:   lipgloss.Color("#2e7de9"),
		Healthy:  lipgloss.Color("#587539"),
		Warning:  lipgloss.Color("#8c6c3e"),
		Critical: lipgloss.Color("#f52a65"),
	}
}

// ThemeFor returns the palette for a configured mode; anything but "light"
// is dark.
func ThemeFor(mode string) Theme {
	if mode == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Toggled returns the other palette.
func (t Theme) Toggled() Theme {
	if t.Name == "light" {
		return DarkTheme()
	}
	return LightTheme()
}

// StateColor returns a color for a container state string.
func (t Theme) StateColor(state string) lipgloss.Color {
	switch state {
	case "running":
		return t.Healthy
	case "paused", "restarting", "created":
		return t.Warning
	case "exited", "dead", "removing":
		return t.Critical
	default:
		return t.FgDim
	}
}

// StateIndicator returns a colored dot for a container state.
// Running containers get a filled dot, everything else a hollow one.
func (t Theme) StateIndicator(state string) string {
	style := lipgloss.NewStyle().Foreground(t.StateColor(state))
	if state == "running" {
		return style.Render("●")
	}
	return style.Render("○")
}
