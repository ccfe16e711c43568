package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStateColor(t *testing.T) {
	theme := DarkTheme()
	tests := []struct {
		state string
		want  lipgloss.Color
	}{
		{"running", theme.Healthy},
		{"paused", theme.Warning},
		{"restarting", theme.Warning},
		{"exited", theme.Critical},
		{"dead", theme.Critical},
		{"something", theme.FgDim},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, theme.StateColor(tt.state), "StateColor(%q)", tt.state)
	}
}

func TestStateIndicator(t *testing.T) {
	theme := DarkTheme()
	tests := []struct {
		state string
		want  string
	}{
		{"running", "●"},
		{"exited", "○"},
		{"paused", "○"},
		{"created", "○"},
	}
	for _, tt := range tests {
		assert.Contains(t, stripANSI(theme.StateIndicator(tt.state)), tt.want, "StateIndicator(%q)", tt.state)
	}
}

func TestThemeToggled(t *testing.T) {
	assert.Equal(t, "light", DarkTheme().Toggled().Name)
	assert.Equal(t, "dark", LightTheme().Toggled().Name)
	assert.Equal(t, "dark", ThemeFor("bogus").Name, "unknown names fall back to dark")
}
