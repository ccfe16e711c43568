package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thobiasn/opendocker/internal/dialog"
	"github.com/thobiasn/opendocker/internal/keybind"
)

// keybindsDialog lists every action with its resolved bindings.
type keybindsDialog struct {
	table  *keybind.Table
	theme  *Theme
	offset int
	height int
}

func newKeybindsDialog(table *keybind.Table, theme *Theme, height int) *keybindsDialog {
	return &keybindsDialog{table: table, theme: theme, height: height}
}

func (d *keybindsDialog) Update(msg tea.Msg) (dialog.Dialog, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.height = msg.Height
		d.offset = min(d.offset, d.maxOffset(d.height))
		return d, nil
	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	return d, nil
}

func (d *keybindsDialog) handleKey(msg tea.KeyMsg) (dialog.Dialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		return nil, nil
	case "j", "down":
		if d.offset < d.maxOffset(d.height) {
			d.offset++
		}
	case "k", "up":
		if d.offset > 0 {
			d.offset--
		}
	}
	return d, nil
}

func (d *keybindsDialog) View(width, height int) string {
	theme := d.theme
	actions := d.table.Actions()

	keyW := 0
	for _, a := range actions {
		keyW = max(keyW, lipgloss.Width(d.table.PrintAll(a)))
	}
	keyW = min(keyW, 28)

	visible := visibleRows(height)
	offset := min(d.offset, d.maxOffset(height))

	lines := []string{labelValue("leader", d.table.Leader().String(), keyW, theme), ""}
	for _, a := range actions[offset:min(offset+visible, len(actions))] {
		k := Truncate(d.table.PrintAll(a), keyW)
		k += strings.Repeat(" ", max(keyW-lipgloss.Width(k), 0))
		lines = append(lines, fgStyle(theme).Render(k)+"  "+mutedStyle(theme).Render(d.table.Help(a)))
	}

	return (dialogLayout{
		title: "Keybindings",
		width: 76,
		lines: lines,
		tips:  dialogTips(theme, "j/k", "scroll", "esc", "close"),
	}).render(width, height, theme)
}

// visibleRows is how many actions fit; borders, the leader row, blank lines
// and the tips take 10 rows.
func visibleRows(height int) int { return max(height-10, 3) }

func (d *keybindsDialog) maxOffset(height int) int {
	return max(len(d.table.Actions())-visibleRows(height), 0)
}
