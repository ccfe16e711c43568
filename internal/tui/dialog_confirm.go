package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thobiasn/opendocker/internal/dialog"
)

type confirmOptions struct {
	title   string
	prompt  string
	busy    string // shown while run is in progress
	success string // status line text after run succeeds
	theme   *Theme
	run     func() error // called from a command goroutine
}

// confirmDoneMsg carries the result of a confirmed action back to the
// dialog that started it.
type confirmDoneMsg struct {
	owner *confirmDialog
	err   error
}

// confirmDialog asks before running a destructive container action. Errors
// are shown in the dialog, which stays open; success closes every dialog.
type confirmDialog struct {
	opts    confirmOptions
	spinner spinner.Model
	running bool
	err     error
}

func newConfirmDialog(opts confirmOptions) *confirmDialog {
	return &confirmDialog{
		opts:    opts,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

func (d *confirmDialog) Update(msg tea.Msg) (dialog.Dialog, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "n":
			return nil, nil
		case "y", "enter":
			if d.running {
				return d, nil
			}
			d.running = true
			d.err = nil
			return d, tea.Batch(d.spinner.Tick, d.runCmd())
		}

	case confirmDoneMsg:
		if msg.owner != d {
			return d, nil
		}
		d.running = false
		if msg.err != nil {
			d.err = msg.err
			return d, nil
		}
		return nil, tea.Batch(dialog.CloseAll, statusCmd(d.opts.success, false))

	case spinner.TickMsg:
		if !d.running {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *confirmDialog) runCmd() tea.Cmd {
	run := d.opts.run
	return func() tea.Msg {
		return confirmDoneMsg{owner: d, err: run()}
	}
}

func (d *confirmDialog) View(width, height int) string {
	theme := d.opts.theme
	var lines []string
	switch {
	case d.running:
		sp := d.spinner
		sp.Style = accentStyle(theme)
		lines = append(lines, sp.View()+" "+fgStyle(theme).Render(d.opts.busy+"…"))
	default:
		lines = append(lines, brightStyle(theme).Render(d.opts.prompt))
	}
	if d.err != nil {
		lines = append(lines, "")
		for _, l := range wrapText(d.err.Error(), 44) {
			lines = append(lines, errorStyle(theme).Render(l))
		}
	}

	tips := dialogTips(theme, "y", "confirm", "esc", "cancel")
	if d.running {
		tips = dialogTips(theme, "esc", "close")
	}
	return (dialogLayout{
		title: d.opts.title,
		width: 52,
		lines: lines,
		tips:  tips,
	}).render(width, height, theme)
}
