package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kballard/go-shellquote"

	"github.com/thobiasn/opendocker/internal/dialog"
	"github.com/thobiasn/opendocker/internal/docker"
	"github.com/thobiasn/opendocker/internal/history"
)

// recallSize is how many past commands the exec dialog can recall.
const recallSize = 50

type execDoneMsg struct {
	owner   *execDialog
	output  string
	err     error
	elapsed time.Duration
}

type execHistoryMsg struct {
	owner    *execDialog
	commands []string
}

// execDialog runs a one-shot command in the active container, like
// `docker exec <container> <args>`. Failures stay in the dialog; success
// closes every dialog and reports on the status line.
type execDialog struct {
	docker    Docker
	history   *history.Store
	container docker.Container
	timeout   time.Duration
	theme     *Theme

	input   textinput.Model
	spinner spinner.Model
	running bool
	err     error
	output  string

	recall    []string // newest first
	recallIdx int      // -1 while editing a fresh line
	draft     string
}

func newExecDialog(dk Docker, store *history.Store, c docker.Container, timeout time.Duration, theme *Theme) (*execDialog, tea.Cmd) {
	in := textinput.New()
	in.Placeholder = `Type a command... "composer install"`
	in.Prompt = "❯ "
	in.CharLimit = 1024
	focus := in.Focus()

	d := &execDialog{
		docker:    dk,
		history:   store,
		container: c,
		timeout:   timeout,
		theme:     theme,
		input:     in,
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		recallIdx: -1,
	}
	return d, tea.Batch(focus, d.loadHistory())
}

func (d *execDialog) loadHistory() tea.Cmd {
	if d.history == nil {
		return nil
	}
	store := d.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		cmds, err := store.Commands(ctx, recallSize)
		if err != nil {
			slog.Warn("load exec history", "error", err)
		}
		return execHistoryMsg{owner: d, commands: cmds}
	}
}

func (d *execDialog) Update(msg tea.Msg) (dialog.Dialog, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.handleKey(msg)

	case execHistoryMsg:
		if msg.owner == d {
			d.recall = msg.commands
		}
		return d, nil

	case execDoneMsg:
		if msg.owner != d {
			return d, nil
		}
		d.running = false
		d.output = msg.output
		if msg.err != nil {
			d.err = msg.err
			return d, d.input.Focus()
		}
		return nil, tea.Batch(dialog.CloseAll, statusCmd(d.successText(msg), false))

	case spinner.TickMsg:
		if !d.running {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *execDialog) handleKey(msg tea.KeyMsg) (dialog.Dialog, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return nil, nil
	}
	if d.running {
		return d, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return d, d.submit()
	case tea.KeyUp:
		if d.recallIdx+1 < len(d.recall) {
			if d.recallIdx == -1 {
				d.draft = d.input.Value()
			}
			d.recallIdx++
			d.input.SetValue(d.recall[d.recallIdx])
			d.input.CursorEnd()
		}
		return d, nil
	case tea.KeyDown:
		if d.recallIdx >= 0 {
			d.recallIdx--
			if d.recallIdx == -1 {
				d.input.SetValue(d.draft)
			} else {
				d.input.SetValue(d.recall[d.recallIdx])
			}
			d.input.CursorEnd()
		}
		return d, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *execDialog) submit() tea.Cmd {
	command := strings.TrimSpace(d.input.Value())
	if command == "" {
		return nil
	}
	argv, err := shellquote.Split(command)
	if err != nil {
		d.err = fmt.Errorf("parse command: %w", err)
		return nil
	}
	if len(argv) == 0 {
		return nil
	}

	d.running = true
	d.err = nil
	d.output = ""
	d.recallIdx = -1
	d.input.Blur()
	return tea.Batch(d.spinner.Tick, d.run(command, argv))
}

func (d *execDialog) run(command string, argv []string) tea.Cmd {
	dk, store, timeout := d.docker, d.history, d.timeout
	id, name := d.container.ID, d.container.Name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		out, err := dk.Exec(ctx, id, argv)
		elapsed := time.Since(start)
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", timeout)
		}

		var exit *docker.ExitError
		if err == nil || errors.As(err, &exit) {
			code := 0
			if exit != nil {
				code = exit.Code
			}
			if herr := store.Record(context.Background(), history.Entry{Container: name, Command: command, ExitCode: code}); herr != nil {
				slog.Warn("record exec history", "error", herr)
			}
		}
		return execDoneMsg{owner: d, output: out, err: err, elapsed: elapsed}
	}
}

func (d *execDialog) successText(msg execDoneMsg) string {
	text := fmt.Sprintf("Ran in %s (%s)", d.container.Name, msg.elapsed.Round(time.Millisecond))
	if last := lastLine(msg.output); last != "" {
		text += ": " + last
	}
	return text
}

// lastLine returns the last non-blank line of s.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

func (d *execDialog) View(width, height int) string {
	theme := d.theme
	const modalW = 70
	innerW := min(modalW, width-4) - 6

	header := brightStyle(theme).Bold(true).Render("Execute in") + " " + mutedStyle(theme).Render(d.container.Name)
	lines := []string{header, ""}

	if d.running {
		sp := d.spinner
		sp.Style = accentStyle(theme)
		lines = append(lines, sp.View()+" "+fgStyle(theme).Render(Truncate(d.input.Value(), innerW-2)))
	} else {
		in := d.input
		in.Width = max(innerW-lipgloss.Width(in.Prompt)-1, 10)
		lines = append(lines, in.View())
	}

	if d.err != nil {
		errText := d.err.Error()
		// The output tail is rendered below; don't repeat it in the error.
		var exit *docker.ExitError
		if errors.As(d.err, &exit) {
			errText = fmt.Sprintf("exit status %d", exit.Code)
		}
		lines = append(lines, "")
		for _, l := range wrapText(errText, innerW) {
			lines = append(lines, errorStyle(theme).Render(l))
		}
	}
	if out := strings.TrimRight(d.output, "\n"); out != "" && d.err != nil {
		wrapped := wrapText(out, innerW)
		// Keep the tail; that is where errors usually are.
		if len(wrapped) > 8 {
			wrapped = wrapped[len(wrapped)-8:]
		}
		lines = append(lines, "")
		for _, l := range wrapped {
			lines = append(lines, mutedStyle(theme).Render(l))
		}
	}

	tips := dialogTips(theme, "enter", "run", "↑/↓", "history", "esc", "close")
	return (dialogLayout{
		title: "Exec",
		width: modalW,
		lines: lines,
		tips:  tips,
	}).render(width, height, theme)
}
