package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thobiasn/opendocker/internal/docker"
	"github.com/thobiasn/opendocker/internal/keybind"
	"github.com/thobiasn/opendocker/internal/state"
)

// leaderSlack delays the leader expiry tick past the resolver timeout so the
// tick never lands on the boundary.
const leaderSlack = 50 * time.Millisecond

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open dialog owns the keyboard.
	if a.dialogs.Len() > 0 {
		cmd, _ := a.dialogs.Update(msg)
		return a, cmd
	}

	if a.state.Filtering() {
		return a.handleFilterKey(msg)
	}

	d, ok := keyDescriptor(msg)
	if !ok {
		return a, nil
	}
	res := a.resolver.Resolve(d, a.now())
	if res.Pending {
		return a, tea.Tick(a.resolver.Timeout()+leaderSlack, func(time.Time) tea.Msg {
			return leaderExpireMsg{}
		})
	}

	var cmds []tea.Cmd
	for _, action := range res.Actions {
		var cmd tea.Cmd
		a, cmd = a.runAction(action)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) runAction(action keybind.Action) (App, tea.Cmd) {
	switch action {
	case keybind.AppExit:
		return a, tea.Quit

	case keybind.ThemeModeToggle:
		*a.theme = a.theme.Toggled()
		return a, nil

	case keybind.DebugToggle:
		a.debug = !a.debug
		return a, nil

	case keybind.CyclePane:
		a.state.CyclePane()
	case keybind.FocusContainers:
		a.state.SetActivePane(state.KindContainers)
	case keybind.FocusImages:
		a.state.SetActivePane(state.KindImages)
	case keybind.FocusVolumes:
		a.state.SetActivePane(state.KindVolumes)

	case keybind.Up:
		a.state.Move(-1)
	case keybind.Down:
		a.state.Move(1)

	case keybind.Filter:
		kind := a.state.ActivePane()
		a.state.SetFiltering(true)
		a.filter.SetValue(a.state.Query(kind))
		a.filter.CursorEnd()
		return a, a.filter.Focus()

	case keybind.CopyID:
		id := a.activeKey()
		if id == "" {
			return a, statusCmd("Nothing selected", true)
		}
		return a, copyCmd(id)

	case keybind.OpenSettings:
		a.dialogs.Push(newKeybindsDialog(a.resolver.Table(), a.theme, a.height))

	case keybind.ContainerStop:
		c, ok := a.state.Containers.Active()
		if !ok {
			return a, statusCmd("No container selected", true)
		}
		a.dialogs.Push(a.confirmAction("Stop", "Stopping", "Stopped", c, a.docker.Stop))

	case keybind.ContainerRestart:
		c, ok := a.state.Containers.Active()
		if !ok {
			return a, statusCmd("No container selected", true)
		}
		a.dialogs.Push(a.confirmAction("Restart", "Restarting", "Restarted", c, a.docker.Restart))

	case keybind.ContainerPause:
		c, ok := a.state.Containers.Active()
		if !ok {
			return a, statusCmd("No container selected", true)
		}
		return a, a.togglePause(c)

	case keybind.ContainerExec:
		c, ok := a.state.Containers.Active()
		if !ok {
			return a, statusCmd("No container selected", true)
		}
		d, cmd := newExecDialog(a.docker, a.history, c, a.cfg.Exec.Timeout.Duration, a.theme)
		a.dialogs.Replace(d)
		return a, cmd

	default:
		slog.Debug("unhandled action", "action", string(action))
	}
	return a, nil
}

func (a App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := a.state.ActivePane()
	switch msg.Type {
	case tea.KeyEsc:
		a.state.SetFiltering(false)
		a.filter.Blur()
		a.filter.SetValue("")
		a.state.SetQuery(kind, "")
		return a, nil
	case tea.KeyEnter:
		a.state.SetFiltering(false)
		a.filter.Blur()
		return a, nil
	case tea.KeyUp:
		a.state.Move(-1)
		return a, nil
	case tea.KeyDown:
		a.state.Move(1)
		return a, nil
	}
	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(msg)
	a.state.SetQuery(kind, a.filter.Value())
	return a, cmd
}

// activeKey returns the selected entity key of the focused pane.
func (a App) activeKey() string {
	return a.state.ActiveID(a.state.ActivePane())
}

func (a App) confirmAction(verb, busy, done string, c docker.Container, fn func(context.Context, string) error) *confirmDialog {
	timeout := a.cfg.Actions.Timeout.Duration
	id, name := c.ID, c.Name
	return newConfirmDialog(confirmOptions{
		title:   verb + " container",
		prompt:  fmt.Sprintf("%s %s?", verb, name),
		busy:    busy + " " + name,
		success: done + " " + name,
		theme:   a.theme,
		run: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return fn(ctx, id)
		},
	})
}

func (a App) togglePause(c docker.Container) tea.Cmd {
	fn, verb, done := a.docker.Pause, "pause", "Paused"
	if c.Paused() {
		fn, verb, done = a.docker.Unpause, "unpause", "Unpaused"
	}
	timeout := a.cfg.Actions.Timeout.Duration
	id, name := c.ID, c.Name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := fn(ctx, id); err != nil {
			return statusMsg{text: fmt.Sprintf("%s %s: %v", verb, name, err), err: true}
		}
		return statusMsg{text: done + " " + name}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: fmt.Sprintf("copy: %v", err), err: true}
		}
		return statusMsg{text: "Copied " + docker.ShortID(text)}
	}
}
