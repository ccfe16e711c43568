package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thobiasn/opendocker/internal/docker"
	"github.com/thobiasn/opendocker/internal/history"
)

func newTestExec(t *testing.T, fd *fakeDocker, store *history.Store) *execDialog {
	t.Helper()
	theme := DarkTheme()
	d, _ := newExecDialog(fd, store, testContainers()[0], time.Second, &theme)
	return d
}

func typeInto(d *execDialog, s string) {
	d.input.SetValue(s)
}

func TestExecSubmitSplitsArgs(t *testing.T) {
	fd := &fakeDocker{execOut: "done\n"}
	d := newTestExec(t, fd, nil)
	typeInto(d, `sh -c "echo hi"`)

	require.NotNil(t, d.submit(), "submit should start the command")
	assert.True(t, d.running)

	msg := d.run(`sh -c "echo hi"`, []string{"sh", "-c", "echo hi"})()
	assert.Equal(t, []string{"sh", "-c", "echo hi"}, fd.execArgv)
	done, ok := msg.(execDoneMsg)
	require.True(t, ok, "got %T, want execDoneMsg", msg)

	next, cmd := d.Update(done)
	assert.Nil(t, next, "success closes the dialog")
	assert.NotNil(t, cmd, "success reports on the status line")
	assert.NoError(t, d.err)

	text := d.successText(done)
	assert.True(t, strings.HasPrefix(text, "Ran in web"), text)
	assert.True(t, strings.HasSuffix(text, ": done"), text)
}

func TestExecEmptyInputDoesNothing(t *testing.T) {
	d := newTestExec(t, &fakeDocker{}, nil)
	typeInto(d, "   ")
	assert.Nil(t, d.submit(), "blank command should not run")
	assert.False(t, d.running)
}

func TestExecParseError(t *testing.T) {
	d := newTestExec(t, &fakeDocker{}, nil)
	typeInto(d, `echo "unterminated`)
	assert.Nil(t, d.submit(), "unparseable command should not run")
	require.Error(t, d.err)
	assert.Contains(t, d.err.Error(), "parse command")
}

func TestExecNonZeroExitStaysOpen(t *testing.T) {
	fd := &fakeDocker{execOut: "no such file\n", execErr: &docker.ExitError{Code: 2, Output: "no such file\n"}}
	d := newTestExec(t, fd, nil)
	typeInto(d, "ls /nope")
	d.submit()

	next, _ := d.Update(d.run("ls /nope", []string{"ls", "/nope"})())
	assert.Same(t, d, next)
	assert.False(t, d.running)

	out := stripANSI(d.View(100, 40))
	assert.Contains(t, out, "exit status 2")
	assert.Equal(t, 1, strings.Count(out, "no such file"), "output should be shown once:\n%s", out)
}

func TestExecEscCloses(t *testing.T) {
	d := newTestExec(t, &fakeDocker{}, nil)
	next, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, next)
	assert.Nil(t, cmd)
}

func TestExecIgnoresStaleResult(t *testing.T) {
	d := newTestExec(t, &fakeDocker{}, nil)
	other := newTestExec(t, &fakeDocker{}, nil)
	d.running = true
	d.Update(execDoneMsg{owner: other, err: errors.New("not mine")})
	assert.True(t, d.running, "result for another dialog should be ignored")
	assert.NoError(t, d.err)
}

func TestExecRecall(t *testing.T) {
	d := newTestExec(t, &fakeDocker{}, nil)
	d.Update(execHistoryMsg{owner: d, commands: []string{"ls", "pwd"}})
	typeInto(d, "draft")

	d.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "ls", d.input.Value())
	d.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "pwd", d.input.Value())
	d.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "pwd", d.input.Value(), "up past the end stays on the oldest")
	d.Update(tea.KeyMsg{Type: tea.KeyDown})
	d.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "draft", d.input.Value())
}

func TestExecRecordsHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), 10)
	require.NoError(t, err)
	defer store.Close()

	fd := &fakeDocker{execErr: &docker.ExitError{Code: 1}}
	d := newTestExec(t, fd, store)
	d.run("false", []string{"false"})()

	fd.execErr = errors.New("daemon unreachable")
	d.run("true", []string{"true"})()

	entries, err := store.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "transport errors are not recorded")
	assert.Equal(t, "false", entries[0].Command)
	assert.Equal(t, 1, entries[0].ExitCode)
	assert.Equal(t, "web", entries[0].Container)
}

func TestConfirmErrorStaysOpen(t *testing.T) {
	theme := DarkTheme()
	d := newConfirmDialog(confirmOptions{
		title:  "Stop container",
		prompt: "Stop web?",
		theme:  &theme,
		run:    func() error { return errors.New("permission denied") },
	})

	_, cmd := d.Update(runes("y"))
	require.NotNil(t, cmd, "y should start the action")
	require.True(t, d.running)

	next, cmd := d.Update(d.runCmd()())
	assert.Same(t, d, next, "failed action should keep the dialog open")
	assert.Nil(t, cmd)
	assert.Contains(t, stripANSI(d.View(100, 30)), "permission denied")
}

func TestConfirmCancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, runes("n")} {
		theme := DarkTheme()
		called := false
		d := newConfirmDialog(confirmOptions{theme: &theme, run: func() error { called = true; return nil }})

		next, cmd := d.Update(key)
		assert.Nil(t, next, "%s should close", key.String())
		assert.Nil(t, cmd)
		assert.False(t, called, "cancel must not run the action")
	}
}

func TestKeybindsDialogListsActions(t *testing.T) {
	a, _ := newTestApp()
	d := newKeybindsDialog(a.resolver.Table(), a.theme, 60)
	out := stripANSI(d.View(120, 60))
	for _, want := range []string{"leader", "ctrl+x", "Stop a container", "ctrl+x s"} {
		assert.Contains(t, out, want)
	}
}

func TestKeybindsDialogScrollStopsAtEnd(t *testing.T) {
	a, _ := newTestApp()
	d := newKeybindsDialog(a.resolver.Table(), a.theme, 20)
	last := d.maxOffset(20)
	require.Positive(t, last, "table should not fit in 20 rows")

	for range len(a.resolver.Table().Actions()) + 5 {
		d.Update(runes("j"))
	}
	assert.Equal(t, last, d.offset)

	// A single k scrolls back one row.
	d.Update(runes("k"))
	assert.Equal(t, last-1, d.offset)

	for range last + 5 {
		d.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Zero(t, d.offset)
}

func TestKeybindsDialogResizeClampsOffset(t *testing.T) {
	a, _ := newTestApp()
	d := newKeybindsDialog(a.resolver.Table(), a.theme, 20)
	for range d.maxOffset(20) {
		d.Update(runes("j"))
	}
	require.Positive(t, d.offset)

	d.Update(tea.WindowSizeMsg{Width: 120, Height: 200})
	assert.Zero(t, d.offset, "everything fits after growing")
}

func TestAppForwardsResizeToDialogs(t *testing.T) {
	a, _ := newTestApp()
	a.height = 20
	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyCtrlP})
	top, _ := a.dialogs.Top()
	d, ok := top.(*keybindsDialog)
	require.True(t, ok)
	assert.Equal(t, 20, d.height)

	a, _ = update(t, a, tea.WindowSizeMsg{Width: 120, Height: 44})
	assert.Equal(t, 44, d.height)
	assert.Equal(t, 44, a.height)
}
