package keybind

import (
	"fmt"
	"sort"
	"strings"
)

// Action names a bindable operation.
type Action string

const (
	AppExit          Action = "app_exit"
	ThemeModeToggle  Action = "theme_mode_toggle"
	CyclePane        Action = "cycle_pane"
	Up               Action = "up"
	Down             Action = "down"
	DebugToggle      Action = "debug_toggle"
	ContainerStop    Action = "container_stop"
	ContainerPause   Action = "container_pause"
	ContainerRestart Action = "container_restart"
	ContainerExec    Action = "container_exec_cmd"
	OpenSettings     Action = "open_settings"
	FocusContainers  Action = "focus_containers"
	FocusImages      Action = "focus_images"
	FocusVolumes     Action = "focus_volumes"
	Filter           Action = "filter"
	CopyID           Action = "copy_id"
)

// LeaderKey is the config key that overrides the leader chord.
const LeaderKey = "leader"

// DefaultLeader is the leader chord used when none (or a malformed one) is configured.
const DefaultLeader = "ctrl+x"

// Binding is the built-in default for one action.
type Binding struct {
	Action Action
	Spec   string
	Help   string
}

// Defaults lists every action with its built-in spec. Every action has a
// default, so an empty configuration is valid.
var Defaults = []Binding{
	{AppExit, "ctrl+c,<leader>q,q", "Exit the application"},
	{ThemeModeToggle, "<leader>t", "Toggle between light and dark theme"},
	{CyclePane, "tab", "Cycle through panes"},
	{Up, "up,k", "Move up"},
	{Down, "down,j", "Move down"},
	{DebugToggle, "ctrl+d", "Toggle debug mode"},
	{ContainerStop, "<leader>s", "Stop a container"},
	{ContainerPause, "<leader>p", "Pause a container"},
	{ContainerRestart, "<leader>r", "Restart a container"},
	{ContainerExec, "<leader>e", "Execute a command in a container"},
	{OpenSettings, "ctrl+p", "Open settings"},
	{FocusContainers, "1", "Focus containers pane"},
	{FocusImages, "2", "Focus images pane"},
	{FocusVolumes, "3", "Focus volumes pane"},
	{Filter, "/", "Filter the active pane"},
	{CopyID, "<leader>y", "Copy the selected id"},
}

// Table is the resolved, immutable action -> sequences mapping.
type Table struct {
	leader   Descriptor
	bindings map[Action][]Sequence
	help     map[Action]string
}

// Leader returns the leader descriptor the table was built with.
func (t *Table) Leader() Descriptor { return t.leader }

// Sequences returns the sequences bound to action.
func (t *Table) Sequences(action Action) []Sequence { return t.bindings[action] }

// Help returns the human description of an action.
func (t *Table) Help(action Action) string { return t.help[action] }

// Actions returns all bound actions in default-table order.
func (t *Table) Actions() []Action {
	out := make([]Action, 0, len(Defaults))
	for _, b := range Defaults {
		if _, ok := t.bindings[b.Action]; ok {
			out = append(out, b.Action)
		}
	}
	return out
}

// Print renders the first sequence bound to action, or "" if unbound.
func (t *Table) Print(action Action) string {
	seqs := t.bindings[action]
	if len(seqs) == 0 {
		return ""
	}
	return seqs[0].String()
}

// PrintAll renders every sequence bound to action, joined with ", ".
func (t *Table) PrintAll(action Action) string {
	seqs := t.bindings[action]
	parts := make([]string, len(seqs))
	for i, s := range seqs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// Load builds a Table from the defaults overlaid with overrides. A user value
// replaces the default entirely for that action. Problems never abort: a
// malformed override falls back to the action's default, a malformed leader
// falls back to DefaultLeader, unknown action names are ignored. Every
// problem is returned so the caller can log it.
func Load(overrides map[string]string) (*Table, []error) {
	var errs []error

	leader, _ := ParseChord(DefaultLeader)
	if spec, ok := overrides[LeaderKey]; ok {
		d, err := ParseChord(spec)
		if err != nil || strings.Contains(spec, ",") || strings.Contains(spec, LeaderToken) {
			if err == nil {
				err = fmt.Errorf("%w: leader must be a single chord, got %q", ErrMalformed, spec)
			}
			errs = append(errs, fmt.Errorf("keybind %s: %w", LeaderKey, err))
		} else {
			leader = d
		}
	}

	t := &Table{
		leader:   leader,
		bindings: make(map[Action][]Sequence, len(Defaults)),
		help:     make(map[Action]string, len(Defaults)),
	}
	known := make(map[string]bool, len(Defaults))
	for _, b := range Defaults {
		known[string(b.Action)] = true
		t.help[b.Action] = b.Help

		spec := b.Spec
		if user, ok := overrides[string(b.Action)]; ok {
			spec = user
		}
		seqs, err := Parse(spec, leader)
		if err != nil {
			errs = append(errs, fmt.Errorf("keybind %s: %w", b.Action, err))
			seqs, err = Parse(b.Spec, leader)
			if err != nil {
				// Defaults are static; reaching this is a programming error.
				panic(fmt.Sprintf("keybind: default for %s: %v", b.Action, err))
			}
		}
		t.bindings[b.Action] = seqs
	}

	var unknown []string
	for name := range overrides {
		if name != LeaderKey && !known[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, fmt.Errorf("keybind %s: unknown action", name))
	}

	return t, errs
}
