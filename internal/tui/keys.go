package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thobiasn/opendocker/internal/keybind"
)

// keyDescriptor converts a bubbletea key event into a resolver descriptor.
// Pasted text never resolves to a binding.
func keyDescriptor(msg tea.KeyMsg) (keybind.Descriptor, bool) {
	if msg.Paste {
		return keybind.Descriptor{}, false
	}
	s := msg.String()
	if msg.Type == tea.KeySpace {
		s = "space"
	}
	d, err := keybind.ParseChord(s)
	if err != nil {
		return keybind.Descriptor{}, false
	}
	return d, true
}

// footerActions are the bindings advertised in the footer, in display order.
var footerActions = []keybind.Action{
	keybind.ContainerExec,
	keybind.ContainerStop,
	keybind.ContainerRestart,
	keybind.ContainerPause,
	keybind.Filter,
	keybind.OpenSettings,
	keybind.AppExit,
}

var footerLabels = map[keybind.Action]string{
	keybind.ContainerExec:    "exec",
	keybind.ContainerStop:    "stop",
	keybind.ContainerRestart: "restart",
	keybind.ContainerPause:   "pause",
	keybind.Filter:           "filter",
	keybind.OpenSettings:     "keys",
	keybind.AppExit:          "quit",
}

// helpBindings builds bubbles key bindings for the footer from the resolved
// table, so the footer always shows what the user actually configured.
func helpBindings(t *keybind.Table) []key.Binding {
	out := make([]key.Binding, 0, len(footerActions))
	for _, a := range footerActions {
		label := t.Print(a)
		if label == "" {
			continue
		}
		var keys []string
		for _, seq := range t.Sequences(a) {
			keys = append(keys, seq.String())
		}
		out = append(out, key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, footerLabels[a])))
	}
	return out
}
