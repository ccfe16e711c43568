package keybind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	table, errs := Load(nil)
	require.Empty(t, errs)

	assert.Equal(t, Descriptor{Mods: "ctrl", Key: "x"}, table.Leader())
	assert.Len(t, table.Actions(), len(Defaults))
	assert.Equal(t, "ctrl+c", table.Print(AppExit))
	assert.Equal(t, "ctrl+c, ctrl+x q, q", table.PrintAll(AppExit))
	assert.Equal(t, "ctrl+x s", table.Print(ContainerStop))
	assert.Equal(t, "Stop a container", table.Help(ContainerStop))
}

func TestLoadOverrideReplacesDefault(t *testing.T) {
	table, errs := Load(map[string]string{
		"container_stop": "x",
		"up":             "w",
	})
	require.Empty(t, errs)

	assert.Equal(t, []Sequence{{{Key: "x"}}}, table.Sequences(ContainerStop))
	// "k" from the default must no longer be bound.
	assert.Equal(t, []Sequence{{{Key: "w"}}}, table.Sequences(Up))
}

func TestLoadCustomLeader(t *testing.T) {
	table, errs := Load(map[string]string{"leader": "ctrl+a"})
	require.Empty(t, errs)

	assert.Equal(t, "ctrl+a s", table.Print(ContainerStop))
}

func TestLoadMalformedFallsBack(t *testing.T) {
	table, errs := Load(map[string]string{
		"container_stop": "<leader>",
		"down":           "ctrl+",
		"leader":         "ctrl+x,ctrl+y",
		"no_such_action": "z",
	})
	require.Len(t, errs, 4)

	assert.Equal(t, "ctrl+x s", table.Print(ContainerStop))
	assert.Equal(t, "down, j", table.PrintAll(Down))
	assert.Contains(t, errs[len(errs)-1].Error(), "no_such_action")
}

func TestLoadEmptyOverrideIsMalformed(t *testing.T) {
	table, errs := Load(map[string]string{"cycle_pane": ""})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMalformed)
	assert.Equal(t, "tab", table.Print(CyclePane))
}
