package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thobiasn/opendocker/internal/keybind"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Poll.Interval.Duration)
	assert.Equal(t, 5*time.Second, cfg.Poll.Timeout.Duration)
	assert.Equal(t, 10*time.Second, cfg.Exec.Timeout.Duration)
	assert.Equal(t, 15*time.Second, cfg.Actions.Timeout.Duration)
	assert.Equal(t, 500, cfg.Exec.HistoryLimit)
	assert.NotEmpty(t, cfg.Exec.HistoryPath)
	assert.Equal(t, "dark", cfg.Theme.Mode)
	assert.Empty(t, cfg.Keybinds.Overrides)
	assert.Empty(t, cfg.Keybinds.Errors)
}

func TestLoadConfigFull(t *testing.T) {
	path := writeConfig(t, `
[keybinds]
leader = "ctrl+a"
container_stop = "<leader>x"
up = "w,up"

[theme]
mode = "light"

[docker]
host = "unix:///tmp/docker.sock"

[poll]
interval = "2s"
timeout = "3s"

[exec]
timeout = "30s"
disable_history = true
history_limit = 50

[log]
level = "debug"
file = "off"

[trace]
endpoint = "localhost:4318"
insecure = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"leader":         "ctrl+a",
		"container_stop": "<leader>x",
		"up":             "w,up",
	}, cfg.Keybinds.Overrides)
	assert.Equal(t, "light", cfg.Theme.Mode)
	assert.Equal(t, "unix:///tmp/docker.sock", cfg.Docker.Host)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval.Duration)
	assert.Equal(t, 3*time.Second, cfg.Poll.Timeout.Duration)
	assert.True(t, cfg.Exec.DisableHistory)
	assert.Equal(t, 50, cfg.Exec.HistoryLimit)
	assert.Equal(t, 30*time.Second, cfg.Exec.Timeout.Duration)
	assert.Equal(t, "off", cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Trace.Insecure)
	assert.Equal(t, "localhost:4318", cfg.Trace.Endpoint)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", "[poll\ninterval = 1", "load config"},
		{"bad duration", "[poll]\ninterval = \"soon\"", "invalid duration"},
		{"interval too small", "[poll]\ninterval = \"10ms\"", "poll interval"},
		{"bad theme", "[theme]\nmode = \"solarized\"", "theme mode"},
		{"bad level", "[log]\nlevel = \"loud\"", "log level"},
		{"negative limit", "[exec]\nhistory_limit = -1", "history_limit"},
		{"keybinds not a table", "keybinds = 1", "keybinds must be a table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigZeroHistoryLimitUsesDefault(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[exec]\nhistory_limit = 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Exec.HistoryLimit)
}

func TestLoadConfigMalformedKeybindIsNotFatal(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[keybinds]\ncontainer_stop = \"<leader>\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "<leader>", cfg.Keybinds.Overrides["container_stop"])
}

func TestLoadConfigNonStringKeybindFallsBack(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[keybinds]\nup = 1\ndown = \"j\"\nleader = true\n"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"down": "j"}, cfg.Keybinds.Overrides)
	require.Len(t, cfg.Keybinds.Errors, 2)
	for _, e := range cfg.Keybinds.Errors {
		assert.ErrorIs(t, e, keybind.ErrMalformed)
	}
	assert.Contains(t, cfg.Keybinds.Errors[0].Error(), "leader")
	assert.Contains(t, cfg.Keybinds.Errors[1].Error(), "up")

	// The rejected actions keep their defaults.
	table, errs := keybind.Load(cfg.Keybinds.Overrides)
	assert.Empty(t, errs)
	assert.Equal(t, "up, k", table.PrintAll(keybind.Up))
	assert.Equal(t, "j", table.PrintAll(keybind.Down))
	assert.Equal(t, keybind.DefaultLeader, table.Leader().String())
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	assert.Equal(t, "/tmp/cfg/opendocker/config.toml", DefaultConfigPath())
}
