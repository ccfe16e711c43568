package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/thobiasn/opendocker/internal/history"
	"github.com/thobiasn/opendocker/internal/keybind"
	"github.com/thobiasn/opendocker/internal/logging"
)

// Duration wraps time.Duration for TOML string parsing ("10s", "1m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	return nil
}

// Config is the user configuration.
type Config struct {
	Keybinds KeybindsConfig `toml:"keybinds"`
	Theme    ThemeConfig    `toml:"theme"`
	Docker   DockerConfig   `toml:"docker"`
	Poll     PollConfig     `toml:"poll"`
	Exec     ExecConfig     `toml:"exec"`
	Actions  ActionsConfig  `toml:"actions"`
	Log      LogConfig      `toml:"log"`
	Trace    TraceConfig    `toml:"trace"`
}

// KeybindsConfig maps action names (and "leader") to chord specs. Bindings
// are lenient: a value that is not a string is recorded in Errors and the
// action keeps its default, like a malformed spec does in keybind.Load.
type KeybindsConfig struct {
	Overrides map[string]string
	Errors    []error
}

func (k *KeybindsConfig) UnmarshalTOML(data any) error {
	table, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("keybinds must be a table, got %T", data)
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	k.Overrides = make(map[string]string, len(table))
	for _, name := range names {
		spec, ok := table[name].(string)
		if !ok {
			k.Errors = append(k.Errors, fmt.Errorf("%w: %s: want a string, got %T", keybind.ErrMalformed, name, table[name]))
			continue
		}
		k.Overrides[name] = spec
	}
	return nil
}

type ThemeConfig struct {
	Mode string `toml:"mode"` // "dark" (default) or "light"
}

type DockerConfig struct {
	Host string `toml:"host"` // e.g. unix:///var/run/docker.sock; empty uses DOCKER_HOST
}

type PollConfig struct {
	Interval Duration `toml:"interval"`
	Timeout  Duration `toml:"timeout"`
}

type ExecConfig struct {
	Timeout        Duration `toml:"timeout"`
	DisableHistory bool     `toml:"disable_history"`
	HistoryPath    string   `toml:"history_path"`
	HistoryLimit   int      `toml:"history_limit"` // 0 uses the default; disable_history keeps nothing
}

type ActionsConfig struct {
	Timeout Duration `toml:"timeout"` // stop, restart, pause
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // "off" disables logging
}

type TraceConfig struct {
	Endpoint    string `toml:"endpoint"`
	Insecure    bool   `toml:"insecure"`
	ServiceName string `toml:"service_name"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/opendocker/config.toml,
// falling back to ~/.config/opendocker/config.toml if unset.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "opendocker", "config.toml")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// LoadConfig reads and parses a TOML config file. A missing file yields the
// defaults; the file is never created.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		slog.Warn("unknown config keys", "path", path, "keys", strings.Join(keys, ", "))
	}

	setDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Poll.Interval.Duration == 0 {
		cfg.Poll.Interval.Duration = time.Second
	}
	if cfg.Poll.Timeout.Duration == 0 {
		cfg.Poll.Timeout.Duration = 5 * time.Second
	}
	if cfg.Exec.Timeout.Duration == 0 {
		cfg.Exec.Timeout.Duration = 10 * time.Second
	}
	if cfg.Exec.HistoryPath == "" {
		cfg.Exec.HistoryPath = history.DefaultPath()
	}
	if cfg.Exec.HistoryLimit == 0 {
		cfg.Exec.HistoryLimit = 500
	}
	if cfg.Actions.Timeout.Duration == 0 {
		cfg.Actions.Timeout.Duration = 15 * time.Second
	}
	if cfg.Theme.Mode == "" {
		cfg.Theme.Mode = "dark"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.Poll.Interval.Duration < 100*time.Millisecond {
		return fmt.Errorf("poll interval must be >= 100ms, got %s", cfg.Poll.Interval.Duration)
	}
	for name, d := range map[string]time.Duration{
		"poll timeout":    cfg.Poll.Timeout.Duration,
		"exec timeout":    cfg.Exec.Timeout.Duration,
		"actions timeout": cfg.Actions.Timeout.Duration,
	} {
		if d < 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if cfg.Exec.HistoryLimit < 0 {
		return fmt.Errorf("exec history_limit must be positive, got %d", cfg.Exec.HistoryLimit)
	}
	switch cfg.Theme.Mode {
	case "dark", "light":
	default:
		return fmt.Errorf("theme mode must be \"dark\" or \"light\", got %q", cfg.Theme.Mode)
	}
	if !logging.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	return nil
}
