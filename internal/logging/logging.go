// Package logging installs the process-wide slog logger. The terminal
// belongs to the TUI, so records go to a rotating file instead of stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Init.
type Options struct {
	Level   string // debug, info, warn, error; default info
	File    string // "" uses DefaultPath, "off" discards
	Version string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultPath returns $XDG_STATE_HOME/opendocker/opendocker.log.
func DefaultPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "opendocker.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "opendocker", "opendocker.log")
}

// Init builds the logger described by opts and makes it the slog default.
// The returned function flushes and closes the sink.
func Init(opts Options) (func() error, error) {
	w, closeFn, err := writer(opts)
	if err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	logger := slog.New(handler)
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	slog.SetDefault(logger)
	return closeFn, nil
}

func writer(opts Options) (io.Writer, func() error, error) {
	path := strings.TrimSpace(opts.File)
	switch path {
	case "off":
		return io.Discard, func() error { return nil }, nil
	case "":
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(opts.MaxSizeMB, 10),
		MaxBackups: orDefault(opts.MaxBackups, 3),
		MaxAge:     orDefault(opts.MaxAgeDays, 14),
		Compress:   true,
	}
	return rot, rot.Close, nil
}

// ParseLevel maps a config string to a slog level; unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
