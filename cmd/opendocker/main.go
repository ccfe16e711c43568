package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thobiasn/opendocker/internal/docker"
	"github.com/thobiasn/opendocker/internal/history"
	"github.com/thobiasn/opendocker/internal/keybind"
	"github.com/thobiasn/opendocker/internal/logging"
	"github.com/thobiasn/opendocker/internal/telemetry"
	"github.com/thobiasn/opendocker/internal/tui"
)

// version is set via -ldflags at build time. GoReleaser fills this automatically.
var version = "dev"

// cliArgs is the parsed command line.
type cliArgs struct {
	configPath string
	debug      bool
	version    bool
}

func parseArgs(args []string) (*cliArgs, error) {
	fs := flag.NewFlagSet("opendocker", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  opendocker [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to config file (default "+tui.DefaultConfigPath()+")")
	debug := fs.Bool("debug", false, "log at debug level and show the debug line")
	showVersion := fs.Bool("version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	path := *configPath
	if path == "" {
		path = tui.DefaultConfigPath()
	}
	return &cliArgs{configPath: path, debug: *debug, version: *showVersion}, nil
}

func main() {
	args, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if args.version {
		fmt.Println("opendocker " + version)
		return
	}
	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args *cliArgs) error {
	cfg, err := tui.LoadConfig(args.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", args.configPath, err)
	}

	level := cfg.Log.Level
	if args.debug {
		level = "debug"
	}
	closeLog, err := logging.Init(logging.Options{Level: level, File: cfg.Log.File, Version: version})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closeLog()
	slog.Info("starting", "version", version, "config", args.configPath)

	// Config problems with keybinds never abort; the defaults fill in.
	keys, errs := keybind.Load(cfg.Keybinds.Overrides)
	for _, err := range append(cfg.Keybinds.Errors, errs...) {
		slog.Warn("keybind ignored", "error", err)
	}

	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Options{
		Endpoint:    cfg.Trace.Endpoint,
		Insecure:    cfg.Trace.Insecure,
		ServiceName: cfg.Trace.ServiceName,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			slog.Warn("tracing shutdown", "error", err)
		}
	}()

	slog.Debug("tracing", "enabled", tp.Enabled(), "endpoint", cfg.Trace.Endpoint)

	dc, err := docker.NewClient(cfg.Docker.Host, tp.Tracer(docker.TracerName))
	if err != nil {
		return err
	}
	defer dc.Close()

	var store *history.Store
	if !cfg.Exec.DisableHistory {
		store, err = history.Open(cfg.Exec.HistoryPath, cfg.Exec.HistoryLimit)
		if err != nil {
			// Exec still works without history.
			slog.Warn("exec history disabled", "error", err)
			store = nil
		}
		defer store.Close()
	}

	app := tui.NewApp(tui.Options{
		Docker:  dc,
		History: store,
		Keys:    keys,
		Config:  cfg,
		Version: version,
		Host:    dc.Host(),
		Debug:   args.debug,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	slog.Info("exiting")
	return nil
}
