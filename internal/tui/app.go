package tui

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thobiasn/opendocker/internal/dialog"
	"github.com/thobiasn/opendocker/internal/docker"
	"github.com/thobiasn/opendocker/internal/history"
	"github.com/thobiasn/opendocker/internal/keybind"
	"github.com/thobiasn/opendocker/internal/poll"
	"github.com/thobiasn/opendocker/internal/state"
)

// Docker is the part of the Docker client the dashboard needs.
type Docker interface {
	ListContainers(ctx context.Context) ([]docker.Container, error)
	ListImages(ctx context.Context) ([]docker.Image, error)
	ListVolumes(ctx context.Context) ([]docker.Volume, error)
	Exec(ctx context.Context, id string, argv []string) (string, error)
	Stop(ctx context.Context, id string) error
	Restart(ctx context.Context, id string) error
	Pause(ctx context.Context, id string) error
	Unpause(ctx context.Context, id string) error
}

// Options wires the App to its collaborators.
type Options struct {
	Docker  Docker
	History *history.Store // nil disables exec history
	Keys    *keybind.Table // nil uses the defaults
	Config  *Config        // nil uses DefaultConfig
	Version string
	Host    string // shown in the debug line
	Debug   bool   // start with the debug line visible
}

// statusTTL is how long a status line message stays visible.
const statusTTL = 4 * time.Second

type leaderExpireMsg struct{}

type statusMsg struct {
	text string
	err  bool
}

type statusClearMsg struct{ id int }

type status struct {
	text string
	err  bool
	id   int
}

// App is the root Bubbletea model. It is a value type; everything that must
// survive between Update calls on different copies lives behind pointers.
type App struct {
	docker  Docker
	history *history.Store
	cfg     *Config
	version string
	host    string

	state    *state.State
	resolver *keybind.Resolver
	dialogs  *dialog.Stack
	theme    *Theme

	containers *poll.Poller[docker.Container]
	images     *poll.Poller[docker.Image]
	volumes    *poll.Poller[docker.Volume]

	spinner  spinner.Model
	filter   textinput.Model
	help     help.Model
	bindings []key.Binding

	width  int
	height int
	debug  bool
	status status
	crash  *crashReport

	now func() time.Time
}

// NewApp creates the root model.
func NewApp(opts Options) App {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	keys := opts.Keys
	if keys == nil {
		keys, _ = keybind.Load(nil)
	}
	theme := ThemeFor(cfg.Theme.Mode)

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"
	filter.CharLimit = 128

	interval, timeout := cfg.Poll.Interval.Duration, cfg.Poll.Timeout.Duration
	return App{
		docker:     opts.Docker,
		history:    opts.History,
		cfg:        cfg,
		version:    opts.Version,
		host:       opts.Host,
		state:      state.New(),
		resolver:   keybind.NewResolver(keys, keybind.DefaultChordTimeout),
		dialogs:    &dialog.Stack{},
		theme:      &theme,
		containers: poll.New[docker.Container](state.KindContainers, opts.Docker.ListContainers, interval, timeout),
		images:     poll.New[docker.Image](state.KindImages, opts.Docker.ListImages, interval, timeout),
		volumes:    poll.New[docker.Volume](state.KindVolumes, opts.Docker.ListVolumes, interval, timeout),
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		filter:     filter,
		help:       help.New(),
		bindings:   helpBindings(keys),
		debug:      opts.Debug,
		now:        time.Now,
	}
}

// State exposes the application state, mainly for tests and the main package.
func (a App) State() *state.State { return a.state }

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.containers.Poll(),
		a.images.Poll(),
		a.volumes.Poll(),
		a.spinner.Tick,
	)
}

// Update recovers from panics in the update path and switches to the crash
// screen instead of tearing down the terminal.
func (a App) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	if a.crash != nil {
		return a.updateCrash(msg)
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in update", "panic", r)
			a.crash = newCrashReport(r, debug.Stack())
			model, cmd = a, nil
		}
	}()
	return a.update(msg)
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		cmd, _ := a.dialogs.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case dialog.ClearMsg:
		a.dialogs.Apply(msg)
		return a, nil

	case poll.TickMsg:
		return a, a.pollKind(msg.Kind)

	case poll.ResultMsg[docker.Container]:
		cmd := a.containers.Done(msg)
		if msg.Err == nil {
			a.state.SetContainers(msg.Items)
		}
		return a, cmd

	case poll.ResultMsg[docker.Image]:
		cmd := a.images.Done(msg)
		if msg.Err == nil {
			a.state.SetImages(msg.Items)
		}
		return a, cmd

	case poll.ResultMsg[docker.Volume]:
		cmd := a.volumes.Done(msg)
		if msg.Err == nil {
			a.state.SetVolumes(msg.Items)
		}
		return a, cmd

	case spinner.TickMsg:
		if msg.ID == a.spinner.ID() {
			if a.allLoaded() {
				return a, nil
			}
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		cmd, _ := a.dialogs.Update(msg)
		return a, cmd

	case leaderExpireMsg:
		a.resolver.Expire(a.now())
		return a, nil

	case statusMsg:
		return a, a.setStatus(msg.text, msg.err)

	case statusClearMsg:
		if msg.id == a.status.id {
			a.status = status{id: a.status.id}
		}
		return a, nil
	}

	// Anything else belongs to the top dialog (command results, cursor
	// blinks) or to the filter input.
	var cmds []tea.Cmd
	if cmd, ok := a.dialogs.Update(msg); ok {
		cmds = append(cmds, cmd)
	} else if a.state.Filtering() {
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) pollKind(k state.Kind) tea.Cmd {
	switch k {
	case state.KindContainers:
		return a.containers.Poll()
	case state.KindImages:
		return a.images.Poll()
	case state.KindVolumes:
		return a.volumes.Poll()
	}
	return nil
}

func (a App) allLoaded() bool {
	for _, k := range state.Kinds {
		if !a.state.Loaded(k) {
			return false
		}
	}
	return true
}

// setStatus shows text in the footer and schedules its removal.
func (a *App) setStatus(text string, isErr bool) tea.Cmd {
	if isErr {
		slog.Warn("action failed", "error", text)
	}
	id := a.status.id + 1
	a.status = status{text: text, err: isErr, id: id}
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return statusClearMsg{id: id} })
}

// statusCmd reports text on the status line from inside a command.
func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, err: isErr} }
}
