// Package poll drives the periodic entity fetches. Each kind has its own
// Poller; a poll is only scheduled after the previous one for the same kind
// has completed, so results never arrive out of order.
package poll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thobiasn/opendocker/internal/state"
)

// Defaults used when the configuration leaves a value unset.
const (
	DefaultInterval = time.Second
	DefaultTimeout  = 5 * time.Second
)

// FetchFunc lists one kind of entity.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// TickMsg asks the App to start the next poll of Kind.
type TickMsg struct{ Kind state.Kind }

// ResultMsg carries the outcome of one poll.
type ResultMsg[T any] struct {
	Kind    state.Kind
	Items   []T
	Err     error
	Elapsed time.Duration
}

// Stats summarises a poller's history for the debug overlay.
type Stats struct {
	Polls    int
	Failures int
	Last     time.Duration
	LastErr  error
}

// Poller fetches one entity kind on a fixed interval. It is driven entirely
// from the bubbletea update loop and holds no locks.
type Poller[T any] struct {
	kind     state.Kind
	fetch    FetchFunc[T]
	interval time.Duration
	timeout  time.Duration

	inFlight bool
	stats    Stats
}

// New returns a poller for kind. Non-positive durations use the defaults.
func New[T any](kind state.Kind, fetch FetchFunc[T], interval, timeout time.Duration) *Poller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Poller[T]{kind: kind, fetch: fetch, interval: interval, timeout: timeout}
}

// Kind returns the entity kind this poller fetches.
func (p *Poller[T]) Kind() state.Kind { return p.kind }

// Interval returns the delay between the end of one poll and the next.
func (p *Poller[T]) Interval() time.Duration { return p.interval }

// InFlight reports whether a fetch is outstanding.
func (p *Poller[T]) InFlight() bool { return p.inFlight }

// Stats returns a snapshot of the poll counters.
func (p *Poller[T]) Stats() Stats { return p.stats }

// Poll starts a fetch. It returns nil while another fetch is in flight.
func (p *Poller[T]) Poll() tea.Cmd {
	if p.inFlight {
		return nil
	}
	p.inFlight = true
	kind, fetch, timeout := p.kind, p.fetch, p.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		items, err := fetch(ctx)
		return ResultMsg[T]{Kind: kind, Items: items, Err: err, Elapsed: time.Since(start)}
	}
}

// Done records a finished poll and schedules the next one. The caller
// applies msg.Items to state when msg.Err is nil; on error the previous
// list stays as it was.
func (p *Poller[T]) Done(msg ResultMsg[T]) tea.Cmd {
	p.inFlight = false
	p.stats.Polls++
	p.stats.Last = msg.Elapsed

	prev := p.stats.LastErr
	if msg.Err != nil {
		p.stats.Failures++
		if !sameError(prev, msg.Err) {
			slog.Warn("poll failed", "kind", p.kind.String(), "error", msg.Err)
		}
	} else if prev != nil {
		slog.Info("poll recovered", "kind", p.kind.String())
	}
	p.stats.LastErr = msg.Err

	kind := p.kind
	return tea.Tick(p.interval, func(time.Time) tea.Msg { return TickMsg{Kind: kind} })
}

// sameError reports whether two poll errors should be logged only once.
func sameError(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	return errors.Is(a, b) || a.Error() == b.Error()
}
