package keybind

import (
	"sort"
	"time"
)

// DefaultChordTimeout bounds how long a captured leader waits for its
// trailing key before the next event is treated as a fresh lookup.
const DefaultChordTimeout = 1500 * time.Millisecond

type chordKey struct {
	leader, trailing Descriptor
}

// Resolver matches key events against a Table. It is not safe for concurrent
// use; events must be fed one at a time in arrival order.
type Resolver struct {
	table   *Table
	timeout time.Duration

	single map[Descriptor][]Action
	chords map[chordKey][]Action
	leads  map[Descriptor]bool

	pending    bool
	captured   Descriptor
	capturedAt time.Time
}

// NewResolver indexes table for lookup. A non-positive timeout uses
// DefaultChordTimeout.
func NewResolver(table *Table, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultChordTimeout
	}
	r := &Resolver{
		table:   table,
		timeout: timeout,
		single:  make(map[Descriptor][]Action),
		chords:  make(map[chordKey][]Action),
		leads:   make(map[Descriptor]bool),
	}
	for action, seqs := range table.bindings {
		for _, s := range seqs {
			switch len(s) {
			case 1:
				r.single[s[0]] = appendAction(r.single[s[0]], action)
			case 2:
				k := chordKey{s[0], s[1]}
				r.chords[k] = appendAction(r.chords[k], action)
				r.leads[s[0]] = true
			}
		}
	}
	return r
}

func appendAction(list []Action, a Action) []Action {
	for _, x := range list {
		if x == a {
			return list
		}
	}
	list = append(list, a)
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// Table returns the table the resolver was built from.
func (r *Resolver) Table() *Table { return r.table }

// Timeout returns the pending chord timeout.
func (r *Resolver) Timeout() time.Duration { return r.timeout }

// Result is the outcome of resolving one key event.
type Result struct {
	Event   Descriptor
	Actions []Action // matched actions, sorted
	Pending bool     // the event captured a leader and awaits a trailing key
	Chord   bool     // the event completed (or consumed) a pending chord
}

// Match reports whether action was triggered by the resolved event.
func (res Result) Match(action Action) bool {
	for _, a := range res.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Pending reports whether a leader has been captured and is still waiting.
func (r *Resolver) Pending() bool { return r.pending }

// Captured returns the leader awaiting a trailing key, if any.
func (r *Resolver) Captured() (Descriptor, bool) { return r.captured, r.pending }

// Expire drops a pending chord captured more than the timeout before now.
// It reports whether anything was dropped.
func (r *Resolver) Expire(now time.Time) bool {
	if r.pending && now.Sub(r.capturedAt) > r.timeout {
		r.Reset()
		return true
	}
	return false
}

// Reset clears any pending chord.
func (r *Resolver) Reset() {
	r.pending = false
	r.captured = Descriptor{}
	r.capturedAt = time.Time{}
}

// Resolve processes a single key event received at now.
//
// With a live pending chord the event is the trailing key: it matches the
// actions bound to [leader, ev] and always consumes the pending state. With
// no pending chord (or an expired one) an event that leads any chord is
// captured and matches nothing; otherwise it matches single-key bindings.
func (r *Resolver) Resolve(ev Descriptor, now time.Time) Result {
	r.Expire(now)

	if r.pending {
		leader := r.captured
		r.Reset()
		return Result{
			Event:   ev,
			Actions: r.chords[chordKey{leader, ev}],
			Chord:   true,
		}
	}

	if r.leads[ev] {
		r.pending = true
		r.captured = ev
		r.capturedAt = now
		return Result{Event: ev, Pending: true}
	}

	return Result{Event: ev, Actions: r.single[ev]}
}
