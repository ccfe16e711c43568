package state

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// List is one kind's entity list with its active selection and filter.
type List[T Entity] struct {
	items  []T
	active string
	loaded bool
	query  string
}

// Items returns the full list in collaborator order.
func (l *List[T]) Items() []T { return l.items }

// Len returns the size of the full list.
func (l *List[T]) Len() int { return len(l.items) }

// Loaded reports whether at least one poll has succeeded.
func (l *List[T]) Loaded() bool { return l.loaded }

// ActiveID returns the active key, "" when nothing is selected.
func (l *List[T]) ActiveID() string { return l.active }

// Active returns the active entity.
func (l *List[T]) Active() (T, bool) {
	if i := l.index(l.active); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

func (l *List[T]) index(key string) int {
	if key == "" {
		return -1
	}
	for i, e := range l.items {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// Set replaces the list wholesale, reconciles the selection against it and
// marks the list loaded.
func (l *List[T]) Set(items []T) {
	l.items = items
	l.active = Reconcile(items, l.active)
	l.loaded = true
}

// SetActive selects key. Keys not in the current list are rejected so the
// selection always names a listed entity.
func (l *List[T]) SetActive(key string) bool {
	if l.index(key) < 0 {
		return false
	}
	l.active = key
	return true
}

// Move steps the selection by delta over the visible items. With no visible
// selection a negative delta selects the last item and a positive one the
// first. Movement clamps at both ends.
func (l *List[T]) Move(delta int) bool {
	vis := l.Visible()
	if len(vis) == 0 || delta == 0 {
		return false
	}
	cur := -1
	for i, e := range vis {
		if e.Key() == l.active {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && delta < 0:
		next = len(vis) - 1
	case cur < 0:
		next = 0
	default:
		next = min(max(cur+delta, 0), len(vis)-1)
	}
	if vis[next].Key() == l.active {
		return false
	}
	l.active = vis[next].Key()
	return true
}

// Query returns the filter query.
func (l *List[T]) Query() string { return l.query }

// SetQuery sets the filter query. When the active entity is filtered out the
// selection moves to the first visible match, if any.
func (l *List[T]) SetQuery(q string) {
	l.query = q
	vis := l.Visible()
	if len(vis) == 0 {
		return
	}
	for _, e := range vis {
		if e.Key() == l.active {
			return
		}
	}
	l.active = vis[0].Key()
}

// Visible returns the items matching the query, in list order.
func (l *List[T]) Visible() []T {
	if l.query == "" {
		return l.items
	}
	matches := fuzzy.FindFrom(l.query, source[T](l.items))
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	sort.Ints(idx)
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = l.items[j]
	}
	return out
}

type source[T Entity] []T

func (s source[T]) String(i int) string { return s[i].FilterValue() }
func (s source[T]) Len() int            { return len(s) }
