// Package state holds the client-side view of the Docker daemon: the last
// polled entity lists, one active selection per kind, the focused pane and
// the filter query. It is mutated only from the bubbletea update loop.
package state

// Entity is anything listed in a pane.
type Entity interface {
	// Key is the stable identity used for selection.
	Key() string
	// FilterValue is the text matched by the fuzzy filter.
	FilterValue() string
}

// Reconcile picks the active key after list replaced the previous one:
// prev if it is still present, else the first key, else "".
func Reconcile[T Entity](list []T, prev string) string {
	if len(list) == 0 {
		return ""
	}
	if prev != "" {
		for _, e := range list {
			if e.Key() == prev {
				return prev
			}
		}
	}
	return list[0].Key()
}
