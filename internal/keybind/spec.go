// Package keybind parses user-configurable key specs and resolves key events
// to named actions, including two-step leader chords.
package keybind

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrMalformed is returned (wrapped) for key specs that cannot be parsed.
var ErrMalformed = errors.New("malformed key spec")

// LeaderToken is the placeholder substituted with the configured leader chord.
const LeaderToken = "<leader>"

// Descriptor is one atomic key press: a canonical modifier set plus a key name.
// Descriptors are comparable and used directly as map keys.
type Descriptor struct {
	Mods string // canonical "+"-joined modifiers, e.g. "ctrl+alt"
	Key  string
}

// String renders the descriptor in spec form ("ctrl+x", "s").
func (d Descriptor) String() string {
	if d.Mods == "" {
		return d.Key
	}
	return d.Mods + "+" + d.Key
}

// Sequence is an ordered list of one or two descriptors. A two-step sequence
// starts with the leader descriptor.
type Sequence []Descriptor

// String renders the sequence as space-separated steps ("ctrl+x s").
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

// Chord reports whether the sequence is a two-step leader chord.
func (s Sequence) Chord() bool { return len(s) == 2 }

var modOrder = map[string]int{"ctrl": 0, "alt": 1, "shift": 2}

var modAliases = map[string]string{
	"control": "ctrl",
	"meta":    "alt",
	"option":  "alt",
}

var keyAliases = map[string]string{
	"escape": "esc",
	"return": "enter",
	" ":      "space",
	"spc":    "space",
}

// ParseChord parses a single "+"-joined chord such as "ctrl+x" or "S".
// The final token is the key name; preceding tokens are modifiers. Unknown
// modifier tokens are kept literally so layouts the parser does not know
// about still round-trip.
func ParseChord(s string) (Descriptor, error) {
	raw := s
	if s != " " {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return Descriptor{}, fmt.Errorf("%w: empty chord", ErrMalformed)
	}

	var key, rest string
	switch {
	case s == "+":
		key = "+"
	case strings.HasSuffix(s, "++"):
		key = "+"
		rest = strings.TrimSuffix(s, "++")
	default:
		i := strings.LastIndex(s, "+")
		key = s[i+1:]
		if i >= 0 {
			rest = s[:i]
			if rest == "" {
				return Descriptor{}, fmt.Errorf("%w: %q has an empty modifier", ErrMalformed, raw)
			}
		}
	}
	if key != " " {
		key = strings.TrimSpace(key)
	}
	if key == "" {
		return Descriptor{}, fmt.Errorf("%w: %q has no key", ErrMalformed, raw)
	}

	var mods []string
	if rest != "" {
		seen := make(map[string]bool)
		for _, tok := range strings.Split(rest, "+") {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok == "" {
				return Descriptor{}, fmt.Errorf("%w: %q has an empty modifier", ErrMalformed, raw)
			}
			if alias, ok := modAliases[tok]; ok {
				tok = alias
			}
			if !seen[tok] {
				seen[tok] = true
				mods = append(mods, tok)
			}
		}
		sortMods(mods)
	}

	return Descriptor{Mods: strings.Join(mods, "+"), Key: normalizeKey(key)}, nil
}

// sortMods orders known modifiers ctrl, alt, shift, followed by unknown ones
// alphabetically.
func sortMods(mods []string) {
	sort.Slice(mods, func(i, j int) bool {
		oi, iKnown := modOrder[mods[i]]
		oj, jKnown := modOrder[mods[j]]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return mods[i] < mods[j]
		}
	})
}

// normalizeKey lower-cases named keys ("Tab" -> "tab") and applies aliases.
// Single characters keep their case so "S" and "s" stay distinct.
func normalizeKey(k string) string {
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	if utf8.RuneCountInString(k) == 1 {
		return k
	}
	k = strings.ToLower(k)
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

// Parse parses a comma-separated binding spec ("ctrl+c,<leader>q,q") into
// sequences. A spec starting with <leader> becomes a two-step sequence whose
// first descriptor is leader.
func Parse(spec string, leader Descriptor) ([]Sequence, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, fmt.Errorf("%w: empty spec", ErrMalformed)
	}
	var out []Sequence
	for _, part := range strings.Split(spec, ",") {
		seq, err := parseSequence(part, leader)
		if err != nil {
			return nil, err
		}
		out = append(out, seq)
	}
	return out, nil
}

func parseSequence(part string, leader Descriptor) (Sequence, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return nil, fmt.Errorf("%w: empty entry", ErrMalformed)
	}
	if !strings.HasPrefix(part, LeaderToken) {
		if strings.Contains(part, LeaderToken) {
			return nil, fmt.Errorf("%w: %s must come first in %q", ErrMalformed, LeaderToken, part)
		}
		d, err := ParseChord(part)
		if err != nil {
			return nil, err
		}
		return Sequence{d}, nil
	}

	rest := strings.TrimPrefix(part, LeaderToken)
	rest = strings.TrimPrefix(strings.TrimSpace(rest), "+")
	if strings.TrimSpace(rest) == "" {
		return nil, fmt.Errorf("%w: %q has no key after %s", ErrMalformed, part, LeaderToken)
	}
	if strings.Contains(rest, LeaderToken) {
		return nil, fmt.Errorf("%w: %s repeated in %q", ErrMalformed, LeaderToken, part)
	}
	d, err := ParseChord(rest)
	if err != nil {
		return nil, err
	}
	return Sequence{leader, d}, nil
}
