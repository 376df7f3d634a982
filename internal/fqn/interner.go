// Package fqn implements the atom interner and structured-FQN manager
// (spec C1): a thread-safe string pool plus a tree of (parent, name,
// kind) nodes that gives every code entity a stable, deduplicated
// identity across the whole indexed tree.
package fqn

import (
	"sync"

	"github.com/naviscope/naviscope/internal/types"
)

// Interner is a thread-safe string pool returning 32-bit Atom handles.
// Resolve is O(1) and never fails once the handle has been returned by
// Intern; handles are never invalidated by later insertions.
type Interner struct {
	mu      sync.RWMutex
	strings []string
	index   map[string]types.Atom
}

// NewInterner creates an empty Interner. Atom 0 (types.NoAtom) is
// reserved, so the first interned string gets handle 1.
func NewInterner() *Interner {
	return &Interner{
		strings: make([]string, 1, 256), // index 0 reserved for NoAtom
		index:   make(map[string]types.Atom, 256),
	}
}

// Intern returns the Atom for s, interning it if this is the first time
// it has been seen.
func (in *Interner) Intern(s string) types.Atom {
	in.mu.RLock()
	if a, ok := in.index[s]; ok {
		in.mu.RUnlock()
		return a
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if a, ok := in.index[s]; ok {
		return a
	}
	a := types.Atom(len(in.strings))
	in.strings = append(in.strings, s)
	in.index[s] = a
	return a
}

// Find looks up an already-interned string without interning it. Used by
// lookups that must not grow the table just to test membership (e.g. the
// FQN manager's ambiguous-kind probe).
func (in *Interner) Find(s string) (types.Atom, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	a, ok := in.index[s]
	return a, ok
}

// Resolve maps an Atom back to its string. Returns false for an Atom this
// Interner never issued (including types.NoAtom).
func (in *Interner) Resolve(a types.Atom) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(a) <= 0 || int(a) >= len(in.strings) {
		return "", false
	}
	return in.strings[a], true
}

// MustResolve is Resolve without the ok flag, for callers certain the
// Atom is one this Interner produced.
func (in *Interner) MustResolve(a types.Atom) string {
	s, _ := in.Resolve(a)
	return s
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strings) - 1
}

// Snapshot returns the interned strings in id order (index 0 is the
// NoAtom placeholder), for persistence.
func (in *Interner) Snapshot() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]string, len(in.strings))
	copy(out, in.strings)
	return out
}

// LoadSnapshot rebuilds the interner's tables from a persisted id-ordered
// string list (index 0 must be the empty placeholder).
func LoadSnapshot(strs []string) *Interner {
	in := &Interner{
		strings: append([]string(nil), strs...),
		index:   make(map[string]types.Atom, len(strs)),
	}
	for i, s := range in.strings {
		if i == 0 {
			continue
		}
		in.index[s] = types.Atom(i)
	}
	return in
}
