// Package types defines the universal symbol-graph data model shared by
// every Naviscope subsystem: interned atoms and FQN ids, node/edge kinds,
// source locations, and the graph node/edge records themselves.
package types

// Atom is an opaque handle for an interned string. Resolving an Atom is
// O(1) and never fails once the Atom has been returned by an interner.
type Atom uint32

// FqnId is an opaque handle for an interned, structured fully-qualified
// name. It is the canonical identity of a named entity in the graph.
type FqnId uint32

// NoAtom and NoFqnId are the zero values, reserved to mean "absent" in
// composite encodings (idcodec.EncodeNoZero) and optional fields.
const (
	NoAtom  Atom  = 0
	NoFqnId FqnId = 0
)
