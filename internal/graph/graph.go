// Package graph implements the code graph core (spec C2): an immutable
// snapshot of GraphNodes and the edges between them, plus the name/file/
// reference indexes the query engine (C4) and discovery tier (C10) need.
//
// A CodeGraph is never mutated in place. Ingest (C6/C7) produces new
// versions through a Builder and the engine façade (C11) swaps an atomic
// pointer to the latest snapshot, so readers always see a consistent
// graph even while a rebuild is in flight (spec C2's MVCC invariant).
package graph

import (
	"sort"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/types"
)

// Edge is one outgoing relationship from a node.
type Edge struct {
	To       types.FqnId
	EdgeType types.EdgeType
	Range    *types.Range
}

// ReverseEdge is one incoming relationship into a node, kept so queries
// like "find references" and "call hierarchy" don't need a full scan.
type ReverseEdge struct {
	From     types.FqnId
	EdgeType types.EdgeType
	Range    *types.Range
}

// FileEntry is what the graph's file_index keeps per indexed file: its
// metadata plus the nodes it contributed.
type FileEntry struct {
	Metadata types.SourceFile
	Nodes    []types.FqnId
}

// CodeGraph is an immutable snapshot of the code graph. Every accessor is
// safe for concurrent use -- nothing here ever mutates after Build().
type CodeGraph struct {
	fqns *fqn.Manager

	nodes   map[types.FqnId]*types.GraphNode
	edges   map[types.FqnId][]Edge
	reverse map[types.FqnId][]ReverseEdge

	nameIndex map[types.Atom][]types.FqnId
	fileIndex map[types.Atom]*FileEntry

	// referenceIndex maps an identifier token atom to the set of file
	// path atoms that mention it -- the scout tier's token-inverted
	// index (spec C10), populated by UpdateIdentifiers.
	referenceIndex map[types.Atom][]types.Atom
}

// Empty returns a graph with zero nodes, sharing a fresh FQN manager.
func Empty() *CodeGraph {
	return NewBuilder(fqn.NewManager()).Build()
}

// FQNs returns the graph's FQN manager, shared by every snapshot derived
// from the same lineage via FromGraph.
func (g *CodeGraph) FQNs() *fqn.Manager { return g.fqns }

// Node looks up a node by its canonical id.
func (g *CodeGraph) Node(id types.FqnId) (*types.GraphNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeCount reports how many nodes the graph holds.
func (g *CodeGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount reports the total number of edges in the graph.
func (g *CodeGraph) EdgeCount() int {
	n := 0
	for _, es := range g.edges {
		n += len(es)
	}
	return n
}

// Edges returns the outgoing edges of a node, or nil if it has none.
func (g *CodeGraph) Edges(from types.FqnId) []Edge { return g.edges[from] }

// ReverseEdges returns the incoming edges of a node, or nil if it has
// none -- the basis for find-references and call-hierarchy-of-callers.
func (g *CodeGraph) ReverseEdges(to types.FqnId) []ReverseEdge { return g.reverse[to] }

// NodesByName returns every node whose display name is exactly `name`,
// regardless of kind or location -- the join point for find-references
// and goto-definition disambiguation.
func (g *CodeGraph) NodesByName(name string) []types.FqnId {
	atom, ok := g.fqns.Atoms().Find(name)
	if !ok {
		return nil
	}
	return g.nameIndex[atom]
}

// FileEntry returns the file_index entry for a path, if indexed.
func (g *CodeGraph) FileEntry(path string) (*FileEntry, bool) {
	atom, ok := g.fqns.Atoms().Find(path)
	if !ok {
		return nil, false
	}
	e, ok := g.fileIndex[atom]
	return e, ok
}

// NodesInFile returns the nodes contributed by a file, or nil if the file
// isn't indexed.
func (g *CodeGraph) NodesInFile(path string) []types.FqnId {
	e, ok := g.FileEntry(path)
	if !ok {
		return nil
	}
	return e.Nodes
}

// FilesReferencing returns the file paths whose identifier tokens include
// `token` -- the scout tier's first-pass candidate set (spec C10), to be
// narrowed by the scan tier's per-file re-resolution.
func (g *CodeGraph) FilesReferencing(token string) []string {
	atom, ok := g.fqns.Atoms().Find(token)
	if !ok {
		return nil
	}
	paths := g.referenceIndex[atom]
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, g.fqns.Atoms().MustResolve(p))
	}
	return out
}

// AllNodeIDs returns every node id in the graph, sorted for deterministic
// iteration -- used by Ls's orphans-capped-at-50 fallback (spec C4).
func (g *CodeGraph) AllNodeIDs() []types.FqnId {
	out := make([]types.FqnId, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Files returns every indexed file's path, sorted.
func (g *CodeGraph) Files() []string {
	out := make([]string, 0, len(g.fileIndex))
	for atom := range g.fileIndex {
		out = append(out, g.fqns.Atoms().MustResolve(atom))
	}
	sort.Strings(out)
	return out
}
