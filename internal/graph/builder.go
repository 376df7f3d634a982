package graph

import (
	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/types"
)

// Builder is the mutable side of the code graph (spec C3). Ingest
// pipelines (C6/C7) apply a batch of GraphOps to a Builder, then call
// Build to produce the next immutable CodeGraph version. A Builder is not
// safe for concurrent use -- the ingest coordinator owns it exclusively
// during a rebuild.
type Builder struct {
	fqns *fqn.Manager

	nodes   map[types.FqnId]*types.GraphNode
	edges   map[types.FqnId][]Edge
	reverse map[types.FqnId][]ReverseEdge

	nameIndex      map[types.Atom][]types.FqnId
	fileIndex      map[types.Atom]*FileEntry
	referenceIndex map[types.Atom][]types.Atom
}

// NewBuilder creates an empty Builder backed by the given FQN manager.
func NewBuilder(fqns *fqn.Manager) *Builder {
	return &Builder{
		fqns:           fqns,
		nodes:          make(map[types.FqnId]*types.GraphNode),
		edges:          make(map[types.FqnId][]Edge),
		reverse:        make(map[types.FqnId][]ReverseEdge),
		nameIndex:      make(map[types.Atom][]types.FqnId),
		fileIndex:      make(map[types.Atom]*FileEntry),
		referenceIndex: make(map[types.Atom][]types.Atom),
	}
}

// FromGraph creates a Builder seeded with a deep copy of an existing
// graph's data, so the source snapshot remains valid for readers while
// this Builder mutates its own copy (spec C2's MVCC invariant).
func FromGraph(g *CodeGraph) *Builder {
	b := &Builder{
		fqns:           g.fqns,
		nodes:          make(map[types.FqnId]*types.GraphNode, len(g.nodes)),
		edges:          make(map[types.FqnId][]Edge, len(g.edges)),
		reverse:        make(map[types.FqnId][]ReverseEdge, len(g.reverse)),
		nameIndex:      make(map[types.Atom][]types.FqnId, len(g.nameIndex)),
		fileIndex:      make(map[types.Atom]*FileEntry, len(g.fileIndex)),
		referenceIndex: make(map[types.Atom][]types.Atom, len(g.referenceIndex)),
	}
	for id, n := range g.nodes {
		cp := *n
		b.nodes[id] = &cp
	}
	for id, es := range g.edges {
		b.edges[id] = append([]Edge(nil), es...)
	}
	for id, es := range g.reverse {
		b.reverse[id] = append([]ReverseEdge(nil), es...)
	}
	for atom, ids := range g.nameIndex {
		b.nameIndex[atom] = append([]types.FqnId(nil), ids...)
	}
	for atom, e := range g.fileIndex {
		cp := FileEntry{Metadata: e.Metadata, Nodes: append([]types.FqnId(nil), e.Nodes...)}
		b.fileIndex[atom] = &cp
	}
	for atom, paths := range g.referenceIndex {
		b.referenceIndex[atom] = append([]types.Atom(nil), paths...)
	}
	return b
}

// AddNode adds or looks up a node. A nil data is a no-op (mirrors the
// Rust AddNode variant's Option<IndexNode>, spec C2). Re-adding a node
// whose id already exists is idempotent: the existing node is returned
// unchanged, matching the original implementation's fqn_index short
// circuit rather than overwriting in place.
func (b *Builder) AddNode(data *types.IndexNode) types.FqnId {
	if data == nil {
		return types.NoFqnId
	}

	id := b.fqns.InternNodeID(data.ID)
	if _, exists := b.nodes[id]; exists {
		return id
	}

	nameAtom := b.fqns.Atoms().Intern(data.Name)
	langAtom := b.fqns.Atoms().Intern(data.Lang)

	node := &types.GraphNode{
		ID:       id,
		Name:     nameAtom,
		Kind:     data.Kind,
		Lang:     langAtom,
		Source:   data.Source,
		Status:   data.Status,
		Location: data.Location,
		Metadata: data.Metadata,
	}
	b.nodes[id] = node
	b.nameIndex[nameAtom] = append(b.nameIndex[nameAtom], id)

	if data.Location != nil {
		pathAtom := data.Location.Path
		entry, ok := b.fileIndex[pathAtom]
		if !ok {
			entry = &FileEntry{Metadata: types.NewSourceFile(b.fqns.Atoms().MustResolve(pathAtom), 0, 0)}
			b.fileIndex[pathAtom] = entry
		}
		entry.Nodes = append(entry.Nodes, id)
	}

	return id
}

// AddEdge adds an edge between two already-interned nodes, suppressing a
// duplicate (from, to, EdgeType) triple (spec C2 invariant). Either
// endpoint missing from the graph is silently ignored -- the caller is
// expected to have added both nodes first.
func (b *Builder) AddEdge(from, to types.FqnId, edge types.GraphEdge) {
	if _, ok := b.nodes[from]; !ok {
		return
	}
	if _, ok := b.nodes[to]; !ok {
		return
	}

	for _, e := range b.edges[from] {
		if e.To == to && e.EdgeType == edge.EdgeType {
			return
		}
	}

	b.edges[from] = append(b.edges[from], Edge{To: to, EdgeType: edge.EdgeType, Range: edge.Range})
	b.reverse[to] = append(b.reverse[to], ReverseEdge{From: from, EdgeType: edge.EdgeType, Range: edge.Range})
}

// RemoveNode removes a single node and every edge touching it. It does
// not touch file_index -- RemovePath owns that (it removes the whole
// file entry before calling RemoveNode on each of its nodes), matching
// the original implementation's split of responsibilities.
func (b *Builder) RemoveNode(id types.FqnId) {
	node, ok := b.nodes[id]
	if !ok {
		return
	}
	delete(b.nodes, id)

	ids := b.nameIndex[node.Name]
	filtered := ids[:0]
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) == 0 {
		delete(b.nameIndex, node.Name)
	} else {
		b.nameIndex[node.Name] = filtered
	}

	for _, e := range b.edges[id] {
		b.reverse[e.To] = removeReverseFrom(b.reverse[e.To], id, e.EdgeType)
	}
	delete(b.edges, id)

	for _, re := range b.reverse[id] {
		b.edges[re.From] = removeEdgeTo(b.edges[re.From], id, re.EdgeType)
	}
	delete(b.reverse, id)
}

func removeReverseFrom(es []ReverseEdge, from types.FqnId, et types.EdgeType) []ReverseEdge {
	out := es[:0]
	for _, e := range es {
		if e.From == from && e.EdgeType == et {
			continue
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func removeEdgeTo(es []Edge, to types.FqnId, et types.EdgeType) []Edge {
	out := es[:0]
	for _, e := range es {
		if e.To == to && e.EdgeType == et {
			continue
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// RemovePath removes every node contributed by a file and scrubs the
// reference index of that file's path (spec C2).
func (b *Builder) RemovePath(path string) {
	pathAtom := b.fqns.Atoms().Intern(path)

	if entry, ok := b.fileIndex[pathAtom]; ok {
		delete(b.fileIndex, pathAtom)
		for _, id := range entry.Nodes {
			b.RemoveNode(id)
		}
	}

	for token, paths := range b.referenceIndex {
		filtered := paths[:0]
		for _, p := range paths {
			if p != pathAtom {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			delete(b.referenceIndex, token)
		} else {
			b.referenceIndex[token] = filtered
		}
	}
}

// UpdateFile creates or updates a file's metadata without touching the
// nodes already indexed for it.
func (b *Builder) UpdateFile(file types.SourceFile) {
	pathAtom := b.fqns.Atoms().Intern(file.Path)
	entry, ok := b.fileIndex[pathAtom]
	if !ok {
		b.fileIndex[pathAtom] = &FileEntry{Metadata: file}
		return
	}
	entry.Metadata = file
}

// UpdateIdentifiers records that `path` mentions every token in
// identifiers, feeding the scout tier's token-inverted index (spec C10).
func (b *Builder) UpdateIdentifiers(path string, identifiers []string) {
	pathAtom := b.fqns.Atoms().Intern(path)
	for _, token := range identifiers {
		tokenAtom := b.fqns.Atoms().Intern(token)
		paths := b.referenceIndex[tokenAtom]
		found := false
		for _, p := range paths {
			if p == pathAtom {
				found = true
				break
			}
		}
		if !found {
			b.referenceIndex[tokenAtom] = append(paths, pathAtom)
		}
	}
}

// ApplyOp applies a single GraphOp to the builder (spec C2/C6).
func (b *Builder) ApplyOp(op types.GraphOp) {
	switch op.Op {
	case types.OpAddNode:
		b.AddNode(op.Node)
	case types.OpAddEdge:
		fromID := b.fqns.InternNodeID(op.FromID)
		toID := b.fqns.InternNodeID(op.ToID)
		if _, ok := b.nodes[fromID]; !ok {
			return
		}
		if _, ok := b.nodes[toID]; !ok {
			return
		}
		b.AddEdge(fromID, toID, op.Edge)
	case types.OpRemovePath:
		b.RemovePath(op.Path)
	case types.OpUpdateIdentifiers:
		b.UpdateIdentifiers(op.Path, op.Identifiers)
	case types.OpUpdateFile:
		b.UpdateFile(op.File)
	}
}

// ApplyOps applies a batch of GraphOps in order. Callers emitting a
// RemovePath alongside AddNode/AddEdge ops for the same file must place
// the RemovePath first -- the builder applies ops in the order given and
// does not reorder them.
func (b *Builder) ApplyOps(ops []types.GraphOp) {
	for _, op := range ops {
		b.ApplyOp(op)
	}
}

// Build freezes the builder's state into an immutable CodeGraph. The
// builder must not be reused afterward; its maps are handed to the
// resulting graph (not copied again), so further mutation would corrupt
// a published snapshot.
func (b *Builder) Build() *CodeGraph {
	return &CodeGraph{
		fqns:           b.fqns,
		nodes:          b.nodes,
		edges:          b.edges,
		reverse:        b.reverse,
		nameIndex:      b.nameIndex,
		fileIndex:      b.fileIndex,
		referenceIndex: b.referenceIndex,
	}
}
