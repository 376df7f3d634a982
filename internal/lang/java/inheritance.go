package java

import (
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/types"
)

// Inheritance implements resolver.InheritanceProvider by walking the
// graph's InheritsFrom/Implements edges breadth-first from sub toward
// super (spec §4.9.2 "Overload resolution" widening-conversion check,
// and member-in-hierarchy lookup). Grounded on
// original_source/crates/lang-java/src/resolver/mod.rs's is_subtype,
// which performs the same transitive-closure walk over the same two
// edge kinds plus an implicit java.lang.Object root.
type Inheritance struct {
	Graph *graph.CodeGraph
}

func (inh Inheritance) IsSubtype(sub, super types.TypeRef) bool {
	subFQN, ok := sub.BaseFQN()
	if !ok {
		return false
	}
	superFQN, ok := super.BaseFQN()
	if !ok {
		return false
	}
	if subFQN == superFQN {
		return true
	}
	if superFQN == "java.lang.Object" {
		return true
	}
	if inh.Graph == nil {
		return false
	}

	start := inh.Graph.FQNs().ResolveFQNString(subFQN)
	if len(start) == 0 {
		return false
	}

	visited := make(map[types.FqnId]bool)
	queue := append([]types.FqnId{}, start...)
	for _, id := range start {
		visited[id] = true
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range inh.Graph.Edges(cur) {
			if e.EdgeType != types.InheritsFrom && e.EdgeType != types.Implements {
				continue
			}
			if visited[e.To] {
				continue
			}
			if fqnMatches(inh.Graph, e.To, superFQN) {
				return true
			}
			visited[e.To] = true
			queue = append(queue, e.To)
		}
	}
	return false
}

func fqnMatches(g *graph.CodeGraph, id types.FqnId, fqnStr string) bool {
	for _, candidate := range g.FQNs().ResolveFQNString(fqnStr) {
		if candidate == id {
			return true
		}
	}
	return false
}
