package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/types"
)

func TestEmptyGraph(t *testing.T) {
	g := Empty()
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Empty(t, g.AllNodeIDs())
	assert.Empty(t, g.Files())
}

func TestNodesByNameUnknownReturnsNil(t *testing.T) {
	g := Empty()
	assert.Nil(t, g.NodesByName("nope"))
}

func TestAllNodeIDsSorted(t *testing.T) {
	mgr := fqn.NewManager()
	b := NewBuilder(mgr)
	b.AddNode(projectNode("c"))
	b.AddNode(projectNode("a"))
	b.AddNode(projectNode("b"))

	g := b.Build()
	ids := g.AllNodeIDs()
	require.Len(t, ids, 3)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestFilesSortedAlphabetically(t *testing.T) {
	mgr := fqn.NewManager()
	b := NewBuilder(mgr)
	b.UpdateFile(types.NewSourceFile("z.java", 1, 1))
	b.UpdateFile(types.NewSourceFile("a.java", 1, 1))

	g := b.Build()
	assert.Equal(t, []string{"a.java", "z.java"}, g.Files())
}

func TestEdgeCountSumsAllAdjacency(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	a := b.AddNode(projectNode("a"))
	c := b.AddNode(projectNode("b"))
	d := b.AddNode(projectNode("c"))
	b.AddEdge(a, c, types.GraphEdge{EdgeType: types.Contains})
	b.AddEdge(a, d, types.GraphEdge{EdgeType: types.Contains})
	b.AddEdge(c, d, types.GraphEdge{EdgeType: types.UsesDependency})

	g := b.Build()
	assert.Equal(t, 3, g.EdgeCount())
}
