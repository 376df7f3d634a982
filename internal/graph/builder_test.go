package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/types"
)

func projectNode(name string) *types.IndexNode {
	return &types.IndexNode{
		ID:     types.NewFlatNodeId(name),
		Name:   name,
		Kind:   types.Project,
		Lang:   "buildfile",
		Source: types.SourceProject,
		Status: types.Resolved,
	}
}

func TestBuildFromScratch(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	b.AddNode(projectNode("test_project"))

	g := b.Build()

	assert.Equal(t, 1, g.NodeCount())
	matches := g.NodesByName("test_project")
	require.Len(t, matches, 1)
	node, ok := g.Node(matches[0])
	require.True(t, ok)
	assert.True(t, node.Kind.Equal(types.Project))
}

func TestIncrementalUpdate(t *testing.T) {
	g := Empty()
	assert.Equal(t, 0, g.NodeCount())

	b := FromGraph(g)
	b.AddNode(projectNode("new_project"))
	updated := b.Build()

	assert.Equal(t, 1, updated.NodeCount())
	assert.Equal(t, 0, g.NodeCount(), "the source snapshot must remain unchanged")
}

func TestAddNodeIsIdempotent(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	id1 := b.AddNode(projectNode("dup"))
	id2 := b.AddNode(projectNode("dup"))

	assert.Equal(t, id1, id2)
	g := b.Build()
	assert.Equal(t, 1, g.NodeCount())
}

func TestAddNodeNilIsNoOp(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	id := b.AddNode(nil)
	assert.Equal(t, types.NoFqnId, id)
	assert.Equal(t, 0, b.Build().NodeCount())
}

func TestAddNodeUpdatesFileIndex(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	path := b.fqns.Atoms().Intern("src/Main.java")
	n := &types.IndexNode{
		ID:     types.NewStructuredNodeId(types.FqnSegment{Kind: types.Class, Name: "Main"}),
		Name:   "Main",
		Kind:   types.Class,
		Lang:   "java",
		Source: types.SourceProject,
		Status: types.Resolved,
		Location: &types.Location{
			Path:  path,
			Range: types.Range{StartLine: 1, EndLine: 10},
		},
	}
	b.AddNode(n)
	g := b.Build()

	nodes := g.NodesInFile("src/Main.java")
	require.Len(t, nodes, 1)
	entry, ok := g.FileEntry("src/Main.java")
	require.True(t, ok)
	assert.Equal(t, "src/Main.java", entry.Metadata.Path)
}

func TestAddEdgeSuppressesDuplicates(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	fromID := b.AddNode(projectNode("from"))
	toID := b.AddNode(projectNode("to"))

	b.AddEdge(fromID, toID, types.GraphEdge{EdgeType: types.Contains})
	b.AddEdge(fromID, toID, types.GraphEdge{EdgeType: types.Contains})
	b.AddEdge(fromID, toID, types.GraphEdge{EdgeType: types.InheritsFrom})

	g := b.Build()
	assert.Len(t, g.Edges(fromID), 2)
	assert.Len(t, g.ReverseEdges(toID), 2)
}

func TestAddEdgeRequiresBothEndpoints(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	fromID := b.AddNode(projectNode("from"))
	b.AddEdge(fromID, types.FqnId(999999), types.GraphEdge{EdgeType: types.Contains})

	g := b.Build()
	assert.Empty(t, g.Edges(fromID))
}

func TestRemoveNodeClearsEdgesBothDirections(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	fromID := b.AddNode(projectNode("from"))
	toID := b.AddNode(projectNode("to"))
	b.AddEdge(fromID, toID, types.GraphEdge{EdgeType: types.Contains})

	b.RemoveNode(toID)

	g := b.Build()
	assert.Empty(t, g.Edges(fromID))
	_, ok := g.Node(toID)
	assert.False(t, ok)
}

func TestRemovePathRemovesAllNodesAndReferences(t *testing.T) {
	mgr := fqn.NewManager()
	b := NewBuilder(mgr)
	path := mgr.Atoms().Intern("src/Foo.java")
	n := &types.IndexNode{
		ID:       types.NewStructuredNodeId(types.FqnSegment{Kind: types.Class, Name: "Foo"}),
		Name:     "Foo",
		Kind:     types.Class,
		Lang:     "java",
		Location: &types.Location{Path: path},
	}
	b.AddNode(n)
	b.UpdateIdentifiers("src/Foo.java", []string{"doSomething"})

	b.RemovePath("src/Foo.java")

	g := b.Build()
	assert.Equal(t, 0, g.NodeCount())
	_, ok := g.FileEntry("src/Foo.java")
	assert.False(t, ok)
	assert.Empty(t, g.FilesReferencing("doSomething"))
}

func TestUpdateIdentifiersBuildsReferenceIndex(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	b.UpdateIdentifiers("src/A.java", []string{"helper", "helper"})
	b.UpdateIdentifiers("src/B.java", []string{"helper"})

	g := b.Build()
	files := g.FilesReferencing("helper")
	assert.ElementsMatch(t, []string{"src/A.java", "src/B.java"}, files)
}

func TestApplyOpsAppliesInOrder(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	ops := []types.GraphOp{
		types.AddNodeOp(projectNode("root")),
		types.UpdateFileOp(types.NewSourceFile("build.gradle", 10, 2)),
	}
	b.ApplyOps(ops)

	g := b.Build()
	assert.Equal(t, 1, g.NodeCount())
	entry, ok := g.FileEntry("build.gradle")
	require.True(t, ok)
	assert.Equal(t, int64(10), entry.Metadata.SizeBytes)
}

func TestApplyOpAddEdgeUsesNodeIds(t *testing.T) {
	b := NewBuilder(fqn.NewManager())
	fromNodeID := types.NewFlatNodeId("module-a")
	toNodeID := types.NewFlatNodeId("module-b")

	b.ApplyOp(types.AddNodeOp(&types.IndexNode{ID: fromNodeID, Name: "module-a", Kind: types.Module}))
	b.ApplyOp(types.AddNodeOp(&types.IndexNode{ID: toNodeID, Name: "module-b", Kind: types.Module}))
	b.ApplyOp(types.AddEdgeOp(fromNodeID, toNodeID, types.GraphEdge{EdgeType: types.UsesDependency}))

	g := b.Build()
	fromID := g.fqns.InternNodeID(fromNodeID)
	assert.Len(t, g.Edges(fromID), 1)
}

func TestUpdateFilePreservesExistingNodes(t *testing.T) {
	mgr := fqn.NewManager()
	b := NewBuilder(mgr)
	path := mgr.Atoms().Intern("src/Foo.java")
	b.AddNode(&types.IndexNode{
		ID:       types.NewStructuredNodeId(types.FqnSegment{Kind: types.Class, Name: "Foo"}),
		Name:     "Foo",
		Kind:     types.Class,
		Location: &types.Location{Path: path},
	})

	b.UpdateFile(types.NewSourceFile("src/Foo.java", 42, 7))

	g := b.Build()
	entry, ok := g.FileEntry("src/Foo.java")
	require.True(t, ok)
	assert.Equal(t, int64(42), entry.Metadata.SizeBytes)
	assert.Len(t, entry.Nodes, 1)
}
