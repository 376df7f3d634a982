package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/ingest"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/types"
)

func newTestProjectContext() *ingest.ProjectContext {
	holder := ingest.NewGraphHolder(graph.NewBuilder(fqn.NewManager()).Build())
	return ingest.NewProjectContext(holder)
}

func runPipeline(t *testing.T, ctx *ingest.ProjectContext, path string, src string) langplugin.ResolvedUnit {
	t.Helper()
	s := SourceIndexer{Plugin: New()}

	collected, err := s.CollectSource(path, []byte(src), ctx)
	require.NoError(t, err)

	analyzed, err := s.AnalyzeSource(collected, ctx)
	require.NoError(t, err)

	unit, err := s.LowerSource(analyzed, ctx)
	require.NoError(t, err)
	return unit
}

func TestLowerSourceEmitsClassNodeAndPackageContainment(t *testing.T) {
	ctx := newTestProjectContext()
	unit := runPipeline(t, ctx, "Widget.java", `
package com.example;

public class Widget {
    private int count;

    public int getCount() {
        return count;
    }
}
`)

	var sawPackage, sawClass, sawField, sawMethod bool
	for _, op := range unit.Ops {
		if op.Op != types.OpAddNode {
			continue
		}
		switch op.Node.Kind {
		case types.Package:
			sawPackage = true
		case types.Class:
			sawClass = true
			assert.Equal(t, "Widget", op.Node.Name)
		case types.Field:
			sawField = true
		case types.Method:
			sawMethod = true
		}
	}
	assert.True(t, sawPackage, "expected a Package node op")
	assert.True(t, sawClass, "expected a Class node op")
	assert.True(t, sawField, "expected a Field node op")
	assert.True(t, sawMethod, "expected a Method node op")

	var sawIdentifiers bool
	for _, op := range unit.Ops {
		if op.Op == types.OpUpdateIdentifiers {
			sawIdentifiers = true
			assert.Contains(t, op.Identifiers, "Widget")
			assert.Contains(t, op.Identifiers, "getCount")
		}
	}
	assert.True(t, sawIdentifiers, "expected an UpdateIdentifiers op")
}

func TestLowerSourceResolvesSameFileSupertypeToNodeID(t *testing.T) {
	ctx := newTestProjectContext()
	unit := runPipeline(t, ctx, "Widgets.java", `
package com.example;

public class Base {
}

public class Widget extends Base {
}
`)

	b := graph.NewBuilder(fqn.NewManager())
	b.ApplyOps(unit.Ops)
	g := b.Build()

	ids := g.FQNs().ResolveFQNString("com.example.Widget")
	require.Len(t, ids, 1)

	var sawInherits bool
	for _, e := range g.Edges(ids[0]) {
		if e.EdgeType == types.InheritsFrom {
			sawInherits = true
			node, ok := g.Node(e.To)
			require.True(t, ok)
			assert.Equal(t, "Base", g.FQNs().Atoms().MustResolve(node.Name))
		}
	}
	assert.True(t, sawInherits, "expected Widget -> Base InheritsFrom edge")
}

func TestCollectSourcePublishesTopLevelTypes(t *testing.T) {
	ctx := newTestProjectContext()
	s := SourceIndexer{Plugin: New()}

	_, err := s.CollectSource("Widget.java", []byte(`
package com.example;

public class Widget {
}
`), ctx)
	require.NoError(t, err)

	sym, ok := ctx.Require("Widget")
	require.True(t, ok)
	assert.Equal(t, "Widget", sym.Name)
	assert.Equal(t, types.Class, sym.Kind)
}
