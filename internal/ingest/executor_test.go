package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/pipeline"
	"github.com/naviscope/naviscope/internal/types"
)

type fakeIndexer struct{}

func (fakeIndexer) CollectSource(path string, content []byte, ctx langplugin.ProjectContext) (langplugin.CollectArtifact, error) {
	return langplugin.CollectArtifact{
		Provided: []langplugin.ProvidedSymbol{{Name: "pkg:com.example"}},
		Required: nil,
	}, nil
}

func (fakeIndexer) AnalyzeSource(a langplugin.CollectArtifact, ctx langplugin.ProjectContext) (langplugin.AnalyzeArtifact, error) {
	return langplugin.AnalyzeArtifact{Payload: a.Provided}, nil
}

func (fakeIndexer) LowerSource(a langplugin.AnalyzeArtifact, ctx langplugin.ProjectContext) (langplugin.ResolvedUnit, error) {
	node := &types.IndexNode{ID: types.NewFlatNodeId("Widget"), Name: "Widget", Kind: types.Class, Lang: "fake"}
	return langplugin.ResolvedUnit{Ops: []types.GraphOp{types.AddNodeOp(node)}}, nil
}

type fakeFullPlugin struct {
	name string
	ext  string
}

func (p fakeFullPlugin) Name() string              { return p.name }
func (p fakeFullPlugin) Supports(path string) bool { return strings.HasSuffix(path, p.ext) }
func (p fakeFullPlugin) Parse(path string, content []byte) (langplugin.ParseTree, error) {
	return string(content), nil
}
func (p fakeFullPlugin) NamingConvention() fqn.NamingConvention  { return fqn.StandardNamingConvention{} }
func (p fakeFullPlugin) NodePresenter() langplugin.NodePresenter { return fakePresenterT{} }
func (p fakeFullPlugin) SourceIndexer() langplugin.SourceIndexer { return fakeIndexer{} }
func (p fakeFullPlugin) Semantic() langplugin.Semantic           { return nil }
func (p fakeFullPlugin) MetadataCodec() langplugin.MetadataCodec { return nil }

type fakePresenterT struct{}

func (fakePresenterT) Present(node *types.GraphNode, atoms *fqn.Interner) langplugin.Presentation {
	return langplugin.Presentation{}
}

func newTestExecutor(t *testing.T) (*Executor, *GraphHolder) {
	t.Helper()
	reg := langplugin.NewRegistry()
	reg.Register(fakeFullPlugin{name: "fake", ext: ".fake"})
	holder := NewGraphHolder(graph.Empty())
	ctx := NewProjectContext(holder)
	return NewExecutor(reg, ctx, nil, nil), holder
}

func TestExecuteCollectPublishesAndQueuesAnalyze(t *testing.T) {
	exec, _ := newTestExecutor(t)
	msg := pipeline.Message{ID: "m1:collect", Epoch: 1, Payload: WorkItem{Kind: WorkSourceCollect, Path: "Widget.fake"}}

	events, err := exec.Execute(msg)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, pipeline.EventExecuted, events[0].Kind)
	assert.Equal(t, []pipeline.DependencyRef{pipeline.ResourceDependency("pkg:com.example")}, events[0].Result.NextDependencies)

	assert.Equal(t, pipeline.EventDeferred, events[1].Kind)
	assert.Equal(t, "m1:analyze", events[1].Deferred.ID)
	item := events[1].Deferred.Payload.(WorkItem)
	assert.Equal(t, WorkSourceAnalyze, item.Kind)

	_, ok := exec.ctx.Require("pkg:com.example")
	assert.True(t, ok)
}

func TestExecuteAnalyzeThenLowerProducesGraphOps(t *testing.T) {
	exec, _ := newTestExecutor(t)

	collectMsg := pipeline.Message{ID: "m1:collect", Epoch: 1, Payload: WorkItem{Kind: WorkSourceCollect, Path: "Widget.fake"}}
	_, err := exec.Execute(collectMsg)
	require.NoError(t, err)

	analyzeMsg := pipeline.Message{ID: "m1:analyze", Epoch: 1, Payload: WorkItem{Kind: WorkSourceAnalyze, Path: "Widget.fake"}}
	events, err := exec.Execute(analyzeMsg)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, pipeline.EventDeferred, events[1].Kind)
	assert.Equal(t, "m1:lower", events[1].Deferred.ID)
	assert.Equal(t, []pipeline.DependencyRef{pipeline.MessageDependency("m1:analyze")}, events[1].Deferred.DependsOn)

	lowerMsg := pipeline.Message{
		ID: "m1:lower", Epoch: 1,
		Payload: WorkItem{Kind: WorkSourceLower, Path: "Widget.fake", File: types.NewSourceFile("Widget.fake", 10, 1)},
	}
	events, err = exec.Execute(lowerMsg)
	require.NoError(t, err)
	require.Len(t, events, 1)
	ops := events[0].Result.Operations
	require.Len(t, ops, 3)
	assert.Equal(t, types.OpRemovePath, ops[0].Op)
	assert.Equal(t, types.OpUpdateFile, ops[1].Op)
	assert.Equal(t, types.OpAddNode, ops[2].Op)
}

func TestExecuteLowerRecomputesWhenAnalyzeCacheMissed(t *testing.T) {
	exec, _ := newTestExecutor(t)

	// Skip collect/analyze entirely -- lower must recompute both.
	lowerMsg := pipeline.Message{
		ID: "standalone:lower", Epoch: 1,
		Payload: WorkItem{Kind: WorkSourceLower, Path: "Widget.fake", File: types.NewSourceFile("Widget.fake", 10, 1)},
	}
	events, err := exec.Execute(lowerMsg)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Len(t, events[0].Result.Operations, 3)
}

func TestExecuteUnmatchedPathStillEmitsRemoveAndUpdateFile(t *testing.T) {
	exec, _ := newTestExecutor(t)
	msg := pipeline.Message{
		ID: "x:lower", Epoch: 1,
		Payload: WorkItem{Kind: WorkSourceLower, Path: "unknown.bin", File: types.NewSourceFile("unknown.bin", 1, 1)},
	}
	events, err := exec.Execute(msg)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[0].Result.Operations, 2)
	assert.Equal(t, types.OpRemovePath, events[0].Result.Operations[0].Op)
	assert.Equal(t, types.OpUpdateFile, events[0].Result.Operations[1].Op)
}

func TestExecuteRejectsUnknownPayload(t *testing.T) {
	exec, _ := newTestExecutor(t)
	_, err := exec.Execute(pipeline.Message{Payload: "not a work item"})
	assert.Error(t, err)
}
