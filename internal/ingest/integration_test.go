package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/pipeline"
	"github.com/naviscope/naviscope/internal/types"
)

// TestIngestRunThroughKernelCommitsNode drives a SourceCollect message
// through the real kernel (internal/pipeline) with this package's
// Executor, CommitSink, and DeferredStore wired together, asserting the
// collect → analyze → lower chain ends with the plugin's node visible in
// the committed graph.
func TestIngestRunThroughKernelCommitsNode(t *testing.T) {
	reg := langplugin.NewRegistry()
	reg.Register(fakeFullPlugin{name: "fake", ext: ".fake"})

	holder := NewGraphHolder(graph.Empty())
	ctx := NewProjectContext(holder)
	exec := NewExecutor(reg, ctx, nil, nil)
	sink := NewCommitSink(holder)
	store := NewDeferredStore()

	flow := pipeline.FlowControlConfig{
		MaxInFlightMessages: 4,
		DeferredPollLimit:   10,
		ReplayTick:          10 * time.Millisecond,
		ChannelCapacity:     8,
		DeferredCapacity:    8,
	}
	bus := pipeline.NewBusChannels(flow)

	bus.Intake <- pipeline.Message{
		ID:      "ingest:Widget.fake:collect",
		Epoch:   1,
		Payload: WorkItem{Kind: WorkSourceCollect, Path: "Widget.fake", File: types.NewSourceFile("Widget.fake", 12, 2)},
	}

	done := make(chan struct{})
	go func() {
		time.Sleep(200 * time.Millisecond)
		close(bus.Intake)
		close(done)
	}()

	ctx2, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stats, err := pipeline.RunPipeline(ctx2, bus, exec, sink, store, pipeline.NoopMetrics{}, nil, flow)
	<-done
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CommittedBatches)
	assert.Equal(t, 0, store.Pending())

	g := holder.Snapshot()
	nodes := g.NodesByName("Widget")
	require.Len(t, nodes, 1)
}
