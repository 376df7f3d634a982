package ingest

import (
	"sync"

	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/pipeline"
)

// CommitSink applies one epoch's accumulated operations to the graph
// builder and swaps the holder's snapshot, implementing
// pipeline.CommitSink. Serialized by a mutex: only one epoch commits at
// a time, so builds-from-snapshot never race each other (spec §4.5's
// "per-epoch commits are atomic with respect to readers").
//
// Grounded on builder.rs's ApplyOps-in-order contract (C2/C3) and
// executor.rs's ordering guarantee that SourceLower already prepends
// RemovePath before UpdateFile before its own ops -- this sink trusts
// that ordering and just applies each result's Operations as given.
type CommitSink struct {
	mu     sync.Mutex
	holder *GraphHolder
}

func NewCommitSink(holder *GraphHolder) *CommitSink {
	return &CommitSink{holder: holder}
}

func (c *CommitSink) CommitEpoch(epoch uint64, results []pipeline.ExecutionResult) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := graph.FromGraph(c.holder.Snapshot())
	committed := 0
	for _, r := range results {
		if len(r.Operations) == 0 {
			continue
		}
		b.ApplyOps(r.Operations)
		committed++
	}
	c.holder.Swap(b.Build())
	return committed, nil
}
