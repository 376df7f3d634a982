package ingest

import (
	"sync"

	"github.com/naviscope/naviscope/internal/graph"
)

// GraphHolder is the ingest run's current committed snapshot, shared
// between CommitSink (which swaps it on every epoch commit) and
// ProjectContext (which resolves analyze/lower calls against it).
// Grounded on executor.rs's `current: Arc<tokio::sync::RwLock<Arc<CodeGraph>>>`.
type GraphHolder struct {
	mu      sync.RWMutex
	current *graph.CodeGraph
}

// NewGraphHolder seeds the holder with an initial snapshot (typically
// graph.Empty() for a from-scratch index, or a loaded snapshot for an
// incremental run).
func NewGraphHolder(g *graph.CodeGraph) *GraphHolder {
	return &GraphHolder{current: g}
}

// Snapshot returns the current committed graph.
func (h *GraphHolder) Snapshot() *graph.CodeGraph {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Swap replaces the current snapshot, making g visible to every
// subsequent Snapshot call.
func (h *GraphHolder) Swap(g *graph.CodeGraph) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = g
}
