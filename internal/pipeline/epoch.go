package pipeline

import (
	"fmt"
	"sync"
)

// EpochTracker asserts the kernel's monotonic-visibility guarantee
// (spec §4.5: "epoch N+1 cannot be visible before epoch N's commit has
// resolved"). Grounded on original_source's `runtime::EpochTracker`,
// referenced from kernel.rs as `record_internal_submit` (called when an
// executor emits a Deferred event mid-execution, before its own epoch
// has committed) and `mark_committed` (called once an epoch's results
// are handed to the CommitSink).
//
// Wiring this is optional -- RunPipeline accepts a nil *EpochTracker and
// skips both calls. Only the kernel tests construct one; internal/ingest
// (C7) passes nil.
type EpochTracker struct {
	mu               sync.Mutex
	pendingInternal  map[uint64]int
	highestCommitted uint64
	hasCommitted     bool
}

func NewEpochTracker() *EpochTracker {
	return &EpochTracker{pendingInternal: make(map[uint64]int)}
}

// RecordInternalSubmit notes that a message was deferred from within an
// in-progress execute call, under the given epoch.
func (t *EpochTracker) RecordInternalSubmit(epoch uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingInternal[epoch]++
	return nil
}

// MarkCommitted records that epoch has committed. It refuses to go
// backwards: once epoch N is the highest committed, nothing lower may
// commit afterward.
func (t *EpochTracker) MarkCommitted(epoch uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hasCommitted && epoch < t.highestCommitted {
		return fmt.Errorf("epoch tracker: epoch %d committed after %d, visibility must be monotonic", epoch, t.highestCommitted)
	}
	delete(t.pendingInternal, epoch)
	t.highestCommitted = epoch
	t.hasCommitted = true
	return nil
}

// HighestCommitted returns the highest epoch committed so far, and
// whether any epoch has committed yet.
func (t *EpochTracker) HighestCommitted() (epoch uint64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.highestCommitted, t.hasCommitted
}
