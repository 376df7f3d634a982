package pipeline

// Executor runs one message's work (collect/analyze/lower/stub-request,
// spec C7) and reports what happened via a sequence of Events. It never
// mutates the graph directly -- that happens only through CommitSink,
// inside the kernel, so every reader sees an atomic per-epoch view
// (spec §4.5 invariant).
type Executor interface {
	Execute(msg Message) ([]Event, error)
}

// CommitSink applies one epoch's accumulated operations to the graph
// builder (C2/C3) and reports how many result batches it committed.
type CommitSink interface {
	CommitEpoch(epoch uint64, results []ExecutionResult) (int, error)
}

// DeferredStore parks messages with unresolved dependencies and
// reactivates them once those dependencies resolve (spec §4.5's gate).
type DeferredStore interface {
	Push(msg Message) error
	PopReady(limit int) ([]Message, error)
	NotifyReady(dep DependencyRef) error
}

// RuntimeMetrics observes kernel throughput and deferred-replay success,
// mirroring the teacher's debug.LogIndexing-style instrumentation points
// but through a narrow interface the kernel can be tested without.
type RuntimeMetrics interface {
	ObserveThroughput(label string, n int)
	ObserveReplayResult(foundReady bool)
}

// NoopMetrics discards every observation. Useful for tests and any
// caller that doesn't wire a metrics backend.
type NoopMetrics struct{}

func (NoopMetrics) ObserveThroughput(string, int) {}
func (NoopMetrics) ObserveReplayResult(bool)      {}
