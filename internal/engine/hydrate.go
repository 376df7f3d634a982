package engine

import (
	"time"

	"github.com/naviscope/naviscope/internal/ingest"
	"github.com/naviscope/naviscope/internal/pipeline"
	"github.com/naviscope/naviscope/internal/types"
)

// hydrationRetries/hydrationDelay bound RequestStubForFQN's poll loop
// (spec §4.11 "Semantic calls that need hydration poll up to 3x at 25ms
// intervals after enqueuing"); Assets.HydrationRetries/HydrationDelayMs
// in config override the spec's literal defaults when set.
const (
	defaultHydrationRetries = 3
	defaultHydrationDelayMs = 25
)

// RequestStubForFQN is called when a semantic query (goto-definition,
// type-of, ...) targets an FQN absent from the graph: it looks up asset
// routes via the asset service (C8), runs stub generation synchronously
// through the same CommitSink every ingest run uses, and polls the
// snapshot a few times in case the stub was already in flight from a
// concurrent hydration request. Returns the resolved node id and true
// once the FQN appears, or false if it never does.
//
// A nil asset service (no AssetAwarePlugin registered) makes every call
// a fast no-op miss.
func (e *Engine) RequestStubForFQN(fqn string) (types.FqnId, bool) {
	if ids := e.Snapshot().FQNs().ResolveFQNString(fqn); len(ids) > 0 {
		return ids[0], true
	}
	if e.assets == nil {
		return types.NoFqnId, false
	}

	ops := e.assets.ExecuteStub(ingest.StubRequest{FQN: fqn})
	if len(ops) > 0 {
		if err := e.commitOps(ops); err != nil {
			return types.NoFqnId, false
		}
	}

	retries := e.cfg.Assets.HydrationRetries
	if retries <= 0 {
		retries = defaultHydrationRetries
	}
	delayMs := e.cfg.Assets.HydrationDelayMs
	if delayMs <= 0 {
		delayMs = defaultHydrationDelayMs
	}
	delay := time.Duration(delayMs) * time.Millisecond

	for i := 0; i < retries; i++ {
		if ids := e.Snapshot().FQNs().ResolveFQNString(fqn); len(ids) > 0 {
			return ids[0], true
		}
		time.Sleep(delay)
	}
	return types.NoFqnId, false
}

// commitOps applies a handful of ops directly through a fresh
// CommitSink, the same synchronous path removePaths uses -- a stub
// hydration is a single-node addition, not a full ingest run, so it
// doesn't need the kernel's collect/analyze/lower scheduling.
func (e *Engine) commitOps(ops []types.GraphOp) error {
	_, sink, _ := e.newRun()
	epoch := e.nextEpoch()
	_, err := sink.CommitEpoch(epoch, []pipeline.ExecutionResult{{MsgID: "engine:stub", Operations: ops}})
	return err
}
