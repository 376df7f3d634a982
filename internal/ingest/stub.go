package ingest

import "github.com/naviscope/naviscope/internal/types"

// StubPlanner inspects a lower stage's freshly-produced ops and deferred
// symbols for FQNs that resolve through the asset-route table, turning
// each into a StubRequest the executor runs synchronously before the
// lower message commits (spec §4.6 step 3, §4.8). Implemented by
// internal/assets (C8); left nil here means "no asset route table yet,"
// which SourceLower treats as zero stub requests rather than an error.
type StubPlanner interface {
	PlanStubRequests(ops []types.GraphOp) []StubRequest
	PlanDeferredStubRequests(deferredTargets []string) []StubRequest
}

// StubExecutor generates the graph ops for one stub request (spec C8's
// lazy hydration): a synchronous lookup-or-generate against the asset
// stub cache. Implemented by internal/assets.
type StubExecutor interface {
	ExecuteStub(req StubRequest) []types.GraphOp
}
