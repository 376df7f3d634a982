// Package ingest implements the staged per-file ingest executor (spec
// C7): the Executor/CommitSink/DeferredStore the C6 kernel drives, and
// the shared ProjectContext language plugins collect into and analyze
// against.
//
// Grounded on original_source/crates/core/src/ingest/executor.rs
// (IngestExecutor's collect → analyze → lower dispatch, its
// collect_cache/analyze_cache, and the RemovePath-then-UpdateFile-then-
// lower-ops assembly order) and the kernel contract this package
// implements, internal/pipeline.
package ingest

import (
	"strings"

	"github.com/naviscope/naviscope/internal/types"
)

// WorkKind discriminates WorkItem's stage (spec §4.6's `IngestWorkItem`).
type WorkKind uint8

const (
	WorkSourceCollect WorkKind = iota
	WorkSourceAnalyze
	WorkSourceLower
	WorkStubRequest
)

// StubRequest asks for on-demand symbol stub generation for an unbound
// FQN, either synchronously (found mid-lower via the asset-route table)
// or asynchronously (spec C8, from a query-time hydration miss).
type StubRequest struct {
	FQN            string
	CandidatePaths []string
}

// WorkItem is the payload every pipeline.Message carries through the
// collect/analyze/lower chain (spec §4.6). Path/Content/File stay
// attached across all three stages -- the Rust `ParsedFile` this is
// grounded on is cloned into each stage's message the same way.
type WorkItem struct {
	Kind    WorkKind
	Path    string
	Content []byte
	File    types.SourceFile
	Stub    StubRequest
}

// nextStageMsgID derives a stage's message id from its predecessor's,
// replacing the trailing ":from" suffix with ":to" (or appending ":to"
// if there was no such suffix), matching executor.rs's
// `next_stage_msg_id`.
func nextStageMsgID(currentMsgID, from, to string) string {
	suffix := ":" + from
	if base, ok := strings.CutSuffix(currentMsgID, suffix); ok {
		return base + ":" + to
	}
	return currentMsgID + ":" + to
}
