// Package pipeline implements the ingest runtime's central message-bus
// kernel (spec C6): schedule, gate-on-dependency, execute, and commit
// messages by epoch, with bounded in-flight concurrency.
//
// Grounded on original_source/crates/ingest/src/runtime/kernel.rs. Where
// the Rust kernel is generic over a payload type P and op type Op (so it
// can be reused for non-ingest pipelines too), this package is concrete:
// Naviscope has exactly one pipeline, so Message.Payload is `any` and
// ExecutionResult.Operations is []types.GraphOp directly -- the generic
// machinery bought nothing a second call site would ever use.
package pipeline

import "github.com/naviscope/naviscope/internal/types"

// DependencyKind discriminates a DependencyRef's target: another
// in-flight message, or a named resource another stage publishes (e.g.
// a Java package name).
type DependencyKind uint8

const (
	DependencyMessage DependencyKind = iota
	DependencyResource
)

// DependencyRef gates a Message until the referenced message commits or
// the referenced resource is published (spec §4.5).
type DependencyRef struct {
	Kind DependencyKind
	Name string
}

// MessageDependency builds a DependencyRef on another message's id.
func MessageDependency(msgID string) DependencyRef {
	return DependencyRef{Kind: DependencyMessage, Name: msgID}
}

// ResourceDependency builds a DependencyRef on a named resource (e.g.
// "package:com.foo").
func ResourceDependency(name string) DependencyRef {
	return DependencyRef{Kind: DependencyResource, Name: name}
}

// Message is one unit of ingest work (spec §4.5's `Message<P>`): a
// collect/analyze/lower/stub-request task, gated by zero or more
// dependency refs, tagged with the epoch it will commit under.
type Message struct {
	ID           string
	Topic        string
	MessageGroup string
	Version      int
	DependsOn    []DependencyRef
	Epoch        uint64
	Payload      any
}

// EventKind discriminates PipelineEvent's variant.
type EventKind uint8

const (
	EventRunnable EventKind = iota
	EventDeferred
	EventExecuted
	EventFatal
)

// ExecutionResult is one message's contribution to an epoch's commit:
// the graph ops it produced, plus the resource refs it newly unblocks.
type ExecutionResult struct {
	MsgID            string
	Operations       []types.GraphOp
	NextDependencies []DependencyRef
}

// Event is one outcome an Executor.Execute call emits for a message
// (spec §4.5's `PipelineEvent`). Runnable appearing from Execute is a
// protocol violation -- that variant only ever describes input, never
// output -- and the kernel treats it as a fatal error.
type Event struct {
	Kind EventKind

	// Executed
	Epoch  uint64
	Result ExecutionResult

	// Deferred
	Deferred Message

	// Fatal
	FatalMsgID string
	FatalErr   error
}

func ExecutedEvent(epoch uint64, result ExecutionResult) Event {
	return Event{Kind: EventExecuted, Epoch: epoch, Result: result}
}

func DeferredEvent(msg Message) Event {
	return Event{Kind: EventDeferred, Deferred: msg}
}

func FatalEvent(msgID string, err error) Event {
	return Event{Kind: EventFatal, FatalMsgID: msgID, FatalErr: err}
}
