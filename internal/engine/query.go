package engine

import (
	"context"

	"github.com/naviscope/naviscope/internal/query"
	"github.com/naviscope/naviscope/internal/types"
)

// Verb selects which shell/LSP query operation GraphQuery runs (spec
// C4): Find/Ls/Cat/Deps, the same four verbs internal/query.Engine
// exposes as separate methods -- GraphQuery just bundles one call's
// arguments into a single value so the façade has one Query entry point
// (spec §4.11 "query(GraphQuery) -> run on blocking pool via C4").
type Verb uint8

const (
	VerbFind Verb = iota
	VerbLs
	VerbCat
	VerbDeps
)

// GraphQuery is one request against the current snapshot.
type GraphQuery struct {
	Verb Verb

	// Find
	Pattern string
	Kinds   []types.NodeKind
	Limit   int

	// Ls/Cat/Deps
	FQN string

	// Deps
	Reverse   bool
	EdgeTypes []types.EdgeType
}

type queryOutcome struct {
	result *query.Result
	err    error
}

// Query runs q on the façade's bounded blocking-query pool, against a
// fresh query.Engine bound to the snapshot taken at dispatch time (spec
// §4.11 "run on blocking pool via C4"; §5 "CPU-bound work is offloaded
// to a blocking thread pool via spawn_blocking"). Every call sees an
// internally consistent graph even if a concurrent Rebuild/UpdateFiles
// swaps in a new one mid-query, since the snapshot taken at entry is
// immutable (spec §8 "snapshot stability").
func (e *Engine) Query(ctx context.Context, q GraphQuery) (*query.Result, error) {
	done := make(chan queryOutcome, 1)

	if err := e.queryPool.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	go func() {
		defer e.queryPool.Release(1)
		result, err := e.runQuery(q)
		done <- queryOutcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) runQuery(q GraphQuery) (*query.Result, error) {
	qe := query.NewWithRoot(e.Snapshot(), e.cfg.Project.Root)
	switch q.Verb {
	case VerbFind:
		return qe.Find(q.Pattern, q.Kinds, q.Limit)
	case VerbLs:
		return qe.Ls(q.FQN, q.Kinds)
	case VerbCat:
		return qe.Cat(q.FQN)
	case VerbDeps:
		return qe.Deps(q.FQN, q.Reverse, q.EdgeTypes)
	default:
		return nil, errUnknownVerb
	}
}

type verbError struct{}

func (verbError) Error() string { return "engine: unknown query verb" }

var errUnknownVerb = verbError{}
