package resolver

import (
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/types"
)

// ResolutionContext bundles everything a scope probe needs to resolve a
// name: the parsed tree and source it came from, the committed graph
// snapshot to probe against, and the lexical enclosing-class chain for
// the cursor (spec §4.9's `context.enclosing_classes`).
//
// Grounded on resolver/context.rs's ResolutionContext (referenced
// throughout mod.rs and scope/member.rs).
type ResolutionContext struct {
	Tree     Node
	Source   []byte
	Snapshot *graph.CodeGraph

	// EnclosingClasses are the FQNs lexically enclosing the cursor,
	// innermost first.
	EnclosingClasses []string
}

// resolveFQN probes the graph's FQN index for name, mirroring the
// Rust original's `context.index.resolve_fqn(n)`.
func (ctx ResolutionContext) resolveFQN(name string) []types.FqnId {
	if ctx.Snapshot == nil {
		return nil
	}
	return ctx.Snapshot.FQNs().ResolveFQNString(name)
}
