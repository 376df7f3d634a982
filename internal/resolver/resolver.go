package resolver

import (
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/types"
)

// Resolver runs the cursor-to-SymbolResolution query (spec §4.9) over
// a parsed Java tree, using LangHooks for every syntax-shape question
// and an InheritanceProvider for hierarchy walks. internal/lang/java's
// Semantic implementation builds one per call (or reuses one across a
// file's lifetime) and delegates ResolveAt/FindMatches/ResolveTypeOf/
// FindImplementations to it.
//
// Grounded on resolver/mod.rs's resolve_at / resolve_symbol_internal /
// get_active_scopes.
type Resolver struct {
	hooks LangHooks
	inh   InheritanceProvider
	infer *TypeInferer
}

// New builds a Resolver over hooks and inh.
func New(hooks LangHooks, inh InheritanceProvider) *Resolver {
	return &Resolver{hooks: hooks, inh: inh, infer: NewTypeInferer(hooks, inh)}
}

// ResolveAt maps a cursor position to a SymbolResolution (spec §4.9
// steps 1-3). Returns (nil, nil) if nothing identifier-like sits at
// the cursor.
func (r *Resolver) ResolveAt(tree Node, source []byte, line, byteCol int, snapshot *graph.CodeGraph) (*types.SymbolResolution, error) {
	n, ok := r.hooks.CursorNode(tree, line, byteCol)
	if !ok {
		return nil, nil
	}
	name := r.hooks.Text(n, source)
	intent := r.hooks.Intent(n)

	ctx := ResolutionContext{
		Tree:             tree,
		Source:           source,
		Snapshot:         snapshot,
		EnclosingClasses: r.hooks.EnclosingClasses(n),
	}

	sm := BuildScopeManager(r.hooks, n, source)
	_, hasReceiver := r.hooks.Receiver(n)

	for _, scope := range r.activeScopes(n, intent, hasReceiver, sm) {
		if res, ok := scope.Resolve(n, name, ctx); ok {
			return &res, nil
		}
	}

	global := types.GlobalResolution(name)
	return &global, nil
}

// activeScopes builds the ordered scope chain for one cursor position
// (spec §4.9 step 2-3): LocalScope is excluded whenever an explicit
// receiver is present, and BuiltinScope is only tried for a Type
// intent.
func (r *Resolver) activeScopes(n Node, intent types.Intent, hasReceiver bool, sm *ScopeManager) []Scope {
	var scopes []Scope
	if !hasReceiver {
		scopes = append(scopes, NewLocalScope(r.hooks, sm, r.infer))
	}
	scopes = append(scopes, NewMemberScope(r.hooks, r.infer, sm))
	scopes = append(scopes, NewImportScope(r.hooks))
	if intent == types.IntentType {
		scopes = append(scopes, BuiltinScope{})
	}
	return scopes
}

// FindMatches turns a SymbolResolution into the concrete graph nodes it
// denotes (spec §4.9's goto-definition terminus). Local resolutions
// have no graph node (they denote a position, not an FQN) and return
// nil.
func (r *Resolver) FindMatches(res types.SymbolResolution, snapshot *graph.CodeGraph) ([]types.FqnId, error) {
	switch res.Kind {
	case types.ResolutionPrecise:
		return snapshot.FQNs().ResolveFQNString(res.FQN), nil
	case types.ResolutionGlobal:
		return snapshot.NodesByName(res.GlobalName), nil
	default:
		return nil, nil
	}
}

// ResolveTypeOf returns the declared/inferred type node for res, if one
// exists (spec §4.9 "type-of").
func (r *Resolver) ResolveTypeOf(res types.SymbolResolution, snapshot *graph.CodeGraph) (types.FqnId, bool) {
	switch res.Kind {
	case types.ResolutionLocal:
		if res.ResolvedType == "" {
			return types.NoFqnId, false
		}
		ids := snapshot.FQNs().ResolveFQNString(res.ResolvedType)
		if len(ids) == 0 {
			return types.NoFqnId, false
		}
		return ids[0], true
	case types.ResolutionPrecise:
		ids := snapshot.FQNs().ResolveFQNString(res.FQN)
		if len(ids) == 0 {
			return types.NoFqnId, false
		}
		for _, e := range snapshot.Edges(ids[0]) {
			if e.EdgeType == types.TypedAs {
				return e.To, true
			}
		}
		return ids[0], true
	default:
		return types.NoFqnId, false
	}
}

// FindImplementations returns the nodes that implement/override id
// (spec §4.9 "implementations"): every node with an Implements or
// InheritsFrom edge pointing at id.
func (r *Resolver) FindImplementations(id types.FqnId, snapshot *graph.CodeGraph) ([]types.FqnId, error) {
	var out []types.FqnId
	for _, e := range snapshot.ReverseEdges(id) {
		if e.EdgeType == types.Implements || e.EdgeType == types.InheritsFrom {
			out = append(out, e.From)
		}
	}
	return out, nil
}
