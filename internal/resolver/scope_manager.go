package resolver

// ScopeId identifies one scope built by ScopeManager.
type ScopeId int

// scopeRecord is one entry of the scope tree: its kind, parent link,
// and the bindings introduced directly in it (spec §4.9.1).
type scopeRecord struct {
	kind     ScopeOwnerKind
	classFQN string
	parent   ScopeId // -1 if none
	bindings map[string]ScopeBinding
}

// ScopeManager records the chain of scope owners enclosing the cursor
// (spec §4.9.1), built by BuildScopeManager's single upward walk: each
// enclosing owner gets a ScopeId, and lookups walk the parent chain
// from the scope owning the cursor outward. Scopes that do not enclose
// the cursor (sibling blocks, other methods) get no ScopeId.
//
// Grounded on resolver/mod.rs's ScopeManager (referenced by
// get_active_scopes/LocalScope) -- the Rust original keys scopes by
// tree-sitter node id directly; this port keys by the opaque Node
// handle via nodeScope, which is equivalent since LangHooks
// guarantees stable node identity within one resolution call.
type ScopeManager struct {
	hooks     LangHooks
	scopes    []scopeRecord
	nodeScope map[Node]ScopeId
}

const noParent ScopeId = -1

// BuildScopeManager walks up from cursor through every enclosing scope
// owner (method, block, for, try-with-resources, lambda, catch, class
// body) exactly once, recording each one's bindings.
func BuildScopeManager(hooks LangHooks, cursor Node, source []byte) *ScopeManager {
	sm := &ScopeManager{hooks: hooks, nodeScope: make(map[Node]ScopeId)}

	owner, kind, classFQN, ok := hooks.ScopeOwner(cursor)
	if !ok {
		return sm
	}

	// Walk outward collecting the owner chain innermost-first, then
	// build scope records outermost-first so each one's parent id is
	// already known by the time its child needs it -- the walk order
	// and the parent-link order are opposites.
	type ownerEntry struct {
		node     Node
		kind     ScopeOwnerKind
		classFQN string
	}
	chain := []ownerEntry{{owner, kind, classFQN}}
	for {
		nextOwner, nextKind, nextFQN, hasParent := hooks.ParentScopeOwner(owner)
		if !hasParent {
			break
		}
		chain = append(chain, ownerEntry{nextOwner, nextKind, nextFQN})
		owner = nextOwner
	}

	parent := noParent
	for i := len(chain) - 1; i >= 0; i-- {
		e := chain[i]
		id := sm.addScope(e.node, e.kind, e.classFQN, parent, source)
		sm.nodeScope[e.node] = id
		parent = id
	}
	return sm
}

func (sm *ScopeManager) addScope(owner Node, kind ScopeOwnerKind, classFQN string, parent ScopeId, source []byte) ScopeId {
	bindings := make(map[string]ScopeBinding)
	for _, b := range sm.hooks.Bindings(owner, source) {
		bindings[b.Name] = b
	}
	sm.scopes = append(sm.scopes, scopeRecord{kind: kind, classFQN: classFQN, parent: parent, bindings: bindings})
	return ScopeId(len(sm.scopes) - 1)
}

// innermostScope returns the ScopeId of the scope owning cursor, or
// false if BuildScopeManager found no owner at all.
func (sm *ScopeManager) innermostScope(cursor Node) (ScopeId, bool) {
	owner, _, _, ok := sm.hooks.ScopeOwner(cursor)
	if !ok {
		return 0, false
	}
	id, ok := sm.nodeScope[owner]
	return id, ok
}

// Lookup walks the parent chain from the scope owning cursor outward,
// returning the first binding named name (spec §4.9.1 "Lookup").
func (sm *ScopeManager) Lookup(cursor Node, name string) (ScopeBinding, bool) {
	id, ok := sm.innermostScope(cursor)
	if !ok {
		return ScopeBinding{}, false
	}
	for {
		scope := sm.scopes[id]
		if b, ok := scope.bindings[name]; ok {
			return b, true
		}
		if scope.parent == noParent {
			return ScopeBinding{}, false
		}
		id = scope.parent
	}
}

// EnclosingClassFQNs returns the Class-kind scopes enclosing cursor,
// innermost first -- used when LangHooks.EnclosingClasses isn't needed
// directly (the ScopeManager already walked the chain).
func (sm *ScopeManager) EnclosingClassFQNs(cursor Node) []string {
	id, ok := sm.innermostScope(cursor)
	if !ok {
		return nil
	}
	var out []string
	for {
		scope := sm.scopes[id]
		if scope.kind == ScopeOwnerClass && scope.classFQN != "" {
			out = append(out, scope.classFQN)
		}
		if scope.parent == noParent {
			return out
		}
		id = scope.parent
	}
}
