package fqn

import (
	"sort"
	"sync"

	"github.com/naviscope/naviscope/internal/types"
)

// fqnNode mirrors the spec's FqnNode record: parent, name atom, and kind.
// NodeKind is a comparable value type, so this struct is a valid map key.
type fqnNode struct {
	Parent types.FqnId
	Name   types.Atom
	Kind   types.NodeKind
}

// Manager is the structured FQN tree: every FqnId maps to a (parent,
// name, kind) triple, and interning a triple a second time returns the
// original id (spec C1 idempotence invariant).
type Manager struct {
	atoms *Interner

	mu     sync.RWMutex
	nodes  map[types.FqnId]fqnNode
	lookup map[fqnNode]types.FqnId
	nextID uint32

	regMu       sync.RWMutex
	conventions []NamingConvention
}

// NewManager creates a Manager with the StandardNamingConvention
// registered by default (spec C1).
func NewManager() *Manager {
	return &Manager{
		atoms:       NewInterner(),
		nodes:       make(map[types.FqnId]fqnNode),
		lookup:      make(map[fqnNode]types.FqnId),
		nextID:      1,
		conventions: []NamingConvention{StandardNamingConvention{}},
	}
}

// Atoms returns the underlying atom interner, shared with the graph's
// name/path/token atoms so there is exactly one string table per graph.
func (m *Manager) Atoms() *Interner { return m.atoms }

// RegisterConvention adds a language-specific NamingConvention to the
// registry used by ResolveFQNString.
func (m *Manager) RegisterConvention(c NamingConvention) {
	m.regMu.Lock()
	defer m.regMu.Unlock()
	m.conventions = append(m.conventions, c)
}

func (m *Manager) conventionsSnapshot() []NamingConvention {
	m.regMu.RLock()
	defer m.regMu.RUnlock()
	out := make([]NamingConvention, len(m.conventions))
	copy(out, m.conventions)
	return out
}

// InternNode interns (parent, name, kind) into a canonical FqnId. Calling
// it twice with the same composite key returns the same id (spec C1,
// §8 "FQN canonicalization").
func (m *Manager) InternNode(parent types.FqnId, name string, kind types.NodeKind) types.FqnId {
	atom := m.atoms.Intern(name)
	key := fqnNode{Parent: parent, Name: atom, Kind: kind}

	m.mu.RLock()
	if id, ok := m.lookup[key]; ok {
		m.mu.RUnlock()
		return id
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.lookup[key]; ok {
		return id
	}
	id := types.FqnId(m.nextID)
	m.nextID++
	m.nodes[id] = key
	m.lookup[key] = id
	return id
}

// InternNodeID converts an ingest-side NodeId into a single FqnId,
// walking and interning each structured segment in order. A Flat id
// (build-system constructs) interns as a single root-level Package node,
// matching the original implementation's NodeId::Flat handling.
func (m *Manager) InternNodeID(id types.NodeId) types.FqnId {
	if id.IsFlat() {
		return m.InternNode(types.NoFqnId, id.Flat, types.Package)
	}
	current := types.NoFqnId
	for _, seg := range id.Structured {
		current = m.InternNode(current, seg.Name, seg.Kind)
	}
	return current
}

// GetNode returns the (parent, name, kind) triple for an id.
func (m *Manager) GetNode(id types.FqnId) (parent types.FqnId, name types.Atom, kind types.NodeKind, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return types.NoFqnId, types.NoAtom, types.NodeKind{}, false
	}
	return n.Parent, n.Name, n.Kind, true
}

// FindChild tries every kind in types.AmbiguousKindProbeOrder under the
// given parent for a child named `name`, returning every match (spec C1
// "probes kind candidates ... in that order").
func (m *Manager) FindChild(parent types.FqnId, name string) []types.FqnId {
	atom, ok := m.atoms.Find(name)
	if !ok {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []types.FqnId
	for _, kind := range types.AmbiguousKindProbeOrder {
		if id, ok := m.lookup[fqnNode{Parent: parent, Name: atom, Kind: kind}]; ok {
			out = append(out, id)
		}
	}
	return out
}

// ResolvePath follows an exact structured path of (kind, name) pairs
// without guessing kinds -- used when a caller already knows the precise
// kind of every segment (e.g. replaying a NodeId.Structured value).
func (m *Manager) ResolvePath(path []types.FqnSegment) (types.FqnId, bool) {
	if len(path) == 0 {
		return types.NoFqnId, false
	}
	current := types.NoFqnId
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, seg := range path {
		atom, ok := m.atoms.Find(seg.Name)
		if !ok {
			return types.NoFqnId, false
		}
		id, ok := m.lookup[fqnNode{Parent: current, Name: atom, Kind: seg.Kind}]
		if !ok {
			return types.NoFqnId, false
		}
		current = id
	}
	return current, true
}

// ResolveFQNString resolves a dotted/hashed display string (e.g.
// "com.example.User#setName") against every registered NamingConvention,
// returning the union of every convention's successful walk, deduplicated
// and sorted (spec C1).
func (m *Manager) ResolveFQNString(fqnStr string) []types.FqnId {
	var all []types.FqnId

	for _, conv := range m.conventionsSnapshot() {
		segs := conv.ParseFQN(fqnStr)
		if len(segs) == 0 {
			continue
		}

		currentIDs := []types.FqnId{types.NoFqnId}
		for _, seg := range segs {
			var nextIDs []types.FqnId
			strict := seg.Kind.IsMember()

			for _, parent := range currentIDs {
				if strict {
					atom, ok := m.atoms.Find(seg.Name)
					if !ok {
						continue
					}
					m.mu.RLock()
					for _, mk := range types.StrictMemberKinds {
						if id, ok := m.lookup[fqnNode{Parent: parent, Name: atom, Kind: mk}]; ok {
							nextIDs = append(nextIDs, id)
						}
					}
					m.mu.RUnlock()
				} else {
					nextIDs = append(nextIDs, m.FindChild(parent, seg.Name)...)
				}
			}

			if len(nextIDs) == 0 {
				currentIDs = nil
				break
			}
			currentIDs = nextIDs
		}

		all = append(all, currentIDs...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	all = dedupeFqnIds(all)
	return all
}

func dedupeFqnIds(ids []types.FqnId) []types.FqnId {
	if len(ids) < 2 {
		return ids
	}
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

// RenderFQN renders a node's canonical display string by walking the
// parent chain and joining containers with "." and the first member
// segment with "#", matching StandardNamingConvention's grammar.
func (m *Manager) RenderFQN(id types.FqnId) string {
	var segs []fqnNode
	cur := id
	for cur != types.NoFqnId {
		m.mu.RLock()
		n, ok := m.nodes[cur]
		m.mu.RUnlock()
		if !ok {
			break
		}
		segs = append(segs, n)
		cur = n.Parent
	}

	// segs is innermost-first; reverse to outermost-first.
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}

	out := ""
	for i, seg := range segs {
		name := m.atoms.MustResolve(seg.Name)
		if i == 0 {
			out = name
			continue
		}
		if seg.Kind.IsMember() {
			out += "#" + name
		} else {
			out += "." + name
		}
	}
	return out
}

// Len reports the number of distinct FQN nodes interned.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}
