package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/types"
)

// fakeHooks is a minimal LangHooks double over a hand-built node table,
// keyed by plain strings (Node is `any`, so a string is a valid handle
// for tests -- no real tree-sitter tree is needed to exercise the scope
// chain and inference algorithms).
type fakeHooks struct {
	cursorNode  string
	kinds       map[string]string
	parents     map[string]string
	receivers   map[string]string // node -> receiver node, when rhs of a member access
	owners      map[string]ownerInfo
	parentOwner map[string]ownerInfo
	bindings    map[string][]ScopeBinding // owner -> bindings
	enclosing   map[string][]string       // node -> enclosing class FQNs
	importMap   map[string]string         // simple name -> FQN
}

type ownerInfo struct {
	node     string
	kind     ScopeOwnerKind
	classFQN string
	ok       bool
}

func (h fakeHooks) CursorNode(tree Node, line, byteCol int) (Node, bool) {
	return h.cursorNode, true
}
func (h fakeHooks) Kind(n Node) string { return h.kinds[n.(string)] }
func (h fakeHooks) Text(n Node, source []byte) string {
	return n.(string)
}
func (h fakeHooks) Parent(n Node) (Node, bool) {
	p, ok := h.parents[n.(string)]
	return p, ok
}
func (h fakeHooks) Intent(n Node) types.Intent { return types.IntentValue }
func (h fakeHooks) Receiver(n Node) (Node, bool) {
	r, ok := h.receivers[n.(string)]
	return r, ok
}
func (h fakeHooks) ScopeOwner(n Node) (Node, ScopeOwnerKind, string, bool) {
	info := h.owners[n.(string)]
	return info.node, info.kind, info.classFQN, info.ok
}
func (h fakeHooks) ParentScopeOwner(owner Node) (Node, ScopeOwnerKind, string, bool) {
	info, ok := h.parentOwner[owner.(string)]
	if !ok {
		return nil, 0, "", false
	}
	return info.node, info.kind, info.classFQN, info.ok
}
func (h fakeHooks) Bindings(owner Node, source []byte) []ScopeBinding {
	return h.bindings[owner.(string)]
}
func (h fakeHooks) EnclosingClasses(n Node) []string { return h.enclosing[n.(string)] }
func (h fakeHooks) ParseTypeNode(typeNode Node, source []byte) types.TypeRef {
	return types.RawTypeRef(typeNode.(string))
}
func (h fakeHooks) ResolveTypeNameToFQN(name string, tree Node, source []byte) (string, bool) {
	fqn, ok := h.importMap[name]
	return fqn, ok
}
func (h fakeHooks) LambdaContext(n Node) (Node, string, Node, int, int, bool) {
	return nil, "", nil, 0, 0, false
}
func (h fakeHooks) InvocationArgTypes(invocation Node, source []byte) []types.TypeRef { return nil }

type fakeInheritance struct{}

func (fakeInheritance) IsSubtype(sub, super types.TypeRef) bool { return false }

// newGraphWithNode builds a one-node graph reachable via
// ResolveFQNString(dotted), e.g. "com.example.Widget#count": every
// container segment is a Package-kind probe candidate, the segment
// after "#" (if any) is the node's own StrictMemberKinds-compatible
// kind.
func newGraphWithNode(dotted string, kind types.NodeKind) *graph.CodeGraph {
	b := graph.NewBuilder(fqn.NewManager())

	containerPart, memberPart, hasMember := strings.Cut(dotted, "#")
	var segs []types.FqnSegment
	containers := strings.Split(containerPart, ".")
	last := len(containers) - 1
	for i, name := range containers {
		segKind := types.Package
		if i == last && !hasMember {
			segKind = kind
		}
		segs = append(segs, types.FqnSegment{Kind: segKind, Name: name})
	}
	if hasMember {
		segs = append(segs, types.FqnSegment{Kind: kind, Name: memberPart})
	}

	b.AddNode(&types.IndexNode{
		ID:     types.NewStructuredNodeId(segs...),
		Name:   segs[len(segs)-1].Name,
		Kind:   kind,
		Lang:   "java",
		Source: types.SourceProject,
		Status: types.Resolved,
	})
	return b.Build()
}

func TestLocalScopeResolvesBoundVariable(t *testing.T) {
	h := fakeHooks{
		cursorNode: "x_use",
		owners: map[string]ownerInfo{
			"x_use": {node: "method1", kind: ScopeOwnerMethod, ok: true},
		},
		parentOwner: map[string]ownerInfo{},
		bindings: map[string][]ScopeBinding{
			"method1": {
				{Name: "x_use", Type: types.IdTypeRef("com.example.Foo"), TypeKnown: true, DeclRange: types.Range{StartLine: 3}},
			},
		},
		enclosing: map[string][]string{"x_use": {"com.example.Widget"}},
		importMap: map[string]string{},
	}

	r := New(h, fakeInheritance{})
	res, err := r.ResolveAt("tree", nil, 3, 0, graph.Empty())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, types.ResolutionLocal, res.Kind)
	assert.Equal(t, 3, res.DeclRange.StartLine)
}

func TestMemberScopeLexicalFieldResolvesAgainstIndex(t *testing.T) {
	g := newGraphWithNode("com.example.Widget#count", types.Field)

	h := fakeHooks{
		cursorNode: "count",
		owners: map[string]ownerInfo{
			"count": {node: "method1", kind: ScopeOwnerMethod, ok: true},
		},
		bindings:  map[string][]ScopeBinding{"method1": {}},
		enclosing: map[string][]string{"count": {"com.example.Widget"}},
		importMap: map[string]string{},
	}

	r := New(h, fakeInheritance{})
	res, err := r.ResolveAt("tree", nil, 0, 0, g)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, types.ResolutionPrecise, res.Kind)
	assert.Equal(t, "com.example.Widget#count", res.FQN)
}

func TestMemberScopeFuzzyGuessOnNearMissFieldName(t *testing.T) {
	b := graph.NewBuilder(fqn.NewManager())
	container := b.AddNode(&types.IndexNode{
		ID:     types.NewStructuredNodeId(types.FqnSegment{Kind: types.Package, Name: "com"}, types.FqnSegment{Kind: types.Package, Name: "example"}, types.FqnSegment{Kind: types.Class, Name: "Widget"}),
		Name:   "Widget",
		Kind:   types.Class,
		Lang:   "java",
		Source: types.SourceProject,
		Status: types.Resolved,
	})
	member := b.AddNode(&types.IndexNode{
		ID:     types.NewStructuredNodeId(types.FqnSegment{Kind: types.Package, Name: "com"}, types.FqnSegment{Kind: types.Package, Name: "example"}, types.FqnSegment{Kind: types.Class, Name: "Widget"}, types.FqnSegment{Kind: types.Method, Name: "getCount"}),
		Name:   "getCount",
		Kind:   types.Method,
		Lang:   "java",
		Source: types.SourceProject,
		Status: types.Resolved,
	})
	b.AddEdge(container, member, types.GraphEdge{EdgeType: types.Contains})
	g := b.Build()

	h := fakeHooks{
		cursorNode: "getCont",
		owners: map[string]ownerInfo{
			"getCont": {node: "method1", kind: ScopeOwnerMethod, ok: true},
		},
		bindings:  map[string][]ScopeBinding{"method1": {}},
		enclosing: map[string][]string{"getCont": {"com.example.Widget"}},
		importMap: map[string]string{},
	}

	r := New(h, fakeInheritance{})
	res, err := r.ResolveAt("tree", nil, 0, 0, g)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, types.ResolutionGlobal, res.Kind)
	assert.Equal(t, "com.example.Widget#getCount", res.GlobalName)
}

func TestImportScopeResolvesImportedType(t *testing.T) {
	g := newGraphWithNode("com.example.Helper", types.Class)

	h := fakeHooks{
		cursorNode: "Helper",
		owners: map[string]ownerInfo{
			"Helper": {node: "method1", kind: ScopeOwnerMethod, ok: true},
		},
		bindings:  map[string][]ScopeBinding{"method1": {}},
		enclosing: map[string][]string{},
		importMap: map[string]string{"Helper": "com.example.Helper"},
	}

	r := New(h, fakeInheritance{})
	res, err := r.ResolveAt("tree", nil, 0, 0, g)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, types.ResolutionPrecise, res.Kind)
	assert.Equal(t, "com.example.Helper", res.FQN)
}

func TestBuiltinScopeOnlyWhenIntentType(t *testing.T) {
	h := fakeHooks{
		cursorNode: "String",
		owners: map[string]ownerInfo{
			"String": {node: "method1", kind: ScopeOwnerMethod, ok: true},
		},
		bindings:  map[string][]ScopeBinding{"method1": {}},
		enclosing: map[string][]string{},
		importMap: map[string]string{},
	}
	r := New(h, fakeInheritance{})
	// Intent() on fakeHooks always reports Value, so BuiltinScope must
	// not be consulted -- resolution falls through to Global.
	res, err := r.ResolveAt("tree", nil, 0, 0, graph.Empty())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, types.ResolutionGlobal, res.Kind)
}

func TestResolveOverloadExactFixedArityWins(t *testing.T) {
	candidates := []MethodCandidate{
		{ID: 1, ParamTypes: []types.TypeRef{types.IdTypeRef("java.lang.String")}},
		{ID: 2, ParamTypes: []types.TypeRef{types.IdTypeRef("java.lang.Object")}},
	}
	args := []types.TypeRef{types.IdTypeRef("java.lang.String")}
	chosen, ok := ResolveOverload(candidates, args, fakeInheritance{})
	require.True(t, ok)
	assert.Equal(t, types.FqnId(1), chosen.ID)
}

func TestResolveOverloadNoMatchIsStrict(t *testing.T) {
	candidates := []MethodCandidate{
		{ID: 1, ParamTypes: []types.TypeRef{types.IdTypeRef("java.lang.Integer")}},
	}
	args := []types.TypeRef{types.IdTypeRef("java.lang.String")}
	_, ok := ResolveOverload(candidates, args, fakeInheritance{})
	assert.False(t, ok)
}

func TestEnclosingClassFQNsFromScopeManager(t *testing.T) {
	h := fakeHooks{
		owners: map[string]ownerInfo{
			"cursor": {node: "method1", kind: ScopeOwnerMethod, ok: true},
		},
		parentOwner: map[string]ownerInfo{
			"method1": {node: "class1", kind: ScopeOwnerClass, classFQN: "com.example.Widget", ok: true},
		},
		bindings: map[string][]ScopeBinding{
			"method1": {},
			"class1":  {},
		},
	}
	sm := BuildScopeManager(h, "cursor", nil)
	assert.Equal(t, []string{"com.example.Widget"}, sm.EnclosingClassFQNs("cursor"))
}

