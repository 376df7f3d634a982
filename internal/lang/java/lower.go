package java

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/types"
)

// moduleRootID is the sentinel container a default-package file's
// top-level types attach to, mirroring
// original_source/crates/lang-java/src/resolver/lang.rs's
// `"module::root"` fallback when no build-tool module claims the path.
// No plugin adds a node for this sentinel, so the graph builder drops
// the Contains edges emitted from it; Java's lowering never
// needs to know which module a file belongs to.
var moduleRootID = types.NewFlatNodeId("module::root")

func containerNodeID(pkg string) types.NodeId {
	if pkg == "" {
		return moduleRootID
	}
	segs := make([]types.FqnSegment, 0, len(splitDots(pkg)))
	for _, p := range splitDots(pkg) {
		segs = append(segs, types.FqnSegment{Kind: types.Package, Name: p})
	}
	return types.NewStructuredNodeId(segs...)
}

type pendingRelation struct {
	from     types.NodeId
	rawTo    string
	edgeType types.EdgeType
}

// LowerSource emits the AddNode/AddEdge ops for one Java file's already
// collected+analyzed declarations (spec §4.4, §4.7), ported from
// original_source/crates/lang-java/src/resolver/lang.rs's compile_source:
// build every declared node first (resolving field/parameter/return
// types against the file's import map), then resolve every
// extends/implements relation, falling back to a structured-id guess
// when precise resolution fails. Unlike the original, this skips the
// tree-sitter-point precise-resolver re-entry (it would need a graph
// snapshot containing this same unit's not-yet-committed nodes) and
// goes straight to the import-map + structured-id fallback, which
// already covers every case the precise path exists for within a
// single file (same-file supertypes, imported supertypes).
func (s SourceIndexer) LowerSource(artifact langplugin.AnalyzeArtifact, ctx langplugin.ProjectContext) (langplugin.ResolvedUnit, error) {
	ap, _ := artifact.Payload.(analyzePayload)
	cp := ap.collectPayload

	snapshot := ctx.Snapshot()
	atoms := snapshot.FQNs().Atoms()
	pathAtom := atoms.Intern(cp.path)

	var unit langplugin.ResolvedUnit
	known := make(map[string]types.NodeId) // every NodeId.String() added in this unit, for the fallback probe
	var pending []pendingRelation
	var identifiers []string

	addNode := func(id types.NodeId, name string, kind types.NodeKind, loc *types.Location, meta types.Metadata) {
		unit.Ops = append(unit.Ops, types.AddNodeOp(&types.IndexNode{
			ID:       id,
			Name:     name,
			Kind:     kind,
			Lang:     "java",
			Source:   types.SourceProject,
			Status:   types.Resolved,
			Location: loc,
			Metadata: meta,
		}))
		known[id.String()] = id
	}
	addEdge := func(from, to types.NodeId, et types.EdgeType, rng *types.Range) {
		unit.Ops = append(unit.Ops, types.AddEdgeOp(from, to, types.GraphEdge{EdgeType: et, Range: rng}))
	}

	if cp.header.pkg != "" {
		pkgID := containerNodeID(cp.header.pkg)
		addNode(pkgID, cp.header.pkg, types.Package, nil, Metadata{Kind: MetaPackage})
		addEdge(moduleRootID, pkgID, types.Contains, nil)
	}

	for _, d := range cp.types {
		loc := &types.Location{Path: pathAtom, Range: nodeRange(d.node)}
		addNode(d.nodeID, d.name, d.kind, loc, Metadata{Kind: typeMetaKind(d.kind), Modifiers: d.modifiers})
		addEdge(d.parentID, d.nodeID, types.Contains, nil)

		for _, raw := range d.extends {
			pending = append(pending, pendingRelation{from: d.nodeID, rawTo: raw, edgeType: types.InheritsFrom})
		}
		for _, raw := range d.implements {
			pending = append(pending, pendingRelation{from: d.nodeID, rawTo: raw, edgeType: types.Implements})
		}

		for _, m := range d.members {
			memberID := types.NewStructuredNodeId(append(append([]types.FqnSegment{}, d.nodeID.Structured...), types.FqnSegment{Kind: m.kind, Name: m.name})...)
			mloc := &types.Location{Path: pathAtom, Range: nodeRange(m.node)}

			switch m.kind {
			case types.Method:
				rt := resolveTypeRef(m.returnType, cp.header, ap.resolved)
				addNode(memberID, m.name, types.Method, mloc, Metadata{
					Kind: MetaMethod, Modifiers: m.modifiers, ReturnType: rt,
					Parameters: resolveParams(m.params, cp.header, ap.resolved), IsVarargs: m.isVarargs,
				})
			case types.Constructor:
				addNode(memberID, m.name, types.Constructor, mloc, Metadata{
					Kind: MetaConstructor, Modifiers: m.modifiers,
					Parameters: resolveParams(m.params, cp.header, ap.resolved), IsVarargs: m.isVarargs,
				})
			case types.Field:
				ft := resolveTypeRef(m.fieldType, cp.header, ap.resolved)
				addNode(memberID, m.name, types.Field, mloc, Metadata{Kind: MetaField, Modifiers: m.modifiers, FieldType: ft})
			}
			addEdge(d.nodeID, memberID, types.Contains, nil)
		}

		identifiers = append(identifiers, d.name)
		for _, m := range d.members {
			identifiers = append(identifiers, m.name)
		}
	}

	for _, rel := range pending {
		resolveAndEmit(rel, cp, known, addEdge)
	}

	unit.Ops = append(unit.Ops, types.UpdateIdentifiersOp(cp.path, identifiers))
	return unit, nil
}

func typeMetaKind(k types.NodeKind) MetadataKind {
	switch k {
	case types.Interface:
		return MetaInterface
	case types.Enum:
		return MetaEnum
	case types.Annotation:
		return MetaAnnotation
	default:
		return MetaClass
	}
}

func nodeRange(n *sitter.Node) types.Range {
	if n == nil {
		return types.Range{}
	}
	start, end := n.StartPosition(), n.EndPosition()
	return types.Range{
		StartLine: int(start.Row), StartCol: int(start.Column),
		EndLine: int(end.Row), EndCol: int(end.Column),
	}
}

func resolveTypeRef(t types.TypeRef, hdr fileHeader, resolved map[string]string) types.TypeRef {
	switch t.Kind {
	case types.TypeRefRaw:
		if fqnStr, ok := resolveSimpleName(t.Name, hdr, resolved); ok {
			return types.IdTypeRef(fqnStr)
		}
		return t
	case types.TypeRefGeneric:
		base := t
		if t.Base != nil {
			b := resolveTypeRef(*t.Base, hdr, resolved)
			base.Base = &b
		}
		args := make([]types.TypeRef, len(t.Args))
		for i, a := range t.Args {
			args[i] = resolveTypeRef(a, hdr, resolved)
		}
		base.Args = args
		return base
	case types.TypeRefArray:
		elem := resolveTypeRef(*t.Element, hdr, resolved)
		return types.ArrayTypeRef(elem, t.Dimensions)
	default:
		return t
	}
}

func resolveParams(params []Parameter, hdr fileHeader, resolved map[string]string) []Parameter {
	out := make([]Parameter, len(params))
	for i, p := range params {
		out[i] = Parameter{Name: p.Name, IsFinal: p.IsFinal, Type: resolveTypeRef(p.Type, hdr, resolved)}
	}
	return out
}

// javaBuiltins are primitive/well-known types that never resolve to a
// project FQN.
var javaBuiltins = map[string]bool{
	"void": true, "boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "var": true,
}

func resolveSimpleName(name string, hdr fileHeader, resolved map[string]string) (string, bool) {
	if javaBuiltins[name] {
		return "", false
	}
	if strings.Contains(name, ".") {
		return name, true
	}
	if fqnStr, ok := resolved[name]; ok {
		return fqnStr, true
	}
	if fqnStr, ok := hdr.imports[name]; ok {
		return fqnStr, true
	}
	if hdr.pkg != "" {
		return hdr.pkg + "." + name, true
	}
	return "", false
}

// resolveAndEmit resolves one pending extends/implements relation to a
// concrete NodeId and appends the AddEdge op, following
// original_source/crates/lang-java/src/resolver/lang.rs's compile_source
// fallback order: resolve the raw name against the file's own imports
// and package first, then split the resulting dotted string into
// structured (kind, name) segments, probing each candidate kind against
// nodes already added to this unit.
func resolveAndEmit(rel pendingRelation, cp collectPayload, known map[string]types.NodeId, addEdge func(types.NodeId, types.NodeId, types.EdgeType, *types.Range)) {
	resolvedStr := rel.rawTo
	if fqnStr, ok := resolveSimpleName(simpleNameOf(rel.rawTo), cp.header, nil); ok {
		resolvedStr = fqnStr
	}
	if id, ok := known[resolvedStr]; ok {
		addEdge(rel.from, id, rel.edgeType, nil)
		return
	}

	segments := splitOnDotsAndHash(resolvedStr)
	structured := make([]types.FqnSegment, 0, len(segments))
	for i, part := range segments {
		isLast := i == len(segments)-1
		kind, matched := probeKnownKind(structured, part, known)
		if !matched {
			if isLast && (rel.edgeType == types.Implements || rel.edgeType == types.InheritsFrom) {
				kind = types.Class
			} else if startsUpper(part) {
				kind = types.Class
			} else {
				kind = types.Package
			}
		}
		structured = append(structured, types.FqnSegment{Kind: kind, Name: part})
	}
	addEdge(rel.from, types.NewStructuredNodeId(structured...), rel.edgeType, nil)
}

func splitOnDotsAndHash(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == '#' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

var candidateMemberKinds = []types.NodeKind{types.Class, types.Interface, types.Enum, types.Annotation, types.Method, types.Field, types.Constructor}

func probeKnownKind(prefix []types.FqnSegment, part string, known map[string]types.NodeId) (types.NodeKind, bool) {
	for _, k := range candidateMemberKinds {
		probe := append(append([]types.FqnSegment{}, prefix...), types.FqnSegment{Kind: k, Name: part})
		id := types.NewStructuredNodeId(probe...)
		if _, ok := known[id.String()]; ok {
			return k, true
		}
	}
	return types.NodeKind{}, false
}
