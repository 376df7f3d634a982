package java

import (
	"strings"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/types"
)

// Presenter renders a Java node's cat/ls detail view (spec §4.3/§4.4):
// a method's signature, a field's declared type, a class's modifier
// list. Grounded on the teacher's internal/mcp layer rendering a
// symbol's kind + modifiers + signature as plain strings rather than a
// structured AST -- the display format, not the extraction logic.
type Presenter struct{}

func (Presenter) Present(node *types.GraphNode, atoms *fqn.Interner) langplugin.Presentation {
	name := atoms.MustResolve(node.Name)
	meta, ok := node.Metadata.(Metadata)
	if !ok {
		return langplugin.Presentation{Summary: name, SymbolKind: node.Kind.String()}
	}

	p := langplugin.Presentation{
		Modifiers:  meta.Modifiers,
		SymbolKind: node.Kind.String(),
	}

	switch meta.Kind {
	case MetaMethod, MetaConstructor:
		p.Signature = name + "(" + joinParams(meta.Parameters) + ")"
		if meta.Kind == MetaMethod {
			p.Signature += " " + typeRefString(meta.ReturnType)
		}
		p.Summary = strings.TrimSpace(strings.Join(meta.Modifiers, " ") + " " + p.Signature)
	case MetaField:
		p.Signature = typeRefString(meta.FieldType) + " " + name
		p.Summary = strings.TrimSpace(strings.Join(meta.Modifiers, " ") + " " + p.Signature)
	default:
		p.Signature = name
		p.Summary = strings.TrimSpace(strings.Join(meta.Modifiers, " ") + " " + name)
	}
	return p
}

func joinParams(params []Parameter) string {
	parts := make([]string, len(params))
	for i, pr := range params {
		parts[i] = typeRefString(pr.Type) + " " + pr.Name
	}
	return strings.Join(parts, ", ")
}

// typeRefString renders a TypeRef for display, recursing through its
// composite variants (spec §4.9.2's Raw/Id/Generic/Array/Wildcard).
func typeRefString(t types.TypeRef) string {
	switch t.Kind {
	case types.TypeRefRaw, types.TypeRefId:
		return t.Name
	case types.TypeRefGeneric:
		base := ""
		if t.Base != nil {
			base = typeRefString(*t.Base)
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = typeRefString(a)
		}
		return base + "<" + strings.Join(args, ", ") + ">"
	case types.TypeRefArray:
		elem := ""
		if t.Element != nil {
			elem = typeRefString(*t.Element)
		}
		return elem + strings.Repeat("[]", t.Dimensions)
	case types.TypeRefWildcard:
		if t.Bound == nil {
			return "?"
		}
		if t.IsUpperBound {
			return "? extends " + typeRefString(*t.Bound)
		}
		return "? super " + typeRefString(*t.Bound)
	default:
		return "?"
	}
}
