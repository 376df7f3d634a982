package java

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/naviscope/naviscope/internal/types"
)

// typeDecl is one top-level or nested class/interface/enum/annotation
// declaration found while walking a file's syntax tree.
type typeDecl struct {
	node       *sitter.Node
	kind       types.NodeKind
	name       string
	fqn        string // dotted package.Name (or Name if default package)
	nodeID     types.NodeId
	parentID   types.NodeId // package/module container, or enclosing type
	modifiers  []string
	extends    []string // raw (unresolved) supertype names, as written
	implements []string
	members    []memberDecl
}

// memberDecl is one method, constructor, or field declared directly in
// a type's body.
type memberDecl struct {
	node       *sitter.Node
	kind       types.NodeKind // Method, Constructor, Field
	name       string
	nodeID     types.NodeId
	modifiers  []string
	returnType types.TypeRef // Method only
	fieldType  types.TypeRef // Field only
	params     []Parameter
	isVarargs  bool
}

func declKind(grammarKind string) (types.NodeKind, bool) {
	switch grammarKind {
	case "class_declaration", "record_declaration":
		return types.Class, true
	case "interface_declaration":
		return types.Interface, true
	case "enum_declaration":
		return types.Enum, true
	case "annotation_type_declaration":
		return types.Annotation, true
	default:
		return types.NodeKind{}, false
	}
}

// collectTypeDecls walks root and returns every class/interface/enum/
// annotation declaration reachable from it (top-level and nested),
// fully populated with its members and raw extends/implements text.
func collectTypeDecls(root *sitter.Node, source []byte, pkg string, containerID types.NodeId) []typeDecl {
	var out []typeDecl
	var walk func(n *sitter.Node, enclosing []string, parentID types.NodeId)
	walk = func(n *sitter.Node, enclosing []string, parentID types.NodeId) {
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			if kind, ok := declKind(child.Kind()); ok {
				d := buildTypeDecl(child, source, kind, pkg, enclosing)
				d.parentID = parentID
				out = append(out, d)
				body := findBody(child)
				if body != nil {
					walk(body, append(append([]string{}, enclosing...), d.name), d.nodeID)
				}
				continue
			}
			walk(child, enclosing, parentID)
		}
	}
	walk(root, nil, containerID)
	return out
}

func findBody(decl *sitter.Node) *sitter.Node {
	return decl.ChildByFieldName("body")
}

func buildTypeDecl(decl *sitter.Node, source []byte, kind types.NodeKind, pkg string, enclosing []string) typeDecl {
	nameNode := decl.ChildByFieldName("name")
	name := ""
	if nameNode != nil {
		name = string(source[nameNode.StartByte():nameNode.EndByte()])
	}

	segs := []types.FqnSegment{}
	if pkg != "" {
		for _, p := range splitDots(pkg) {
			segs = append(segs, types.FqnSegment{Kind: types.Package, Name: p})
		}
	}
	for _, e := range enclosing {
		segs = append(segs, types.FqnSegment{Kind: types.Class, Name: e})
	}
	segs = append(segs, types.FqnSegment{Kind: kind, Name: name})

	dotted := name
	if len(enclosing) > 0 {
		dotted = joinDots(enclosing) + "." + name
	}
	if pkg != "" {
		dotted = pkg + "." + dotted
	}

	d := typeDecl{
		node:      decl,
		kind:      kind,
		name:      name,
		fqn:       dotted,
		nodeID:    types.NewStructuredNodeId(segs...),
		modifiers: modifiersOf(decl, source),
	}

	if ext := decl.ChildByFieldName("superclass"); ext != nil {
		d.extends = []string{rawTypeName(ext, source)}
	}
	if impl := decl.ChildByFieldName("interfaces"); impl != nil {
		for i := uint(0); i < impl.NamedChildCount(); i++ {
			tl := impl.NamedChild(i)
			if tl == nil {
				continue
			}
			for j := uint(0); j < tl.NamedChildCount(); j++ {
				d.implements = append(d.implements, rawTypeName(tl.NamedChild(j), source))
			}
		}
	}
	// interface_declaration names its supertype list "extends" (an
	// extends_interfaces wrapper around a type_list), unlike
	// class/enum/record's "interfaces" (a super_interfaces wrapper) --
	// an interface's supertypes are InheritsFrom, not Implements.
	if extends := decl.ChildByFieldName("extends"); extends != nil && extends.Kind() == "extends_interfaces" {
		for i := uint(0); i < extends.NamedChildCount(); i++ {
			tl := extends.NamedChild(i)
			if tl == nil {
				continue
			}
			for j := uint(0); j < tl.NamedChildCount(); j++ {
				d.extends = append(d.extends, rawTypeName(tl.NamedChild(j), source))
			}
		}
	}

	body := findBody(decl)
	if body != nil {
		d.members = collectMembers(body, source)
	}
	return d
}

func rawTypeName(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func splitDots(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func modifiersOf(decl *sitter.Node, source []byte) []string {
	var mods []string
	for i := uint(0); i < decl.ChildCount(); i++ {
		c := decl.Child(i)
		if c == nil {
			break
		}
		if c.Kind() != "modifiers" {
			continue
		}
		for j := uint(0); j < c.NamedChildCount(); j++ {
			m := c.NamedChild(j)
			if m != nil {
				mods = append(mods, string(source[m.StartByte():m.EndByte()]))
			}
		}
	}
	return mods
}

// collectMembers lists the methods/constructors/fields declared
// directly in body (not in nested type declarations, which get their
// own typeDecl via collectTypeDecls's recursion).
func collectMembers(body *sitter.Node, source []byte) []memberDecl {
	var out []memberDecl
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "method_declaration":
			out = append(out, buildMethodDecl(child, source))
		case "constructor_declaration":
			out = append(out, buildConstructorDecl(child, source))
		case "field_declaration":
			out = append(out, buildFieldDecls(child, source)...)
		}
	}
	return out
}

func buildMethodDecl(n *sitter.Node, source []byte) memberDecl {
	nameNode := n.ChildByFieldName("name")
	name := ""
	if nameNode != nil {
		name = string(source[nameNode.StartByte():nameNode.EndByte()])
	}
	m := memberDecl{
		node:      n,
		kind:      types.Method,
		name:      name,
		modifiers: modifiersOf(n, source),
		nodeID:    types.NewStructuredNodeId(types.FqnSegment{Kind: types.Method, Name: name}),
	}
	if rt := n.ChildByFieldName("type"); rt != nil {
		m.returnType = parseTypeSitterNode(rt, source)
	} else {
		m.returnType = types.RawTypeRef("void")
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		m.params, m.isVarargs = formalParamsList(params, source)
	}
	return m
}

func buildConstructorDecl(n *sitter.Node, source []byte) memberDecl {
	nameNode := n.ChildByFieldName("name")
	name := ""
	if nameNode != nil {
		name = string(source[nameNode.StartByte():nameNode.EndByte()])
	}
	m := memberDecl{
		node:      n,
		kind:      types.Constructor,
		name:      name,
		modifiers: modifiersOf(n, source),
		nodeID:    types.NewStructuredNodeId(types.FqnSegment{Kind: types.Constructor, Name: name}),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		m.params, m.isVarargs = formalParamsList(params, source)
	}
	return m
}

func buildFieldDecls(n *sitter.Node, source []byte) []memberDecl {
	typeNode := n.ChildByFieldName("type")
	fieldType := types.UnknownTypeRef()
	if typeNode != nil {
		fieldType = parseTypeSitterNode(typeNode, source)
	}
	mods := modifiersOf(n, source)
	var out []memberDecl
	for i := uint(0); i < n.NamedChildCount(); i++ {
		decl := n.NamedChild(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := string(source[nameNode.StartByte():nameNode.EndByte()])
		out = append(out, memberDecl{
			node:      n,
			kind:      types.Field,
			name:      name,
			modifiers: mods,
			fieldType: fieldType,
			nodeID:    types.NewStructuredNodeId(types.FqnSegment{Kind: types.Field, Name: name}),
		})
	}
	return out
}

func formalParamsList(params *sitter.Node, source []byte) ([]Parameter, bool) {
	var out []Parameter
	varargs := false
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "formal_parameter":
			nameNode := p.ChildByFieldName("name")
			typeNode := p.ChildByFieldName("type")
			if nameNode == nil {
				continue
			}
			param := Parameter{Name: string(source[nameNode.StartByte():nameNode.EndByte()])}
			if typeNode != nil {
				param.Type = parseTypeSitterNode(typeNode, source)
			}
			for j := uint(0); j < p.ChildCount(); j++ {
				c := p.Child(j)
				if c != nil && c.Kind() == "final" {
					param.IsFinal = true
				}
			}
			out = append(out, param)
		case "spread_parameter":
			varargs = true
			nameNode := p.ChildByFieldName("name")
			typeNode := p.ChildByFieldName("type")
			param := Parameter{}
			if nameNode != nil {
				param.Name = string(source[nameNode.StartByte():nameNode.EndByte()])
			}
			if typeNode != nil {
				param.Type = types.ArrayTypeRef(parseTypeSitterNode(typeNode, source), 1)
			}
			out = append(out, param)
		}
	}
	return out, varargs
}
