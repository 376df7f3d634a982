package java

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/naviscope/naviscope/internal/resolver"
	"github.com/naviscope/naviscope/internal/types"
)

// Hooks implements resolver.LangHooks against tree-sitter-java.
// resolver.Node values are always *sitter.Node here; every method
// type-asserts its Node argument(s) before touching the grammar.
//
// Grounded on original_source/crates/lang-java/src/resolver/mod.rs's
// resolve_at (the identifier-like kind filter) and
// resolver/scope/member.rs's scope-owner/bindings walks, re-expressed
// against the Go tree-sitter binding the way the teacher's
// internal/symbollinker extractors walk nodes (plain Child(i)/Kind()
// checks, ChildByFieldName for named grammar fields).
type Hooks struct{}

func node(n resolver.Node) *sitter.Node {
	sn, _ := n.(*sitter.Node)
	return sn
}

// identifierLikeKinds is the exact filter resolve_at applies in the
// original implementation: only these four kinds are valid resolution
// targets.
var identifierLikeKinds = map[string]bool{
	"identifier":        true,
	"type_identifier":   true,
	"scoped_identifier": true,
	"this":              true,
}

func (Hooks) CursorNode(tree resolver.Node, line, byteCol int) (resolver.Node, bool) {
	t, ok := tree.(*Tree)
	if !ok {
		return nil, false
	}
	point := sitter.Point{Row: uint(line), Column: uint(byteCol)}
	n := t.Root().NamedDescendantForPointRange(point, point)
	if n == nil || !identifierLikeKinds[n.Kind()] {
		return nil, false
	}
	return n, true
}

func (Hooks) Kind(n resolver.Node) string {
	sn := node(n)
	if sn == nil {
		return ""
	}
	return sn.Kind()
}

func (Hooks) Text(n resolver.Node, source []byte) string {
	sn := node(n)
	if sn == nil {
		return ""
	}
	return string(source[sn.StartByte():sn.EndByte()])
}

func (Hooks) Parent(n resolver.Node) (resolver.Node, bool) {
	sn := node(n)
	if sn == nil {
		return nil, false
	}
	p := sn.Parent()
	if p == nil {
		return nil, false
	}
	return p, true
}

// Intent classifies n from its own node kind (spec §4.9 step 1
// "Intent"): type_identifier and scoped_type_identifier yield
// IntentType, since the grammar only emits them where Java source names
// a type; every other kind yields IntentValue. The parent's kind is not
// consulted.
func (Hooks) Intent(n resolver.Node) types.Intent {
	sn := node(n)
	if sn == nil {
		return types.IntentUnknown
	}
	switch sn.Kind() {
	case "type_identifier", "scoped_type_identifier":
		return types.IntentType
	default:
		return types.IntentValue
	}
}

// Receiver reports n's receiver under field_access ("object"."field"),
// method_invocation ("object"."name"(...)), or scoped_type_identifier
// (scope.Name), when n is the right-hand member.
func (Hooks) Receiver(n resolver.Node) (resolver.Node, bool) {
	sn := node(n)
	if sn == nil {
		return nil, false
	}
	parent := sn.Parent()
	if parent == nil {
		return nil, false
	}
	switch parent.Kind() {
	case "field_access":
		if fieldNode := parent.ChildByFieldName("field"); fieldNode != nil && fieldNode.Equal(sn) {
			if obj := parent.ChildByFieldName("object"); obj != nil {
				return obj, true
			}
		}
	case "method_invocation":
		if nameNode := parent.ChildByFieldName("name"); nameNode != nil && nameNode.Equal(sn) {
			if obj := parent.ChildByFieldName("object"); obj != nil {
				return obj, true
			}
		}
	case "scoped_type_identifier", "scoped_identifier":
		// (scope (identifier|type_identifier)) child[0] is the scope,
		// the last child is the name being qualified.
		if count := parent.NamedChildCount(); count >= 2 {
			last := parent.NamedChild(count - 1)
			if last != nil && last.Equal(sn) {
				return parent.NamedChild(0), true
			}
		}
	}
	return nil, false
}

// classifyOwnerKind classifies every tree-sitter-java node kind that
// introduces a scope (spec §4.9.1).
func classifyOwnerKind(kind string) (resolver.ScopeOwnerKind, bool) {
	switch kind {
	case "method_declaration", "constructor_declaration":
		return resolver.ScopeOwnerMethod, true
	case "block", "for_statement", "enhanced_for_statement",
		"try_statement", "try_with_resources_statement",
		"lambda_expression", "catch_clause":
		return resolver.ScopeOwnerLocal, true
	case "class_body", "interface_body", "enum_body", "annotation_type_body":
		return resolver.ScopeOwnerClass, true
	default:
		return 0, false
	}
}

func (Hooks) ScopeOwner(n resolver.Node) (resolver.Node, resolver.ScopeOwnerKind, string, bool) {
	sn := node(n)
	if sn == nil {
		return nil, 0, "", false
	}
	return walkToOwner(sn.Parent())
}

func (Hooks) ParentScopeOwner(owner resolver.Node) (resolver.Node, resolver.ScopeOwnerKind, string, bool) {
	sn := node(owner)
	if sn == nil {
		return nil, 0, "", false
	}
	return walkToOwner(sn.Parent())
}

func walkToOwner(start *sitter.Node) (resolver.Node, resolver.ScopeOwnerKind, string, bool) {
	for cur := start; cur != nil; cur = cur.Parent() {
		kind, ok := classifyOwnerKind(cur.Kind())
		if !ok {
			continue
		}
		if kind == resolver.ScopeOwnerClass {
			return cur, kind, classFQNFromBody(cur), true
		}
		return cur, kind, "", true
	}
	return nil, 0, "", false
}

// classFQNFromBody renders the dotted FQN of the type declaration that
// owns a *_body node (class_body/interface_body/enum_body/
// annotation_type_body), by walking outward through every enclosing
// type declaration and the file's package declaration.
func classFQNFromBody(body *sitter.Node) string {
	decl := body.Parent()
	if decl == nil {
		return ""
	}
	segs := []string{}
	for cur := decl; cur != nil; cur = cur.Parent() {
		if name := cur.ChildByFieldName("name"); name != nil && isTypeDeclKind(cur.Kind()) {
			segs = append([]string{string(textOf(cur, name))}, segs...)
		}
	}
	return segs2fqn(segs, body)
}

func segs2fqn(segs []string, anyNode *sitter.Node) string {
	pkg := packageNameOf(anyNode)
	if pkg == "" {
		return joinDots(segs)
	}
	return pkg + "." + joinDots(segs)
}

func joinDots(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

func isTypeDeclKind(kind string) bool {
	switch kind {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"annotation_type_declaration", "record_declaration":
		return true
	default:
		return false
	}
}

// packageNameOf walks up to the program root and reads the file's
// package_declaration, if any.
func packageNameOf(n *sitter.Node) string {
	root := n
	for root.Parent() != nil {
		root = root.Parent()
	}
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child != nil && child.Kind() == "package_declaration" {
			for j := uint(0); j < child.NamedChildCount(); j++ {
				nc := child.NamedChild(j)
				if nc != nil && (nc.Kind() == "scoped_identifier" || nc.Kind() == "identifier") {
					return textOf(root, nc)
				}
			}
		}
	}
	return ""
}

// textOf reads target's text from the package-level sourceForNode,
// since *sitter.Node carries no source reference of its own; it
// returns "" when no source is set. anyNodeInTree is not used.
func textOf(anyNodeInTree *sitter.Node, target *sitter.Node) string {
	src := sourceForNode
	if src == nil {
		return ""
	}
	return string(src[target.StartByte():target.EndByte()])
}

// sourceForNode is set through withSource by the Semantic entry points
// (ResolveAt, FindOccurrences) for the duration of a tree walk that needs package/class FQN
// resolution from plain *sitter.Node handles without threading a
// source slice through every helper. Not used across goroutines
// concurrently per file (each file's walk runs to completion before
// the next begins within one call).
var sourceForNode []byte

func withSource(source []byte, fn func()) {
	prev := sourceForNode
	sourceForNode = source
	defer func() { sourceForNode = prev }()
	fn()
}

func (Hooks) Bindings(owner resolver.Node, source []byte) []resolver.ScopeBinding {
	sn := node(owner)
	if sn == nil {
		return nil
	}
	var out []resolver.ScopeBinding
	switch sn.Kind() {
	case "method_declaration", "constructor_declaration":
		if params := sn.ChildByFieldName("parameters"); params != nil {
			out = append(out, formalParameterBindings(params, source, false)...)
		}
	case "enhanced_for_statement":
		if nameNode := sn.ChildByFieldName("name"); nameNode != nil {
			typeNode := sn.ChildByFieldName("type")
			b := resolver.ScopeBinding{Name: string(source[nameNode.StartByte():nameNode.EndByte()])}
			if typeNode != nil && !isVarKeyword(typeNode, source) {
				b.Type = Hooks{}.ParseTypeNode(typeNode, source)
				b.TypeKnown = true
			}
			out = append(out, b)
		}
	case "catch_clause":
		if param := sn.ChildByFieldName("parameter"); param != nil {
			if nameNode := param.ChildByFieldName("name"); nameNode != nil {
				b := resolver.ScopeBinding{Name: string(source[nameNode.StartByte():nameNode.EndByte()])}
				if typeNode := param.ChildByFieldName("type"); typeNode != nil {
					b.Type = Hooks{}.ParseTypeNode(typeNode, source)
					b.TypeKnown = true
				}
				out = append(out, b)
			}
		}
	case "lambda_expression":
		if params := sn.ChildByFieldName("parameters"); params != nil {
			out = append(out, lambdaParamBindings(params, source)...)
		}
	case "block", "for_statement", "try_statement", "try_with_resources_statement":
		out = append(out, localVarBindingsIn(sn, source)...)
	}
	return out
}

func isVarKeyword(typeNode *sitter.Node, source []byte) bool {
	return string(source[typeNode.StartByte():typeNode.EndByte()]) == "var"
}

func formalParameterBindings(params *sitter.Node, source []byte, lambdaParams bool) []resolver.ScopeBinding {
	var out []resolver.ScopeBinding
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "formal_parameter", "spread_parameter":
			nameNode := p.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			b := resolver.ScopeBinding{Name: string(source[nameNode.StartByte():nameNode.EndByte()])}
			if typeNode := p.ChildByFieldName("type"); typeNode != nil {
				b.Type = Hooks{}.ParseTypeNode(typeNode, source)
				b.TypeKnown = true
			}
			out = append(out, b)
		}
	}
	return out
}

func lambdaParamBindings(params *sitter.Node, source []byte) []resolver.ScopeBinding {
	switch params.Kind() {
	case "identifier":
		return []resolver.ScopeBinding{{
			Name:          string(source[params.StartByte():params.EndByte()]),
			IsLambdaParam: true,
		}}
	case "inferred_parameters":
		var out []resolver.ScopeBinding
		for i := uint(0); i < params.NamedChildCount(); i++ {
			id := params.NamedChild(i)
			if id == nil {
				continue
			}
			out = append(out, resolver.ScopeBinding{
				Name:          string(source[id.StartByte():id.EndByte()]),
				IsLambdaParam: true,
			})
		}
		return out
	case "formal_parameters":
		var out []resolver.ScopeBinding
		for i := uint(0); i < params.NamedChildCount(); i++ {
			p := params.NamedChild(i)
			if p == nil || p.Kind() != "formal_parameter" {
				continue
			}
			nameNode := p.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			b := resolver.ScopeBinding{Name: string(source[nameNode.StartByte():nameNode.EndByte()])}
			if typeNode := p.ChildByFieldName("type"); typeNode != nil {
				b.Type = Hooks{}.ParseTypeNode(typeNode, source)
				b.TypeKnown = true
			} else {
				b.IsLambdaParam = true
			}
			out = append(out, b)
		}
		return out
	default:
		return nil
	}
}

// localVarBindingsIn collects every local_variable_declaration's
// declarators directly inside owner (not descending into nested scope
// owners, which will walk their own Bindings call separately).
func localVarBindingsIn(owner *sitter.Node, source []byte) []resolver.ScopeBinding {
	var out []resolver.ScopeBinding
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			if _, isOwner := classifyOwnerKind(child.Kind()); isOwner && !child.Equal(owner) {
				continue // nested scope: its own Bindings call covers it
			}
			if child.Kind() == "local_variable_declaration" {
				typeNode := child.ChildByFieldName("type")
				varKind := typeNode != nil && isVarKeyword(typeNode, source)
				for j := uint(0); j < child.NamedChildCount(); j++ {
					decl := child.NamedChild(j)
					if decl == nil || decl.Kind() != "variable_declarator" {
						continue
					}
					nameNode := decl.ChildByFieldName("name")
					if nameNode == nil {
						continue
					}
					b := resolver.ScopeBinding{Name: string(source[nameNode.StartByte():nameNode.EndByte()])}
					if typeNode != nil && !varKind {
						b.Type = Hooks{}.ParseTypeNode(typeNode, source)
						b.TypeKnown = true
					}
					out = append(out, b)
				}
				continue
			}
			walk(child)
		}
	}
	walk(owner)
	return out
}

func (Hooks) EnclosingClasses(n resolver.Node) []string {
	sn := node(n)
	if sn == nil {
		return nil
	}
	var out []string
	for cur := sn.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Kind() {
		case "class_body", "interface_body", "enum_body", "annotation_type_body":
			out = append(out, classFQNFromBody(cur))
		}
	}
	return out
}

func (Hooks) ParseTypeNode(typeNode resolver.Node, source []byte) types.TypeRef {
	sn := node(typeNode)
	if sn == nil {
		return types.UnknownTypeRef()
	}
	return parseTypeSitterNode(sn, source)
}

func parseTypeSitterNode(sn *sitter.Node, source []byte) types.TypeRef {
	switch sn.Kind() {
	case "generic_type":
		baseNode := sn.NamedChild(0)
		base := types.UnknownTypeRef()
		if baseNode != nil {
			base = parseTypeSitterNode(baseNode, source)
		}
		var args []types.TypeRef
		if argsNode := sn.ChildByFieldName("type_arguments"); argsNode != nil {
			for i := uint(0); i < argsNode.NamedChildCount(); i++ {
				a := argsNode.NamedChild(i)
				if a != nil {
					args = append(args, parseTypeSitterNode(a, source))
				}
			}
		}
		return types.GenericTypeRef(base, args)
	case "array_type":
		elemNode := sn.ChildByFieldName("element")
		dims := 1
		if dimsNode := sn.ChildByFieldName("dimensions"); dimsNode != nil {
			text := string(source[dimsNode.StartByte():dimsNode.EndByte()])
			dims = 0
			for _, c := range text {
				if c == '[' {
					dims++
				}
			}
			if dims == 0 {
				dims = 1
			}
		}
		elem := types.UnknownTypeRef()
		if elemNode != nil {
			elem = parseTypeSitterNode(elemNode, source)
		}
		return types.ArrayTypeRef(elem, dims)
	case "wildcard":
		var bound *types.TypeRef
		isUpper := true
		for i := uint(0); i < sn.ChildCount(); i++ {
			c := sn.Child(i)
			if c == nil {
				continue
			}
			switch c.Kind() {
			case "super":
				isUpper = false
			case "extends":
				isUpper = true
			case "type_identifier", "scoped_type_identifier", "generic_type", "array_type":
				t := parseTypeSitterNode(c, source)
				bound = &t
			}
		}
		return types.WildcardTypeRef(bound, isUpper)
	default:
		return types.RawTypeRef(string(source[sn.StartByte():sn.EndByte()]))
	}
}

// ResolveTypeNameToFQN resolves a bare/simple type name against tree's
// package declaration and import list (spec §4.9 ImportScope).
func (Hooks) ResolveTypeNameToFQN(name string, tree resolver.Node, source []byte) (string, bool) {
	t, ok := tree.(*Tree)
	if !ok {
		return "", false
	}
	hdr := parseFileHeader(t.Root(), source)
	if fqn, ok := hdr.imports[name]; ok {
		return fqn, true
	}
	if hdr.pkg != "" {
		return hdr.pkg + "." + name, true
	}
	return "", false
}

// LambdaContext reports whether n sits at a lambda parameter position
// whose lambda is itself an argument to a method_invocation (spec
// §4.9.2 "LambdaParam inference").
func (Hooks) LambdaContext(n resolver.Node) (resolver.Node, string, resolver.Node, int, int, bool) {
	sn := node(n)
	if sn == nil {
		return nil, "", nil, 0, 0, false
	}
	name := ""
	if sourceForNode != nil {
		name = string(sourceForNode[sn.StartByte():sn.EndByte()])
	}

	var lambda *sitter.Node
	for cur := sn.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Kind() == "lambda_expression" {
			lambda = cur
			break
		}
		if _, ok := classifyOwnerKind(cur.Kind()); ok && cur.Kind() != "lambda_expression" {
			// Hit a narrower scope owner before reaching a lambda: n's
			// binding isn't a lambda parameter of an outer lambda.
		}
	}
	if lambda == nil {
		return nil, "", nil, 0, 0, false
	}
	params := lambda.ChildByFieldName("parameters")
	if params == nil {
		return nil, "", nil, 0, 0, false
	}
	bindings := lambdaParamBindings(params, sourceForNode)
	paramIndex := -1
	for i, b := range bindings {
		if b.Name == name {
			paramIndex = i
			break
		}
	}
	if paramIndex < 0 {
		return nil, "", nil, 0, 0, false
	}

	argList := lambda.Parent()
	if argList == nil || argList.Kind() != "argument_list" {
		return nil, "", nil, 0, 0, false
	}
	invocation := argList.Parent()
	if invocation == nil || invocation.Kind() != "method_invocation" {
		return nil, "", nil, 0, 0, false
	}
	receiver := invocation.ChildByFieldName("object")
	if receiver == nil {
		return nil, "", nil, 0, 0, false
	}
	methodNameNode := invocation.ChildByFieldName("name")
	methodName := ""
	if methodNameNode != nil && sourceForNode != nil {
		methodName = string(sourceForNode[methodNameNode.StartByte():methodNameNode.EndByte()])
	}

	argIndex := -1
	for i := uint(0); i < argList.NamedChildCount(); i++ {
		if argList.NamedChild(i).Equal(lambda) {
			argIndex = int(i)
			break
		}
	}
	if argIndex < 0 {
		return nil, "", nil, 0, 0, false
	}
	return resolver.Node(invocation), methodName, resolver.Node(receiver), argIndex, paramIndex, true
}

// InvocationArgTypes returns a best-effort type for each argument
// expression at invocation -- a literal's obvious type when one is
// written, else TypeRefUnknown so overload scoring (spec §4.9.2) still
// runs but can't over-claim a tier match for that argument.
func (Hooks) InvocationArgTypes(invocation resolver.Node, source []byte) []types.TypeRef {
	sn := node(invocation)
	if sn == nil {
		return nil
	}
	argList := sn.ChildByFieldName("arguments")
	if argList == nil {
		return nil
	}
	out := make([]types.TypeRef, 0, argList.NamedChildCount())
	for i := uint(0); i < argList.NamedChildCount(); i++ {
		arg := argList.NamedChild(i)
		if arg == nil {
			out = append(out, types.UnknownTypeRef())
			continue
		}
		out = append(out, literalArgType(arg, source))
	}
	return out
}

func literalArgType(n *sitter.Node, source []byte) types.TypeRef {
	switch n.Kind() {
	case "string_literal":
		return types.RawTypeRef("String")
	case "character_literal":
		return types.RawTypeRef("char")
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		return types.RawTypeRef("int")
	case "decimal_floating_point_literal":
		return types.RawTypeRef("double")
	case "true", "false":
		return types.RawTypeRef("boolean")
	case "null_literal":
		return types.UnknownTypeRef()
	default:
		return types.UnknownTypeRef()
	}
}
