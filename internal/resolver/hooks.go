// Package resolver implements the symbol resolver (spec C9): the
// cursor-to-SymbolResolution query, its scope chain (LocalScope,
// MemberScope, ImportScope, BuiltinScope), the ScopeManager, type
// inference strategies, and four-tier overload resolution.
//
// Grounded on original_source/crates/lang-java/src/resolver/mod.rs and
// resolver/scope/member.rs -- but deliberately excludes the lowering
// logic those same files also contain (LangResolver::resolve,
// SourceIndexCap::compile_source): that half builds graph nodes/edges
// from a parsed file and belongs to internal/lang/java's
// SourceIndexer.LowerSource instead (spec C7), not the interactive
// query path this package implements.
//
// Everything here is Java-syntax-aware (the spec scopes C9 to the
// primary, fully-resolving language) but tree-sitter-agnostic: Node is
// an opaque handle and every syntax-shape question -- "what kind is
// this node", "what's the nearest scope owner", "how is this type
// written" -- is asked through LangHooks, implemented by
// internal/lang/java against its tree-sitter grammar. That split keeps
// the scope-chain and inference algorithms unit-testable without a
// real parser, the same way the teacher's internal/analysis separates
// the extract/analyze algorithm from LanguageAnalyzer's tree-sitter
// calls.
package resolver

import "github.com/naviscope/naviscope/internal/types"

// Node is an opaque per-language syntax-node handle (a tree-sitter node,
// for Java). The resolver never inspects it directly; it only passes it
// back through LangHooks.
type Node any

// ScopeOwnerKind classifies a scope-creating node (spec §4.9.1): a
// class body introduces a Class scope (tagged with its FQN so member
// lookups know which container they're in), everything else that can
// hold local bindings (method, block, for, try-with-resources, lambda,
// catch) is a Method or Local scope.
type ScopeOwnerKind uint8

const (
	ScopeOwnerLocal ScopeOwnerKind = iota
	ScopeOwnerMethod
	ScopeOwnerClass
)

// MethodCandidate is one overload considered during method-invocation
// resolution (spec §4.9.2 "Overload resolution"): its formal parameter
// types (already FQN-resolved where possible) and whether its last
// parameter is variadic.
type MethodCandidate struct {
	ID         types.FqnId
	ParamTypes []types.TypeRef
	IsVarargs  bool
}

// LangHooks is every Java-syntax primitive the resolver needs and
// cannot know generically. Implemented by internal/lang/java against
// tree-sitter-java; a test double implements it directly over a tiny
// hand-built Node graph (see resolver_test.go).
type LangHooks interface {
	// CursorNode finds the smallest named descendant of tree's root
	// whose span contains (line, byteCol) and whose kind is
	// identifier-like (identifier | type_identifier |
	// scoped_identifier | this). ok is false if nothing qualifies
	// (spec §4.9 step 1).
	CursorNode(tree Node, line, byteCol int) (n Node, ok bool)

	// Kind returns the node's tree-sitter grammar kind string.
	Kind(n Node) string

	// Text returns the node's source text.
	Text(n Node, source []byte) string

	// Parent returns n's parent node, if any.
	Parent(n Node) (Node, bool)

	// Intent classifies the cursor as IntentType or IntentValue (spec
	// §4.9 step 1). The Java hooks decide from the cursor node's own
	// kind (type_identifier, scoped_type_identifier -> IntentType);
	// the parent's kind is not consulted.
	Intent(n Node) types.Intent

	// Receiver reports whether n is the right-hand member of a
	// field_access, method_invocation, or scoped_type_identifier, and
	// if so returns the receiver (left-hand) node (spec §4.9 step 2).
	Receiver(n Node) (Node, bool)

	// ScopeOwner walks up from n to the nearest scope-creating
	// ancestor (method, block, for, try-with-resources, lambda,
	// catch, class body), returning its kind and -- for a Class
	// owner -- its FQN.
	ScopeOwner(n Node) (owner Node, kind ScopeOwnerKind, classFQN string, ok bool)

	// ParentScopeOwner returns the next scope-creating ancestor above
	// owner, used by ScopeManager to link parent scopes while walking
	// up from the cursor once.
	ParentScopeOwner(owner Node) (Node, ScopeOwnerKind, string, bool)

	// Bindings lists every name bound directly in scope owner (formal
	// parameters, catch parameters, enhanced-for variables, local
	// variable declarations) with its declared type, if written
	// (spec §4.9.1). A `var` initializer or untyped lambda parameter
	// is reported with typeKnown = false; the caller defers inference.
	Bindings(owner Node, source []byte) []ScopeBinding

	// EnclosingClasses returns the FQNs of every class/interface body
	// lexically enclosing n, innermost first (spec §4.9 MemberScope
	// "lexical" path, §4.9.2 "FieldAccess" lexical fallback).
	EnclosingClasses(n Node) []string

	// ParseTypeNode parses a type node's text into a TypeRef,
	// including generic arguments and array dimensions (spec §4.9.2).
	ParseTypeNode(typeNode Node, source []byte) types.TypeRef

	// ResolveTypeNameToFQN resolves a bare/simple type name against
	// tree's imports and package declaration (spec §4.9 ImportScope).
	ResolveTypeNameToFQN(name string, tree Node, source []byte) (string, bool)

	// LambdaContext reports whether n sits at lambda-parameter
	// position k of a lambda passed as argument index argIndex to an
	// enclosing method_invocation, and returns that invocation's
	// simple method name and receiver node for overload resolution
	// (spec §4.9.2 "LambdaParam inference").
	LambdaContext(n Node) (invocation Node, methodName string, receiver Node, argIndex, paramIndex int, ok bool)

	// InvocationArgTypes returns the resolved (or best-effort) type of
	// each argument expression at a method_invocation node, used to
	// score overload candidates.
	InvocationArgTypes(invocation Node, source []byte) []types.TypeRef
}

// ScopeBinding is one name introduced by a scope-owner node (spec
// §4.9.1): formal parameter, catch parameter, enhanced-for variable, or
// local variable declaration.
type ScopeBinding struct {
	Name      string
	Type      types.TypeRef
	TypeKnown bool
	DeclRange types.Range
	// IsLambdaParam marks a binding whose type needs
	// §4.9.2 "LambdaParam inference" rather than a plain lookup.
	IsLambdaParam bool
}
