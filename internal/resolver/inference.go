package resolver

import "github.com/naviscope/naviscope/internal/types"

// TypeInferer runs the composable strategies of spec §4.9.2 in order,
// stopping at the first that returns a known TypeRef.
//
// Grounded on scope/member.rs's resolve_expression_type (LocalScope,
// lexical-field fallback) and the LambdaParam/Member-in-hierarchy
// strategies described in resolver/mod.rs and spec §4.9.2.
type TypeInferer struct {
	hooks LangHooks
	inh   InheritanceProvider
}

// NewTypeInferer builds a TypeInferer over hooks and an
// InheritanceProvider for hierarchy walks.
func NewTypeInferer(hooks LangHooks, inh InheritanceProvider) *TypeInferer {
	return &TypeInferer{hooks: hooks, inh: inh}
}

// InferExpressionType resolves the type of the expression rooted at n
// (spec §4.9.2), trying LocalVar, then lexical field access through the
// enclosing classes. The ancestors of a receiver's type are not
// searched.
func (ti *TypeInferer) InferExpressionType(n Node, ctx ResolutionContext, sm *ScopeManager) (types.TypeRef, bool) {
	name := ti.hooks.Text(n, ctx.Source)

	// 1. LocalVar, via ScopeManager.
	if b, ok := sm.Lookup(n, name); ok {
		if b.IsLambdaParam && !b.TypeKnown {
			if t, ok := ti.inferLambdaParamType(n, ctx, sm); ok {
				return t, true
			}
			return types.UnknownTypeRef(), false
		}
		if b.TypeKnown {
			return ti.resolveTypeRefFQNs(b.Type, ctx), true
		}
		return types.UnknownTypeRef(), false
	}

	// 2. Lexical field access: walk enclosing classes outward,
	// probing `enclosing#name` as a field.
	for _, container := range ctx.EnclosingClasses {
		candidate := container + "#" + name
		if ids := ctx.resolveFQN(candidate); len(ids) > 0 {
			return types.IdTypeRef(candidate), true
		}
		candidateNested := container + "." + name
		if ids := ctx.resolveFQN(candidateNested); len(ids) > 0 {
			return types.IdTypeRef(candidateNested), true
		}
	}

	return types.UnknownTypeRef(), false
}

// resolveTypeRefFQNs recursively resolves the bare names inside a
// TypeRef against imports/package (spec §4.9.2's resolve_type_ref_fqns
// in scope/member.rs): Raw/Id leaves get looked up, Generic/Array/
// Wildcard recurse into their children.
func (ti *TypeInferer) resolveTypeRefFQNs(t types.TypeRef, ctx ResolutionContext) types.TypeRef {
	switch t.Kind {
	case types.TypeRefRaw, types.TypeRefId:
		if fqn, ok := ti.hooks.ResolveTypeNameToFQN(t.Name, ctx.Tree, ctx.Source); ok {
			return types.IdTypeRef(fqn)
		}
		return types.RawTypeRef(t.Name)
	case types.TypeRefGeneric:
		base := types.UnknownTypeRef()
		if t.Base != nil {
			base = ti.resolveTypeRefFQNs(*t.Base, ctx)
		}
		args := make([]types.TypeRef, len(t.Args))
		for i, a := range t.Args {
			args[i] = ti.resolveTypeRefFQNs(a, ctx)
		}
		return types.GenericTypeRef(base, args)
	case types.TypeRefArray:
		elem := types.UnknownTypeRef()
		if t.Element != nil {
			elem = ti.resolveTypeRefFQNs(*t.Element, ctx)
		}
		return types.ArrayTypeRef(elem, t.Dimensions)
	case types.TypeRefWildcard:
		if t.Bound == nil {
			return types.WildcardTypeRef(nil, t.IsUpperBound)
		}
		bound := ti.resolveTypeRefFQNs(*t.Bound, ctx)
		return types.WildcardTypeRef(&bound, t.IsUpperBound)
	default:
		return t
	}
}

// inferLambdaParamType resolves a lambda parameter's type by finding
// the enclosing method invocation, resolving its overload, and taking
// the functional-interface parameter type at the lambda's own position
// (spec §4.9.2 "LambdaParam inference"). Wildcards unwrap to their
// bound.
func (ti *TypeInferer) inferLambdaParamType(n Node, ctx ResolutionContext, sm *ScopeManager) (types.TypeRef, bool) {
	invocation, methodName, receiver, argIndex, paramIndex, ok := ti.hooks.LambdaContext(n)
	if !ok {
		return types.UnknownTypeRef(), false
	}

	receiverType, ok := ti.InferExpressionType(receiver, ctx, sm)
	if !ok {
		return types.UnknownTypeRef(), false
	}
	receiverFQN, ok := receiverType.BaseFQN()
	if !ok {
		return types.UnknownTypeRef(), false
	}

	candidates := ti.methodCandidates(receiverFQN, methodName, ctx)
	if len(candidates) == 0 {
		return types.UnknownTypeRef(), false
	}
	argTypes := ti.hooks.InvocationArgTypes(invocation, ctx.Source)
	chosen, ok := ResolveOverload(candidates, argTypes, ti.inh)
	if !ok || argIndex >= len(chosen.ParamTypes) {
		return types.UnknownTypeRef(), false
	}

	functionalParam := chosen.ParamTypes[argIndex]
	if functionalParam.Kind == types.TypeRefGeneric && paramIndex < len(functionalParam.Args) {
		arg := functionalParam.Args[paramIndex]
		if arg.Kind == types.TypeRefWildcard && arg.Bound != nil {
			return *arg.Bound, true
		}
		return arg, true
	}
	return functionalParam, true
}

// methodCandidates returns one MethodCandidate, with empty ParamTypes,
// for each node id that receiverFQN#methodName resolves to. Members
// inherited from receiverFQN's ancestors are not searched, and no
// method node's parameter metadata is read.
func (ti *TypeInferer) methodCandidates(receiverFQN, methodName string, ctx ResolutionContext) []MethodCandidate {
	if ctx.Snapshot == nil {
		return nil
	}
	var out []MethodCandidate
	for _, id := range ctx.resolveFQN(receiverFQN + "#" + methodName) {
		out = append(out, MethodCandidate{ID: id})
	}
	return out
}
