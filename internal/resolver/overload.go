package resolver

import "github.com/naviscope/naviscope/internal/types"

// overloadTier names the four tiers attempted in order (spec §4.9.2
// "Overload resolution").
type overloadTier int

const (
	tierExactFixed overloadTier = iota
	tierSubtypeFixed
	tierExactVarargs
	tierSubtypeVarargs
)

// InheritanceProvider answers "is sub a subtype of (or the same type
// as) super", used by overload scoring (widening conversions).
// Implemented against the graph's InheritsFrom/Implements edges.
type InheritanceProvider interface {
	IsSubtype(sub, super types.TypeRef) bool
}

// ResolveOverload picks the best candidate for a call with argTypes
// actual argument types, trying each tier in order and returning the
// most-specific match within the first tier that yields any match at
// all (spec §4.9.2). ok is false ("strict mode") if no tier matches.
func ResolveOverload(candidates []MethodCandidate, argTypes []types.TypeRef, inh InheritanceProvider) (MethodCandidate, bool) {
	for _, tier := range []overloadTier{tierExactFixed, tierSubtypeFixed, tierExactVarargs, tierSubtypeVarargs} {
		matches := filterTier(candidates, argTypes, inh, tier)
		if len(matches) == 0 {
			continue
		}
		return mostSpecific(matches, inh), true
	}
	return MethodCandidate{}, false
}

func filterTier(candidates []MethodCandidate, argTypes []types.TypeRef, inh InheritanceProvider, tier overloadTier) []MethodCandidate {
	var out []MethodCandidate
	for _, c := range candidates {
		if matchesTier(c, argTypes, inh, tier) {
			out = append(out, c)
		}
	}
	return out
}

func matchesTier(c MethodCandidate, argTypes []types.TypeRef, inh InheritanceProvider, tier overloadTier) bool {
	switch tier {
	case tierExactFixed:
		if c.IsVarargs || len(c.ParamTypes) != len(argTypes) {
			return false
		}
		return allExact(c.ParamTypes, argTypes)
	case tierSubtypeFixed:
		if c.IsVarargs || len(c.ParamTypes) != len(argTypes) {
			return false
		}
		return allAssignable(c.ParamTypes, argTypes, inh)
	case tierExactVarargs:
		if !c.IsVarargs || len(c.ParamTypes) == 0 {
			return false
		}
		fixed := c.ParamTypes[:len(c.ParamTypes)-1]
		variadic := c.ParamTypes[len(c.ParamTypes)-1]
		if len(argTypes) < len(fixed) {
			return false
		}
		if !allExact(fixed, argTypes[:len(fixed)]) {
			return false
		}
		// "pass a T[]" form: one remaining arg already typed as the
		// array itself.
		if len(argTypes) == len(fixed)+1 && typeRefEqual(argTypes[len(fixed)], variadic) {
			return true
		}
		elem := variadic
		if variadic.Kind == types.TypeRefArray && variadic.Element != nil {
			elem = *variadic.Element
		}
		for _, a := range argTypes[len(fixed):] {
			if !typeRefEqual(a, elem) {
				return false
			}
		}
		return true
	case tierSubtypeVarargs:
		if !c.IsVarargs || len(c.ParamTypes) == 0 {
			return false
		}
		fixed := c.ParamTypes[:len(c.ParamTypes)-1]
		variadic := c.ParamTypes[len(c.ParamTypes)-1]
		if len(argTypes) < len(fixed) {
			return false
		}
		if !allAssignable(fixed, argTypes[:len(fixed)], inh) {
			return false
		}
		elem := variadic
		if variadic.Kind == types.TypeRefArray && variadic.Element != nil {
			elem = *variadic.Element
		}
		for _, a := range argTypes[len(fixed):] {
			if !typeRefEqual(a, elem) && !inh.IsSubtype(a, elem) {
				return false
			}
		}
		return true
	}
	return false
}

func allExact(params, args []types.TypeRef) bool {
	for i, p := range params {
		if !typeRefEqual(p, args[i]) {
			return false
		}
	}
	return true
}

func allAssignable(params, args []types.TypeRef, inh InheritanceProvider) bool {
	for i, p := range params {
		if typeRefEqual(p, args[i]) {
			continue
		}
		if !inh.IsSubtype(args[i], p) {
			return false
		}
	}
	return true
}

func typeRefEqual(a, b types.TypeRef) bool {
	af, aok := a.BaseFQN()
	bf, bok := b.BaseFQN()
	return aok && bok && af == bf
}

// mostSpecific picks the candidate whose i-th parameter type is a
// subtype of every other candidate's i-th parameter type at no
// position reversed (spec §4.9.2 "Most-specific tie-break"). Ties
// (nothing strictly dominates) resolve to the first candidate in
// declaration order, matching the Rust original's stable-sort
// tie-break.
func mostSpecific(candidates []MethodCandidate, inh InheritanceProvider) MethodCandidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if dominates(c, best, inh) {
			best = c
		}
	}
	return best
}

// dominates reports whether a is at least as specific as b at every
// parameter position, and strictly more specific at least once.
func dominates(a, b MethodCandidate, inh InheritanceProvider) bool {
	if len(a.ParamTypes) != len(b.ParamTypes) {
		return false
	}
	strictlyBetter := false
	for i := range a.ParamTypes {
		if typeRefEqual(a.ParamTypes[i], b.ParamTypes[i]) {
			continue
		}
		if inh.IsSubtype(a.ParamTypes[i], b.ParamTypes[i]) {
			strictlyBetter = true
			continue
		}
		return false
	}
	return strictlyBetter
}
