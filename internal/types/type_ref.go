package types

// TypeRefKind discriminates TypeRef's variant (spec §4.9.2):
// `Raw(String) | Id(FQN) | Generic{base, args} | Array{element, dim} |
// Wildcard{bound, is_upper} | Unknown`.
type TypeRefKind uint8

const (
	TypeRefUnknown TypeRefKind = iota
	TypeRefRaw
	TypeRefId
	TypeRefGeneric
	TypeRefArray
	TypeRefWildcard
)

// TypeRef is a type reference as written or inferred in source, modeled
// as a tagged struct per Go idiom (the Rust original is a recursive
// enum). Name carries the Raw/Id payload; Args, Element, and Bound hold
// the recursive children for the composite variants.
type TypeRef struct {
	Kind TypeRefKind

	Name string // Raw or Id payload

	Base *TypeRef // Generic's base type
	Args []TypeRef // Generic's type arguments

	Element    *TypeRef // Array's element type
	Dimensions int      // Array's dimension count

	Bound        *TypeRef // Wildcard's bound, nil for unbounded (`?`)
	IsUpperBound bool     // Wildcard: `? extends Bound` vs `? super Bound`
}

// RawTypeRef builds an unresolved (not-yet-FQN) type reference.
func RawTypeRef(name string) TypeRef { return TypeRef{Kind: TypeRefRaw, Name: name} }

// IdTypeRef builds a resolved (FQN) type reference.
func IdTypeRef(fqn string) TypeRef { return TypeRef{Kind: TypeRefId, Name: fqn} }

// UnknownTypeRef is the zero value's meaning: type inference gave up.
func UnknownTypeRef() TypeRef { return TypeRef{Kind: TypeRefUnknown} }

// GenericTypeRef builds a parameterized type reference, e.g. List<E>.
func GenericTypeRef(base TypeRef, args []TypeRef) TypeRef {
	return TypeRef{Kind: TypeRefGeneric, Base: &base, Args: args}
}

// ArrayTypeRef builds an array type reference with the given element
// type and dimension count.
func ArrayTypeRef(element TypeRef, dimensions int) TypeRef {
	return TypeRef{Kind: TypeRefArray, Element: &element, Dimensions: dimensions}
}

// WildcardTypeRef builds a `?`, `? extends Bound`, or `? super Bound`
// reference. bound is nil for the unbounded form.
func WildcardTypeRef(bound *TypeRef, isUpperBound bool) TypeRef {
	return TypeRef{Kind: TypeRefWildcard, Bound: bound, IsUpperBound: isUpperBound}
}

// BaseFQN returns the innermost Id/Raw name of a (possibly generic)
// type reference -- e.g. "java.util.List" from "List<String>". Used by
// member resolution to find the receiver's class regardless of its type
// arguments.
func (t TypeRef) BaseFQN() (string, bool) {
	switch t.Kind {
	case TypeRefId, TypeRefRaw:
		return t.Name, true
	case TypeRefGeneric:
		if t.Base != nil {
			return t.Base.BaseFQN()
		}
	}
	return "", false
}

// IsResolved reports whether this reference (or, for Generic, its base)
// already carries an FQN rather than a bare/raw name.
func (t TypeRef) IsResolved() bool {
	if t.Kind == TypeRefId {
		return true
	}
	if t.Kind == TypeRefGeneric && t.Base != nil {
		return t.Base.IsResolved()
	}
	return false
}
