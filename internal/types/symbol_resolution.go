package types

// Intent classifies what a resolved cursor position refers to -- a type
// name, a value expression, or an intent the resolver couldn't pin down.
type Intent uint8

const (
	IntentUnknown Intent = iota
	IntentType
	IntentValue
)

func (i Intent) String() string {
	switch i {
	case IntentType:
		return "type"
	case IntentValue:
		return "value"
	default:
		return "unknown"
	}
}

// ResolutionKind discriminates SymbolResolution's variant (spec C9): a
// Local binding resolved purely within the file's scope chain, a Precise
// FQN match against the graph, or a Global best-effort guess when
// neither resolves cleanly.
type ResolutionKind uint8

const (
	ResolutionLocal ResolutionKind = iota
	ResolutionPrecise
	ResolutionGlobal
)

// SymbolResolution is the resolver's (C9) output for a cursor position:
// `Local(Range, Option<TypeName>) | Precise(String, Intent) | Global(String)`
// from spec §4.9, modeled as a tagged struct per Go idiom.
type SymbolResolution struct {
	Kind ResolutionKind

	// Local
	DeclRange    Range
	ResolvedType string // empty means "unknown", mirrors Option<TypeName>

	// Precise
	FQN    string
	Intent Intent

	// Global
	GlobalName string
}

// LocalResolution builds a Local SymbolResolution.
func LocalResolution(declRange Range, resolvedType string) SymbolResolution {
	return SymbolResolution{Kind: ResolutionLocal, DeclRange: declRange, ResolvedType: resolvedType}
}

// PreciseResolution builds a Precise SymbolResolution.
func PreciseResolution(fqn string, intent Intent) SymbolResolution {
	return SymbolResolution{Kind: ResolutionPrecise, FQN: fqn, Intent: intent}
}

// GlobalResolution builds a Global SymbolResolution.
func GlobalResolution(name string) SymbolResolution {
	return SymbolResolution{Kind: ResolutionGlobal, GlobalName: name}
}
