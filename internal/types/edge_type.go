package types

// EdgeType is the closed set of relationships a GraphEdge can carry.
type EdgeType uint8

const (
	Contains EdgeType = iota
	InheritsFrom
	Implements
	TypedAs
	DecoratedBy
	UsesDependency
)

func (e EdgeType) String() string {
	switch e {
	case Contains:
		return "contains"
	case InheritsFrom:
		return "inheritsfrom"
	case Implements:
		return "implements"
	case TypedAs:
		return "typedas"
	case DecoratedBy:
		return "decoratedby"
	case UsesDependency:
		return "usesdependency"
	default:
		return "unknown"
	}
}

// ParseEdgeType parses the `deps --edge-types` shell vocabulary (spec §6).
func ParseEdgeType(s string) (EdgeType, bool) {
	switch s {
	case "contains":
		return Contains, true
	case "inheritsfrom":
		return InheritsFrom, true
	case "implements":
		return Implements, true
	case "typedas":
		return TypedAs, true
	case "decoratedby":
		return DecoratedBy, true
	case "usesdependency":
		return UsesDependency, true
	default:
		return 0, false
	}
}

// NodeSource distinguishes a node parsed directly from project sources
// from one hydrated lazily from an external asset (jar, jmod, ...).
type NodeSource uint8

const (
	SourceProject NodeSource = iota
	SourceExternal
)

func (s NodeSource) String() string {
	if s == SourceExternal {
		return "external"
	}
	return "project"
}

// ResolutionStatus distinguishes a fully-parsed node from one synthesized
// as a lazy stub (spec C8).
type ResolutionStatus uint8

const (
	Resolved ResolutionStatus = iota
	Stubbed
)

func (s ResolutionStatus) String() string {
	if s == Stubbed {
		return "stubbed"
	}
	return "resolved"
}
