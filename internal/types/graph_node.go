package types

// Metadata is the opaque, per-language payload a GraphNode carries
// (Java modifiers, return type, parameter list, ...). The core never
// interprets it directly; it is encoded/decoded through the owning
// language plugin's MetadataCodec (spec C5) and rendered through the
// NodePresenter capability.
type Metadata interface {
	// Lang names the language plugin that owns this metadata's shape,
	// e.g. "java" or "gradle". Used to pick the right codec on persist.
	Lang() string
}

// EmptyMetadata is the metadata value for nodes that carry none (most
// build-tool nodes, and languages that haven't implemented a richer
// codec yet).
type EmptyMetadata struct{ LangName string }

func (e EmptyMetadata) Lang() string { return e.LangName }

// GraphNode is a single entity in the code graph.
type GraphNode struct {
	ID       FqnId
	Name     Atom
	Kind     NodeKind
	Lang     Atom
	Source   NodeSource
	Status   ResolutionStatus
	Location *Location
	Metadata Metadata
}

// GraphEdge is a single relationship between two GraphNodes. Identity is
// (from, to, EdgeType) -- the builder suppresses duplicates of that
// triple (spec C2 invariant).
type GraphEdge struct {
	EdgeType EdgeType
	Range    *Range
}

// FqnSegment is one (kind, name) step of a Structured NodeId.
type FqnSegment struct {
	Kind NodeKind
	Name string
}

// NodeId is the ingest-layer's pre-interned representation of a name: a
// single flat string for build-system constructs, or a structured path
// of (kind, name) pairs for language constructs. Both forms resolve into
// the same FqnId space via fqn.Manager.InternNodeID.
type NodeId struct {
	Flat       string
	Structured []FqnSegment
}

// IsFlat reports whether this id was built via NewFlatNodeId.
func (n NodeId) IsFlat() bool { return n.Structured == nil }

// NewFlatNodeId builds a Flat NodeId (build-system constructs).
func NewFlatNodeId(s string) NodeId {
	return NodeId{Flat: s}
}

// NewStructuredNodeId builds a Structured NodeId (language constructs).
func NewStructuredNodeId(parts ...FqnSegment) NodeId {
	return NodeId{Structured: parts}
}

// String renders a human-readable form, used for logging and as the
// fallback cache key when no FqnId has been assigned yet.
func (n NodeId) String() string {
	if n.IsFlat() {
		return n.Flat
	}
	out := ""
	for i, seg := range n.Structured {
		if i > 0 {
			if seg.Kind.IsMember() {
				out += "#"
			} else {
				out += "."
			}
		}
		out += seg.Name
	}
	return out
}
