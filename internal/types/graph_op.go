package types

// IndexNode is the pre-interned, language-plugin-facing representation
// of a graph node. Plugins produce these; the graph builder (C3) interns
// IDs and converts them into GraphNode on insert.
type IndexNode struct {
	ID       NodeId
	Name     string
	Kind     NodeKind
	Lang     string
	Source   NodeSource
	Status   ResolutionStatus
	Location *Location
	Metadata Metadata
}

// IndexRelation is the pre-interned representation of a GraphEdge,
// referencing its endpoints by NodeId rather than FqnId.
type IndexRelation struct {
	From     NodeId
	To       NodeId
	EdgeType EdgeType
	Range    *Range
}

// GraphOp is a single mutation the builder (C3) can apply to produce a
// new graph version. Ingest pipelines (C6/C7) emit streams of these.
//
// GraphOp is a closed sum type modeled as a tagged struct (idiomatic Go
// stand-in for the spec's Rust enum): exactly one of the per-variant
// fields is populated, selected by Op.
type GraphOp struct {
	Op OpKind

	// AddNode
	Node *IndexNode

	// AddEdge
	FromID NodeId
	ToID   NodeId
	Edge   GraphEdge

	// RemovePath
	Path string

	// UpdateIdentifiers
	Identifiers []string

	// UpdateFile
	File SourceFile
}

// OpKind discriminates GraphOp's variant.
type OpKind uint8

const (
	OpAddNode OpKind = iota
	OpAddEdge
	OpRemovePath
	OpUpdateIdentifiers
	OpUpdateFile
)

// AddNodeOp builds an AddNode GraphOp. A nil data behaves as a no-op,
// mirroring the Rust `Option<IndexNode>` the original AddNode variant
// carries (a plugin may decide late that a node shouldn't materialize).
func AddNodeOp(data *IndexNode) GraphOp {
	return GraphOp{Op: OpAddNode, Node: data}
}

// AddEdgeOp builds an AddEdge GraphOp.
func AddEdgeOp(from, to NodeId, edge GraphEdge) GraphOp {
	return GraphOp{Op: OpAddEdge, FromID: from, ToID: to, Edge: edge}
}

// RemovePathOp builds a RemovePath GraphOp.
func RemovePathOp(path string) GraphOp {
	return GraphOp{Op: OpRemovePath, Path: path}
}

// UpdateIdentifiersOp builds an UpdateIdentifiers GraphOp.
func UpdateIdentifiersOp(path string, identifiers []string) GraphOp {
	return GraphOp{Op: OpUpdateIdentifiers, Path: path, Identifiers: identifiers}
}

// UpdateFileOp builds an UpdateFile GraphOp.
func UpdateFileOp(file SourceFile) GraphOp {
	return GraphOp{Op: OpUpdateFile, File: file}
}
