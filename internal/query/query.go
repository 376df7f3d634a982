// Package query implements the shell query language's execution engine
// (spec C4): Find/Ls/Cat/Deps resolved against a single immutable graph
// snapshot. Every verb returns a QueryResult of display-ready nodes plus
// the edges connecting them, grounded on
// original_source/crates/core/src/query/engine.rs's QueryEngine.
package query

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/surgebase/porter2"

	naverrors "github.com/naviscope/naviscope/internal/errors"
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/types"
	"github.com/naviscope/naviscope/pkg/pathutil"
)

// Direction selects which side of an edge traverseNeighbors follows.
type Direction uint8

const (
	Outgoing Direction = iota
	Incoming
)

// DisplayNode is a node with every atom resolved to its string form, the
// shape the shell (`ls`/`cat`/`find`/`deps`) and the MCP surface render.
type DisplayNode struct {
	FQN      string
	Name     string
	Kind     types.NodeKind
	Lang     string
	Source   types.NodeSource
	Status   types.ResolutionStatus
	Location *DisplayLocation
	Metadata types.Metadata
}

// DisplayLocation is a Location with its path atom resolved.
type DisplayLocation struct {
	Path           string
	Range          types.Range
	SelectionRange *types.Range
}

// ResultEdge is an edge between two DisplayNodes, identified by their
// rendered FQN strings rather than internal ids.
type ResultEdge struct {
	From     string
	To       string
	EdgeType types.EdgeType
	Range    *types.Range
}

// Result is what every query verb returns: the matched nodes and, for
// Ls/Deps, the edges connecting them to their anchor node.
type Result struct {
	Nodes []DisplayNode
	Edges []ResultEdge
}

func empty() *Result { return &Result{} }

// Engine executes shell query-language verbs against a single graph
// snapshot. It holds no mutable state and is safe for concurrent use --
// concurrent queries simply read the same immutable CodeGraph.
type Engine struct {
	graph   *graph.CodeGraph
	rootDir string
}

// New creates an Engine bound to a graph snapshot, with no project root
// configured -- rendered locations keep their indexed (absolute) path.
// The engine façade (C11) constructs a fresh Engine each time it swaps
// in a new snapshot.
func New(g *graph.CodeGraph) *Engine {
	return &Engine{graph: g}
}

// NewWithRoot is New plus a project root directory: every rendered
// DisplayLocation.Path is converted to root-relative via
// pkg/pathutil.ToRelative, matching the shell's and goto-definition's
// user-facing output (spec C4/C11 "relative paths for readability").
func NewWithRoot(g *graph.CodeGraph, rootDir string) *Engine {
	return &Engine{graph: g, rootDir: rootDir}
}

func (e *Engine) toDisplayNode(id types.FqnId) (DisplayNode, bool) {
	node, ok := e.graph.Node(id)
	if !ok {
		return DisplayNode{}, false
	}
	atoms := e.graph.FQNs().Atoms()

	dn := DisplayNode{
		FQN:      e.graph.FQNs().RenderFQN(id),
		Name:     atoms.MustResolve(node.Name),
		Kind:     node.Kind,
		Lang:     atoms.MustResolve(node.Lang),
		Source:   node.Source,
		Status:   node.Status,
		Metadata: node.Metadata,
	}
	if node.Location != nil {
		path := atoms.MustResolve(node.Location.Path)
		if e.rootDir != "" {
			path = pathutil.ToRelative(path, e.rootDir)
		}
		dn.Location = &DisplayLocation{
			Path:           path,
			Range:          node.Location.Range,
			SelectionRange: node.Location.SelectionRange,
		}
	}
	return dn, true
}

// findNode resolves a display FQN string to its node id. When the
// string is ambiguous across registered naming conventions (spec C1),
// the first -- lowest-id, deterministic -- match is used, matching the
// original implementation's single-exact-symbol lookup.
func (e *Engine) findNode(fqnStr string) (types.FqnId, bool) {
	ids := e.graph.FQNs().ResolveFQNString(fqnStr)
	if len(ids) == 0 {
		return types.NoFqnId, false
	}
	return ids[0], true
}

// Find returns every node whose rendered FQN or display name matches the
// regex pattern (case-insensitive), optionally filtered by kind, capped
// at limit matches.
func (e *Engine) Find(pattern string, kinds []types.NodeKind, limit int) (*Result, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, naverrors.NewQueryError("find", pattern, err)
	}

	result := empty()
	for _, id := range e.graph.AllNodeIDs() {
		if limit > 0 && len(result.Nodes) >= limit {
			break
		}
		dn, ok := e.toDisplayNode(id)
		if !ok {
			continue
		}
		if !re.MatchString(dn.FQN) && !re.MatchString(dn.Name) {
			continue
		}
		if !kindMatches(dn.Kind, kinds) {
			continue
		}
		result.Nodes = append(result.Nodes, dn)
	}
	if len(result.Nodes) == 0 {
		return e.stemmedFind(pattern, kinds, limit), nil
	}
	return result, nil
}

// stemmedFind is the relevance-booster fallback tried when a regex Find
// comes back empty: the pattern and every candidate's display name are
// split into words and reduced to their Porter2 stems, so a query like
// "running" still surfaces a symbol named "run" or "runner". Grounded
// on the teacher's internal/semantic stemmer (stemmer.go, wrapping the
// same porter2.Stem), adapted from a full semantic scorer down to a
// single stemmed-token overlap check for the shell's Find verb.
func (e *Engine) stemmedFind(pattern string, kinds []types.NodeKind, limit int) *Result {
	queryStems := stemWords(pattern)
	if len(queryStems) == 0 {
		return empty()
	}

	result := empty()
	for _, id := range e.graph.AllNodeIDs() {
		if limit > 0 && len(result.Nodes) >= limit {
			break
		}
		dn, ok := e.toDisplayNode(id)
		if !ok || !kindMatches(dn.Kind, kinds) {
			continue
		}
		if !stemsOverlap(queryStems, stemWords(dn.Name)) {
			continue
		}
		result.Nodes = append(result.Nodes, dn)
	}
	return result
}

// stemWords splits s on non-letter runes and camelCase boundaries,
// lowercases, and stems each resulting word with porter2.
func stemWords(s string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, porter2.Stem(strings.ToLower(cur.String())))
			cur.Reset()
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			flush()
		}
		cur.WriteRune(r)
	}
	flush()
	return words
}

func stemsOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Ls lists the contents of a container FQN (its Contains children), or,
// given no FQN, the workspace roots: top-level Modules first, falling
// back to every other parentless node (capped at 50) when no Module is
// unparented (spec C4 "Ls fallback-to-orphans").
func (e *Engine) Ls(fqnStr string, kinds []types.NodeKind) (*Result, error) {
	if fqnStr != "" {
		return e.traverseNeighbors(fqnStr, []types.EdgeType{types.Contains}, Outgoing, kinds)
	}

	result := empty()
	for _, id := range e.graph.AllNodeIDs() {
		node, ok := e.graph.Node(id)
		if !ok || !node.Kind.Equal(types.Module) {
			continue
		}
		if hasIncomingContains(e.graph, id) {
			continue
		}
		if dn, ok := e.toDisplayNode(id); ok {
			result.Nodes = append(result.Nodes, dn)
		}
	}
	if len(result.Nodes) > 0 {
		return result, nil
	}

	for _, id := range e.graph.AllNodeIDs() {
		if len(result.Nodes) >= 50 {
			break
		}
		if hasIncomingContains(e.graph, id) {
			continue
		}
		dn, ok := e.toDisplayNode(id)
		if !ok || !kindMatches(dn.Kind, kinds) {
			continue
		}
		result.Nodes = append(result.Nodes, dn)
	}
	return result, nil
}

func hasIncomingContains(g *graph.CodeGraph, id types.FqnId) bool {
	for _, re := range g.ReverseEdges(id) {
		if re.EdgeType == types.Contains {
			return true
		}
	}
	return false
}

// Cat returns the single node named by fqnStr, or an empty Result if it
// doesn't exist.
func (e *Engine) Cat(fqnStr string) (*Result, error) {
	id, ok := e.findNode(fqnStr)
	if !ok {
		return empty(), nil
	}
	dn, ok := e.toDisplayNode(id)
	if !ok {
		return empty(), nil
	}
	return &Result{Nodes: []DisplayNode{dn}}, nil
}

// Deps returns a node's dependencies (rev=false, outgoing edges) or
// dependents (rev=true, incoming edges), optionally filtered to a subset
// of edge types.
func (e *Engine) Deps(fqnStr string, rev bool, edgeTypes []types.EdgeType) (*Result, error) {
	dir := Outgoing
	if rev {
		dir = Incoming
	}
	return e.traverseNeighbors(fqnStr, edgeTypes, dir, nil)
}

func (e *Engine) traverseNeighbors(fqnStr string, edgeFilter []types.EdgeType, dir Direction, kindFilter []types.NodeKind) (*Result, error) {
	startID, ok := e.findNode(fqnStr)
	if !ok {
		return nil, naverrors.NewQueryError("deps", fqnStr, errNodeNotFound(fqnStr))
	}
	startFQN := e.graph.FQNs().RenderFQN(startID)

	result := empty()

	if dir == Outgoing {
		for _, edge := range e.graph.Edges(startID) {
			if !edgeTypeMatches(edge.EdgeType, edgeFilter) {
				continue
			}
			dn, ok := e.toDisplayNode(edge.To)
			if !ok || !kindMatches(dn.Kind, kindFilter) {
				continue
			}
			result.Nodes = append(result.Nodes, dn)
			result.Edges = append(result.Edges, ResultEdge{From: startFQN, To: dn.FQN, EdgeType: edge.EdgeType, Range: edge.Range})
		}
		return result, nil
	}

	for _, redge := range e.graph.ReverseEdges(startID) {
		if !edgeTypeMatches(redge.EdgeType, edgeFilter) {
			continue
		}
		dn, ok := e.toDisplayNode(redge.From)
		if !ok || !kindMatches(dn.Kind, kindFilter) {
			continue
		}
		result.Nodes = append(result.Nodes, dn)
		result.Edges = append(result.Edges, ResultEdge{From: dn.FQN, To: startFQN, EdgeType: redge.EdgeType, Range: redge.Range})
	}
	return result, nil
}

func kindMatches(kind types.NodeKind, kinds []types.NodeKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if kind.Equal(k) {
			return true
		}
	}
	return false
}

func edgeTypeMatches(et types.EdgeType, allowed []types.EdgeType) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if t == et {
			return true
		}
	}
	return false
}

type nodeNotFoundError struct{ fqn string }

func errNodeNotFound(fqn string) error { return &nodeNotFoundError{fqn: fqn} }

func (e *nodeNotFoundError) Error() string { return "node not found: " + e.fqn }
