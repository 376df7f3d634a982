package java

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/resolver"
	"github.com/naviscope/naviscope/internal/types"
)

// Semantic implements langplugin.Semantic. ResolveAt/FindMatches/
// ResolveTypeOf/FindImplementations delegate straight to the generic
// resolver (spec C9) built over this package's Hooks/Inheritance;
// FindOccurrences and ExtractSymbols are Java-specific (spec §4.3,
// §4.10) and live only here, not in internal/resolver (see that
// package's doc comment).
type Semantic struct{}

func (s Semantic) ResolveAt(tree langplugin.ParseTree, source []byte, line, byteCol int, snapshot *graph.CodeGraph) (*types.SymbolResolution, error) {
	var res *types.SymbolResolution
	var err error
	withSource(source, func() {
		res, err = resolver.New(Hooks{}, Inheritance{Graph: snapshot}).ResolveAt(tree, source, line, byteCol, snapshot)
	})
	return res, err
}

func (s Semantic) FindMatches(res types.SymbolResolution, snapshot *graph.CodeGraph) ([]types.FqnId, error) {
	return resolver.New(Hooks{}, Inheritance{Graph: snapshot}).FindMatches(res, snapshot)
}

func (s Semantic) ResolveTypeOf(res types.SymbolResolution, snapshot *graph.CodeGraph) (types.FqnId, bool) {
	return resolver.New(Hooks{}, Inheritance{Graph: snapshot}).ResolveTypeOf(res, snapshot)
}

func (s Semantic) FindImplementations(id types.FqnId, snapshot *graph.CodeGraph) ([]types.FqnId, error) {
	return resolver.New(Hooks{}, Inheritance{Graph: snapshot}).FindImplementations(id, snapshot)
}

// FindOccurrences re-resolves every identifier-like node in tree and
// returns the ranges of those that denote target (spec §4.10's scan
// tier: "does this file mention this symbol").
func (s Semantic) FindOccurrences(tree langplugin.ParseTree, source []byte, target types.FqnId, snapshot *graph.CodeGraph) ([]types.Range, error) {
	t, ok := tree.(*Tree)
	if !ok {
		return nil, nil
	}
	r := resolver.New(Hooks{}, Inheritance{Graph: snapshot})
	var occurrences []types.Range

	withSource(source, func() {
		var walk func(n *sitter.Node)
		walk = func(n *sitter.Node) {
			if identifierLikeKinds[n.Kind()] {
				start := n.StartPosition()
				res, err := r.ResolveAt(tree, source, int(start.Row), int(start.Column), snapshot)
				if err == nil && res != nil {
					if ids, err := r.FindMatches(*res, snapshot); err == nil {
						for _, id := range ids {
							if id == target {
								occurrences = append(occurrences, nodeRange(n))
								break
							}
						}
					}
				}
			}
			for i := uint(0); i < n.NamedChildCount(); i++ {
				c := n.NamedChild(i)
				if c != nil {
					walk(c)
				}
			}
		}
		walk(t.Root())
	})

	return occurrences, nil
}

// ExtractSymbols lists every type and member declared in tree (spec
// §4.3 document-symbols), reusing the same declaration walker
// LowerSource builds its graph ops from.
func (s Semantic) ExtractSymbols(tree langplugin.ParseTree, source []byte) ([]langplugin.ExtractedSymbol, error) {
	t, ok := tree.(*Tree)
	if !ok {
		return nil, nil
	}
	hdr := parseFileHeader(t.Root(), source)
	decls := collectTypeDecls(t.Root(), source, hdr.pkg, containerNodeID(hdr.pkg))

	var out []langplugin.ExtractedSymbol
	for _, d := range decls {
		out = append(out, langplugin.ExtractedSymbol{Name: d.name, Kind: d.kind, Range: nodeRange(d.node)})
		for _, m := range d.members {
			out = append(out, langplugin.ExtractedSymbol{Name: m.name, Kind: m.kind, Range: nodeRange(m.node)})
		}
	}
	return out, nil
}
