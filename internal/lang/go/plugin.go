// Package golang implements a minimal secondary language plugin (spec
// C5, SPEC_FULL.md §A.2) for Go source: Matcher + Parser +
// NamingConvention + NodePresenter only, for symbol discovery (ls/
// find/cat) without full semantic resolution.
//
// The package is named golang, not go: "go" is a reserved keyword and
// cannot be a package identifier, even though the directory (and the
// language name this plugin registers under) is "go".
package golang

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/types"
)

// Tree is the ParseTree this plugin hands back: the parsed syntax tree
// plus its source bytes.
type Tree struct {
	tree   *sitter.Tree
	Source []byte
}

func (t *Tree) Root() *sitter.Node { return t.tree.RootNode() }

// Plugin implements langplugin.Plugin for Go.
type Plugin struct {
	language *sitter.Language
}

// New builds a Go plugin, loading the tree-sitter-go grammar once.
func New() *Plugin {
	return &Plugin{language: sitter.NewLanguage(tree_sitter_go.Language())}
}

func (p *Plugin) Name() string { return "go" }

func (p *Plugin) Supports(path string) bool {
	return hasSuffix(path, ".go")
}

func hasSuffix(path, suffix string) bool {
	if len(path) < len(suffix) {
		return false
	}
	return path[len(path)-len(suffix):] == suffix
}

func (p *Plugin) Parse(path string, content []byte) (langplugin.ParseTree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("go: set language: %w", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("go: parse %s: tree-sitter returned no tree", path)
	}
	return &Tree{tree: tree, Source: content}, nil
}

func (p *Plugin) NamingConvention() fqn.NamingConvention {
	return fqn.StandardNamingConvention{}
}

type Presenter struct{}

func (Presenter) Present(node *types.GraphNode, atoms *fqn.Interner) langplugin.Presentation {
	name := atoms.MustResolve(node.Name)
	return langplugin.Presentation{Summary: name, SymbolKind: node.Kind.String()}
}

func (p *Plugin) NodePresenter() langplugin.NodePresenter { return Presenter{} }

var _ langplugin.Plugin = (*Plugin)(nil)
