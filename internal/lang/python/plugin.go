// Package python implements a minimal secondary language plugin (spec
// C5, SPEC_FULL.md §A.2): Matcher + Parser + NamingConvention +
// NodePresenter only, for symbol discovery (ls/find/cat) without full
// semantic resolution. Grounded on internal/lang/java's Plugin/Tree
// structuring, trimmed to the capabilities langplugin.Plugin requires
// rather than langplugin.FullPlugin.
package python

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

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

// Plugin implements langplugin.Plugin for Python.
type Plugin struct {
	language *sitter.Language
}

// New builds a Python plugin, loading the tree-sitter-python grammar
// once.
func New() *Plugin {
	return &Plugin{language: sitter.NewLanguage(tree_sitter_python.Language())}
}

func (p *Plugin) Name() string { return "python" }

func (p *Plugin) Supports(path string) bool {
	return hasSuffix(path, ".py") || hasSuffix(path, ".pyi")
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
		return nil, fmt.Errorf("python: set language: %w", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("python: parse %s: tree-sitter returned no tree", path)
	}
	return &Tree{tree: tree, Source: content}, nil
}

// NamingConvention reuses the standard "a.b.C#member" syntax: Python's
// own dotted module/class/def nesting already matches it, same choice
// as internal/lang/java.
func (p *Plugin) NamingConvention() fqn.NamingConvention {
	return fqn.StandardNamingConvention{}
}

// Presenter renders a node's plain name and kind -- this plugin never
// attaches language-specific Metadata, so there is nothing richer to
// show than what the graph core already carries.
type Presenter struct{}

func (Presenter) Present(node *types.GraphNode, atoms *fqn.Interner) langplugin.Presentation {
	name := atoms.MustResolve(node.Name)
	return langplugin.Presentation{Summary: name, SymbolKind: node.Kind.String()}
}

func (p *Plugin) NodePresenter() langplugin.NodePresenter { return Presenter{} }

var _ langplugin.Plugin = (*Plugin)(nil)
