// Package javascript implements a minimal secondary language plugin
// (spec C5, SPEC_FULL.md §A.2): Matcher + Parser + NamingConvention +
// NodePresenter only, for symbol discovery (ls/find/cat) without full
// semantic resolution.
package javascript

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

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

// Plugin implements langplugin.Plugin for JavaScript.
type Plugin struct {
	language *sitter.Language
}

// New builds a JavaScript plugin, loading the tree-sitter-javascript
// grammar once.
func New() *Plugin {
	return &Plugin{language: sitter.NewLanguage(tree_sitter_javascript.Language())}
}

func (p *Plugin) Name() string { return "javascript" }

func (p *Plugin) Supports(path string) bool {
	return hasSuffix(path, ".js") || hasSuffix(path, ".jsx") || hasSuffix(path, ".mjs") || hasSuffix(path, ".cjs")
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
		return nil, fmt.Errorf("javascript: set language: %w", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("javascript: parse %s: tree-sitter returned no tree", path)
	}
	return &Tree{tree: tree, Source: content}, nil
}

func (p *Plugin) NamingConvention() fqn.NamingConvention {
	return fqn.StandardNamingConvention{}
}

// Presenter renders a node's display name, resolving computed class-
// member keys written as template literals down to their static text
// via go-fast -- see naming.go. Names without backticks pass through
// unchanged, and a template that go-fast does not fold to a string
// literal (e.g. a raw name of "`get${Suffix}`") is shown as written.
type Presenter struct{}

func (Presenter) Present(node *types.GraphNode, atoms *fqn.Interner) langplugin.Presentation {
	name := atoms.MustResolve(node.Name)
	name = displayName(name)
	return langplugin.Presentation{Summary: name, SymbolKind: node.Kind.String()}
}

func (p *Plugin) NodePresenter() langplugin.NodePresenter { return Presenter{} }

var _ langplugin.Plugin = (*Plugin)(nil)
