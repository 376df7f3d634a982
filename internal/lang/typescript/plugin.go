// Package typescript implements a minimal secondary language plugin
// (spec C5, SPEC_FULL.md §A.2): Matcher + Parser + NamingConvention +
// NodePresenter only, for symbol discovery (ls/find/cat) without full
// semantic resolution.
package typescript

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

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

// Plugin implements langplugin.Plugin for TypeScript, picking between
// the typescript and tsx grammar variants by extension.
type Plugin struct {
	tsLanguage  *sitter.Language
	tsxLanguage *sitter.Language
}

// New builds a TypeScript plugin, loading both tree-sitter-typescript
// grammar variants once.
func New() *Plugin {
	return &Plugin{
		tsLanguage:  sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		tsxLanguage: sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
	}
}

func (p *Plugin) Name() string { return "typescript" }

func (p *Plugin) Supports(path string) bool {
	return hasSuffix(path, ".ts") || hasSuffix(path, ".tsx") || hasSuffix(path, ".mts") || hasSuffix(path, ".cts")
}

func hasSuffix(path, suffix string) bool {
	if len(path) < len(suffix) {
		return false
	}
	return path[len(path)-len(suffix):] == suffix
}

func (p *Plugin) Parse(path string, content []byte) (langplugin.ParseTree, error) {
	lang := p.tsLanguage
	if hasSuffix(path, ".tsx") {
		lang = p.tsxLanguage
	}
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("typescript: set language: %w", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("typescript: parse %s: tree-sitter returned no tree", path)
	}
	return &Tree{tree: tree, Source: content}, nil
}

func (p *Plugin) NamingConvention() fqn.NamingConvention {
	return fqn.StandardNamingConvention{}
}

// Presenter renders a node's display name, resolving computed class-
// member keys written as template literals down to their static text
// via go-fast -- see naming.go. A template that go-fast does not fold
// to a string literal (e.g. "`get${Suffix}`") is shown as written.
// go-fast parses the JS-syntax subset a
// computed key's raw text uses regardless of the surrounding file being
// TypeScript, the same scope the teacher's analyzer operates in.
type Presenter struct{}

func (Presenter) Present(node *types.GraphNode, atoms *fqn.Interner) langplugin.Presentation {
	name := atoms.MustResolve(node.Name)
	name = displayName(name)
	return langplugin.Presentation{Summary: name, SymbolKind: node.Kind.String()}
}

func (p *Plugin) NodePresenter() langplugin.NodePresenter { return Presenter{} }

var _ langplugin.Plugin = (*Plugin)(nil)
