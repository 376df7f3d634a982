// Package rust implements a minimal secondary language plugin (spec C5,
// SPEC_FULL.md §A.2): Matcher + Parser + NamingConvention +
// NodePresenter only, for symbol discovery (ls/find/cat) without full
// semantic resolution.
package rust

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

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

// Plugin implements langplugin.Plugin for Rust.
type Plugin struct {
	language *sitter.Language
}

// New builds a Rust plugin, loading the tree-sitter-rust grammar once.
func New() *Plugin {
	return &Plugin{language: sitter.NewLanguage(tree_sitter_rust.Language())}
}

func (p *Plugin) Name() string { return "rust" }

func (p *Plugin) Supports(path string) bool {
	return hasSuffix(path, ".rs")
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
		return nil, fmt.Errorf("rust: set language: %w", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("rust: parse %s: tree-sitter returned no tree", path)
	}
	return &Tree{tree: tree, Source: content}, nil
}

// ColonNamingConvention parses Rust's "a::b::Type::member" display
// syntax by rewriting "::" to "." and delegating to the standard
// convention, the same approach internal/lang/cpp takes for its
// identical module-path separator.
type ColonNamingConvention struct{}

func (ColonNamingConvention) Name() string { return "rust-colon" }

func (ColonNamingConvention) ParseFQN(fqnStr string) []types.FqnSegment {
	return fqn.StandardNamingConvention{}.ParseFQN(strings.ReplaceAll(fqnStr, "::", "."))
}

func (p *Plugin) NamingConvention() fqn.NamingConvention {
	return ColonNamingConvention{}
}

type Presenter struct{}

func (Presenter) Present(node *types.GraphNode, atoms *fqn.Interner) langplugin.Presentation {
	name := atoms.MustResolve(node.Name)
	return langplugin.Presentation{Summary: name, SymbolKind: node.Kind.String()}
}

func (p *Plugin) NodePresenter() langplugin.NodePresenter { return Presenter{} }

var _ langplugin.Plugin = (*Plugin)(nil)
