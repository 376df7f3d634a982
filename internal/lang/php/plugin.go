// Package php implements a minimal secondary language plugin (spec C5,
// SPEC_FULL.md §A.2): Matcher + Parser + NamingConvention +
// NodePresenter only, for symbol discovery (ls/find/cat) without full
// semantic resolution.
package php

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"

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

// Plugin implements langplugin.Plugin for PHP.
type Plugin struct {
	language *sitter.Language
}

// New builds a PHP plugin, loading the tree-sitter-php grammar (the
// PHP-in-HTML variant; embedded HTML regions parse as opaque text,
// matching the teacher's own php grammar choice where present).
func New() *Plugin {
	return &Plugin{language: sitter.NewLanguage(tree_sitter_php.LanguagePHP())}
}

func (p *Plugin) Name() string { return "php" }

func (p *Plugin) Supports(path string) bool {
	return hasSuffix(path, ".php")
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
		return nil, fmt.Errorf("php: set language: %w", err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("php: parse %s: tree-sitter returned no tree", path)
	}
	return &Tree{tree: tree, Source: content}, nil
}

// NamingConvention reuses the standard "." container / "#" member
// syntax as is; PHP's Namespace\Class::member form is not rewritten to
// it anywhere.
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
