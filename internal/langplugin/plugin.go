// Package langplugin defines the capability contract every language
// adapter implements (spec C5): a closed bundle of small interfaces --
// Matcher, Parser, SourceIndexer, Semantic, Presentation, MetadataCodec,
// and the optional asset capabilities -- that the ingest executor (C7),
// resolver (C9), discovery engine (C10), and query engine (C4) consume
// without knowing which language they're talking to.
//
// Grounded on the teacher's internal/interfaces package: small,
// single-purpose interfaces consumed by name (FileProvider,
// SymbolProvider, ReferenceProvider) rather than one God interface, and
// on internal/analysis's LanguageAnalyzer contract for the
// extract/analyze split.
package langplugin

import (
	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/types"
)

// ParseTree is a language-specific parsed-source handle (a tree-sitter
// tree, for the languages that use one). The core never inspects it
// directly -- only the plugin that produced it does, in Semantic and
// SourceIndexer calls that receive it back.
type ParseTree any

// Matcher decides whether a plugin handles a given file path.
type Matcher interface {
	// Supports reports whether this plugin can parse the file at path
	// (typically an extension check, e.g. ".java").
	Supports(path string) bool
}

// Parser turns file content into a ParseTree.
type Parser interface {
	Parse(path string, content []byte) (ParseTree, error)
}

// ProvidedSymbol is one symbol a file's collect_source step publishes
// into the shared symbol table (spec §4.4): a type, method, or package
// declaration other files' analyze steps may depend on.
type ProvidedSymbol struct {
	ID   types.NodeId
	Name string
	Kind types.NodeKind
}

// CollectArtifact is collect_source's output: the symbols this file
// provides, plus the names of symbols it requires from elsewhere
// (spec §4.4, §4.6 step 1's `required_resources`).
type CollectArtifact struct {
	Provided []ProvidedSymbol
	Required []string
	Tree     ParseTree
	// Payload carries whatever language-specific intermediate state
	// analyze_source needs (e.g. a partially-built AST index); opaque
	// to the core.
	Payload any
}

// AnalyzeArtifact is analyze_source's output: the result of resolving
// CollectArtifact against the now-visible project context. Opaque to
// the core -- only this plugin's LowerSource reads it.
type AnalyzeArtifact struct {
	Payload any
}

// ResolvedUnit is lower_source's output (spec §4.4): the GraphOps to
// commit, plus any symbols that couldn't be bound yet (spec §4.6 step 3,
// §8 "Deferred symbols" -- these feed the executor's stub-hydration
// path, spec C8).
type ResolvedUnit struct {
	Ops             []types.GraphOp
	DeferredSymbols []string
}

// ProjectContext is the shared symbol table a collect/analyze/lower call
// reads and publishes into, scoped to one ingest run (spec §4.6's
// "shared symbol table" populated by collect before any analyze runs).
type ProjectContext interface {
	// Publish makes a provided symbol visible to other files' Require
	// calls in this same ingest run.
	Publish(sym ProvidedSymbol)
	// Require looks up a previously published symbol by name, reporting
	// whether the shared table has seen it yet.
	Require(name string) (ProvidedSymbol, bool)
	// Snapshot is the last committed graph version, for analyze/lower
	// steps that need to resolve against already-committed state (not
	// just this run's in-flight publishes).
	Snapshot() *graph.CodeGraph
}

// SourceIndexer is the staged collect → analyze → lower pipeline a
// language plugin implements (spec C5, C7).
type SourceIndexer interface {
	CollectSource(path string, content []byte, ctx ProjectContext) (CollectArtifact, error)
	AnalyzeSource(artifact CollectArtifact, ctx ProjectContext) (AnalyzeArtifact, error)
	LowerSource(artifact AnalyzeArtifact, ctx ProjectContext) (ResolvedUnit, error)
}

// ExtractedSymbol is one symbol found by ExtractSymbols (document/
// workspace symbol listing, spec §4.3), with enough shape to render
// without another resolver round trip.
type ExtractedSymbol struct {
	Name  string
	Kind  types.NodeKind
	Range types.Range
}

// Semantic is the in-file analysis capability the resolver (C9) and
// discovery engine (C10) call against an already-parsed tree and a
// graph snapshot (spec §4.4, §4.9, §4.10).
type Semantic interface {
	// ResolveAt maps a cursor position to a SymbolResolution, or nil if
	// nothing resolves there (spec §4.9).
	ResolveAt(tree ParseTree, source []byte, line, byteCol int, snapshot *graph.CodeGraph) (*types.SymbolResolution, error)

	// FindMatches turns a SymbolResolution into the concrete graph nodes
	// it denotes (spec §4.9's "goto-definition" terminus).
	FindMatches(res types.SymbolResolution, snapshot *graph.CodeGraph) ([]types.FqnId, error)

	// ResolveTypeOf returns the declared/inferred type node for a
	// resolution, if one exists (spec §4.9 "type-of").
	ResolveTypeOf(res types.SymbolResolution, snapshot *graph.CodeGraph) (types.FqnId, bool)

	// FindImplementations returns the nodes that implement/override the
	// given node (spec §4.9 "implementations").
	FindImplementations(id types.FqnId, snapshot *graph.CodeGraph) ([]types.FqnId, error)

	// FindOccurrences re-resolves every candidate position in tree and
	// returns the precise ranges that denote target -- the discovery
	// engine's scan tier (spec §4.10).
	FindOccurrences(tree ParseTree, source []byte, target types.FqnId, snapshot *graph.CodeGraph) ([]types.Range, error)

	// ExtractSymbols lists every symbol declared in tree (spec §4.3
	// document-symbols).
	ExtractSymbols(tree ParseTree, source []byte) ([]ExtractedSymbol, error)
}

// Presentation is how a node renders for shell/LSP output (spec §4.3,
// §4.4): the core assembles display structures, but never formats a
// signature or decides what a kind string looks like -- that's
// language-specific.
type Presentation struct {
	Summary    string
	Signature  string
	Modifiers  []string
	SymbolKind string
}

// NodePresenter renders a node's language-specific detail view.
type NodePresenter interface {
	Present(node *types.GraphNode, atoms *fqn.Interner) Presentation
}

// MetadataCodec (de)serializes a plugin's Metadata implementation for
// the on-disk index (spec §6 storage). Every plugin that attaches
// non-empty Metadata to its nodes must supply one.
type MetadataCodec interface {
	Encode(m types.Metadata) ([]byte, error)
	Decode(data []byte) (types.Metadata, error)
}

// AssetRef names one external archive a plugin's asset capability can
// discover and index (spec C8): a jar, jmod, or similar.
type AssetRef struct {
	Path string
	Kind string
}

// AssetDiscoverer finds the external assets a project depends on
// (resolved jars, platform jmods, ...) without indexing their contents
// yet -- the asset-route table's population step (spec §4.8).
type AssetDiscoverer interface {
	DiscoverAssets(projectRoot string) ([]AssetRef, error)
}

// AssetIndexer produces stub nodes for an asset's public surface,
// without requiring the asset's full source (spec C8 "lazy hydration").
type AssetIndexer interface {
	IndexAsset(ref AssetRef) ([]types.IndexNode, error)
}

// Plugin is the full capability bundle the registry resolves by
// language name. Matcher, Parser, Presentation (NamingConvention +
// NodePresenter) are mandatory; SourceIndexer/Semantic/MetadataCodec are
// mandatory for languages with full resolution (Java); the asset
// capabilities are optional and probed via the As* accessors.
type Plugin interface {
	// Name is the language identifier used in Config.Languages.Enabled
	// and GraphNode.Lang (e.g. "java", "gradle").
	Name() string
	Matcher
	Parser
	NamingConvention() fqn.NamingConvention
	NodePresenter() NodePresenter
}

// FullPlugin is the capability set a primary (fully-resolving) language
// plugin implements, beyond the base Plugin contract.
type FullPlugin interface {
	Plugin
	SourceIndexer() SourceIndexer
	Semantic() Semantic
	MetadataCodec() MetadataCodec
}

// StubGenerator produces a single lazily-materialized node from one
// archive, given a candidate path already narrowed by the asset route
// table (spec §4.8 "Stub generation"): open the archive, locate the
// member, decode only what was asked for, and return it with
// Source=External, Status=Stubbed. Returning (nil, nil) means the FQN
// was not found at this path -- the caller tries the next candidate.
type StubGenerator interface {
	GenerateStub(ref AssetRef, fqn string) (*types.IndexNode, error)
}

// AssetAwarePlugin is the optional capability a plugin implements when it
// can discover and stub-index external assets (spec C8). Callers type-
// assert a Plugin against this interface rather than it being part of
// the mandatory contract.
type AssetAwarePlugin interface {
	Plugin
	AssetDiscoverer
	AssetIndexer
	StubGenerator
}
