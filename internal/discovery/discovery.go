// Package discovery implements the two-tier reference finder (spec
// C10): a meso-level scout over the graph's name-token inverted index,
// narrowed by a micro-level scan that re-parses and re-resolves each
// candidate file to confirm (or reject) every occurrence the scout
// turned up. It also implements container-ownership lookup, used to
// attribute a call-site to its enclosing method/constructor.
//
// There is no single dedicated original_source file for this
// component -- the scout/scan split and find_container_node_at are
// described directly in spec §4.10; the scan tier's shape (read,
// parse, call the language plugin's occurrence finder, merge and
// dedupe) follows the teacher's internal/search package's
// collect-then-merge style for multi-file result aggregation.
package discovery

import (
	"os"
	"sort"

	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/types"
)

// SymbolLocation is one confirmed occurrence of a target symbol (spec
// §4.10 "Scan"): a precise range within a file.
type SymbolLocation struct {
	Path  string
	Range types.Range
}

// Finder runs the scout/scan reference search against a registry of
// language plugins and a graph snapshot.
type Finder struct {
	registry *langplugin.Registry
}

// NewFinder builds a Finder over registry.
func NewFinder(registry *langplugin.Registry) *Finder {
	return &Finder{registry: registry}
}

// Scout returns the candidate file list for a set of target nodes
// (spec §4.10 "Scout"): each target's simple-name atom is looked up in
// the graph's reference index, and every file referencing any target's
// name is a candidate. Results are deduplicated but not yet confirmed
// -- that's Scan's job.
func (f *Finder) Scout(snapshot *graph.CodeGraph, targets []types.FqnId) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range targets {
		node, ok := snapshot.Node(id)
		if !ok {
			continue
		}
		name, ok := snapshot.FQNs().Atoms().Resolve(node.Name)
		if !ok {
			continue
		}
		for _, path := range snapshot.FilesReferencing(name) {
			if seen[path] {
				continue
			}
			seen[path] = true
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// Scan re-parses each candidate file and asks its language plugin to
// confirm which occurrences actually denote target (spec §4.10
// "Scan"): the scout's name-index match is necessary but not
// sufficient (two unrelated symbols can share a simple name), so every
// candidate is re-resolved against snapshot before being reported.
// Results are merged across files, sorted by (path, line, col), and
// deduplicated.
func (f *Finder) Scan(snapshot *graph.CodeGraph, candidates []string, target types.FqnId) ([]SymbolLocation, error) {
	var all []SymbolLocation
	for _, path := range candidates {
		locs, err := f.scanFile(snapshot, path, target)
		if err != nil {
			return nil, err
		}
		all = append(all, locs...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Path != all[j].Path {
			return all[i].Path < all[j].Path
		}
		if all[i].Range.StartLine != all[j].Range.StartLine {
			return all[i].Range.StartLine < all[j].Range.StartLine
		}
		return all[i].Range.StartCol < all[j].Range.StartCol
	})
	return dedupe(all), nil
}

func (f *Finder) scanFile(snapshot *graph.CodeGraph, path string, target types.FqnId) ([]SymbolLocation, error) {
	plugin, ok := f.registry.ForPath(path)
	if !ok {
		return nil, nil
	}
	semantic, ok := plugin.(langplugin.Semantic)
	if !ok {
		return nil, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := plugin.Parse(path, source)
	if err != nil {
		return nil, err
	}

	ranges, err := semantic.FindOccurrences(tree, source, target, snapshot)
	if err != nil {
		return nil, err
	}

	out := make([]SymbolLocation, len(ranges))
	for i, rg := range ranges {
		out[i] = SymbolLocation{Path: path, Range: rg}
	}
	return out, nil
}

func dedupe(locs []SymbolLocation) []SymbolLocation {
	if len(locs) < 2 {
		return locs
	}
	out := locs[:1]
	for _, l := range locs[1:] {
		prev := out[len(out)-1]
		if l.Path == prev.Path && l.Range == prev.Range {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FindContainerNodeAt returns the smallest graph node in path whose
// location range encloses (line, col) -- used to attribute a call-site
// to its enclosing method/constructor during incoming-call assembly
// (spec §4.10 "find_container_node_at").
func FindContainerNodeAt(snapshot *graph.CodeGraph, path string, line, col int) (types.FqnId, bool) {
	var best types.FqnId
	var bestSpan = -1
	found := false

	for _, id := range snapshot.NodesInFile(path) {
		node, ok := snapshot.Node(id)
		if !ok || node.Location == nil {
			continue
		}
		rg := node.Location.Range
		if !rg.Contains(line, col) {
			continue
		}
		span := rangeSpan(rg)
		if !found || span < bestSpan {
			best = id
			bestSpan = span
			found = true
		}
	}
	return best, found
}

// rangeSpan is a coarse size measure for comparing ranges that enclose
// the same point: line-count first, tie-broken by column width on a
// single-line range. Good enough to prefer a method body over its
// enclosing class without needing exact byte offsets.
func rangeSpan(r types.Range) int {
	lines := r.EndLine - r.StartLine
	if lines > 0 {
		return lines * 1_000_000
	}
	return r.EndCol - r.StartCol
}
