package assets

import (
	"strings"
	"sync"

	"github.com/naviscope/naviscope/internal/ingest"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/types"
)

// routeEntry is one discovered archive, tagged with the plugin that can
// index and stub-generate against it.
type routeEntry struct {
	ref    langplugin.AssetRef
	plugin langplugin.AssetAwarePlugin
}

// Service is the asset-route table plus lazy stub generation (spec
// §4.8): it discovers external archives via every registered
// AssetAwarePlugin, indexes their package surface into a
// `fqnPrefix -> candidate archives` table, and generates+caches
// individual stub nodes on demand. It implements internal/ingest's
// StubPlanner and StubExecutor, so internal/ingest.Executor can be built
// without depending on this package directly -- wired in by
// internal/engine (C11) at startup.
//
// There is no original_source file for this route-table/fallback logic
// (stub_cache.rs only covers the on-disk cache); the enclosing-class
// fallback walk and route table shape are built directly from spec
// §4.8's prose.
type Service struct {
	cache *Cache

	mu     sync.RWMutex
	route  map[string][]routeEntry // fqn prefix -> candidate archives, longest-prefix-first within a plugin's own ordering
	byPath map[string]routeEntry   // archive path -> the entry discovered for it, for explicit CandidatePaths lookups
}

// NewService builds a Service backed by cache, with an empty route table.
func NewService(cache *Cache) *Service {
	return &Service{cache: cache, route: make(map[string][]routeEntry), byPath: make(map[string]routeEntry)}
}

// Discover runs every registered AssetAwarePlugin's DiscoverAssets
// against projectRoot and indexes each returned archive's package
// surface into the route table (spec §4.8 "Asset discovery" +
// "Asset indexing").
func (s *Service) Discover(registry *langplugin.Registry, projectRoot string) error {
	for _, p := range registry.All() {
		aware, ok := p.(langplugin.AssetAwarePlugin)
		if !ok {
			continue
		}
		refs, err := aware.DiscoverAssets(projectRoot)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			nodes, err := aware.IndexAsset(ref)
			if err != nil {
				return err
			}
			s.addRoutes(ref, aware, nodes)
		}
	}
	return nil
}

func (s *Service) addRoutes(ref langplugin.AssetRef, plugin langplugin.AssetAwarePlugin, nodes []types.IndexNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := routeEntry{ref: ref, plugin: plugin}
	s.byPath[ref.Path] = entry
	seen := make(map[string]bool)
	for _, n := range nodes {
		prefix := n.ID.String()
		if seen[prefix] {
			continue
		}
		seen[prefix] = true
		s.route[prefix] = append(s.route[prefix], entry)
	}
}

// candidates returns the route entries registered for fqn, trying
// progressively shorter dotted prefixes (package-level seeding) after an
// exact match fails.
func (s *Service) candidates(fqn string) []routeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entries, ok := s.route[fqn]; ok {
		return entries
	}
	rest := fqn
	for {
		idx := strings.LastIndexByte(rest, '.')
		if idx < 0 {
			return nil
		}
		rest = rest[:idx]
		if entries, ok := s.route[rest]; ok {
			return entries
		}
	}
}

// GenerateStub looks up fqn in the in-memory stub cache first (keyed by
// each candidate archive's current AssetKey); on a miss it walks the
// enclosing-class fallback family (spec §4.8: `a.B.C` -> `a/B/C`, then
// `a/B$C`, narrowing one segment at a time) against each candidate
// archive's StubGenerator, caching and returning the first hit.
func (s *Service) GenerateStub(fqn string, candidatePaths []string) (*types.IndexNode, error) {
	tried := make(map[string]bool)
	for _, entry := range s.candidates(fqn) {
		tried[entry.ref.Path] = true
		node, err := s.tryEntry(entry, fqn)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}

	// explicit candidate paths (re-requested after a cache miss at query
	// time, spec C8's async StubRequest path) bypass the route table and
	// are tried directly against whichever plugin discovered each archive.
	for _, path := range candidatePaths {
		if tried[path] {
			continue
		}
		entry, ok := s.entryForPath(path)
		if !ok {
			continue
		}
		node, err := s.tryEntry(entry, fqn)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}
	return nil, nil
}

func (s *Service) entryForPath(path string) (routeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.byPath[path]
	return entry, ok
}

func (s *Service) tryEntry(entry routeEntry, fqn string) (*types.IndexNode, error) {
	key, err := AssetKeyFromPath(entry.ref.Path)
	if err != nil {
		return nil, nil // archive vanished since discovery; treat as a miss
	}

	for _, candidate := range enclosingClassFallback(fqn) {
		if stub, ok := s.cache.Lookup(key, candidate); ok {
			node := stub.IndexNode(types.EmptyMetadata{LangName: stub.Lang})
			return &node, nil
		}

		node, err := entry.plugin.GenerateStub(entry.ref, candidate)
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}

		stub := NewCachedStub(candidate, node, CachedMetadata{TypeTag: node.Kind.String()})
		if err := s.cache.Store(key, candidate, stub); err != nil {
			return nil, err
		}
		return node, nil
	}
	return nil, nil
}

// enclosingClassFallback builds the narrowing candidate family for a
// dotted FQN: the FQN itself, then each enclosing-class narrowing with a
// "$"-joined nested-class suffix, outermost class first (spec §4.8:
// `a.B.C` -> try `a.B.C`, then `a.B$C`).
func enclosingClassFallback(fqn string) []string {
	segments := strings.Split(fqn, ".")
	if len(segments) <= 1 {
		return []string{fqn}
	}

	candidates := []string{fqn}
	base := strings.Join(segments[:len(segments)-1], ".")
	nested := segments[len(segments)-1]
	for i := len(segments) - 2; i >= 0; i-- {
		candidates = append(candidates, base+"$"+nested)
		nested = segments[i] + "$" + nested
		base = strings.Join(segments[:i], ".")
		if i == 0 {
			break
		}
	}
	return candidates
}

var _ ingest.StubPlanner = (*Service)(nil)
var _ ingest.StubExecutor = (*Service)(nil)

// PlanStubRequests implements ingest.StubPlanner and always returns no
// requests: it does not scan ops. Since the core graph ops carry NodeId
// targets rather than free-standing "unbound FQN" markers, a lower stage
// signals an unbound reference by requesting it through DeferredSymbols
// instead (see PlanDeferredStubRequests).
func (s *Service) PlanStubRequests(ops []types.GraphOp) []ingest.StubRequest {
	return nil
}

// PlanDeferredStubRequests implements ingest.StubPlanner: every deferred
// target the lower stage couldn't bind becomes one StubRequest, carrying
// whatever candidate archive paths the route table already knows for it.
func (s *Service) PlanDeferredStubRequests(deferredTargets []string) []ingest.StubRequest {
	if len(deferredTargets) == 0 {
		return nil
	}
	requests := make([]ingest.StubRequest, 0, len(deferredTargets))
	for _, fqn := range deferredTargets {
		paths := make([]string, 0)
		for _, entry := range s.candidates(fqn) {
			paths = append(paths, entry.ref.Path)
		}
		requests = append(requests, ingest.StubRequest{FQN: fqn, CandidatePaths: paths})
	}
	return requests
}

// ExecuteStub implements ingest.StubExecutor: runs GenerateStub and
// wraps a hit as a single AddNode op (or no ops on a miss -- the FQN
// stays unresolved for this run, retried on the next query-time
// hydration attempt per spec §4.8's lazy-stub contract).
func (s *Service) ExecuteStub(req ingest.StubRequest) []types.GraphOp {
	node, err := s.GenerateStub(req.FQN, req.CandidatePaths)
	if err != nil || node == nil {
		return nil
	}
	return []types.GraphOp{types.AddNodeOp(node)}
}
