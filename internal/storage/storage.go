// Package storage implements the engine façade's Store (spec §6's
// on-disk index file): the committed graph is serialized to a single
// MessagePack file on Save and replayed through a fresh graph.Builder on
// Load, so a process restart resumes from its last snapshot instead of
// re-ingesting the whole project tree.
//
// Grounded on internal/assets.Cache's persistence shape (one
// msgpack.Marshal/Unmarshal pair, plain os.WriteFile, a defensive
// fall-back to "absent" on any decode error) and on
// internal/idcodec's compact base-63 ids, used here to keep the
// on-disk node/edge references short rather than raw decimal FqnIds.
package storage

import (
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/idcodec"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/types"
)

// Store persists a graph.CodeGraph to a single file, implementing the
// engine façade's Store interface.
type Store struct {
	path     string
	registry *langplugin.Registry
}

// New creates a Store that reads/writes path, decoding per-node
// Metadata through registry's language plugins. registry may be nil --
// every node then round-trips with EmptyMetadata only.
func New(path string, registry *langplugin.Registry) *Store {
	return &Store{path: path, registry: registry}
}

// wireSegment is one (kind, name) step of a node's structured FQN path,
// the same shape types.FqnSegment carries but with Kind rendered to its
// string form (types.ParseNodeKind round-trips it back) so the on-disk
// format doesn't depend on NodeKind's internal tag numbering.
type wireSegment struct {
	Kind string
	Name string
}

type wireRange = types.Range

type wireLocation struct {
	Path           string
	Range          wireRange
	SelectionRange *types.Range
}

// wireNode is one graph node's on-disk form. Segments lets Load rebuild
// the node's NodeId.Structured path by replaying it through a fresh
// fqn.Manager, which re-derives the same FqnId the original graph
// assigned (spec C1's interning idempotence) -- so id references among
// wireEdge entries stay internally consistent without needing FqnId
// itself to survive the round trip.
type wireNode struct {
	ID           string // idcodec-encoded FqnId, for diagnostics only
	Segments     []wireSegment
	Name         string
	Kind         string
	Lang         string
	Source       uint8
	Status       uint8
	Location     *wireLocation
	MetadataData []byte // nil when the node carries no codec-backed Metadata
}

// wireEdge references its endpoints by index into wireGraph.Nodes rather
// than by FqnId, since node replay order (not the id value) is what
// Load can reconstruct deterministically.
type wireEdge struct {
	From     int
	To       int
	EdgeType uint8
	Range    *types.Range
}

type wireGraph struct {
	Nodes []wireNode
	Edges []wireEdge
}

// Save serializes g to Store's file, overwriting any previous contents.
func (s *Store) Save(g *graph.CodeGraph) error {
	ids := g.AllNodeIDs()
	index := make(map[types.FqnId]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	mgr := g.FQNs()
	atoms := mgr.Atoms()

	nodes := make([]wireNode, len(ids))
	for i, id := range ids {
		node, ok := g.Node(id)
		if !ok {
			continue
		}
		lang := atoms.MustResolve(node.Lang)
		wn := wireNode{
			ID:       idcodec.EncodeFqnId(id),
			Segments: nodeSegments(mgr, id),
			Name:     atoms.MustResolve(node.Name),
			Kind:     node.Kind.String(),
			Lang:     lang,
			Source:   uint8(node.Source),
			Status:   uint8(node.Status),
		}
		if node.Location != nil {
			wn.Location = &wireLocation{
				Path:           atoms.MustResolve(node.Location.Path),
				Range:          node.Location.Range,
				SelectionRange: node.Location.SelectionRange,
			}
		}
		if codec := s.codecFor(lang); codec != nil && node.Metadata != nil {
			if _, empty := node.Metadata.(types.EmptyMetadata); !empty {
				if data, err := codec.Encode(node.Metadata); err == nil {
					wn.MetadataData = data
				}
			}
		}
		nodes[i] = wn
	}

	var edges []wireEdge
	for _, from := range ids {
		for _, e := range g.Edges(from) {
			edges = append(edges, wireEdge{
				From:     index[from],
				To:       index[e.To],
				EdgeType: uint8(e.EdgeType),
				Range:    e.Range,
			})
		}
	}

	data, err := msgpack.Marshal(&wireGraph{Nodes: nodes, Edges: edges})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Load reads and replays Store's file. A missing file or any decode
// failure is treated as "no prior index", matching
// internal/assets.Cache.loadFromDisk's fall-back-to-fresh behavior --
// the engine façade simply rebuilds from scratch in that case.
func (s *Store) Load() (*graph.CodeGraph, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, nil
	}

	var wg wireGraph
	if err := msgpack.Unmarshal(data, &wg); err != nil {
		return nil, false, nil
	}

	mgr := fqn.NewManager()
	b := graph.NewBuilder(mgr)

	newIDs := make([]types.FqnId, len(wg.Nodes))
	for i, wn := range wg.Nodes {
		if len(wn.Segments) == 0 {
			continue
		}
		segs := make([]types.FqnSegment, len(wn.Segments))
		for j, seg := range wn.Segments {
			segs[j] = types.FqnSegment{Kind: types.ParseNodeKind(seg.Kind), Name: seg.Name}
		}

		var loc *types.Location
		if wn.Location != nil {
			loc = &types.Location{
				Path:           mgr.Atoms().Intern(wn.Location.Path),
				Range:          wn.Location.Range,
				SelectionRange: wn.Location.SelectionRange,
			}
		}

		metadata := s.decodeMetadata(wn.Lang, wn.MetadataData)

		newIDs[i] = b.AddNode(&types.IndexNode{
			ID:       types.NewStructuredNodeId(segs...),
			Name:     wn.Name,
			Kind:     types.ParseNodeKind(wn.Kind),
			Lang:     wn.Lang,
			Source:   types.NodeSource(wn.Source),
			Status:   types.ResolutionStatus(wn.Status),
			Location: loc,
			Metadata: metadata,
		})
	}

	for _, we := range wg.Edges {
		if we.From < 0 || we.From >= len(newIDs) || we.To < 0 || we.To >= len(newIDs) {
			continue
		}
		b.AddEdge(newIDs[we.From], newIDs[we.To], types.GraphEdge{
			EdgeType: types.EdgeType(we.EdgeType),
			Range:    we.Range,
		})
	}

	return b.Build(), true, nil
}

// nodeSegments walks id's parent chain via Manager.GetNode -- the same
// technique Manager.RenderFQN uses -- rebuilding the full (kind, name)
// path from root to id, outermost-first.
func nodeSegments(mgr *fqn.Manager, id types.FqnId) []wireSegment {
	var kinds []types.NodeKind
	var names []string

	cur := id
	for cur != types.NoFqnId {
		parent, name, kind, ok := mgr.GetNode(cur)
		if !ok {
			break
		}
		kinds = append(kinds, kind)
		names = append(names, mgr.Atoms().MustResolve(name))
		cur = parent
	}

	segs := make([]wireSegment, len(kinds))
	for i := range kinds {
		j := len(kinds) - 1 - i
		segs[i] = wireSegment{Kind: kinds[j].String(), Name: names[j]}
	}
	return segs
}

func (s *Store) codecFor(lang string) langplugin.MetadataCodec {
	if s.registry == nil {
		return nil
	}
	p, ok := s.registry.Get(lang)
	if !ok {
		return nil
	}
	fp, ok := p.(langplugin.FullPlugin)
	if !ok {
		return nil
	}
	return fp.MetadataCodec()
}

func (s *Store) decodeMetadata(lang string, data []byte) types.Metadata {
	if data != nil {
		if codec := s.codecFor(lang); codec != nil {
			if m, err := codec.Decode(data); err == nil {
				return m
			}
		}
	}
	return types.EmptyMetadata{LangName: lang}
}
