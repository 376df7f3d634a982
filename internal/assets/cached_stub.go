package assets

import "github.com/naviscope/naviscope/internal/types"

// CachedMetadata is the language-agnostic, serializable stand-in for a
// plugin's types.Metadata value: a type tag (used by InspectAsset's
// distribution summary) plus the codec-encoded bytes. The cache itself
// never interprets Data -- only the owning language plugin's
// langplugin.MetadataCodec can decode it, which happens one layer up in
// the Service, not here.
type CachedMetadata struct {
	TypeTag string
	Data    []byte
}

// CachedStub is one on-disk cache entry: a language-agnostic,
// MessagePack-serializable projection of a types.IndexNode.
//
// Grounded on stub_cache.rs's CachedStub/from_index_node/to_index_node.
type CachedStub struct {
	FQN      string
	ID       string
	Name     string
	Kind     string // types.NodeKind.String()
	Lang     string
	Source   types.NodeSource
	Status   types.ResolutionStatus
	Metadata CachedMetadata
}

// NewCachedStub projects an IndexNode into its serializable form. fqn is
// the cache key (usually node.ID.String()).
func NewCachedStub(fqn string, node *types.IndexNode, meta CachedMetadata) CachedStub {
	return CachedStub{
		FQN:      fqn,
		ID:       node.ID.String(),
		Name:     node.Name,
		Kind:     node.Kind.String(),
		Lang:     node.Lang,
		Source:   node.Source,
		Status:   node.Status,
		Metadata: meta,
	}
}

// IndexNode reconstructs the IndexNode this entry represents. Like the
// Rust original, the id always comes back Flat: a cached stub's
// Structured shape, if it ever had one, is not worth preserving since
// the cache key (fqn string) is what every lookup actually uses.
func (c CachedStub) IndexNode(metadata types.Metadata) types.IndexNode {
	return types.IndexNode{
		ID:       types.NewFlatNodeId(c.ID),
		Name:     c.Name,
		Kind:     types.ParseNodeKind(c.Kind),
		Lang:     c.Lang,
		Source:   c.Source,
		Status:   c.Status,
		Metadata: metadata,
	}
}
