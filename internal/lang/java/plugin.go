package java

import "github.com/naviscope/naviscope/internal/langplugin"

// SourceIndexer returns the collect/analyze/lower pipeline (spec C7).
func (p *Plugin) SourceIndexer() langplugin.SourceIndexer { return SourceIndexer{Plugin: p} }

// Semantic returns the cursor/reference/hierarchy resolution capability
// (spec C9).
func (p *Plugin) Semantic() langplugin.Semantic { return Semantic{} }

// MetadataCodec returns the MessagePack (de)serializer for this
// plugin's Metadata (spec §6 storage).
func (p *Plugin) MetadataCodec() langplugin.MetadataCodec { return Codec{} }

// NodePresenter returns the cat/ls rendering capability (spec §4.3,
// §4.4).
func (p *Plugin) NodePresenter() langplugin.NodePresenter { return Presenter{} }

var _ langplugin.FullPlugin = (*Plugin)(nil)
