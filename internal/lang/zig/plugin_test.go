package zig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesNonNilRoot(t *testing.T) {
	p := New()
	pt, err := p.Parse("widget.zig", []byte("const Widget = struct {\n    count: i32,\n};\n"))
	require.NoError(t, err)
	tree, ok := pt.(*Tree)
	require.True(t, ok)
	assert.NotEmpty(t, tree.Root().Kind())
}

func TestSupportsOnlyZigFiles(t *testing.T) {
	p := New()
	assert.True(t, p.Supports("src/widget.zig"))
	assert.False(t, p.Supports("src/widget.rs"))
}

func TestCapabilitiesAreWired(t *testing.T) {
	p := New()
	assert.Equal(t, "zig", p.Name())
	assert.NotNil(t, p.NamingConvention())
	assert.NotNil(t, p.NodePresenter())
}
