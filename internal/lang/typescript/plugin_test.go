package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesNonNilRootForTs(t *testing.T) {
	p := New()
	pt, err := p.Parse("widget.ts", []byte("class Widget {\n    getCount(): number { return this.count; }\n}\n"))
	require.NoError(t, err)
	tree, ok := pt.(*Tree)
	require.True(t, ok)
	assert.Equal(t, "program", tree.Root().Kind())
}

func TestParseProducesNonNilRootForTsx(t *testing.T) {
	p := New()
	pt, err := p.Parse("widget.tsx", []byte("const Widget = () => <div/>;\n"))
	require.NoError(t, err)
	tree, ok := pt.(*Tree)
	require.True(t, ok)
	assert.Equal(t, "program", tree.Root().Kind())
}

func TestSupportsTypeScriptExtensions(t *testing.T) {
	p := New()
	assert.True(t, p.Supports("widget.ts"))
	assert.True(t, p.Supports("widget.tsx"))
	assert.False(t, p.Supports("widget.js"))
}

func TestDisplayNamePassesThroughPlainIdentifiers(t *testing.T) {
	assert.Equal(t, "getCount", displayName("getCount"))
}

func TestDisplayNameFallsBackToRawForTemplateLiterals(t *testing.T) {
	raw := "`get${Suffix}`"
	assert.Equal(t, raw, displayName(raw))
}
