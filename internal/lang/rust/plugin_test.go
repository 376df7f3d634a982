package rust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesNonNilRoot(t *testing.T) {
	p := New()
	pt, err := p.Parse("widget.rs", []byte("mod example {\n    struct Widget { count: i32 }\n}\n"))
	require.NoError(t, err)
	tree, ok := pt.(*Tree)
	require.True(t, ok)
	assert.Equal(t, "source_file", tree.Root().Kind())
}

func TestSupportsOnlyRustFiles(t *testing.T) {
	p := New()
	assert.True(t, p.Supports("src/widget.rs"))
	assert.False(t, p.Supports("src/widget.go"))
}

func TestColonNamingConventionRewritesDoubleColonToDot(t *testing.T) {
	conv := ColonNamingConvention{}
	segs := conv.ParseFQN("example::Widget::get_count")
	require.NotEmpty(t, segs)
	var names []string
	for _, s := range segs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"example", "Widget", "get_count"}, names)
}
