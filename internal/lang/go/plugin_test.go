package golang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesNonNilRoot(t *testing.T) {
	p := New()
	pt, err := p.Parse("widget.go", []byte("package widget\n\nfunc GetCount() int { return 0 }\n"))
	require.NoError(t, err)
	tree, ok := pt.(*Tree)
	require.True(t, ok)
	assert.Equal(t, "source_file", tree.Root().Kind())
}

func TestSupportsOnlyGoFiles(t *testing.T) {
	p := New()
	assert.True(t, p.Supports("pkg/widget.go"))
	assert.False(t, p.Supports("pkg/widget.py"))
}

func TestCapabilitiesAreWired(t *testing.T) {
	p := New()
	assert.Equal(t, "go", p.Name())
	assert.NotNil(t, p.NamingConvention())
	assert.NotNil(t, p.NodePresenter())
}
