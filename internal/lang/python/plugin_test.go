package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesNonNilRoot(t *testing.T) {
	p := New()
	pt, err := p.Parse("widget.py", []byte("class Widget:\n    def get_count(self):\n        return self.count\n"))
	require.NoError(t, err)
	tree, ok := pt.(*Tree)
	require.True(t, ok)
	assert.Equal(t, "module", tree.Root().Kind())
}

func TestSupportsOnlyPythonFiles(t *testing.T) {
	p := New()
	assert.True(t, p.Supports("pkg/widget.py"))
	assert.True(t, p.Supports("pkg/widget.pyi"))
	assert.False(t, p.Supports("pkg/widget.rb"))
}

func TestCapabilitiesAreWired(t *testing.T) {
	p := New()
	assert.Equal(t, "python", p.Name())
	assert.NotNil(t, p.NamingConvention())
	assert.NotNil(t, p.NodePresenter())
}
