package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesNonNilRoot(t *testing.T) {
	p := New()
	pt, err := p.Parse("widget.cpp", []byte("namespace example { class Widget { int count; }; }\n"))
	require.NoError(t, err)
	tree, ok := pt.(*Tree)
	require.True(t, ok)
	assert.Equal(t, "translation_unit", tree.Root().Kind())
}

func TestSupportsCppExtensions(t *testing.T) {
	p := New()
	assert.True(t, p.Supports("widget.cpp"))
	assert.True(t, p.Supports("widget.hpp"))
	assert.True(t, p.Supports("widget.h"))
	assert.False(t, p.Supports("widget.py"))
}

func TestColonNamingConventionRewritesDoubleColonToDot(t *testing.T) {
	conv := ColonNamingConvention{}
	segs := conv.ParseFQN("example::Widget::getCount")
	require.NotEmpty(t, segs)
	var names []string
	for _, s := range segs {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"example", "Widget", "getCount"}, names)
}
