package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesNonNilRoot(t *testing.T) {
	p := New()
	pt, err := p.Parse("Widget.java", []byte(`
package com.example;

public class Widget {
    private int count;

    public int getCount() {
        return count;
    }
}
`))
	require.NoError(t, err)
	tree, ok := asTree(pt)
	require.True(t, ok)
	assert.Equal(t, "program", tree.Root().Kind())
}

func TestSupportsOnlyJavaFiles(t *testing.T) {
	p := New()
	assert.True(t, p.Supports("src/main/java/com/example/Widget.java"))
	assert.False(t, p.Supports("src/main/kotlin/Widget.kt"))
}

func TestFullPluginCapabilitiesAreWired(t *testing.T) {
	p := New()
	assert.NotNil(t, p.SourceIndexer())
	assert.NotNil(t, p.Semantic())
	assert.NotNil(t, p.MetadataCodec())
	assert.NotNil(t, p.NodePresenter())
	assert.NotNil(t, p.NamingConvention())
}
