package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducesNonNilRoot(t *testing.T) {
	p := New()
	pt, err := p.Parse("Widget.php", []byte("<?php\nclass Widget {\n    private $count;\n}\n"))
	require.NoError(t, err)
	tree, ok := pt.(*Tree)
	require.True(t, ok)
	assert.Equal(t, "program", tree.Root().Kind())
}

func TestSupportsOnlyPhpFiles(t *testing.T) {
	p := New()
	assert.True(t, p.Supports("src/Widget.php"))
	assert.False(t, p.Supports("src/Widget.js"))
}

func TestCapabilitiesAreWired(t *testing.T) {
	p := New()
	assert.Equal(t, "php", p.Name())
	assert.NotNil(t, p.NamingConvention())
	assert.NotNil(t, p.NodePresenter())
}
