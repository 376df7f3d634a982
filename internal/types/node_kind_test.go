package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeKindStringRoundTrip(t *testing.T) {
	kinds := []NodeKind{Project, Module, Package, Class, Interface, Enum, Annotation, Method, Constructor, Field, Dependency, Task, Plugin}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			assert.True(t, k.Equal(ParseNodeKind(k.String())))
		})
	}
}

func TestNodeKindCustomRoundTrip(t *testing.T) {
	k := Custom("lambda")
	assert.Equal(t, "lambda", k.String())
	assert.True(t, k.Equal(ParseNodeKind("lambda")))
	assert.False(t, k.Equal(Custom("record-component")))
}

func TestNodeKindIsMember(t *testing.T) {
	assert.True(t, Method.IsMember())
	assert.True(t, Field.IsMember())
	assert.True(t, Constructor.IsMember())
	assert.False(t, Class.IsMember())
}

func TestNodeKindIsContainer(t *testing.T) {
	assert.True(t, Class.IsContainer())
	assert.True(t, Interface.IsContainer())
	assert.False(t, Method.IsContainer())
}

func TestEdgeTypeParseRoundTrip(t *testing.T) {
	edges := []EdgeType{Contains, InheritsFrom, Implements, TypedAs, DecoratedBy, UsesDependency}
	for _, e := range edges {
		parsed, ok := ParseEdgeType(e.String())
		assert.True(t, ok)
		assert.Equal(t, e, parsed)
	}
	_, ok := ParseEdgeType("bogus")
	assert.False(t, ok)
}

func TestRangeContains(t *testing.T) {
	r := Range{StartLine: 2, StartCol: 4, EndLine: 4, EndCol: 2}
	assert.True(t, r.Contains(3, 0))
	assert.True(t, r.Contains(2, 4))
	assert.False(t, r.Contains(2, 3))
	assert.False(t, r.Contains(4, 2))
	assert.True(t, r.Contains(4, 1))
	assert.False(t, r.Contains(1, 0))
	assert.False(t, r.Contains(5, 0))
}

func TestNodeIdString(t *testing.T) {
	flat := NewFlatNodeId("build.gradle:compileTestJava")
	assert.Equal(t, "build.gradle:compileTestJava", flat.String())
	assert.True(t, flat.IsFlat())

	structured := NewStructuredNodeId(
		FqnSegment{Kind: Package, Name: "com"},
		FqnSegment{Kind: Class, Name: "A"},
		FqnSegment{Kind: Method, Name: "hello"},
	)
	assert.Equal(t, "com.A#hello", structured.String())
	assert.False(t, structured.IsFlat())
}
