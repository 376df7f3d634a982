package java

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/graph"
	"github.com/naviscope/naviscope/internal/types"
)

// findOccurrence returns the (line, column) of the nth (0-indexed)
// whole-word occurrence of name in src, tree-sitter's 0-indexed line/col
// convention.
func findOccurrence(t *testing.T, src, name string, n int) (int, int) {
	t.Helper()
	lines := strings.Split(src, "\n")
	count := 0
	for lineNo, line := range lines {
		col := 0
		for {
			idx := strings.Index(line[col:], name)
			if idx < 0 {
				break
			}
			at := col + idx
			before := at == 0 || !isIdentChar(line[at-1])
			after := at+len(name) >= len(line) || !isIdentChar(line[at+len(name)])
			if before && after {
				if count == n {
					return lineNo, at
				}
				count++
			}
			col = at + len(name)
		}
	}
	t.Fatalf("occurrence %d of %q not found in source", n, name)
	return 0, 0
}

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

const widgetSource = `
package com.example;

public class Widget {
    private int count;

    public int getCount() {
        return count;
    }
}
`

func buildWidgetSnapshot(t *testing.T) (*Tree, *graph.CodeGraph) {
	t.Helper()
	ctx := newTestProjectContext()
	s := SourceIndexer{Plugin: New()}

	collected, err := s.CollectSource("Widget.java", []byte(widgetSource), ctx)
	require.NoError(t, err)
	analyzed, err := s.AnalyzeSource(collected, ctx)
	require.NoError(t, err)
	unit, err := s.LowerSource(analyzed, ctx)
	require.NoError(t, err)

	b := graph.NewBuilder(fqn.NewManager())
	b.ApplyOps(unit.Ops)
	g := b.Build()

	tree, ok := collected.Tree.(*Tree)
	require.True(t, ok)
	return tree, g
}

func TestResolveAtFieldReadInsideMethodBody(t *testing.T) {
	tree, g := buildWidgetSnapshot(t)
	source := []byte(widgetSource)

	line, col := findOccurrence(t, widgetSource, "count", 1) // 0: field decl, 1: return count
	sem := Semantic{}

	res, err := sem.ResolveAt(tree, source, line, col, g)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, types.ResolutionPrecise, res.Kind)
	assert.Contains(t, res.FQN, "count")

	matches, err := sem.FindMatches(*res, g)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	fieldIDs := g.FQNs().ResolveFQNString(res.FQN)
	require.NotEmpty(t, fieldIDs)
	assert.Contains(t, matches, fieldIDs[0])
}

func TestFindOccurrencesLocatesFieldReadButNotUnrelatedIdentifiers(t *testing.T) {
	tree, g := buildWidgetSnapshot(t)
	source := []byte(widgetSource)

	fieldIDs := g.FQNs().ResolveFQNString("com.example.Widget#count")
	require.NotEmpty(t, fieldIDs)

	sem := Semantic{}
	occurrences, err := sem.FindOccurrences(tree, source, fieldIDs[0], g)
	require.NoError(t, err)
	require.NotEmpty(t, occurrences)

	line, col := findOccurrence(t, widgetSource, "count", 1)
	var found bool
	for _, r := range occurrences {
		if r.StartLine == line && r.StartCol == col {
			found = true
		}
	}
	assert.True(t, found, "expected the return-statement read of count among occurrences")
}

func TestExtractSymbolsListsClassAndMembers(t *testing.T) {
	tree := parseJava(t, widgetSource)
	sem := Semantic{}

	symbols, err := sem.ExtractSymbols(tree, []byte(widgetSource))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, s := range symbols {
		names[s.Name] = true
	}
	assert.True(t, names["Widget"])
	assert.True(t, names["count"])
	assert.True(t, names["getCount"])
}
