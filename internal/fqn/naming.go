package fqn

import (
	"strings"

	"github.com/naviscope/naviscope/internal/types"
)

// NamingConvention parses a dotted/hashed display string into a path of
// (kind, name) segments. Each language plugin may register its own
// convention (spec C1, C5); the manager tries every registered
// convention and unions the results (SPEC_FULL.md §A.3).
type NamingConvention interface {
	Name() string
	ParseFQN(fqn string) []types.FqnSegment
}

// StandardNamingConvention implements the default "a.b.C#member" syntax:
// "." separates containers, "#" introduces a strict member segment.
// It never commits to a final NodeKind for a segment -- only to whether
// the segment is a strict member (Method/Field/Constructor, probed by
// the manager) or an ambiguous container-or-declaration (probed via
// types.AmbiguousKindProbeOrder).
type StandardNamingConvention struct{}

func (StandardNamingConvention) Name() string { return "standard" }

func (StandardNamingConvention) ParseFQN(fqnStr string) []types.FqnSegment {
	containerPart, memberPart, hasMember := strings.Cut(fqnStr, "#")

	var segs []types.FqnSegment
	for _, name := range strings.Split(containerPart, ".") {
		if name == "" {
			continue
		}
		// Kind here is a probe marker, not a claim about the final
		// stored kind: Class is the first candidate the ambiguous
		// probe tries, and ResolveFQNString only checks IsMember().
		segs = append(segs, types.FqnSegment{Kind: types.Class, Name: name})
	}

	if hasMember {
		for _, name := range strings.Split(memberPart, ".") {
			if name == "" {
				continue
			}
			segs = append(segs, types.FqnSegment{Kind: types.Method, Name: name})
		}
	}

	if len(segs) == 0 {
		return nil
	}
	return segs
}
