package java

import (
	"github.com/naviscope/naviscope/internal/langplugin"
)

// analyzePayload is analyze_source's output payload: the collected file
// plus a map from raw (as-written) type names to dotted FQN strings --
// the file's own single-type imports, and each extends/implements name
// resolved from another file's Publish in this same run or from the
// graph snapshot committed by a prior run (spec §4.6 step 2).
type analyzePayload struct {
	collectPayload
	resolved map[string]string // raw name as written -> best-known FQN
}

// AnalyzeSource copies the file's single-type imports into the resolved
// map, then resolves each extends/implements name of its declared types
// against the shared symbol table and the last committed graph.
// Field, parameter and return types are not resolved here; LowerSource
// resolves them through resolveTypeRef.
func (s SourceIndexer) AnalyzeSource(artifact langplugin.CollectArtifact, ctx langplugin.ProjectContext) (langplugin.AnalyzeArtifact, error) {
	cp, _ := artifact.Payload.(collectPayload)
	resolved := make(map[string]string)
	for simple, full := range cp.header.imports {
		resolved[simple] = full
	}

	snapshot := ctx.Snapshot()
	for _, d := range cp.types {
		for _, raw := range append(append([]string{}, d.extends...), d.implements...) {
			simple := simpleNameOf(raw)
			if _, ok := resolved[simple]; ok {
				continue
			}
			if sym, ok := ctx.Require(simple); ok {
				resolved[simple] = sym.ID.String()
				continue
			}
			if snapshot != nil {
				for _, id := range snapshot.NodesByName(simple) {
					if node, ok := snapshot.Node(id); ok {
						resolved[simple] = snapshot.FQNs().RenderFQN(node.ID)
						break
					}
				}
			}
		}
	}

	return langplugin.AnalyzeArtifact{Payload: analyzePayload{collectPayload: cp, resolved: resolved}}, nil
}

func simpleNameOf(raw string) string {
	// Strips a generic argument list and any dotted qualification,
	// e.g. "java.util.List<String>" -> "List".
	name := raw
	for i := 0; i < len(name); i++ {
		if name[i] == '<' {
			name = name[:i]
			break
		}
	}
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
