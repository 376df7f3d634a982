package java

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/naviscope/naviscope/internal/langplugin"
)

// fileHeader is one file's package declaration plus its single-type and
// wildcard import lists, used both by ResolveTypeNameToFQN (hooks.go)
// and by LowerSource to build each top-level type's container id.
type fileHeader struct {
	pkg      string
	imports  map[string]string // simple name -> FQN, single-type imports
	wildcard []string          // package prefixes from `import foo.bar.*`
}

func parseFileHeader(root *sitter.Node, source []byte) fileHeader {
	hdr := fileHeader{imports: make(map[string]string)}
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "package_declaration":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				nc := child.NamedChild(j)
				if nc != nil && (nc.Kind() == "scoped_identifier" || nc.Kind() == "identifier") {
					hdr.pkg = string(source[nc.StartByte():nc.EndByte()])
				}
			}
		case "import_declaration":
			text := string(source[child.StartByte():child.EndByte()])
			isWildcard := false
			var pathNode *sitter.Node
			for j := uint(0); j < child.NamedChildCount(); j++ {
				nc := child.NamedChild(j)
				if nc == nil {
					continue
				}
				switch nc.Kind() {
				case "scoped_identifier", "identifier":
					pathNode = nc
				case "asterisk":
					isWildcard = true
				}
			}
			_ = text
			if pathNode == nil {
				continue
			}
			full := string(source[pathNode.StartByte():pathNode.EndByte()])
			if isWildcard {
				hdr.wildcard = append(hdr.wildcard, full)
				continue
			}
			simple := full
			for i := len(full) - 1; i >= 0; i-- {
				if full[i] == '.' {
					simple = full[i+1:]
					break
				}
			}
			hdr.imports[simple] = full
		}
	}
	return hdr
}

// SourceIndexer implements langplugin.SourceIndexer, running the
// collect/analyze/lower pipeline a Java source file goes through during
// ingest (spec C7, grounded on
// original_source/crates/lang-java/src/resolver/lang.rs's compile_source,
// here split across three calls to match the core's shared-symbol-table
// staging instead of one monolithic function).
type SourceIndexer struct {
	Plugin *Plugin
}

type collectPayload struct {
	tree   *Tree
	path   string
	header fileHeader
	types  []typeDecl
}

func (s SourceIndexer) CollectSource(path string, content []byte, ctx langplugin.ProjectContext) (langplugin.CollectArtifact, error) {
	pt, err := s.Plugin.Parse(path, content)
	if err != nil {
		return langplugin.CollectArtifact{}, err
	}
	tree, _ := asTree(pt)
	hdr := parseFileHeader(tree.Root(), content)
	decls := collectTypeDecls(tree.Root(), content, hdr.pkg, containerNodeID(hdr.pkg))

	var provided []langplugin.ProvidedSymbol
	for _, d := range decls {
		sym := langplugin.ProvidedSymbol{ID: d.nodeID, Name: d.name, Kind: d.kind}
		provided = append(provided, sym)
		ctx.Publish(sym)
	}

	var required []string
	for simple := range hdr.imports {
		required = append(required, simple)
	}

	return langplugin.CollectArtifact{
		Provided: provided,
		Required: required,
		Tree:     tree,
		Payload: collectPayload{
			tree:   tree,
			path:   path,
			header: hdr,
			types:  decls,
		},
	}, nil
}
