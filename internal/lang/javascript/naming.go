package javascript

import (
	"strings"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"
)

// displayName resolves a template-literal-shaped raw name (tree-sitter
// hands back the literal source text of a computed class-member key,
// backticks included, e.g. "`on${Event}Changed`") to its best-effort
// static rendering.
//
// Grounded on the teacher's JavaScriptGoFastAnalyzer
// (internal/analysis/javascript_gofast_analyzer.go): go-fast is an AST
// parser, not a regex engine, so a literal's static parts are read off
// real StringLiteral nodes rather than pattern-matched out of the
// source text. go-fast only handles ES5+ syntax the same grammar
// subset the teacher's analyzer falls back from -- when the snippet
// doesn't parse as a plain literal (it has `${...}` substitutions, or
// go-fast rejects it outright), raw is returned unchanged, same
// fallback-to-original behavior the teacher's analyzer uses when
// go-fast can't handle a file.
func displayName(raw string) string {
	if !strings.Contains(raw, "`") {
		return raw
	}
	wrapped := "var __naviscopeName = " + raw + ";"
	program, err := parser.ParseFile(wrapped)
	if err != nil {
		return raw
	}
	for _, stmt := range program.Body {
		decl, ok := stmt.Stmt.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		for _, d := range decl.List {
			if d.Initializer == nil || d.Initializer.Expr == nil {
				continue
			}
			if sl, ok := d.Initializer.Expr.(*ast.StringLiteral); ok {
				return sl.Value
			}
		}
	}
	return raw
}
