package typescript

import (
	"strings"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"
)

// displayName resolves a template-literal-shaped raw name to its
// best-effort static rendering. Identical approach to
// internal/lang/javascript's displayName (same grounding: the teacher's
// JavaScriptGoFastAnalyzer) -- duplicated rather than shared because
// the two plugins are independent langplugin.Plugin implementations
// with no common internal package to host it in.
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
