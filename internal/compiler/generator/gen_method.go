package generator

import (
	"fmt"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/script"
)

// genMethod lowers one script-declared fn into a method on Instance, so
// that calls to it from other funcs or effects compile as c.name(...).
func (g *Generator) genMethod(component *ast.ComponentAst, fn *ast.FuncDecl) string {
	rewrite := rewriter(component)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("func (c *Instance) %s(", fn.Name))
	for i, param := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s %s", param.Name, fieldGoType(param.Type)))
	}
	b.WriteString(")")
	if fn.ReturnType != "" {
		b.WriteString(" " + fn.ReturnType)
	}
	b.WriteString(" {\n")
	b.WriteString(script.TranspileBlock(fn.Body, rewrite, 1))
	b.WriteString("}\n")

	return b.String()
}

// genEffectMethod lowers an effect body into a zero-argument method, so it
// can be registered directly as a runtime.Effect.Run callback.
func (g *Generator) genEffectMethod(component *ast.ComponentAst, effect *ast.EffectDecl) string {
	rewrite := rewriter(component)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("func (c *Instance) %s() {\n", effect.Name))
	b.WriteString(script.TranspileBlock(effect.Body, rewrite, 1))
	b.WriteString("}\n")

	return b.String()
}
