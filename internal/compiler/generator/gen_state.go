package generator

import (
	"fmt"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/script"
)

// genState emits the state struct (one field per binding) and the
// Instance struct wrapping it plus a cached field per derived and the
// effect registry handle.
func (g *Generator) genState(component *ast.ComponentAst) string {
	var b strings.Builder

	b.WriteString("type state struct {\n")
	if component.Script != nil {
		for _, binding := range component.Script.Bindings {
			b.WriteString(fmt.Sprintf("\t%s %s\n", fieldName(binding.Name), fieldGoType(binding.Type)))
		}
	}
	b.WriteString("}\n\n")

	b.WriteString("// Instance is the handle a component's constructor returns; it satisfies\n")
	b.WriteString("// runtime.Instance.\n")
	b.WriteString("type Instance struct {\n")
	b.WriteString("\tstate   state\n")
	if component.Script != nil {
		for _, derived := range component.Script.Deriveds {
			b.WriteString(fmt.Sprintf("\t%s %s\n", fieldName(derived.Name), "any"))
		}
	}
	b.WriteString("\teffects *runtime.EffectRegistry\n")
	b.WriteString("\tslots   map[string][]runtime.VNode\n")
	b.WriteString("}\n")

	return b.String()
}

func fieldGoType(typ string) string {
	if typ == "" {
		return "any"
	}
	return typ
}

// rewriter builds the Rewrite function passed to script.Transpile*: reactive
// bindings read through c.state.Field, deriveds read their memoized field,
// functions call through the receiver as methods, everything else (native
// import aliases, imported component bindings, local params) passes
// through unchanged.
func rewriter(component *ast.ComponentAst) func(string) string {
	bindings := make(map[string]bool)
	deriveds := make(map[string]bool)
	funcs := make(map[string]bool)
	if component.Script != nil {
		for _, b := range component.Script.Bindings {
			bindings[b.Name] = true
		}
		for _, d := range component.Script.Deriveds {
			deriveds[d.Name] = true
		}
		for _, f := range component.Script.Funcs {
			funcs[f.Name] = true
		}
	}

	return func(name string) string {
		switch {
		case bindings[name]:
			return "c.state." + fieldName(name)
		case deriveds[name]:
			return "c." + fieldName(name)
		case funcs[name]:
			return "c." + name
		default:
			return name
		}
	}
}

// genDerivedRecompute emits a recompute helper for one derived declaration.
func (g *Generator) genDerivedRecompute(derived *ast.DerivedDecl, rewrite func(string) string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("func (c *Instance) recompute%s() {\n", fieldName(derived.Name)))
	b.WriteString(fmt.Sprintf("\tc.%s = %s\n", fieldName(derived.Name), script.TranspileExpr(derived.Expr, rewrite)))
	b.WriteString("}\n")
	return b.String()
}
