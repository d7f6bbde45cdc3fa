package generator

import (
	"fmt"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/reactivity"
	"github.com/egh-lang/egh/internal/compiler/script"
)

// genConstructor emits New(props) *Instance, the derived recompute helpers
// it calls once up front, and effect registration in the analyzer's
// topological order.
func (g *Generator) genConstructor(component *ast.ComponentAst, analysis *reactivity.Analysis) string {
	var b strings.Builder
	rewrite := rewriter(component)

	b.WriteString("// New constructs an Instance from its initial props. Bindings not present\n")
	b.WriteString("// in props fall back to their declared initializer.\n")
	b.WriteString("func New(props map[string]any) *Instance {\n")
	b.WriteString("\tc := &Instance{}\n")
	b.WriteString("\tif v, ok := props[\"__slots\"]; ok {\n")
	b.WriteString("\t\tc.slots, _ = v.(map[string][]runtime.VNode)\n")
	b.WriteString("\t}\n")
	if component.Script != nil {
		for _, binding := range component.Script.Bindings {
			field := fieldName(binding.Name)
			b.WriteString(fmt.Sprintf("\tif v, ok := props[%q]; ok {\n", binding.Name))
			b.WriteString(fmt.Sprintf("\t\tc.state.%s = v.(%s)\n", field, fieldGoType(binding.Type)))
			b.WriteString("\t} else {\n")
			b.WriteString(fmt.Sprintf("\t\tc.state.%s = %s\n", field, script.TranspileExpr(binding.Initializer, rewrite)))
			b.WriteString("\t}\n")
		}
		for _, derived := range component.Script.Deriveds {
			b.WriteString(fmt.Sprintf("\tc.recompute%s()\n", fieldName(derived.Name)))
		}
	}
	b.WriteString("\tc.effects = runtime.NewEffectRegistry([]runtime.Effect{\n")
	if component.Script != nil {
		byName := make(map[string]*ast.EffectDecl, len(component.Script.Effects))
		for _, e := range component.Script.Effects {
			byName[e.Name] = e
		}
		// analysis.TopoOrder spans every declared symbol (bindings, deriveds,
		// effects, funcs, imports) in dependency order; filtering it to
		// effects here yields effect registration ordered consistently with
		// the deriveds they read.
		for _, name := range analysis.TopoOrder {
			effect, ok := byName[name]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("\t\t{Name: %q, Deps: %s, Run: c.%s},\n", effect.Name, depsLiteral(effect.Deps), effect.Name))
		}
	}
	b.WriteString("\t})\n")
	b.WriteString("\treturn c\n")
	b.WriteString("}\n")

	if component.Script != nil {
		for _, derived := range component.Script.Deriveds {
			b.WriteString(g.genDerivedRecompute(derived, rewrite))
		}
	}

	return b.String()
}

// genRegistration emits a Register function that adds this component's
// constructor (and, if present, its scoped stylesheet) to the runtime
// registries under its own name. It is a plain exported function, not a
// top-level side effect, so a bundle that never calls it can drop the
// component entirely.
func (g *Generator) genRegistration(component *ast.ComponentAst) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("// Register makes this component available to parent templates as <%s/>.\n", component.Name))
	b.WriteString("func Register() {\n")
	b.WriteString(fmt.Sprintf("\truntime.Register(%q, func(props map[string]any) runtime.Instance { return New(props) })\n", component.Name))
	if component.Style != nil {
		b.WriteString("\tRegisterStyle()\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func depsLiteral(deps []string) string {
	if len(deps) == 0 {
		return "nil"
	}
	quoted := make([]string, len(deps))
	for i, d := range deps {
		quoted[i] = fmt.Sprintf("%q", d)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

// genLifecycle emits Mount, Destroy and Set.
func (g *Generator) genLifecycle(component *ast.ComponentAst) string {
	var b strings.Builder

	b.WriteString("func (c *Instance) Mount(host any) {\n")
	b.WriteString("\tc.effects.RunMount()\n")
	b.WriteString("}\n\n")

	b.WriteString("func (c *Instance) Destroy() {}\n\n")

	b.WriteString("// Set applies a props patch, recomputes every derived, and re-runs\n")
	b.WriteString("// every effect whose declared deps intersect the bindings that changed.\n")
	b.WriteString("func (c *Instance) Set(patch map[string]any) {\n")
	b.WriteString("\tchanged := map[string]bool{}\n")
	if component.Script != nil {
		for _, binding := range component.Script.Bindings {
			field := fieldName(binding.Name)
			b.WriteString(fmt.Sprintf("\tif v, ok := patch[%q]; ok {\n", binding.Name))
			b.WriteString(fmt.Sprintf("\t\tc.state.%s = v.(%s)\n", field, fieldGoType(binding.Type)))
			b.WriteString(fmt.Sprintf("\t\tchanged[%q] = true\n", binding.Name))
			b.WriteString("\t}\n")
		}
		for _, derived := range component.Script.Deriveds {
			b.WriteString(fmt.Sprintf("\tc.recompute%s()\n", fieldName(derived.Name)))
		}
	}
	b.WriteString("\tif err := runtime.UpdateCycle(c.effects, changed, func() map[string]bool { return nil }); err != nil {\n")
	b.WriteString("\t\tpanic(err)\n")
	b.WriteString("\t}\n")
	b.WriteString("}\n")

	return b.String()
}
