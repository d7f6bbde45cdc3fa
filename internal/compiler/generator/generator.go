package generator

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/reactivity"
	"github.com/egh-lang/egh/internal/compiler/resolver"
)

// Generator emits one Go source file per component: a constructor, the
// mount/destroy/set lifecycle methods, a render function built from h()
// calls, effect registration in topological order, and a scoped style
// registration — no top-level side effects outside that registration.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

// Generate produces the Go module for component. analysis must already
// have been run (DerivedDecl.Deps/EffectDecl.Deps/InterpolationNode.PatchID
// populated, Diagnostics checked by the caller) — the generator itself
// does not fail on a well-formed analyzed AST. components maps an import
// name to the resolved child component, used to call the right
// constructor for each <ComponentInstance/>.
func (g *Generator) Generate(component *ast.ComponentAst, analysis *reactivity.Analysis, components map[string]*resolver.ComponentInfo) (string, error) {
	var b strings.Builder

	pkgName := packageName(component.Name)
	b.WriteString(fmt.Sprintf("package %s\n\n", pkgName))

	b.WriteString(g.genImports(component))
	b.WriteString("\n")

	if len(components) > 0 {
		b.WriteString("// imported components\n")
		for _, name := range sortedKeys(components) {
			b.WriteString(fmt.Sprintf("// %s -> %s\n", name, components[name].Path))
		}
		b.WriteString("\n")
	}

	b.WriteString(g.genState(component))
	b.WriteString("\n")

	b.WriteString(g.genConstructor(component, analysis))
	b.WriteString("\n")

	b.WriteString(g.genLifecycle(component))
	b.WriteString("\n")

	b.WriteString(g.genRender(component, components))
	b.WriteString("\n")

	b.WriteString(g.genRegistration(component))
	b.WriteString("\n")

	if component.Script != nil {
		for _, effect := range component.Script.Effects {
			b.WriteString(g.genEffectMethod(component, effect))
			b.WriteString("\n")
		}
		for _, fn := range component.Script.Funcs {
			b.WriteString(g.genMethod(component, fn))
			b.WriteString("\n")
		}
	}

	if component.Style != nil {
		b.WriteString(g.genStyle(component))
		b.WriteString("\n")
	}

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return b.String(), fmt.Errorf("format error: %w", err)
	}
	return string(formatted), nil
}

func packageName(componentName string) string {
	lower := strings.ToLower(componentName)
	if lower == "" {
		return "component"
	}
	return lower
}
