package generator

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/parser"
)

// scopeClass derives a short, stable scope class from the component's raw
// style source so re-generating from unchanged input reproduces the exact
// same class name, and two components never collide.
func scopeClass(component *ast.ComponentAst) string {
	h := fnv.New32a()
	h.Write([]byte(component.Name))
	h.Write([]byte(component.Style.Source))
	return fmt.Sprintf("egh-%x", h.Sum32())
}

// genStyle emits the scoped CSS as a string constant plus a Register
// function that hands it to the runtime style sheet — not a top-level
// side effect, so a component dropped by dead-code elimination doesn't
// drag its stylesheet along.
func (g *Generator) genStyle(component *ast.ComponentAst) string {
	class := scopeClass(component)

	var css strings.Builder
	for _, rule := range component.Style.Rules {
		scoped := rule.Selector
		if component.Style.Scoped {
			scoped = parser.ScopeSelector(rule.Selector, class)
		}
		css.WriteString(fmt.Sprintf("%s { %s }\n", scoped, rule.Declarations))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("// ScopeClass is appended to every element this component renders\n// when its style block is scoped.\nconst ScopeClass = %q\n\n", class))
	b.WriteString(fmt.Sprintf("const styleCSS = %q\n\n", css.String()))
	b.WriteString("// RegisterStyle adds this component's scoped CSS to the runtime style\n// sheet. Called alongside Register, not at package init.\n")
	b.WriteString("func RegisterStyle() {\n")
	b.WriteString(fmt.Sprintf("\truntime.RegisterStyle(%q, styleCSS)\n", component.Name))
	b.WriteString("}\n")

	return b.String()
}
