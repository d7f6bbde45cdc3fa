package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
)

// genImports generates the import block: the runtime package every
// generated module depends on for VNode/H/Instance, plus any native Go
// imports the script section declared. Child components are resolved at
// render time through runtime.Registry rather than a Go import, since the
// generator doesn't know the output module path the bundler will assign a
// sibling component until bundling runs.
func (g *Generator) genImports(component *ast.ComponentAst) string {
	var b strings.Builder

	b.WriteString("import (\n")
	b.WriteString("\t\"fmt\"\n\n")
	b.WriteString("\t\"github.com/egh-lang/egh/internal/runtime\"\n")

	var nativeImports []*ast.ImportDecl
	if component.Script != nil {
		for _, imp := range component.Script.Imports {
			if imp.IsNative {
				nativeImports = append(nativeImports, imp)
			}
		}
	}
	sort.Slice(nativeImports, func(i, j int) bool { return nativeImports[i].Path < nativeImports[j].Path })
	for _, imp := range nativeImports {
		b.WriteString(fmt.Sprintf("\t%s %q\n", imp.Alias, imp.Path))
	}

	b.WriteString(")\n")
	return b.String()
}
