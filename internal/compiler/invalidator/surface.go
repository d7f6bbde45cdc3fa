package invalidator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/egh-lang/egh/internal/compiler/ast"
)

// ExportedSurfaceHash hashes the part of a component's AST that other
// components actually depend on: the binding/prop names and types a
// parent can pass into New(props), and the names of deriveds a parent
// might read off an Instance. A change confined to template markup,
// style rules, or a function/effect body changes this component's own
// generated output but never this hash, so the Invalidator can skip
// recompiling every dependent when only a component's internals moved.
func ExportedSurfaceHash(component *ast.ComponentAst) uint64 {
	var parts []string
	if component.Script != nil {
		for _, b := range component.Script.Bindings {
			parts = append(parts, fmt.Sprintf("binding:%s:%s", b.Name, b.Type))
		}
		for _, d := range component.Script.Deriveds {
			parts = append(parts, fmt.Sprintf("derived:%s", d.Name))
		}
	}
	sort.Strings(parts)

	h := murmur3.New64()
	h.Write([]byte(strings.Join(parts, "\n")))
	return h.Sum64()
}
