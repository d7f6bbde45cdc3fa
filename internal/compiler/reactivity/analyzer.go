package reactivity

import (
	"fmt"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/diagnostics"
)

// builtins are free identifiers that never need to resolve against the
// symbol table: literal keywords and the handful of template-global names
// every component body can read without declaring.
var builtins = map[string]bool{
	"true": true, "false": true, "nil": true,
	"print": true, "len": true, "console": true,
}

// Analysis is the output of analyzing one component: the dependency graph,
// a deterministic topological order over its bindings/deriveds, and any
// diagnostics raised along the way. The component's DerivedDecl.Deps,
// EffectDecl.Deps and every InterpolationNode.PatchID are filled in place.
type Analysis struct {
	Symbols     *SymbolTable
	Graph       *DependencyGraph
	TopoOrder   []string
	Diagnostics *diagnostics.List
}

// Analyze runs the full reactivity analysis pipeline over component:
// symbol collection, free-identifier resolution, dependency graph
// construction, cycle detection among deriveds, deterministic topological
// sort, and template patch_id assignment.
func Analyze(component *ast.ComponentAst) *Analysis {
	diags := diagnostics.NewList()
	symbols := BuildSymbolTable(component.Script)
	graph := newDependencyGraph()

	if component.Script != nil {
		reactiveNames := symbols.ReactiveNames()

		for _, d := range component.Script.Deriveds {
			free := FreeIdents(d.Expr)
			d.Deps = filterResolved(free, symbols, reactiveNames, diags, "reactivity", d.Line)
			graph.Deps[d.Name] = onlyReactive(d.Deps, reactiveNames)
		}
		for _, b := range component.Script.Bindings {
			graph.Deps[b.Name] = nil
		}
		for _, e := range component.Script.Effects {
			free := FreeIdentsInStatements(e.Body)
			e.Deps = filterResolved(free, symbols, reactiveNames, diags, "reactivity", e.Line)
		}

		derivedNames := make(map[string]bool)
		for _, d := range component.Script.Deriveds {
			derivedNames[d.Name] = true
		}
		if cyc := detectCycle(graph, derivedNames, symbols.Order()); cyc != nil {
			diags.AddError(
				diagnostics.Position{Line: 0},
				"reactivity",
				diagnostics.CodeReactiveCycle,
				fmt.Sprintf("reactive cycle detected among deriveds: %v", cyc),
				cyc...,
			)
		}
	}

	topoOrder := topoSort(graph, symbols.Order())

	if component.Template != nil {
		reactiveNames := symbols.ReactiveNames()
		walkTemplate(component.Template.Root, "", reactiveNames)
	}

	return &Analysis{
		Symbols:     symbols,
		Graph:       graph,
		TopoOrder:   topoOrder,
		Diagnostics: diags,
	}
}

// filterResolved keeps only free identifiers that resolve against the
// symbol table, builtins, or function parameters are not checked here
// (param scoping is the generator's concern) — anything else is an unknown
// identifier diagnostic. The returned slice is restricted to symbol-table
// names only (builtins are dropped, since they carry no dependency edge).
func filterResolved(free []string, symbols *SymbolTable, reactiveNames map[string]bool, diags *diagnostics.List, phase string, line int) []string {
	var resolved []string
	for _, name := range free {
		if reactiveNames[name] {
			resolved = append(resolved, name)
			continue
		}
		if builtins[name] || symbols.Lookup(name) != nil {
			continue
		}
		diags.AddError(
			diagnostics.Position{Line: line},
			phase,
			diagnostics.CodeUnknownIdent,
			fmt.Sprintf("undeclared identifier %q", name),
		)
	}
	return resolved
}

func onlyReactive(names []string, reactiveNames map[string]bool) []string {
	var out []string
	for _, n := range names {
		if reactiveNames[n] {
			out = append(out, n)
		}
	}
	return out
}

// walkTemplate walks a template node list in pre-order, assigning each
// InterpolationNode a stable patch id keyed by its index within the
// nearest structural parent (prefixed with that parent's own path, so ids
// stay unique across the whole tree without losing per-parent stability),
// and computes each interpolation's reactive Deps from its expression's
// free identifiers intersected with reactiveNames.
func walkTemplate(nodes []ast.TemplateNode, parentPath string, reactiveNames map[string]bool) {
	for i, node := range nodes {
		path := fmt.Sprintf("%s%d", parentPath, i)
		switch n := node.(type) {
		case *ast.InterpolationNode:
			n.PatchID = path
			n.Deps = onlyReactive(FreeIdents(n.Expr), reactiveNames)
		case *ast.ElementNode:
			walkTemplate(n.Children, path+".", reactiveNames)
		case *ast.ComponentInstanceNode:
			walkTemplate(n.Children, path+".", reactiveNames)
		case *ast.IfNode:
			for bi, branch := range n.Branches {
				walkTemplate(branch.Body, fmt.Sprintf("%s.%d.", path, bi), reactiveNames)
			}
		case *ast.EachNode:
			walkTemplate(n.Body, path+".", reactiveNames)
		}
	}
}
