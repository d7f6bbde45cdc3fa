package reactivity

import (
	"testing"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/lexer"
	"github.com/egh-lang/egh/internal/compiler/parser"
)

func mustParse(t *testing.T, source, name string) *ast.ComponentAst {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	component := p.ParseComponent(name)
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	return component
}

func TestAnalyzeDerivedDeps(t *testing.T) {
	component := mustParse(t, `<script>
~count = 0
doubled => count * 2
</script>`, "Counter")

	analysis := Analyze(component)
	if analysis.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", analysis.Diagnostics.Items)
	}

	doubled := component.Script.Deriveds[0]
	if len(doubled.Deps) != 1 || doubled.Deps[0] != "count" {
		t.Errorf("expected doubled to depend on [count], got %v", doubled.Deps)
	}
}

func TestAnalyzeChainedDerivedDeps(t *testing.T) {
	component := mustParse(t, `<script>
~count = 0
doubled => count * 2
quadrupled => doubled * 2
</script>`, "Chain")

	analysis := Analyze(component)
	if analysis.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", analysis.Diagnostics.Items)
	}

	order := analysis.TopoOrder
	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	if pos["count"] >= pos["doubled"] || pos["doubled"] >= pos["quadrupled"] {
		t.Errorf("expected topo order count < doubled < quadrupled, got %v", order)
	}
}

func TestAnalyzeDetectsCycle(t *testing.T) {
	component := mustParse(t, `<script>
a => b + 1
b => a + 1
</script>`, "Cyclic")

	analysis := Analyze(component)
	if !analysis.Diagnostics.HasErrors() {
		t.Fatal("expected a reactive cycle diagnostic")
	}
	found := false
	for _, d := range analysis.Diagnostics.Items {
		if d.Code == "ReactiveCycle" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a ReactiveCycle diagnostic, got %v", analysis.Diagnostics.Items)
	}
}

func TestAnalyzeUnknownIdentifier(t *testing.T) {
	component := mustParse(t, `<script>
~count = 0
doubled => coutn * 2
</script>`, "Typo")

	analysis := Analyze(component)
	if !analysis.Diagnostics.HasErrors() {
		t.Fatal("expected an unknown-identifier diagnostic")
	}
}

func TestAnalyzeEffectDeps(t *testing.T) {
	component := mustParse(t, `<script>
~count = 0
logChange :: {
	print(count)
}
</script>`, "Logger")

	analysis := Analyze(component)
	if analysis.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", analysis.Diagnostics.Items)
	}
	effect := component.Script.Effects[0]
	if len(effect.Deps) != 1 || effect.Deps[0] != "count" {
		t.Errorf("expected logChange to depend on [count], got %v", effect.Deps)
	}
}

func TestAnalyzeEffectWithNoDepsRunsOnce(t *testing.T) {
	component := mustParse(t, `<script>
onMount :: {
	print("hello")
}
</script>`, "Mounter")

	analysis := Analyze(component)
	if analysis.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", analysis.Diagnostics.Items)
	}
	effect := component.Script.Effects[0]
	if len(effect.Deps) != 0 {
		t.Errorf("expected no deps for an effect with no reactive reads, got %v", effect.Deps)
	}
}

func TestInterpolationDepsComputed(t *testing.T) {
	component := mustParse(t, `<script>
~count = 0
</script>
<template>
<span>{count}</span>
</template>`, "Span")

	analysis := Analyze(component)
	if analysis.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", analysis.Diagnostics.Items)
	}

	span := component.Template.Root[0].(*ast.ElementNode)
	interp := span.Children[0].(*ast.InterpolationNode)
	if len(interp.Deps) != 1 || interp.Deps[0] != "count" {
		t.Errorf("expected interpolation deps [count], got %v", interp.Deps)
	}
}

func TestAssignPatchIDs(t *testing.T) {
	component := mustParse(t, `<template>
<div>
  {count}
  {#if visible}
    <span>{label}</span>
  {/if}
</div>
</template>`, "Patched")

	analysis := Analyze(component)
	if analysis.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", analysis.Diagnostics.Items)
	}

	div := component.Template.Root[0].(*ast.ElementNode)
	var interp *ast.InterpolationNode
	var ifNode *ast.IfNode
	for _, child := range div.Children {
		switch c := child.(type) {
		case *ast.InterpolationNode:
			interp = c
		case *ast.IfNode:
			ifNode = c
		}
	}
	if interp == nil || interp.PatchID == "" {
		t.Fatal("expected the top-level interpolation to receive a patch id")
	}
	if ifNode == nil {
		t.Fatal("expected an IfNode child")
	}
	span := ifNode.Branches[0].Body[0].(*ast.ElementNode)
	nested, ok := span.Children[0].(*ast.InterpolationNode)
	if !ok || nested.PatchID == "" {
		t.Fatal("expected the nested interpolation to receive a patch id")
	}
	if nested.PatchID == interp.PatchID {
		t.Errorf("expected distinct patch ids, both were %q", interp.PatchID)
	}
}
