package invalidator

import (
	"testing"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/resolver"
)

func componentWith(bindings ...string) *ast.ComponentAst {
	script := &ast.ScriptAst{}
	for _, name := range bindings {
		script.Bindings = append(script.Bindings, &ast.BindingDecl{Name: name})
	}
	return &ast.ComponentAst{Name: "C", Script: script}
}

func graphWithEdge(t *testing.T, child, parent resolver.SourcePath) *resolver.ModuleGraph {
	t.Helper()
	g := resolver.NewModuleGraph()
	g.Upsert(parent, []resolver.SourcePath{child})
	return g
}

func TestApplyModifiedSameSurfaceSkipsPropagation(t *testing.T) {
	child := resolver.SourcePath("child.egh")
	parent := resolver.SourcePath("parent.egh")
	g := graphWithEdge(t, child, parent)

	var invalidated []resolver.SourcePath
	inv := New(g, func(p resolver.SourcePath) { invalidated = append(invalidated, p) })

	inv.Apply(Event{Path: string(child), Kind: Modified}, componentWith("count"))
	invalidated = nil

	inv.Apply(Event{Path: string(child), Kind: Modified}, componentWith("count"))

	if len(invalidated) != 1 || invalidated[0] != child {
		t.Errorf("expected only the changed file to be invalidated, got %v", invalidated)
	}
}

func TestApplyModifiedChangedSurfacePropagates(t *testing.T) {
	child := resolver.SourcePath("child.egh")
	parent := resolver.SourcePath("parent.egh")
	g := graphWithEdge(t, child, parent)

	var invalidated []resolver.SourcePath
	inv := New(g, func(p resolver.SourcePath) { invalidated = append(invalidated, p) })

	inv.Apply(Event{Path: string(child), Kind: Modified}, componentWith("count"))
	invalidated = nil

	inv.Apply(Event{Path: string(child), Kind: Modified}, componentWith("count", "label"))

	if len(invalidated) != 2 {
		t.Fatalf("expected both the changed file and its dependent, got %v", invalidated)
	}
	found := map[resolver.SourcePath]bool{}
	for _, p := range invalidated {
		found[p] = true
	}
	if !found[child] || !found[parent] {
		t.Errorf("expected child and parent invalidated, got %v", invalidated)
	}
}

func TestApplyFirstModifiedAlwaysPropagates(t *testing.T) {
	child := resolver.SourcePath("child.egh")
	parent := resolver.SourcePath("parent.egh")
	g := graphWithEdge(t, child, parent)

	var invalidated []resolver.SourcePath
	inv := New(g, func(p resolver.SourcePath) { invalidated = append(invalidated, p) })

	inv.Apply(Event{Path: string(child), Kind: Modified}, componentWith("count"))

	if len(invalidated) != 2 {
		t.Fatalf("expected first observation to propagate, got %v", invalidated)
	}
}

func TestApplyDeletedEvictsAndPropagates(t *testing.T) {
	child := resolver.SourcePath("child.egh")
	parent := resolver.SourcePath("parent.egh")
	g := graphWithEdge(t, child, parent)

	var invalidated []resolver.SourcePath
	inv := New(g, func(p resolver.SourcePath) { invalidated = append(invalidated, p) })

	inv.Apply(Event{Path: string(child), Kind: Deleted}, nil)

	if len(invalidated) != 2 {
		t.Fatalf("expected deletion to propagate to dependents, got %v", invalidated)
	}
	if g.HasCycle(parent) {
		t.Errorf("unexpected cycle reported after evict")
	}
	if len(g.Imports(parent)) != 0 {
		t.Errorf("expected parent's import edge to child to be gone after evict, got %v", g.Imports(parent))
	}
}

func TestChangeKindString(t *testing.T) {
	cases := map[ChangeKind]string{
		Created:  "created",
		Deleted:  "deleted",
		Renamed:  "renamed",
		Modified: "modified",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("ChangeKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestExportedSurfaceHashStableAcrossFieldOrder(t *testing.T) {
	a := &ast.ComponentAst{Script: &ast.ScriptAst{
		Bindings: []*ast.BindingDecl{{Name: "a"}, {Name: "b"}},
	}}
	b := &ast.ComponentAst{Script: &ast.ScriptAst{
		Bindings: []*ast.BindingDecl{{Name: "b"}, {Name: "a"}},
	}}
	if ExportedSurfaceHash(a) != ExportedSurfaceHash(b) {
		t.Errorf("expected hash to be independent of declaration order")
	}
}

func TestExportedSurfaceHashChangesOnTypeChange(t *testing.T) {
	a := &ast.ComponentAst{Script: &ast.ScriptAst{
		Bindings: []*ast.BindingDecl{{Name: "count", Type: ""}},
	}}
	b := &ast.ComponentAst{Script: &ast.ScriptAst{
		Bindings: []*ast.BindingDecl{{Name: "count", Type: "int"}},
	}}
	if ExportedSurfaceHash(a) == ExportedSurfaceHash(b) {
		t.Errorf("expected hash to change when a binding's declared type changes")
	}
}

func TestExportedSurfaceHashIgnoresEffectsAndFuncs(t *testing.T) {
	a := &ast.ComponentAst{Script: &ast.ScriptAst{
		Bindings: []*ast.BindingDecl{{Name: "count"}},
	}}
	b := &ast.ComponentAst{Script: &ast.ScriptAst{
		Bindings: []*ast.BindingDecl{{Name: "count"}},
		Effects:  []*ast.EffectDecl{{Name: "logIt"}},
	}}
	if ExportedSurfaceHash(a) != ExportedSurfaceHash(b) {
		t.Errorf("expected hash to ignore effects entirely")
	}
}
