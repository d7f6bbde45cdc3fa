package resolver

import "testing"

func containsPath(set []SourcePath, target SourcePath) bool {
	for _, p := range set {
		if p == target {
			return true
		}
	}
	return false
}

func TestUpsertBuildsReverseIndex(t *testing.T) {
	g := NewModuleGraph()
	a, b, c := SourcePath("a"), SourcePath("b"), SourcePath("c")

	g.Upsert(a, []SourcePath{b, c})

	if !containsPath(g.Dependents(b), a) {
		t.Error("expected b's dependents to include a")
	}
	if !containsPath(g.Dependents(c), a) {
		t.Error("expected c's dependents to include a")
	}
}

func TestUpsertDiffsRemovedEdges(t *testing.T) {
	g := NewModuleGraph()
	a, b, c := SourcePath("a"), SourcePath("b"), SourcePath("c")

	g.Upsert(a, []SourcePath{b, c})
	g.Upsert(a, []SourcePath{b})

	if containsPath(g.Dependents(c), a) {
		t.Error("expected c's dependents to no longer include a after a dropped the import")
	}
	if !containsPath(g.Dependents(b), a) {
		t.Error("expected b's dependents to still include a")
	}
}

func TestDependentsTransitiveClosure(t *testing.T) {
	g := NewModuleGraph()
	a, b, c := SourcePath("a"), SourcePath("b"), SourcePath("c")

	g.Upsert(a, []SourcePath{b})
	g.Upsert(b, []SourcePath{c})

	closure := g.DependentsClosure(c)
	if !containsPath(closure, b) || !containsPath(closure, a) {
		t.Errorf("expected closure of c's dependents to include a and b, got %v", closure)
	}
}

func TestDependentsClosureExcludesSelfUnlessCycle(t *testing.T) {
	g := NewModuleGraph()
	a, b := SourcePath("a"), SourcePath("b")

	g.Upsert(a, []SourcePath{b})
	closure := g.DependentsClosure(a)
	if containsPath(closure, a) {
		t.Error("expected query node excluded from its own closure absent a cycle")
	}

	g.Upsert(b, []SourcePath{a})
	closure = g.DependentsClosure(a)
	if !containsPath(closure, a) {
		t.Error("expected query node included in its own closure when a cycle exists")
	}
}

func TestHasCycle(t *testing.T) {
	g := NewModuleGraph()
	a, b := SourcePath("a"), SourcePath("b")

	g.Upsert(a, []SourcePath{b})
	if g.HasCycle(a) {
		t.Error("did not expect a cycle")
	}

	g.Upsert(b, []SourcePath{a})
	if !g.HasCycle(a) {
		t.Error("expected a cycle once b imports back to a")
	}
}

func TestEvictRemovesNodeAndEdges(t *testing.T) {
	g := NewModuleGraph()
	a, b := SourcePath("a"), SourcePath("b")

	g.Upsert(a, []SourcePath{b})
	g.Evict(a)

	if len(g.Imports(a)) != 0 {
		t.Error("expected a's imports to be empty after eviction")
	}
	if containsPath(g.Dependents(b), a) {
		t.Error("expected b's dependents to no longer include a after eviction")
	}
}

func TestImportsClosure(t *testing.T) {
	g := NewModuleGraph()
	a, b, c := SourcePath("a"), SourcePath("b"), SourcePath("c")

	g.Upsert(a, []SourcePath{b})
	g.Upsert(b, []SourcePath{c})

	closure := g.ImportsClosure(a)
	if !containsPath(closure, b) || !containsPath(closure, c) {
		t.Errorf("expected a's imports closure to include b and c, got %v", closure)
	}
}
