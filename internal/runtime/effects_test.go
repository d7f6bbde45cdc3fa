package runtime

import "testing"

func TestRunMountRunsEveryEffectOnce(t *testing.T) {
	var calls []string
	registry := NewEffectRegistry([]Effect{
		{Name: "a", Run: func() { calls = append(calls, "a") }},
		{Name: "b", Run: func() { calls = append(calls, "b") }},
	})
	registry.RunMount()
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Errorf("expected both effects to run once in order, got %v", calls)
	}
}

func TestRunForChangedOnlyRunsObservers(t *testing.T) {
	var ran []string
	registry := NewEffectRegistry([]Effect{
		{Name: "onCount", Deps: []string{"count"}, Run: func() { ran = append(ran, "onCount") }},
		{Name: "onName", Deps: []string{"name"}, Run: func() { ran = append(ran, "onName") }},
	})
	registry.RunForChanged(map[string]bool{"count": true})
	if len(ran) != 1 || ran[0] != "onCount" {
		t.Errorf("expected only onCount to run, got %v", ran)
	}
}

func TestUpdateCycleStopsWhenNoFurtherChanges(t *testing.T) {
	runs := 0
	registry := NewEffectRegistry([]Effect{
		{Name: "e", Deps: []string{"x"}, Run: func() { runs++ }},
	})
	call := 0
	err := UpdateCycle(registry, map[string]bool{"x": true}, func() map[string]bool {
		call++
		if call == 1 {
			return map[string]bool{"x": true}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runs != 2 {
		t.Errorf("expected the effect to run twice before convergence, got %d", runs)
	}
}

func TestUpdateCycleAbortsPastDepthLimit(t *testing.T) {
	registry := NewEffectRegistry([]Effect{
		{Name: "e", Deps: []string{"x"}, Run: func() {}},
	})
	err := UpdateCycle(registry, map[string]bool{"x": true}, func() map[string]bool {
		return map[string]bool{"x": true}
	})
	if err == nil {
		t.Fatal("expected an error once the update cycle never converges")
	}
}
