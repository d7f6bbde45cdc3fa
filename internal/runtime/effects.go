package runtime

import "fmt"

// maxUpdateDepth bounds how many times a single external Set() call may
// re-trigger effects that themselves write to observed bindings, before
// the runtime gives up and reports a diagnostic instead of looping forever.
const maxUpdateDepth = 100

// EffectRegistry runs a component's effects in the topological order the
// reactivity analyzer computed, re-running only the effects whose Deps
// intersect the set of bindings that changed since the last run.
type EffectRegistry struct {
	effects []Effect
}

// NewEffectRegistry takes effects already in topological order; the
// generator emits them in that order so ordering here is a no-op pass
// through.
func NewEffectRegistry(effects []Effect) *EffectRegistry {
	return &EffectRegistry{effects: effects}
}

// RunMount runs every effect once, in order, for the initial mount.
func (r *EffectRegistry) RunMount() {
	for _, e := range r.effects {
		e.Run()
	}
}

// RunForChanged re-runs every effect whose Deps intersects changed. Each
// changed-name pass can itself produce further changes (an effect writing
// to a binding it doesn't read); RunForChanged is re-entrant-safe via
// UpdateCycle, which callers should use instead of calling this directly
// in a loop.
func (r *EffectRegistry) RunForChanged(changed map[string]bool) {
	for _, e := range r.effects {
		if effectObserves(e, changed) {
			e.Run()
		}
	}
}

func effectObserves(e Effect, changed map[string]bool) bool {
	for _, dep := range e.Deps {
		if changed[dep] {
			return true
		}
	}
	return false
}

// UpdateCycle drives RunForChanged to a fixed point: nextChanged returns
// the set of bindings mutated by the effects that just ran (or nil once
// nothing changed), letting effects write to other bindings without the
// caller hand-rolling the loop. It aborts with an error rather than
// spinning forever past maxUpdateDepth.
func UpdateCycle(registry *EffectRegistry, initial map[string]bool, nextChanged func() map[string]bool) error {
	changed := initial
	for depth := 0; depth < maxUpdateDepth; depth++ {
		if len(changed) == 0 {
			return nil
		}
		registry.RunForChanged(changed)
		changed = nextChanged()
	}
	return fmt.Errorf("update cycle exceeded depth limit of %d: possible effect feedback loop", maxUpdateDepth)
}
