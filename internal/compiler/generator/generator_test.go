package generator

import (
	"strings"
	"testing"

	"github.com/egh-lang/egh/internal/compiler/lexer"
	"github.com/egh-lang/egh/internal/compiler/parser"
	"github.com/egh-lang/egh/internal/compiler/reactivity"
	"github.com/egh-lang/egh/internal/compiler/resolver"
)

func mustGenerate(t *testing.T, source, name string) string {
	t.Helper()
	p := parser.New(lexer.New(source))
	component := p.ParseComponent(name)
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	analysis := reactivity.Analyze(component)
	if analysis.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", analysis.Diagnostics.String())
	}
	out, err := New().Generate(component, analysis, map[string]*resolver.ComponentInfo{})
	if err != nil {
		t.Fatalf("generate error: %v\n%s", err, out)
	}
	return out
}

func TestGenerateCounterComponent(t *testing.T) {
	source := `<script>
~count = 0

doubled => count * 2

logChange :: {
	print(count)
}

fn increment() {
	count = count + 1
}
</script>

<template>
  <div>
    <span>{count}</span>
    <span>{doubled}</span>
    <button @click={increment()}>+</button>
  </div>
</template>

<style scoped>
div {
	display: flex;
}
</style>`

	out := mustGenerate(t, source, "Counter")

	for _, want := range []string{
		"package counter",
		"type state struct",
		"Count any",
		"func New(props map[string]any) *Instance",
		"func (c *Instance) recomputeDoubled()",
		"func (c *Instance) Mount(host any)",
		"func (c *Instance) Set(patch map[string]any)",
		"func (c *Instance) Render() []runtime.VNode",
		"func (c *Instance) logChange()",
		"func (c *Instance) increment()",
		"func Register()",
		"func RegisterStyle()",
		"const ScopeClass",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated output missing %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestGenerateComponentWithEach(t *testing.T) {
	source := `<script>
~tags = 0
</script>

<template>
  <ul>
    {#each tags as tag (tag)}
      <li>{tag}</li>
    {/each}
  </ul>
</template>`

	out := mustGenerate(t, source, "TagList")

	if !strings.Contains(out, "for _, tag := range c.state.Tags {") {
		t.Errorf("expected a range loop over tags, got:\n%s", out)
	}
}

func TestGenerateComponentWithIf(t *testing.T) {
	source := `<script>
~editing = false
</script>

<template>
  <div>
    {#if editing}
      <span>edit</span>
    {:else}
      <span>view</span>
    {/if}
  </div>
</template>`

	out := mustGenerate(t, source, "Toggle")

	if !strings.Contains(out, "if c.state.Editing {") {
		t.Errorf("expected an if guard over editing, got:\n%s", out)
	}
	if !strings.Contains(out, "} else {") {
		t.Errorf("expected an else branch, got:\n%s", out)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	source := `<script>
~count = 0
doubled => count * 2
</script>

<template>
  <span>{count} {doubled}</span>
</template>`

	first := mustGenerate(t, source, "Deterministic")
	second := mustGenerate(t, source, "Deterministic")

	if first != second {
		t.Errorf("expected byte-identical output for identical input")
	}
}
