package parser

import (
	"strings"
	"testing"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/diagnostics"
	"github.com/egh-lang/egh/internal/compiler/lexer"
)

func parseComponent(t *testing.T, source, name string) *ast.ComponentAst {
	t.Helper()
	l := lexer.New(source)
	p := New(l)
	component := p.ParseComponent(name)
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	return component
}

func TestParseComponentWithAllSections(t *testing.T) {
	source := `<script>
~count = 0
doubled => count * 2

fn increment() {
	count = count + 1
}
</script>

<template>
  <div class="counter">
    <button @click={increment}>{count}</button>
    <span>{doubled}</span>
  </div>
</template>

<style scoped>
  .counter { padding: 1rem; }
</style>`

	component := parseComponent(t, source, "Counter")

	if component.Script == nil {
		t.Fatal("expected Script section")
	}
	if len(component.Script.Bindings) != 1 {
		t.Errorf("expected 1 binding, got %d", len(component.Script.Bindings))
	}
	if len(component.Script.Deriveds) != 1 {
		t.Errorf("expected 1 derived, got %d", len(component.Script.Deriveds))
	}
	if len(component.Script.Funcs) != 1 {
		t.Errorf("expected 1 func, got %d", len(component.Script.Funcs))
	}

	if component.Template == nil {
		t.Fatal("expected Template section")
	}
	if len(component.Template.Root) != 1 {
		t.Fatalf("expected 1 root template node, got %d", len(component.Template.Root))
	}
	div, ok := component.Template.Root[0].(*ast.ElementNode)
	if !ok {
		t.Fatalf("expected ElementNode, got %T", component.Template.Root[0])
	}
	if div.Tag != "div" {
		t.Errorf("expected div, got %q", div.Tag)
	}
	if len(div.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(div.Children))
	}

	button, ok := div.Children[0].(*ast.ElementNode)
	if !ok || button.Tag != "button" {
		t.Fatalf("expected button element, got %#v", div.Children[0])
	}
	if len(button.Events) != 1 || button.Events[0].Name != "click" {
		t.Fatalf("expected one click event binding, got %+v", button.Events)
	}

	if component.Style == nil {
		t.Fatal("expected Style section")
	}
	if !component.Style.Scoped {
		t.Error("expected scoped style")
	}
	if len(component.Style.Rules) != 1 {
		t.Fatalf("expected 1 style rule, got %d", len(component.Style.Rules))
	}
}

func TestParseSectionsInAnyOrder(t *testing.T) {
	source := `<style>div{color:red}</style><template>{x}</template><script>~x = 1</script>`
	component := parseComponent(t, source, "Anon")

	if component.Script == nil || component.Template == nil || component.Style == nil {
		t.Fatal("expected all three sections regardless of declaration order")
	}
}

func TestParseIfDirective(t *testing.T) {
	source := `<template>
  {#if count > 10}
    <span>big</span>
  {:else if count > 0}
    <span>small</span>
  {:else}
    <span>zero</span>
  {/if}
</template>`

	component := parseComponent(t, source, "Conditional")
	ifNode, ok := component.Template.Root[0].(*ast.IfNode)
	if !ok {
		t.Fatalf("expected IfNode, got %T", component.Template.Root[0])
	}
	if len(ifNode.Branches) != 3 {
		t.Fatalf("expected 3 branches, got %d", len(ifNode.Branches))
	}
	if ifNode.Branches[2].Cond != nil {
		t.Errorf("expected trailing else branch to have nil condition")
	}
}

func TestParseEachDirective(t *testing.T) {
	source := `<template>
  {#each items as item (item.id)}
    <li>{item.name}</li>
  {/each}
</template>`

	component := parseComponent(t, source, "ListView")
	eachNode, ok := component.Template.Root[0].(*ast.EachNode)
	if !ok {
		t.Fatalf("expected EachNode, got %T", component.Template.Root[0])
	}
	if eachNode.ItemBinding != "item" {
		t.Errorf("expected item binding 'item', got %q", eachNode.ItemBinding)
	}
	if eachNode.KeyExpr == nil {
		t.Error("expected a key expression")
	}
	if len(eachNode.Body) != 1 {
		t.Fatalf("expected 1 body node, got %d", len(eachNode.Body))
	}
}

func TestParseRawHTMLInterpolation(t *testing.T) {
	source := `<template>{@html markup}</template>`
	component := parseComponent(t, source, "Raw")

	interp, ok := component.Template.Root[0].(*ast.InterpolationNode)
	if !ok {
		t.Fatalf("expected InterpolationNode, got %T", component.Template.Root[0])
	}
	if !interp.Raw {
		t.Error("expected Raw=true for {@html ...}")
	}
}

func TestParseComponentInstance(t *testing.T) {
	source := `<template><TaskItem title={task.title} done={task.done}/></template>`
	component := parseComponent(t, source, "Page")

	instance, ok := component.Template.Root[0].(*ast.ComponentInstanceNode)
	if !ok {
		t.Fatalf("expected ComponentInstanceNode, got %T", component.Template.Root[0])
	}
	if instance.Name != "TaskItem" {
		t.Errorf("expected name TaskItem, got %q", instance.Name)
	}
	if len(instance.Props) != 2 {
		t.Fatalf("expected 2 props, got %d", len(instance.Props))
	}
}

func TestParseSlot(t *testing.T) {
	source := `<template><div><slot/></div></template>`
	component := parseComponent(t, source, "Layout")

	div := component.Template.Root[0].(*ast.ElementNode)
	slot, ok := div.Children[0].(*ast.SlotNode)
	if !ok {
		t.Fatalf("expected SlotNode, got %T", div.Children[0])
	}
	if slot.Name != "" {
		t.Errorf("expected default slot, got name %q", slot.Name)
	}
}

func TestParseNamedSlot(t *testing.T) {
	source := `<template><div><slot name="header"/></div></template>`
	component := parseComponent(t, source, "Layout")

	div := component.Template.Root[0].(*ast.ElementNode)
	slot := div.Children[0].(*ast.SlotNode)
	if slot.Name != "header" {
		t.Errorf("expected slot name 'header', got %q", slot.Name)
	}
}

func TestParseTwoWayBind(t *testing.T) {
	source := `<template><input <~ name></template>`
	component := parseComponent(t, source, "Form")

	input, ok := component.Template.Root[0].(*ast.ElementNode)
	if !ok {
		t.Fatalf("expected ElementNode, got %T", component.Template.Root[0])
	}
	if input.TwoWayBind == nil {
		t.Fatal("expected a two-way bind expression")
	}
	ident, ok := input.TwoWayBind.(*ast.Ident)
	if !ok || ident.Name != "name" {
		t.Errorf("expected bind to ident 'name', got %#v", input.TwoWayBind)
	}
}

func TestParseStyleProp(t *testing.T) {
	source := `<template><div style:color={textColor}></div></template>`
	component := parseComponent(t, source, "Styled")

	div := component.Template.Root[0].(*ast.ElementNode)
	if len(div.StyleProps) != 1 || div.StyleProps[0].Prop != "color" {
		t.Fatalf("expected 1 style prop 'color', got %+v", div.StyleProps)
	}
}

func TestParseUnterminatedScriptReportsFatalLexError(t *testing.T) {
	source := "<script>\n~count = 0\n"
	l := lexer.New(source)
	p := New(l)
	p.ParseComponent("Broken")

	d := p.LexFatal()
	if d == nil {
		t.Fatal("expected a fatal lex diagnostic for an unterminated <script> block")
	}
	if d.Code != diagnostics.CodeLexError {
		t.Errorf("expected CodeLexError, got %q", d.Code)
	}
	if len(p.Errors()) == 0 {
		t.Fatal("expected the fatal diagnostic to also appear in Errors()")
	}
	if !strings.Contains(p.Errors()[len(p.Errors())-1], "</script>") {
		t.Errorf("expected error to name the missing closing tag, got %q", p.Errors()[len(p.Errors())-1])
	}
}
