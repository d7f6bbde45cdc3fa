package generator

import (
	"fmt"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/resolver"
	"github.com/egh-lang/egh/internal/compiler/script"
)

// renderBuilder accumulates the imperative Go statements that build a
// component's render tree: template structural blocks (if/each) don't
// reduce to pure expressions, so Render() is generated as a sequence of
// appends into freshly named slice variables rather than one nested
// expression.
type renderBuilder struct {
	buf        strings.Builder
	fresh      int
	rewrite    func(string) string
	components map[string]*resolver.ComponentInfo
	scoped     bool
}

func (g *Generator) genRender(component *ast.ComponentAst, components map[string]*resolver.ComponentInfo) string {
	rb := &renderBuilder{
		rewrite:    rewriter(component),
		components: components,
		scoped:     component.Style != nil && component.Style.Scoped,
	}

	rb.buf.WriteString("// Render builds the current virtual-node tree from instance state; the\n")
	rb.buf.WriteString("// runtime reconciles it against the previous tree using each node's\n")
	rb.buf.WriteString("// PatchID.\n")
	rb.buf.WriteString("func (c *Instance) Render() []runtime.VNode {\n")
	rb.buf.WriteString("\tvar root []runtime.VNode\n")
	if component.Template != nil {
		rb.emitAppends("root", component.Template.Root)
	}
	rb.buf.WriteString("\treturn root\n")
	rb.buf.WriteString("}\n")

	return rb.buf.String()
}

func (rb *renderBuilder) nextVar(prefix string) string {
	rb.fresh++
	return fmt.Sprintf("%s%d", prefix, rb.fresh)
}

// emitAppends emits statements that append the rendering of nodes onto the
// Go slice variable named target.
func (rb *renderBuilder) emitAppends(target string, nodes []ast.TemplateNode) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.TextNode:
			text := strings.TrimSpace(n.Literal)
			if text == "" {
				continue
			}
			rb.buf.WriteString(fmt.Sprintf("\t%s = append(%s, runtime.Text(%q))\n", target, target, text))

		case *ast.InterpolationNode:
			expr := script.TranspileExpr(n.Expr, rb.rewrite)
			textExpr := fmt.Sprintf("fmt.Sprintf(\"%%v\", %s)", expr)
			nodeVar := rb.nextVar("interp")
			rb.buf.WriteString(fmt.Sprintf("\t%s := runtime.WithPatchID(runtime.Text(%s), %q)\n", nodeVar, textExpr, n.PatchID))
			if n.Raw {
				rb.buf.WriteString(fmt.Sprintf("\t%s.IsRaw = true\n", nodeVar))
			}
			rb.buf.WriteString(fmt.Sprintf("\t%s = append(%s, %s)\n", target, target, nodeVar))

		case *ast.ElementNode:
			rb.emitElement(target, n)

		case *ast.IfNode:
			rb.emitIf(target, n)

		case *ast.EachNode:
			rb.emitEach(target, n)

		case *ast.SlotNode:
			rb.buf.WriteString(fmt.Sprintf("\t%s = append(%s, c.slots[%q]...)\n", target, target, n.Name))

		case *ast.ComponentInstanceNode:
			rb.emitComponentInstance(target, n)
		}
	}
}

func (rb *renderBuilder) emitElement(target string, n *ast.ElementNode) {
	childVar := rb.nextVar("children")
	rb.buf.WriteString(fmt.Sprintf("\tvar %s []runtime.VNode\n", childVar))
	rb.emitAppends(childVar, n.Children)

	attrsVar := rb.nextVar("attrs")
	rb.buf.WriteString(fmt.Sprintf("\t%s := map[string]string{}\n", attrsVar))
	for _, attr := range n.Attrs {
		if attr.IsStatic {
			rb.buf.WriteString(fmt.Sprintf("\t%s[%q] = %q\n", attrsVar, attr.Name, attr.Static))
			continue
		}
		rb.buf.WriteString(fmt.Sprintf("\t%s[%q] = fmt.Sprintf(\"%%v\", %s)\n", attrsVar, attr.Name, script.TranspileExpr(attr.Value, rb.rewrite)))
	}
	for _, sp := range n.StyleProps {
		rb.buf.WriteString(fmt.Sprintf("\t%s[%q] = fmt.Sprintf(\"%%v\", %s)\n", attrsVar, "style:"+sp.Prop, script.TranspileExpr(sp.Value, rb.rewrite)))
	}

	if rb.scoped {
		rb.buf.WriteString(fmt.Sprintf("\tif existing, ok := %s[\"class\"]; ok {\n\t\t%s[\"class\"] = existing + \" \" + ScopeClass\n\t} else {\n\t\t%s[\"class\"] = ScopeClass\n\t}\n", attrsVar, attrsVar, attrsVar))
	}

	nodeVar := rb.nextVar("node")
	rb.buf.WriteString(fmt.Sprintf("\t%s := runtime.H(%q, %s, %s...)\n", nodeVar, n.Tag, attrsVar, childVar))
	for _, ev := range n.Events {
		rb.buf.WriteString(fmt.Sprintf("\tif %s.Events == nil { %s.Events = map[string]func(){} }\n", nodeVar, nodeVar))
		rb.buf.WriteString(fmt.Sprintf("\t%s.Events[%q] = func() { %s }\n", nodeVar, ev.Name, script.TranspileExpr(ev.Handler, rb.rewrite)))
	}
	rb.buf.WriteString(fmt.Sprintf("\t%s = append(%s, %s)\n", target, target, nodeVar))
}

func (rb *renderBuilder) emitIf(target string, n *ast.IfNode) {
	for i, branch := range n.Branches {
		if branch.Cond == nil {
			rb.buf.WriteString("\t} else {\n")
		} else if i == 0 {
			rb.buf.WriteString(fmt.Sprintf("\tif %s {\n", script.TranspileExpr(branch.Cond, rb.rewrite)))
		} else {
			rb.buf.WriteString(fmt.Sprintf("\t} else if %s {\n", script.TranspileExpr(branch.Cond, rb.rewrite)))
		}
		rb.emitAppends(target, branch.Body)
	}
	rb.buf.WriteString("\t}\n")
}

func (rb *renderBuilder) emitEach(target string, n *ast.EachNode) {
	iterable := script.TranspileExpr(n.Iterable, rb.rewrite)
	rb.buf.WriteString(fmt.Sprintf("\tfor _, %s := range %s {\n", n.ItemBinding, iterable))
	rb.emitAppends(target, n.Body)
	rb.buf.WriteString("\t}\n")
}

func (rb *renderBuilder) emitComponentInstance(target string, n *ast.ComponentInstanceNode) {
	info, known := rb.components[n.Name]
	propsVar := rb.nextVar("props")
	rb.buf.WriteString(fmt.Sprintf("\t%s := map[string]any{}\n", propsVar))
	for _, prop := range n.Props {
		if prop.IsStatic {
			rb.buf.WriteString(fmt.Sprintf("\t%s[%q] = %q\n", propsVar, prop.Name, prop.Static))
			continue
		}
		rb.buf.WriteString(fmt.Sprintf("\t%s[%q] = %s\n", propsVar, prop.Name, script.TranspileExpr(prop.Value, rb.rewrite)))
	}
	if len(n.Children) > 0 {
		slotVar := rb.nextVar("slotChildren")
		rb.buf.WriteString(fmt.Sprintf("\tvar %s []runtime.VNode\n", slotVar))
		rb.emitAppends(slotVar, n.Children)
		rb.buf.WriteString(fmt.Sprintf("\t%s[\"__slots\"] = map[string][]runtime.VNode{\"\": %s}\n", propsVar, slotVar))
	}
	childVar := rb.nextVar("instance")
	if known {
		rb.buf.WriteString(fmt.Sprintf("\t%s := runtime.Lookup(%q)(%s)\n", childVar, info.Name, propsVar))
	} else {
		rb.buf.WriteString(fmt.Sprintf("\t%s := runtime.Lookup(%q)(%s)\n", childVar, n.Name, propsVar))
	}
	rb.buf.WriteString(fmt.Sprintf("\t%s = append(%s, %s.Render()...)\n", target, target, childVar))
}
