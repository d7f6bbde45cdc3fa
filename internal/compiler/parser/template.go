package parser

import (
	"fmt"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/script"
)

// templateParser is a hand-written recursive-descent scanner over the raw
// <template> body. It walks the string directly rather than tokenizing it
// through the main lexer, since template grammar mixes literal HTML-ish
// markup with brace-delimited directives and embedded expressions.
type templateParser struct {
	input  string
	pos    int
	line   int
	errors []string
}

func newTemplateParser(source string, startLine int) *templateParser {
	return &templateParser{input: source, line: startLine}
}

func (tp *templateParser) parse() ([]ast.TemplateNode, []string) {
	nodes := tp.parseNodes(nil)
	return nodes, tp.errors
}

func (tp *templateParser) errorf(format string, args ...interface{}) {
	tp.errors = append(tp.errors, fmt.Sprintf("line %d: %s", tp.line, fmt.Sprintf(format, args...)))
}

func (tp *templateParser) atEOF() bool {
	return tp.pos >= len(tp.input)
}

func (tp *templateParser) peekByte() byte {
	if tp.atEOF() {
		return 0
	}
	return tp.input[tp.pos]
}

func (tp *templateParser) advance(n int) {
	end := tp.pos + n
	if end > len(tp.input) {
		end = len(tp.input)
	}
	tp.line += strings.Count(tp.input[tp.pos:end], "\n")
	tp.pos = end
}

func (tp *templateParser) hasPrefixAt(s string) bool {
	return strings.HasPrefix(tp.input[tp.pos:], s)
}

// matchesAny reports whether the input at the current position starts with
// one of the given stop markers (used to end a nested node list at its
// closing or branching directive without consuming it).
func (tp *templateParser) matchesAny(stops []string) bool {
	for _, s := range stops {
		if tp.hasPrefixAt(s) {
			return true
		}
	}
	return false
}

func (tp *templateParser) parseNodes(stops []string) []ast.TemplateNode {
	var nodes []ast.TemplateNode
	for !tp.atEOF() && !tp.matchesAny(stops) {
		switch tp.peekByte() {
		case '<':
			if node := tp.parseTag(); node != nil {
				nodes = append(nodes, node)
			}
		case '{':
			if node := tp.parseBrace(stops); node != nil {
				nodes = append(nodes, node)
			}
		default:
			if node := tp.parseText(stops); node != nil {
				nodes = append(nodes, node)
			}
		}
	}
	return nodes
}

// parseText consumes a literal run up to the next '<', '{' or stop marker.
func (tp *templateParser) parseText(stops []string) ast.TemplateNode {
	start := tp.pos
	line := tp.line
	for !tp.atEOF() && tp.peekByte() != '<' && tp.peekByte() != '{' && !tp.matchesAny(stops) {
		tp.advance(1)
	}
	if tp.pos == start {
		// Avoid an infinite loop if none of the above advanced (stray char).
		tp.advance(1)
		return nil
	}
	text := tp.input[start:tp.pos]
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &ast.TextNode{Literal: text, Line: line}
}

// readBalancedBraces reads from the current '{' through its matching '}',
// returning the inner content (braces excluded) with the cursor left just
// past the closing brace.
func (tp *templateParser) readBalancedBraces() (string, bool) {
	if tp.peekByte() != '{' {
		return "", false
	}
	tp.advance(1)
	start := tp.pos
	depth := 1
	for !tp.atEOF() && depth > 0 {
		switch tp.peekByte() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				inner := tp.input[start:tp.pos]
				tp.advance(1)
				return inner, true
			}
		}
		tp.advance(1)
	}
	return tp.input[start:tp.pos], false
}

func (tp *templateParser) parseBrace(stops []string) ast.TemplateNode {
	line := tp.line

	switch {
	case tp.hasPrefixAt("{#if"):
		return tp.parseIf()
	case tp.hasPrefixAt("{#each"):
		return tp.parseEach()
	case tp.hasPrefixAt("{@html"):
		inner, ok := tp.readBalancedBraces()
		if !ok {
			tp.errorf("unterminated {@html ...} interpolation")
			return nil
		}
		exprSrc := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(inner), "@html"))
		expr, errs := script.ParseExpr(exprSrc, line)
		tp.mergeExprErrors(errs)
		return &ast.InterpolationNode{Expr: expr, Raw: true, Line: line}
	default:
		inner, ok := tp.readBalancedBraces()
		if !ok {
			tp.errorf("unterminated {...} interpolation")
			return nil
		}
		expr, errs := script.ParseExpr(inner, line)
		tp.mergeExprErrors(errs)
		return &ast.InterpolationNode{Expr: expr, Line: line}
	}
}

func (tp *templateParser) mergeExprErrors(errs []string) {
	for _, e := range errs {
		tp.errors = append(tp.errors, "expression: "+e)
	}
}

// parseIf parses {#if cond} ... {:else if cond} ... {:else} ... {/if}
func (tp *templateParser) parseIf() ast.TemplateNode {
	line := tp.line
	node := &ast.IfNode{Line: line}

	header, ok := tp.readBalancedBraces()
	if !ok {
		tp.errorf("unterminated {#if ...}")
		return node
	}
	cond := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "#if"))
	expr, errs := script.ParseExpr(cond, line)
	tp.mergeExprErrors(errs)

	stops := []string{"{:else", "{/if}"}
	body := tp.parseNodes(stops)
	node.Branches = append(node.Branches, &ast.IfBranch{Cond: expr, Body: body})

	for tp.hasPrefixAt("{:else") {
		header, ok := tp.readBalancedBraces()
		if !ok {
			tp.errorf("unterminated {:else ...}")
			break
		}
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), ":else"))
		var branchExpr ast.Expression
		if strings.HasPrefix(rest, "if ") {
			cond := strings.TrimSpace(strings.TrimPrefix(rest, "if "))
			e, errs := script.ParseExpr(cond, tp.line)
			tp.mergeExprErrors(errs)
			branchExpr = e
		}
		branchBody := tp.parseNodes(stops)
		node.Branches = append(node.Branches, &ast.IfBranch{Cond: branchExpr, Body: branchBody})
	}

	if tp.hasPrefixAt("{/if}") {
		tp.advance(len("{/if}"))
	} else {
		tp.errorf("expected {/if} to close {#if}")
	}

	return node
}

// parseEach parses {#each iterable as item (key)?} ... {/each}
func (tp *templateParser) parseEach() ast.TemplateNode {
	line := tp.line
	node := &ast.EachNode{Line: line}

	header, ok := tp.readBalancedBraces()
	if !ok {
		tp.errorf("unterminated {#each ...}")
		return node
	}
	header = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "#each"))

	asIdx := strings.Index(header, " as ")
	if asIdx < 0 {
		tp.errorf("expected 'as' in {#each ...}")
		return node
	}
	iterableSrc := strings.TrimSpace(header[:asIdx])
	rest := strings.TrimSpace(header[asIdx+len(" as "):])

	keyStart := strings.Index(rest, "(")
	itemName := rest
	if keyStart >= 0 && strings.HasSuffix(rest, ")") {
		itemName = strings.TrimSpace(rest[:keyStart])
		keySrc := strings.TrimSpace(rest[keyStart+1 : len(rest)-1])
		keyExpr, errs := script.ParseExpr(keySrc, line)
		tp.mergeExprErrors(errs)
		node.KeyExpr = keyExpr
	}
	node.ItemBinding = itemName

	iterExpr, errs := script.ParseExpr(iterableSrc, line)
	tp.mergeExprErrors(errs)
	node.Iterable = iterExpr

	node.Body = tp.parseNodes([]string{"{/each}"})

	if tp.hasPrefixAt("{/each}") {
		tp.advance(len("{/each}"))
	} else {
		tp.errorf("expected {/each} to close {#each}")
	}

	return node
}

// parseTag parses an element, a <Component/> instance, or a <slot/>.
func (tp *templateParser) parseTag() ast.TemplateNode {
	line := tp.line
	tp.advance(1) // consume '<'

	if tp.peekByte() == '/' {
		// A stray closing tag reached without a matching open (malformed
		// input); skip it defensively rather than looping forever.
		for !tp.atEOF() && tp.peekByte() != '>' {
			tp.advance(1)
		}
		if !tp.atEOF() {
			tp.advance(1)
		}
		return nil
	}

	name := tp.readTagName()
	if name == "" {
		tp.errorf("expected tag name after '<'")
		return nil
	}

	if name == "slot" {
		return tp.finishSlot(line)
	}

	attrs, events, styleProps, twoWay, selfClose := tp.parseAttrs()

	// HTML void elements such as <input> take no closing tag.
	switch name {
	case "input", "img", "br", "hr", "meta", "link":
		selfClose = true
	}

	isComponent := len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'

	if selfClose {
		if isComponent {
			return &ast.ComponentInstanceNode{Name: name, Props: attrs, Line: line}
		}
		return &ast.ElementNode{Tag: name, Attrs: attrs, Events: events, StyleProps: styleProps, TwoWayBind: twoWay, SelfClose: true, Line: line}
	}

	closing := "</" + name + ">"
	children := tp.parseNodes([]string{closing})
	if tp.hasPrefixAt(closing) {
		tp.advance(len(closing))
	} else {
		tp.errorf("expected %s to close <%s>", closing, name)
	}

	if isComponent {
		return &ast.ComponentInstanceNode{Name: name, Props: attrs, Children: children, Line: line}
	}
	return &ast.ElementNode{Tag: name, Attrs: attrs, Events: events, StyleProps: styleProps, TwoWayBind: twoWay, Children: children, Line: line}
}

func (tp *templateParser) finishSlot(line int) ast.TemplateNode {
	name := ""
	tp.skipSpaces()
	if tp.hasPrefixAt("name=") {
		tp.advance(len("name="))
		if q, ok := tp.readQuotedString(); ok {
			name = q
		}
	}
	tp.skipSpaces()
	if tp.hasPrefixAt("/>") {
		tp.advance(2)
	} else if tp.peekByte() == '>' {
		tp.advance(1)
	}
	return &ast.SlotNode{Name: name, Line: line}
}

func (tp *templateParser) readTagName() string {
	start := tp.pos
	for !tp.atEOF() {
		c := tp.peekByte()
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			tp.advance(1)
			continue
		}
		break
	}
	return tp.input[start:tp.pos]
}

func (tp *templateParser) skipSpaces() {
	for !tp.atEOF() {
		c := tp.peekByte()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			tp.advance(1)
			continue
		}
		break
	}
}

// parseAttrs parses the attribute list of an opening tag, up to its closing
// '>' or self-closing '/>', recognizing plain, @event, style:prop and <~
// two-way-bind forms.
func (tp *templateParser) parseAttrs() (attrs []*ast.AttrBinding, events []*ast.EventBinding, styleProps []*ast.StylePropBinding, twoWay ast.Expression, selfClose bool) {
	for {
		tp.skipSpaces()
		if tp.atEOF() {
			return
		}
		if tp.hasPrefixAt("/>") {
			tp.advance(2)
			selfClose = true
			return
		}
		if tp.peekByte() == '>' {
			tp.advance(1)
			return
		}
		if tp.hasPrefixAt("<~") {
			tp.advance(2)
			tp.skipSpaces()
			start := tp.pos
			for !tp.atEOF() && tp.peekByte() != '>' && tp.peekByte() != ' ' {
				tp.advance(1)
			}
			expr, errs := script.ParseExpr(strings.TrimSpace(tp.input[start:tp.pos]), tp.line)
			tp.mergeExprErrors(errs)
			twoWay = expr
			continue
		}

		name := tp.readAttrName()
		if name == "" {
			// Unrecognized character; advance to avoid looping forever.
			tp.advance(1)
			continue
		}

		if tp.peekByte() != '=' {
			attrs = append(attrs, &ast.AttrBinding{Name: name, IsStatic: true, Static: ""})
			continue
		}
		tp.advance(1) // consume '='

		var value ast.Expression
		var staticVal string
		isStatic := false
		if tp.peekByte() == '{' {
			inner, ok := tp.readBalancedBraces()
			if ok {
				expr, errs := script.ParseExpr(inner, tp.line)
				tp.mergeExprErrors(errs)
				value = expr
			}
		} else if q, ok := tp.readQuotedString(); ok {
			staticVal = q
			isStatic = true
		}

		switch {
		case strings.HasPrefix(name, "@"):
			events = append(events, &ast.EventBinding{Name: strings.TrimPrefix(name, "@"), Handler: value})
		case strings.HasPrefix(name, "style:"):
			styleProps = append(styleProps, &ast.StylePropBinding{Prop: strings.TrimPrefix(name, "style:"), Value: value})
		default:
			attrs = append(attrs, &ast.AttrBinding{Name: name, Value: value, IsStatic: isStatic, Static: staticVal})
		}
	}
}

func (tp *templateParser) readAttrName() string {
	start := tp.pos
	if tp.peekByte() == '@' {
		tp.advance(1)
	}
	for !tp.atEOF() {
		c := tp.peekByte()
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':' {
			tp.advance(1)
			continue
		}
		break
	}
	return tp.input[start:tp.pos]
}

func (tp *templateParser) readQuotedString() (string, bool) {
	if tp.peekByte() != '"' && tp.peekByte() != '\'' {
		return "", false
	}
	quote := tp.peekByte()
	tp.advance(1)
	start := tp.pos
	for !tp.atEOF() && tp.peekByte() != quote {
		tp.advance(1)
	}
	value := tp.input[start:tp.pos]
	if !tp.atEOF() {
		tp.advance(1)
	}
	return value, true
}
