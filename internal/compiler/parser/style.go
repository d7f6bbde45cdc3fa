package parser

import (
	"regexp"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
)

// ruleRegex splits a flat (non-nested) CSS rule list into selector/body
// pairs. The style block grammar this compiler accepts is intentionally
// narrow — flat selector { declarations } rules, no @media or nesting —
// so a regex scan is sufficient and avoids a dependency on a full CSS
// parser that nothing else in this module needs.
var ruleRegex = regexp.MustCompile(`(?s)([^{}]+)\{([^{}]*)\}`)

// parseStyleRules extracts selector/declaration pairs from a <style> block.
func parseStyleRules(source string) []*ast.StyleRule {
	matches := ruleRegex.FindAllStringSubmatch(source, -1)
	rules := make([]*ast.StyleRule, 0, len(matches))
	for _, m := range matches {
		selector := strings.TrimSpace(m[1])
		decls := strings.TrimSpace(m[2])
		if selector == "" {
			continue
		}
		rules = append(rules, &ast.StyleRule{Selector: selector, Declarations: decls})
	}
	return rules
}

// ScopeSelector rewrites a simple selector list by appending the
// component's scope class to each comma-separated simple selector, so
// `.counter, button` becomes `.counter.scope-xyz, button.scope-xyz`.
func ScopeSelector(selector, scopeClass string) string {
	parts := strings.Split(selector, ",")
	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts[i] = trimmed + "." + scopeClass
	}
	return strings.Join(parts, ", ")
}
