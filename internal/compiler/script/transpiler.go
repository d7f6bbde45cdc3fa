package script

import (
	"fmt"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
)

// SourceMap tracks line mappings from generated Go code back to the
// originating .egh script section.
type SourceMap struct {
	Entries []SourceMapEntry
}

type SourceMapEntry struct {
	GoLine   int
	EghLine  int
}

// TranspileResult holds the output of transpiling a single function body.
type TranspileResult struct {
	GoCode    string
	SourceMap *SourceMap
	Errors    []string
}

// Transpiler lowers script-section statements and expressions into literal
// Go source. Rewrite, when set, maps a bare identifier to the expression
// used to read it in generated code (e.g. a reactive binding "count"
// becomes "c.count") — callers that don't need rewriting leave it nil.
type Transpiler struct {
	buf       strings.Builder
	sourceMap *SourceMap
	goLine    int
	indent    int
	Rewrite   func(name string) string
}

func NewTranspiler() *Transpiler {
	return &Transpiler{
		sourceMap: &SourceMap{Entries: []SourceMapEntry{}},
	}
}

// TranspileFunc converts a single FuncDecl into a Go function declaration.
func TranspileFunc(fn *ast.FuncDecl, rewrite func(string) string) *TranspileResult {
	t := NewTranspiler()
	t.Rewrite = rewrite

	t.emit("func %s(", fn.Name)
	for i, param := range fn.Params {
		if i > 0 {
			t.emit(", ")
		}
		t.emit("%s %s", param.Name, transpileType(param.Type))
	}
	returnType := fn.ReturnType
	t.emit(")")
	if returnType != "" {
		t.emit(" %s", returnType)
	}
	t.emit(" {\n")
	t.indent++

	for _, stmt := range fn.Body {
		t.transpileStmt(stmt)
	}

	t.indent--
	t.emit("}\n")

	return &TranspileResult{GoCode: t.buf.String(), SourceMap: t.sourceMap}
}

// TranspileBlock converts a bare statement list (an effect body, for
// instance) into an indented Go block's interior, without the
// surrounding function signature.
func TranspileBlock(body []ast.Statement, rewrite func(string) string, indent int) string {
	t := NewTranspiler()
	t.Rewrite = rewrite
	t.indent = indent
	for _, stmt := range body {
		t.transpileStmt(stmt)
	}
	return t.buf.String()
}

// TranspileExpr converts a single expression into Go source.
func TranspileExpr(expr ast.Expression, rewrite func(string) string) string {
	t := NewTranspiler()
	t.Rewrite = rewrite
	return t.transpileExpr(expr)
}

func (t *Transpiler) transpileStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		t.emitIndent()
		t.emit("%s := %s\n", s.Name, t.transpileExpr(s.Value))
	case *ast.ReturnStmt:
		t.emitIndent()
		if s.Value == nil {
			t.emit("return\n")
			return
		}
		t.emit("return %s\n", t.transpileExpr(s.Value))
	case *ast.IfStmt:
		t.transpileIfStmt(s)
	case *ast.ExprStmt:
		t.emitIndent()
		t.emit("%s\n", t.transpileExpr(s.Expr))
	case *ast.AssignStmt:
		t.emitIndent()
		t.emit("%s = %s\n", t.transpileExpr(s.Target), t.transpileExpr(s.Value))
	default:
		t.emitIndent()
		t.emit("// unknown statement type: %T\n", stmt)
	}
}

func (t *Transpiler) transpileIfStmt(stmt *ast.IfStmt) {
	t.emitIndent()
	t.emit("if %s {\n", t.transpileExpr(stmt.Condition))
	t.indent++
	for _, s := range stmt.Consequence {
		t.transpileStmt(s)
	}
	t.indent--

	if len(stmt.Alternative) > 0 {
		t.emitIndent()
		t.emit("} else {\n")
		t.indent++
		for _, s := range stmt.Alternative {
			t.transpileStmt(s)
		}
		t.indent--
	}

	t.emitIndent()
	t.emit("}\n")
}

func (t *Transpiler) transpileExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return t.rewriteName(e.Name)
	case *ast.IntLit:
		return e.Value
	case *ast.FloatLit:
		return e.Value
	case *ast.StringLit:
		if len(e.Parts) > 0 {
			return t.transpileStringInterpolationParts(e.Parts)
		}
		return fmt.Sprintf("%q", e.Value)
	case *ast.BoolLit:
		return fmt.Sprintf("%t", e.Value)
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", t.transpileExpr(e.Left), e.Op, t.transpileExpr(e.Right))
	case *ast.UnaryExpr:
		return fmt.Sprintf("%s%s", e.Op, t.transpileExpr(e.Operand))
	case *ast.CallExpr:
		return t.transpileCallExpr(e)
	case *ast.MemberExpr:
		return fmt.Sprintf("%s.%s", t.transpileExpr(e.Object), e.Property)
	default:
		return fmt.Sprintf("/* unknown expr: %T */", expr)
	}
}

func (t *Transpiler) rewriteName(name string) string {
	if t.Rewrite != nil {
		return t.Rewrite(name)
	}
	return name
}

func (t *Transpiler) transpileCallExpr(expr *ast.CallExpr) string {
	var args []string
	for _, arg := range expr.Args {
		args = append(args, t.transpileExpr(arg))
	}
	return fmt.Sprintf("%s(%s)", t.transpileExpr(expr.Function), strings.Join(args, ", "))
}

func (t *Transpiler) transpileStringInterpolationParts(parts []ast.StringPart) string {
	var formatParts []string
	var args []string

	for _, part := range parts {
		if part.IsExpr {
			formatParts = append(formatParts, "%v")
			args = append(args, t.transpileExpr(part.Expr))
		} else {
			formatParts = append(formatParts, part.Text)
		}
	}

	formatStr := strings.Join(formatParts, "")
	if len(args) == 0 {
		return fmt.Sprintf("%q", formatStr)
	}

	return fmt.Sprintf("fmt.Sprintf(%q, %s)", formatStr, strings.Join(args, ", "))
}

func transpileType(typ string) string {
	switch typ {
	case "":
		return "any"
	default:
		return typ
	}
}

func (t *Transpiler) emit(format string, args ...interface{}) {
	str := fmt.Sprintf(format, args...)
	t.buf.WriteString(str)
	t.goLine += strings.Count(str, "\n")
}

func (t *Transpiler) emitIndent() {
	t.buf.WriteString(strings.Repeat("\t", t.indent))
}
