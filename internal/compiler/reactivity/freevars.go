package reactivity

import "github.com/egh-lang/egh/internal/compiler/ast"

// FreeIdents returns every identifier name read by expr, in first-seen
// order, including duplicates collapsed. Assignment targets and call
// callees are treated as reads too (a call's callee may itself be a
// reactive function reference; member-expression bases are walked down to
// their root identifier).
func FreeIdents(expr ast.Expression) []string {
	var out []string
	seen := make(map[string]bool)
	walkExpr(expr, func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	})
	return out
}

// FreeIdentsInStatements walks a statement list (a function or effect
// body) and returns every free identifier read across all statements.
func FreeIdentsInStatements(stmts []ast.Statement) []string {
	var out []string
	seen := make(map[string]bool)
	record := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, stmt := range stmts {
		walkStmt(stmt, record)
	}
	return out
}

func walkStmt(stmt ast.Statement, record func(string)) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		walkExpr(s.Value, record)
	case *ast.AssignStmt:
		walkExpr(s.Target, record)
		walkExpr(s.Value, record)
	case *ast.ReturnStmt:
		if s.Value != nil {
			walkExpr(s.Value, record)
		}
	case *ast.IfStmt:
		walkExpr(s.Condition, record)
		for _, c := range s.Consequence {
			walkStmt(c, record)
		}
		for _, a := range s.Alternative {
			walkStmt(a, record)
		}
	case *ast.ExprStmt:
		walkExpr(s.Expr, record)
	}
}

func walkExpr(expr ast.Expression, record func(string)) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Ident:
		record(e.Name)
	case *ast.IntLit, *ast.FloatLit, *ast.BoolLit:
		// leaves, nothing to record
	case *ast.StringLit:
		for _, part := range e.Parts {
			if part.IsExpr {
				walkExpr(part.Expr, record)
			}
		}
	case *ast.UnaryExpr:
		walkExpr(e.Operand, record)
	case *ast.BinaryExpr:
		walkExpr(e.Left, record)
		walkExpr(e.Right, record)
	case *ast.CallExpr:
		walkExpr(e.Function, record)
		for _, arg := range e.Args {
			walkExpr(arg, record)
		}
	case *ast.MemberExpr:
		walkExpr(e.Object, record)
	}
}
