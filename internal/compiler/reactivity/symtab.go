package reactivity

import "github.com/egh-lang/egh/internal/compiler/ast"

// Kind tags a declared identifier with the script construct that introduced
// it, per the symbol table step of the analyzer.
type Kind int

const (
	KindBinding Kind = iota
	KindDerived
	KindEffect
	KindFunction
	KindImport
)

func (k Kind) String() string {
	switch k {
	case KindBinding:
		return "binding"
	case KindDerived:
		return "derived"
	case KindEffect:
		return "effect"
	case KindFunction:
		return "function"
	case KindImport:
		return "import"
	default:
		return "unknown"
	}
}

// Symbol is one entry in the script's symbol table.
type Symbol struct {
	Name string
	Kind Kind
	Line int
}

// SymbolTable maps every name declared in a script section to its Symbol.
type SymbolTable struct {
	symbols map[string]*Symbol
	// order preserves declaration order, used to break topological-sort ties.
	order []string
}

// BuildSymbolTable collects every binding, derived, effect, function and
// import name from script into a SymbolTable, in declaration order.
func BuildSymbolTable(script *ast.ScriptAst) *SymbolTable {
	st := &SymbolTable{symbols: make(map[string]*Symbol)}
	if script == nil {
		return st
	}

	for _, imp := range script.Imports {
		name := imp.Default
		if name == "" {
			name = imp.Alias
		}
		if name != "" {
			st.declare(name, KindImport, imp.Line)
		}
		for _, member := range imp.Members {
			st.declare(member, KindImport, imp.Line)
		}
	}
	for _, b := range script.Bindings {
		st.declare(b.Name, KindBinding, b.Line)
	}
	for _, d := range script.Deriveds {
		st.declare(d.Name, KindDerived, d.Line)
	}
	for _, e := range script.Effects {
		st.declare(e.Name, KindEffect, e.Line)
	}
	for _, f := range script.Funcs {
		st.declare(f.Name, KindFunction, f.Line)
	}

	return st
}

func (st *SymbolTable) declare(name string, kind Kind, line int) {
	if _, exists := st.symbols[name]; exists {
		return
	}
	st.symbols[name] = &Symbol{Name: name, Kind: kind, Line: line}
	st.order = append(st.order, name)
}

// Lookup returns the Symbol for name, or nil if undeclared.
func (st *SymbolTable) Lookup(name string) *Symbol {
	return st.symbols[name]
}

// Order returns declared names in declaration order, used as the
// tie-breaker for the topological sort.
func (st *SymbolTable) Order() []string {
	return st.order
}

// ReactiveNames returns the declared names that participate in the
// dependency graph: bindings and deriveds (effects are graph sinks, not
// dependency targets of other nodes, but they do read from this set).
func (st *SymbolTable) ReactiveNames() map[string]bool {
	out := make(map[string]bool)
	for name, sym := range st.symbols {
		if sym.Kind == KindBinding || sym.Kind == KindDerived {
			out[name] = true
		}
	}
	return out
}
