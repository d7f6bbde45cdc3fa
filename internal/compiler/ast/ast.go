package ast

// Node is the base interface for all AST nodes
type Node interface {
	TokenLiteral() string
}

// ComponentAst is the root AST node representing a complete .egh file:
// an optional script, template and style section plus the import list
// gathered from the script.
type ComponentAst struct {
	Name     string
	Imports  []*ImportDecl
	Script   *ScriptAst
	Template *TemplateAst
	Style    *StyleAst
}

func (c *ComponentAst) TokenLiteral() string { return "component" }

// ============ SCRIPT SECTION ============

// ImportDecl represents an import declaration with three syntaxes:
// 1. Default import: import TaskItem from './components/TaskItem.egh'
// 2. Destructured import: import { helper, Shared } from './shared.egh'
// 3. Native Go import: import "github.com/some/pkg" as pkg
type ImportDecl struct {
	Default  string   // "TaskItem" (import X from '...')
	Members  []string // ["helper", "Shared"] (import { x, y } from '...')
	Path     string   // "./components/TaskItem.egh" or "github.com/some/pkg"
	Alias    string   // "pkg" (import "pkg" as X)
	IsNative bool     // true for Go package imports (no 'from', has 'as')
	Line     int
}

func (i *ImportDecl) TokenLiteral() string { return "import" }

// BindingDecl: ~name = expr. A reactive storage cell; writes trigger
// dependents.
type BindingDecl struct {
	Name        string
	Type        string // optional, empty = inferred
	Initializer Expression
	Line        int
}

func (b *BindingDecl) TokenLiteral() string { return "~" + b.Name }

// DerivedDecl: name => expr. The generated component computes it in New and
// again on every Set, and stores the value for reads in between; it is not
// recomputed lazily on read. Deps is filled in by the reactivity analyzer,
// not the parser.
type DerivedDecl struct {
	Name string
	Expr Expression
	Deps []string
	Line int
}

func (d *DerivedDecl) TokenLiteral() string { return d.Name + "=>" }

// EffectDecl: name :: { body }. Side-effectful block re-run when any of Deps
// changes. Deps is filled in by the reactivity analyzer.
type EffectDecl struct {
	Name string
	Deps []string
	Body []Statement
	Line int
}

func (e *EffectDecl) TokenLiteral() string { return e.Name + "::" }

// ScriptAst contains ordered declarations from a <script> block.
type ScriptAst struct {
	Source    string // raw source, preserved for diagnostics/fallback
	StartLine int    // line offset in the .egh file for source maps
	Imports   []*ImportDecl
	Bindings  []*BindingDecl
	Deriveds  []*DerivedDecl
	Effects   []*EffectDecl
	Funcs     []*FuncDecl
}

func (s *ScriptAst) TokenLiteral() string { return "script" }

// FuncDecl represents an ordinary function declaration.
type FuncDecl struct {
	Name       string
	Params     []*Param
	ReturnType string // empty if void
	Body       []Statement
	Line       int
}

func (f *FuncDecl) TokenLiteral() string { return "func" }

// Param represents a function parameter.
type Param struct {
	Name string
	Type string
}

// Statement is the interface for all statements.
type Statement interface {
	Node
	statementNode()
}

// Expression is the interface for all expressions.
type Expression interface {
	Node
	expressionNode()
}

// ============ STATEMENTS ============

// LetStmt: let x = expr (a local, non-reactive binding inside a function
// or effect body).
type LetStmt struct {
	Name  string
	Value Expression
	Line  int
}

func (l *LetStmt) TokenLiteral() string { return "let" }
func (l *LetStmt) statementNode()       {}

// AssignStmt: x = expr, x.field = expr
type AssignStmt struct {
	Target Expression // Ident or MemberExpr
	Value  Expression
	Line   int
}

func (a *AssignStmt) TokenLiteral() string { return "=" }
func (a *AssignStmt) statementNode()       {}

// ReturnStmt: return expr
type ReturnStmt struct {
	Value Expression // nil for bare return
	Line  int
}

func (r *ReturnStmt) TokenLiteral() string { return "return" }
func (r *ReturnStmt) statementNode()       {}

// IfStmt: if condition { ... } else { ... }
type IfStmt struct {
	Condition   Expression
	Consequence []Statement
	Alternative []Statement // nil if no else
	Line        int
}

func (i *IfStmt) TokenLiteral() string { return "if" }
func (i *IfStmt) statementNode()       {}

// ExprStmt: expression used as statement (e.g. function calls)
type ExprStmt struct {
	Expr Expression
	Line int
}

func (e *ExprStmt) TokenLiteral() string { return e.Expr.TokenLiteral() }
func (e *ExprStmt) statementNode()       {}

// ============ EXPRESSIONS ============

// Ident: variable name
type Ident struct {
	Name string
	Line int
}

func (i *Ident) TokenLiteral() string { return i.Name }
func (i *Ident) expressionNode()      {}

// IntLit: 42
type IntLit struct {
	Value string
	Line  int
}

func (i *IntLit) TokenLiteral() string { return i.Value }
func (i *IntLit) expressionNode()      {}

// FloatLit: 3.14
type FloatLit struct {
	Value string
	Line  int
}

func (f *FloatLit) TokenLiteral() string { return f.Value }
func (f *FloatLit) expressionNode()      {}

// StringLit: "hello" (including interpolation segments)
type StringLit struct {
	Value string       // Raw string value
	Parts []StringPart // For interpolated strings, nil for simple
	Line  int
}

func (s *StringLit) TokenLiteral() string { return s.Value }
func (s *StringLit) expressionNode()      {}

// StringPart represents a segment of an interpolated string.
type StringPart struct {
	IsExpr bool
	Text   string     // Literal text (if !IsExpr)
	Expr   Expression // Expression (if IsExpr)
}

// BoolLit: true, false
type BoolLit struct {
	Value bool
	Line  int
}

func (b *BoolLit) TokenLiteral() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *BoolLit) expressionNode() {}

// UnaryExpr: !expr, -expr
type UnaryExpr struct {
	Op      string
	Operand Expression
	Line    int
}

func (u *UnaryExpr) TokenLiteral() string { return u.Op }
func (u *UnaryExpr) expressionNode()      {}

// BinaryExpr: a + b, a == b, a && b
type BinaryExpr struct {
	Left  Expression
	Op    string
	Right Expression
	Line  int
}

func (b *BinaryExpr) TokenLiteral() string { return b.Op }
func (b *BinaryExpr) expressionNode()      {}

// CallExpr: func(args...) — regular function call
type CallExpr struct {
	Function Expression // Ident or MemberExpr
	Args     []Expression
	Line     int
}

func (c *CallExpr) TokenLiteral() string { return "call" }
func (c *CallExpr) expressionNode()      {}

// MemberExpr: obj.field (property access)
type MemberExpr struct {
	Object   Expression
	Property string
	Line     int
}

func (m *MemberExpr) TokenLiteral() string { return "." }
func (m *MemberExpr) expressionNode()      {}

// ============ TEMPLATE SECTION ============

// TemplateAst is the parsed tree of a <template> block.
type TemplateAst struct {
	Source string // raw source, preserved for diagnostics/fallback
	Root   []TemplateNode
}

func (t *TemplateAst) TokenLiteral() string { return "template" }

// TemplateNode is the interface for all template tree nodes.
type TemplateNode interface {
	Node
	templateNode()
}

// ElementNode: <tag attr={expr} @event={handler} style:prop={expr}>children</tag>
type ElementNode struct {
	Tag        string
	Attrs      []*AttrBinding
	Events     []*EventBinding
	StyleProps []*StylePropBinding
	TwoWayBind Expression // non-nil for <tag <~ binding>
	Children   []TemplateNode
	SelfClose  bool
	Line       int
}

func (e *ElementNode) TokenLiteral() string { return e.Tag }
func (e *ElementNode) templateNode()        {}

// AttrBinding: name={expr} or a static name="literal" attribute.
type AttrBinding struct {
	Name     string
	Value    Expression
	IsStatic bool
	Static   string
}

// EventBinding: @event={handler}
type EventBinding struct {
	Name    string
	Handler Expression
}

// StylePropBinding: style:prop={expr}
type StylePropBinding struct {
	Prop  string
	Value Expression
}

// TextNode: a literal text run inside a template.
type TextNode struct {
	Literal string
	Line    int
}

func (t *TextNode) TokenLiteral() string { return t.Literal }
func (t *TextNode) templateNode()        {}

// InterpolationNode: {expr} or {@html expr}
type InterpolationNode struct {
	Expr    Expression
	Deps    []string // filled in by the reactivity analyzer
	Raw     bool     // true for {@html expr}
	PatchID string   // filled in by the reactivity analyzer
	Line    int
}

func (i *InterpolationNode) TokenLiteral() string { return "{}" }
func (i *InterpolationNode) templateNode()        {}

// IfNode: {#if cond} ... {:else if cond} ... {:else} ... {/if}
type IfNode struct {
	Branches []*IfBranch
	Line     int
}

func (i *IfNode) TokenLiteral() string { return "#if" }
func (i *IfNode) templateNode()        {}

// IfBranch is one arm of an IfNode; Cond is nil for the trailing {:else}.
type IfBranch struct {
	Cond Expression
	Body []TemplateNode
}

// EachNode: {#each items as item (key?)} ... {/each}
type EachNode struct {
	Iterable    Expression
	ItemBinding string
	KeyExpr     Expression // nil if no key
	Body        []TemplateNode
	Line        int
}

func (e *EachNode) TokenLiteral() string { return "#each" }
func (e *EachNode) templateNode()        {}

// SlotNode: <slot name?/>
type SlotNode struct {
	Name string // empty for the default slot
	Line int
}

func (s *SlotNode) TokenLiteral() string { return "slot" }
func (s *SlotNode) templateNode()        {}

// ComponentInstanceNode: <Name prop={x}>...</Name>
type ComponentInstanceNode struct {
	Name     string
	Props    []*AttrBinding
	Children []TemplateNode
	Line     int
}

func (c *ComponentInstanceNode) TokenLiteral() string { return c.Name }
func (c *ComponentInstanceNode) templateNode()        {}

// ============ STYLE SECTION ============

// StyleAst contains the parsed rules of a <style> block.
type StyleAst struct {
	Source string // raw CSS, preserved for diagnostics/fallback
	Scoped bool
	Rules  []*StyleRule
}

func (s *StyleAst) TokenLiteral() string { return "style" }

// StyleRule is one `selector { declarations }` rule. Scoping rewrites
// Selector by appending the component's scope class to each simple selector.
type StyleRule struct {
	Selector     string
	Declarations string
}
