package script

import (
	"fmt"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/lexer"
	"github.com/egh-lang/egh/internal/compiler/token"
)

// Precedence levels for Pratt parser
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	UNARY       // ! -
	CALL        // . ()
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.DOT:      CALL,
	token.LPAREN:   CALL,
}

type Parser struct {
	l          *lexer.Lexer
	curToken   token.Token
	peekToken  token.Token
	errors     []string
	lineOffset int // offset to add for source maps

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// ParseResult contains all parsed declarations from a <script> block.
type ParseResult struct {
	Imports  []*ast.ImportDecl
	Bindings []*ast.BindingDecl
	Deriveds []*ast.DerivedDecl
	Effects  []*ast.EffectDecl
	Funcs    []*ast.FuncDecl
}

// newParser builds a Parser with the Pratt prefix/infix tables registered
// and the first two tokens primed, ready for either top-level declaration
// parsing or bare expression parsing.
func newParser(source string, lineOffset int) *Parser {
	l := lexer.New(source)
	p := &Parser{
		l:          l,
		lineOffset: lineOffset,
		errors:     []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.BANG, p.parseUnaryExpression)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseBinaryExpression)
	p.registerInfix(token.MINUS, p.parseBinaryExpression)
	p.registerInfix(token.ASTERISK, p.parseBinaryExpression)
	p.registerInfix(token.SLASH, p.parseBinaryExpression)
	p.registerInfix(token.PERCENT, p.parseBinaryExpression)
	p.registerInfix(token.EQ, p.parseBinaryExpression)
	p.registerInfix(token.NOT_EQ, p.parseBinaryExpression)
	p.registerInfix(token.LT, p.parseBinaryExpression)
	p.registerInfix(token.GT, p.parseBinaryExpression)
	p.registerInfix(token.LT_EQ, p.parseBinaryExpression)
	p.registerInfix(token.GT_EQ, p.parseBinaryExpression)
	p.registerInfix(token.AND, p.parseBinaryExpression)
	p.registerInfix(token.OR, p.parseBinaryExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)

	p.nextToken()
	p.nextToken()

	return p
}

// ParseExpr parses a single bare expression, used by the template parser to
// evaluate {expr} interpolations, attribute bindings and directive
// conditions against the same grammar used inside <script>.
func ParseExpr(source string, lineOffset int) (ast.Expression, []string) {
	p := newParser(source, lineOffset)
	expr := p.parseExpression(LOWEST)
	return expr, p.errors
}

// Parse takes the raw script source and returns parsed declarations:
// imports, reactive bindings, deriveds, effects and plain functions.
func Parse(source string, lineOffset int) (*ParseResult, []string) {
	p := newParser(source, lineOffset)

	result := &ParseResult{
		Imports:  []*ast.ImportDecl{},
		Bindings: []*ast.BindingDecl{},
		Deriveds: []*ast.DerivedDecl{},
		Effects:  []*ast.EffectDecl{},
		Funcs:    []*ast.FuncDecl{},
	}

	hasNonImport := false

	for p.curToken.Type != token.EOF {
		switch {
		case p.curTokenIs(token.IMPORT):
			if hasNonImport {
				p.error("import declarations must appear before bindings, deriveds, effects, or functions")
				p.nextToken()
				continue
			}
			if importDecl := p.parseImportDecl(); importDecl != nil {
				result.Imports = append(result.Imports, importDecl)
			}
			p.nextToken()

		case p.curTokenIs(token.TILDE):
			hasNonImport = true
			if binding := p.parseBindingDecl(); binding != nil {
				result.Bindings = append(result.Bindings, binding)
			}
			p.nextToken()

		case p.curTokenIs(token.FUNC):
			hasNonImport = true
			if fn := p.parseFuncDecl(); fn != nil {
				result.Funcs = append(result.Funcs, fn)
			}
			p.nextToken()

		case p.curTokenIs(token.IDENT) && p.peekTokenIs(token.FATARROW):
			hasNonImport = true
			if derived := p.parseDerivedDecl(); derived != nil {
				result.Deriveds = append(result.Deriveds, derived)
			}
			p.nextToken()

		case p.curTokenIs(token.IDENT) && p.peekTokenIs(token.DCOLON):
			hasNonImport = true
			if effect := p.parseEffectDecl(); effect != nil {
				result.Effects = append(result.Effects, effect)
			}
			p.nextToken()

		default:
			p.error(fmt.Sprintf("expected import, binding (~name), derived (name =>), effect (name ::), or fn declaration, got %s", p.curToken.Type))
			p.nextToken()
		}
	}

	return result, p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) error(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curToken.Pos.Line, msg))
}

func (p *Parser) peekError(t token.TokenType) {
	p.error(fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type))
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// ============ IMPORT DECLARATION ============

// parseImportDecl handles three import syntaxes:
// 1. Default: import TaskItem from './components/TaskItem.egh'
// 2. Destructured: import { helper, Shared } from './shared.egh'
// 3. Native Go: import "github.com/some/pkg" as pkg
func (p *Parser) parseImportDecl() *ast.ImportDecl {
	line := p.curToken.Pos.Line + p.lineOffset
	p.nextToken()

	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseDestructuredImport(line)
	case token.STRING:
		return p.parseNativeImport(line)
	case token.IDENT:
		return p.parseDefaultImport(line)
	default:
		p.error(fmt.Sprintf("expected '{', string, or identifier after 'import', got %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseDefaultImport(line int) *ast.ImportDecl {
	importDecl := &ast.ImportDecl{Line: line}
	importDecl.Default = p.curToken.Literal

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	if p.curToken.Literal != "from" {
		p.error(fmt.Sprintf("expected 'from' after default import name, got %s", p.curToken.Literal))
		return nil
	}

	if !p.expectPeek(token.STRING) {
		return nil
	}
	importDecl.Path = p.curToken.Literal

	return importDecl
}

func (p *Parser) parseDestructuredImport(line int) *ast.ImportDecl {
	importDecl := &ast.ImportDecl{Line: line, Members: []string{}}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	importDecl.Members = append(importDecl.Members, p.curToken.Literal)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		importDecl.Members = append(importDecl.Members, p.curToken.Literal)
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	if p.curToken.Literal != "from" {
		p.error(fmt.Sprintf("expected 'from' after destructured import, got %s", p.curToken.Literal))
		return nil
	}

	if !p.expectPeek(token.STRING) {
		return nil
	}
	importDecl.Path = p.curToken.Literal

	return importDecl
}

func (p *Parser) parseNativeImport(line int) *ast.ImportDecl {
	importDecl := &ast.ImportDecl{Line: line, IsNative: true}
	importDecl.Path = p.curToken.Literal

	p.nextToken()
	if !(p.curToken.Type == token.AS || (p.curToken.Type == token.IDENT && p.curToken.Literal == "as")) {
		p.error(fmt.Sprintf("expected 'as' after package path in native import, got %s", p.curToken.Type))
		return nil
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	importDecl.Alias = p.curToken.Literal

	return importDecl
}

// ============ REACTIVE DECLARATIONS ============

// parseBindingDecl parses: ~name = expr or ~name: Type = expr
func (p *Parser) parseBindingDecl() *ast.BindingDecl {
	binding := &ast.BindingDecl{Line: p.curToken.Pos.Line + p.lineOffset}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	binding.Name = p.curToken.Literal

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		binding.Type = p.curToken.Literal
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()
	binding.Initializer = p.parseExpression(LOWEST)
	if binding.Initializer == nil {
		p.error("expected initializer expression for binding")
		return nil
	}

	return binding
}

// parseDerivedDecl parses: name => expr
func (p *Parser) parseDerivedDecl() *ast.DerivedDecl {
	derived := &ast.DerivedDecl{
		Name: p.curToken.Literal,
		Line: p.curToken.Pos.Line + p.lineOffset,
	}

	if !p.expectPeek(token.FATARROW) {
		return nil
	}

	p.nextToken()
	derived.Expr = p.parseExpression(LOWEST)
	if derived.Expr == nil {
		p.error("expected expression after '=>'")
		return nil
	}

	return derived
}

// parseEffectDecl parses: name :: { body }
func (p *Parser) parseEffectDecl() *ast.EffectDecl {
	effect := &ast.EffectDecl{
		Name: p.curToken.Literal,
		Line: p.curToken.Pos.Line + p.lineOffset,
	}

	if !p.expectPeek(token.DCOLON) {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	effect.Body = p.parseBlockStatement()
	if !p.curTokenIs(token.RBRACE) {
		p.error(fmt.Sprintf("expected } after effect body, got %s", p.curToken.Type))
		return nil
	}

	return effect
}

// ============ FUNCTION DECLARATION ============

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	fn := &ast.FuncDecl{Line: p.curToken.Pos.Line + p.lineOffset}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	fn.Params = p.parseFuncParams()

	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.ReturnType = p.curToken.Literal
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	fn.Body = p.parseBlockStatement()

	if !p.curTokenIs(token.RBRACE) {
		p.error(fmt.Sprintf("expected } after function body, got %s", p.curToken.Type))
		return nil
	}

	return fn
}

func (p *Parser) parseFuncParams() []*ast.Param {
	params := []*ast.Param{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	param := p.parseOneParam()
	if param == nil {
		return nil
	}
	params = append(params, param)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()

		param := p.parseOneParam()
		if param == nil {
			return nil
		}
		params = append(params, param)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return params
}

func (p *Parser) parseOneParam() *ast.Param {
	if !p.curTokenIs(token.IDENT) {
		p.error(fmt.Sprintf("expected parameter name, got %s", p.curToken.Type))
		return nil
	}
	param := &ast.Param{Name: p.curToken.Literal}

	if !p.expectPeek(token.COLON) {
		return nil
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	param.Type = p.curToken.Literal

	return param
}

// ============ STATEMENTS ============

func (p *Parser) parseBlockStatement() []ast.Statement {
	statements := []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		}
		p.nextToken()
	}

	return statements
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET, token.CONST:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() *ast.LetStmt {
	stmt := &ast.LetStmt{Line: p.curToken.Pos.Line + p.lineOffset}

	p.nextToken()

	if !p.curTokenIs(token.IDENT) {
		p.error(fmt.Sprintf("expected variable name, got %s", p.curToken.Type))
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)

	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStmt {
	stmt := &ast.ReturnStmt{Line: p.curToken.Pos.Line + p.lineOffset}

	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)

	return stmt
}

func (p *Parser) parseIfStatement() *ast.IfStmt {
	stmt := &ast.IfStmt{Line: p.curToken.Pos.Line + p.lineOffset}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Alternative = p.parseBlockStatement()
	}

	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	line := p.curToken.Pos.Line + p.lineOffset
	expr := p.parseExpression(LOWEST)

	if expr == nil {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()

		return &ast.AssignStmt{
			Target: expr,
			Value:  p.parseExpression(LOWEST),
			Line:   line,
		}
	}

	return &ast.ExprStmt{Expr: expr, Line: line}
}

// ============ EXPRESSIONS ============

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.error(fmt.Sprintf("no prefix parse function for %s", p.curToken.Type))
		return nil
	}

	leftExp := prefix()

	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) &&
		!p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Ident{
		Name: p.curToken.Literal,
		Line: p.curToken.Pos.Line + p.lineOffset,
	}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	return &ast.IntLit{
		Value: p.curToken.Literal,
		Line:  p.curToken.Pos.Line + p.lineOffset,
	}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return &ast.FloatLit{
		Value: p.curToken.Literal,
		Line:  p.curToken.Pos.Line + p.lineOffset,
	}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	lit := &ast.StringLit{
		Value: p.curToken.Literal,
		Line:  p.curToken.Pos.Line + p.lineOffset,
	}

	if strings.Contains(p.curToken.Literal, "{") {
		lit.Parts = p.parseStringInterpolation(p.curToken.Literal)
	}

	return lit
}

func (p *Parser) parseStringInterpolation(s string) []ast.StringPart {
	parts := []ast.StringPart{}

	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && s[i] != '{' {
			i++
		}

		if i > start {
			parts = append(parts, ast.StringPart{IsExpr: false, Text: s[start:i]})
		}

		if i >= len(s) {
			break
		}

		i++ // skip '{'
		exprStart := i
		braceCount := 1
		for i < len(s) && braceCount > 0 {
			if s[i] == '{' {
				braceCount++
			} else if s[i] == '}' {
				braceCount--
			}
			if braceCount > 0 {
				i++
			}
		}

		if braceCount == 0 {
			exprText := s[exprStart:i]
			if expr := p.parseExpressionFromString(exprText); expr != nil {
				parts = append(parts, ast.StringPart{IsExpr: true, Expr: expr})
			}
			i++ // skip '}'
		}
	}

	return parts
}

func (p *Parser) parseExpressionFromString(s string) ast.Expression {
	subLexer := lexer.New(s)
	subParser := &Parser{
		l:          subLexer,
		lineOffset: p.lineOffset,
		errors:     []string{},
	}

	subParser.prefixParseFns = p.prefixParseFns
	subParser.infixParseFns = p.infixParseFns

	subParser.nextToken()
	subParser.nextToken()

	return subParser.parseExpression(LOWEST)
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BoolLit{
		Value: p.curToken.Type == token.TRUE,
		Line:  p.curToken.Pos.Line + p.lineOffset,
	}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	expr := &ast.UnaryExpr{
		Op:   p.curToken.Literal,
		Line: p.curToken.Pos.Line + p.lineOffset,
	}

	p.nextToken()
	expr.Operand = p.parseExpression(UNARY)

	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpr{
		Left: left,
		Op:   p.curToken.Literal,
		Line: p.curToken.Pos.Line + p.lineOffset,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)

	return expr
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	expr := &ast.MemberExpr{
		Object: left,
		Line:   p.curToken.Pos.Line + p.lineOffset,
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Property = p.curToken.Literal

	return expr
}

func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	expr := &ast.CallExpr{
		Function: left,
		Line:     p.curToken.Pos.Line + p.lineOffset,
		Args:     []ast.Expression{},
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return expr
	}

	p.nextToken()
	expr.Args = append(expr.Args, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr.Args = append(expr.Args, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return expr
}
