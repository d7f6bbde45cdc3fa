package parser

import (
	"fmt"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/diagnostics"
	"github.com/egh-lang/egh/internal/compiler/lexer"
	"github.com/egh-lang/egh/internal/compiler/script"
	"github.com/egh-lang/egh/internal/compiler/token"
)

type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	errors    []string
	lexFatal  *diagnostics.Diagnostic
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	errMsg := fmt.Sprintf("%d:%d: %s", p.curToken.Pos.Line, p.curToken.Pos.Column, msg)
	p.errors = append(p.errors, errMsg)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.lexFatal == nil {
		if d := p.l.Fatal(); d != nil {
			p.lexFatal = d
			p.errors = append(p.errors, d.Error())
		}
	}
}

// LexFatal returns the fatal lex diagnostic (UnterminatedBlock or
// BadUtf8) that aborted this parse, or nil if lexing completed cleanly.
func (p *Parser) LexFatal() *diagnostics.Diagnostic {
	return p.lexFatal
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// ParseComponent is the main entry point for parsing a .egh file into a
// ComponentAst: a script section, a template section and an optional style
// section, assembled regardless of their order of appearance in the file.
func (p *Parser) ParseComponent(name string) *ast.ComponentAst {
	component := &ast.ComponentAst{
		Name:    name,
		Imports: []*ast.ImportDecl{},
	}

	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.RAW_GO:
			source := p.curToken.Literal
			lineOffset := p.curToken.Pos.Line

			result, parseErrors := script.Parse(source, lineOffset)
			for _, err := range parseErrors {
				p.errors = append(p.errors, fmt.Sprintf("script parsing: %s", err))
			}

			component.Script = &ast.ScriptAst{
				Source:    source,
				StartLine: lineOffset,
				Imports:   result.Imports,
				Bindings:  result.Bindings,
				Deriveds:  result.Deriveds,
				Effects:   result.Effects,
				Funcs:     result.Funcs,
			}
			component.Imports = append(component.Imports, result.Imports...)

			p.nextToken()

		case token.RAW_TEMPLATE:
			source := p.curToken.Literal
			tp := newTemplateParser(source, p.curToken.Pos.Line)
			root, tErrors := tp.parse()
			for _, err := range tErrors {
				p.errors = append(p.errors, fmt.Sprintf("template parsing: %s", err))
			}
			component.Template = &ast.TemplateAst{
				Source: source,
				Root:   root,
			}
			p.nextToken()

		case token.RAW_STYLE:
			content := p.curToken.Literal
			scoped := false
			if strings.HasPrefix(content, "SCOPED:") {
				scoped = true
				content = content[len("SCOPED:"):]
			}
			component.Style = &ast.StyleAst{
				Source: content,
				Scoped: scoped,
				Rules:  parseStyleRules(content),
			}
			p.nextToken()

		default:
			p.nextToken()
		}
	}

	return component
}
