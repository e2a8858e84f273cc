package parser

import (
	"fmt"
	"stg/ast"
	"stg/lexer"
	"stg/token"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// binopIntrinsics desugars infix arithmetic to intrinsic application,
// e.g. `a + b` parses as `plus# {a, b}`.
var binopIntrinsics = map[token.TokType]string{
	token.Plus:  "plus#",
	token.Minus: "minus#",
	token.Mult:  "times#",
	token.Div:   "div#",
}

type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken token.Token
}

// bailout aborts parsing after an error has been recorded;
// ParseProgram recovers it.
type bailout struct{}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	// read in first token
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.l.NextToken()
}

func (p *Parser) expectToken(t token.TokType) token.Token {
	tok := p.curToken

	if !p.curTokenIs(t) {
		p.error(fmt.Sprintf("expected next token to be %v, got %q instead", t, tok.Literal))
	}

	p.nextToken()
	return tok
}

func (p *Parser) curTokenIs(t token.TokType) bool {
	return p.curToken.Type == t
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) error(err string) {
	p.errors = append(p.errors, err)
	panic(bailout{})
}

/*
program :=

	(`define` binding `;`?)+
*/
func (p *Parser) ParseProgram() (program *ast.Program) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
		}
	}()

	program = &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		p.expectToken(token.Define)
		program.Bindings = append(program.Bindings, p.parseBinding())

		if p.curTokenIs(token.Semicolon) {
			p.nextToken()
		}
	}

	return program
}

// binding := name `=` lambda
func (p *Parser) parseBinding() ast.Binding {
	name := p.expectToken(token.ID).Literal
	p.expectToken(token.Bind)

	return ast.Binding{Name: name, Lambda: p.parseLambda()}
}

// lambda := `{` freeVars `}` (`\u` | `\n`) `{` boundVars `}` `->` expr
func (p *Parser) parseLambda() ast.LambdaForm {
	free := p.parseVarList()

	updatable := false
	switch p.curToken.Type {
	case token.Update:
		updatable = true
		p.nextToken()
	case token.NoUpdate:
		p.nextToken()
	default:
		p.error(fmt.Sprintf(`expected update marker \u or \n, got %q instead`, p.curToken.Literal))
	}

	bound := p.parseVarList()
	p.expectToken(token.Arrow)

	return ast.LambdaForm{
		Free:      free,
		Updatable: updatable,
		Bound:     bound,
		Body:      p.parseExpr(),
	}
}

func (p *Parser) parseExpr() ast.Expr {
	switch p.curToken.Type {
	case token.Let, token.Letrec:
		return p.parseLet()
	case token.Case:
		return p.parseCase()
	case token.Int:
		n := p.parseInt()
		if intrinsic, ok := p.consumeBinop(); ok {
			lhs := &ast.IntAtom{Value: n}
			return &ast.AppExpr{Target: intrinsic, Atoms: []ast.Atom{lhs, p.parseAtom()}}
		}
		return &ast.IntExpr{Value: n}
	case token.ID:
		name := p.curToken.Literal
		p.nextToken()

		if intrinsic, ok := p.consumeBinop(); ok {
			lhs := &ast.VarAtom{Name: name}
			return &ast.AppExpr{Target: intrinsic, Atoms: []ast.Atom{lhs, p.parseAtom()}}
		}

		atoms := p.parseAtomList()
		if isConstructorName(name) {
			return &ast.ConExpr{Name: name, Atoms: atoms}
		}
		return &ast.AppExpr{Target: name, Atoms: atoms}
	}

	p.error(fmt.Sprintf("expected an expression, got %q instead", p.curToken.Literal))
	return nil
}

// let := (`let` | `letrec`) binding (`;` binding)* `in` expr
func (p *Parser) parseLet() ast.Expr {
	isRec := p.curTokenIs(token.Letrec)
	p.nextToken()

	bindings := []ast.Binding{p.parseBinding()}
	for p.curTokenIs(token.Semicolon) {
		p.nextToken()
		bindings = append(bindings, p.parseBinding())
	}

	p.expectToken(token.In)

	return &ast.LetExpr{IsRec: isRec, Bindings: bindings, Body: p.parseExpr()}
}

// case := `case` expr `of` `{` alt (`;` alt)* `}`
func (p *Parser) parseCase() ast.Expr {
	p.nextToken()
	scrutinee := p.parseExpr()

	p.expectToken(token.Of)
	p.expectToken(token.LBrace)

	alts := []ast.Alt{p.parseAlt()}
	for p.curTokenIs(token.Semicolon) {
		p.nextToken()
		alts = append(alts, p.parseAlt())
	}

	p.expectToken(token.RBrace)

	return &ast.CaseExpr{Scrutinee: scrutinee, Alts: alts}
}

// alt := Con `{` vars `}` `->` expr | int `->` expr | name `->` expr
func (p *Parser) parseAlt() ast.Alt {
	if p.curTokenIs(token.Int) {
		n := p.parseInt()
		p.expectToken(token.Arrow)
		return &ast.IntAlt{Value: n, Body: p.parseExpr()}
	}

	name := p.expectToken(token.ID).Literal

	if p.curTokenIs(token.LBrace) {
		vars := p.parseVarList()
		p.expectToken(token.Arrow)
		return &ast.ConAlt{Con: name, Vars: vars, Body: p.parseExpr()}
	}

	p.expectToken(token.Arrow)
	return &ast.VarAlt{Name: name, Body: p.parseExpr()}
}

func (p *Parser) parseAtom() ast.Atom {
	switch p.curToken.Type {
	case token.Int:
		return &ast.IntAtom{Value: p.parseInt()}
	case token.ID:
		name := p.curToken.Literal
		p.nextToken()
		return &ast.VarAtom{Name: name}
	}

	p.error(fmt.Sprintf("expected an atom, got %q instead", p.curToken.Literal))
	return nil
}

func (p *Parser) parseAtomList() []ast.Atom {
	p.expectToken(token.LBrace)

	var atoms []ast.Atom
	for !p.curTokenIs(token.RBrace) {
		if len(atoms) > 0 {
			p.expectToken(token.Comma)
		}
		atoms = append(atoms, p.parseAtom())
	}
	p.nextToken()

	return atoms
}

func (p *Parser) parseVarList() []string {
	p.expectToken(token.LBrace)

	var vars []string
	for !p.curTokenIs(token.RBrace) {
		if len(vars) > 0 {
			p.expectToken(token.Comma)
		}
		vars = append(vars, p.expectToken(token.ID).Literal)
	}
	p.nextToken()

	return vars
}

func (p *Parser) parseInt() int64 {
	lit := p.expectToken(token.Int).Literal

	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		p.error(fmt.Sprintf("unable to make primitive int from %q", lit))
	}

	return n
}

func (p *Parser) consumeBinop() (string, bool) {
	intrinsic, ok := binopIntrinsics[p.curToken.Type]
	if ok {
		p.nextToken()
	}
	return intrinsic, ok
}

// Constructor names are distinguished from function names by an
// upper-case first letter, as in `Cons {1, rest}`.
func isConstructorName(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(first)
}
