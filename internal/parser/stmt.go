package parser

import (
	"nafi/internal/diag"
	"nafi/internal/syntax"
	"nafi/internal/token"
)

// statement разбирает одно утверждение: let-объявление, присваивание или выражение.
func (p *Parser) statement() {
	tok, ok := p.peek()
	if !ok {
		return
	}
	if tok.IsIdent() {
		if kw, _ := token.LookupKeyword(tok.Text); kw == token.KwLet {
			p.declaration()
			return
		}
		if p.assignmentAhead() {
			p.assignment()
			return
		}
	}
	p.start(syntax.SideEffect)
	p.expr()
	p.eat(";")
	p.finish()
}

// assignmentAhead reports whether the buffered input reads `ident =` with a
// lone '=' (not the first half of '==').
func (p *Parser) assignmentAhead() bool {
	_, i, ok := p.look()
	if !ok {
		return false
	}
	for j := i + 1; ; j++ {
		tok, ok := p.raw(j)
		if !ok {
			return false
		}
		if tok.IsTrivia() {
			continue
		}
		if !tok.IsSymbol("=") {
			return false
		}
		next, ok := p.raw(j + 1)
		return !ok || !next.IsSymbol("=")
	}
}

// Declaration := "let" "mutable"? Identifier "=" Expr ";"?
func (p *Parser) declaration() {
	p.start(syntax.Declaration)
	p.bump() // let
	if tok, _, ok := p.look(); ok && tok.IsIdent() {
		if kw, _ := token.LookupKeyword(tok.Text); kw == token.KwMutable {
			p.bump()
		}
	}
	if tok, _, ok := p.look(); ok && tok.IsIdent() {
		p.bump()
	} else {
		p.missing(diag.SynUnexpectedToken, "expected binding name after 'let'")
	}
	if !p.eat("=") {
		p.reportHere(diag.SynUnexpectedToken, "expected '=' in let declaration")
	}
	p.expr()
	p.eat(";")
	p.finish()
}

// Assignment := Identifier "=" Expr ";"?
func (p *Parser) assignment() {
	p.start(syntax.Assignment)
	p.bump()
	p.bump() // =
	p.expr()
	p.eat(";")
	p.finish()
}

// block разбирает утверждения до закрывающей '}' (не включая её).
func (p *Parser) block() {
	for {
		tok, _, ok := p.look()
		if !ok || tok.IsSymbol("}") {
			return
		}
		if isStray(tok) {
			p.strayToken(tok)
			continue
		}
		p.statement()
	}
}
