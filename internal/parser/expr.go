package parser

import (
	"nafi/internal/diag"
	"nafi/internal/lexer"
	"nafi/internal/syntax"
	"nafi/internal/token"
)

// binOp: бинарный оператор из одного или двух соседних символов.
type binOp struct {
	text string
	prec int
}

// от слабого к сильному; двухсимвольные идут раньше своих префиксов
var binOps = []binOp{
	{"||", 1},
	{"&&", 2},
	{"==", 3},
	{"!=", 3},
	{"<=", 4},
	{">=", 4},
	{"<", 4},
	{">", 4},
	{"+", 5},
	{"-", 5},
	{"*", 6},
	{"/", 6},
	{"%", 6},
}

// peekBinOp matches the next significant tokens against binOps. Two-character
// operators must be spelled by adjacent Symbol tokens.
func (p *Parser) peekBinOp() (binOp, bool) {
	first, i, ok := p.look()
	if !ok || first.Kind != token.Symbol {
		return binOp{}, false
	}
	second, ok := p.raw(i + 1)
	pair := ""
	if ok && second.Kind == token.Symbol {
		pair = first.Text + second.Text
	}
	for _, op := range binOps {
		if op.text == pair || op.text == first.Text {
			return op, true
		}
	}
	return binOp{}, false
}

func (p *Parser) expr() {
	p.binary(1)
}

// binary: разбор по старшинству: левоассоциативные BinaryOperation
// оборачиваются через Checkpoint/StartAt уже после того, как левый операнд разобран.
func (p *Parser) binary(minPrec int) {
	if !p.enter() {
		return
	}
	defer p.leave()

	p.peek()
	cp := p.b.Checkpoint()
	p.prefix()
	for {
		op, ok := p.peekBinOp()
		if !ok || op.prec < minPrec {
			return
		}
		for range len(op.text) {
			p.bump()
		}
		p.binary(op.prec + 1)
		p.startAt(cp, syntax.BinaryOperation)
		p.finish()
	}
}

// Prefix := ("-" | "!") Prefix | Suffix
func (p *Parser) prefix() {
	tok, _, ok := p.look()
	if ok && (tok.IsSymbol("-") || tok.IsSymbol("!")) {
		if !p.enter() {
			return
		}
		defer p.leave()
		p.peek()
		p.start(syntax.PrefixOperation)
		p.bump()
		p.prefix()
		p.finish()
		return
	}
	p.suffix()
}

// suffix разбирает первичное выражение и цепочку '?' и вызовов после него.
func (p *Parser) suffix() {
	p.peek()
	cp := p.b.Checkpoint()
	head, _, _ := p.look()
	if !p.primary() {
		return
	}
	called := false
	for {
		tok, _, ok := p.look()
		if !ok {
			return
		}
		switch {
		case tok.IsSymbol("?"):
			p.bump()
			p.startAt(cp, syntax.SuffixOperation)
			p.finish()
		case tok.IsSymbol("("):
			p.arguments()
			for p.at("{") {
				p.closure()
			}
			p.startAt(cp, syntax.FunctionCall)
			p.finish()
			called = true
		case tok.IsSymbol("{") && !called && head.IsIdent():
			// `name { ... }` это вызов с единственным замыканием
			for p.at("{") {
				p.closure()
			}
			p.startAt(cp, syntax.FunctionCall)
			p.finish()
			called = true
		default:
			return
		}
	}
}

// primary returns false when no expression could be formed; the caller then
// skips suffixes.
func (p *Parser) primary() bool {
	tok, _, ok := p.look()
	switch {
	case !ok:
		p.missing(diag.SynExpectExpression, "expected expression, found end of input")
		return false
	case tok.Kind == token.Identifier, tok.Kind == token.DecimalInteger:
		p.bump()
	case tok.Kind == token.StringStart:
		p.stringLiteral()
	case tok.IsSymbol("("):
		p.parenthesized()
	case tok.IsSymbol("{"):
		p.closure()
	case isSync(tok) || tok.IsSymbol(","):
		p.missing(diag.SynExpectExpression, "expected expression, found "+quote(tok.Text))
		return false
	default:
		p.errorUntil(diag.SynUnexpectedToken, "unexpected "+describe(tok))
		return false
	}
	return true
}

// Parenthesized := "(" Expr ")"
func (p *Parser) parenthesized() {
	p.peek()
	p.start(syntax.Parenthesized)
	p.bump()
	p.expr()
	p.closeWith(")", diag.SynUnclosedParen, "expected ')'")
	p.finish()
}

// arguments := "(" (FunctionCallArgument ("," FunctionCallArgument)*)? ")"
func (p *Parser) arguments() {
	p.bump() // (
	if p.eat(")") {
		return
	}
	for {
		p.peek()
		p.start(syntax.FunctionCallArgument)
		p.expr()
		p.finish()
		if !p.eat(",") {
			break
		}
	}
	p.closeWith(")", diag.SynUnclosedParen, "expected ')' after call arguments")
}

// Closure := "{" ("|" ClosureArgument ("," ClosureArgument)* "|")? Statement* "}"
func (p *Parser) closure() {
	p.peek()
	p.start(syntax.Closure)
	p.bump() // {
	if p.eat("|") {
		p.closureArguments()
	}
	p.block()
	if !p.eat("}") {
		p.reportHere(diag.SynUnclosedBrace, "expected '}' to close closure")
	}
	p.finish()
}

func (p *Parser) closureArguments() {
	if p.eat("|") {
		return
	}
	for {
		tok, _, ok := p.look()
		if !ok {
			p.reportHere(diag.SynUnexpectedToken, "expected closure argument")
			return
		}
		if tok.IsIdent() {
			p.peek()
			p.start(syntax.ClosureArgument)
			p.bump()
			p.finish()
		} else {
			p.missing(diag.SynUnexpectedToken, "expected closure argument name")
		}
		if p.eat(",") {
			continue
		}
		if p.eat("|") {
			return
		}
		p.reportHere(diag.SynUnexpectedToken, "expected ',' or '|' in closure arguments")
		return
	}
}

// closeWith pushes the closing symbol, skipping junk into an ERROR node first.
func (p *Parser) closeWith(sym string, code diag.Code, msg string) {
	if p.eat(sym) {
		return
	}
	if tok, _, ok := p.look(); ok && !isSync(tok) {
		p.errorUntil(diag.SynUnexpectedToken, "unexpected "+describe(tok))
		if p.eat(sym) {
			return
		}
	}
	p.reportHere(code, msg)
}

// enter/leave bound expression nesting; past the limit the rest of the
// expression becomes an ERROR node.
func (p *Parser) enter() bool {
	if p.depth >= maxNesting {
		if tok, _, ok := p.look(); ok && !isSync(tok) {
			p.errorUntil(diag.SynUnexpectedToken, "expression nested too deeply")
		} else {
			p.missing(diag.SynExpectExpression, "expression nested too deeply")
		}
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() { p.depth-- }

func describe(tok lexer.Lexed) string {
	switch tok.Kind {
	case token.Symbol, token.Identifier:
		return quote(tok.Text)
	default:
		return tok.Kind.String()
	}
}
