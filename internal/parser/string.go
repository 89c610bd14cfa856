package parser

import (
	"nafi/internal/diag"
	"nafi/internal/syntax"
	"nafi/internal/token"
)

// StringLiteral := StringStart (Text | Escape | InvalidEscape | Interpolation)* StringEnd?
// Interpolation := InterpolationStart Expr "}"
func (p *Parser) stringLiteral() {
	p.peek()
	p.start(syntax.StringLiteral)
	open, _ := p.bump()
	defer p.finish()
	for {
		tok, ok := p.raw(0)
		if !ok {
			p.report(diag.SynUnclosedString, p.span(syntax.Range{Start: open.Span.Start, End: p.b.Pos()}),
				"unterminated string literal")
			return
		}
		switch {
		case tok.Kind == token.StringEnd:
			p.pushRaw()
			return
		case tok.Kind == token.InterpolationStart:
			p.pushRaw()
			p.expr()
			p.closeWith("}", diag.SynUnclosedBrace, "expected '}' to close interpolation")
		case tok.Kind.Mode() == token.ModeString:
			p.pushRaw()
		default:
			// незакрытая интерполяция: остаток разбирает внешний уровень
			return
		}
	}
}
