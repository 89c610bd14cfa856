package parser

import (
	"nafi/internal/diag"
	"nafi/internal/lexer"
	"nafi/internal/source"
	"nafi/internal/syntax"
)

// синхронизирующие символы: на них ERROR-узел обрывается
func isSync(tok lexer.Lexed) bool {
	return tok.IsSymbol(";") || tok.IsSymbol("}") || tok.IsSymbol(")")
}

// isStray reports tokens no statement can start with or consume.
func isStray(tok lexer.Lexed) bool {
	return tok.IsSymbol(")") || tok.IsSymbol(",")
}

func (p *Parser) span(r syntax.Range) source.Span {
	return source.Span{File: p.file.ID, Start: r.Start, End: r.End}
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || p.opts.Enough() {
		return
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
}

// reportHere reports a zero-width error at the next significant token (or EOF).
func (p *Parser) reportHere(code diag.Code, msg string) {
	at := p.b.Pos()
	if tok, _, ok := p.look(); ok {
		at = tok.Span.Start
	}
	p.report(code, source.Span{File: p.file.ID, Start: at, End: at}, msg)
}

// errorUntil wraps the next significant token and everything up to (not
// including) the next synchronizing symbol into an ERROR node. At least one
// token is consumed unless the input is exhausted.
func (p *Parser) errorUntil(code diag.Code, msg string) {
	p.peek()
	p.start(syntax.Error)
	for first := true; ; first = false {
		tok, _, ok := p.look()
		if !ok || (!first && isSync(tok)) {
			break
		}
		p.bump()
	}
	id := p.finish()
	p.report(code, p.span(p.b.Range(id)), msg)
}

// strayToken wraps a single unexpected closer.
func (p *Parser) strayToken(tok lexer.Lexed) {
	p.peek()
	p.start(syntax.Error)
	p.bump()
	id := p.finish()
	p.report(diag.SynUnexpectedToken, p.span(p.b.Range(id)), "unexpected "+quote(tok.Text))
}

// missing pushes an empty ERROR node where something was required.
func (p *Parser) missing(code diag.Code, msg string) {
	p.peek()
	p.start(syntax.Error)
	id := p.finish()
	p.report(code, p.span(p.b.Range(id)), msg)
}

func quote(s string) string {
	return "'" + s + "'"
}
