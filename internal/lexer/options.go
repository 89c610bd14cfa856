package lexer

import (
	"nafi/internal/diag"
	"nafi/internal/source"
	"nafi/internal/token"
	"nafi/internal/trace"
)

type Options struct {
	// Reporter получает диагностики о деградировавших токенах. при nil молча продолжаем.
	Reporter diag.Reporter
	// Interner, if set, interns Identifier and Symbol text; Token.Sym carries the handle.
	Interner *source.Interner
	// Tracer receives node-scope events on driver mode transitions. nil means trace.Nop.
	Tracer trace.Tracer
	// StartMode is the driver's initial mode; ModeCode unless lexing a bare string body.
	StartMode token.Mode
}

func (lx *Lexer) warn(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevWarning, sp, msg, nil)
	}
}
