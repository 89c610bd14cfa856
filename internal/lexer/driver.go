package lexer

import (
	"strconv"

	"nafi/internal/diag"
	"nafi/internal/source"
	"nafi/internal/token"
	"nafi/internal/trace"
)

// Lexed is a token together with the driver state at the moment it was produced.
type Lexed struct {
	token.Token
	// Depth is the number of enclosing string/interpolation frames.
	Depth int
}

// Driver interleaves NextCode and NextString across nested interpolation.
//
// It keeps a stack of brace depths, one frame per open string or
// interpolation. In code mode '{' bumps the top frame; a '}' on a frame at
// zero that has an outer frame closes the interpolation and returns to
// string mode. StringStart and InterpolationStart push a fresh frame;
// StringEnd pops one.
type Driver struct {
	lx     *Lexer
	mode   token.Mode
	stack  []uint32
	tracer trace.Tracer
	done   bool
}

func NewDriver(file *source.File, opts Options) *Driver {
	t := opts.Tracer
	if t == nil {
		t = trace.Nop
	}
	return &Driver{
		lx:     New(file, opts),
		mode:   opts.StartMode,
		stack:  []uint32{0},
		tracer: t,
	}
}

// Mode is the rule set the next call to Next will use.
func (d *Driver) Mode() token.Mode { return d.mode }

// Depth is the current nesting depth (0 at top level).
func (d *Driver) Depth() int { return len(d.stack) - 1 }

// Next returns the next token; ok is false at end of input.
func (d *Driver) Next() (Lexed, bool) {
	if d.done {
		return Lexed{}, false
	}
	depth := d.Depth()

	var (
		tok token.Token
		ok  bool
	)
	if d.mode == token.ModeCode {
		tok, ok = d.lx.NextCode()
	} else {
		tok, ok = d.lx.NextString()
	}
	if !ok {
		d.finish()
		return Lexed{}, false
	}

	switch d.mode {
	case token.ModeCode:
		d.afterCode(tok)
	case token.ModeString:
		d.afterString(tok)
	}
	return Lexed{Token: tok, Depth: depth}, true
}

func (d *Driver) afterCode(tok token.Token) {
	switch {
	case tok.IsSymbol("}"):
		top := d.pop()
		if top == 0 && len(d.stack) > 0 {
			d.switchTo(token.ModeString, tok)
			return
		}
		if top > 0 {
			top--
		}
		d.stack = append(d.stack, top)
	case tok.IsSymbol("{"):
		d.stack[len(d.stack)-1]++
	case tok.Kind == token.StringStart:
		d.stack = append(d.stack, 0)
		d.switchTo(token.ModeString, tok)
	}
}

func (d *Driver) afterString(tok token.Token) {
	switch tok.Kind {
	case token.InterpolationStart:
		d.stack = append(d.stack, 0)
		d.switchTo(token.ModeCode, tok)
	case token.StringEnd:
		d.pop()
		if len(d.stack) == 0 {
			// лексинг начался в строковом режиме: дальше обычный код верхнего уровня
			d.stack = append(d.stack, 0)
		}
		d.switchTo(token.ModeCode, tok)
	}
}

func (d *Driver) pop() uint32 {
	top := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	return top
}

func (d *Driver) switchTo(m token.Mode, at token.Token) {
	d.mode = m
	if trace.Enabled(d.tracer, trace.ScopeNode) {
		trace.Point(d.tracer, trace.ScopeNode, "mode", m.String(), 0,
			"at", strconv.FormatUint(uint64(at.Span.Start), 10),
			"depth", strconv.Itoa(d.Depth()))
	}
}

// finish reports string literals still open at EOF.
func (d *Driver) finish() {
	d.done = true
	if d.mode != token.ModeString || d.lx.opts.Reporter == nil {
		return
	}
	end := d.lx.Offset()
	sp := source.Span{File: d.lx.file.ID, Start: end, End: end}
	d.lx.opts.Reporter.Report(diag.LexUnterminatedString, diag.SevWarning, sp, "unterminated string literal", nil)
}

// Lex tokenizes the whole file through a Driver.
func Lex(file *source.File, opts Options) []Lexed {
	d := NewDriver(file, opts)
	out := make([]Lexed, 0, len(file.Content)/4+1)
	for {
		tok, ok := d.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// Tokens strips driver state from a Lex result.
func Tokens(lexed []Lexed) []token.Token {
	out := make([]token.Token, len(lexed))
	for i := range lexed {
		out[i] = lexed[i].Token
	}
	return out
}
