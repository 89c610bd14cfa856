package lexer

import (
	"nafi/internal/source"
	"nafi/internal/token"
)

// Lexer pulls one token at a time from a file. It holds no mode of its own:
// the caller picks the rule set per call (NextCode / NextString). Driver does
// that bookkeeping for interpolated strings.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Offset is the byte offset of the next unread character.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

// File returns the file being lexed.
func (lx *Lexer) File() *source.File { return lx.file }

// NextCode tries every code-mode rule in precedence order and returns the
// first match. ok is false only at end of input.
func (lx *Lexer) NextCode() (tok token.Token, ok bool) {
	if lx.cursor.EOF() {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	kind := lx.scanCode()
	return lx.emit(kind, start), true
}

// NextString is NextCode for the body of a string literal.
func (lx *Lexer) NextString() (tok token.Token, ok bool) {
	if lx.cursor.EOF() {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	kind := lx.scanString()
	return lx.emit(kind, start), true
}

func (lx *Lexer) scanCode() token.Kind {
	// 1) комментарии
	if kind, ok := lx.scanComment(); ok {
		return kind
	}

	r, sz := lx.cursor.PeekRune()
	if r == invalidRune && sz == 1 {
		// битый UTF-8: один байт
		lx.cursor.Bump()
		return token.Invalid
	}
	switch {
	// 2) пробелы
	case isWhiteSpace(r):
		return lx.scanWhitespace()
	// 3) начало строки
	case r == '"':
		lx.cursor.Bump()
		return token.StringStart
	// 4) число
	case isDec(r):
		return lx.scanDecimal()
	// 5) одиночный символ пунктуации
	case isPunctOrSymbol(r):
		lx.cursor.BumpRune()
		return token.Symbol
	// 6) идентификатор
	case isIdentStart(r):
		return lx.scanIdentifier()
	}

	// 7) fallback: ровно один символ
	lx.cursor.BumpRune()
	return token.Invalid
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	tok := token.Token{Kind: kind, Span: sp, Text: text}

	switch kind {
	case token.Identifier, token.Symbol:
		if in := lx.opts.Interner; in != nil {
			tok.Sym = in.Intern(text)
			tok.Text = in.MustLookup(tok.Sym)
		}
	case token.Invalid:
		lx.warn(diagInvalidChar, sp, "invalid character "+quoteRune(text))
	case token.InvalidEscape:
		lx.warn(diagInvalidEscape, sp, "invalid escape sequence "+quoteRune(text))
	}
	return tok
}
