package lexer

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"nafi/internal/token"
)

// scanString применяет правила строкового режима по порядку:
// \u{...}, простые escape, \{, закрывающая кавычка, текст.
func (lx *Lexer) scanString() token.Kind {
	switch lx.cursor.Peek() {
	case '\\':
		if lx.cursor.StartsWith(`\u{`) {
			return lx.scanUnicodeEscape()
		}
		return lx.scanSimpleEscape()
	case '"':
		lx.cursor.Bump()
		return token.StringEnd
	}

	rest := lx.cursor.Rest()
	n := bytes.IndexAny(rest, "\"\\")
	if n < 0 {
		n = len(rest)
	}
	lx.cursor.Advance(n)
	return token.Text
}

// scanUnicodeEscape: \u{X..X} до первой '}'. Полезная нагрузка валидна, если
// это от 1 до 6 hex-цифр и значение является Unicode scalar value. Без '}' получаем InvalidEscape до EOF.
func (lx *Lexer) scanUnicodeEscape() token.Kind {
	rest := lx.cursor.Rest()
	end := bytes.IndexByte(rest, '}')
	if end < 0 {
		lx.cursor.Advance(len(rest))
		return token.InvalidEscape
	}
	lx.cursor.Advance(end + 1)

	payload := rest[len(`\u{`):end]
	if len(payload) < 1 || len(payload) > 6 {
		return token.InvalidEscape
	}
	for _, b := range payload {
		if !isHex(b) {
			return token.InvalidEscape
		}
	}
	v, err := strconv.ParseUint(string(payload), 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return token.InvalidEscape
	}
	return token.EscapedUnicode
}

// scanSimpleEscape: '\' плюс ровно один символ.
func (lx *Lexer) scanSimpleEscape() token.Kind {
	lx.cursor.Bump() // '\'
	r, sz := lx.cursor.PeekRune()
	if sz == 0 {
		return token.InvalidEscape
	}
	lx.cursor.Advance(sz)
	switch r {
	case 'r':
		return token.EscapedCarriageReturn
	case 'n':
		return token.EscapedNewLine
	case 't':
		return token.EscapedTab
	case '\\':
		return token.EscapedBackslash
	case '"':
		return token.EscapedQuote
	case '{':
		return token.InterpolationStart
	}
	return token.InvalidEscape
}
