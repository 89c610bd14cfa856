package lexer

import (
	"nafi/internal/token"
)

// scanWhitespace: одна или больше White_Space рун.
func (lx *Lexer) scanWhitespace() token.Kind {
	for {
		r, sz := lx.cursor.PeekRune()
		if sz == 0 || !isWhiteSpace(r) {
			break
		}
		lx.cursor.Advance(sz)
	}
	return token.Whitespace
}

// scanDecimal: (0d_?)? [0-9] ([0-9] | _+[0-9])*
// Префикс 0d берётся только если за ним идёт цифра; '_' только между цифрами,
// хвостовой '_' остаётся следующему токену.
func (lx *Lexer) scanDecimal() token.Kind {
	if lx.cursor.StartsWith("0d") {
		rest := lx.cursor.Rest()
		switch {
		case len(rest) > 2 && isDec(rune(rest[2])):
			lx.cursor.Advance(2)
		case len(rest) > 3 && rest[2] == '_' && isDec(rune(rest[3])):
			lx.cursor.Advance(3)
		}
	}
	lx.cursor.Bump() // первая цифра
	for {
		b := lx.cursor.Peek()
		if isDec(rune(b)) {
			lx.cursor.Bump()
			continue
		}
		if b == '_' {
			rest := lx.cursor.Rest()
			i := 0
			for i < len(rest) && rest[i] == '_' {
				i++
			}
			if i < len(rest) && isDec(rune(rest[i])) {
				lx.cursor.Advance(i)
				continue
			}
		}
		return token.DecimalInteger
	}
}

// scanIdentifier: XID_Start XID_Continue*
func (lx *Lexer) scanIdentifier() token.Kind {
	lx.cursor.BumpRune()
	for {
		r, sz := lx.cursor.PeekRune()
		if sz == 0 || !isIdentContinue(r) {
			break
		}
		lx.cursor.Advance(sz)
	}
	return token.Identifier
}
