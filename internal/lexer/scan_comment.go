package lexer

import (
	"bytes"

	"nafi/internal/diag"
	"nafi/internal/token"
)

// scanComment распознаёт:
//   - //...  до '\n' или '\r' (не включая) -> LineComment
//   - ///... -> LineDocComment
//   - /* ... */ с вложенностью -> BlockComment; /** (но не /**/) -> BlockDocComment
//
// Незакрытый блочный комментарий заканчивается на EOF.
func (lx *Lexer) scanComment() (token.Kind, bool) {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return 0, false
	}
	switch b1 {
	case '/':
		return lx.scanLineComment(), true
	case '*':
		return lx.scanBlockComment(), true
	}
	return 0, false
}

func (lx *Lexer) scanLineComment() token.Kind {
	lx.cursor.Advance(2)
	kind := token.LineComment
	if lx.cursor.Peek() == '/' {
		kind = token.LineDocComment
	}
	rest := lx.cursor.Rest()
	n := bytes.IndexAny(rest, "\r\n")
	if n < 0 {
		n = len(rest)
	}
	lx.cursor.Advance(n)
	return kind
}

func (lx *Lexer) scanBlockComment() token.Kind {
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)

	kind := token.BlockComment
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 != '/' {
		kind = token.BlockDocComment
	} else if !ok && lx.cursor.Peek() == '*' {
		// "/**" на самом конце файла
		kind = token.BlockDocComment
	}

	depth := 1
	for depth > 0 && !lx.cursor.EOF() {
		switch {
		case lx.cursor.StartsWith("/*"):
			depth++
			lx.cursor.Advance(2)
		case lx.cursor.StartsWith("*/"):
			depth--
			lx.cursor.Advance(2)
		default:
			// прыгаем до следующего интересного байта
			rest := lx.cursor.Rest()
			n := bytes.IndexAny(rest[1:], "*/")
			if n < 0 {
				lx.cursor.Advance(len(rest))
			} else {
				lx.cursor.Advance(n + 1)
			}
		}
	}
	if depth > 0 {
		lx.warn(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
	return kind
}
