package lexer

import (
	"strconv"
	"unicode/utf8"

	"nafi/internal/diag"
	"nafi/internal/uniprop"
)

const invalidRune = utf8.RuneError

const (
	diagInvalidChar   = diag.LexInvalidChar
	diagInvalidEscape = diag.LexInvalidEscape
)

// ===== Классификаторы =====

func isDec(r rune) bool { return r >= '0' && r <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

func isWhiteSpace(r rune) bool    { return uniprop.IsWhiteSpace(r) }
func isPunctOrSymbol(r rune) bool { return uniprop.IsPunctOrSymbol(r) }
func isIdentStart(r rune) bool    { return uniprop.IsXIDStart(r) }
func isIdentContinue(r rune) bool { return uniprop.IsXIDContinue(r) }

// quoteRune renders degraded input for messages; invalid UTF-8 shows as \x escapes.
func quoteRune(s string) string {
	return strconv.Quote(s)
}
