package uniprop

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/rangetable"
)

var (
	// ID_Start = L + Nl + Other_ID_Start - Pattern_Syntax - Pattern_White_Space
	idStartBase = rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_ID_Start)
	// ID_Continue = ID_Start + Mn + Mc + Nd + Pc + Other_ID_Continue - Pattern_*
	idContinueBase = rangetable.Merge(idStartBase,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
)

func isPattern(r rune) bool {
	return unicode.Is(unicode.Pattern_Syntax, r) || unicode.Is(unicode.Pattern_White_Space, r)
}

// IsIDStart reports whether r has the ID_Start property.
func IsIDStart(r rune) bool {
	if r < utf8.RuneSelf {
		return isASCIIAlpha(byte(r))
	}
	return unicode.Is(idStartBase, r) && !isPattern(r)
}

// IsIDContinue reports whether r has the ID_Continue property.
func IsIDContinue(r rune) bool {
	if r < utf8.RuneSelf {
		b := byte(r)
		return isASCIIAlpha(b) || (b >= '0' && b <= '9') || b == '_'
	}
	return unicode.Is(idContinueBase, r) && !isPattern(r)
}

// IsXIDStart reports whether r has the XID_Start property: ID_Start restricted
// to characters whose NFKC form still starts an identifier.
func IsXIDStart(r rune) bool {
	if !IsIDStart(r) {
		return false
	}
	if r < utf8.RuneSelf {
		return true
	}
	s := string(r)
	if norm.NFKC.IsNormalString(s) {
		return true
	}
	first := true
	for _, c := range norm.NFKC.String(s) {
		if first {
			if !IsIDStart(c) {
				return false
			}
			first = false
			continue
		}
		if !IsIDContinue(c) {
			return false
		}
	}
	return true
}

// IsXIDContinue reports whether r has the XID_Continue property: ID_Continue
// restricted to characters whose NFKC form consists of ID_Continue characters.
func IsXIDContinue(r rune) bool {
	if !IsIDContinue(r) {
		return false
	}
	if r < utf8.RuneSelf {
		return true
	}
	s := string(r)
	if norm.NFKC.IsNormalString(s) {
		return true
	}
	for _, c := range norm.NFKC.String(s) {
		if !IsIDContinue(c) {
			return false
		}
	}
	return true
}

// IsWhiteSpace reports whether r has the White_Space property.
func IsWhiteSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	if r < utf8.RuneSelf {
		return false
	}
	return unicode.Is(unicode.White_Space, r)
}

// IsPunctOrSymbol reports whether r is in general category P* or S*.
func IsPunctOrSymbol(r rune) bool {
	return unicode.In(r, unicode.P, unicode.S)
}

func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
