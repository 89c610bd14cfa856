package syntax

import "unicode/utf8"

// splitsRune reports whether off falls strictly inside a well-formed UTF-8
// sequence of src. Offsets between bytes of an ill-formed sequence are fine:
// the lexer emits such bytes one at a time.
func splitsRune(src string, off int) bool {
	if off <= 0 || off >= len(src) || utf8.RuneStart(src[off]) {
		return false
	}
	for s := off - 1; s >= 0 && s > off-utf8.UTFMax; s-- {
		if !utf8.RuneStart(src[s]) {
			continue
		}
		r, size := utf8.DecodeRuneInString(src[s:])
		return !(r == utf8.RuneError && size == 1) && s+size > off
	}
	return false
}
