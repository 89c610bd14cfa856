package token

import (
	"nafi/internal/source"
)

// Token represents a single classified source slice.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// Sym is the interned text for Identifier and Symbol tokens when the lexer
	// runs with an interner; NoStringID otherwise.
	Sym source.StringID
}

// IsSymbol reports whether the token is the symbol s.
func (t Token) IsSymbol(s string) bool {
	return t.Kind == Symbol && t.Text == s
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Identifier }

// IsTrivia reports whether the token is whitespace or a comment.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }
