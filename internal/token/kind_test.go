package token_test

import (
	"testing"

	"nafi/internal/token"
)

func TestKindModes(t *testing.T) {
	code := []token.Kind{
		token.Invalid, token.Identifier, token.Symbol, token.DecimalInteger,
		token.Whitespace, token.LineComment, token.LineDocComment,
		token.BlockComment, token.BlockDocComment, token.StringStart,
	}
	for _, k := range code {
		if k.Mode() != token.ModeCode {
			t.Fatalf("%v must be a Code kind", k)
		}
	}
	str := []token.Kind{
		token.Text, token.EscapedCarriageReturn, token.EscapedNewLine,
		token.EscapedTab, token.EscapedBackslash, token.EscapedQuote,
		token.EscapedUnicode, token.InvalidEscape, token.InterpolationStart,
		token.StringEnd,
	}
	for _, k := range str {
		if k.Mode() != token.ModeString {
			t.Fatalf("%v must be a String kind", k)
		}
	}
	if len(code)+len(str) != len(token.Kinds()) {
		t.Fatalf("kind set changed: %d kinds declared", len(token.Kinds()))
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range token.Kinds() {
		got, ok := token.ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := token.ParseKind("Keyword"); ok {
		t.Fatal("unknown kind name must not parse")
	}
}

func TestKindPredicates(t *testing.T) {
	if !token.BlockDocComment.IsTrivia() || !token.Whitespace.IsTrivia() {
		t.Error("comments and whitespace are trivia")
	}
	if token.Whitespace.IsComment() {
		t.Error("whitespace is not a comment")
	}
	if !token.EscapedUnicode.IsEscape() || token.InvalidEscape.IsEscape() {
		t.Error("IsEscape covers valid escapes only")
	}
	if !token.Invalid.IsDegraded() || !token.InvalidEscape.IsDegraded() || token.Text.IsDegraded() {
		t.Error("IsDegraded mismatch")
	}
}

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Keyword{
		"let":  token.KwLet,
		"if":   token.KwIf,
		"else": token.KwElse,
	}
	for lexeme, want := range cases {
		got, ok := token.LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v; want %v", lexeme, got, ok, want)
		}
		if got.String() != lexeme {
			t.Fatalf("%v.String() = %q", got, got.String())
		}
	}
	// регистр важен
	for _, s := range []string{"Let", "IF", "letx", "print"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) must fail", s)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]token.Mode{"code": token.ModeCode, "String": token.ModeString, "": token.ModeCode} {
		got, err := token.ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := token.ParseMode("regex"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}
