package fuzztests

import (
	"testing"
	"unicode/utf8"

	"nafi/internal/diag"
	"nafi/internal/lexer"
	"nafi/internal/source"
	"nafi/internal/testkit"
	"nafi/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.nafi", input))

		bag := diag.NewBag(64)
		toks := lexer.Lex(file, lexer.Options{
			Reporter: &diag.BagReporter{Bag: bag},
			Interner: source.NewInterner(),
		})
		if err := testkit.CheckTokens(file, toks); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}
		// диагностики лексера бывают только предупреждения
		if bag.HasErrors() {
			t.Fatalf("lexer reported errors for %q", input)
		}
	})
}

func FuzzLexerStringMode(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.nafi", input))
		toks := lexer.Lex(file, lexer.Options{StartMode: token.ModeString})
		if err := testkit.CheckTokens(file, toks); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}
	})
}

// TestEveryScalarValueLexes feeds each Unicode scalar value on its own to
// both rule sets; each must come back as exactly one token covering it.
func TestEveryScalarValueLexes(t *testing.T) {
	if testing.Short() {
		t.Skip("walks all scalar values")
	}
	fs := source.NewFileSet()
	buf := make([]byte, 0, utf8.UTFMax)
	for r := rune(0); r <= utf8.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		buf = utf8.AppendRune(buf[:0], r)
		file := fs.Get(fs.AddVirtual("scalar.nafi", append([]byte(nil), buf...)))

		lx := lexer.New(file, lexer.Options{})
		tok, ok := lx.NextCode()
		if !ok || tok.Span.Len() == 0 {
			t.Fatalf("code mode: U+%04X produced no token", r)
		}
		if int(tok.Span.End) != len(buf) {
			t.Fatalf("code mode: U+%04X token %s covers %v", r, tok.Kind, tok.Span)
		}

		lx = lexer.New(file, lexer.Options{})
		tok, ok = lx.NextString()
		if !ok || tok.Span.Len() == 0 {
			t.Fatalf("string mode: U+%04X produced no token", r)
		}
		if int(tok.Span.End) != len(buf) {
			t.Fatalf("string mode: U+%04X token %s covers %v", r, tok.Kind, tok.Span)
		}

		// файловый набор не должен расти бесконечно
		if fs.Len() > 4096 {
			fs = source.NewFileSet()
		}
	}
}
