package lexer_test

import (
	"testing"

	"nafi/internal/lexer"
	"nafi/internal/token"
)

type dk struct {
	kind  token.Kind
	text  string
	depth int
}

func expectLexed(t *testing.T, input string, opts lexer.Options, want []dk) {
	t.Helper()
	got := lexer.Lex(makeFile(input), opts)
	if len(got) != len(want) {
		for _, l := range got {
			t.Logf("%s(%q) depth=%d", l.Kind, l.Text, l.Depth)
		}
		t.Fatalf("%q: got %d tokens, want %d", input, len(got), len(want))
	}
	for i, w := range want {
		g := dk{got[i].Kind, got[i].Text, got[i].Depth}
		if g != w {
			t.Errorf("%q: token %d = %v, want %v", input, i, g, w)
		}
	}
}

func TestInterpolationBalance(t *testing.T) {
	expectLexed(t, `"a\{ if x { 1 } else { 2 } }b"`, lexer.Options{}, []dk{
		{token.StringStart, `"`, 0},
		{token.Text, "a", 1},
		{token.InterpolationStart, `\{`, 1},
		{token.Whitespace, " ", 2},
		{token.Identifier, "if", 2},
		{token.Whitespace, " ", 2},
		{token.Identifier, "x", 2},
		{token.Whitespace, " ", 2},
		{token.Symbol, "{", 2},
		{token.Whitespace, " ", 2},
		{token.DecimalInteger, "1", 2},
		{token.Whitespace, " ", 2},
		{token.Symbol, "}", 2},
		{token.Whitespace, " ", 2},
		{token.Identifier, "else", 2},
		{token.Whitespace, " ", 2},
		{token.Symbol, "{", 2},
		{token.Whitespace, " ", 2},
		{token.DecimalInteger, "2", 2},
		{token.Whitespace, " ", 2},
		{token.Symbol, "}", 2},
		{token.Whitespace, " ", 2},
		{token.Symbol, "}", 2},
		{token.Text, "b", 1},
		{token.StringEnd, `"`, 1},
	})
}

func TestNestedStringsInInterpolation(t *testing.T) {
	expectLexed(t, `"\{ f("in\{x}") }"`, lexer.Options{}, []dk{
		{token.StringStart, `"`, 0},
		{token.InterpolationStart, `\{`, 1},
		{token.Whitespace, " ", 2},
		{token.Identifier, "f", 2},
		{token.Symbol, "(", 2},
		{token.StringStart, `"`, 2},
		{token.Text, "in", 3},
		{token.InterpolationStart, `\{`, 3},
		{token.Identifier, "x", 4},
		{token.Symbol, "}", 4},
		{token.StringEnd, `"`, 3},
		{token.Symbol, ")", 2},
		{token.Whitespace, " ", 2},
		{token.Symbol, "}", 2},
		{token.StringEnd, `"`, 1},
	})
}

func TestStrayCloseBraceAtTopLevel(t *testing.T) {
	expectLexed(t, `}}"x"`, lexer.Options{}, []dk{
		{token.Symbol, "}", 0},
		{token.Symbol, "}", 0},
		{token.StringStart, `"`, 0},
		{token.Text, "x", 1},
		{token.StringEnd, `"`, 1},
	})
}

func TestCodeBlocksDoNotLeaveString(t *testing.T) {
	// '}' закрывающий обычный блок не выходит из интерполяции
	d := lexer.NewDriver(makeFile(`"\{ { } }"`), lexer.Options{})
	var modes []token.Mode
	for {
		l, ok := d.Next()
		if !ok {
			break
		}
		if l.IsSymbol("}") {
			modes = append(modes, d.Mode())
		}
	}
	if len(modes) != 2 || modes[0] != token.ModeCode || modes[1] != token.ModeString {
		t.Errorf("modes after '}' = %v", modes)
	}
	if d.Depth() != 0 || d.Mode() != token.ModeCode {
		t.Errorf("final state depth=%d mode=%s", d.Depth(), d.Mode())
	}
}

func TestStartInStringMode(t *testing.T) {
	expectLexed(t, `\u{41}"}`, lexer.Options{StartMode: token.ModeString}, []dk{
		{token.EscapedUnicode, `\u{41}`, 0},
		{token.StringEnd, `"`, 0},
		{token.Symbol, "}", 0},
	})
}

func TestDriverStopsAfterEOF(t *testing.T) {
	d := lexer.NewDriver(makeFile("x"), lexer.Options{})
	if _, ok := d.Next(); !ok {
		t.Fatal("expected one token")
	}
	for range 3 {
		if _, ok := d.Next(); ok {
			t.Fatal("driver must keep reporting end of input")
		}
	}
}
