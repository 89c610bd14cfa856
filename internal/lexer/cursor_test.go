package lexer

import (
	"testing"
	"unicode/utf8"

	"nafi/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nafi", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Errorf("Peek = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Errorf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() {
		t.Error("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Error("expected zero bytes at EOF")
	}
}

func TestPeek2AtEnd(t *testing.T) {
	cursor := NewCursor(createFile("ab"))
	if b0, b1, ok := cursor.Peek2(); !ok || b0 != 'a' || b1 != 'b' {
		t.Errorf("Peek2 = %q %q %v", b0, b1, ok)
	}
	cursor.Bump()
	if _, _, ok := cursor.Peek2(); ok {
		t.Error("Peek2 must fail with one byte left")
	}
}

func TestPeekRune(t *testing.T) {
	cursor := NewCursor(createFile("é\xffx"))
	r, sz := cursor.PeekRune()
	if r != 'é' || sz != 2 {
		t.Errorf("PeekRune = %q/%d", r, sz)
	}
	cursor.BumpRune()
	r, sz = cursor.PeekRune()
	if r != utf8.RuneError || sz != 1 {
		t.Errorf("invalid byte: PeekRune = %q/%d", r, sz)
	}
	cursor.BumpRune()
	if r, _ := cursor.PeekRune(); r != 'x' {
		t.Errorf("after invalid byte got %q", r)
	}
	cursor.BumpRune()
	if _, sz := cursor.PeekRune(); sz != 0 {
		t.Error("PeekRune at EOF must report size 0")
	}
}

func TestMarkSpanReset(t *testing.T) {
	f := createFile("hello world")
	cursor := NewCursor(f)
	m := cursor.Mark()
	cursor.Advance(5)
	sp := cursor.SpanFrom(m)
	if f.Text(sp) != "hello" {
		t.Errorf("span text = %q", f.Text(sp))
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Errorf("Reset: Off = %d", cursor.Off)
	}
	cursor.Advance(100)
	if !cursor.EOF() || cursor.Off != cursor.Limit {
		t.Errorf("Advance must clamp to Limit, Off = %d", cursor.Off)
	}
}

func TestStartsWithAndEat(t *testing.T) {
	cursor := NewCursor(createFile(`\u{41}`))
	if !cursor.StartsWith(`\u{`) {
		t.Error(`expected prefix \u{`)
	}
	if cursor.StartsWith(`\u{41}x`) {
		t.Error("prefix longer than input must not match")
	}
	if !cursor.Eat('\\') || cursor.Eat('x') {
		t.Error("Eat mismatch")
	}
	if cursor.Off != 1 {
		t.Errorf("Off = %d, want 1", cursor.Off)
	}
}
