package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"nafi/internal/driver"
	"nafi/internal/source"
)

func newTestSession(mode replMode) *replSession {
	return &replSession{
		mode:     mode,
		fs:       source.NewFileSet(),
		interner: source.NewInterner(),
		settings: &settings{diagFormat: "pretty", opts: driver.Options{MaxDiagnostics: 10}},
	}
}

func TestReplLoop(t *testing.T) {
	input := strings.Join([]string{
		"x",
		";;tokens",
		"y",
		`"ab`,
		`c"`,
		";;exit",
		"ignored",
	}, "\n")
	sess := newTestSession(replTree)
	var out, errOut bytes.Buffer
	var history []string
	err := sess.loop(scanReader{sc: bufio.NewScanner(strings.NewReader(input))}, &out, &errOut, func(s string) {
		history = append(history, s)
	})
	if err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{`Identifier("x")`, "Identifier(y)@1:1", `StringEnd(\")@2:2`} {
		if !strings.Contains(got, want) {
			t.Fatalf("output lacks %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ignored") {
		t.Fatalf(";;exit did not stop the loop:\n%s", got)
	}
	if len(history) != 3 || history[2] != `"ab c"` {
		t.Fatalf("history = %q", history)
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", errOut.String())
	}
	if _, ok := sess.interner.Get("y"); !ok {
		t.Fatal("entries should share the session interner")
	}
}

func TestReplReportsDiagnostics(t *testing.T) {
	sess := newTestSession(replTree)
	var out, errOut bytes.Buffer
	// пустая строка продолжения отправляет незакрытый ввод как есть
	input := "f(1,\n\n"
	if err := sess.loop(scanReader{sc: bufio.NewScanner(strings.NewReader(input))}, &out, &errOut, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut.String(), "SYN") {
		t.Fatalf("expected a syntax error, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "<repl:1>") {
		t.Fatalf("diagnostic should name the entry, got %q", errOut.String())
	}
}

func TestIncomplete(t *testing.T) {
	tests := map[string]bool{
		`"abc`:        true,
		`f(1, 2`:      true,
		`g { |x| x`:   true,
		`"a\{b`:       true,
		`f(1) )`:      false,
		`let x = 1`:   false,
		`"done"`:      false,
		`x = (1 +) 2`: false,
	}
	for src, want := range tests {
		if got := incomplete(src); got != want {
			t.Errorf("incomplete(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestReplCommands(t *testing.T) {
	sess := newTestSession(replTree)
	var out bytes.Buffer
	if sess.command(&out, "outline") || sess.mode != replOutline {
		t.Fatalf("mode = %s", sess.mode)
	}
	if sess.command(&out, "bogus"); !strings.Contains(out.String(), "unsupported") {
		t.Fatalf("out = %q", out.String())
	}
	if !sess.command(&out, "exit") {
		t.Fatal("exit must stop the loop")
	}
}
