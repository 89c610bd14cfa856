package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliRun struct {
	stdout, stderr string
	err            error
}

// runCLI executes a fresh command tree. An empty nafi.toml is passed
// explicitly so that no manifest on the host leaks into the test.
func runCLI(t *testing.T, stdin string, args ...string) cliRun {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "nafi.toml")
	if err := os.WriteFile(cfg, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	return runCLIWithConfig(t, cfg, stdin, args...)
}

func runCLIWithConfig(t *testing.T, cfg, stdin string, args ...string) cliRun {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", cfg, "--color", "off", "--ui", "off"))
	err := root.Execute()
	return cliRun{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestTokenizeStdin(t *testing.T) {
	r := runCLI(t, "x = 1", "tokenize")
	if r.err != nil {
		t.Fatalf("tokenize: %v\n%s", r.err, r.stderr)
	}
	want := "Identifier(x)@1:1\nWhitespace( )@1:2\nSymbol(=)@1:3\nWhitespace( )@1:4\nDecimalInteger(1)@1:5\n"
	if r.stdout != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", r.stdout, want)
	}
}

func TestTokenizeStringModeJSON(t *testing.T) {
	r := runCLI(t, `ab\n`, "tokenize", "--start-mode", "string", "--format", "json")
	if r.err != nil {
		t.Fatalf("tokenize: %v", r.err)
	}
	var toks []struct {
		Kind string `json:"kind"`
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal([]byte(r.stdout), &toks); err != nil {
		t.Fatalf("bad json: %v\n%s", err, r.stdout)
	}
	if len(toks) == 0 || toks[0].Kind != "Text" || toks[0].Mode != "String" {
		t.Fatalf("unexpected tokens %+v", toks)
	}
}

func TestTokenizeWarningsDoNotFail(t *testing.T) {
	r := runCLI(t, `"abc`, "tokenize")
	if r.err != nil {
		t.Fatalf("lexer warnings must not fail the command: %v", r.err)
	}
	if !strings.Contains(r.stderr, "LEX") {
		t.Fatalf("expected a lexer warning on stderr, got %q", r.stderr)
	}
}

func TestParseFormatFromConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "nafi.toml")
	if err := os.WriteFile(cfg, []byte("[output]\nformat = \"notation\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	r := runCLIWithConfig(t, cfg, "x==y", "parse")
	if r.err != nil {
		t.Fatalf("parse: %v\n%s", r.err, r.stderr)
	}
	want := `SourceFile([SideEffect([BinaryOperation([Identifier("x"), Symbol("="), Symbol("="), Identifier("y")])])])` + "\n"
	if r.stdout != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", r.stdout, want)
	}

	// флаг сильнее конфига
	r = runCLIWithConfig(t, cfg, "x==y", "parse", "--format", "outline")
	if r.err != nil || !strings.HasPrefix(r.stdout, "SourceFile 1:1-1:5") {
		t.Fatalf("outline: %v\n%s", r.err, r.stdout)
	}
}

func TestParseErrorsFail(t *testing.T) {
	r := runCLI(t, "f(1,", "parse", "--diagnostics", "json")
	if r.err == nil {
		t.Fatal("expected parse errors to fail the command")
	}
	var out struct {
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(r.stderr), &out); err != nil {
		t.Fatalf("stderr is not json: %v\n%s", err, r.stderr)
	}
	if out.Count == 0 || !strings.HasPrefix(out.Diagnostics[0].Code, "SYN") {
		t.Fatalf("unexpected diagnostics %+v", out)
	}
}

func TestParseDirWithCacheAndTimings(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{"a.nafi": "let a = 1", "b.nafi": "a + 2"} {
		if err := os.WriteFile(filepath.Join(src, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	args := []string{"parse", src, "--format", "notation", "--cache", "--cache-dir", filepath.Join(dir, "cache"), "--jobs", "2"}

	r := runCLI(t, "", args...)
	if r.err != nil {
		t.Fatalf("parse dir: %v\n%s", r.err, r.stderr)
	}
	if strings.Count(r.stdout, "== ") != 2 || strings.Contains(r.stdout, "(cached)") {
		t.Fatalf("first run:\n%s", r.stdout)
	}

	r = runCLI(t, "", append(args, "--timings")...)
	if r.err != nil {
		t.Fatalf("parse dir: %v\n%s", r.err, r.stderr)
	}
	if strings.Count(r.stdout, "(cached)") != 2 {
		t.Fatalf("second run should hit the cache:\n%s", r.stdout)
	}
	if !strings.Contains(r.stderr, "timings:") || !strings.Contains(r.stderr, "parse") {
		t.Fatalf("expected a timings summary, got %q", r.stderr)
	}
}

func TestVersionJSON(t *testing.T) {
	r := runCLI(t, "", "version", "--format", "json", "--full")
	if r.err != nil {
		t.Fatal(r.err)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(r.stdout), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "nafi" || p.Version == "" || p.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestInvalidColor(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(""))
	cfg := filepath.Join(t.TempDir(), "nafi.toml")
	if err := os.WriteFile(cfg, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	root.SetArgs([]string{"tokenize", "--config", cfg, "--color", "rainbow"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "--color") {
		t.Fatalf("expected a --color error, got %v", err)
	}
}
