package driver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"nafi/internal/diag"
	"nafi/internal/observ"
	"nafi/internal/token"
	"nafi/internal/trace"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) count(stage Stage, status Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.events {
		if ev.Stage == stage && ev.Status == status {
			n++
		}
	}
	return n
}

func TestTokenizeFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.nafi", `let x = "a\{b}c"`)
	res, err := Tokenize(context.Background(), path, Options{MaxDiagnostics: 10, Intern: true})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	var sb strings.Builder
	maxDepth := 0
	for _, tok := range res.Tokens {
		sb.WriteString(tok.Text)
		maxDepth = max(maxDepth, tok.Depth)
	}
	if sb.String() != `let x = "a\{b}c"` {
		t.Fatalf("tokens do not spell the input: %q", sb.String())
	}
	if maxDepth == 0 {
		t.Fatalf("expected string fragments to sit deeper than the code around them")
	}
	if res.Interner == nil || res.Interner.Len() == 0 {
		t.Fatalf("expected identifiers to be interned")
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	sink := &recordingSink{}
	_, err := Tokenize(context.Background(), filepath.Join(t.TempDir(), "nope.nafi"), Options{Progress: sink})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if sink.count(StageLoad, StatusError) != 1 {
		t.Fatalf("expected a load error event, got %+v", sink.events)
	}
}

func TestTokenizeSourceStringMode(t *testing.T) {
	res := TokenizeSource(context.Background(), "<stdin>", []byte(`a\n{x}`), Options{StartMode: token.ModeString})
	if len(res.Tokens) == 0 || res.Tokens[0].Kind != token.Text {
		t.Fatalf("expected string-mode Text first, got %+v", res.Tokens)
	}
}

func TestParseSourceReportsErrors(t *testing.T) {
	timer := observ.NewTimer()
	res, err := ParseSource(context.Background(), "<stdin>", []byte("let = ;"), Options{MaxDiagnostics: 10, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if res.Tree.Source() != "let = ;" {
		t.Fatalf("tree source = %q", res.Tree.Source())
	}
	if res.Errors == 0 || !res.Bag.HasErrors() {
		t.Fatalf("expected parse errors, got %d / %v", res.Errors, res.Bag.Items())
	}
	if res.Cached {
		t.Fatal("no cache configured, result must not be cached")
	}
	if got := timer.Report().Phases; len(got) != 1 || got[0].Name != "parse" {
		t.Fatalf("unexpected timer phases %+v", got)
	}
}

func TestParseDropsRepeatedEOFDiagnostics(t *testing.T) {
	// обе незакрытые скобки сообщают одно и то же в конце файла
	res, err := ParseSource(context.Background(), "<stdin>", []byte("f(g("), Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatal(err)
	}
	unclosed := 0
	for _, d := range res.Bag.Items() {
		if d.Code == diag.SynUnclosedParen {
			unclosed++
		}
	}
	if unclosed != 1 {
		t.Fatalf("unclosed paren reports = %d, want 1: %v", unclosed, res.Bag.Items())
	}
	if res.Errors < 2 {
		t.Fatalf("parser error count = %d, want at least 2", res.Errors)
	}
}

func TestParseKeepsFileBytes(t *testing.T) {
	content := "\xEF\xBB\xBFlet x = 1;\r\nx\r\n"
	path := writeFile(t, t.TempDir(), "bom.nafi", content)

	res, err := Parse(context.Background(), path, Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Tree.Text(); got != content {
		t.Fatalf("tree text = %q, want %q", got, content)
	}

	toks, err := Tokenize(context.Background(), path, Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	for _, lx := range toks.Tokens {
		b.WriteString(toks.File.Text(lx.Span))
	}
	if b.String() != content {
		t.Fatalf("token text = %q, want %q", b.String(), content)
	}
}

func TestParseUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "src/a.nafi", "f(1 +)\nlet y = 2")
	opts := Options{MaxDiagnostics: 10, Cache: cache}

	first, err := Parse(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first parse cannot be a cache hit")
	}

	sink := &recordingSink{}
	opts.Progress = sink
	second, err := Parse(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second parse should come from the cache")
	}
	if !first.Tree.Equal(second.Tree) {
		t.Fatalf("cached tree differs:\n%s\n%s", first.Tree, second.Tree)
	}
	if first.Errors != second.Errors || first.Bag.Len() != second.Bag.Len() {
		t.Fatalf("diagnostics not restored: %d/%d vs %d/%d", first.Errors, first.Bag.Len(), second.Errors, second.Bag.Len())
	}
	for _, d := range second.Bag.Items() {
		if d.Primary.File != second.File.ID {
			t.Fatalf("restored diagnostic points at file %d", d.Primary.File)
		}
	}
	if sink.count(StageCache, StatusDone) != 1 {
		t.Fatalf("expected a cache event, got %+v", sink.events)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	third, err := Parse(context.Background(), path, Options{MaxDiagnostics: 10, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Fatal("DropAll must invalidate every entry")
	}
}

func TestDiskCacheCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatal(err)
	}
	res, err := ParseSource(context.Background(), "x.nafi", []byte("a = 1"), Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatal(err)
	}
	key := cacheKey(res.File)
	writeFile(t, filepath.Dir(cache.pathFor(key)), filepath.Base(cache.pathFor(key)), "not msgpack")

	var p DiskPayload
	ok, err := cache.Get(key, &p)
	if ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}

	// Parse silently falls back to parsing and rewrites the entry.
	again, err := ParseSource(context.Background(), "x.nafi", []byte("a = 1"), Options{MaxDiagnostics: 10, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if again.Cached {
		t.Fatal("corrupt entry must not be a hit")
	}
	if ok, err := cache.Get(key, &p); !ok || err != nil {
		t.Fatalf("entry not rewritten: ok=%v err=%v", ok, err)
	}
	entries, err := os.ReadDir(filepath.Dir(cache.pathFor(key)))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestCacheKeyDependsOnContent(t *testing.T) {
	a, _ := ParseSource(context.Background(), "a", []byte("x"), Options{})
	b, _ := ParseSource(context.Background(), "b", []byte("x"), Options{})
	c, _ := ParseSource(context.Background(), "a", []byte("y"), Options{})
	if cacheKey(a.File) != cacheKey(b.File) {
		t.Fatal("same content must share a key regardless of path")
	}
	if cacheKey(a.File) == cacheKey(c.File) {
		t.Fatal("different content must not share a key")
	}
	if cacheKey(a.File) == Digest(a.File.Hash) {
		t.Fatal("key must be salted with the schema")
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.nafi", "let b = a + 1")
	writeFile(t, dir, "a.nafi", "let a = 1")
	writeFile(t, dir, "nested/c.nafi", "f(")
	writeFile(t, dir, "skip.txt", "not source")

	sink := &recordingSink{}
	ring := trace.NewRingTracer(256, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	fs, in, results, err := ParseDir(ctx, dir, Options{MaxDiagnostics: 10, Jobs: 2, Intern: true, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || fs.Len() != 3 {
		t.Fatalf("expected 3 files, got %d results / %d files", len(results), fs.Len())
	}
	want := []string{"a.nafi", "b.nafi", filepath.Join("nested", "c.nafi")}
	for i, r := range results {
		rel, _ := filepath.Rel(dir, r.Path)
		if rel != want[i] {
			t.Fatalf("result %d is %s, want %s", i, rel, want[i])
		}
		if r.Tree == nil || r.Tree.Source() != string(fs.Get(r.FileID).Content) {
			t.Fatalf("%s: tree does not match file", rel)
		}
	}
	if results[2].Errors == 0 || results[0].Errors != 0 {
		t.Fatalf("error counts: %d %d %d", results[0].Errors, results[1].Errors, results[2].Errors)
	}
	if _, ok := in.Get("a"); !ok {
		t.Fatal("shared interner should hold identifiers from every file")
	}
	if sink.count(StageLoad, StatusQueued) != 3 {
		t.Fatalf("expected 3 queued events, got %+v", sink.events)
	}

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	if len(names) == 0 || names[0] != "parse-dir" {
		t.Fatalf("expected parse-dir span first, got %v", names)
	}
}

func TestTokenizeDirEmpty(t *testing.T) {
	fs, _, results, err := TokenizeDir(context.Background(), t.TempDir(), Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 || fs.Len() != 0 {
		t.Fatalf("expected nothing, got %d results", len(results))
	}
}

func TestTokenizeDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.nafi", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, _, err := TokenizeDir(ctx, dir, Options{MaxDiagnostics: 10})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestAppendTimings(t *testing.T) {
	timer := observ.NewTimer()
	timer.Measure("lex", func() string { return "3 tokens" })
	bag := diag.NewBag(0)
	AppendTimings(bag, "tokenize", "a.nafi", timer)
	if bag.Len() != 1 {
		t.Fatalf("timings must be added even to a full bag, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.ObsTimings || d.Severity != diag.SevInfo {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	var payload timingPayload
	if err := json.Unmarshal([]byte(d.Notes[0].Msg), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Kind != "tokenize" || len(payload.Phases) != 1 || payload.Phases[0].Note != "3 tokens" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
