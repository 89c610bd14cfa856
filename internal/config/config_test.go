package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "")
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(deep)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %s, want %s", got, want)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	m, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// A manifest further up the real filesystem would make this flaky.
	if ok {
		t.Skip("a nafi.toml exists above the temp dir")
	}
	if m.Config != Default() {
		t.Fatalf("expected defaults, got %+v", m.Config)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[output]
format = "json"

[trace]
level = "phase"
format = "ndjson"

[cache]
enabled = true
dir = "build/cache"

[jobs]
max = 4
`)
	m, ok, err := Discover(dir)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	if m.Path != path || m.Root != filepath.Dir(path) {
		t.Fatalf("manifest location %s / %s", m.Path, m.Root)
	}
	cfg := m.Config
	if cfg.Output.Format != "json" || cfg.Output.Color != "auto" {
		t.Fatalf("output = %+v", cfg.Output)
	}
	if !cfg.Lexer.Intern {
		t.Fatal("unset [lexer].intern must keep the default")
	}
	if cfg.Trace.Level != "phase" || cfg.Trace.Output != "-" || cfg.Trace.Format != "ndjson" {
		t.Fatalf("trace = %+v", cfg.Trace)
	}
	if !cfg.Cache.Enabled || cfg.Jobs.Max != 4 {
		t.Fatalf("cache/jobs = %+v %+v", cfg.Cache, cfg.Jobs)
	}
	if got := m.CacheDir(); got != filepath.Join(dir, "build", "cache") {
		t.Fatalf("CacheDir = %s", got)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[output\n", "failed to parse TOML"},
		{"unknown key", "[lexer]\nfold = true\n", "unknown keys: lexer.fold"},
		{"color", "[output]\ncolor = \"sometimes\"\n", "[output].color"},
		{"format", "[output]\nformat = \"xml\"\n", "[output].format"},
		{"level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"jobs", "[jobs]\nmax = -1\n", "[jobs].max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
