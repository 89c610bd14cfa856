package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nafi/internal/version"
)

// newRootCmd builds the command tree; tests build a fresh one per run.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "nafi",
		Short:        "nafi language front end",
		Long:         `nafi tokenizes source with the mode-switching lexer and builds lossless syntax trees`,
		Version:      version.Version,
		SilenceUsage: true,
		// ошибки печатает main: stderr может нести JSON-диагностики
		SilenceErrors: true,
	}

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги; значения по умолчанию может переопределить nafi.toml
	pf := root.PersistentFlags()
	pf.String("config", "", "path to nafi.toml (default: nearest one above the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics kept per file")
	pf.String("diagnostics", "pretty", "diagnostics format on stderr (pretty|json)")
	pf.Bool("timings", false, "show timing information")
	pf.String("ui", "auto", "progress UI for directory runs (auto|on|off)")
	pf.Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	pf.Bool("intern", true, "intern identifier and symbol text")
	pf.Bool("cache", false, "reuse parsed trees from the disk cache")
	pf.String("cache-dir", "", "disk cache location (default: $XDG_CACHE_HOME/nafi)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "text", "trace format (text|ndjson)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring); ring dumps on exit")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
