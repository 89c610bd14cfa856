package driver

import (
	"fmt"

	"fortio.org/safecast"

	"nafi/internal/observ"
	"nafi/internal/source"
	"nafi/internal/token"
)

// Options configures Tokenize/Parse and their directory variants.
type Options struct {
	// MaxDiagnostics caps each file's Bag.
	MaxDiagnostics int
	// Jobs bounds directory parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Intern shares one Interner across every file of a run.
	Intern bool
	// StartMode is the lexer's initial mode (tokenize only).
	StartMode token.Mode
	// Cache, if set, stores and reuses parsed trees keyed by content hash.
	Cache *DiskCache
	// Progress receives per-file stage events.
	Progress ProgressSink
	// Timer records load/lex/parse phases for --timings.
	Timer *observ.Timer
}

func (o Options) maxErrors() (uint, error) {
	n, err := safecast.Conv[uint](max(o.MaxDiagnostics, 0))
	if err != nil {
		return 0, fmt.Errorf("max diagnostics: %w", err)
	}
	return n, nil
}

func (o Options) interner() *source.Interner {
	if !o.Intern {
		return nil
	}
	return source.NewInterner()
}
