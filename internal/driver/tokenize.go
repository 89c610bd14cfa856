package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nafi/internal/diag"
	"nafi/internal/lexer"
	"nafi/internal/source"
	"nafi/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []lexer.Lexed
	Bag     *diag.Bag
	// Interner is nil unless Options.Intern was set.
	Interner *source.Interner
}

// Tokenize loads path and runs the mode-switching lexer over it.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	idx := opts.Timer.Begin("load")
	fileID, err := fs.Load(path)
	opts.Timer.End(idx, "")
	if err != nil {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tokenizeLoaded(ctx, fs, fs.Get(fileID), opts), nil
}

// TokenizeSource tokenizes in-memory content (stdin, editor buffers) under name.
func TokenizeSource(ctx context.Context, name string, content []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return tokenizeLoaded(ctx, fs, fs.Get(id), opts)
}

func tokenizeLoaded(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	in := opts.interner()
	bag := diag.NewBag(opts.MaxDiagnostics)
	idx := opts.Timer.Begin("lex")
	toks := tokenizeFile(ctx, file, in, bag, opts)
	opts.Timer.End(idx, strconv.Itoa(len(toks))+" tokens")
	return &TokenizeResult{
		FileSet:  fs,
		File:     file,
		Tokens:   toks,
		Bag:      bag,
		Interner: in,
	}
}

// tokenizeFile is the per-file unit shared by Tokenize and TokenizeDir.
func tokenizeFile(ctx context.Context, file *source.File, in *source.Interner, bag *diag.Bag, opts Options) []lexer.Lexed {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "lex", trace.CurrentSpan(ctx)).WithExtra("file", file.Path)
	emit(opts.Progress, Event{File: file.Path, Stage: StageLex, Status: StatusWorking})
	started := time.Now()

	toks := lexer.Lex(file, lexer.Options{
		Reporter:  diag.NewDedupReporter(&diag.BagReporter{Bag: bag}),
		Interner:  in,
		Tracer:    tracer,
		StartMode: opts.StartMode,
	})

	elapsed := time.Since(started)
	span.End(strconv.Itoa(len(toks)) + " tokens")
	st := StatusDone
	if bag.HasErrors() {
		st = StatusError
	}
	emit(opts.Progress, Event{File: file.Path, Stage: StageLex, Status: st, Elapsed: elapsed})
	return toks
}
