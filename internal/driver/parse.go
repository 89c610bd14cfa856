package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nafi/internal/diag"
	"nafi/internal/parser"
	"nafi/internal/source"
	"nafi/internal/syntax"
	"nafi/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *syntax.Tree
	Bag     *diag.Bag
	// Errors counts every parse error, including those past MaxDiagnostics.
	Errors uint
	// Cached is set when the tree came from the disk cache.
	Cached bool
}

// Parse loads path and builds its lossless syntax tree.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	idx := opts.Timer.Begin("load")
	fileID, err := fs.Load(path)
	opts.Timer.End(idx, "")
	if err != nil {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return parseLoaded(ctx, fs, fs.Get(fileID), opts)
}

// ParseSource parses in-memory content under name.
func ParseSource(ctx context.Context, name string, content []byte, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return parseLoaded(ctx, fs, fs.Get(id), opts)
}

func parseLoaded(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (*ParseResult, error) {
	maxErrors, err := opts.maxErrors()
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	idx := opts.Timer.Begin("parse")
	out := parseFile(ctx, file, opts.interner(), bag, maxErrors, opts)
	note := strconv.Itoa(out.Tree.Len()) + " nodes"
	if out.Cached {
		note += " (cached)"
	}
	opts.Timer.End(idx, note)
	out.FileSet = fs
	return out, nil
}

// parseFile is the per-file unit shared by Parse and ParseDir. Cache
// failures never fail the parse: a broken entry is a miss and gets rewritten.
func parseFile(ctx context.Context, file *source.File, in *source.Interner, bag *diag.Bag, maxErrors uint, opts Options) *ParseResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "parse", trace.CurrentSpan(ctx)).WithExtra("file", file.Path)
	started := time.Now()

	key := cacheKey(file)
	if opts.Cache != nil {
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		if err != nil {
			trace.Point(tracer, trace.ScopePass, "cache-error", err.Error(), span.ID(), "file", file.Path)
		}
		if ok && payload.ContentHash == Digest(file.Hash) {
			payload.restoreDiagnostics(file, bag)
			span.End("cache hit")
			emit(opts.Progress, Event{File: file.Path, Stage: StageCache, Status: StatusDone, Elapsed: time.Since(started)})
			return &ParseResult{File: file, Tree: payload.Tree, Bag: bag, Errors: payload.Errors, Cached: true}
		}
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	res := parser.ParseFile(file, parser.Options{
		Reporter:  diag.NewDedupReporter(&diag.BagReporter{Bag: bag}),
		Interner:  in,
		Tracer:    tracer,
		MaxErrors: maxErrors,
	})

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, newPayload(file, res.Tree, bag, res.Errors)); err != nil {
			trace.Point(tracer, trace.ScopePass, "cache-error", err.Error(), span.ID(), "file", file.Path)
		}
	}

	span.End(strconv.FormatUint(uint64(res.Errors), 10) + " errors")
	st := StatusDone
	if res.Errors > 0 {
		st = StatusError
	}
	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: st, Elapsed: time.Since(started)})
	return &ParseResult{File: file, Tree: res.Tree, Bag: bag, Errors: res.Errors}
}
