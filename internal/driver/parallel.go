package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"nafi/internal/diag"
	"nafi/internal/lexer"
	"nafi/internal/source"
	"nafi/internal/syntax"
	"nafi/internal/trace"
)

// Ext is the source file extension picked up in directory mode.
const Ext = ".nafi"

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string        // путь к файлу
	FileID source.FileID // ID файла в FileSet; не задан при ошибке загрузки
	Tokens []lexer.Lexed
	Bag    *diag.Bag
}

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path   string
	FileID source.FileID
	Tree   *syntax.Tree // nil при ошибке загрузки
	Bag    *diag.Bag
	Errors uint
	Cached bool
}

// ListSourceFiles возвращает отсортированный список всех *.nafi файлов в директории
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// dirRun is the loaded state shared by TokenizeDir and ParseDir.
type dirRun struct {
	files      []string
	fileSet    *source.FileSet
	fileIDs    map[string]source.FileID
	loadErrors map[string]error
	jobs       int
}

func loadDir(dir string, opts Options) (*dirRun, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	run := &dirRun{
		files:      files,
		fileSet:    source.NewFileSetWithBase(dir),
		fileIDs:    make(map[string]source.FileID, len(files)),
		loadErrors: make(map[string]error),
		jobs:       opts.Jobs,
	}
	if run.jobs <= 0 {
		run.jobs = runtime.GOMAXPROCS(0)
	}

	idx := opts.Timer.Begin("load")
	// FileSet не потокобезопасен на запись: грузим последовательно
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		fileID, err := run.fileSet.Load(path)
		if err != nil {
			run.loadErrors[path] = err
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		run.fileIDs[path] = fileID
	}
	opts.Timer.End(idx, strconv.Itoa(len(files))+" files")
	return run, nil
}

// loadFailed adds the I/O diagnostic for path to bag if it failed to load.
func (r *dirRun) loadFailed(path string, bag *diag.Bag) bool {
	loadErr, failed := r.loadErrors[path]
	if !failed {
		return false
	}
	bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
	return true
}

// forEach runs fn for every file on a bounded worker group.
// Индексы уникальны для каждой горутины, мьютекс для результатов не нужен.
func (r *dirRun) forEach(ctx context.Context, fn func(ctx context.Context, i int, path string) error) error {
	if len(r.files) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.jobs, len(r.files)))
	for i, path := range r.files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, i, path)
		})
	}
	return g.Wait()
}

// TokenizeDir токенизирует все *.nafi файлы в директории параллельно.
// With Options.Intern every worker shares one Interner.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, *source.Interner, []TokenizeDirResult, error) {
	run, err := loadDir(dir, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	in := opts.interner()

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "tokenize-dir", trace.CurrentSpan(ctx)).WithExtra("dir", dir)
	ctx = trace.WithSpan(ctx, span)
	idx := opts.Timer.Begin("lex")

	results := make([]TokenizeDirResult, len(run.files))
	err = run.forEach(ctx, func(ctx context.Context, i int, path string) error {
		bag := diag.NewBag(opts.MaxDiagnostics)
		results[i] = TokenizeDirResult{Path: path, Bag: bag}
		if run.loadFailed(path, bag) {
			return nil
		}
		fileID := run.fileIDs[path]
		results[i].FileID = fileID
		results[i].Tokens = tokenizeFile(ctx, run.fileSet.Get(fileID), in, bag, opts)
		return nil
	})

	opts.Timer.End(idx, strconv.Itoa(len(run.files))+" files")
	span.End("")
	return run.fileSet, in, results, err
}

// ParseDir парсит все *.nafi файлы в директории параллельно
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, *source.Interner, []ParseDirResult, error) {
	maxErrors, err := opts.maxErrors()
	if err != nil {
		return nil, nil, nil, err
	}
	run, err := loadDir(dir, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	in := opts.interner()

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "parse-dir", trace.CurrentSpan(ctx)).WithExtra("dir", dir)
	ctx = trace.WithSpan(ctx, span)
	idx := opts.Timer.Begin("parse")

	results := make([]ParseDirResult, len(run.files))
	err = run.forEach(ctx, func(ctx context.Context, i int, path string) error {
		bag := diag.NewBag(opts.MaxDiagnostics)
		results[i] = ParseDirResult{Path: path, Bag: bag}
		if run.loadFailed(path, bag) {
			return nil
		}
		fileID := run.fileIDs[path]
		out := parseFile(ctx, run.fileSet.Get(fileID), in, bag, maxErrors, opts)
		results[i].FileID = fileID
		results[i].Tree = out.Tree
		results[i].Errors = out.Errors
		results[i].Cached = out.Cached
		return nil
	})

	opts.Timer.End(idx, strconv.Itoa(len(run.files))+" files")
	span.End("")
	return run.fileSet, in, results, err
}
