package parser

import (
	"strconv"

	"nafi/internal/diag"
	"nafi/internal/lexer"
	"nafi/internal/source"
	"nafi/internal/syntax"
	"nafi/internal/trace"
)

type Options struct {
	// Reporter получает и предупреждения лексера, и ошибки разбора. при nil молчим.
	Reporter diag.Reporter
	// Interner is handed to the lexer for Identifier/Symbol interning.
	Interner *source.Interner
	// Tracer receives a node-scope "push" event per pushed node.
	Tracer trace.Tracer
	// MaxErrors caps reported parse errors; 0 means unlimited. Parsing continues either way.
	MaxErrors     uint
	CurrentErrors uint
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors > o.MaxErrors
}

type Result struct {
	Tree *syntax.Tree
	Bag  *diag.Bag
	// Errors counts ERROR nodes reported while parsing.
	Errors uint
}

// Parser хранит состояние разбора одного файла.
// Токены идут из lexer.Driver; каждый байт исходника попадает в дерево ровно одним листом.
type Parser struct {
	file   *source.File
	drv    *lexer.Driver
	b      *syntax.Builder
	buf    []lexer.Lexed // сырые токены, прочитанные заранее (включая trivia)
	eof    bool
	opts   Options
	tracer trace.Tracer
	depth  int
}

// maxNesting bounds expression recursion; deeper input degrades into ERROR nodes.
const maxNesting = 512

// ParseFile parses a whole file. It never fails: unparseable regions become
// ERROR nodes and the resulting tree always covers the file byte for byte.
func ParseFile(file *source.File, opts Options) Result {
	t := opts.Tracer
	if t == nil {
		t = trace.Nop
	}
	p := &Parser{
		file: file,
		drv: lexer.NewDriver(file, lexer.Options{
			Reporter: opts.Reporter,
			Interner: opts.Interner,
			Tracer:   t,
		}),
		b:      syntax.NewBuilder(string(file.Content)),
		opts:   opts,
		tracer: t,
	}

	p.start(syntax.SourceFile)
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		if tok.IsSymbol("}") || isStray(tok) {
			p.strayToken(tok)
			continue
		}
		p.statement()
	}
	p.finish()

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		Tree:   p.b.Build(),
		Bag:    bag,
		Errors: p.opts.CurrentErrors,
	}
}

// Parse parses src as an anonymous file.
func Parse(src string, opts Options) *syntax.Tree {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(src))
	return ParseFile(fs.Get(id), opts).Tree
}

// fill дочитывает буфер до n сырых токенов (или до конца входа).
func (p *Parser) fill(n int) bool {
	for len(p.buf) < n {
		if p.eof {
			return false
		}
		tok, ok := p.drv.Next()
		if !ok {
			p.eof = true
			return false
		}
		p.buf = append(p.buf, tok)
	}
	return true
}

// raw returns the i-th unconsumed token, trivia included.
func (p *Parser) raw(i int) (lexer.Lexed, bool) {
	if !p.fill(i + 1) {
		return lexer.Lexed{}, false
	}
	return p.buf[i], true
}

// look returns the next significant token without pushing anything, and its
// index in the raw buffer.
func (p *Parser) look() (lexer.Lexed, int, bool) {
	for i := 0; ; i++ {
		tok, ok := p.raw(i)
		if !ok {
			return lexer.Lexed{}, i, false
		}
		if !tok.IsTrivia() {
			return tok, i, true
		}
	}
}

// peek pushes pending trivia into the innermost open node and returns the
// next significant token.
func (p *Parser) peek() (lexer.Lexed, bool) {
	for {
		tok, ok := p.raw(0)
		if !ok {
			return lexer.Lexed{}, false
		}
		if !tok.IsTrivia() {
			return tok, true
		}
		p.pushRaw()
	}
}

// pushRaw moves the first buffered token into the tree as a terminal.
func (p *Parser) pushRaw() {
	tok := p.buf[0]
	p.buf = p.buf[1:]
	kind := syntax.FromToken(tok.Kind)
	n := int(tok.Span.Len())
	p.b.Token(kind, n)
	p.tracePush(kind, n)
}

// bump pushes trivia and then the next significant token.
func (p *Parser) bump() (lexer.Lexed, bool) {
	tok, ok := p.peek()
	if ok {
		p.pushRaw()
	}
	return tok, ok
}

// at reports whether the next significant token is the symbol s.
func (p *Parser) at(s string) bool {
	tok, _, ok := p.look()
	return ok && tok.IsSymbol(s)
}

// eat pushes the symbol s if it comes next.
func (p *Parser) eat(s string) bool {
	if !p.at(s) {
		return false
	}
	p.bump()
	return true
}

func (p *Parser) start(kind syntax.NodeKind) {
	p.b.Start(kind)
}

func (p *Parser) startAt(cp syntax.Checkpoint, kind syntax.NodeKind) {
	p.b.StartAt(cp, kind)
}

func (p *Parser) finish() syntax.NodeID {
	id := p.b.Finish()
	if trace.Enabled(p.tracer, trace.ScopeNode) {
		p.tracePush(p.b.Kind(id), int(p.b.Range(id).Len()))
	}
	return id
}

func (p *Parser) tracePush(kind syntax.NodeKind, n int) {
	if !trace.Enabled(p.tracer, trace.ScopeNode) {
		return
	}
	trace.Point(p.tracer, trace.ScopeNode, "push", kind.String(), 0,
		"length", strconv.Itoa(n),
		"depth", strconv.Itoa(p.b.Depth()))
}
