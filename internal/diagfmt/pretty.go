package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"nafi/internal/diag"
	"nafi/internal/source"
)

type palette struct {
	sev  map[diag.Severity]*color.Color
	path *color.Color
	gut  *color.Color
	mark *color.Color
	note *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgBlue, color.Bold),
		},
		path: color.New(color.Bold),
		gut:  color.New(color.FgBlue),
		mark: color.New(color.FgRed, color.Bold),
		note: color.New(color.FgCyan),
	}
	all := []*color.Color{p.path, p.gut, p.mark, p.note}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	default:
		return f.FormatPath(mode.String(), "")
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	bw := bufio.NewWriter(w)
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			bw.WriteByte('\n')
		}
		writeHeader(bw, pal, fs, opts, d)
		writeSnippet(bw, pal, fs, opts, d.Primary, pal.mark)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(bw, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
			writeSnippet(bw, pal, fs, opts, n.Span, pal.note)
		}
	}
	return bw.Flush()
}

func writeHeader(bw *bufio.Writer, pal palette, fs *source.FileSet, opts PrettyOpts, d diag.Diagnostic) {
	sev := pal.sev[d.Severity]
	if sev == nil {
		sev = pal.sev[diag.SevInfo]
	}
	if int(d.Primary.File) < fs.Len() {
		f := fs.Get(d.Primary.File)
		pos := f.Position(d.Primary.Start)
		bw.WriteString(pal.path.Sprintf("%s:%d:%d:", formatPath(f, fs, opts.PathMode), pos.Line, pos.Col))
		bw.WriteByte(' ')
	}
	fmt.Fprintf(bw, "%s %s: %s\n", sev.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
}

// writeSnippet печатает строки span'а с контекстом и подчёркивает первую строку.
func writeSnippet(bw *bufio.Writer, pal palette, fs *source.FileSet, opts PrettyOpts, sp source.Span, mark *color.Color) {
	if int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	if int(sp.Start) > len(f.Content) {
		return
	}
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, uint32(f.LineCount()))
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		line := strings.ReplaceAll(f.GetLine(ln), "\t", " ")
		fmt.Fprintf(bw, "%s %s\n", pal.gut.Sprintf("%*d |", width, ln), line)
		if ln != start.Line {
			continue
		}
		n := 1
		if end.Line == start.Line && end.Col > start.Col {
			n = int(end.Col - start.Col)
		} else if end.Line > start.Line {
			n = max(utf8.RuneCountInString(line)-int(start.Col)+1, 1)
		}
		underline := "^" + strings.Repeat("~", n-1)
		fmt.Fprintf(bw, "%s %s%s\n", pal.gut.Sprintf("%*s |", width, ""),
			strings.Repeat(" ", int(start.Col)-1), mark.Sprint(underline))
	}
}
