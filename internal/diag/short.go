package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"nafi/internal/source"
)

type shortLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics one per line as
// "severity CODE path:line:col message", sorted by location.
// Entries whose file is unknown to fs are skipped.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortLine, 0, len(diags))
	for i := range diags {
		rendered = appendShort(rendered, &diags[i], fs, includeNotes)
	}

	slices.SortStableFunc(rendered, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})

	var b strings.Builder
	for i, d := range rendered {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
	}
	return b.String()
}

func appendShort(out []shortLine, d *Diagnostic, fs *source.FileSet, includeNotes bool) []shortLine {
	if path, pos, ok := locate(fs, d.Primary); ok {
		out = append(out, shortLine{
			Severity: SeverityLabel(d.Severity),
			Code:     d.Code.ID(),
			Path:     path,
			Line:     pos.Line,
			Column:   pos.Col,
			Message:  sanitizeMessage(d.Message),
		})
	}
	if !includeNotes {
		return out
	}
	for _, note := range d.Notes {
		path, pos, ok := locate(fs, note.Span)
		if !ok {
			continue
		}
		out = append(out, shortLine{
			Severity: "note",
			Code:     d.Code.ID(),
			Path:     path,
			Line:     pos.Line,
			Column:   pos.Col,
			Message:  sanitizeMessage(note.Msg),
		})
	}
	return out
}

func locate(fs *source.FileSet, span source.Span) (string, source.LineCol, bool) {
	if int(span.File) >= fs.Len() {
		return "", source.LineCol{}, false
	}
	file := fs.Get(span.File)
	if int(span.Start) > len(file.Content) {
		return "", source.LineCol{}, false
	}
	path := filepath.ToSlash(file.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = strings.TrimPrefix(path, "./")
	}
	return path, file.Position(span.Start), true
}

// SeverityLabel is the lower-case name used in short output.
func SeverityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
