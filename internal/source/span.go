package source

import (
	"fmt"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into the buffer identified by File.
// Two spans are equal iff their byte ranges and file identity match, so plain == works.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// NewSpan validates the range against f and returns the span.
// Out-of-bounds ranges and boundaries that cut a UTF-8 sequence are contract
// violations and panic.
func NewSpan(f *File, start, end uint32) Span {
	if f == nil {
		panic("source: span over nil file")
	}
	n := uint32(len(f.Content))
	if start > end || end > n {
		panic(fmt.Errorf("source: span %d..%d out of bounds for %q (len %d)", start, end, f.Path, n))
	}
	if !f.isBoundary(start) || !f.isBoundary(end) {
		panic(fmt.Errorf("source: span %d..%d splits a UTF-8 sequence in %q", start, end, f.Path))
	}
	return Span{File: f.ID, Start: start, End: end}
}

func (f *File) isBoundary(off uint32) bool {
	if off == 0 || off >= uint32(len(f.Content)) {
		return true
	}
	return utf8.RuneStart(f.Content[off])
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ShiftLeft moves the span n bytes towards the start of the file.
// If n exceeds Start the span is returned unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start - n,
		End:   s.End - n,
	}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

// Text returns the literal slice of the file the span covers.
func (f *File) Text(s Span) string {
	if s.File != f.ID {
		panic(fmt.Errorf("source: span of file %d used with file %d", s.File, f.ID))
	}
	return string(f.Content[s.Start:s.End])
}

// StartPos returns the 1-based line/column of the span start.
func (f *File) StartPos(s Span) LineCol {
	return f.Position(s.Start)
}

// EndPos returns the 1-based line/column of the span end.
func (f *File) EndPos(s Span) LineCol {
	return f.Position(s.End)
}
