package diag_test

import (
	"strings"
	"testing"

	"nafi/internal/diag"
	"nafi/internal/source"
)

func TestBagLimitAndFlags(t *testing.T) {
	bag := diag.NewBag(2)
	sp := source.Span{Start: 1, End: 2}
	if !bag.Add(diag.New(diag.SevWarning, diag.LexInvalidChar, sp, "a")) {
		t.Fatal("first add rejected")
	}
	if !bag.Add(diag.New(diag.SevWarning, diag.LexInvalidEscape, sp, "b")) {
		t.Fatal("second add rejected")
	}
	if bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, sp, "c")) {
		t.Fatal("limit not enforced")
	}
	if bag.HasErrors() {
		t.Error("no errors expected")
	}
	if !bag.HasWarnings() {
		t.Error("warnings expected")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.LexInvalidEscape, source.Span{Start: 5, End: 7}, "late"))
	bag.Add(diag.New(diag.SevWarning, diag.LexInvalidChar, source.Span{Start: 0, End: 1}, "early"))
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{Start: 0, End: 1}, "error first"))
	bag.Add(diag.New(diag.SevWarning, diag.LexInvalidChar, source.Span{Start: 0, End: 1}, "dup"))

	bag.Sort()
	got := bag.Items()
	if got[0].Code != diag.SynUnexpectedToken {
		t.Errorf("errors must sort before warnings at the same span, got %v", got[0].Code)
	}
	if got[len(got)-1].Message != "late" {
		t.Errorf("last = %q", got[len(got)-1].Message)
	}

	bag.Dedup()
	if bag.Len() != 3 {
		t.Fatalf("dedup: len = %d, want 3", bag.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code diag.Code
		want string
	}{
		{diag.LexInvalidChar, "LEX1001"},
		{diag.LexInvalidEscape, "LEX1006"},
		{diag.SynUnclosedBrace, "SYN2007"},
		{diag.IOLoadFileError, "IO4001"},
		{diag.UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if !strings.Contains(diag.LexUnterminatedBlockComment.String(), "block comment") {
		t.Errorf("title missing: %s", diag.LexUnterminatedBlockComment)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := diag.NewBag(10)
	r := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})
	sp := source.Span{Start: 3, End: 4}
	for range 3 {
		diag.ReportWarning(r, diag.LexInvalidChar, sp, "invalid").Emit()
	}
	diag.ReportWarning(r, diag.LexInvalidChar, sp, "other message").Emit()
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
	if r.Suppressed() != 2 {
		t.Errorf("suppressed = %d, want 2", r.Suppressed())
	}
	// тот же текст в другом файле не дубль
	diag.ReportWarning(r, diag.LexInvalidChar, source.Span{File: 1, Start: 3, End: 4}, "invalid").Emit()
	if bag.Len() != 3 {
		t.Errorf("len = %d, want 3", bag.Len())
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  diag.Severity
		want string
	}{
		{diag.SevInfo, "INFO"},
		{diag.SevWarning, "WARNING"},
		{diag.SevError, "ERROR"},
		{diag.Severity(9), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d) = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := diag.NewBag(10)
	b := diag.ReportError(&diag.BagReporter{Bag: bag}, diag.SynExpectExpression, source.Span{}, "expected expression").
		WithNote(source.Span{Start: 0, End: 0}, "here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Errorf("note lost")
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.nafi", []byte("let x = 1;\n\"\\q\""))
	diags := []diag.Diagnostic{
		diag.New(diag.SevWarning, diag.LexInvalidEscape, source.Span{File: id, Start: 12, End: 14}, "invalid escape\nsequence"),
		diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: id, Start: 4, End: 5}, "unexpected"),
		diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: 99}, "unknown file"),
	}
	got := diag.FormatShort(diags, fs, false)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), got)
	}
	if !strings.HasSuffix(lines[0], "a.nafi:1:5 unexpected") || !strings.HasPrefix(lines[0], "error SYN2001 ") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "a.nafi:2:2 invalid escape sequence") {
		t.Errorf("line 1 = %q", lines[1])
	}
}
