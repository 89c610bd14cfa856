package main

import (
	"fmt"
	"io"

	"nafi/internal/diag"
	"nafi/internal/diagfmt"
	"nafi/internal/driver"
	"nafi/internal/source"
)

// reportDiagnostics prints bag to w in the selected format.
func (s *settings) reportDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if s.diagFormat == "json" {
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	}
	return diagfmt.Pretty(w, bag, fs, s.prettyOpts())
}

// reportTimings prints the --timings summary; in json mode it is an info
// diagnostic carrying the phase report.
func (s *settings) reportTimings(w io.Writer, kind, path string) error {
	if !s.timings {
		return nil
	}
	if s.diagFormat == "json" {
		bag := diag.NewBag(1)
		driver.AppendTimings(bag, kind, path, s.opts.Timer)
		return diagfmt.JSON(w, bag, source.NewFileSet(), diagfmt.JSONOpts{IncludeNotes: true})
	}
	_, err := fmt.Fprint(w, s.opts.Timer.Summary())
	return err
}

func countErrors(bag *diag.Bag) int {
	if bag == nil {
		return 0
	}
	n := 0
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			n++
		}
	}
	return n
}

// failure turns an error count into the command's exit status.
func failure(n int) error {
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%d error(s)", n)
}
