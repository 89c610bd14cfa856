package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nafi/internal/diag"
	"nafi/internal/diagfmt"
	"nafi/internal/driver"
	"nafi/internal/source"
	"nafi/internal/syntax"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] [file.nafi|directory|-]",
		Short: "Parse nafi source into a lossless syntax tree",
		Long: `Parse builds the syntax tree of a file or of every *.nafi file in a
directory and prints it. The tree keeps whitespace and comments, so its
leaves spell the input exactly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (notation|pretty|outline|json)")
	return cmd
}

var parseFormats = []string{"notation", "pretty", "outline", "json"}

func runParse(cmd *cobra.Command, args []string) error {
	s, cleanup, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := s.outputFormat(cmd.Flags(), parseFormats...)
	if err != nil {
		return err
	}

	target := "-"
	if len(args) == 1 {
		target = args[0]
	}
	if target != "-" {
		st, statErr := os.Stat(target)
		if statErr != nil {
			return fmt.Errorf("failed to stat path: %w", statErr)
		}
		if st.IsDir() {
			return parseDir(cmd, s, target, format)
		}
	}

	var res *driver.ParseResult
	if target == "-" {
		content, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		res, err = driver.ParseSource(cmd.Context(), "<stdin>", content, s.opts)
	} else {
		res, err = driver.Parse(cmd.Context(), target, s.opts)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	if err := s.reportDiagnostics(stderr, res.Bag, res.FileSet); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTreeJSON(out, res.Tree, res.File.Path)
	default:
		err = writeTree(out, format, res.Tree, res.File, s.colorOut)
	}
	if err != nil {
		return err
	}
	if err := s.reportTimings(stderr, "parse", res.File.Path); err != nil {
		return err
	}
	return failure(max(countErrors(res.Bag), int(res.Errors)))
}

func writeTree(w io.Writer, format string, tree *syntax.Tree, file *source.File, useColor bool) error {
	switch format {
	case "notation":
		return diagfmt.FormatTreeNotation(w, tree, false)
	case "outline":
		return diagfmt.FormatTreeOutline(w, tree, file, useColor)
	default:
		return diagfmt.FormatTreeNotation(w, tree, true)
	}
}

func parseDir(cmd *cobra.Command, s *settings, dir, format string) error {
	var (
		fs      *source.FileSet
		results []driver.ParseDirResult
	)
	work := func(opts driver.Options) error {
		var err error
		fs, _, results, err = driver.ParseDir(cmd.Context(), dir, opts)
		return err
	}
	if err := runDir(s, "parse", dir, work); err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	all := diag.NewBag(0)
	errs := 0
	for _, r := range results {
		all.Merge(r.Bag)
		errs += max(countErrors(r.Bag), int(r.Errors))
	}
	stderr := cmd.ErrOrStderr()
	if err := s.reportDiagnostics(stderr, all, fs); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		trees := make([]diagfmt.TreeOutput, 0, len(results))
		for _, r := range results {
			if r.Tree != nil {
				trees = append(trees, diagfmt.BuildTreeOutput(r.Tree, r.Path))
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(trees); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Tree == nil {
				continue
			}
			header := r.Path
			if r.Cached {
				header += " (cached)"
			}
			if _, err := fmt.Fprintf(out, "== %s ==\n", header); err != nil {
				return err
			}
			if err := writeTree(out, format, r.Tree, fs.Get(r.FileID), s.colorOut); err != nil {
				return err
			}
		}
	}
	if err := s.reportTimings(stderr, "parse", dir); err != nil {
		return err
	}
	return failure(errs)
}
