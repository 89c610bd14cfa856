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
	"nafi/internal/token"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] [file.nafi|directory|-]",
		Short: "Tokenize nafi source",
		Long: `Tokenize runs the mode-switching lexer and prints every token as
Kind(text)@line:col, indented by string/interpolation depth.
Without an argument (or with -) the source is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("flat", false, "do not indent tokens by depth")
	cmd.Flags().String("start-mode", "code", "initial lexer mode (code|string)")
	return cmd
}

type tokenizedFile struct {
	Path   string                `json:"path"`
	Tokens []diagfmt.TokenOutput `json:"tokens"`
}

func runTokenize(cmd *cobra.Command, args []string) error {
	s, cleanup, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := s.outputFormat(cmd.Flags(), "pretty", "json")
	if err != nil {
		return err
	}
	flat, err := cmd.Flags().GetBool("flat")
	if err != nil {
		return fmt.Errorf("failed to get flat flag: %w", err)
	}
	modeStr, err := cmd.Flags().GetString("start-mode")
	if err != nil {
		return fmt.Errorf("failed to get start-mode flag: %w", err)
	}
	if s.opts.StartMode, err = token.ParseMode(modeStr); err != nil {
		return err
	}
	tokOpts := diagfmt.TokenOpts{Color: s.colorOut, Flat: flat}

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
			return tokenizeDir(cmd, s, target, format, tokOpts)
		}
	}

	var res *driver.TokenizeResult
	if target == "-" {
		content, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		res = driver.TokenizeSource(cmd.Context(), "<stdin>", content, s.opts)
	} else if res, err = driver.Tokenize(cmd.Context(), target, s.opts); err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	if err := s.reportDiagnostics(stderr, res.Bag, res.FileSet); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(out, res.Tokens, res.FileSet)
	default:
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet, tokOpts)
	}
	if err != nil {
		return err
	}
	if err := s.reportTimings(stderr, "tokenize", res.File.Path); err != nil {
		return err
	}
	return failure(countErrors(res.Bag))
}

func tokenizeDir(cmd *cobra.Command, s *settings, dir, format string, tokOpts diagfmt.TokenOpts) error {
	var (
		fs      *source.FileSet
		results []driver.TokenizeDirResult
	)
	work := func(opts driver.Options) error {
		var err error
		fs, _, results, err = driver.TokenizeDir(cmd.Context(), dir, opts)
		return err
	}
	if err := runDir(s, "tokenize", dir, work); err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	all := diag.NewBag(0)
	for _, r := range results {
		all.Merge(r.Bag)
	}
	stderr := cmd.ErrOrStderr()
	if err := s.reportDiagnostics(stderr, all, fs); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		files := make([]tokenizedFile, 0, len(results))
		for _, r := range results {
			files = append(files, tokenizedFile{Path: r.Path, Tokens: diagfmt.BuildTokensOutput(r.Tokens, fs)})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(files); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if _, err := fmt.Fprintf(out, "== %s ==\n", r.Path); err != nil {
				return err
			}
			if err := diagfmt.FormatTokensPretty(out, r.Tokens, fs, tokOpts); err != nil {
				return err
			}
		}
	}
	if err := s.reportTimings(stderr, "tokenize", dir); err != nil {
		return err
	}
	return failure(countErrors(all))
}

// runDir runs a directory pass either behind the progress UI or plainly.
func runDir(s *settings, title, dir string, work func(driver.Options) error) error {
	if !shouldUseTUI(s.ui) {
		return work(s.opts)
	}
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return err
	}
	return runWithUI(title+" "+dir, files, s.opts, work)
}
