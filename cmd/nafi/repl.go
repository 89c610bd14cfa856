package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"nafi/internal/diag"
	"nafi/internal/diagfmt"
	"nafi/internal/lexer"
	"nafi/internal/parser"
	"nafi/internal/source"
)

const (
	replPrompt   = "? "
	replContinue = ". "
	historyFile  = ".nafi_history"
)

// lineReader is the part of liner.State the loop needs; piped input gets a
// bufio-backed reader instead.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

type scanReader struct{ sc *bufio.Scanner }

func (r scanReader) Prompt(string) (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

type replMode string

const (
	replTokens  replMode = "tokens"
	replTree    replMode = "tree"
	replOutline replMode = "outline"
)

// replSession keeps what survives between entries: one FileSet so that
// diagnostics of earlier entries stay printable, and one Interner.
type replSession struct {
	mode     replMode
	fs       *source.FileSet
	interner *source.Interner
	settings *settings
	entries  int
}

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively tokenize or parse nafi input",
		Long: `Repl reads entries line by line and prints their tokens or syntax tree.
An entry with an unclosed string, paren or brace continues on the next line.
Commands: ;;tokens ;;tree ;;outline ;;help ;;exit`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
	cmd.Flags().String("mode", "tree", "initial output (tokens|tree|outline)")
	return cmd
}

func runRepl(cmd *cobra.Command, _ []string) error {
	s, cleanup, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	modeStr, err := cmd.Flags().GetString("mode")
	if err != nil {
		return fmt.Errorf("failed to get mode flag: %w", err)
	}
	sess := &replSession{
		fs:       source.NewFileSet(),
		interner: source.NewInterner(),
		settings: s,
	}
	if !sess.setMode(modeStr) {
		return fmt.Errorf("invalid --mode %q (expected tokens|tree|outline)", modeStr)
	}

	in, interactive := cmd.InOrStdin().(*os.File)
	if !interactive || !isTerminal(in) {
		return sess.loop(scanReader{sc: bufio.NewScanner(cmd.InOrStdin())}, cmd.OutOrStdout(), cmd.ErrOrStderr(), nil)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()
	return sess.loop(ln, cmd.OutOrStdout(), cmd.ErrOrStderr(), ln.AppendHistory)
}

func (s *replSession) setMode(m string) bool {
	switch replMode(m) {
	case replTokens, replTree, replOutline:
		s.mode = replMode(m)
		return true
	}
	return false
}

// loop reads entries until EOF or ;;exit. remember, if set, records each
// entry in the line editor history.
func (s *replSession) loop(r lineReader, out, errOut io.Writer, remember func(string)) error {
	for {
		entry, ok, err := s.readEntry(r)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if strings.TrimSpace(entry) == "" {
			continue
		}
		if cmd, isCmd := strings.CutPrefix(strings.TrimSpace(entry), ";;"); isCmd {
			if s.command(out, cmd) {
				return nil
			}
			continue
		}
		if remember != nil {
			remember(strings.ReplaceAll(entry, "\n", " "))
		}
		if err := s.eval(out, errOut, entry); err != nil {
			return err
		}
	}
}

// readEntry collects lines while the entry is incomplete. An empty
// continuation line submits whatever has been typed.
func (s *replSession) readEntry(r lineReader) (string, bool, error) {
	var b strings.Builder
	for {
		prompt := replPrompt
		if b.Len() > 0 {
			prompt = replContinue
		}
		line, err := r.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if b.Len() > 0 {
				return b.String(), true, nil
			}
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		if b.Len() > 0 {
			if line == "" {
				return b.String(), true, nil
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if strings.HasPrefix(strings.TrimSpace(b.String()), ";;") || !incomplete(b.String()) {
			return b.String(), true, nil
		}
	}
}

// incomplete reports whether src ends inside a string, paren or brace.
func incomplete(src string) bool {
	bag := diag.NewBag(16)
	parser.Parse(src, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	end := uint32(len(strings.TrimRightFunc(src, unicode.IsSpace)))
	for _, d := range bag.Items() {
		switch d.Code {
		case diag.SynUnclosedString, diag.SynUnclosedParen, diag.SynUnclosedBrace:
			if d.Primary.End >= end {
				return true
			}
		}
	}
	return false
}

func (s *replSession) command(out io.Writer, cmd string) (exit bool) {
	switch cmd = strings.TrimSpace(cmd); cmd {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprintln(out, "commands: ;;tokens ;;tree ;;outline ;;help ;;exit")
	default:
		if !s.setMode(cmd) {
			fmt.Fprintln(out, "unsupported command; try ;;help")
		}
	}
	return false
}

func (s *replSession) eval(out, errOut io.Writer, entry string) error {
	s.entries++
	file := s.fs.Get(s.fs.AddVirtual("<repl:"+strconv.Itoa(s.entries)+">", []byte(entry)))
	bag := diag.NewBag(s.settings.opts.MaxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}

	var err error
	switch s.mode {
	case replTokens:
		toks := lexer.Lex(file, lexer.Options{Reporter: reporter, Interner: s.interner})
		err = diagfmt.FormatTokensPretty(out, toks, s.fs, diagfmt.TokenOpts{Color: s.settings.colorOut})
	default:
		res := parser.ParseFile(file, parser.Options{Reporter: reporter, Interner: s.interner})
		err = writeTree(out, map[replMode]string{replTree: "pretty", replOutline: "outline"}[s.mode], res.Tree, file, s.settings.colorOut)
	}
	if err != nil {
		return err
	}
	return s.settings.reportDiagnostics(errOut, bag, s.fs)
}
