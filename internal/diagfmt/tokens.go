package diagfmt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"nafi/internal/lexer"
	"nafi/internal/source"
	"nafi/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind"`
	Text  string      `json:"text"`
	Span  source.Span `json:"span"`
	Line  uint32      `json:"line"`
	Col   uint32      `json:"col"`
	Depth int         `json:"depth"`
	Mode  string      `json:"mode"`
}

// Escape renders token source the way the dump shows it: Go string escapes
// without the surrounding quotes.
func Escape(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

// FormatToken renders one token as Kind(escaped)@line:col.
func FormatToken(tok token.Token, pos source.LineCol) string {
	return fmt.Sprintf("%s(%s)@%d:%d", tok.Kind, Escape(tok.Text), pos.Line, pos.Col)
}

func kindColor(k token.Kind, on bool) *color.Color {
	var c *color.Color
	switch {
	case k.IsDegraded():
		c = color.New(color.FgRed, color.Bold)
	case k.IsComment():
		c = color.New(color.FgHiBlack)
	case k == token.Whitespace:
		c = color.New(color.Faint)
	case k.Mode() == token.ModeString || k == token.StringStart:
		c = color.New(color.FgGreen)
	case k == token.DecimalInteger:
		c = color.New(color.FgCyan)
	case k == token.Symbol:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.Reset)
	}
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// FormatTokensPretty выводит токены по одному на строку в виде Kind(src)@line:col.
// Каждый уровень вложенности строк/интерполяций добавляет один пробел отступа,
// так что фрагменты строкового литерала стоят глубже его StringStart.
func FormatTokensPretty(w io.Writer, tokens []lexer.Lexed, fs *source.FileSet, opts TokenOpts) error {
	bw := bufio.NewWriter(w)
	colors := make(map[token.Kind]*color.Color)
	for _, tok := range tokens {
		c, ok := colors[tok.Kind]
		if !ok {
			c = kindColor(tok.Kind, opts.Color)
			colors[tok.Kind] = c
		}
		if !opts.Flat {
			bw.WriteString(strings.Repeat(" ", tok.Depth))
		}
		pos := fs.Get(tok.Span.File).Position(tok.Span.Start)
		bw.WriteString(c.Sprint(tok.Kind.String()))
		fmt.Fprintf(bw, "(%s)@%d:%d\n", Escape(tok.Text), pos.Line, pos.Col)
	}
	return bw.Flush()
}

// BuildTokensOutput формирует структуру JSON-вывода без сериализации.
func BuildTokensOutput(tokens []lexer.Lexed, fs *source.FileSet) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos := fs.Get(tok.Span.File).Position(tok.Span.Start)
		output = append(output, TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Span:  tok.Span,
			Line:  pos.Line,
			Col:   pos.Col,
			Depth: tok.Depth,
			Mode:  tok.Kind.Mode().String(),
		})
	}
	return output
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []lexer.Lexed, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTokensOutput(tokens, fs))
}
