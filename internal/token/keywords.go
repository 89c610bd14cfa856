package token

// Keyword is a reserved identifier. The lexer emits keywords as Identifier;
// the parser classifies them with LookupKeyword.
type Keyword uint8

const (
	NoKeyword Keyword = iota
	KwLet
	KwMutable
	KwIf
	KwElse
)

var keywords = map[string]Keyword{
	"let":     KwLet,
	"mutable": KwMutable,
	"if":      KwIf,
	"else":    KwElse,
}

// LookupKeyword возвращает ключевое слово для идентификатора.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Keyword, bool) {
	k, ok := keywords[ident]
	return k, ok
}

func (k Keyword) String() string {
	for s, kw := range keywords {
		if kw == k {
			return s
		}
	}
	return ""
}
