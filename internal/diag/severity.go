package diag

// Severity ranks a diagnostic. Neither level changes the token stream or the
// tree; only SevError makes `nafi parse` exit non-zero.
type Severity uint8

const (
	// SevInfo carries side information such as phase timings.
	SevInfo Severity = iota
	// SevWarning is what the lexer reports: the degraded token (Invalid,
	// InvalidEscape, a string or comment closed by EOF) is still valid data.
	SevWarning
	// SevError is what the parser reports for ERROR regions and unclosed
	// delimiters.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
