package token

import "supra/internal/source"

// Token is one lexeme with its source location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// Adjacent reports whether next starts exactly where t ends. Calls require
// the opening parenthesis to touch the callee name.
func (t Token) Adjacent(next Token) bool {
	return t.Span.File == next.Span.File && t.Span.End == next.Span.Start
}
