package lexer

import (
	"fmt"
	"unicode"

	"supra/internal/diag"
	"supra/internal/source"
	"supra/internal/token"
)

// Lexer turns a unit source file into tokens. Whitespace, newlines and
// `#` comments are skipped.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	look     *token.Token
}

// New creates a lexer over file. reporter may be nil.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), reporter: reporter}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next consumes and returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	tok := lx.Peek()
	lx.look = nil
	return tok
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()
	start := lx.cursor.Mark()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(start)}
	}
	ch := lx.cursor.Peek()
	switch {
	case isDec(ch):
		return lx.scanNumber()
	case ch == '_' || ch >= 0x80 || isLetter(ch):
		return lx.scanName()
	}
	return lx.scanPunct()
}

func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch ch := lx.cursor.Peek(); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.cursor.Bump()
		case ch == '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanName() token.Token {
	start := lx.cursor.Mark()
	first, size := lx.cursor.PeekRune()
	if first != '_' && !unicode.IsLetter(first) {
		lx.cursor.Off += size
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", first))
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(first)}
	}
	lx.cursor.Off += size
	for {
		r, n := lx.cursor.PeekRune()
		if n == 0 || !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		lx.cursor.Off += n
	}
	// trailing ? or ! as in valid? / run!
	if b := lx.cursor.Peek(); b == '?' || b == '!' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if text == "_" {
		return token.Token{Kind: token.Underscore, Span: sp, Text: text}
	}
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	kind := token.Ident
	if unicode.IsUpper(first) {
		kind = token.Alias
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	bad := false
	for {
		r, n := lx.cursor.PeekRune()
		if n == 0 || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		bad = true
		lx.cursor.Off += n
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if bad || text[len(text)-1] == '_' {
		lx.report(diag.LexBadNumber, sp, fmt.Sprintf("malformed integer literal %q", text))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	kind := token.Invalid
	switch ch {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '=':
		kind = token.Assign
		if lx.cursor.Eat('=') {
			kind = token.EqEq
		}
	case '!':
		if lx.cursor.Eat('=') {
			kind = token.BangEq
		}
	case '<':
		kind = token.Lt
		if lx.cursor.Eat('=') {
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		}
	case '\\':
		if lx.cursor.Eat('\\') {
			kind = token.DefaultSep
		}
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if kind == token.Invalid {
		lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", text))
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.reporter != nil {
		lx.reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func isDec(b byte) bool    { return b >= '0' && b <= '9' }
func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
