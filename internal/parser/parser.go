package parser

import (
	"fmt"

	"supra/internal/ast"
	"supra/internal/diag"
	"supra/internal/lexer"
	"supra/internal/source"
	"supra/internal/token"
)

// Options configures one parse.
type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint
}

// Result is the outcome of ParseFile.
type Result struct {
	Unit   *ast.Unit
	Errors uint
}

// Parser holds the state for one unit file.
type Parser struct {
	lx       *lexer.Lexer
	strings  *source.Interner
	file     *source.File
	opts     Options
	errors   uint
	lastSpan source.Span
}

// ParseFile parses the unit in file. The returned unit is never nil; on
// syntax errors it holds every statement that parsed cleanly.
func ParseFile(fs *source.FileSet, file source.FileID, strings *source.Interner, opts Options) Result {
	f := fs.Get(file)
	p := &Parser{strings: strings, file: f, opts: opts}
	p.lx = lexer.New(f, lexReporter{p})

	unit := &ast.Unit{File: file}
	p.parseHeader(unit)
	for !p.at(token.EOF) && !p.enough() {
		stmt, ok := p.parseStmt()
		if !ok {
			p.resync()
			continue
		}
		unit.Stmts = append(unit.Stmts, stmt)
	}
	return Result{Unit: unit, Errors: p.errors}
}

func (p *Parser) parseHeader(unit *ast.Unit) {
	if !p.at(token.KwUnit) {
		p.errorf(diag.SynExpectUnitHeader, p.lx.Peek().Span, "expected `unit Name` at the start of the file")
		p.resync()
		return
	}
	p.advance()
	name, ok := p.expect(token.Alias, diag.SynExpectIdentifier, "expected unit name after `unit`")
	if !ok {
		p.resync()
		return
	}
	unit.Name = p.strings.Intern(name.Text)
	unit.NameSpan = name.Span
}

func (p *Parser) at(k token.Kind) bool { return p.lx.Peek().Kind == k }

func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	p.lastSpan = tok.Span
	return tok
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if tok, ok := p.eat(k); ok {
		return tok, true
	}
	got := p.lx.Peek()
	p.errorf(code, got.Span, "%s, got %s", msg, describe(got))
	return token.Token{}, false
}

// resync skips to the next token that can start a statement.
func (p *Parser) resync() {
	for !p.at(token.EOF) {
		if k := p.lx.Peek().Kind; k.StartsStatement() && k != token.KwUnit {
			return
		}
		p.advance()
	}
}

func (p *Parser) enough() bool {
	return p.opts.MaxErrors != 0 && p.errors >= p.opts.MaxErrors
}

func (p *Parser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	p.errors++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, fmt.Sprintf(format, args...), nil)
	}
}

func (p *Parser) text(sp source.Span) string {
	if sp.End > uint32(len(p.file.Content)) || sp.Start > sp.End {
		return ""
	}
	return string(p.file.Content[sp.Start:sp.End])
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.Alias, token.IntLit:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	default:
		return fmt.Sprintf("%q", tok.Kind.String())
	}
}

// lexReporter forwards lexical errors and counts them toward MaxErrors.
type lexReporter struct{ p *Parser }

func (r lexReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		r.p.errors++
	}
	if r.p.opts.Reporter != nil {
		r.p.opts.Reporter.Report(code, sev, sp, msg, notes)
	}
}
