package lexer_test

import (
	"testing"

	"supra/internal/diag"
	"supra/internal/lexer"
	"supra/internal/source"
	"supra/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ovr", []byte(src))
	bag := diag.NewBag(10)
	lx := lexer.New(fs.Get(id), diag.BagReporter{Bag: bag})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, bag
		}
	}
}

func TestLexDefinition(t *testing.T) {
	toks, bag := lexAll(t, "def area(x, y \\\\ 2) when x >= 0 = super(x) + Geo.k!(y) # tail\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items()[0].Message)
	}
	want := []token.Kind{
		token.KwDef, token.Ident, token.LParen, token.Ident, token.Comma, token.Ident,
		token.DefaultSep, token.IntLit, token.RParen, token.KwWhen, token.Ident, token.GtEq,
		token.IntLit, token.Assign, token.KwSuper, token.LParen, token.Ident, token.RParen,
		token.Plus, token.Alias, token.Dot, token.Ident, token.LParen, token.Ident, token.RParen,
		token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v (%q), want %v", i, toks[i].Kind, toks[i].Text, k)
		}
	}
	if toks[21].Text != "k!" {
		t.Fatalf("expected bang suffix to stay in the name, got %q", toks[21].Text)
	}
	if !toks[14].Adjacent(toks[15]) || toks[9].Adjacent(toks[10]) {
		t.Fatalf("adjacency misreported")
	}
}

func TestLexErrors(t *testing.T) {
	_, bag := lexAll(t, "def f(x) = 12ab + $")
	if bag.Len() != 2 {
		t.Fatalf("expected two lexical errors, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.LexBadNumber || bag.Items()[1].Code != diag.LexUnknownChar {
		t.Fatalf("unexpected codes: %v, %v", bag.Items()[0].Code, bag.Items()[1].Code)
	}
}
