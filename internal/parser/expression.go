package parser

import (
	"strconv"
	"strings"

	"supra/internal/ast"
	"supra/internal/diag"
	"supra/internal/source"
	"supra/internal/token"
)

type binaryLevel struct {
	ops map[token.Kind]ast.Op
}

// levels from loosest to tightest binding.
var levels = []binaryLevel{
	{ops: map[token.Kind]ast.Op{
		token.EqEq: ast.OpEq, token.BangEq: ast.OpNe,
		token.Lt: ast.OpLt, token.LtEq: ast.OpLe,
		token.Gt: ast.OpGt, token.GtEq: ast.OpGe,
	}},
	{ops: map[token.Kind]ast.Op{token.Plus: ast.OpAdd, token.Minus: ast.OpSub}},
	{ops: map[token.Kind]ast.Op{token.Star: ast.OpMul, token.Slash: ast.OpDiv}},
}

func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) (ast.Expr, bool) {
	if level == len(levels) {
		return p.parseUnary()
	}
	left, ok := p.parseBinary(level + 1)
	if !ok {
		return nil, false
	}
	for {
		op, found := levels[level].ops[p.lx.Peek().Kind]
		if !found {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(level + 1)
		if !ok {
			return nil, false
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Span: left.Pos().Cover(right.Pos())}
		// comparisons do not chain
		if level == 0 {
			return left, true
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	if minus, ok := p.eat(token.Minus); ok {
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		if lit, isLit := x.(*ast.IntLit); isLit {
			return &ast.IntLit{Value: -lit.Value, Span: minus.Span.Cover(lit.Span)}, true
		}
		return &ast.Unary{Op: ast.OpNeg, X: x, Span: minus.Span.Cover(x.Pos())}, true
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, ok := p.intValue(tok)
		return &ast.IntLit{Value: v, Span: tok.Span}, ok
	case token.Ident:
		p.advance()
		if next := p.lx.Peek(); next.Kind == token.LParen && tok.Adjacent(next) {
			args, end, ok := p.parseArgs()
			if !ok {
				return nil, false
			}
			return &ast.Call{Name: p.strings.Intern(tok.Text), Args: args, Span: tok.Span.Cover(end)}, true
		}
		return &ast.Var{Name: p.strings.Intern(tok.Text), Span: tok.Span}, true
	case token.Alias:
		return p.parseRemoteCall()
	case token.KwSuper:
		p.advance()
		if next := p.lx.Peek(); next.Kind == token.LParen && tok.Adjacent(next) {
			args, end, ok := p.parseArgs()
			if !ok {
				return nil, false
			}
			return &ast.Super{Args: args, Span: tok.Span.Cover(end)}, true
		}
		return &ast.Super{Implicit: true, Span: tok.Span}, true
	case token.LParen:
		open := p.advance()
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.eat(token.RParen); !ok {
			p.errorf(diag.SynUnclosedParen, open.Span, "unclosed `(`")
			return nil, false
		}
		return x, true
	}
	p.errorf(diag.SynUnexpectedToken, tok.Span, "expected an expression, got %s", describe(tok))
	return nil, false
}

func (p *Parser) parseRemoteCall() (ast.Expr, bool) {
	unit := p.advance()
	if _, ok := p.expect(token.Dot, diag.SynUnexpectedToken, "expected `.` after unit name"); !ok {
		return nil, false
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return nil, false
	}
	if next := p.lx.Peek(); next.Kind != token.LParen || !name.Adjacent(next) {
		p.errorf(diag.SynUnexpectedToken, next.Span, "expected `(` right after %s.%s", unit.Text, name.Text)
		return nil, false
	}
	args, end, ok := p.parseArgs()
	if !ok {
		return nil, false
	}
	return &ast.Call{
		Unit: p.strings.Intern(unit.Text),
		Name: p.strings.Intern(name.Text),
		Args: args,
		Span: unit.Span.Cover(end),
	}, true
}

func (p *Parser) parseArgs() ([]ast.Expr, source.Span, bool) {
	open := p.advance()
	var args []ast.Expr
	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			break
		}
		if len(args) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected `,` or `)` in argument list"); !ok {
				return nil, source.Span{}, false
			}
		}
		arg, ok := p.parseExpr()
		if !ok {
			return nil, source.Span{}, false
		}
		args = append(args, arg)
	}
	closeTok, ok := p.eat(token.RParen)
	if !ok {
		p.errorf(diag.SynUnclosedParen, open.Span, "unclosed `(`")
		return nil, source.Span{}, false
	}
	return args, closeTok.Span, true
}

func (p *Parser) intValue(tok token.Token) (int64, bool) {
	v, err := strconv.ParseInt(strings.ReplaceAll(tok.Text, "_", ""), 10, 64)
	if err != nil {
		p.errorf(diag.SynUnexpectedToken, tok.Span, "integer %s does not fit in 64 bits", tok.Text)
		return 0, false
	}
	return v, true
}
