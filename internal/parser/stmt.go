package parser

import (
	"strconv"

	"supra/internal/ast"
	"supra/internal/diag"
	"supra/internal/token"
)

func (p *Parser) parseStmt() (ast.Stmt, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.KwBehaviour:
		return p.parseBehaviour()
	case token.KwCallback, token.KwOptionalCallback, token.KwMacrocallback, token.KwOptionalMacrocallback:
		return p.parseCallback()
	case token.KwDef, token.KwDefp, token.KwDefmacro, token.KwDefmacrop:
		return p.parseDef()
	case token.KwDefoverridable:
		return p.parseOverridable()
	case token.KwUnit:
		p.advance()
		p.errorf(diag.SynUnexpectedToken, tok.Span, "a file holds exactly one unit")
		return nil, false
	}
	p.advance()
	p.errorf(diag.SynUnexpectedToken, tok.Span, "expected a statement, got %s", describe(tok))
	return nil, false
}

func (p *Parser) parseBehaviour() (ast.Stmt, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Alias, diag.SynExpectIdentifier, "expected unit name after `behaviour`")
	if !ok {
		return nil, false
	}
	return &ast.BehaviourStmt{Module: p.strings.Intern(name.Text), Span: kw.Span.Cover(name.Span)}, true
}

func (p *Parser) parseCallback() (ast.Stmt, bool) {
	kw := p.advance()
	pair, ok := p.parseNameArity()
	if !ok {
		return nil, false
	}
	stmt := &ast.CallbackStmt{
		Name:  pair.Name,
		Arity: pair.Arity,
		Span:  kw.Span.Cover(pair.Span),
	}
	switch kw.Kind {
	case token.KwOptionalCallback:
		stmt.Optional = true
	case token.KwMacrocallback:
		stmt.Macro = true
	case token.KwOptionalMacrocallback:
		stmt.Optional, stmt.Macro = true, true
	}
	return stmt, true
}

func (p *Parser) parseNameArity() (ast.NameArity, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return ast.NameArity{}, false
	}
	if _, ok := p.expect(token.Slash, diag.SynExpectArity, "expected `/` and an arity"); !ok {
		return ast.NameArity{}, false
	}
	num, ok := p.expect(token.IntLit, diag.SynExpectArity, "expected arity")
	if !ok {
		return ast.NameArity{}, false
	}
	arity, err := strconv.Atoi(num.Text)
	if err != nil || arity > 255 {
		p.errorf(diag.SynExpectArity, num.Span, "arity %s is out of range", num.Text)
		return ast.NameArity{}, false
	}
	return ast.NameArity{Name: p.strings.Intern(name.Text), Arity: arity, Span: name.Span.Cover(num.Span)}, true
}

var defKinds = map[token.Kind]ast.DefKind{
	token.KwDef:       ast.KindDef,
	token.KwDefp:      ast.KindDefp,
	token.KwDefmacro:  ast.KindDefmacro,
	token.KwDefmacrop: ast.KindDefmacrop,
}

func (p *Parser) parseDef() (ast.Stmt, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected definition name after `"+kw.Text+"`")
	if !ok {
		return nil, false
	}
	def := &ast.DefStmt{
		Kind:     defKinds[kw.Kind],
		Name:     p.strings.Intern(name.Text),
		NameSpan: name.Span,
	}
	if p.at(token.LParen) {
		params, ok := p.parseParams()
		if !ok {
			return nil, false
		}
		def.Params = params
	}
	if _, ok := p.eat(token.KwWhen); ok {
		guard, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		def.Guard = guard
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected `=` before the definition body"); !ok {
		return nil, false
	}
	body, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	def.Body = body
	def.Span = kw.Span.Cover(body.Pos())
	return def, true
}

func (p *Parser) parseParams() ([]ast.Param, bool) {
	open := p.advance()
	var params []ast.Param
	seenDefault := false
	for !p.at(token.RParen) {
		if len(params) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected `,` or `)` in parameter list"); !ok {
				return nil, false
			}
		}
		pat, ok := p.parsePattern()
		if !ok {
			return nil, false
		}
		param := ast.Param{Pattern: pat}
		if _, ok := p.eat(token.DefaultSep); ok {
			def, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			param.Default = def
			seenDefault = true
		} else if seenDefault {
			p.errorf(diag.SynDefaultNotTrailing, pat.Span, "parameters with defaults must come last")
			return nil, false
		}
		params = append(params, param)
	}
	if _, ok := p.eat(token.RParen); !ok {
		p.errorf(diag.SynUnclosedParen, open.Span, "unclosed `(`")
		return nil, false
	}
	return params, true
}

func (p *Parser) parsePattern() (ast.Pattern, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return ast.Pattern{Kind: ast.PatVar, Name: p.strings.Intern(tok.Text), Span: tok.Span}, true
	case token.Underscore:
		p.advance()
		return ast.Pattern{Kind: ast.PatWildcard, Span: tok.Span}, true
	case token.IntLit:
		p.advance()
		v, ok := p.intValue(tok)
		return ast.Pattern{Kind: ast.PatInt, Value: v, Span: tok.Span}, ok
	case token.Minus:
		minus := p.advance()
		num, ok := p.expect(token.IntLit, diag.SynUnexpectedToken, "expected integer after `-` in pattern")
		if !ok {
			return ast.Pattern{}, false
		}
		v, ok := p.intValue(num)
		return ast.Pattern{Kind: ast.PatInt, Value: -v, Span: minus.Span.Cover(num.Span)}, ok
	}
	p.errorf(diag.SynUnexpectedToken, tok.Span, "expected a variable, `_` or an integer, got %s", describe(tok))
	return ast.Pattern{}, false
}

// parseOverridable reads every token up to the next statement and decides
// which subject form it is. Anything that is neither a single unit name nor
// a comma separated name/arity list is kept verbatim as an invalid subject.
func (p *Parser) parseOverridable() (ast.Stmt, bool) {
	kw := p.advance()
	var toks []token.Token
	for !p.at(token.EOF) && !p.lx.Peek().Kind.StartsStatement() {
		toks = append(toks, p.advance())
	}
	stmt := &ast.OverridableStmt{Span: kw.Span}
	if len(toks) == 0 {
		stmt.Subject = ast.SubjectInvalid
		return stmt, true
	}
	subject := toks[0].Span.Cover(toks[len(toks)-1].Span)
	stmt.Span = kw.Span.Cover(subject)

	if len(toks) == 1 && toks[0].Kind == token.Alias {
		stmt.Subject = ast.SubjectModule
		stmt.Module = p.strings.Intern(toks[0].Text)
		return stmt, true
	}
	if pairs, ok := p.pairsFrom(toks); ok {
		stmt.Subject = ast.SubjectPairs
		stmt.Pairs = pairs
		return stmt, true
	}
	stmt.Subject = ast.SubjectInvalid
	stmt.Raw = p.text(subject)
	return stmt, true
}

func (p *Parser) pairsFrom(toks []token.Token) ([]ast.NameArity, bool) {
	if (len(toks)+1)%4 != 0 {
		return nil, false
	}
	pairs := make([]ast.NameArity, 0, (len(toks)+1)/4)
	for i := 0; i < len(toks); i += 4 {
		if i > 0 && toks[i-1].Kind != token.Comma {
			return nil, false
		}
		name, slash, num := toks[i], toks[i+1], toks[i+2]
		if name.Kind != token.Ident || slash.Kind != token.Slash || num.Kind != token.IntLit {
			return nil, false
		}
		arity, err := strconv.Atoi(num.Text)
		if err != nil || arity > 255 {
			return nil, false
		}
		pairs = append(pairs, ast.NameArity{
			Name:  p.strings.Intern(name.Text),
			Arity: arity,
			Span:  name.Span.Cover(num.Span),
		})
	}
	return pairs, true
}
