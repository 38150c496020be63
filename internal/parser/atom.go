package parser

import (
	"strings"

	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

func (p *Parser) parseAtom() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return &ast.Name{Loc: ast.Loc{Span: tok.Span}, ID: tok.Text}
	case token.Number:
		p.advance()
		return &ast.Constant{Loc: ast.Loc{Span: tok.Span}, Kind: ast.ConstNumber, Value: tok.Text}
	case token.String, token.FString:
		return p.parseStrings()
	case token.KwNone:
		p.advance()
		return &ast.Constant{Loc: ast.Loc{Span: tok.Span}, Kind: ast.ConstNone, Value: tok.Text}
	case token.KwTrue:
		p.advance()
		return &ast.Constant{Loc: ast.Loc{Span: tok.Span}, Kind: ast.ConstTrue, Value: tok.Text}
	case token.KwFalse:
		p.advance()
		return &ast.Constant{Loc: ast.Loc{Span: tok.Span}, Kind: ast.ConstFalse, Value: tok.Text}
	case token.Ellipsis:
		p.advance()
		return &ast.Constant{Loc: ast.Loc{Span: tok.Span}, Kind: ast.ConstEllipsis, Value: "..."}
	case token.LParen:
		return p.parseParen()
	case token.LBracket:
		return p.parseListDisplay()
	case token.LBrace:
		return p.parseBraceDisplay()
	}
	p.expressionRequired()
	return nil
}

func (p *Parser) expressionRequired() {
	tok := p.peek()
	switch tok.Kind {
	case token.Indent:
		p.fail(diag.SynUnexpectedIndent, tok.Span, "unexpected indent")
	case token.EOF, token.Newline, token.Dedent:
		p.fail(diag.SynExpectExpression, p.getDiagnosticSpan(), "invalid syntax")
	}
	p.fail(diag.SynExpectExpression, tok.Span, "invalid syntax")
}

// stringPrefix возвращает префикс литерала в нижнем регистре (до кавычки).
func stringPrefix(text string) string {
	i := strings.IndexAny(text, `'"`)
	if i < 0 {
		return ""
	}
	return strings.ToLower(text[:i])
}

// parseStrings склеивает соседние строковые литералы (implicit concatenation).
func (p *Parser) parseStrings() ast.Expr {
	start := p.peek().Span
	var fields []ast.Expr
	isF, bytesSeen, textSeen := false, false, false
	for p.atAny(token.String, token.FString) {
		tok := p.advance()
		if strings.Contains(stringPrefix(tok.Text), "b") {
			bytesSeen = true
		} else {
			textSeen = true
		}
		if bytesSeen && textSeen {
			p.fail(diag.SynUnexpectedToken, p.spanFrom(start), "cannot mix bytes and nonbytes literals")
		}
		if tok.Kind == token.FString {
			isF = true
			fields = append(fields, p.parseFString(tok)...)
		}
	}
	sp := p.spanFrom(start)
	if isF {
		return &ast.JoinedStr{Loc: ast.Loc{Span: sp}, Values: fields}
	}
	kind := ast.ConstString
	if bytesSeen {
		kind = ast.ConstBytes
	}
	return &ast.Constant{Loc: ast.Loc{Span: sp}, Kind: kind, Value: p.text(sp)}
}

func (p *Parser) text(sp source.Span) string {
	return string(p.file.Content[sp.Start:sp.End])
}

// parseParen: () | (yield) | (genexp) | (tuple,) | (expr)
func (p *Parser) parseParen() ast.Expr {
	open := p.advance()
	p.enter()
	defer p.leave()

	if p.eat(token.RParen) {
		return &ast.Tuple{Loc: ast.Loc{Span: p.spanFrom(open.Span)}}
	}
	if p.at(token.KwYield) {
		y := p.parseYield()
		p.expect(token.RParen, diag.SynUnexpectedToken, "invalid syntax")
		return y
	}
	first := p.parseStarNamed()
	if p.atAny(token.KwFor, token.KwAsync) {
		gens := p.parseComprehensions(true)
		p.expect(token.RParen, diag.SynUnexpectedToken, "invalid syntax")
		return &ast.GeneratorExp{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Elt: first, Generators: gens}
	}
	if p.eat(token.RParen) {
		if _, ok := first.(*ast.Starred); ok {
			p.fail(diag.SynUnexpectedToken, first.Pos(), "cannot use starred expression here")
		}
		return first
	}
	elts := []ast.Expr{first}
	if !p.at(token.Comma) {
		p.missingComma(first)
		p.unexpectedIn(token.RParen)
	}
	for p.eat(token.Comma) {
		if p.at(token.RParen) {
			break
		}
		e := p.parseStarNamed()
		elts = append(elts, e)
		if !p.atAny(token.Comma, token.RParen) {
			p.missingComma(e)
		}
	}
	p.expect(token.RParen, diag.SynUnexpectedToken, "invalid syntax")
	return &ast.Tuple{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Elts: elts}
}

// unexpectedIn сообщает об ошибке внутри скобок.
func (p *Parser) unexpectedIn(closer token.Kind) {
	if !p.at(closer) {
		p.unexpected()
	}
}

func (p *Parser) parseListDisplay() ast.Expr {
	open := p.advance()
	p.enter()
	defer p.leave()

	if p.eat(token.RBracket) {
		return &ast.List{Loc: ast.Loc{Span: p.spanFrom(open.Span)}}
	}
	first := p.parseStarNamed()
	if p.atAny(token.KwFor, token.KwAsync) {
		gens := p.parseComprehensions(false)
		p.expect(token.RBracket, diag.SynUnexpectedToken, "invalid syntax")
		return &ast.ListComp{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Elt: first, Generators: gens}
	}
	elts := p.parseDisplayTail(first, token.RBracket)
	return &ast.List{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Elts: elts}
}

// parseDisplayTail дочитывает элементы list/set после первого.
func (p *Parser) parseDisplayTail(first ast.Expr, closer token.Kind) []ast.Expr {
	elts := []ast.Expr{first}
	prev := first
	for {
		if p.eat(closer) {
			return elts
		}
		if !p.at(token.Comma) {
			p.missingComma(prev)
			p.unexpected()
		}
		p.advance()
		if p.eat(closer) {
			return elts
		}
		prev = p.parseStarNamed()
		elts = append(elts, prev)
	}
}

// parseBraceDisplay: {} | {k: v, **m} | {k: v for ...} | {a, *b} | {a for ...}
func (p *Parser) parseBraceDisplay() ast.Expr {
	open := p.advance()
	p.enter()
	defer p.leave()

	if p.eat(token.RBrace) {
		return &ast.Dict{Loc: ast.Loc{Span: p.spanFrom(open.Span)}}
	}

	if p.at(token.DoubleStar) {
		return p.parseDictTail(open.Span, nil, nil)
	}
	first := p.parseStarNamed()
	if p.eat(token.Colon) {
		if _, ok := first.(*ast.Starred); ok {
			p.fail(diag.SynUnexpectedToken, first.Pos(), "cannot use a starred expression in a dictionary key")
		}
		value := p.parseTest()
		if p.atAny(token.KwFor, token.KwAsync) {
			gens := p.parseComprehensions(false)
			p.expect(token.RBrace, diag.SynUnexpectedToken, "invalid syntax")
			return &ast.DictComp{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Key: first, Value: value, Generators: gens}
		}
		return p.parseDictTail(open.Span, first, value)
	}
	if p.atAny(token.KwFor, token.KwAsync) {
		gens := p.parseComprehensions(false)
		p.expect(token.RBrace, diag.SynUnexpectedToken, "invalid syntax")
		return &ast.SetComp{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Elt: first, Generators: gens}
	}
	elts := p.parseDisplayTail(first, token.RBrace)
	return &ast.Set{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Elts: elts}
}

// parseDictTail продолжает dict после первой пары (или с '**', если key == nil).
func (p *Parser) parseDictTail(start source.Span, key, value ast.Expr) ast.Expr {
	d := &ast.Dict{}
	if key != nil {
		d.Keys = append(d.Keys, key)
		d.Values = append(d.Values, value)
		if !p.atAny(token.Comma, token.RBrace) {
			p.missingComma(value)
			p.unexpected()
		}
		if !p.eat(token.Comma) {
			p.expect(token.RBrace, diag.SynUnexpectedToken, "invalid syntax")
			d.Span = p.spanFrom(start)
			return d
		}
	}
	for !p.at(token.RBrace) {
		if p.eat(token.DoubleStar) {
			d.Keys = append(d.Keys, nil)
			d.Values = append(d.Values, p.parseBitOr())
		} else {
			k := p.parseTest()
			if !p.at(token.Colon) {
				p.fail(diag.SynUnexpectedToken, k.Pos(), "':' expected after dictionary key")
			}
			p.advance()
			d.Keys = append(d.Keys, k)
			d.Values = append(d.Values, p.parseTest())
		}
		if !p.eat(token.Comma) {
			if !p.at(token.RBrace) {
				p.missingComma(d.Values[len(d.Values)-1])
			}
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnexpectedToken, "invalid syntax")
	d.Span = p.spanFrom(start)
	return d
}

// parseComprehensions: ('async'? 'for' targets 'in' or_test ('if' or_test)*)+
// genexp разрешает 'async for' вне async def: получается асинхронный генератор.
func (p *Parser) parseComprehensions(genexp bool) []*ast.Comprehension {
	var out []*ast.Comprehension
	for p.atAny(token.KwFor, token.KwAsync) {
		start := p.peek().Span
		c := &ast.Comprehension{}
		if p.at(token.KwAsync) {
			kw := p.advance()
			if !p.inAsync && !genexp {
				p.fail(diag.SynOutsideFunction, kw.Span, "asynchronous comprehension outside of an asynchronous function")
			}
			c.IsAsync = true
		}
		p.expect(token.KwFor, diag.SynUnexpectedToken, "invalid syntax")
		c.Target = p.parseTargetExpr(token.KwIn)
		p.setContext(c.Target, ast.Store, "")
		p.expect(token.KwIn, diag.SynUnexpectedToken, "invalid syntax")
		c.Iter = p.parseOr()
		for p.at(token.KwIf) {
			p.advance()
			c.Ifs = append(c.Ifs, p.parseOr())
		}
		c.Span = p.spanFrom(start)
		out = append(out, c)
	}
	return out
}
