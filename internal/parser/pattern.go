package parser

import (
	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/token"
)

// parsePatterns: open_sequence_pattern | pattern
func (p *Parser) parsePatterns() ast.Pattern {
	start := p.peek().Span
	first := p.parseMaybeStarPattern()
	if !p.at(token.Comma) {
		if _, ok := first.(*ast.MatchStar); ok {
			p.fail(diag.SynInvalidPattern, first.Pos(), "invalid syntax")
		}
		return first
	}
	pats := []ast.Pattern{first}
	for p.eat(token.Comma) {
		if p.atAny(token.Colon, token.KwIf) {
			break
		}
		pats = append(pats, p.parseMaybeStarPattern())
	}
	return &ast.MatchSequence{Loc: ast.Loc{Span: p.spanFrom(start)}, Patterns: pats}
}

func (p *Parser) parseMaybeStarPattern() ast.Pattern {
	if !p.at(token.Star) {
		return p.parsePattern()
	}
	star := p.advance()
	name := p.expect(token.Ident, diag.SynInvalidPattern, "invalid syntax")
	ms := &ast.MatchStar{Loc: ast.Loc{Span: p.spanFrom(star.Span)}}
	if name.Text != "_" {
		ms.Name = name.Text
	}
	return ms
}

// parsePattern: or_pattern ['as' NAME]
func (p *Parser) parsePattern() ast.Pattern {
	start := p.peek().Span
	pat := p.parseOrPattern()
	if !p.eat(token.KwAs) {
		return pat
	}
	name := p.expect(token.Ident, diag.SynInvalidPattern, "invalid syntax")
	if name.Text == "_" {
		p.fail(diag.SynInvalidPattern, name.Span, "cannot use '_' as a target")
	}
	return &ast.MatchAs{Loc: ast.Loc{Span: p.spanFrom(start)}, Pattern: pat, Name: name.Text}
}

func (p *Parser) parseOrPattern() ast.Pattern {
	start := p.peek().Span
	first := p.parseClosedPattern()
	if !p.at(token.Pipe) {
		return first
	}
	pats := []ast.Pattern{first}
	for p.eat(token.Pipe) {
		pats = append(pats, p.parseClosedPattern())
	}
	return &ast.MatchOr{Loc: ast.Loc{Span: p.spanFrom(start)}, Patterns: pats}
}

func (p *Parser) parseClosedPattern() ast.Pattern {
	p.enter()
	defer p.leave()

	tok := p.peek()
	switch tok.Kind {
	case token.KwNone, token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.MatchSingleton{Loc: ast.Loc{Span: tok.Span}, Value: tok.Text}
	case token.Number, token.Minus, token.String, token.FString:
		v := p.parseLiteralPatternExpr()
		return &ast.MatchValue{Loc: ast.Loc{Span: v.Pos()}, Value: v}
	case token.LParen:
		return p.parseGroupPattern()
	case token.LBracket:
		p.advance()
		pats := p.parseSequenceItems(token.RBracket)
		p.expect(token.RBracket, diag.SynInvalidPattern, "invalid syntax")
		return &ast.MatchSequence{Loc: ast.Loc{Span: p.spanFrom(tok.Span)}, Patterns: pats}
	case token.LBrace:
		return p.parseMappingPattern()
	case token.Ident:
		return p.parseNamePattern()
	}
	p.fail(diag.SynInvalidPattern, tok.Span, "invalid syntax")
	return nil
}

// parseLiteralPatternExpr: signed number, complex "1+2j", или строки.
func (p *Parser) parseLiteralPatternExpr() ast.Expr {
	if p.atAny(token.String, token.FString) {
		e := p.parseStrings()
		if _, ok := e.(*ast.JoinedStr); ok {
			p.fail(diag.SynInvalidPattern, e.Pos(), "patterns may only match literals and attribute lookups")
		}
		return e
	}
	start := p.peek().Span
	var e ast.Expr
	if p.at(token.Minus) {
		p.advance()
		num := p.expect(token.Number, diag.SynInvalidPattern, "invalid syntax")
		e = &ast.UnaryOp{Loc: ast.Loc{Span: p.spanFrom(start)}, Op: "-",
			Operand: &ast.Constant{Loc: ast.Loc{Span: num.Span}, Kind: ast.ConstNumber, Value: num.Text}}
	} else {
		num := p.advance()
		e = &ast.Constant{Loc: ast.Loc{Span: num.Span}, Kind: ast.ConstNumber, Value: num.Text}
	}
	if p.atAny(token.Plus, token.Minus) {
		op := p.advance()
		imag := p.expect(token.Number, diag.SynInvalidPattern, "invalid syntax")
		e = &ast.BinOp{Loc: ast.Loc{Span: p.spanFrom(start)}, Left: e, Op: op.Kind.String(),
			Right: &ast.Constant{Loc: ast.Loc{Span: imag.Span}, Kind: ast.ConstNumber, Value: imag.Text}}
	}
	return e
}

// parseGroupPattern: '(' pattern ')' | '(' [sequence] ')'
func (p *Parser) parseGroupPattern() ast.Pattern {
	open := p.advance()
	if p.eat(token.RParen) {
		return &ast.MatchSequence{Loc: ast.Loc{Span: p.spanFrom(open.Span)}}
	}
	first := p.parseMaybeStarPattern()
	if p.eat(token.RParen) {
		if _, ok := first.(*ast.MatchStar); !ok {
			return first
		}
		return &ast.MatchSequence{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Patterns: []ast.Pattern{first}}
	}
	p.expect(token.Comma, diag.SynInvalidPattern, "invalid syntax")
	pats := append([]ast.Pattern{first}, p.parseSequenceItems(token.RParen)...)
	p.expect(token.RParen, diag.SynInvalidPattern, "invalid syntax")
	return &ast.MatchSequence{Loc: ast.Loc{Span: p.spanFrom(open.Span)}, Patterns: pats}
}

func (p *Parser) parseSequenceItems(closer token.Kind) []ast.Pattern {
	var pats []ast.Pattern
	for !p.at(closer) {
		pats = append(pats, p.parseMaybeStarPattern())
		if !p.eat(token.Comma) {
			break
		}
	}
	return pats
}

// parseMappingPattern: '{' (key ':' pattern | '**' NAME), ... '}'
func (p *Parser) parseMappingPattern() ast.Pattern {
	open := p.advance()
	mp := &ast.MatchMapping{}
	for !p.at(token.RBrace) {
		if p.eat(token.DoubleStar) {
			mp.Rest = p.expect(token.Ident, diag.SynInvalidPattern, "invalid syntax").Text
			p.eat(token.Comma)
			break
		}
		var key ast.Expr
		switch tok := p.peek(); tok.Kind {
		case token.KwNone, token.KwTrue, token.KwFalse:
			p.advance()
			key = p.parseAtomFromToken(tok)
		case token.Ident:
			key = p.parseDottedValue()
		default:
			key = p.parseLiteralPatternExpr()
		}
		p.expect(token.Colon, diag.SynInvalidPattern, "invalid syntax")
		mp.Keys = append(mp.Keys, key)
		mp.Patterns = append(mp.Patterns, p.parsePattern())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynInvalidPattern, "invalid syntax")
	mp.Span = p.spanFrom(open.Span)
	return mp
}

func (p *Parser) parseAtomFromToken(tok token.Token) ast.Expr {
	kind := ast.ConstNone
	switch tok.Kind {
	case token.KwTrue:
		kind = ast.ConstTrue
	case token.KwFalse:
		kind = ast.ConstFalse
	}
	return &ast.Constant{Loc: ast.Loc{Span: tok.Span}, Kind: kind, Value: tok.Text}
}

// parseDottedValue: NAME ('.' NAME)+ как выражение Attribute.
func (p *Parser) parseDottedValue() ast.Expr {
	name := p.advance()
	var e ast.Expr = &ast.Name{Loc: ast.Loc{Span: name.Span}, ID: name.Text}
	for p.eat(token.Dot) {
		attr := p.expect(token.Ident, diag.SynInvalidPattern, "invalid syntax")
		e = &ast.Attribute{Loc: ast.Loc{Span: p.spanFrom(name.Span)}, Value: e, Attr: attr.Text}
	}
	return e
}

// parseNamePattern: capture, wildcard, value (a.b) или class pattern.
func (p *Parser) parseNamePattern() ast.Pattern {
	name := p.peek()
	if p.peekAt(1).Kind != token.Dot && p.peekAt(1).Kind != token.LParen {
		p.advance()
		if name.Text == "_" {
			return &ast.MatchAs{Loc: ast.Loc{Span: name.Span}}
		}
		return &ast.MatchAs{Loc: ast.Loc{Span: name.Span}, Name: name.Text}
	}
	value := p.parseDottedValue()
	if !p.at(token.LParen) {
		return &ast.MatchValue{Loc: ast.Loc{Span: value.Pos()}, Value: value}
	}
	p.advance()
	mc := &ast.MatchClass{Cls: value}
	for !p.at(token.RParen) {
		if p.at(token.Ident) && p.peekAt(1).Kind == token.Assign {
			kw := p.advance()
			p.advance()
			mc.KwdAttrs = append(mc.KwdAttrs, kw.Text)
			mc.KwdPatterns = append(mc.KwdPatterns, p.parsePattern())
		} else {
			pat := p.parsePattern()
			if len(mc.KwdAttrs) > 0 {
				p.fail(diag.SynInvalidPattern, pat.Pos(), "positional patterns follow keyword patterns")
			}
			mc.Patterns = append(mc.Patterns, pat)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynInvalidPattern, "invalid syntax")
	mc.Span = p.spanFrom(name.Span)
	return mc
}
