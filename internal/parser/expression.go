package parser

import (
	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/token"
)

// canStartExpr reports whether the current token may begin an expression.
func (p *Parser) canStartExpr() bool {
	switch p.peek().Kind {
	case token.Ident, token.Number, token.String, token.FString,
		token.LParen, token.LBracket, token.LBrace,
		token.Minus, token.Plus, token.Tilde, token.Star,
		token.KwNot, token.KwLambda, token.KwAwait, token.KwYield,
		token.KwNone, token.KwTrue, token.KwFalse, token.Ellipsis:
		return true
	}
	return false
}

// startsOperand — как canStartExpr, но без унарных операторов и '*':
// используется для подсказки о пропущенной запятой.
func (p *Parser) startsOperand() bool {
	switch p.peek().Kind {
	case token.Ident, token.Number, token.String, token.FString,
		token.KwNone, token.KwTrue, token.KwFalse:
		return true
	}
	return false
}

// missingComma reports "Perhaps you forgot a comma?" when two operands sit
// next to each other inside brackets.
func (p *Parser) missingComma(prev ast.Expr) {
	if p.startsOperand() {
		p.fail(diag.SynUnexpectedToken, prev.Pos().Cover(p.peek().Span), "invalid syntax. Perhaps you forgot a comma?")
	}
}

// parseStarExprs: star_expression (',' star_expression)* [',']
func (p *Parser) parseStarExprs() ast.Expr {
	start := p.peek().Span
	first := p.parseStarExpr()
	if !p.at(token.Comma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) {
		if !p.canStartExpr() || p.at(token.KwYield) {
			break
		}
		elts = append(elts, p.parseStarExpr())
	}
	return &ast.Tuple{Loc: ast.Loc{Span: p.spanFrom(start)}, Elts: elts}
}

// parseStarNamedExprs — то же, что parseStarExprs, но разрешает ':='.
func (p *Parser) parseStarNamedExprs() ast.Expr {
	start := p.peek().Span
	first := p.parseStarNamed()
	if !p.at(token.Comma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) {
		if !p.canStartExpr() || p.at(token.KwYield) {
			break
		}
		elts = append(elts, p.parseStarNamed())
	}
	return &ast.Tuple{Loc: ast.Loc{Span: p.spanFrom(start)}, Elts: elts}
}

func (p *Parser) parseStarExprsOrYield() ast.Expr {
	if p.at(token.KwYield) {
		return p.parseYield()
	}
	return p.parseStarExprs()
}

func (p *Parser) parseStarExpr() ast.Expr {
	if p.at(token.Star) {
		return p.parseStarred(p.parseBitOr)
	}
	return p.parseTest()
}

func (p *Parser) parseStarNamed() ast.Expr {
	if p.at(token.Star) {
		return p.parseStarred(p.parseBitOr)
	}
	return p.parseNamedExpr()
}

func (p *Parser) parseStarred(inner func() ast.Expr) ast.Expr {
	star := p.advance()
	value := inner()
	return &ast.Starred{Loc: ast.Loc{Span: p.spanFrom(star.Span)}, Value: value}
}

func (p *Parser) parseYield() ast.Expr {
	kw := p.advance()
	if p.funcDepth == 0 {
		p.fail(diag.SynOutsideFunction, kw.Span, "'yield' outside function")
	}
	if p.eat(token.KwFrom) {
		value := p.parseTest()
		return &ast.YieldFrom{Loc: ast.Loc{Span: p.spanFrom(kw.Span)}, Value: value}
	}
	y := &ast.Yield{}
	if p.canStartExpr() && !p.at(token.KwYield) {
		y.Value = p.parseStarExprs()
	}
	y.Span = p.spanFrom(kw.Span)
	return y
}

// parseNamedExpr: NAME ':=' test | test
func (p *Parser) parseNamedExpr() ast.Expr {
	if p.at(token.Ident) && p.peekAt(1).Kind == token.Walrus {
		name := p.advance()
		p.advance()
		value := p.parseTest()
		return &ast.NamedExpr{
			Loc:    ast.Loc{Span: p.spanFrom(name.Span)},
			Target: &ast.Name{Loc: ast.Loc{Span: name.Span}, ID: name.Text, Ctx: ast.Store},
			Value:  value,
		}
	}
	e := p.parseTest()
	if p.at(token.Walrus) {
		p.failf(diag.SynInvalidTarget, e.Pos(), "cannot use assignment expressions with %s", describe(e))
	}
	return e
}

// parseTest: lambda | or_test ['if' or_test 'else' test]
func (p *Parser) parseTest() ast.Expr {
	if p.at(token.KwLambda) {
		return p.parseLambda()
	}
	start := p.peek().Span
	body := p.parseOr()
	if !p.at(token.KwIf) {
		return body
	}
	p.advance()
	test := p.parseOr()
	if !p.eat(token.KwElse) {
		p.fail(diag.SynUnexpectedToken, p.spanFrom(start), "expected 'else' after 'if' expression")
	}
	orElse := p.parseTest()
	return &ast.IfExp{Loc: ast.Loc{Span: p.spanFrom(start)}, Test: test, Body: body, OrElse: orElse}
}

func (p *Parser) parseLambda() ast.Expr {
	kw := p.advance()
	args := p.parseParams(token.Colon, false)
	p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
	p.funcDepth++
	savedAsync := p.inAsync
	p.inAsync = false
	body := p.parseTest()
	p.funcDepth--
	p.inAsync = savedAsync
	return &ast.Lambda{Loc: ast.Loc{Span: p.spanFrom(kw.Span)}, Args: args, Body: body}
}

func (p *Parser) parseOr() ast.Expr {
	return p.parseBool(token.KwOr, "or", p.parseAnd)
}

func (p *Parser) parseAnd() ast.Expr {
	return p.parseBool(token.KwAnd, "and", p.parseNot)
}

func (p *Parser) parseBool(kind token.Kind, op string, next func() ast.Expr) ast.Expr {
	start := p.peek().Span
	first := next()
	if !p.at(kind) {
		return first
	}
	values := []ast.Expr{first}
	for p.eat(kind) {
		values = append(values, next())
	}
	return &ast.BoolOp{Loc: ast.Loc{Span: p.spanFrom(start)}, Op: op, Values: values}
}

func (p *Parser) parseNot() ast.Expr {
	if p.at(token.KwNot) {
		kw := p.advance()
		p.enter()
		operand := p.parseNot()
		p.leave()
		return &ast.UnaryOp{Loc: ast.Loc{Span: p.spanFrom(kw.Span)}, Op: "not", Operand: operand}
	}
	return p.parseComparison()
}

// compareOp распознаёт оператор сравнения, включая "not in" и "is not".
func (p *Parser) compareOp() (string, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.EqEq, token.NotEq:
		p.advance()
		return tok.Kind.String(), true
	case token.KwIn:
		p.advance()
		return "in", true
	case token.KwIs:
		p.advance()
		if p.eat(token.KwNot) {
			return "is not", true
		}
		return "is", true
	case token.KwNot:
		if p.peekAt(1).Kind == token.KwIn {
			p.advance()
			p.advance()
			return "not in", true
		}
	}
	return "", false
}

func (p *Parser) parseComparison() ast.Expr {
	start := p.peek().Span
	left := p.parseBitOr()
	var cmp *ast.Compare
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		if cmp == nil {
			cmp = &ast.Compare{Left: left}
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.Comparators = append(cmp.Comparators, p.parseBitOr())
	}
	if cmp == nil {
		return left
	}
	cmp.Span = p.spanFrom(start)
	return cmp
}

// binaryLevels — уровни приоритета бинарных операторов, от слабого к сильному.
var binaryLevels = [][]token.Kind{
	{token.Pipe},
	{token.Caret},
	{token.Amp},
	{token.Shl, token.Shr},
	{token.Plus, token.Minus},
	{token.Star, token.Slash, token.DoubleSlash, token.Percent, token.At},
}

func (p *Parser) parseBitOr() ast.Expr {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) ast.Expr {
	if level == len(binaryLevels) {
		return p.parseFactor()
	}
	start := p.peek().Span
	left := p.parseBinary(level + 1)
	for p.atAny(binaryLevels[level]...) {
		op := p.advance()
		right := p.parseBinary(level + 1)
		left = &ast.BinOp{Loc: ast.Loc{Span: p.spanFrom(start)}, Left: left, Op: op.Kind.String(), Right: right}
	}
	return left
}

// parseFactor: ('+' | '-' | '~') factor | power
func (p *Parser) parseFactor() ast.Expr {
	if p.atAny(token.Plus, token.Minus, token.Tilde) {
		op := p.advance()
		p.enter()
		operand := p.parseFactor()
		p.leave()
		return &ast.UnaryOp{Loc: ast.Loc{Span: p.spanFrom(op.Span)}, Op: op.Kind.String(), Operand: operand}
	}
	return p.parsePower()
}

// parsePower: await_primary ['**' factor]
func (p *Parser) parsePower() ast.Expr {
	start := p.peek().Span
	base := p.parseAwait()
	if !p.at(token.DoubleStar) {
		return base
	}
	p.advance()
	p.enter()
	exp := p.parseFactor()
	p.leave()
	return &ast.BinOp{Loc: ast.Loc{Span: p.spanFrom(start)}, Left: base, Op: "**", Right: exp}
}

func (p *Parser) parseAwait() ast.Expr {
	if !p.at(token.KwAwait) {
		return p.parsePrimary()
	}
	kw := p.advance()
	switch {
	case p.funcDepth == 0:
		p.fail(diag.SynOutsideFunction, kw.Span, "'await' outside function")
	case !p.inAsync:
		p.fail(diag.SynOutsideFunction, kw.Span, "'await' outside async function")
	}
	value := p.parsePrimary()
	return &ast.Await{Loc: ast.Loc{Span: p.spanFrom(kw.Span)}, Value: value}
}

// parsePrimary: atom trailer*
func (p *Parser) parsePrimary() ast.Expr {
	start := p.peek().Span
	e := p.parseAtom()
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			attr := p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax")
			e = &ast.Attribute{Loc: ast.Loc{Span: p.spanFrom(start)}, Value: e, Attr: attr.Text}
		case token.LParen:
			p.advance()
			p.enter()
			args, kws := p.parseCallArgs()
			p.expect(token.RParen, diag.SynUnexpectedToken, "invalid syntax")
			p.leave()
			e = &ast.Call{Loc: ast.Loc{Span: p.spanFrom(start)}, Func: e, Args: args, Keywords: kws}
		case token.LBracket:
			p.advance()
			p.enter()
			index := p.parseSubscript()
			p.expect(token.RBracket, diag.SynUnexpectedToken, "invalid syntax")
			p.leave()
			e = &ast.Subscript{Loc: ast.Loc{Span: p.spanFrom(start)}, Value: e, Index: index}
		default:
			return e
		}
	}
}

// parseSubscript: slice (',' slice)* [',']
func (p *Parser) parseSubscript() ast.Expr {
	start := p.peek().Span
	first := p.parseSliceItem()
	if !p.at(token.Comma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) {
		if p.at(token.RBracket) {
			break
		}
		elts = append(elts, p.parseSliceItem())
	}
	return &ast.Tuple{Loc: ast.Loc{Span: p.spanFrom(start)}, Elts: elts}
}

func (p *Parser) parseSliceItem() ast.Expr {
	start := p.peek().Span
	if p.at(token.Star) {
		return p.parseStarred(p.parseBitOr)
	}
	var lower ast.Expr
	if !p.at(token.Colon) {
		lower = p.parseNamedExpr()
		if !p.at(token.Colon) {
			return lower
		}
	}
	sl := &ast.Slice{Lower: lower}
	p.advance()
	if !p.atAny(token.Colon, token.Comma, token.RBracket) {
		sl.Upper = p.parseTest()
	}
	if p.eat(token.Colon) && !p.atAny(token.Comma, token.RBracket) {
		sl.Step = p.parseTest()
	}
	sl.Span = p.spanFrom(start)
	return sl
}

// parseTargetExpr разбирает цель for/with/comprehension без поглощения "in".
func (p *Parser) parseTargetExpr(stop token.Kind) ast.Expr {
	start := p.peek().Span
	elts := p.parseTargetList(stop)
	if len(elts) == 1 && !p.lastWasComma {
		return elts[0]
	}
	return &ast.Tuple{Loc: ast.Loc{Span: p.spanFrom(start)}, Elts: elts}
}

// parseTargetList: star_target (',' star_target)* [',']
func (p *Parser) parseTargetList(stop token.Kind) []ast.Expr {
	var out []ast.Expr
	p.lastWasComma = false
	for {
		if p.at(token.Star) {
			out = append(out, p.parseStarred(p.parseBitOr))
		} else {
			out = append(out, p.parseBitOr())
		}
		if !p.at(token.Comma) {
			p.lastWasComma = false
			return out
		}
		p.advance()
		p.lastWasComma = true
		if p.at(stop) || !p.canStartExpr() {
			return out
		}
	}
}
