package parser

import (
	"fmt"

	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

func (p *Parser) parseCompound() ast.Stmt {
	tok := p.peek()
	switch tok.Kind {
	case token.At:
		return p.parseDecorated()
	case token.KwDef:
		return p.parseFuncDef(nil, tok.Span, false)
	case token.KwClass:
		return p.parseClassDef(nil, tok.Span)
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor(tok.Span, false)
	case token.KwTry:
		return p.parseTry()
	case token.KwWith:
		return p.parseWith(tok.Span, false)
	case token.KwAsync:
		p.advance()
		switch p.peek().Kind {
		case token.KwDef:
			return p.parseFuncDef(nil, tok.Span, true)
		case token.KwFor:
			if !p.inAsync {
				p.fail(diag.SynOutsideFunction, tok.Span, "'async for' outside async function")
			}
			return p.parseFor(tok.Span, true)
		case token.KwWith:
			if !p.inAsync {
				p.fail(diag.SynOutsideFunction, tok.Span, "'async with' outside async function")
			}
			return p.parseWith(tok.Span, true)
		}
	}
	p.unexpected()
	return nil
}

// parseBlock разбирает тело после ':'. what описывает заголовок для
// сообщения "expected an indented block after ...".
func (p *Parser) parseBlock(what string, header source.Span) []ast.Stmt {
	p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
	if !p.at(token.Newline) {
		p.blockDepth++
		defer func() { p.blockDepth-- }()
		return p.parseSimpleLine()
	}
	p.advance()
	if !p.at(token.Indent) {
		p.failf(diag.SynExpectIndent, p.getDiagnosticSpan(),
			"expected an indented block after %s on line %d", what, p.lineOf(header))
	}
	p.advance()
	p.blockDepth++
	defer func() { p.blockDepth-- }()

	var body []ast.Stmt
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		if p.at(token.Indent) {
			p.fail(diag.SynUnexpectedIndent, p.peek().Span, "unexpected indent")
		}
		body = append(body, p.parseStatement()...)
	}
	p.eat(token.Dedent)
	return body
}

func (p *Parser) parseDecorated() ast.Stmt {
	start := p.peek().Span
	var decorators []ast.Expr
	for p.eat(token.At) {
		decorators = append(decorators, p.parseNamedExpr())
		p.expect(token.Newline, diag.SynUnexpectedToken, "invalid syntax")
	}
	switch p.peek().Kind {
	case token.KwDef:
		return p.parseFuncDef(decorators, start, false)
	case token.KwClass:
		return p.parseClassDef(decorators, start)
	case token.KwAsync:
		if p.peekAt(1).Kind == token.KwDef {
			p.advance()
			return p.parseFuncDef(decorators, start, true)
		}
	}
	p.unexpected()
	return nil
}

func (p *Parser) parseFuncDef(decorators []ast.Expr, start source.Span, isAsync bool) ast.Stmt {
	kw := p.expect(token.KwDef, diag.SynUnexpectedToken, "invalid syntax")
	name := p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax")
	fn := &ast.FunctionDef{
		Name:       name.Text,
		NameSpan:   name.Span,
		Decorators: decorators,
		IsAsync:    isAsync,
	}
	if p.at(token.LBracket) {
		fn.TypeParams = p.parseTypeParams()
	}
	p.expect(token.LParen, diag.SynUnexpectedToken, "invalid syntax")
	fn.Args = p.parseParams(token.RParen, true)
	p.expect(token.RParen, diag.SynUnexpectedToken, "invalid syntax")
	if p.eat(token.Arrow) {
		fn.Returns = p.parseTest()
	}

	savedFunc, savedLoop, savedAsync := p.funcDepth, p.loopDepth, p.inAsync
	p.funcDepth++
	p.defDepth++
	p.loopDepth = 0
	p.inAsync = isAsync
	fn.Body = p.parseBlock("function definition", kw.Span)
	p.defDepth--
	p.funcDepth, p.loopDepth, p.inAsync = savedFunc, savedLoop, savedAsync

	fn.Span = p.spanFrom(start)
	return fn
}

func (p *Parser) parseClassDef(decorators []ast.Expr, start source.Span) ast.Stmt {
	kw := p.advance()
	name := p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax")
	cls := &ast.ClassDef{Name: name.Text, NameSpan: name.Span, Decorators: decorators}
	if p.at(token.LBracket) {
		cls.TypeParams = p.parseTypeParams()
	}
	if p.eat(token.LParen) {
		cls.Bases, cls.Keywords = p.parseCallArgs()
		p.expect(token.RParen, diag.SynUnexpectedToken, "invalid syntax")
	}

	savedFunc, savedLoop, savedAsync := p.funcDepth, p.loopDepth, p.inAsync
	p.funcDepth, p.loopDepth, p.inAsync = 0, 0, false
	cls.Body = p.parseBlock("class definition", kw.Span)
	p.funcDepth, p.loopDepth, p.inAsync = savedFunc, savedLoop, savedAsync

	cls.Span = p.spanFrom(start)
	return cls
}

// parseCondition разбирает условие if/elif/while и ловит "=" вместо "==".
func (p *Parser) parseCondition() ast.Expr {
	test := p.parseNamedExpr()
	if p.at(token.Assign) {
		p.fail(diag.SynUnexpectedToken, p.peek().Span, "invalid syntax. Maybe you meant '==' or ':=' instead of '='?")
	}
	return test
}

func (p *Parser) parseIf() ast.Stmt {
	kw := p.advance()
	st := &ast.If{Test: p.parseCondition()}
	st.Body = p.parseBlock(fmt.Sprintf("'%s' statement", kw.Kind), kw.Span)
	switch p.peek().Kind {
	case token.KwElif:
		st.OrElse = []ast.Stmt{p.parseIf()}
	case token.KwElse:
		els := p.advance()
		st.OrElse = p.parseBlock("'else' statement", els.Span)
	}
	st.Span = p.spanFrom(kw.Span)
	return st
}

func (p *Parser) parseWhile() ast.Stmt {
	kw := p.advance()
	st := &ast.While{Test: p.parseCondition()}
	p.loopDepth++
	st.Body = p.parseBlock("'while' statement", kw.Span)
	p.loopDepth--
	if p.at(token.KwElse) {
		els := p.advance()
		st.OrElse = p.parseBlock("'else' statement", els.Span)
	}
	st.Span = p.spanFrom(kw.Span)
	return st
}

func (p *Parser) parseFor(start source.Span, isAsync bool) ast.Stmt {
	kw := p.advance()
	st := &ast.For{IsAsync: isAsync}
	st.Target = p.parseTargetExpr(token.KwIn)
	p.setContext(st.Target, ast.Store, "")
	p.expect(token.KwIn, diag.SynUnexpectedToken, "invalid syntax")
	st.Iter = p.parseStarExprs()
	p.loopDepth++
	st.Body = p.parseBlock("'for' statement", kw.Span)
	p.loopDepth--
	if p.at(token.KwElse) {
		els := p.advance()
		st.OrElse = p.parseBlock("'else' statement", els.Span)
	}
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseTry() ast.Stmt {
	kw := p.advance()
	st := &ast.Try{Body: p.parseBlock("'try' statement", kw.Span)}
	for p.at(token.KwExcept) {
		ex := p.advance()
		h := &ast.ExceptHandler{}
		what := "'except' statement"
		if p.eat(token.Star) {
			st.Star = true
			what = "'except*' statement"
		}
		if !p.at(token.Colon) {
			h.Type = p.parseTest()
			if p.at(token.Comma) {
				p.fail(diag.SynUnexpectedToken, p.spanFrom(h.Type.Pos()), "multiple exception types must be parenthesized")
			}
			if p.eat(token.KwAs) {
				name := p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax")
				h.Name, h.NameSpan = name.Text, name.Span
			}
		} else if st.Star {
			p.fail(diag.SynUnexpectedToken, p.peek().Span, "expected one or more exception types")
		}
		h.Body = p.parseBlock(what, ex.Span)
		h.Span = p.spanFrom(ex.Span)
		st.Handlers = append(st.Handlers, h)
	}
	if p.at(token.KwElse) {
		els := p.advance()
		if len(st.Handlers) == 0 {
			p.fail(diag.SynUnexpectedToken, els.Span, "expected 'except' or 'finally' block")
		}
		st.OrElse = p.parseBlock("'else' statement", els.Span)
	}
	if p.at(token.KwFinally) {
		fin := p.advance()
		st.Finally = p.parseBlock("'finally' statement", fin.Span)
	}
	if len(st.Handlers) == 0 && st.Finally == nil {
		p.fail(diag.SynUnexpectedToken, p.getDiagnosticSpan(), "expected 'except' or 'finally' block")
	}
	st.Span = p.spanFrom(kw.Span)
	return st
}

func (p *Parser) parseWith(start source.Span, isAsync bool) ast.Stmt {
	kw := p.advance()
	st := &ast.With{IsAsync: isAsync}
	if p.at(token.LParen) && p.parenthesizedWithItems() {
		p.advance()
		for !p.at(token.RParen) {
			st.Items = append(st.Items, p.parseWithItem())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnexpectedToken, "invalid syntax")
	} else {
		for {
			st.Items = append(st.Items, p.parseWithItem())
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	st.Body = p.parseBlock("'with' statement", kw.Span)
	st.Span = p.spanFrom(start)
	return st
}

func (p *Parser) parseWithItem() *ast.WithItem {
	start := p.peek().Span
	item := &ast.WithItem{Context: p.parseTest()}
	if p.eat(token.KwAs) {
		item.Vars = p.parseStarTarget()
		p.setContext(item.Vars, ast.Store, "")
	}
	item.Span = p.spanFrom(start)
	return item
}

// parseStarTarget разбирает одну цель без запятых.
func (p *Parser) parseStarTarget() ast.Expr {
	if p.at(token.Star) {
		return p.parseStarred(p.parseBitOr)
	}
	return p.parseBitOr()
}

// parenthesizedWithItems: "with (a as b, c):" против "with (a, b):" без as,
// где скобки — просто кортеж-выражение.
func (p *Parser) parenthesizedWithItems() bool {
	depth := 0
	sawAs := false
	for k := 0; ; k++ {
		tok := p.peekAt(k)
		switch tok.Kind {
		case token.EOF, token.Invalid, token.Newline:
			return false
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
			if depth == 0 {
				return sawAs && p.peekAt(k+1).Kind == token.Colon
			}
		case token.KwAs:
			if depth == 1 {
				sawAs = true
			}
		}
	}
}

// parseMatch: "match" subject ':' NEWLINE INDENT case_block+ DEDENT
func (p *Parser) parseMatch() ast.Stmt {
	kw := p.advance()
	st := &ast.Match{Subject: p.parseStarNamedExprs()}
	p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
	p.expect(token.Newline, diag.SynUnexpectedToken, "invalid syntax")
	if !p.at(token.Indent) {
		p.failf(diag.SynExpectIndent, p.getDiagnosticSpan(),
			"expected an indented block after 'match' statement on line %d", p.lineOf(kw.Span))
	}
	p.advance()
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if !p.atSoft("case") {
			p.unexpected()
		}
		cs := p.advance()
		mc := &ast.MatchCase{Pattern: p.parsePatterns()}
		if p.eat(token.KwIf) {
			mc.Guard = p.parseNamedExpr()
		}
		mc.Body = p.parseBlock("'case' statement", cs.Span)
		mc.Span = p.spanFrom(cs.Span)
		st.Cases = append(st.Cases, mc)
	}
	p.eat(token.Dedent)
	st.Span = p.spanFrom(kw.Span)
	return st
}
