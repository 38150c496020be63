package parser

import (
	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/token"
)

// parseStatement разбирает один оператор верхнего уровня блока.
// Простые операторы, разделённые ';', возвращаются списком.
func (p *Parser) parseStatement() []ast.Stmt {
	tok := p.peek()
	var stmts []ast.Stmt
	switch tok.Kind {
	case token.KwDef, token.KwClass, token.KwIf, token.KwWhile, token.KwFor,
		token.KwTry, token.KwWith, token.At:
		stmts = []ast.Stmt{p.parseCompound()}
	case token.KwAsync:
		stmts = []ast.Stmt{p.parseCompound()}
	case token.Ident:
		if tok.Text == "match" && p.looksLikeMatch() {
			stmts = []ast.Stmt{p.parseMatch()}
		} else {
			stmts = p.parseSimpleLine()
		}
	default:
		stmts = p.parseSimpleLine()
	}
	if p.blockDepth == 0 {
		p.noteModuleCode(stmts)
	}
	return stmts
}

// noteModuleCode отмечает, что после этого оператора __future__ уже запрещён.
func (p *Parser) noteModuleCode(stmts []ast.Stmt) {
	for _, st := range stmts {
		switch s := st.(type) {
		case *ast.ImportFrom:
			if s.Module == "__future__" && s.Level == 0 {
				continue
			}
		case *ast.ExprStmt:
			if c, ok := s.Value.(*ast.Constant); ok && c.Kind == ast.ConstString && !p.seenCode {
				// docstring
				p.seenCode = p.seenDoc
				p.seenDoc = true
				continue
			}
		}
		p.seenCode = true
	}
}

// parseSimpleLine: simple_stmt (';' simple_stmt)* [';'] NEWLINE
func (p *Parser) parseSimpleLine() []ast.Stmt {
	var out []ast.Stmt
	for {
		out = append(out, p.parseSimpleStmt())
		if !p.eat(token.Semi) {
			break
		}
		if p.atAny(token.Newline, token.EOF) {
			break
		}
	}
	if !p.eat(token.Newline) && !p.at(token.EOF) {
		p.unexpected()
	}
	return out
}

func (p *Parser) parseSimpleStmt() ast.Stmt {
	tok := p.peek()
	switch tok.Kind {
	case token.KwPass:
		p.advance()
		return &ast.Pass{Loc: ast.Loc{Span: tok.Span}}
	case token.KwBreak:
		p.advance()
		if p.loopDepth == 0 {
			p.fail(diag.SynOutsideLoop, tok.Span, "'break' outside loop")
		}
		return &ast.Break{Loc: ast.Loc{Span: tok.Span}}
	case token.KwContinue:
		p.advance()
		if p.loopDepth == 0 {
			p.fail(diag.SynOutsideLoop, tok.Span, "'continue' not properly in loop")
		}
		return &ast.Continue{Loc: ast.Loc{Span: tok.Span}}
	case token.KwReturn:
		return p.parseReturn()
	case token.KwRaise:
		return p.parseRaise()
	case token.KwGlobal, token.KwNonlocal:
		return p.parseGlobal()
	case token.KwDel:
		return p.parseDel()
	case token.KwAssert:
		return p.parseAssert()
	case token.KwImport:
		return p.parseImport()
	case token.KwFrom:
		return p.parseImportFrom()
	case token.Ident:
		if tok.Text == "type" && p.peekAt(1).Kind == token.Ident &&
			(p.peekAt(2).Kind == token.Assign || p.peekAt(2).Kind == token.LBracket) {
			return p.parseTypeAlias()
		}
	}
	return p.parseExprStmt()
}

func (p *Parser) parseReturn() ast.Stmt {
	kw := p.advance()
	if p.funcDepth == 0 {
		p.fail(diag.SynOutsideFunction, kw.Span, "'return' outside function")
	}
	st := &ast.Return{}
	if p.canStartExpr() {
		st.Value = p.parseStarExprs()
	}
	st.Span = p.spanFrom(kw.Span)
	return st
}

func (p *Parser) parseRaise() ast.Stmt {
	kw := p.advance()
	st := &ast.Raise{}
	if p.canStartExpr() {
		st.Exc = p.parseTest()
		if p.eat(token.KwFrom) {
			st.Cause = p.parseTest()
		}
	}
	st.Span = p.spanFrom(kw.Span)
	return st
}

func (p *Parser) parseGlobal() ast.Stmt {
	kw := p.advance()
	var names []string
	for {
		name := p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax")
		names = append(names, name.Text)
		if !p.eat(token.Comma) {
			break
		}
	}
	sp := p.spanFrom(kw.Span)
	if kw.Kind == token.KwNonlocal {
		if p.defDepth == 0 {
			p.fail(diag.SynOutsideFunction, sp, "nonlocal declaration not allowed at module level")
		}
		return &ast.Nonlocal{Loc: ast.Loc{Span: sp}, Names: names}
	}
	return &ast.Global{Loc: ast.Loc{Span: sp}, Names: names}
}

func (p *Parser) parseDel() ast.Stmt {
	kw := p.advance()
	targets := p.parseTargetList(token.Newline)
	for _, t := range targets {
		p.setContext(t, ast.Del, "")
	}
	return &ast.Delete{Loc: ast.Loc{Span: p.spanFrom(kw.Span)}, Targets: targets}
}

func (p *Parser) parseAssert() ast.Stmt {
	kw := p.advance()
	st := &ast.Assert{Test: p.parseTest()}
	if p.eat(token.Comma) {
		st.Msg = p.parseTest()
	}
	st.Span = p.spanFrom(kw.Span)
	return st
}

// parseDottedName: NAME ('.' NAME)*
func (p *Parser) parseDottedName() string {
	name := p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax").Text
	for p.at(token.Dot) {
		p.advance()
		name += "." + p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax").Text
	}
	return name
}

func (p *Parser) parseImport() ast.Stmt {
	kw := p.advance()
	st := &ast.Import{}
	for {
		start := p.peek().Span
		alias := &ast.Alias{Name: p.parseDottedName()}
		if p.eat(token.KwAs) {
			alias.AsName = p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax").Text
		}
		alias.Span = p.spanFrom(start)
		st.Names = append(st.Names, alias)
		if !p.eat(token.Comma) {
			break
		}
	}
	st.Span = p.spanFrom(kw.Span)
	return st
}

func (p *Parser) parseImportFrom() ast.Stmt {
	kw := p.advance()
	st := &ast.ImportFrom{}
	for {
		if p.eat(token.Dot) {
			st.Level++
		} else if p.eat(token.Ellipsis) {
			st.Level += 3
		} else {
			break
		}
	}
	if !p.at(token.KwImport) || st.Level == 0 {
		st.Module = p.parseDottedName()
	}
	p.expect(token.KwImport, diag.SynUnexpectedToken, "invalid syntax")

	switch {
	case p.at(token.Star):
		star := p.advance()
		st.Names = []*ast.Alias{{Loc: ast.Loc{Span: star.Span}, Name: "*"}}
	case p.at(token.LParen):
		p.advance()
		st.Names = p.parseImportNames(true)
		p.expect(token.RParen, diag.SynUnexpectedToken, "invalid syntax")
	default:
		st.Names = p.parseImportNames(false)
	}
	st.Span = p.spanFrom(kw.Span)

	if st.Module == "__future__" && st.Level == 0 && (p.seenCode || p.blockDepth > 0) {
		p.fail(diag.SynFutureLate, st.Span, "from __future__ imports must occur at the beginning of the file")
	}
	return st
}

func (p *Parser) parseImportNames(parens bool) []*ast.Alias {
	var out []*ast.Alias
	for {
		name := p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax")
		alias := &ast.Alias{Name: name.Text}
		if p.eat(token.KwAs) {
			alias.AsName = p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax").Text
		}
		alias.Span = p.spanFrom(name.Span)
		out = append(out, alias)
		if !p.at(token.Comma) {
			return out
		}
		comma := p.advance()
		if parens && p.at(token.RParen) {
			return out
		}
		if !parens && p.atAny(token.Newline, token.Semi, token.EOF) {
			p.fail(diag.SynUnexpectedToken, comma.Span, "trailing comma not allowed without surrounding parentheses")
		}
	}
}

// parseTypeAlias: 'type' NAME [type_params] '=' expression
func (p *Parser) parseTypeAlias() ast.Stmt {
	kw := p.advance()
	name := p.advance()
	st := &ast.TypeAlias{Name: &ast.Name{Loc: ast.Loc{Span: name.Span}, ID: name.Text, Ctx: ast.Store}}
	if p.at(token.LBracket) {
		st.TypeParams = p.parseTypeParams()
	}
	p.expect(token.Assign, diag.SynUnexpectedToken, "invalid syntax")
	st.Value = p.parseTest()
	st.Span = p.spanFrom(kw.Span)
	return st
}

// parseExprStmt разбирает выражение-оператор и все формы присваивания.
func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.peek().Span
	first := p.parseStarExprsOrYield()

	switch {
	case p.at(token.Colon):
		p.advance()
		target := first
		switch target.(type) {
		case *ast.Name, *ast.Attribute, *ast.Subscript:
		case *ast.Tuple:
			p.fail(diag.SynInvalidTarget, target.Pos(), "only single target (not tuple) can be annotated")
		case *ast.List:
			p.fail(diag.SynInvalidTarget, target.Pos(), "only single target (not list) can be annotated")
		default:
			p.fail(diag.SynInvalidTarget, target.Pos(), "illegal target for annotation")
		}
		p.setContext(target, ast.Store, "")
		_, simple := target.(*ast.Name)
		if simple && p.file.Content[target.Pos().Start] == '(' {
			simple = false
		}
		st := &ast.AnnAssign{Target: target, Annotation: p.parseTest(), Simple: simple}
		if p.eat(token.Assign) {
			st.Value = p.parseStarExprsOrYield()
		}
		st.Span = p.spanFrom(start)
		return st

	case p.peek().Kind.IsAugAssign():
		op := p.advance()
		switch first.(type) {
		case *ast.Name, *ast.Attribute, *ast.Subscript:
		default:
			p.failf(diag.SynInvalidTarget, first.Pos(), "'%s' is an illegal expression for augmented assignment", describe(first))
		}
		p.setContext(first, ast.Store, "")
		value := p.parseStarExprsOrYield()
		return &ast.AugAssign{
			Loc:    ast.Loc{Span: p.spanFrom(start)},
			Target: first,
			Op:     op.Text[:len(op.Text)-1],
			Value:  value,
		}

	case p.at(token.Assign):
		targets := []ast.Expr{first}
		var value ast.Expr
		for p.eat(token.Assign) {
			value = p.parseStarExprsOrYield()
			if p.at(token.Assign) {
				targets = append(targets, value)
			}
		}
		for _, t := range targets {
			p.setContext(t, ast.Store, " here. Maybe you meant '==' instead of '='?")
		}
		return &ast.Assign{Loc: ast.Loc{Span: p.spanFrom(start)}, Targets: targets, Value: value}
	}

	if name, ok := first.(*ast.Name); ok && (name.ID == "print" || name.ID == "exec") && p.canStartExpr() {
		p.failf(diag.SynMissingParens, p.spanFrom(start),
			"Missing parentheses in call to '%s'. Did you mean %s(...)?", name.ID, name.ID)
	}
	return &ast.ExprStmt{Loc: ast.Loc{Span: p.spanFrom(start)}, Value: first}
}

// looksLikeMatch решает, начинает ли soft keyword "match" оператор match:
// строка должна заканчиваться ':' на нулевой глубине скобок.
func (p *Parser) looksLikeMatch() bool {
	switch next := p.peekAt(1); {
	case next.Kind == token.Newline, next.Kind == token.Assign, next.Kind == token.Dot,
		next.Kind == token.Colon, next.Kind == token.Comma, next.Kind == token.RParen,
		next.Kind == token.Semi, next.Kind == token.EOF, next.Kind.IsAugAssign():
		return false
	}
	depth := 0
	var last token.Kind
	for k := 1; ; k++ {
		tok := p.peekAt(k)
		switch tok.Kind {
		case token.EOF, token.Invalid:
			return false
		case token.Newline:
			return depth == 0 && last == token.Colon
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		last = tok.Kind
	}
}
