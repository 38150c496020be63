package parser

import (
	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/token"
)

// parseCallArgs разбирает аргументы вызова до ')', не съедая её.
func (p *Parser) parseCallArgs() ([]ast.Expr, []*ast.Keyword) {
	var (
		args     []ast.Expr
		kws      []*ast.Keyword
		sawKw    bool
		sawKwArg bool
	)
	for !p.at(token.RParen) {
		start := p.peek().Span
		switch {
		case p.at(token.DoubleStar):
			p.advance()
			value := p.parseTest()
			kws = append(kws, &ast.Keyword{Loc: ast.Loc{Span: p.spanFrom(start)}, Value: value})
			sawKwArg = true

		case p.at(token.Star):
			e := p.parseStarred(p.parseTest)
			if sawKwArg {
				p.fail(diag.SynBadArguments, e.Pos(), "iterable argument unpacking follows keyword argument unpacking")
			}
			args = append(args, e)

		default:
			e := p.parseNamedExpr()
			if p.at(token.Assign) {
				name, ok := e.(*ast.Name)
				if !ok {
					p.fail(diag.SynBadArguments, p.peek().Span.Cover(e.Pos()), `expression cannot contain assignment, perhaps you meant "=="?`)
				}
				p.advance()
				value := p.parseTest()
				kws = append(kws, &ast.Keyword{Loc: ast.Loc{Span: p.spanFrom(start)}, Arg: name.ID, Value: value})
				sawKw = true
				break
			}
			if p.atAny(token.KwFor, token.KwAsync) {
				gens := p.parseComprehensions(true)
				e = &ast.GeneratorExp{Loc: ast.Loc{Span: p.spanFrom(start)}, Elt: e, Generators: gens}
				if len(args) > 0 || len(kws) > 0 || p.at(token.Comma) && p.peekAt(1).Kind != token.RParen {
					p.fail(diag.SynBadArguments, e.Pos(), "Generator expression must be parenthesized")
				}
			}
			if sawKwArg {
				p.fail(diag.SynBadArguments, e.Pos(), "positional argument follows keyword argument unpacking")
			}
			if sawKw {
				p.fail(diag.SynBadArguments, e.Pos(), "positional argument follows keyword argument")
			}
			args = append(args, e)
		}
		if !p.eat(token.Comma) {
			if !p.at(token.RParen) {
				p.missingComma(p.lastExprIn(args, kws))
			}
			break
		}
	}
	return args, kws
}

func (p *Parser) lastExprIn(args []ast.Expr, kws []*ast.Keyword) ast.Expr {
	var last ast.Expr
	if len(args) > 0 {
		last = args[len(args)-1]
	}
	if len(kws) > 0 && (last == nil || kws[len(kws)-1].Span.Start > last.Pos().Start) {
		last = kws[len(kws)-1].Value
	}
	if last == nil {
		return &ast.Name{Loc: ast.Loc{Span: p.peek().Span}}
	}
	return last
}

// parseParams разбирает список параметров def (annotations=true) или
// lambda до закрывающего токена close.
func (p *Parser) parseParams(close token.Kind, annotations bool) *ast.Arguments {
	args := &ast.Arguments{}
	seen := map[string]bool{}
	var (
		sawSlash, sawStar, sawDefault bool
		bareStar                      *token.Token
	)

	param := func() *ast.Arg {
		name := p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax")
		if seen[name.Text] {
			p.failf(diag.SynBadArguments, name.Span, "duplicate argument '%s' in function definition", name.Text)
		}
		seen[name.Text] = true
		a := &ast.Arg{Name: name.Text}
		if annotations && p.eat(token.Colon) {
			if p.at(token.Star) {
				a.Annotation = p.parseStarred(p.parseBitOr)
			} else {
				a.Annotation = p.parseTest()
			}
		}
		a.Span = p.spanFrom(name.Span)
		return a
	}

	for !p.at(close) {
		if args.Kwarg != nil {
			p.fail(diag.SynBadArguments, p.peek().Span, "arguments cannot follow var-keyword argument")
		}
		tok := p.peek()
		switch tok.Kind {
		case token.Slash:
			p.advance()
			switch {
			case sawSlash:
				p.fail(diag.SynBadArguments, tok.Span, "/ may appear only once")
			case sawStar:
				p.fail(diag.SynBadArguments, tok.Span, "/ must be ahead of *")
			case len(args.Args) == 0:
				p.fail(diag.SynBadArguments, tok.Span, "at least one argument must precede /")
			}
			sawSlash = true
			args.PosOnly, args.Args = args.Args, nil

		case token.Star:
			p.advance()
			if sawStar {
				p.fail(diag.SynBadArguments, tok.Span, "* argument may appear only once")
			}
			sawStar = true
			if p.atAny(token.Comma, close) {
				bareStar = &tok
			} else {
				args.Vararg = param()
			}

		case token.DoubleStar:
			p.advance()
			args.Kwarg = param()

		default:
			a := param()
			var def ast.Expr
			if p.eat(token.Assign) {
				def = p.parseTest()
			}
			if sawStar {
				args.KwOnly = append(args.KwOnly, a)
				args.KwDefaults = append(args.KwDefaults, def)
				bareStar = nil
				break
			}
			if def != nil {
				sawDefault = true
				args.Defaults = append(args.Defaults, def)
			} else if sawDefault {
				p.fail(diag.SynBadArguments, a.Span, "parameter without a default follows parameter with a default")
			}
			args.Args = append(args.Args, a)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if bareStar != nil {
		p.fail(diag.SynBadArguments, bareStar.Span, "named arguments must follow bare *")
	}
	if !p.at(close) {
		p.unexpected()
	}
	return args
}

// parseTypeParams: '[' type_param (',' type_param)* [','] ']'
func (p *Parser) parseTypeParams() []*ast.TypeParam {
	p.advance()
	var out []*ast.TypeParam
	for !p.at(token.RBracket) {
		start := p.peek().Span
		tp := &ast.TypeParam{}
		switch {
		case p.eat(token.Star):
			tp.Prefix = "*"
		case p.eat(token.DoubleStar):
			tp.Prefix = "**"
		}
		tp.Name = p.expect(token.Ident, diag.SynExpectIdentifier, "invalid syntax").Text
		if tp.Prefix == "" && p.eat(token.Colon) {
			tp.Bound = p.parseTest()
		}
		if p.eat(token.Assign) {
			tp.Default = p.parseTest()
		}
		tp.Span = p.spanFrom(start)
		out = append(out, tp)
		if !p.eat(token.Comma) {
			break
		}
	}
	if len(out) == 0 {
		p.fail(diag.SynUnexpectedToken, p.peek().Span, "Type parameter list cannot be empty")
	}
	p.expect(token.RBracket, diag.SynUnexpectedToken, "invalid syntax")
	return out
}
