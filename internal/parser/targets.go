package parser

import (
	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
)

// setContext помечает выражение как цель присваивания (Store) или del (Del)
// и отвергает то, чему присвоить нельзя. suffix дописывается к сообщению
// для обычного '='.
func (p *Parser) setContext(e ast.Expr, ctx ast.Ctx, suffix string) {
	switch t := e.(type) {
	case *ast.Name:
		if t.ID == "__debug__" {
			p.fail(diag.SynInvalidTarget, t.Span, "cannot assign to __debug__")
		}
		t.Ctx = ctx
	case *ast.Attribute:
		t.Ctx = ctx
	case *ast.Subscript:
		t.Ctx = ctx
	case *ast.Starred:
		if ctx == ast.Del {
			p.fail(diag.SynInvalidTarget, t.Span, "cannot delete starred")
		}
		t.Ctx = ctx
		p.setContext(t.Value, ctx, suffix)
	case *ast.Tuple:
		t.Ctx = ctx
		p.setElts(t.Elts, ctx, suffix)
	case *ast.List:
		t.Ctx = ctx
		p.setElts(t.Elts, ctx, suffix)
	default:
		verb := "assign to"
		if ctx == ast.Del {
			verb = "delete"
			suffix = ""
		}
		if c, ok := e.(*ast.Constant); ok && (c.Kind == ast.ConstTrue || c.Kind == ast.ConstFalse || c.Kind == ast.ConstNone) {
			suffix = ""
		}
		p.failf(diag.SynInvalidTarget, e.Pos(), "cannot %s %s%s", verb, describe(e), suffix)
	}
}

func (p *Parser) setElts(elts []ast.Expr, ctx ast.Ctx, suffix string) {
	stars := 0
	for _, el := range elts {
		if _, ok := el.(*ast.Starred); ok {
			stars++
			if stars > 1 && ctx == ast.Store {
				p.fail(diag.SynInvalidTarget, el.Pos(), "multiple starred expressions in assignment")
			}
		}
		p.setContext(el, ctx, suffix)
	}
}

// describe называет вид выражения так, как это делает CPython в сообщениях.
func describe(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Call:
		return "function call"
	case *ast.Constant:
		switch t.Kind {
		case ast.ConstTrue:
			return "True"
		case ast.ConstFalse:
			return "False"
		case ast.ConstNone:
			return "None"
		case ast.ConstEllipsis:
			return "ellipsis"
		}
		return "literal"
	case *ast.JoinedStr:
		return "f-string expression"
	case *ast.BinOp, *ast.UnaryOp, *ast.BoolOp:
		return "expression"
	case *ast.Compare:
		return "comparison"
	case *ast.IfExp:
		return "conditional expression"
	case *ast.Lambda:
		return "lambda"
	case *ast.NamedExpr:
		return "named expression"
	case *ast.Dict:
		return "dict literal"
	case *ast.Set:
		return "set display"
	case *ast.ListComp:
		return "list comprehension"
	case *ast.SetComp:
		return "set comprehension"
	case *ast.DictComp:
		return "dict comprehension"
	case *ast.GeneratorExp:
		return "generator expression"
	case *ast.Await:
		return "await expression"
	case *ast.Yield, *ast.YieldFrom:
		return "yield expression"
	case *ast.Tuple:
		return "tuple"
	case *ast.List:
		return "list"
	case *ast.Attribute:
		return "attribute"
	case *ast.Subscript:
		return "subscript"
	case *ast.Starred:
		return "starred"
	case *ast.Name:
		return "name"
	}
	return "expression"
}
