package scope

import "scriptgate/internal/ast"

// target связывает имена цели присваивания на уровне модуля. Внутри
// attribute/subscript-целей читаются базовые выражения.
func (a *analyzer) target(e ast.Expr) {
	switch t := e.(type) {
	case nil:
	case *ast.Name:
		a.define(t.ID)
	case *ast.Tuple:
		for _, el := range t.Elts {
			a.target(el)
		}
	case *ast.List:
		for _, el := range t.Elts {
			a.target(el)
		}
	case *ast.Starred:
		a.target(t.Value)
	case *ast.Attribute:
		a.expr(t.Value)
	case *ast.Subscript:
		a.expr(t.Value)
		a.expr(t.Index)
	default:
		a.expr(e)
	}
}

// bindLocal кладёт имена цели comprehension в транзиентную область sc.
func (a *analyzer) bindLocal(sc map[string]struct{}, e ast.Expr) {
	switch t := e.(type) {
	case *ast.Name:
		sc[t.ID] = struct{}{}
	case *ast.Tuple:
		for _, el := range t.Elts {
			a.bindLocal(sc, el)
		}
	case *ast.List:
		for _, el := range t.Elts {
			a.bindLocal(sc, el)
		}
	case *ast.Starred:
		a.bindLocal(sc, t.Value)
	case *ast.Attribute:
		a.expr(t.Value)
	case *ast.Subscript:
		a.expr(t.Value)
		a.expr(t.Index)
	}
}

// pattern связывает capture-имена match-паттерна и читает value-паттерны.
func (a *analyzer) pattern(p ast.Pattern) {
	switch pt := p.(type) {
	case nil:
	case *ast.MatchValue:
		a.expr(pt.Value)
	case *ast.MatchSingleton:
	case *ast.MatchSequence:
		for _, sub := range pt.Patterns {
			a.pattern(sub)
		}
	case *ast.MatchMapping:
		a.exprs(pt.Keys)
		for _, sub := range pt.Patterns {
			a.pattern(sub)
		}
		if pt.Rest != "" {
			a.define(pt.Rest)
		}
	case *ast.MatchClass:
		a.expr(pt.Cls)
		for _, sub := range pt.Patterns {
			a.pattern(sub)
		}
		for _, sub := range pt.KwdPatterns {
			a.pattern(sub)
		}
	case *ast.MatchStar:
		if pt.Name != "" {
			a.define(pt.Name)
		}
	case *ast.MatchAs:
		a.pattern(pt.Pattern)
		if pt.Name != "" {
			a.define(pt.Name)
		}
	case *ast.MatchOr:
		for _, sub := range pt.Patterns {
			a.pattern(sub)
		}
	}
}
