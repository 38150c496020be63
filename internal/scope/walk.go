package scope

import (
	"scriptgate/internal/ast"
	"scriptgate/internal/rules"
)

type analyzer struct {
	rules             *rules.Set
	defined           map[string]struct{}
	refs              map[string]*Ref
	order             []string
	transient         []map[string]struct{} // comprehension / lambda scopes
	imports           []ImportRef
	wildcard          bool
	futureAnnotations bool
}

func (a *analyzer) define(name string) {
	a.defined[name] = struct{}{}
}

func (a *analyzer) read(n *ast.Name) {
	for i := len(a.transient) - 1; i >= 0; i-- {
		if _, ok := a.transient[i][n.ID]; ok {
			return
		}
	}
	if ref, ok := a.refs[n.ID]; ok {
		ref.Count++
		return
	}
	a.refs[n.ID] = &Ref{Name: n.ID, Span: n.Span, Count: 1}
	a.order = append(a.order, n.ID)
}

func (a *analyzer) push() map[string]struct{} {
	sc := map[string]struct{}{}
	a.transient = append(a.transient, sc)
	return sc
}

func (a *analyzer) pop() {
	a.transient = a.transient[:len(a.transient)-1]
}

func (a *analyzer) stmts(list []ast.Stmt) {
	for _, st := range list {
		a.stmt(st)
	}
}

func (a *analyzer) stmt(st ast.Stmt) {
	switch s := st.(type) {
	case *ast.FunctionDef:
		a.exprs(s.Decorators)
		a.withTypeParams(s.TypeParams, func() {
			a.arguments(s.Args)
			a.annotation(s.Returns)
		})
		a.define(s.Name)
		a.promoteGlobals(s.Body)

	case *ast.ClassDef:
		a.exprs(s.Decorators)
		a.withTypeParams(s.TypeParams, func() {
			a.exprs(s.Bases)
			for _, kw := range s.Keywords {
				a.expr(kw.Value)
			}
		})
		a.define(s.Name)
		a.promoteGlobals(s.Body)

	case *ast.Return:
		a.expr(s.Value)
	case *ast.Delete:
		// del читает имя
		a.exprs(s.Targets)
	case *ast.Assign:
		a.expr(s.Value)
		for _, t := range s.Targets {
			a.target(t)
		}
	case *ast.AugAssign:
		a.expr(s.Value)
		a.target(s.Target)
	case *ast.AnnAssign:
		a.annotation(s.Annotation)
		a.expr(s.Value)
		a.target(s.Target)

	case *ast.For:
		a.expr(s.Iter)
		a.target(s.Target)
		a.stmts(s.Body)
		a.stmts(s.OrElse)
	case *ast.While:
		a.expr(s.Test)
		a.stmts(s.Body)
		a.stmts(s.OrElse)
	case *ast.If:
		a.expr(s.Test)
		a.stmts(s.Body)
		a.stmts(s.OrElse)
	case *ast.With:
		for _, item := range s.Items {
			a.expr(item.Context)
			a.target(item.Vars)
		}
		a.stmts(s.Body)
	case *ast.Match:
		a.expr(s.Subject)
		for _, c := range s.Cases {
			a.pattern(c.Pattern)
			a.expr(c.Guard)
			a.stmts(c.Body)
		}
	case *ast.Raise:
		a.expr(s.Exc)
		a.expr(s.Cause)
	case *ast.Try:
		a.stmts(s.Body)
		for _, h := range s.Handlers {
			a.expr(h.Type)
			if h.Name != "" {
				a.define(h.Name)
			}
			a.stmts(h.Body)
		}
		a.stmts(s.OrElse)
		a.stmts(s.Finally)
	case *ast.Assert:
		a.expr(s.Test)
		a.expr(s.Msg)

	case *ast.Import:
		for _, al := range s.Names {
			a.define(al.BoundName())
			a.imports = append(a.imports, ImportRef{Module: al.Name, Span: al.Span})
		}
	case *ast.ImportFrom:
		a.imports = append(a.imports, ImportRef{Module: s.Module, Level: s.Level, From: true, Span: s.Span})
		for _, al := range s.Names {
			if al.Name == "*" {
				a.wildcard = true
				continue
			}
			a.define(al.BoundName())
		}

	case *ast.Global:
		for _, n := range s.Names {
			a.define(n)
		}
	case *ast.Nonlocal:
		for _, n := range s.Names {
			a.define(n)
		}
	case *ast.ExprStmt:
		a.expr(s.Value)
	case *ast.TypeAlias:
		a.define(s.Name.ID)
		a.withTypeParams(s.TypeParams, func() {
			a.expr(s.Value)
		})
	}
}

// promoteGlobals находит "global x" в теле функции или класса (на любой
// глубине): такие имена связываются на уровне модуля.
func (a *analyzer) promoteGlobals(body []ast.Stmt) {
	for _, st := range body {
		ast.Inspect(st, func(n ast.Node) bool {
			if g, ok := n.(*ast.Global); ok {
				for _, name := range g.Names {
					a.define(name)
				}
			}
			return true
		})
	}
}

func (a *analyzer) annotation(e ast.Expr) {
	if a.futureAnnotations {
		return
	}
	a.expr(e)
}

func (a *analyzer) arguments(args *ast.Arguments) {
	if args == nil {
		return
	}
	a.exprs(args.Defaults)
	for _, d := range args.KwDefaults {
		a.expr(d)
	}
	for _, arg := range args.All() {
		a.annotation(arg.Annotation)
	}
}

func (a *analyzer) withTypeParams(tps []*ast.TypeParam, fn func()) {
	if len(tps) == 0 {
		fn()
		return
	}
	sc := a.push()
	for _, tp := range tps {
		sc[tp.Name] = struct{}{}
	}
	for _, tp := range tps {
		a.expr(tp.Bound)
		a.expr(tp.Default)
	}
	fn()
	a.pop()
}

func (a *analyzer) exprs(list []ast.Expr) {
	for _, e := range list {
		a.expr(e)
	}
}

func (a *analyzer) expr(e ast.Expr) {
	switch x := e.(type) {
	case nil:
	case *ast.Name:
		if x.Ctx == ast.Store {
			a.define(x.ID)
		} else {
			a.read(x)
		}
	case *ast.Constant:
	case *ast.JoinedStr:
		a.exprs(x.Values)
	case *ast.Attribute:
		a.expr(x.Value)
	case *ast.Subscript:
		a.expr(x.Value)
		a.expr(x.Index)
	case *ast.Slice:
		a.expr(x.Lower)
		a.expr(x.Upper)
		a.expr(x.Step)
	case *ast.Starred:
		a.expr(x.Value)
	case *ast.Call:
		a.expr(x.Func)
		a.exprs(x.Args)
		for _, kw := range x.Keywords {
			a.expr(kw.Value)
		}
	case *ast.BinOp:
		a.expr(x.Left)
		a.expr(x.Right)
	case *ast.UnaryOp:
		a.expr(x.Operand)
	case *ast.BoolOp:
		a.exprs(x.Values)
	case *ast.Compare:
		a.expr(x.Left)
		a.exprs(x.Comparators)
	case *ast.IfExp:
		a.expr(x.Test)
		a.expr(x.Body)
		a.expr(x.OrElse)
	case *ast.Lambda:
		a.lambda(x)
	case *ast.NamedExpr:
		a.expr(x.Value)
		// walrus связывает имя в объемлющей (модульной) области, даже из comprehension
		a.define(x.Target.ID)
	case *ast.Tuple:
		a.exprs(x.Elts)
	case *ast.List:
		a.exprs(x.Elts)
	case *ast.Set:
		a.exprs(x.Elts)
	case *ast.Dict:
		for i := range x.Values {
			a.expr(x.Keys[i])
			a.expr(x.Values[i])
		}
	case *ast.ListComp:
		a.comprehension(x.Generators, x.Elt)
	case *ast.SetComp:
		a.comprehension(x.Generators, x.Elt)
	case *ast.GeneratorExp:
		a.comprehension(x.Generators, x.Elt)
	case *ast.DictComp:
		a.comprehension(x.Generators, x.Key, x.Value)
	case *ast.Await:
		a.expr(x.Value)
	case *ast.Yield:
		a.expr(x.Value)
	case *ast.YieldFrom:
		a.expr(x.Value)
	}
}

// comprehension: первый iterable вычисляется в объемлющей области,
// всё остальное видит переменные цикла.
func (a *analyzer) comprehension(gens []*ast.Comprehension, elts ...ast.Expr) {
	if len(gens) == 0 {
		return
	}
	a.expr(gens[0].Iter)
	sc := a.push()
	for i, g := range gens {
		if i > 0 {
			a.expr(g.Iter)
		}
		a.bindLocal(sc, g.Target)
		a.exprs(g.Ifs)
	}
	a.exprs(elts)
	a.pop()
}

func (a *analyzer) lambda(l *ast.Lambda) {
	a.arguments(l.Args)
	sc := a.push()
	for _, arg := range l.Args.All() {
		sc[arg.Name] = struct{}{}
	}
	a.expr(l.Body)
	a.pop()
}
