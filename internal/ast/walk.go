package ast

// Inspect traverses the tree depth-first, calling f for every node.
// If f returns false the children of that node are skipped.
// Unlike the scope analysis, Inspect descends into function and class bodies.
// Optional children must be stored as untyped nil.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range children(n) {
		Inspect(c, f)
	}
}

func children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	addExprs := func(es []Expr) {
		for _, e := range es {
			add(e)
		}
	}
	addStmts := func(ss []Stmt) {
		for _, s := range ss {
			add(s)
		}
	}
	addPatterns := func(ps []Pattern) {
		for _, p := range ps {
			add(p)
		}
	}
	addArgs := func(a *Arguments) {
		if a == nil {
			return
		}
		for _, arg := range a.All() {
			add(arg)
		}
		addExprs(a.Defaults)
		addExprs(a.KwDefaults)
	}
	addTypeParams := func(tps []*TypeParam) {
		for _, tp := range tps {
			add(tp)
		}
	}
	addGens := func(gs []*Comprehension) {
		for _, g := range gs {
			add(g)
		}
	}

	switch n := n.(type) {
	case *Module:
		addStmts(n.Body)

	// statements
	case *FunctionDef:
		addExprs(n.Decorators)
		addTypeParams(n.TypeParams)
		addArgs(n.Args)
		add(n.Returns)
		addStmts(n.Body)
	case *ClassDef:
		addExprs(n.Decorators)
		addTypeParams(n.TypeParams)
		addExprs(n.Bases)
		for _, k := range n.Keywords {
			add(k)
		}
		addStmts(n.Body)
	case *Return:
		add(n.Value)
	case *Delete:
		addExprs(n.Targets)
	case *Assign:
		addExprs(n.Targets)
		add(n.Value)
	case *AugAssign:
		add(n.Target, n.Value)
	case *AnnAssign:
		add(n.Target, n.Annotation, n.Value)
	case *For:
		add(n.Target, n.Iter)
		addStmts(n.Body)
		addStmts(n.OrElse)
	case *While:
		add(n.Test)
		addStmts(n.Body)
		addStmts(n.OrElse)
	case *If:
		add(n.Test)
		addStmts(n.Body)
		addStmts(n.OrElse)
	case *With:
		for _, it := range n.Items {
			add(it)
		}
		addStmts(n.Body)
	case *WithItem:
		add(n.Context, n.Vars)
	case *Match:
		add(n.Subject)
		for _, c := range n.Cases {
			add(c)
		}
	case *MatchCase:
		add(n.Pattern, n.Guard)
		addStmts(n.Body)
	case *Raise:
		add(n.Exc, n.Cause)
	case *Try:
		addStmts(n.Body)
		for _, h := range n.Handlers {
			add(h)
		}
		addStmts(n.OrElse)
		addStmts(n.Finally)
	case *ExceptHandler:
		add(n.Type)
		addStmts(n.Body)
	case *Assert:
		add(n.Test, n.Msg)
	case *Import:
		for _, a := range n.Names {
			add(a)
		}
	case *ImportFrom:
		for _, a := range n.Names {
			add(a)
		}
	case *ExprStmt:
		add(n.Value)
	case *TypeAlias:
		add(n.Name)
		addTypeParams(n.TypeParams)
		add(n.Value)
	case *TypeParam:
		add(n.Bound, n.Default)

	// expressions
	case *JoinedStr:
		addExprs(n.Values)
	case *Attribute:
		add(n.Value)
	case *Subscript:
		add(n.Value, n.Index)
	case *Slice:
		add(n.Lower, n.Upper, n.Step)
	case *Starred:
		add(n.Value)
	case *Call:
		add(n.Func)
		addExprs(n.Args)
		for _, k := range n.Keywords {
			add(k)
		}
	case *Keyword:
		add(n.Value)
	case *BinOp:
		add(n.Left, n.Right)
	case *UnaryOp:
		add(n.Operand)
	case *BoolOp:
		addExprs(n.Values)
	case *Compare:
		add(n.Left)
		addExprs(n.Comparators)
	case *IfExp:
		add(n.Test, n.Body, n.OrElse)
	case *Lambda:
		addArgs(n.Args)
		add(n.Body)
	case *NamedExpr:
		add(n.Target, n.Value)
	case *Tuple:
		addExprs(n.Elts)
	case *List:
		addExprs(n.Elts)
	case *Set:
		addExprs(n.Elts)
	case *Dict:
		addExprs(n.Keys)
		addExprs(n.Values)
	case *ListComp:
		add(n.Elt)
		addGens(n.Generators)
	case *SetComp:
		add(n.Elt)
		addGens(n.Generators)
	case *GeneratorExp:
		add(n.Elt)
		addGens(n.Generators)
	case *DictComp:
		add(n.Key, n.Value)
		addGens(n.Generators)
	case *Comprehension:
		add(n.Target, n.Iter)
		addExprs(n.Ifs)
	case *Await:
		add(n.Value)
	case *Yield:
		add(n.Value)
	case *YieldFrom:
		add(n.Value)
	case *Arg:
		add(n.Annotation)

	// patterns
	case *MatchValue:
		add(n.Value)
	case *MatchSequence:
		addPatterns(n.Patterns)
	case *MatchMapping:
		addExprs(n.Keys)
		addPatterns(n.Patterns)
	case *MatchClass:
		add(n.Cls)
		addPatterns(n.Patterns)
		addPatterns(n.KwdPatterns)
	case *MatchAs:
		add(n.Pattern)
	case *MatchOr:
		addPatterns(n.Patterns)
	}
	return out
}
