package scope

import (
	"slices"

	"scriptgate/internal/ast"
	"scriptgate/internal/rules"
	"scriptgate/internal/source"
)

// Ref is the first read of a name that is never bound at module scope.
type Ref struct {
	Name  string
	Span  source.Span
	Count int // сколько всего чтений этого имени
}

// ImportRef is one imported module, as written in an import statement.
type ImportRef struct {
	Module string // полное имя, "a.b.c"; пусто для "from . import x"
	Level  int    // количество ведущих точек
	From   bool
	Span   source.Span
}

// Top returns the top-level package name.
func (r ImportRef) Top() string {
	for i := 0; i < len(r.Module); i++ {
		if r.Module[i] == '.' {
			return r.Module[:i]
		}
	}
	return r.Module
}

// Result is the outcome of one analysis.
type Result struct {
	// Undefined lists names read but never bound, in source order.
	// Always empty when Wildcard is set.
	Undefined []Ref
	Imports   []ImportRef
	// Defined is every name bound at module scope.
	Defined           map[string]struct{}
	Wildcard          bool
	FutureAnnotations bool
}

// IsDefined reports whether name is bound at module scope.
func (r *Result) IsDefined(name string) bool {
	_, ok := r.Defined[name]
	return ok
}

// Analyze walks the module once and classifies names.
func Analyze(mod *ast.Module, rs *rules.Set) Result {
	if rs == nil {
		rs = rules.Default()
	}
	a := &analyzer{
		rules:   rs,
		defined: map[string]struct{}{},
		refs:    map[string]*Ref{},
	}
	if mod == nil {
		return Result{Defined: a.defined}
	}
	a.futureAnnotations = hasFutureAnnotations(mod)
	a.stmts(mod.Body)

	res := Result{
		Imports:           a.imports,
		Defined:           a.defined,
		Wildcard:          a.wildcard,
		FutureAnnotations: a.futureAnnotations,
	}
	if a.wildcard {
		return res
	}
	for _, name := range a.order {
		if _, ok := a.defined[name]; ok {
			continue
		}
		if rs.IsBuiltin(name) || rs.IsImplicit(name) {
			continue
		}
		res.Undefined = append(res.Undefined, *a.refs[name])
	}
	slices.SortStableFunc(res.Undefined, func(x, y Ref) int {
		return int(x.Span.Start) - int(y.Span.Start)
	})
	return res
}

func hasFutureAnnotations(mod *ast.Module) bool {
	for _, st := range mod.Body {
		imp, ok := st.(*ast.ImportFrom)
		if !ok || imp.Module != "__future__" || imp.Level != 0 {
			continue
		}
		for _, al := range imp.Names {
			if al.Name == "annotations" {
				return true
			}
		}
	}
	return false
}
