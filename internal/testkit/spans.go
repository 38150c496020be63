// Package testkit holds checks shared by parser and analysis tests.
package testkit

import (
	"fmt"

	"scriptgate/internal/ast"
	"scriptgate/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed module:
// 1) every node span is ordered and within the file content
// 2) every top-level statement span is non-empty
// 3) top-level statements follow each other without overlapping
func CheckSpanInvariants(mod *ast.Module, file *source.File) error {
	if mod == nil || file == nil {
		return fmt.Errorf("nil module or file")
	}
	size := file.Len()

	var bad error
	ast.Inspect(mod, func(n ast.Node) bool {
		if bad != nil {
			return false
		}
		sp := n.Pos()
		if sp.Start > sp.End || sp.End > size {
			bad = fmt.Errorf("%T span %v outside content [0,%d)", n, sp, size)
			return false
		}
		return true
	})
	if bad != nil {
		return bad
	}

	var prev source.Span
	for i, st := range mod.Body {
		sp := st.Pos()
		if sp.Empty() {
			return fmt.Errorf("statement %d (%T) has an empty span", i, st)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("statement %d (%T) span %v overlaps previous %v", i, st, sp, prev)
		}
		prev = sp
	}
	return nil
}
