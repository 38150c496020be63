package fix

import (
	"regexp"
	"strings"

	"scriptgate/internal/ast"
	"scriptgate/internal/source"
)

// PEP 263
var codingCookie = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*[-\w.]+`)

// InsertionPoint returns the offset where new imports go: after a shebang,
// an encoding cookie, the module docstring and any "from __future__" imports.
func InsertionPoint(file *source.File, mod *ast.Module) uint32 {
	var off uint32
	for line := uint32(1); line <= 2 && line <= file.LineCount(); line++ {
		text := file.GetLine(line)
		if (line == 1 && strings.HasPrefix(text, "#!")) || codingCookie.MatchString(text) {
			off = endOfLine(file.Content, lineStart(file, line))
			continue
		}
		break
	}
	if mod == nil {
		return off
	}

	body := mod.Body
	if mod.Docstring && len(body) > 0 {
		off = max(off, endOfLine(file.Content, body[0].Pos().End))
		body = body[1:]
	}
	for _, st := range body {
		imp, ok := st.(*ast.ImportFrom)
		if !ok || imp.Level != 0 || imp.Module != "__future__" {
			break
		}
		off = max(off, endOfLine(file.Content, imp.Pos().End))
	}
	return off
}

func lineStart(file *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	return file.LineIdx[line-2] + 1
}

// endOfLine returns the offset just past the newline that ends the line containing off.
func endOfLine(content []byte, off uint32) uint32 {
	for i := int(off); i < len(content); i++ {
		if content[i] == '\n' {
			return uint32(i + 1) // #nosec G115 -- bounded by content length
		}
	}
	return uint32(len(content)) // #nosec G115 -- bounded by content length
}

// importBlock renders statements as one block ready to be inserted at off.
func importBlock(content []byte, off uint32, stmts []string) string {
	var sb strings.Builder
	if off > 0 && off == uint32(len(content)) && content[off-1] != '\n' { // #nosec G115
		sb.WriteByte('\n')
	}
	for _, st := range stmts {
		sb.WriteString(st)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// moduleImports renders every import executed at module level, one
// normalized statement per alias ("import a.b as c", "from m import n").
// Function and class bodies are skipped: an import there does not bind
// the name for module code.
func moduleImports(mod *ast.Module) map[string]struct{} {
	out := make(map[string]struct{})
	if mod == nil {
		return out
	}
	var visit func(stmts []ast.Stmt)
	visit = func(stmts []ast.Stmt) {
		for _, st := range stmts {
			switch n := st.(type) {
			case *ast.Import:
				for _, a := range n.Names {
					out[aliasStmt("import "+a.Name, a)] = struct{}{}
				}
			case *ast.ImportFrom:
				if n.Level != 0 {
					continue
				}
				for _, a := range n.Names {
					out[aliasStmt("from "+n.Module+" import "+a.Name, a)] = struct{}{}
				}
			case *ast.If:
				visit(n.Body)
				visit(n.OrElse)
			case *ast.Try:
				visit(n.Body)
				for _, h := range n.Handlers {
					visit(h.Body)
				}
				visit(n.OrElse)
				visit(n.Finally)
			case *ast.With:
				visit(n.Body)
			case *ast.For:
				visit(n.Body)
				visit(n.OrElse)
			case *ast.While:
				visit(n.Body)
				visit(n.OrElse)
			case *ast.Match:
				for _, c := range n.Cases {
					visit(c.Body)
				}
			}
		}
	}
	visit(mod.Body)
	return out
}

func aliasStmt(base string, a *ast.Alias) string {
	if a.AsName != "" && a.AsName != a.Name {
		return base + " as " + a.AsName
	}
	return base
}

// normalizeStmt collapses whitespace so table entries compare with rendered nodes.
func normalizeStmt(stmt string) string {
	return strings.Join(strings.Fields(stmt), " ")
}
