package fix

import (
	"errors"
	"fmt"

	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/parser"
	"scriptgate/internal/rules"
	"scriptgate/internal/source"
)

var (
	// ErrNoFixes is returned when no fixes were applied.
	ErrNoFixes = errors.New("no applicable fixes found")
	// ErrNotFixable is returned when the issue list contains something the rewrite cannot resolve.
	ErrNotFixable = errors.New("issues are not auto-fixable")
	// ErrReparse is returned when the rewritten script no longer parses.
	ErrReparse = errors.New("fixed script does not parse")
)

// AppliedFix records one inserted import.
type AppliedFix struct {
	Name      string
	Statement string
	Code      diag.Code
}

// SkippedFix captures a fixable issue that produced no edit.
type SkippedFix struct {
	Name   string
	Reason string
}

// ApplyResult aggregates applied fixes, skipped ones and the rewritten script.
type ApplyResult struct {
	Code    string
	Applied []AppliedFix
	Skipped []SkippedFix
	Edit    TextEdit
}

// Statements returns the inserted import statements in order.
func (r *ApplyResult) Statements() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Applied))
	for _, a := range r.Applied {
		out = append(out, a.Statement)
	}
	return out
}

// Engine rewrites scripts by prepending imports for known names.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules *rules.Set
}

func NewEngine(rs *rules.Set) *Engine {
	if rs == nil {
		rs = rules.Default()
	}
	return &Engine{rules: rs}
}

// Apply inserts the import statements mapped from auto-fixable issues.
// It refuses when any issue is a syntax issue or an error the rewrite cannot resolve.
func (e *Engine) Apply(src string, issues []diag.Issue) (*ApplyResult, error) {
	result := &ApplyResult{Code: src}
	for _, is := range issues {
		if is.Category() == diag.CatSyntax {
			return result, fmt.Errorf("fix: %w: syntax error at line %d", ErrNotFixable, is.Line)
		}
		if is.IsBlocking() && !is.AutoFixable {
			return result, fmt.Errorf("fix: %w: %s %s", ErrNotFixable, is.Code.ID(), is.Subject)
		}
	}

	file := source.FromString(src)
	mod := parseModule(file)
	present := moduleImports(mod)
	queued := make(map[string]bool)
	var stmts []string
	for _, is := range issues {
		if !is.AutoFixable || is.Subject == "" {
			continue
		}
		stmt, ok := e.rules.KnownImport(is.Subject)
		if !ok {
			result.Skipped = append(result.Skipped, SkippedFix{Name: is.Subject, Reason: "no known import"})
			continue
		}
		if _, ok := present[normalizeStmt(stmt)]; ok {
			result.Skipped = append(result.Skipped, SkippedFix{Name: is.Subject, Reason: "import already present"})
			continue
		}
		if queued[stmt] {
			continue
		}
		queued[stmt] = true
		stmts = append(stmts, stmt)
		result.Applied = append(result.Applied, AppliedFix{Name: is.Subject, Statement: stmt, Code: is.Code})
	}
	if len(stmts) == 0 {
		return result, ErrNoFixes
	}

	code, edit, err := insertImports(file, mod, stmts)
	if err != nil {
		result.Applied = nil
		return result, err
	}
	result.Code = code
	result.Edit = edit
	return result, nil
}

// InjectImport inserts a single import statement into src.
// ErrNoFixes means the statement is already executed at module level;
// the same import inside a function body does not count.
func InjectImport(src, stmt string) (string, error) {
	file := source.FromString(src)
	mod := parseModule(file)
	if _, ok := moduleImports(mod)[normalizeStmt(stmt)]; ok {
		return src, ErrNoFixes
	}
	code, _, err := insertImports(file, mod, []string{stmt})
	if err != nil {
		return src, err
	}
	return code, nil
}

// parseModule returns nil when the script does not parse.
func parseModule(file *source.File) *ast.Module {
	res := parser.ParseFile(file, parser.Options{})
	if !res.OK {
		return nil
	}
	return res.Module
}

func insertImports(file *source.File, mod *ast.Module, stmts []string) (string, TextEdit, error) {
	if mod == nil {
		return "", TextEdit{}, fmt.Errorf("fix: %w: original script", ErrReparse)
	}
	at := InsertionPoint(file, mod)
	edit := InsertText(at, importBlock(file.Content, at, stmts))
	out, err := applyEdits(file.Content, []TextEdit{edit})
	if err != nil {
		return "", edit, err
	}
	code := string(out)
	if !parser.ParseString(code, parser.Options{}).OK {
		return "", edit, ErrReparse
	}
	return code, edit, nil
}
