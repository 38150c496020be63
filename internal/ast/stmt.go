package ast

import "scriptgate/internal/source"

type (
	FunctionDef struct {
		Loc
		Name       string
		NameSpan   source.Span
		TypeParams []*TypeParam
		Args       *Arguments
		Returns    Expr
		Body       []Stmt
		Decorators []Expr
		IsAsync    bool
	}

	ClassDef struct {
		Loc
		Name       string
		NameSpan   source.Span
		TypeParams []*TypeParam
		Bases      []Expr
		Keywords   []*Keyword
		Body       []Stmt
		Decorators []Expr
	}

	Return struct {
		Loc
		Value Expr
	}

	Delete struct {
		Loc
		Targets []Expr
	}

	// Assign is "a = b = value"; every target has Store context.
	Assign struct {
		Loc
		Targets []Expr
		Value   Expr
	}

	AugAssign struct {
		Loc
		Target Expr
		Op     string
		Value  Expr
	}

	AnnAssign struct {
		Loc
		Target     Expr
		Annotation Expr
		Value      Expr // nil for a bare annotation
		Simple     bool // target is a plain name, not parenthesized
	}

	For struct {
		Loc
		Target  Expr
		Iter    Expr
		Body    []Stmt
		OrElse  []Stmt
		IsAsync bool
	}

	While struct {
		Loc
		Test   Expr
		Body   []Stmt
		OrElse []Stmt
	}

	If struct {
		Loc
		Test   Expr
		Body   []Stmt
		OrElse []Stmt
	}

	With struct {
		Loc
		Items   []*WithItem
		Body    []Stmt
		IsAsync bool
	}

	WithItem struct {
		Loc
		Context Expr
		Vars    Expr // nil without "as"
	}

	Match struct {
		Loc
		Subject Expr
		Cases   []*MatchCase
	}

	MatchCase struct {
		Loc
		Pattern Pattern
		Guard   Expr
		Body    []Stmt
	}

	Raise struct {
		Loc
		Exc   Expr
		Cause Expr
	}

	Try struct {
		Loc
		Body     []Stmt
		Handlers []*ExceptHandler
		OrElse   []Stmt
		Finally  []Stmt
		Star     bool // except*
	}

	ExceptHandler struct {
		Loc
		Type     Expr // nil for a bare except
		Name     string
		NameSpan source.Span
		Body     []Stmt
	}

	Assert struct {
		Loc
		Test, Msg Expr
	}

	Import struct {
		Loc
		Names []*Alias
	}

	ImportFrom struct {
		Loc
		Module string // пусто для "from . import x"
		Names  []*Alias
		Level  int
	}

	// Alias is one imported name; Name is "*" for a wildcard.
	Alias struct {
		Loc
		Name   string
		AsName string
	}

	Global struct {
		Loc
		Names []string
	}

	Nonlocal struct {
		Loc
		Names []string
	}

	ExprStmt struct {
		Loc
		Value Expr
	}

	// TypeAlias is "type Name[T] = value".
	TypeAlias struct {
		Loc
		Name       *Name
		TypeParams []*TypeParam
		Value      Expr
	}

	// TypeParam is one PEP 695 parameter; Prefix is "", "*" or "**".
	TypeParam struct {
		Loc
		Name    string
		Prefix  string
		Bound   Expr
		Default Expr
	}

	Pass     struct{ Loc }
	Break    struct{ Loc }
	Continue struct{ Loc }
)

func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Delete) stmtNode()      {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*AnnAssign) stmtNode()   {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*If) stmtNode()          {}
func (*With) stmtNode()        {}
func (*Match) stmtNode()       {}
func (*Raise) stmtNode()       {}
func (*Try) stmtNode()         {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*ExprStmt) stmtNode()    {}
func (*TypeAlias) stmtNode()   {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}

// BoundName returns the name an alias binds: "as" name, or the first dotted
// segment for "import a.b.c".
func (a *Alias) BoundName() string {
	if a.AsName != "" {
		return a.AsName
	}
	for i := 0; i < len(a.Name); i++ {
		if a.Name[i] == '.' {
			return a.Name[:i]
		}
	}
	return a.Name
}
