package ast

import "scriptgate/internal/source"

// Node is implemented by every tree element.
type Node interface {
	Pos() source.Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is a match-statement pattern.
type Pattern interface {
	Node
	patternNode()
}

// Ctx says how an expression is used.
type Ctx uint8

const (
	Load Ctx = iota
	Store
	Del
)

func (c Ctx) String() string {
	switch c {
	case Store:
		return "store"
	case Del:
		return "del"
	default:
		return "load"
	}
}

// Loc is embedded in every node.
type Loc struct {
	Span source.Span
}

func (l Loc) Pos() source.Span { return l.Span }

// Module is the root of a parsed script.
type Module struct {
	Loc
	Body []Stmt
	// Docstring reports whether the first statement is a string expression.
	Docstring bool
}
