package ast

type (
	// Name is an identifier occurrence.
	Name struct {
		Loc
		ID  string
		Ctx Ctx
	}

	// ConstKind classifies literal constants.
	ConstKind uint8

	Constant struct {
		Loc
		Kind  ConstKind
		Value string // исходный текст литерала
	}

	// JoinedStr is an f-string; Values holds the parsed replacement fields only.
	JoinedStr struct {
		Loc
		Values []Expr
	}

	Attribute struct {
		Loc
		Value Expr
		Attr  string
		Ctx   Ctx
	}

	Subscript struct {
		Loc
		Value Expr
		Index Expr
		Ctx   Ctx
	}

	Slice struct {
		Loc
		Lower, Upper, Step Expr
	}

	Starred struct {
		Loc
		Value Expr
		Ctx   Ctx
	}

	Call struct {
		Loc
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
	}

	// Keyword is "name=value" in a call; Arg is empty for "**value".
	Keyword struct {
		Loc
		Arg   string
		Value Expr
	}

	BinOp struct {
		Loc
		Left  Expr
		Op    string
		Right Expr
	}

	UnaryOp struct {
		Loc
		Op      string
		Operand Expr
	}

	BoolOp struct {
		Loc
		Op     string
		Values []Expr
	}

	Compare struct {
		Loc
		Left        Expr
		Ops         []string
		Comparators []Expr
	}

	IfExp struct {
		Loc
		Test, Body, OrElse Expr
	}

	Lambda struct {
		Loc
		Args *Arguments
		Body Expr
	}

	// NamedExpr is the walrus operator "target := value".
	NamedExpr struct {
		Loc
		Target *Name
		Value  Expr
	}

	Tuple struct {
		Loc
		Elts []Expr
		Ctx  Ctx
	}

	List struct {
		Loc
		Elts []Expr
		Ctx  Ctx
	}

	Set struct {
		Loc
		Elts []Expr
	}

	// Dict keeps Keys and Values parallel; a nil key marks "**mapping".
	Dict struct {
		Loc
		Keys   []Expr
		Values []Expr
	}

	ListComp struct {
		Loc
		Elt        Expr
		Generators []*Comprehension
	}

	SetComp struct {
		Loc
		Elt        Expr
		Generators []*Comprehension
	}

	GeneratorExp struct {
		Loc
		Elt        Expr
		Generators []*Comprehension
	}

	DictComp struct {
		Loc
		Key, Value Expr
		Generators []*Comprehension
	}

	// Comprehension is one "for target in iter if cond" clause.
	Comprehension struct {
		Loc
		Target  Expr
		Iter    Expr
		Ifs     []Expr
		IsAsync bool
	}

	Await struct {
		Loc
		Value Expr
	}

	Yield struct {
		Loc
		Value Expr // может быть nil
	}

	YieldFrom struct {
		Loc
		Value Expr
	}
)

const (
	ConstNumber ConstKind = iota
	ConstString
	ConstBytes
	ConstTrue
	ConstFalse
	ConstNone
	ConstEllipsis
)

func (*Name) exprNode()         {}
func (*Constant) exprNode()     {}
func (*JoinedStr) exprNode()    {}
func (*Attribute) exprNode()    {}
func (*Subscript) exprNode()    {}
func (*Slice) exprNode()        {}
func (*Starred) exprNode()      {}
func (*Call) exprNode()         {}
func (*BinOp) exprNode()        {}
func (*UnaryOp) exprNode()      {}
func (*BoolOp) exprNode()       {}
func (*Compare) exprNode()      {}
func (*IfExp) exprNode()        {}
func (*Lambda) exprNode()       {}
func (*NamedExpr) exprNode()    {}
func (*Tuple) exprNode()        {}
func (*List) exprNode()         {}
func (*Set) exprNode()          {}
func (*Dict) exprNode()         {}
func (*ListComp) exprNode()     {}
func (*SetComp) exprNode()      {}
func (*GeneratorExp) exprNode() {}
func (*DictComp) exprNode()     {}
func (*Await) exprNode()        {}
func (*Yield) exprNode()        {}
func (*YieldFrom) exprNode()    {}

// Arguments is a parameter list of a def or lambda.
type Arguments struct {
	PosOnly    []*Arg
	Args       []*Arg
	Vararg     *Arg
	KwOnly     []*Arg
	KwDefaults []Expr // parallel to KwOnly, nil entries for required ones
	Kwarg      *Arg
	Defaults   []Expr // defaults of the trailing positional parameters
}

// Arg is a single parameter.
type Arg struct {
	Loc
	Name       string
	Annotation Expr
}

// All returns every parameter in declaration order.
func (a *Arguments) All() []*Arg {
	if a == nil {
		return nil
	}
	out := make([]*Arg, 0, len(a.PosOnly)+len(a.Args)+len(a.KwOnly)+2)
	out = append(out, a.PosOnly...)
	out = append(out, a.Args...)
	if a.Vararg != nil {
		out = append(out, a.Vararg)
	}
	out = append(out, a.KwOnly...)
	if a.Kwarg != nil {
		out = append(out, a.Kwarg)
	}
	return out
}
