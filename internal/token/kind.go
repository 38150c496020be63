package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token. The lexer stops after producing one.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Newline ends a logical line.
	Newline
	// Indent opens a block.
	Indent
	// Dedent closes a block.
	Dedent

	// Ident represents an identifier token (including soft keywords).
	Ident
	// Number is any integer, float or imaginary literal.
	Number
	// String is a plain, raw, unicode or bytes string literal.
	String
	// FString is an f-string literal; the parser splits out its fields.
	FString

	KwFalse
	KwNone
	KwTrue
	KwAnd
	KwAs
	KwAssert
	KwAsync
	KwAwait
	KwBreak
	KwClass
	KwContinue
	KwDef
	KwDel
	KwElif
	KwElse
	KwExcept
	KwFinally
	KwFor
	KwFrom
	KwGlobal
	KwIf
	KwImport
	KwIn
	KwIs
	KwLambda
	KwNonlocal
	KwNot
	KwOr
	KwPass
	KwRaise
	KwReturn
	KwTry
	KwWhile
	KwWith
	KwYield

	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	LBrace   // {
	RBrace   // }
	Comma    // ,
	Colon    // :
	Semi     // ;
	Dot      // .
	Ellipsis // ...
	Arrow    // ->
	Walrus   // :=
	Assign   // =

	Plus       // +
	Minus      // -
	Star       // *
	DoubleStar // **
	Slash      // /
	DoubleSlash
	Percent // %
	At      // @
	Shl     // <<
	Shr     // >>
	Amp     // &
	Pipe    // |
	Caret   // ^
	Tilde   // ~

	Lt    // <
	Gt    // >
	LtEq  // <=
	GtEq  // >=
	EqEq  // ==
	NotEq // !=
	Bang  // ! (только внутри f-string)

	PlusAssign
	MinusAssign
	StarAssign
	DoubleStarAssign
	SlashAssign
	DoubleSlashAssign
	PercentAssign
	AtAssign
	ShlAssign
	ShrAssign
	AmpAssign
	PipeAssign
	CaretAssign
)

var kindNames = map[Kind]string{
	Invalid: "INVALID", EOF: "EOF", Newline: "NEWLINE", Indent: "INDENT", Dedent: "DEDENT",
	Ident: "NAME", Number: "NUMBER", String: "STRING", FString: "FSTRING",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Comma: ",", Colon: ":", Semi: ";", Dot: ".", Ellipsis: "...", Arrow: "->", Walrus: ":=",
	Assign: "=", Plus: "+", Minus: "-", Star: "*", DoubleStar: "**", Slash: "/",
	DoubleSlash: "//", Percent: "%", At: "@", Shl: "<<", Shr: ">>", Amp: "&", Pipe: "|",
	Caret: "^", Tilde: "~", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=", EqEq: "==",
	NotEq: "!=", Bang: "!",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", DoubleStarAssign: "**=",
	SlashAssign: "/=", DoubleSlashAssign: "//=", PercentAssign: "%=", AtAssign: "@=",
	ShlAssign: "<<=", ShrAssign: ">>=", AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if kw, ok := keywordNames[k]; ok {
		return kw
	}
	return "UNKNOWN"
}

// IsKeyword reports whether k is a hard keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwFalse && k <= KwYield
}

// IsAugAssign reports whether k is an augmented assignment operator.
func (k Kind) IsAugAssign() bool {
	return k >= PlusAssign && k <= CaretAssign
}

// IsOpen reports whether k opens a bracket pair.
func (k Kind) IsOpen() bool {
	return k == LParen || k == LBracket || k == LBrace
}

// Closer returns the matching closing bracket for an opening one.
func (k Kind) Closer() Kind {
	switch k {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	default:
		return Invalid
	}
}
