package token

import (
	"scriptgate/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a number, string or constant keyword.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, FString, KwTrue, KwFalse, KwNone:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsSoft reports whether the token is the given soft keyword.
func (t Token) IsSoft(word string) bool {
	return t.Kind == Ident && t.Text == word
}

// IsLayout reports whether the token only carries block structure.
func (t Token) IsLayout() bool {
	switch t.Kind {
	case Newline, Indent, Dedent:
		return true
	default:
		return false
	}
}
