package diag

import (
	"scriptgate/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Issue is one finding of a validation pass.
type Issue struct {
	Severity    Severity
	Code        Code
	Message     string
	Primary     source.Span
	Line        uint32 // 1-based, 0 when unknown
	Column      uint32
	Subject     string
	Hint        string
	AutoFixable bool
	Notes       []Note
}

// Category returns the pass category derived from the code.
func (i Issue) Category() Category {
	return i.Code.Category()
}

// IsBlocking reports whether the issue prevents execution as-is.
func (i Issue) IsBlocking() bool {
	return i.Severity >= SevError
}

func New(sev Severity, code Code, primary source.Span, msg string) Issue {
	return Issue{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Issue {
	return New(SevError, code, primary, msg)
}

func (i Issue) WithNote(sp source.Span, msg string) Issue {
	i.Notes = append(i.Notes, Note{Span: sp, Msg: msg})
	return i
}

func (i Issue) WithHint(hint string) Issue {
	i.Hint = hint
	return i
}
