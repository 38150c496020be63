package lexer

import (
	"scriptgate/internal/diag"
	"scriptgate/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки молча превращаются в Invalid
	// Fragment lexes an expression embedded in an f-string: no layout tokens,
	// newlines are plain whitespace, EOF ends the fragment.
	Fragment bool
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
