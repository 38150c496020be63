package lexer

import (
	"fmt"

	"scriptgate/internal/diag"
	"scriptgate/internal/token"
)

const tabSize = 8

// scanIndentation измеряет отступ новой логической строки.
// Пустые строки и строки из одного комментария пропускаются целиком.
// Возвращает INDENT/DEDENT, если отступ изменился.
func (lx *Lexer) scanIndentation() (token.Token, bool) {
	for {
		start := lx.cursor.Mark()
		col, alt := 0, 0
	measure:
		for !lx.cursor.EOF() {
			switch lx.cursor.Peek() {
			case ' ':
				col++
				alt++
			case '\t':
				col = (col/tabSize + 1) * tabSize
				alt++
			case '\f':
				col, alt = 0, 0
			case '\r':
			default:
				break measure
			}
			lx.cursor.Bump()
		}
		if lx.cursor.EOF() {
			return token.Token{}, false
		}
		switch lx.cursor.Peek() {
		case '#', '\n':
			lx.cursor.SkipLine()
			lx.cursor.Eat('\n')
			continue
		}

		lx.lineStart = false
		cur, curAlt := lx.indents[len(lx.indents)-1], lx.altIndents[len(lx.altIndents)-1]
		sp := lx.cursor.SpanFrom(start)
		switch {
		case col == cur:
			if alt != curAlt {
				return lx.fail(diag.LexTabError, sp, "inconsistent use of tabs and spaces in indentation"), true
			}
			return token.Token{}, false

		case col > cur:
			if alt <= curAlt {
				return lx.fail(diag.LexTabError, sp, "inconsistent use of tabs and spaces in indentation"), true
			}
			lx.indents = append(lx.indents, col)
			lx.altIndents = append(lx.altIndents, alt)
			return token.Token{Kind: token.Indent, Span: sp, Text: lx.text(sp)}, true

		default:
			count := 0
			for len(lx.indents) > 1 && col < lx.indents[len(lx.indents)-1] {
				lx.indents = lx.indents[:len(lx.indents)-1]
				lx.altIndents = lx.altIndents[:len(lx.altIndents)-1]
				count++
			}
			if col != lx.indents[len(lx.indents)-1] {
				return lx.fail(diag.LexBadDedent, sp, "unindent does not match any outer indentation level"), true
			}
			if alt != lx.altIndents[len(lx.altIndents)-1] {
				return lx.fail(diag.LexTabError, sp, "inconsistent use of tabs and spaces in indentation"), true
			}
			end := sp
			end.Start = end.End
			for i := 1; i < count; i++ {
				lx.pending = append(lx.pending, token.Token{Kind: token.Dedent, Span: end})
			}
			return token.Token{Kind: token.Dedent, Span: end}, true
		}
	}
}

// scanEOF выдаёт хвост потока: NEWLINE для незавершённой строки,
// DEDENT для каждого открытого блока, затем EOF.
func (lx *Lexer) scanEOF() token.Token {
	sp := lx.emptySpan()
	if n := len(lx.brackets); n > 0 {
		open := lx.brackets[n-1]
		return lx.fail(diag.LexUnclosedBracket, open.Span, fmt.Sprintf("'%s' was never closed", open.Text))
	}
	if lx.opts.Fragment {
		return token.Token{Kind: token.EOF, Span: sp}
	}
	if !lx.lineStart {
		lx.lineStart = true
		return token.Token{Kind: token.Newline, Span: sp}
	}
	if len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.altIndents = lx.altIndents[:len(lx.altIndents)-1]
		return token.Token{Kind: token.Dedent, Span: sp}
	}
	return token.Token{Kind: token.EOF, Span: sp}
}
