package lexer

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"scriptgate/internal/diag"
	"scriptgate/internal/token"
)

// stringPrefixes lists every valid literal prefix (lowercased).
var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true,
	"br": true, "rb": true, "fr": true, "rf": true,
}

// scanIdentOrString сканирует идентификатор; если за ним сразу кавычка и он
// является префиксом строки (r, b, f, rb, ...) — сканирует строку целиком.
func (lx *Lexer) scanIdentOrString() token.Token {
	start := lx.cursor.Mark()
	ascii, ok := lx.consumeIdent()
	if !ok {
		r, _ := lx.peekRune()
		lx.bumpRune()
		return lx.fail(diag.LexUnknownChar, lx.cursor.SpanFrom(start), fmt.Sprintf("invalid character '%c' (U+%04X)", r, r))
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if q := lx.cursor.Peek(); (q == '"' || q == '\'') && ascii && stringPrefixes[strings.ToLower(text)] {
		return lx.scanString(start, text)
	}

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	if !ascii {
		// PEP 3131: идентификаторы сравниваются после NFKC
		text = norm.NFKC.String(text)
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// consumeIdent съедает [IdentStart IdentContinue*]. ascii=false, если встретились
// не-ASCII руны; ok=false, если первый символ не может начинать идентификатор.
func (lx *Lexer) consumeIdent() (ascii, ok bool) {
	ascii = true
	r, sz := lx.peekRune()
	if sz == 0 {
		return ascii, false
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return ascii, false
		}
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			return ascii, false
		}
		ascii = false
		lx.bumpRune()
	}
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if lx.cursor.EOF() || !isIdentContinueByte(b) {
				return ascii, true
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return ascii, true
		}
		ascii = false
		lx.bumpRune()
	}
}
