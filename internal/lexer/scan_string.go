package lexer

import (
	"fmt"
	"strings"

	"scriptgate/internal/diag"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

// scanString сканирует строковый литерал целиком, начиная с кавычки;
// prefix уже съеден (start указывает на его начало).
func (lx *Lexer) scanString(start Mark, prefix string) token.Token {
	isF := strings.ContainsAny(prefix, "fF")
	raw := strings.ContainsAny(prefix, "rR")
	if !lx.scanQuoted(start, isF, raw) {
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start)}
	}
	if isF {
		return lx.emit(token.FString, start)
	}
	return lx.emit(token.String, start)
}

// scanQuoted съедает тело строки от открывающей кавычки до закрывающей.
// Экранирование '\x' пропускает следующий байт и для raw-строк тоже;
// в f-строке '{' после '\' всё равно открывает поле, а "\N{...}" нет.
func (lx *Lexer) scanQuoted(start Mark, isF, raw bool) bool {
	quote := lx.cursor.Bump()
	triple := false
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == quote && b1 == quote {
		lx.cursor.Bump()
		lx.cursor.Bump()
		triple = true
	}

	for {
		if lx.cursor.EOF() {
			lx.unterminated(start, triple, isF)
			return false
		}
		ch := lx.cursor.Peek()
		switch {
		case ch == '\n' && !triple:
			lx.unterminated(start, triple, isF)
			return false

		case ch == '\\':
			lx.cursor.Bump()
			switch {
			case lx.cursor.EOF():
			case isF && lx.cursor.Peek() == '{':
			case isF && !raw && lx.try2('N', '{'):
				for !lx.cursor.EOF() && lx.cursor.Peek() != '}' && lx.cursor.Peek() != quote {
					lx.cursor.Bump()
				}
				lx.cursor.Eat('}')
			default:
				lx.bumpRune()
			}

		case isF && ch == '{':
			if lx.try2('{', '{') {
				continue
			}
			if !lx.scanField(quote, triple) {
				return false
			}

		case ch == quote:
			if !triple {
				lx.cursor.Bump()
				return true
			}
			if lx.try3(quote, quote, quote) {
				return true
			}
			lx.cursor.Bump()

		default:
			lx.bumpRune()
		}
	}
}

// scanField пропускает replacement field f-строки: "{expr!r:spec}".
// Внутри выражения допускаются вложенные скобки и строки (PEP 701);
// спецификатор формата может содержать вложенные поля.
func (lx *Lexer) scanField(quote byte, triple bool) bool {
	open := lx.cursor.Mark()
	lx.cursor.Bump() // {
	depth := 0
	inSpec := false
	for {
		if lx.cursor.EOF() {
			lx.fail(diag.LexUnterminatedFStr, lx.cursor.SpanFrom(open), "f-string: expecting '}'")
			return false
		}
		ch := lx.cursor.Peek()

		if inSpec {
			switch {
			case ch == '{':
				if !lx.scanField(quote, triple) {
					return false
				}
			case ch == '}':
				lx.cursor.Bump()
				return true
			case ch == quote && !triple, ch == '\n' && !triple:
				lx.fail(diag.LexUnterminatedFStr, lx.cursor.SpanFrom(open), "f-string: expecting '}'")
				return false
			case ch == '\\':
				lx.cursor.Bump()
				lx.cursor.Bump()
			default:
				lx.bumpRune()
			}
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			if ch == quote && !triple && depth == 0 {
				// закрывающая кавычка внешней строки до '}'
				lx.fail(diag.LexUnterminatedFStr, lx.cursor.SpanFrom(open), "f-string: expecting '}'")
				return false
			}
			nested := lx.cursor.Mark()
			if !lx.scanQuoted(nested, false, false) {
				return false
			}
		case isIdentStartByte(ch):
			word := lx.cursor.Mark()
			lx.consumeIdent()
			if q := lx.cursor.Peek(); (q == '"' || q == '\'') && stringPrefixes[strings.ToLower(lx.text(lx.cursor.SpanFrom(word)))] {
				pfx := lx.text(lx.cursor.SpanFrom(word))
				if !lx.scanQuoted(word, strings.ContainsAny(pfx, "fF"), strings.ContainsAny(pfx, "rR")) {
					return false
				}
			}
		case ch == '(' || ch == '[' || ch == '{':
			depth++
			lx.cursor.Bump()
		case ch == ')' || ch == ']':
			depth--
			lx.cursor.Bump()
		case ch == '}':
			lx.cursor.Bump()
			if depth == 0 {
				return true
			}
			depth--
		case ch == ':' && depth == 0:
			lx.cursor.Bump()
			inSpec = true
		case ch == '\n' && !triple && depth == 0:
			lx.fail(diag.LexUnterminatedFStr, lx.cursor.SpanFrom(open), "f-string: expecting '}'")
			return false
		default:
			lx.bumpRune()
		}
	}
}

func (lx *Lexer) unterminated(start Mark, triple, isF bool) {
	sp := source.Span{Start: uint32(start), End: uint32(start) + 1}
	line := lx.file.Position(lx.cursor.Off).Line
	switch {
	case triple:
		lx.fail(diag.LexUnterminatedTriple, sp, fmt.Sprintf("unterminated triple-quoted string literal (detected at line %d)", line))
	case isF:
		lx.fail(diag.LexUnterminatedFStr, sp, fmt.Sprintf("unterminated f-string literal (detected at line %d)", line))
	default:
		lx.fail(diag.LexUnterminatedString, sp, fmt.Sprintf("unterminated string literal (detected at line %d)", line))
	}
}
