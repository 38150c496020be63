package lexer

import (
	"scriptgate/internal/diag"
	"scriptgate/internal/token"
)

// keywords that may directly follow a number literal ("1if x else 2").
var numberFollowers = map[string]bool{
	"and": true, "or": true, "in": true, "is": true, "not": true,
	"if": true, "else": true, "for": true,
}

// scanNumber сканирует int/float/imaginary литерал Python.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		var digit func(byte) bool
		var kind string
		switch b1 {
		case 'x', 'X':
			digit, kind = isHex, "hexadecimal"
		case 'o', 'O':
			digit, kind = isOct, "octal"
		case 'b', 'B':
			digit, kind = isBin, "binary"
		}
		if digit != nil {
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.cursor.Eat('_')
			if !lx.scanDigits(digit) {
				return lx.badNumber(start, "invalid "+kind+" literal")
			}
			return lx.finishNumber(start, "invalid "+kind+" literal")
		}
	}

	intStart := lx.cursor.Off
	hasInt := false
	if isDec(lx.cursor.Peek()) {
		if !lx.scanDigits(isDec) {
			return lx.badNumber(start, "invalid decimal literal")
		}
		hasInt = true
	}
	intEnd := lx.cursor.Off
	isFloat := false

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		isFloat = true
		if isDec(lx.cursor.Peek()) && !lx.scanDigits(isDec) {
			return lx.badNumber(start, "invalid decimal literal")
		}
	}
	if c := lx.cursor.Peek(); c == 'e' || c == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if c2 := lx.cursor.Peek(); c2 == '+' || c2 == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			// "1else" и подобное: e относится к следующему слову
			lx.cursor.Reset(mark)
			return lx.finishNumber(start, "invalid decimal literal")
		}
		if !lx.scanDigits(isDec) {
			return lx.badNumber(start, "invalid decimal literal")
		}
		isFloat = true
	}
	if c := lx.cursor.Peek(); c == 'j' || c == 'J' {
		lx.cursor.Bump()
		isFloat = true
	}

	if hasInt && !isFloat && intEnd-intStart > 1 && lx.file.Content[intStart] == '0' {
		for _, b := range lx.file.Content[intStart:intEnd] {
			if b != '0' && b != '_' {
				return lx.badNumber(start, "leading zeros in decimal integer literals are not permitted; use an 0o prefix for octal integers")
			}
		}
	}
	return lx.finishNumber(start, "invalid decimal literal")
}

// scanDigits съедает цифры с одиночными '_' между ними.
// false — двойное или висячее подчёркивание.
func (lx *Lexer) scanDigits(digit func(byte) bool) bool {
	if !digit(lx.cursor.Peek()) {
		return false
	}
	for {
		c := lx.cursor.Peek()
		switch {
		case digit(c):
			lx.cursor.Bump()
		case c == '_':
			lx.cursor.Bump()
			if !digit(lx.cursor.Peek()) {
				return false
			}
		default:
			return true
		}
	}
}

// finishNumber проверяет, что за литералом не идёт идентификатор ("1abc").
func (lx *Lexer) finishNumber(start Mark, msg string) token.Token {
	b := lx.cursor.Peek()
	if lx.cursor.EOF() || !(isIdentContinueByte(b) || b >= utf8RuneSelf) {
		return lx.emit(token.Number, start)
	}
	end := lx.cursor.Mark()
	if _, ok := lx.consumeIdent(); ok && numberFollowers[lx.text(lx.cursor.SpanFrom(end))] {
		lx.cursor.Reset(end)
		return lx.emit(token.Number, start)
	}
	return lx.badNumber(start, msg)
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.fail(diag.LexBadNumber, lx.cursor.SpanFrom(start), msg)
}
