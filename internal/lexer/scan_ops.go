package lexer

import (
	"fmt"

	"scriptgate/internal/diag"
	"scriptgate/internal/token"
)

// scanOperatorOrPunct — жадно: сначала 3-символьные, затем 2-, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '.'):
		return lx.emit(token.Ellipsis, start)
	case lx.try3('*', '*', '='):
		return lx.emit(token.DoubleStarAssign, start)
	case lx.try3('/', '/', '='):
		return lx.emit(token.DoubleSlashAssign, start)
	case lx.try3('<', '<', '='):
		return lx.emit(token.ShlAssign, start)
	case lx.try3('>', '>', '='):
		return lx.emit(token.ShrAssign, start)
	}

	switch {
	case lx.try2('*', '*'):
		return lx.emit(token.DoubleStar, start)
	case lx.try2('/', '/'):
		return lx.emit(token.DoubleSlash, start)
	case lx.try2('<', '<'):
		return lx.emit(token.Shl, start)
	case lx.try2('>', '>'):
		return lx.emit(token.Shr, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('!', '='):
		return lx.emit(token.NotEq, start)
	case lx.try2('<', '>'):
		return lx.fail(diag.LexUnknownChar, lx.cursor.SpanFrom(start), "invalid syntax")
	case lx.try2('-', '>'):
		return lx.emit(token.Arrow, start)
	case lx.try2(':', '='):
		return lx.emit(token.Walrus, start)
	case lx.try2('+', '='):
		return lx.emit(token.PlusAssign, start)
	case lx.try2('-', '='):
		return lx.emit(token.MinusAssign, start)
	case lx.try2('*', '='):
		return lx.emit(token.StarAssign, start)
	case lx.try2('/', '='):
		return lx.emit(token.SlashAssign, start)
	case lx.try2('%', '='):
		return lx.emit(token.PercentAssign, start)
	case lx.try2('@', '='):
		return lx.emit(token.AtAssign, start)
	case lx.try2('&', '='):
		return lx.emit(token.AmpAssign, start)
	case lx.try2('|', '='):
		return lx.emit(token.PipeAssign, start)
	case lx.try2('^', '='):
		return lx.emit(token.CaretAssign, start)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '(', '[', '{':
		tok := lx.emit(openKind(ch), start)
		lx.brackets = append(lx.brackets, tok)
		return tok
	case ')', ']', '}':
		return lx.closeBracket(ch, start)
	case ',':
		return lx.emit(token.Comma, start)
	case ':':
		return lx.emit(token.Colon, start)
	case ';':
		return lx.emit(token.Semi, start)
	case '.':
		return lx.emit(token.Dot, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '+':
		return lx.emit(token.Plus, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '/':
		return lx.emit(token.Slash, start)
	case '%':
		return lx.emit(token.Percent, start)
	case '@':
		return lx.emit(token.At, start)
	case '&':
		return lx.emit(token.Amp, start)
	case '|':
		return lx.emit(token.Pipe, start)
	case '^':
		return lx.emit(token.Caret, start)
	case '~':
		return lx.emit(token.Tilde, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case '!':
		if lx.opts.Fragment {
			return lx.emit(token.Bang, start)
		}
	}

	lx.cursor.Reset(start)
	r, _ := lx.peekRune()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	if r < utf8RuneSelf {
		return lx.fail(diag.LexUnknownChar, sp, "invalid syntax")
	}
	return lx.fail(diag.LexUnknownChar, sp, fmt.Sprintf("invalid character '%c' (U+%04X)", r, r))
}

func openKind(ch byte) token.Kind {
	switch ch {
	case '(':
		return token.LParen
	case '[':
		return token.LBracket
	default:
		return token.LBrace
	}
}

func (lx *Lexer) closeBracket(ch byte, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	n := len(lx.brackets)
	if n == 0 {
		return lx.fail(diag.LexUnmatchedBracket, sp, fmt.Sprintf("unmatched '%c'", ch))
	}
	open := lx.brackets[n-1]
	kind := map[byte]token.Kind{')': token.RParen, ']': token.RBracket, '}': token.RBrace}[ch]
	if open.Kind.Closer() != kind {
		return lx.fail(diag.LexUnmatchedBracket, sp, fmt.Sprintf(
			"closing parenthesis '%c' does not match opening parenthesis '%s'", ch, open.Text))
	}
	lx.brackets = lx.brackets[:n-1]
	return token.Token{Kind: kind, Span: sp, Text: string(ch)}
}
