package lexer

import (
	"scriptgate/internal/diag"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

// Lexer turns Python source into a token stream with explicit layout tokens.
// It stops at the first lexical error: the erroneous token is Invalid and every
// following call returns Invalid too.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	look    *token.Token  // 1 элементный буфер для токена
	pending []token.Token // отложенные DEDENT

	indents    []int         // колонки отступов, tab = до кратного 8
	altIndents []int         // те же отступы, tab = 1 (для TabError)
	brackets   []token.Token // открытые скобки
	lineStart  bool          // курсор стоит в начале логической строки
	failed     bool
}

func New(file *source.File, opts Options) *Lexer {
	return newLexer(file, NewCursor(file), opts)
}

// NewRange lexes only [start, end) of the file, keeping original offsets.
func NewRange(file *source.File, start, end uint32, opts Options) *Lexer {
	return newLexer(file, NewRangeCursor(file, start, end), opts)
}

func newLexer(file *source.File, cur Cursor, opts Options) *Lexer {
	return &Lexer{
		file:       file,
		cursor:     cur,
		opts:       opts,
		indents:    []int{0},
		altIndents: []int{0},
		lineStart:  !opts.Fragment,
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF,
// после ошибки всегда возвращает Invalid.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if len(lx.pending) > 0 {
		tok := lx.pending[0]
		lx.pending = lx.pending[1:]
		return tok
	}
	if lx.failed {
		return token.Token{Kind: token.Invalid, Span: lx.emptySpan()}
	}
	return lx.scan()
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Failed reports whether a lexical error was hit.
func (lx *Lexer) Failed() bool {
	return lx.failed
}

// EmptySpan returns a zero-length span at the cursor.
func (lx *Lexer) EmptySpan() source.Span {
	return lx.emptySpan()
}

// Tokenize collects every token up to and including EOF (or the first Invalid).
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/3+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF || tok.Kind == token.Invalid {
			return out
		}
	}
}

func (lx *Lexer) scan() token.Token {
	for {
		if lx.lineStart && len(lx.brackets) == 0 {
			if tok, ok := lx.scanIndentation(); ok {
				return tok
			}
			if lx.failed {
				return token.Token{Kind: token.Invalid, Span: lx.emptySpan()}
			}
		}

		lx.skipSpaces()
		if lx.cursor.EOF() {
			return lx.scanEOF()
		}

		ch := lx.cursor.Peek()
		switch {
		case ch == '#':
			lx.cursor.SkipLine()
			continue

		case ch == '\\':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.Eat('\n') {
				continue
			}
			if lx.cursor.EOF() {
				return lx.fail(diag.LexBadContinuation, lx.cursor.SpanFrom(start), "unexpected EOF while parsing")
			}
			return lx.fail(diag.LexBadContinuation, lx.cursor.SpanFrom(start), "unexpected character after line continuation character")

		case ch == '\n':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.opts.Fragment || len(lx.brackets) > 0 {
				continue
			}
			lx.lineStart = true
			return token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(start), Text: "\n"}
		}

		return lx.scanToken()
	}
}

func (lx *Lexer) scanToken() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrString()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString(lx.cursor.Mark(), "")
	default:
		return lx.scanOperatorOrPunct()
	}
}

func (lx *Lexer) skipSpaces() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\f', '\r':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) fail(code diag.Code, sp source.Span, msg string) token.Token {
	lx.report(code, sp, msg)
	lx.failed = true
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) text(sp source.Span) string {
	if sp.End > lx.cursor.Limit || sp.Start > sp.End {
		return ""
	}
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}
}
