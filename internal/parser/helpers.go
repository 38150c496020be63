package parser

import (
	"fmt"
	"slices"

	"scriptgate/internal/diag"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

// peekAt возвращает токен на k позиций вперёд (0 — текущий).
func (p *Parser) peekAt(k int) token.Token {
	for len(p.buf) <= k {
		if n := len(p.buf); n > 0 {
			last := p.buf[n-1].Kind
			if last == token.EOF || last == token.Invalid {
				return p.buf[n-1]
			}
		}
		p.buf = append(p.buf, p.lx.Next())
	}
	return p.buf[k]
}

// peek — текущий токен. Invalid означает, что лексер уже сообщил ошибку.
func (p *Parser) peek() token.Token {
	tok := p.peekAt(0)
	if tok.Kind == token.Invalid {
		panic(bailout{})
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atSoft проверяет soft keyword (match, case, type, _).
func (p *Parser) atSoft(word string) bool {
	return p.peek().IsSoft(word)
}

// advance — съедает текущий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.buf = p.buf[1:]
		if !tok.IsLayout() || tok.Kind == token.Newline {
			p.lastSpan = tok.Span
		}
	}
	return tok
}

// eat съедает токен, если он нужного вида.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect — ожидаем конкретный токен, иначе ошибка с сообщением msg.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.fail(code, p.getDiagnosticSpan(), msg)
	return token.Token{}
}

// getDiagnosticSpan — лучший span для диагностики: для EOF/NEWLINE в конце
// берём позицию сразу после последнего съеденного токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	tok := p.peekAt(0)
	if (tok.Kind == token.EOF || tok.Kind == token.Dedent || (tok.Kind == token.Newline && tok.Text == "")) && p.lastSpan.End > 0 {
		return source.Span{Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

// fail сообщает ошибку и разматывает разбор.
func (p *Parser) fail(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
	}
	panic(bailout{})
}

func (p *Parser) failf(code diag.Code, sp source.Span, format string, args ...any) {
	p.fail(code, sp, fmt.Sprintf(format, args...))
}

// unexpected сообщает "invalid syntax" на текущем токене.
func (p *Parser) unexpected() {
	tok := p.peek()
	switch tok.Kind {
	case token.Indent:
		p.fail(diag.SynUnexpectedIndent, tok.Span, "unexpected indent")
	case token.EOF:
		p.fail(diag.SynUnexpectedToken, p.getDiagnosticSpan(), "invalid syntax: unexpected end of input")
	}
	p.fail(diag.SynUnexpectedToken, tok.Span, "invalid syntax")
}

// lineOf возвращает номер строки начала span (для сообщений "on line N").
func (p *Parser) lineOf(sp source.Span) uint32 {
	return p.file.Position(sp.Start).Line
}

func (p *Parser) enter() {
	p.nesting++
	if p.nesting > maxNesting {
		p.fail(diag.SynUnexpectedToken, p.peek().Span, "too many nested parentheses")
	}
}

func (p *Parser) leave() {
	p.nesting--
}

// spanFrom покрывает от start до последнего съеденного токена.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
