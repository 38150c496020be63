package parser

import (
	"strings"

	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

// fstringScanner walks the body of one f-string token and hands every
// replacement field to a fragment parser.
type fstringScanner struct {
	p      *Parser
	src    []byte
	end    uint32 // позиция закрывающей кавычки
	raw    bool
	fields []ast.Expr
}

// parseFString возвращает выражения всех полей f-строки tok (вложенные
// поля спецификатора формата тоже).
func (p *Parser) parseFString(tok token.Token) []ast.Expr {
	prefix := stringPrefix(tok.Text)
	bodyStart := tok.Span.Start + uint32(len(prefix))
	quote := p.file.Content[bodyStart]
	qlen := uint32(1)
	if tok.Span.Len() >= uint32(len(prefix))+6 &&
		p.file.Content[bodyStart+1] == quote && p.file.Content[bodyStart+2] == quote {
		qlen = 3
	}
	fs := &fstringScanner{
		p:   p,
		src: p.file.Content,
		end: tok.Span.End - qlen,
		raw: strings.Contains(prefix, "r"),
	}
	fs.scanLiteral(bodyStart+qlen, false)
	return fs.fields
}

// scanLiteral проходит литеральную часть от i. В спецификаторе формата
// (inSpec) останавливается на '}' и возвращает её позицию.
func (fs *fstringScanner) scanLiteral(i uint32, inSpec bool) uint32 {
	for i < fs.end {
		switch fs.src[i] {
		case '\\':
			i++
			if i < fs.end && fs.src[i] == 'N' && !fs.raw && i+1 < fs.end && fs.src[i+1] == '{' {
				for i < fs.end && fs.src[i] != '}' {
					i++
				}
				i++
				continue
			}
			// '\' не экранирует фигурные скобки: "\{{" и "\}}" остаются удвоенными
			if i < fs.end && fs.src[i] != '{' && fs.src[i] != '}' {
				i++
			}
		case '{':
			if !inSpec && i+1 < fs.end && fs.src[i+1] == '{' {
				i += 2
				continue
			}
			i = fs.scanField(i)
		case '}':
			if inSpec {
				return i
			}
			if i+1 < fs.end && fs.src[i+1] == '}' {
				i += 2
				continue
			}
			fs.p.fail(diag.SynBadFString, source.Span{Start: i, End: i + 1}, "f-string: single '}' is not allowed")
		default:
			i++
		}
	}
	return i
}

// scanField разбирает поле, начинающееся с '{' на позиции open, и
// возвращает позицию сразу после закрывающей '}'.
func (fs *fstringScanner) scanField(open uint32) uint32 {
	exprStart := open + 1
	exprEnd, stop := fs.exprEnd(exprStart)
	if strings.TrimSpace(string(fs.src[exprStart:exprEnd])) == "" {
		fs.p.failf(diag.SynBadFString, source.Span{Start: open, End: exprEnd + 1},
			"f-string: valid expression required before '%c'", stopChar(fs.src, exprEnd, fs.end))
	}
	fs.fields = append(fs.fields, fs.parseExpr(exprStart, exprEnd))

	i := exprEnd
	if stop == '=' {
		i++
		for i < fs.end && isSpace(fs.src[i]) {
			i++
		}
	}
	if i < fs.end && fs.src[i] == '!' {
		i++
		if i >= fs.end || !strings.ContainsRune("sra", rune(fs.src[i])) {
			fs.p.fail(diag.SynBadFString, source.Span{Start: i - 1, End: i + 1},
				"f-string: invalid conversion character: expected 's', 'r', or 'a'")
		}
		i++
	}
	if i < fs.end && fs.src[i] == ':' {
		i = fs.scanLiteral(i+1, true)
	}
	if i >= fs.end || fs.src[i] != '}' {
		fs.p.fail(diag.SynBadFString, source.Span{Start: open, End: i}, "f-string: expecting '}'")
	}
	return i + 1
}

// exprEnd находит конец выражения поля: '!' (не '!='), ':', '=' (debug,
// не '==' и не часть '<=', '>=', '!='), или '}' на нулевой глубине.
func (fs *fstringScanner) exprEnd(i uint32) (uint32, byte) {
	depth := 0
	for i < fs.end {
		ch := fs.src[i]
		switch {
		case ch == '\'' || ch == '"':
			i = fs.skipString(i)
			continue
		case ch == '(' || ch == '[' || ch == '{':
			depth++
		case ch == ')' || ch == ']':
			depth--
		case ch == '}':
			if depth == 0 {
				return i, ch
			}
			depth--
		case depth > 0:
		case ch == '!' && i+1 < fs.end && fs.src[i+1] != '=':
			return i, ch
		case ch == ':':
			return i, ch
		case ch == '=':
			next := byte(0)
			if i+1 < fs.end {
				next = fs.src[i+1]
			}
			prev := fs.src[i-1]
			if next == '=' {
				i += 2
				continue
			}
			if !strings.ContainsRune("=!<>", rune(prev)) {
				return i, ch
			}
		}
		i++
	}
	return i, 0
}

// skipString пропускает вложенный строковый литерал в выражении поля.
func (fs *fstringScanner) skipString(i uint32) uint32 {
	quote := fs.src[i]
	triple := i+2 < fs.end && fs.src[i+1] == quote && fs.src[i+2] == quote
	if triple {
		i += 3
	} else {
		i++
	}
	for i < fs.end {
		switch fs.src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			if !triple {
				return i + 1
			}
			if i+2 < fs.end && fs.src[i+1] == quote && fs.src[i+2] == quote {
				return i + 3
			}
		}
		i++
	}
	return i
}

// parseExpr разбирает выражение поля отдельным парсером над [start, end).
func (fs *fstringScanner) parseExpr(start, end uint32) ast.Expr {
	fp := fs.p.fragment(start, end)
	var e ast.Expr
	if fp.at(token.KwYield) {
		e = fp.parseYield()
	} else {
		e = fp.parseStarNamedExprs()
	}
	if !fp.at(token.EOF) {
		fp.fail(diag.SynBadFString, fp.peek().Span, "f-string: expecting '=', or '!', or ':', or '}'")
	}
	return e
}

func stopChar(src []byte, i, end uint32) byte {
	if i < end {
		return src[i]
	}
	return '}'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
