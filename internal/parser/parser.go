package parser

import (
	"scriptgate/internal/ast"
	"scriptgate/internal/diag"
	"scriptgate/internal/lexer"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

// maxNesting ограничивает глубину рекурсии выражений, как и CPython.
const maxNesting = 200

type Options struct {
	Trace    bool
	Reporter diag.Reporter
}

type Result struct {
	Module *ast.Module
	// OK is false when a syntax error was reported; Module is nil then.
	OK bool
}

// bailout is panicked to unwind after the first syntax error.
type bailout struct{}

// Parser — состояние парсера на один скрипт (или один фрагмент f-строки).
type Parser struct {
	file     *source.File
	lx       *lexer.Lexer
	opts     Options
	buf      []token.Token // окно просмотра вперёд
	lastSpan source.Span   // span последнего съеденного токена

	funcDepth    int // вложенность def (для return/yield)
	defDepth     int // все объемлющие def; тело class его не сбрасывает (nonlocal)
	loopDepth    int // вложенность циклов текущей функции
	nesting      int
	inAsync      bool
	blockDepth   int
	seenDoc      bool
	lastWasComma bool
	seenCode     bool // был ли уже оператор кроме docstring/__future__
}

// ParseFile разбирает скрипт целиком. Останавливается на первой ошибке:
// она сообщается через opts.Reporter, а Result.OK = false.
func ParseFile(file *source.File, opts Options) (res Result) {
	p := &Parser{
		file: file,
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		opts: opts,
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			res = Result{}
		}
	}()
	mod := p.parseModule()
	return Result{Module: mod, OK: true}
}

// ParseString is a convenience wrapper for in-memory scripts.
func ParseString(text string, opts Options) Result {
	return ParseFile(source.FromString(text), opts)
}

// fragment creates a parser over [start, end) for an f-string field.
// Errors unwind through the parent parser.
func (p *Parser) fragment(start, end uint32) *Parser {
	return &Parser{
		file:      p.file,
		lx:        lexer.NewRange(p.file, start, end, lexer.Options{Reporter: p.opts.Reporter, Fragment: true}),
		opts:      p.opts,
		lastSpan:  source.Span{Start: start, End: start},
		funcDepth: p.funcDepth,
		defDepth:  p.defDepth,
		loopDepth: p.loopDepth,
		nesting:   p.nesting,
		inAsync:   p.inAsync,
	}
}

func (p *Parser) parseModule() *ast.Module {
	mod := &ast.Module{}
	start := p.peek().Span
	for !p.at(token.EOF) {
		if p.at(token.Newline) {
			p.advance()
			continue
		}
		if p.at(token.Indent) {
			p.fail(diag.SynUnexpectedIndent, p.peek().Span, "unexpected indent")
		}
		stmts := p.parseStatement()
		if len(mod.Body) == 0 && len(stmts) > 0 {
			if es, ok := stmts[0].(*ast.ExprStmt); ok {
				if c, ok := es.Value.(*ast.Constant); ok && c.Kind == ast.ConstString {
					mod.Docstring = true
				}
			}
		}
		mod.Body = append(mod.Body, stmts...)
	}
	mod.Span = start.Cover(p.lastSpan)
	return mod
}
