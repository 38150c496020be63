package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scriptgate/internal/diag"
	"scriptgate/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, hint *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		hint:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.hint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует issues в человекочитаемый вид.
// Ожидается, что issues уже отсортированы и Resolve выполнен.
// Для каждого issue печатает:
//
//	<path>:<line>:<col>: <sev>[<CODE>]: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем hint и notes.
func Pretty(w io.Writer, issues []diag.Issue, file *source.File, opts PrettyOpts) {
	if len(issues) == 0 {
		return
	}
	pal := newPalette(opts.Color)
	path := source.VirtualPath
	if file != nil {
		path = displayPath(file.Path, opts.PathMode, opts.BaseDir)
	}

	for i, is := range issues {
		if i > 0 {
			fmt.Fprintln(w)
		}
		line, col := is.Line, is.Column
		if line == 0 && file != nil {
			pos := file.Position(is.Primary.Start)
			line, col = pos.Line, pos.Col
		}
		sev := pal.severity(is.Severity)
		fmt.Fprintf(w, "%s:%d:%d: %s%s: %s\n",
			path, line, col,
			sev.Sprint(is.Severity.Label()),
			pal.code.Sprintf("[%s]", is.Code.ID()),
			pal.code.Sprint(is.Message))

		if file != nil && line > 0 {
			writeSnippet(w, file, is.Primary, line, opts, pal)
		}
		if !opts.ShowHints {
			continue
		}
		if is.Hint != "" {
			fmt.Fprintf(w, "  %s %s\n", pal.hint.Sprint("= hint:"), is.Hint)
		}
		if is.AutoFixable {
			fmt.Fprintf(w, "  %s\n", pal.hint.Sprint("= auto-fixable"))
		}
		for _, n := range is.Notes {
			fmt.Fprintf(w, "  = note: %s\n", n.Msg)
		}
	}
}

// writeSnippet prints the primary line with context and a caret run under span.
func writeSnippet(w io.Writer, file *source.File, span source.Span, line uint32, opts PrettyOpts, pal palette) {
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if line > ctx {
		first = line - ctx
	}
	last := min(line+ctx, max(file.LineCount(), line))
	gutterWidth := len(fmt.Sprint(last))

	fmt.Fprintf(w, "%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""))
	for n := first; n <= last; n++ {
		text := expandTabs(file.GetLine(n))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), text)
		if n != line {
			continue
		}
		pad, width := caretRange(file, span, n)
		fmt.Fprintf(w, "%s %s%s\n",
			pal.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", pad),
			pal.caret.Sprint("^"+strings.Repeat("~", max(width-1, 0))))
	}
}

// caretRange returns the display offset and width of span on line n.
// Wide runes count as two columns, so carets line up under CJK text.
func caretRange(file *source.File, span source.Span, n uint32) (pad, width int) {
	text := file.GetLine(n)
	start := file.Position(span.Start)
	end := file.Position(span.End)
	startCol := int(start.Col) - 1
	endCol := len(text)
	if end.Line == n && span.End > span.Start {
		endCol = int(end.Col) - 1
	}
	startCol = min(max(startCol, 0), len(text))
	endCol = min(max(endCol, startCol), len(text))

	pad = runewidth.StringWidth(expandTabs(text[:startCol]))
	width = runewidth.StringWidth(expandTabs(text[startCol:endCol]))
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
