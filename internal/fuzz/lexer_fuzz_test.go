package fuzztests

import (
	"testing"

	"scriptgate/internal/diag"
	"scriptgate/internal/lexer"
	"scriptgate/internal/source"
	"scriptgate/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		file := source.NewFile("fuzz.py", input, source.FileVirtual)

		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if len(toks) == 0 {
			t.Fatalf("no tokens for %q", truncateForLog(input, 200))
		}
		last := toks[len(toks)-1]
		if last.Kind != token.EOF && last.Kind != token.Invalid {
			t.Fatalf("stream ended with %v", last.Kind)
		}
		if last.Kind == token.Invalid && !bag.HasErrors() {
			t.Fatalf("invalid token without a diagnostic: %q", truncateForLog(input, 200))
		}
		size := file.Len()
		var prevEnd uint32
		for _, tok := range toks {
			if tok.Span.Start > tok.Span.End || tok.Span.End > size {
				t.Fatalf("token %v span %v out of bounds (len %d)", tok.Kind, tok.Span, size)
			}
			// Invalid может указывать назад, на незакрытую скобку
			if tok.Kind != token.Invalid && tok.Span.Start < prevEnd {
				t.Fatalf("token %v span %v overlaps previous end %d", tok.Kind, tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
		}
	})
}
