package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"scriptgate/internal/lexer"
	"scriptgate/internal/parser"
	"scriptgate/internal/source"
)

func TestFormatTokensPretty(t *testing.T) {
	file := source.NewFile("t.py", []byte("x = 1\n"), source.FileVirtual)
	toks := lexer.Tokenize(file, lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, file); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"x" at 1:1-1:2`, `"=" at 1:3-1:4`, "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n"); got != len(toks) {
		t.Errorf("expected %d lines, got %d", len(toks), got)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	file := source.NewFile("t.py", []byte("a\nb\n"), source.FileVirtual)
	toks := lexer.Tokenize(file, lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks, file); err != nil {
		t.Fatalf("format: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(out) != len(toks) {
		t.Fatalf("expected %d tokens, got %d", len(toks), len(out))
	}
	var b TokenOutput
	for _, tok := range out {
		if tok.Text == "b" {
			b = tok
		}
	}
	if b.Line != 2 || b.Col != 1 {
		t.Fatalf("token b at %d:%d, want 2:1", b.Line, b.Col)
	}
}

func TestFormatASTPretty(t *testing.T) {
	file := source.NewFile("t.py", []byte("import os\nx = os.getcwd()\n"), source.FileVirtual)
	res := parser.ParseFile(file, parser.Options{})
	if !res.OK {
		t.Fatal("parse failed")
	}

	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, res.Module, file); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Module @1:1", "Body[0]: Import @1:1", "Body[1]: Assign @2:1", `ID="x"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Span") {
		t.Errorf("spans must not be printed:\n%s", out)
	}

	if err := FormatASTPretty(&buf, nil, file); err == nil {
		t.Error("expected error for nil module")
	}
}
