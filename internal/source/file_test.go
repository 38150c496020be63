package source

import "testing"

func TestNewFileNormalizesCRLFAndBOM(t *testing.T) {
	f := NewFile("a.py", []byte("\xEF\xBB\xBFx = 1\r\ny = 2\r\n"), 0)
	if got := f.Text(); got != "x = 1\ny = 2\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
}

func TestPositionAndGetLine(t *testing.T) {
	f := FromString("import os\nprint(x)\n")
	pos := f.Position(16)
	if pos.Line != 2 || pos.Col != 7 {
		t.Fatalf("expected 2:7, got %d:%d", pos.Line, pos.Col)
	}
	if got := f.GetLine(2); got != "print(x)" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(5); got != "" {
		t.Fatalf("GetLine(5) = %q, want empty", got)
	}
	if f.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", f.LineCount())
	}
}

func TestLineCountWithoutTrailingNewline(t *testing.T) {
	f := FromString("a\nb")
	if f.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", f.LineCount())
	}
	if f.GetLine(2) != "b" {
		t.Fatalf("GetLine(2) = %q", f.GetLine(2))
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: 4, End: 8}
	b := Span{Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Fatalf("Cover = %v", got)
	}
	if !got.Contains(7) || got.Contains(8) {
		t.Fatalf("Contains mismatch for %v", got)
	}
}
