package diag

import (
	"strings"
	"testing"

	"scriptgate/internal/source"
)

func TestBagSortOrdersByCategoryThenPosition(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevWarning, ImpRisky, source.Span{Start: 0, End: 6}, "risky"))
	bag.Add(New(SevError, ScpUndefinedName, source.Span{Start: 30, End: 31}, "late name"))
	bag.Add(New(SevWarning, ScpMissingKnownImport, source.Span{Start: 10, End: 12}, "early name"))

	bag.Sort()
	items := bag.Items()
	if items[0].Message != "early name" || items[1].Message != "late name" || items[2].Message != "risky" {
		t.Fatalf("unexpected order: %v", items)
	}
	if items[2].Category() != CatImport {
		t.Fatalf("expected import category, got %s", items[2].Category())
	}
}

func TestBagLimitAndFlags(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(Issue{Severity: SevWarning, Code: ScpMissingKnownImport, AutoFixable: true}) {
		t.Fatal("first add must succeed")
	}
	bag.Add(Issue{Severity: SevError, Code: ImpNotFound})
	if bag.Add(Issue{Severity: SevError, Code: ImpNotFound}) {
		t.Fatal("third add must hit the limit")
	}
	if !bag.HasErrors() || !bag.HasFixable() || !bag.HasBlocking() {
		t.Fatalf("flags mismatch: errors=%v fixable=%v blocking=%v", bag.HasErrors(), bag.HasFixable(), bag.HasBlocking())
	}
}

func TestBagDedupAndResolve(t *testing.T) {
	f := source.FromString("x = 1\nprint(y)\n")
	bag := NewBag(0)
	sp := source.Span{Start: 12, End: 13}
	bag.Add(Issue{Severity: SevError, Code: ScpUndefinedName, Subject: "y", Primary: sp})
	bag.Add(Issue{Severity: SevError, Code: ScpUndefinedName, Subject: "y", Primary: sp})
	bag.Dedup()
	bag.Resolve(f)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 issue after dedup, got %d", bag.Len())
	}
	if got := bag.Items()[0]; got.Line != 2 || got.Column != 7 {
		t.Fatalf("expected 2:7, got %d:%d", got.Line, got.Column)
	}
}

func TestFirstReporterKeepsOnlyFirstError(t *testing.T) {
	var r FirstReporter
	ReportWarning(&r, ImpRisky, source.Span{}, "warn").Emit()
	ReportError(&r, SynUnexpectedToken, source.Span{Start: 1}, "first").Emit()
	ReportError(&r, SynExpectColon, source.Span{Start: 2}, "second").Emit()
	if r.First == nil || r.First.Message != "first" {
		t.Fatalf("expected first error to win, got %+v", r.First)
	}
}

func TestCodeIDAndCategory(t *testing.T) {
	cases := []struct {
		code Code
		id   string
		cat  Category
	}{
		{LexUnterminatedString, "LEX1002", CatSyntax},
		{SynExpectColon, "SYN2005", CatSyntax},
		{ScpUndefinedName, "SCP3001", CatScope},
		{ImpNotFound, "IMP4001", CatImport},
	}
	for _, tc := range cases {
		if tc.code.ID() != tc.id || tc.code.Category() != tc.cat {
			t.Fatalf("%d: got %s/%s, want %s/%s", tc.code, tc.code.ID(), tc.code.Category(), tc.id, tc.cat)
		}
	}
}

func TestFormatShort(t *testing.T) {
	out := FormatShort([]Issue{{
		Severity: SevError, Code: ScpUndefinedName, Line: 3, Column: 1,
		Message: "name 'foo' is not defined", Hint: "define it",
	}}, "job.py", true)
	if !strings.HasPrefix(out, "job.py:3:1: ERROR SCP3001 name 'foo' is not defined\n") {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(out, "hint: define it") {
		t.Fatalf("missing hint in %q", out)
	}
}
