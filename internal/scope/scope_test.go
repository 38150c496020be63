package scope_test

import (
	"slices"
	"testing"

	"scriptgate/internal/parser"
	"scriptgate/internal/rules"
	"scriptgate/internal/scope"
)

func analyze(t *testing.T, src string) scope.Result {
	t.Helper()
	res := parser.ParseString(src, parser.Options{})
	if !res.OK {
		t.Fatalf("parse failed:\n%s", src)
	}
	return scope.Analyze(res.Module, rules.Default())
}

func undefinedNames(res scope.Result) []string {
	out := make([]string, 0, len(res.Undefined))
	for _, r := range res.Undefined {
		out = append(out, r.Name)
	}
	return out
}

func TestUndefinedNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"known import", "print(pd.DataFrame([1, 2, 3]))\n", []string{"pd"}},
		{"defined later", "def main():\n    helper()\ndef helper():\n    pass\nmain()\n", nil},
		{"plain assign", "total = 0\nprint(total)\n", nil},
		{"destructuring", "a, (b, *c) = 1, (2, 3, 4)\nprint(a, b, c)\n", nil},
		{"augmented", "count = 0\ncount += 1\nprint(count)\n", nil},
		{"annotated", "limit: int = 5\nprint(limit)\n", nil},
		{"for target", "for idx2, val in enumerate([1]):\n    print(idx2, val)\n", nil},
		{"with as", "with open('f') as fh:\n    print(fh.read())\n", nil},
		{"except as", "try:\n    pass\nexcept ValueError as exc:\n    print(exc)\n", nil},
		{"walrus", "if (n2 := 10) > 5:\n    print(n2)\n", nil},
		{"imports", "import os.path\nfrom json import loads as parse\nprint(os.sep, parse('1'))\n", nil},
		{"builtins", "print(len(range(3)), ValueError, __name__)\n", nil},
		{"implicit", "print(i, item, e)\n", nil},
		{"order", "print(zeta)\nprint(alpha)\nprint(zeta)\n", []string{"zeta", "alpha"}},
		{"function body opaque", "def f():\n    return undefined_inside\n", nil},
		{"class body opaque", "class A:\n    x = missing_value\n", nil},
		{"decorator read", "@missing_deco\ndef f():\n    pass\n", []string{"missing_deco"}},
		{"default read", "def f(a=missing_default):\n    pass\n", []string{"missing_default"}},
		{"base read", "class A(MissingBase):\n    pass\n", []string{"MissingBase"}},
		{"annotation read", "def f(a: Frame) -> None:\n    pass\n", []string{"Frame"}},
		{"future annotations", "from __future__ import annotations\ndef f(a: Frame) -> Other:\n    pass\n", nil},
		{"comprehension", "squares = [v * v for v in range(10) if v % 2]\n", nil},
		{"comprehension leak", "squares = [v for v in range(3)]\nprint(v)\n", []string{"v"}},
		{"comprehension first iter", "out = [w for w in source_data]\n", []string{"source_data"}},
		{"nested comprehension", "flat = [c for row in grid_rows for c in row]\n", []string{"grid_rows"}},
		{"dict comprehension", "d = {kk: vv for kk, vv in pairs.items()}\n", []string{"pairs"}},
		{"nonlocal in nested class", "def outer():\n    x = 0\n    class C:\n        nonlocal x\n    return C\n", nil},
		{"async generator expression", "agen = (row async for row in stream_rows)\n", []string{"stream_rows"}},
		{"raw fstring escaped braces", "label = rf'\\{{{title}\\}}'\n", []string{"title"}},
		{"walrus in comprehension", "vals = [last := w for w in range(3)]\nprint(last)\n", nil},
		{"lambda params", "f = lambda a, b=fallback: a + b + c2\n", []string{"fallback", "c2"}},
		{"global promotion", "def init():\n    global config\n    config = 1\ninit()\nprint(config)\n", nil},
		{"match capture", "match cmd:\n    case [action, *rest]:\n        print(action, rest)\n    case {'k': val, **others}:\n        print(val, others)\n", []string{"cmd"}},
		{"match class", "match p:\n    case Point(x=px):\n        print(px)\n", []string{"p", "Point"}},
		{"del reads", "del ghost\n", []string{"ghost"}},
		{"fstring", "print(f'{user_name} {count2:>{width2}}')\n", []string{"user_name", "count2", "width2"}},
		{"type params", "def first[T](xs: list[T]) -> T:\n    return xs[0]\n", nil},
		{"attribute target", "obj.attr = 1\n", []string{"obj"}},
		{"subscript target", "table[key2] = 1\n", []string{"table", "key2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := undefinedNames(analyze(t, tc.src))
			if !slices.Equal(got, tc.want) {
				t.Fatalf("undefined = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWildcardDisablesReporting(t *testing.T) {
	res := analyze(t, "from math import *\nprint(sqrt(2), undefined_thing)\n")
	if !res.Wildcard {
		t.Fatalf("wildcard not detected")
	}
	if len(res.Undefined) != 0 {
		t.Fatalf("wildcard import must suppress undefined names, got %v", undefinedNames(res))
	}
}

func TestRefCountsAndSpans(t *testing.T) {
	src := "x1 = ghost + ghost\nprint(ghost)\n"
	res := analyze(t, src)
	if len(res.Undefined) != 1 {
		t.Fatalf("got %v", undefinedNames(res))
	}
	ref := res.Undefined[0]
	if ref.Count != 3 {
		t.Errorf("count = %d, want 3", ref.Count)
	}
	if src[ref.Span.Start:ref.Span.End] != "ghost" || ref.Span.Start != 5 {
		t.Errorf("span = %v", ref.Span)
	}
}

func TestImportRefs(t *testing.T) {
	res := analyze(t, "import numpy as np, os.path\nfrom ..pkg import mod\nfrom collections import Counter\n")
	want := []struct {
		module string
		top    string
		level  int
	}{
		{"numpy", "numpy", 0},
		{"os.path", "os", 0},
		{"pkg", "pkg", 2},
		{"collections", "collections", 0},
	}
	if len(res.Imports) != len(want) {
		t.Fatalf("imports = %+v", res.Imports)
	}
	for i, w := range want {
		got := res.Imports[i]
		if got.Module != w.module || got.Top() != w.top || got.Level != w.level {
			t.Errorf("import %d = %+v, want %+v", i, got, w)
		}
	}
	if !res.IsDefined("np") || !res.IsDefined("os") || !res.IsDefined("mod") || !res.IsDefined("Counter") {
		t.Fatalf("import bindings missing: %v", res.Defined)
	}
}

func TestCustomImplicitNames(t *testing.T) {
	rs := rules.Merge(rules.Default(), rules.Overrides{ImplicitNames: []string{"tmp"}})
	res := parser.ParseString("print(tmp, i)\n", parser.Options{})
	got := undefinedNames(scope.Analyze(res.Module, rs))
	if !slices.Equal(got, []string{"i"}) {
		t.Fatalf("undefined = %v", got)
	}
}
