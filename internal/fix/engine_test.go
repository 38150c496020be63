package fix

import (
	"errors"
	"strings"
	"testing"

	"scriptgate/internal/diag"
	"scriptgate/internal/rules"
	"scriptgate/internal/source"
)

func fixable(name string) diag.Issue {
	return diag.Issue{
		Severity:    diag.SevWarning,
		Code:        diag.ScpMissingKnownImport,
		Subject:     name,
		AutoFixable: true,
	}
}

func TestApplyPrependsDedupedImports(t *testing.T) {
	src := "df = pd.DataFrame()\nprint(np.zeros(3), pd)\n"
	res, err := NewEngine(rules.Default()).Apply(src, []diag.Issue{fixable("pd"), fixable("np"), fixable("pd")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "import pandas as pd\nimport numpy as np\n" + src
	if res.Code != want {
		t.Fatalf("fixed code mismatch:\n%s\nwant:\n%s", res.Code, want)
	}
	if got := strings.Join(res.Statements(), ";"); got != "import pandas as pd;import numpy as np" {
		t.Fatalf("statements = %q", got)
	}
}

func TestApplyKeepsHeaderFirst(t *testing.T) {
	header := "#!/usr/bin/env python3\n# -*- coding: utf-8 -*-\n\"\"\"Report.\"\"\"\nfrom __future__ import annotations\n"
	src := header + "print(json.dumps({}))\n"
	res, err := NewEngine(nil).Apply(src, []diag.Issue{fixable("json")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := header + "import json\nprint(json.dumps({}))\n"
	if res.Code != want {
		t.Fatalf("fixed code mismatch:\n%s\nwant:\n%s", res.Code, want)
	}
}

func TestApplyRefuses(t *testing.T) {
	tests := []struct {
		name  string
		issue diag.Issue
	}{
		{"syntax", diag.NewError(diag.SynUnexpectedToken, source.Span{}, "invalid syntax")},
		{"blocking scope", diag.NewError(diag.ScpUndefinedName, source.Span{}, "name 'foo' is not defined")},
		{"missing module", diag.NewError(diag.ImpNotFound, source.Span{}, "module 'zzz' is not installed")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(nil).Apply("print(pd)\n", []diag.Issue{fixable("pd"), tt.issue})
			if !errors.Is(err, ErrNotFixable) {
				t.Fatalf("expected ErrNotFixable, got %v", err)
			}
		})
	}
}

func TestApplyWarningsDoNotBlock(t *testing.T) {
	risky := diag.Issue{Severity: diag.SevWarning, Code: diag.ImpRisky, Subject: "flask"}
	res, err := NewEngine(nil).Apply("print(os.getcwd())\n", []diag.Issue{risky, fixable("os")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Code, "import os\n") {
		t.Fatalf("import not inserted: %q", res.Code)
	}
}

func TestApplyNoFixes(t *testing.T) {
	src := "import json\nprint(json.dumps(1))\n"
	res, err := NewEngine(nil).Apply(src, []diag.Issue{fixable("json"), fixable("frobnicate")})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if res.Code != src {
		t.Fatalf("script changed: %q", res.Code)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("expected 2 skipped fixes, got %+v", res.Skipped)
	}
	if res.Skipped[0].Reason != "import already present" || res.Skipped[1].Reason != "no known import" {
		t.Fatalf("unexpected skip reasons: %+v", res.Skipped)
	}
}

func TestInjectImport(t *testing.T) {
	got, err := InjectImport("print(os.getcwd())", "import os")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "import os\nprint(os.getcwd())" {
		t.Fatalf("got %q", got)
	}
	if _, err := InjectImport(got, "import os"); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes on second injection, got %v", err)
	}

	got, err = InjectImport(`"""Only a docstring."""`, "import os")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "\"\"\"Only a docstring.\"\"\"\nimport os\n" {
		t.Fatalf("got %q", got)
	}
}

func TestInjectImportBrokenScript(t *testing.T) {
	if _, err := InjectImport("def broken(:\n", "import os"); !errors.Is(err, ErrReparse) {
		t.Fatalf("expected ErrReparse, got %v", err)
	}
}

func TestApplyEditsGuards(t *testing.T) {
	content := []byte("abcdef")
	_, err := applyEdits(content, []TextEdit{
		{Span: source.Span{Start: 1, End: 4}, NewText: "x"},
		{Span: source.Span{Start: 2, End: 5}, NewText: "y"},
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	_, err = applyEdits(content, []TextEdit{{Span: source.Span{Start: 0, End: 2}, NewText: "z", OldText: "xx"}})
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}

	out, err := applyEdits(content, []TextEdit{
		InsertText(0, ">"),
		{Span: source.Span{Start: 2, End: 4}, NewText: "CD", OldText: "cd"},
		InsertText(6, "<"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != ">abCDef<" {
		t.Fatalf("got %q", out)
	}
}

func TestApplyIgnoresNestedAndQuotedImports(t *testing.T) {
	src := "def load():\n    import pandas as pd\n    return pd.read_csv('a.csv')\n" +
		"HELP = '''\nimport numpy as np\n'''\n" +
		"print(pd.DataFrame([1, 2, 3]), np.zeros(2))\n"
	res, err := NewEngine(nil).Apply(src, []diag.Issue{fixable("pd"), fixable("np")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "import pandas as pd\nimport numpy as np\n" + src
	if res.Code != want {
		t.Fatalf("fixed code mismatch:\n%s\nwant:\n%s", res.Code, want)
	}
}

func TestModuleImports(t *testing.T) {
	src := "import os, numpy as np\nimport os.path as osp\nfrom json import loads as loads\n" +
		"try:\n    import pandas as pd\nexcept ImportError:\n    pd = None\n" +
		"class C:\n    import math\n" +
		"def f():\n    from collections import Counter\n" +
		"from . import sibling\n"
	got := moduleImports(parseModule(source.FromString(src)))
	for _, want := range []string{"import os", "import numpy as np", "import os.path as osp", "from json import loads", "import pandas as pd"} {
		if _, ok := got[want]; !ok {
			t.Errorf("missing %q in %v", want, got)
		}
	}
	for _, absent := range []string{"import math", "from collections import Counter", "from  import sibling"} {
		if _, ok := got[absent]; ok {
			t.Errorf("unexpected %q", absent)
		}
	}
	if len(moduleImports(nil)) != 0 {
		t.Error("nil module must yield no imports")
	}
}

func TestInjectImportNestedOnly(t *testing.T) {
	src := "def helper():\n    import json\n    return json.dumps(1)\nprint(json.dumps(2))\n"
	got, err := InjectImport(src, "import json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "import json\n"+src {
		t.Fatalf("got %q", got)
	}
	if _, err := InjectImport("import  json\nprint(json)\n", "import json"); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes for module-level import, got %v", err)
	}
}
