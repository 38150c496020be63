package rules_test

import (
	"strings"
	"testing"

	"scriptgate/internal/rules"
)

func TestDefaultTables(t *testing.T) {
	s := rules.Default()
	if s != rules.Default() {
		t.Fatalf("Default must return the shared set")
	}
	for _, name := range []string{"print", "len", "ValueError", "__name__", "Ellipsis"} {
		if !s.IsBuiltin(name) {
			t.Errorf("%s should be builtin", name)
		}
	}
	if s.IsBuiltin("pd") {
		t.Errorf("pd is not a builtin")
	}
	stmt, ok := s.KnownImport("pd")
	if !ok || stmt != "import pandas as pd" {
		t.Fatalf("pd -> %q, %v", stmt, ok)
	}
	if stmt, _ := s.KnownImport("datetime"); stmt != "from datetime import datetime" {
		t.Fatalf("datetime -> %q", stmt)
	}
	if !s.IsStdlib("json") || s.IsStdlib("numpy") {
		t.Fatalf("stdlib tier is wrong")
	}
	if !s.IsCommon("numpy") {
		t.Fatalf("numpy should be common")
	}
	if alt, ok := s.Risky("flask"); !ok || alt != "http.server" {
		t.Fatalf("flask -> %q, %v", alt, ok)
	}
	if !s.IsImplicit("i") || s.IsImplicit("df") {
		t.Fatalf("implicit tier is wrong")
	}
}

// Every known import must name a module that is stdlib or common, otherwise
// auto-fix would inject an import the checker then rejects.
func TestKnownImportsResolve(t *testing.T) {
	s := rules.Default()
	for name, stmt := range s.KnownImports() {
		fields := strings.Fields(stmt)
		if len(fields) < 2 {
			t.Fatalf("%s: malformed statement %q", name, stmt)
		}
		top := strings.SplitN(fields[1], ".", 2)[0]
		if !s.IsStdlib(top) && !s.IsCommon(top) {
			t.Errorf("%s: %q imports %s which is neither stdlib nor common", name, stmt, top)
		}
	}
}

func TestMergeDoesNotMutateBase(t *testing.T) {
	base := rules.Default()
	merged := rules.Merge(base, rules.Overrides{
		ImplicitNames: []string{"tmp"},
		KnownImports:  map[string]string{"pl": "import polars as pl"},
		CommonModules: []string{"polars", "flask"},
		RiskyModules:  map[string]string{"ray": "multiprocessing"},
	})
	if merged == base {
		t.Fatalf("Merge must return a new set")
	}
	if _, ok := base.KnownImport("pl"); ok {
		t.Fatalf("base mutated")
	}
	if stmt, _ := merged.KnownImport("pl"); stmt != "import polars as pl" {
		t.Fatalf("override missing")
	}
	if merged.IsImplicit("i") || !merged.IsImplicit("tmp") {
		t.Fatalf("implicit names should be replaced")
	}
	if _, risky := merged.Risky("flask"); risky || !merged.IsCommon("flask") {
		t.Fatalf("common override should move flask out of the risky tier")
	}
	if _, risky := merged.Risky("ray"); !risky {
		t.Fatalf("risky override missing")
	}
	if !strings.HasSuffix(merged.Version(), "+local") {
		t.Fatalf("version = %s", merged.Version())
	}
	if rules.Merge(base, rules.Overrides{}) != base {
		t.Fatalf("empty overrides should return base")
	}
}
