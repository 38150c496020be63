package imports_test

import (
	"context"
	"errors"
	"testing"

	"scriptgate/internal/diag"
	"scriptgate/internal/imports"
	"scriptgate/internal/rules"
	"scriptgate/internal/scope"
)

func refs(mods ...string) []scope.ImportRef {
	out := make([]scope.ImportRef, 0, len(mods))
	for _, m := range mods {
		out = append(out, scope.ImportRef{Module: m})
	}
	return out
}

func TestTiers(t *testing.T) {
	c := imports.NewChecker(rules.Default(), imports.StaticProber{})
	cases := map[string]imports.Tier{
		"json":       imports.TierStdlib,
		"__future__": imports.TierStdlib,
		"numpy":      imports.TierCommon,
		"flask":      imports.TierRisky,
		"leftpad":    imports.TierUnknown,
	}
	for mod, want := range cases {
		if got := c.Classify(mod); got != want {
			t.Errorf("%s: tier %v, want %v", mod, got, want)
		}
	}
}

func TestCheckIssues(t *testing.T) {
	c := imports.NewChecker(rules.Default(), imports.StaticProber{"installedpkg": true})
	issues := c.Check(context.Background(), refs("os.path", "numpy", "flask", "installedpkg", "missingpkg", "missingpkg.sub"))
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	risky := issues[0]
	if risky.Code != diag.ImpRisky || risky.Severity != diag.SevWarning || risky.Subject != "flask" {
		t.Errorf("unexpected risky issue %+v", risky)
	}
	if risky.Hint != "consider http.server from the standard library instead" {
		t.Errorf("hint = %q", risky.Hint)
	}
	missing := issues[1]
	if missing.Code != diag.ImpNotFound || missing.Severity != diag.SevError || missing.Subject != "missingpkg" {
		t.Errorf("unexpected missing issue %+v", missing)
	}
	for _, is := range issues {
		if is.Category() != diag.CatImport {
			t.Errorf("category = %v", is.Category())
		}
	}
}

func TestUnverifiedWhenProbeFails(t *testing.T) {
	c := imports.NewChecker(rules.Default(), imports.FailingProber{Err: errors.New("no python")})
	issues := c.Check(context.Background(), refs("mystery"))
	if len(issues) != 1 || issues[0].Code != diag.ImpUnverified || issues[0].Severity != diag.SevWarning {
		t.Fatalf("unexpected issues %+v", issues)
	}

	issues = imports.NewChecker(nil, nil).Check(context.Background(), refs("mystery"))
	if len(issues) != 1 || issues[0].Code != diag.ImpUnverified {
		t.Fatalf("nil prober should give an unverified warning, got %+v", issues)
	}
}

func TestRelativeImport(t *testing.T) {
	c := imports.NewChecker(nil, imports.StaticProber{})
	issues := c.Check(context.Background(), []scope.ImportRef{{Module: "helpers", Level: 1, From: true}})
	if len(issues) != 1 || issues[0].Code != diag.ImpRelative || !issues[0].IsBlocking() {
		t.Fatalf("unexpected issues %+v", issues)
	}
}
