// Package imports estimates whether the modules a script imports will
// resolve in the sandbox.
package imports

import (
	"context"
	"fmt"

	"scriptgate/internal/diag"
	"scriptgate/internal/rules"
	"scriptgate/internal/scope"
)

// Tier classifies a top-level module name.
type Tier uint8

const (
	TierUnknown Tier = iota
	TierStdlib
	TierCommon
	TierRisky
)

func (t Tier) String() string {
	switch t {
	case TierStdlib:
		return "stdlib"
	case TierCommon:
		return "common"
	case TierRisky:
		return "risky"
	default:
		return "unknown"
	}
}

// Checker turns import references into import-category issues.
type Checker struct {
	rules  *rules.Set
	prober Prober
}

// NewChecker creates a checker. A nil prober leaves unknown modules unverified.
func NewChecker(rs *rules.Set, prober Prober) *Checker {
	if rs == nil {
		rs = rules.Default()
	}
	return &Checker{rules: rs, prober: prober}
}

// Classify returns the tier of a top-level module name.
func (c *Checker) Classify(top string) Tier {
	switch {
	case c.rules.IsStdlib(top):
		return TierStdlib
	case c.rules.IsCommon(top):
		return TierCommon
	}
	if _, ok := c.rules.Risky(top); ok {
		return TierRisky
	}
	return TierUnknown
}

// Check classifies every import once per top-level module, probing the
// unknown ones in a single batch. Issues are returned in import order.
func (c *Checker) Check(ctx context.Context, refs []scope.ImportRef) []diag.Issue {
	var (
		issues  []diag.Issue
		seen    = map[string]bool{}
		unknown []scope.ImportRef
	)
	for _, ref := range refs {
		if ref.Level > 0 {
			issues = append(issues, relativeIssue(ref))
			continue
		}
		top := ref.Top()
		if top == "" || seen[top] {
			continue
		}
		seen[top] = true

		switch c.Classify(top) {
		case TierStdlib, TierCommon:
		case TierRisky:
			alt, _ := c.rules.Risky(top)
			issue := diag.New(diag.SevWarning, diag.ImpRisky, ref.Span,
				fmt.Sprintf("module '%s' is often unavailable in the sandbox", top)).
				WithHint(fmt.Sprintf("consider %s from the standard library instead", alt))
			issue.Subject = top
			issues = append(issues, issue)
		default:
			unknown = append(unknown, ref)
		}
	}
	if len(unknown) == 0 {
		return issues
	}
	return append(issues, c.probe(ctx, unknown)...)
}

func (c *Checker) probe(ctx context.Context, refs []scope.ImportRef) []diag.Issue {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Top())
	}
	var (
		found map[string]bool
		err   error
	)
	if c.prober != nil {
		found, err = c.prober.Probe(ctx, names)
	}

	issues := make([]diag.Issue, 0, len(refs))
	for _, ref := range refs {
		top := ref.Top()
		var issue diag.Issue
		switch {
		case c.prober == nil || err != nil:
			issue = diag.New(diag.SevWarning, diag.ImpUnverified, ref.Span,
				fmt.Sprintf("could not verify that module '%s' is installed", top)).
				WithHint("prefer the standard library or a preinstalled package")
		case found[top]:
			continue
		default:
			issue = diag.NewError(diag.ImpNotFound, ref.Span,
				fmt.Sprintf("module '%s' is not installed in the sandbox", top)).
				WithHint("use a standard-library module or one of the preinstalled packages")
		}
		issue.Subject = top
		issues = append(issues, issue)
	}
	return issues
}

func relativeIssue(ref scope.ImportRef) diag.Issue {
	issue := diag.NewError(diag.ImpRelative, ref.Span,
		"relative import has no parent package in a standalone script").
		WithHint("use an absolute import or inline the code; each execution is a single independent file")
	issue.Subject = ref.Module
	return issue
}
