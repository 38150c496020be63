package validate

import (
	"context"
	"fmt"

	"scriptgate/internal/diag"
	"scriptgate/internal/fix"
	"scriptgate/internal/imports"
	"scriptgate/internal/observ"
	"scriptgate/internal/parser"
	"scriptgate/internal/rules"
	"scriptgate/internal/scope"
	"scriptgate/internal/source"
	"scriptgate/internal/trace"
)

// statelessHint is attached to every unresolvable name.
const statelessHint = "each execution runs in a fresh, independent environment: variables, imports and " +
	"functions from earlier executions do not exist. Define or import '%s' in this script"

// Options configures a Validator.
type Options struct {
	Rules *rules.Set
	// Prober resolves modules outside the static tiers. nil leaves them unverified.
	Prober imports.Prober
	// MaxIssues caps what Format and the CLI print. Valid and the fix gate
	// always see every issue. <= 0: без ограничения
	MaxIssues int
}

// Validator is safe for concurrent use; it holds only read-only tables.
type Validator struct {
	rules     *rules.Set
	checker   *imports.Checker
	engine    *fix.Engine
	maxIssues int
}

func New(opts Options) *Validator {
	rs := opts.Rules
	if rs == nil {
		rs = rules.Default()
	}
	return &Validator{
		rules:     rs,
		checker:   imports.NewChecker(rs, opts.Prober),
		engine:    fix.NewEngine(rs),
		maxIssues: opts.MaxIssues,
	}
}

// Rules returns the tables the validator was built with.
func (v *Validator) Rules() *rules.Set { return v.rules }

// Validate checks src and, when autoFix is set, tries the import rewrite.
func (v *Validator) Validate(src string, autoFix bool) Result {
	return v.ValidateFile(context.Background(), source.FromString(src), autoFix)
}

// ValidateContext is Validate with a context for tracing and the import probe.
func (v *Validator) ValidateContext(ctx context.Context, src string, autoFix bool) Result {
	return v.ValidateFile(ctx, source.FromString(src), autoFix)
}

// ValidateFile validates an already loaded script.
func (v *Validator) ValidateFile(ctx context.Context, file *source.File, autoFix bool) (res Result) {
	span := trace.Child(ctx, trace.ScopePass, "validate")
	ctx = span.Context(ctx)
	defer func() {
		if r := recover(); r != nil {
			issue := diag.NewError(diag.SynInfo, source.Span{}, fmt.Sprintf("internal validator error: %v", r))
			res = Result{Issues: []diag.Issue{issue}, File: file}
			span.Fail()
		}
		span.WithExtra("issues", fmt.Sprint(len(res.Issues))).End(fmt.Sprintf("valid=%t", res.Valid))
	}()

	res = v.check(ctx, file)
	res.Limit = v.maxIssues
	if !autoFix || res.Count(diag.CatSyntax) > 0 {
		return res
	}
	bag := diag.NewBag(0)
	for _, is := range res.Issues {
		bag.Add(is)
	}
	if !bag.HasFixable() || bag.HasBlocking() {
		return res
	}
	v.autoFix(ctx, &res)
	return res
}

func (v *Validator) check(ctx context.Context, file *source.File) Result {
	timer := observ.TimerFrom(ctx)

	done := timer.Track("parse")
	ps := trace.Child(ctx, trace.ScopePass, "parse")
	first := &diag.FirstReporter{}
	parsed := parser.ParseFile(file, parser.Options{Reporter: first})
	ps.End("")
	done("")
	if !parsed.OK {
		issue := diag.NewError(diag.SynUnexpectedToken, source.Span{}, "invalid syntax")
		if first.First != nil {
			issue = *first.First
		}
		bag := diag.NewBag(1)
		bag.Add(issue)
		bag.Resolve(file)
		return Result{Issues: bag.Snapshot(), File: file}
	}

	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}

	done = timer.Track("scope")
	ss := trace.Child(ctx, trace.ScopePass, "scope")
	sr := scope.Analyze(parsed.Module, v.rules)
	for _, ref := range sr.Undefined {
		v.reportName(reporter, ref)
	}
	ss.WithExtra("undefined", fmt.Sprint(len(sr.Undefined))).End("")
	done(fmt.Sprintf("%d undefined", len(sr.Undefined)))

	done = timer.Track("imports")
	is := trace.Child(ctx, trace.ScopePass, "imports")
	for _, issue := range v.checker.Check(ctx, sr.Imports) {
		reporter.Report(issue)
	}
	is.End("")
	done(fmt.Sprintf("%d imports", len(sr.Imports)))

	bag.Sort()
	bag.Resolve(file)
	return Result{
		Valid:  !bag.HasErrors(),
		Issues: bag.Snapshot(),
		File:   file,
	}
}

func (v *Validator) reportName(r diag.Reporter, ref scope.Ref) {
	msg := fmt.Sprintf("name '%s' is not defined", ref.Name)
	if stmt, ok := v.rules.KnownImport(ref.Name); ok {
		diag.ReportWarning(r, diag.ScpMissingKnownImport, ref.Span, msg).
			WithSubject(ref.Name).
			WithHint(fmt.Sprintf("add '%s' at the top of the script", stmt)).
			Fixable().
			Emit()
		return
	}
	diag.ReportError(r, diag.ScpUndefinedName, ref.Span, msg).
		WithSubject(ref.Name).
		WithHint(fmt.Sprintf(statelessHint, ref.Name)).
		Emit()
}

// autoFix applies the import rewrite and keeps it only if the rewritten
// script validates cleanly on its own.
func (v *Validator) autoFix(ctx context.Context, res *Result) {
	done := observ.TimerFrom(ctx).Track("fix")
	span := trace.Child(ctx, trace.ScopePass, "fix")

	applied, err := v.engine.Apply(res.File.Text(), res.Issues)
	if err != nil {
		span.End(err.Error())
		done("skipped")
		return
	}
	again := v.check(ctx, source.NewFile(res.File.Path, []byte(applied.Code), res.File.Flags))
	if !again.Valid {
		span.End("rewrite did not validate")
		done("discarded")
		return
	}
	code := applied.Code
	res.FixedCode = &code
	res.AddedImports = applied.Statements()
	span.WithExtra("added", fmt.Sprint(len(res.AddedImports))).End("")
	done(fmt.Sprintf("%d imports added", len(res.AddedImports)))
}
