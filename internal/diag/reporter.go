package diag

import "scriptgate/internal/source"

// Reporter — минимальный контракт получения issue от фаз.
// Реализации: BagReporter (кладёт в Bag), FirstReporter (только первая ошибка).
type Reporter interface {
	Report(issue Issue)
}

// ReportBuilder accumulates issue details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	issue    Issue
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		issue:    New(sev, code, primary, msg),
	}
}

// ReportError is a shortcut for SevError issues.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning is a shortcut for SevWarning issues.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// WithNote appends a note.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue = b.issue.WithNote(sp, msg)
	return b
}

// WithHint sets remediation text.
func (b *ReportBuilder) WithHint(hint string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue.Hint = hint
	return b
}

// WithSubject records the name or module the issue is about.
func (b *ReportBuilder) WithSubject(subject string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue.Subject = subject
	return b
}

// Fixable marks the issue as resolvable by the import rewrite.
func (b *ReportBuilder) Fixable() *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue.AutoFixable = true
	return b
}

// Emit sends the issue to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.issue)
	}
	b.emitted = true
}

// Issue returns the accumulated issue without emitting.
func (b *ReportBuilder) Issue() Issue {
	if b == nil {
		return Issue{}
	}
	return b.issue
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(issue Issue) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(issue)
}

// FirstReporter keeps only the first error it receives.
// Lexer and parser stop at the first syntax error, so one is all a pass reports.
type FirstReporter struct {
	First *Issue
}

func (r *FirstReporter) Report(issue Issue) {
	if r.First != nil || issue.Severity < SevError {
		return
	}
	r.First = &issue
}
