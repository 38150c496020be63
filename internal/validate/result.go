package validate

import (
	"fmt"
	"strings"

	"scriptgate/internal/diag"
	"scriptgate/internal/source"
)

// Result is the outcome of one validation pass.
type Result struct {
	// Valid is true when no issue has error severity.
	Valid  bool
	Issues []diag.Issue
	// FixedCode is set only when the import rewrite re-validated cleanly.
	FixedCode    *string
	AddedImports []string
	File         *source.File
	// Limit caps Shown; <= 0 shows everything.
	Limit int
}

// Shown returns the issues to print, at most Limit of them.
func (r Result) Shown() []diag.Issue {
	if r.Limit > 0 && len(r.Issues) > r.Limit {
		return r.Issues[:r.Limit]
	}
	return r.Issues
}

// Hidden returns how many issues Shown leaves out.
func (r Result) Hidden() int {
	return len(r.Issues) - len(r.Shown())
}

// HasFix reports whether FixedCode is set.
func (r Result) HasFix() bool {
	return r.FixedCode != nil
}

// Code returns FixedCode when present, otherwise the validated text.
func (r Result) Code() string {
	if r.FixedCode != nil {
		return *r.FixedCode
	}
	if r.File != nil {
		return r.File.Text()
	}
	return ""
}

// Errors returns error-severity issues only.
func (r Result) Errors() []diag.Issue {
	var out []diag.Issue
	for _, is := range r.Issues {
		if is.IsBlocking() {
			out = append(out, is)
		}
	}
	return out
}

// Count returns the number of issues in a category.
func (r Result) Count(cat diag.Category) int {
	n := 0
	for _, is := range r.Issues {
		if is.Category() == cat {
			n++
		}
	}
	return n
}

// Format renders the issue list for the calling agent.
func (r Result) Format() string {
	if len(r.Issues) == 0 {
		return "Validation passed: no issues found."
	}
	var sb strings.Builder
	errs := len(r.Errors())
	fmt.Fprintf(&sb, "Validation found %d issue(s) (%d error(s), %d warning(s)):\n",
		len(r.Issues), errs, len(r.Issues)-errs)
	for _, is := range r.Shown() {
		sb.WriteString("- ")
		sb.WriteString(is.Severity.String())
		sb.WriteString(" [")
		sb.WriteString(is.Category().String())
		sb.WriteString("]")
		if is.Line > 0 {
			fmt.Fprintf(&sb, " line %d", is.Line)
		}
		sb.WriteString(": ")
		sb.WriteString(is.Message)
		if is.AutoFixable {
			sb.WriteString(" (auto-fixable)")
		}
		sb.WriteString("\n")
		if is.Hint != "" {
			sb.WriteString("  hint: ")
			sb.WriteString(is.Hint)
			sb.WriteString("\n")
		}
	}
	if n := r.Hidden(); n > 0 {
		fmt.Fprintf(&sb, "... and %d more issue(s)\n", n)
	}
	if len(r.AddedImports) > 0 && r.FixedCode != nil {
		fmt.Fprintf(&sb, "Auto-fix added: %s\n", strings.Join(r.AddedImports, "; "))
	}
	return strings.TrimRight(sb.String(), "\n")
}
