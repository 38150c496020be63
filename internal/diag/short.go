package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders issues one per line: "path:line:col: SEVERITY CODE message".
// Hints follow on an indented line when includeHints is set.
func FormatShort(issues []Issue, path string, includeHints bool) string {
	if len(issues) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range issues {
		msg := strings.ReplaceAll(d.Message, "\n", "\\n")
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s %s\n", path, d.Line, d.Column, d.Severity, d.Code.ID(), msg)
		if includeHints && d.Hint != "" {
			fmt.Fprintf(&sb, "  hint: %s\n", strings.ReplaceAll(d.Hint, "\n", " "))
		}
	}
	return sb.String()
}
