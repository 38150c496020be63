package driver

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ToolResult is everything a caller gets back from an entry point.
type ToolResult struct {
	Success          bool   `json:"success"`
	ExecutionMethod  string `json:"execution_method"`
	ElapsedMS        int64  `json:"elapsed_ms"`
	Output           string `json:"output"`
	Error            string `json:"error"`
	ExitCode         int    `json:"exit_code,omitempty"`
	ErrorAnalysis    string `json:"error_analysis,omitempty"`
	AutoRetries      int    `json:"auto_retries,omitempty"`
	Note             string `json:"note,omitempty"`
	ValidationFailed bool   `json:"validation_failed,omitempty"`
	Blocked          bool   `json:"blocked,omitempty"`
}

// JSON encodes the result for machine callers.
func (r ToolResult) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// String renders the result for chat-style callers.
func (r ToolResult) String() string {
	var sb strings.Builder
	switch {
	case r.Success:
		fmt.Fprintf(&sb, "Execution succeeded (%s, %d ms)", r.ExecutionMethod, r.ElapsedMS)
	case r.ValidationFailed:
		sb.WriteString("Script rejected before execution")
	case r.Blocked:
		sb.WriteString("Command blocked before execution")
	default:
		fmt.Fprintf(&sb, "Execution failed (%s, %d ms", r.ExecutionMethod, r.ElapsedMS)
		if r.ExitCode != 0 {
			fmt.Fprintf(&sb, ", exit code %d", r.ExitCode)
		}
		sb.WriteString(")")
	}
	if r.AutoRetries > 0 {
		fmt.Fprintf(&sb, " after %d automatic retr%s", r.AutoRetries, plural(r.AutoRetries, "y", "ies"))
	}
	sb.WriteString("\n")
	if out := strings.TrimRight(r.Output, "\n"); out != "" {
		sb.WriteString("\nOutput:\n")
		sb.WriteString(out)
		sb.WriteString("\n")
	}
	if errText := strings.TrimRight(r.Error, "\n"); errText != "" {
		sb.WriteString("\nError:\n")
		sb.WriteString(errText)
		sb.WriteString("\n")
	}
	if r.ErrorAnalysis != "" {
		sb.WriteString("\nAnalysis: ")
		sb.WriteString(r.ErrorAnalysis)
		sb.WriteString("\n")
	}
	if r.Note != "" {
		sb.WriteString("\nNote: ")
		sb.WriteString(r.Note)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
