package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scriptgate/internal/fix"
	"scriptgate/internal/sandbox"
	"scriptgate/internal/triage"
)

// Request is an execute_code call.
type Request struct {
	Code        string
	Description string
	// Timeout <= 0 selects the default; larger values are capped.
	Timeout time.Duration
}

// ExecuteCode validates, runs and, for a narrow class of runtime failures,
// repairs and reruns a Python script.
func (d *Driver) ExecuteCode(ctx context.Context, req Request) ToolResult {
	ctx, inv := d.begin(ctx, ToolExecuteCode, req.Description)
	res := d.executeCode(ctx, req, inv)
	d.finish(ctx, inv, &res)
	return res
}

func (d *Driver) executeCode(ctx context.Context, req Request, inv *invocation) ToolResult {
	vr := d.validator.ValidateContext(ctx, req.Code, true)
	code := req.Code
	var notes []string
	switch {
	case vr.HasFix():
		code = vr.Code()
		notes = append(notes, "auto-added imports: "+strings.Join(vr.AddedImports, "; "))
	case !vr.Valid:
		inv.category = "validation"
		return ToolResult{
			ExecutionMethod:  MethodValidation,
			Error:            vr.Format(),
			ValidationFailed: true,
		}
	}

	timeout := d.Timeout(req.Timeout)
	retries := 0
	for attempt := 1; ; attempt++ {
		run := d.execute(ctx, sandbox.Request{
			Language: sandbox.Python,
			Code:     code,
			Timeout:  timeout,
		}, attempt)
		if run.Success {
			return ToolResult{
				Success:         true,
				ExecutionMethod: run.Method,
				Output:          run.Output,
				Error:           run.Error,
				AutoRetries:     retries,
				Note:            strings.Join(notes, "\n"),
			}
		}

		analysis := d.analyze(run)
		if retries < d.maxRetries && ctx.Err() == nil {
			if next, ok := d.repair(code, analysis); ok {
				code = next
				retries++
				notes = append(notes, fmt.Sprintf("retry %d: added '%s' after %s", retries, analysis.Import, analysis.Category))
				continue
			}
		}

		inv.category = string(analysis.Category)
		return ToolResult{
			ExecutionMethod: run.Method,
			Output:          run.Output,
			Error:           run.Error,
			ExitCode:        run.ExitCode,
			ErrorAnalysis:   analysis.String(),
			AutoRetries:     retries,
			Note:            strings.Join(notes, "\n"),
		}
	}
}

// repair injects the known import for a name-lookup failure.
// Any other category, or a rewrite that no longer parses, is terminal.
func (d *Driver) repair(code string, a triage.Analysis) (string, bool) {
	if !a.Retriable() {
		return "", false
	}
	next, err := fix.InjectImport(code, a.Import)
	if err != nil {
		return "", false
	}
	return next, true
}
