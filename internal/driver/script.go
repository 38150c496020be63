package driver

import (
	"context"
	"fmt"
	"time"

	"scriptgate/internal/sandbox"
	"scriptgate/internal/source"
)

// ScriptRequest is a run_script call.
type ScriptRequest struct {
	Path        string
	Description string
	Timeout     time.Duration
}

// RunScript validates a saved script without auto-fix and runs it once.
// The validated content is what gets executed, so a file edited between
// the two steps cannot slip past the gate.
func (d *Driver) RunScript(ctx context.Context, req ScriptRequest) ToolResult {
	ctx, inv := d.begin(ctx, ToolRunScript, req.Description)
	res := d.runScript(ctx, req, inv)
	d.finish(ctx, inv, &res)
	return res
}

func (d *Driver) runScript(ctx context.Context, req ScriptRequest, inv *invocation) ToolResult {
	file, err := source.Load(req.Path)
	if err != nil {
		inv.category = "validation"
		return ToolResult{
			ExecutionMethod:  MethodValidation,
			Error:            fmt.Sprintf("cannot read script: %v", err),
			ValidationFailed: true,
		}
	}
	vr := d.validator.ValidateFile(ctx, file, false)
	if !vr.Valid {
		inv.category = "validation"
		return ToolResult{
			ExecutionMethod:  MethodValidation,
			Error:            vr.Format(),
			ValidationFailed: true,
		}
	}

	run := d.execute(ctx, sandbox.Request{
		Language: sandbox.Python,
		Code:     file.Text(),
		Timeout:  d.Timeout(req.Timeout),
	}, 1)
	res := ToolResult{
		Success:         run.Success,
		ExecutionMethod: run.Method,
		Output:          run.Output,
		Error:           run.Error,
		ExitCode:        run.ExitCode,
	}
	if !run.Success {
		a := d.analyze(run)
		inv.category = string(a.Category)
		res.ErrorAnalysis = a.String()
	}
	return res
}
