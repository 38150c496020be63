package driver

import (
	"context"
	"time"

	"scriptgate/internal/guard"
	"scriptgate/internal/sandbox"
)

// CommandRequest is a run_command call.
type CommandRequest struct {
	Command     string
	Description string
	Timeout     time.Duration
}

// RunCommand runs a shell command after the blocklist check.
// No static validation and no retry.
func (d *Driver) RunCommand(ctx context.Context, req CommandRequest) ToolResult {
	ctx, inv := d.begin(ctx, ToolRunCommand, req.Description)
	res := d.runCommand(ctx, req, inv)
	d.finish(ctx, inv, &res)
	return res
}

func (d *Driver) runCommand(ctx context.Context, req CommandRequest, inv *invocation) ToolResult {
	if err := guard.Check(req.Command); err != nil {
		inv.category = "blocked"
		return ToolResult{
			ExecutionMethod: MethodGuard,
			Error:           err.Error(),
			Blocked:         true,
		}
	}

	run := d.execute(ctx, sandbox.Request{
		Language: sandbox.Bash,
		Code:     req.Command,
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
