// Package mcpserver exposes the driver's entry points as MCP tools.
package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"scriptgate/internal/driver"
	"scriptgate/internal/version"
)

// ExecuteCodeInput are the execute_code arguments.
type ExecuteCodeInput struct {
	Code        string `json:"code" jsonschema:"Python script to validate and run; each call runs in a fresh environment"`
	Description string `json:"description,omitempty" jsonschema:"short note on what the script does, kept in the audit log"`
	Timeout     int    `json:"timeout,omitempty" jsonschema:"timeout in seconds; default 60, capped at 300"`
}

// RunCommandInput are the run_command arguments.
type RunCommandInput struct {
	Command     string `json:"command" jsonschema:"shell command to run"`
	Description string `json:"description,omitempty" jsonschema:"short note on what the command does"`
	Timeout     int    `json:"timeout,omitempty" jsonschema:"timeout in seconds; default 60, capped at 300"`
}

// RunScriptInput are the run_script arguments.
type RunScriptInput struct {
	Path        string `json:"path" jsonschema:"path of a saved Python script"`
	Description string `json:"description,omitempty" jsonschema:"short note on what the script does"`
	Timeout     int    `json:"timeout,omitempty" jsonschema:"timeout in seconds; default 60, capped at 300"`
}

// New builds a server with the three tools registered.
func New(d *driver.Driver) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "scriptgate",
		Version: version.Version,
	}, nil)

	destructive := true
	mcp.AddTool(server, &mcp.Tool{
		Name: driver.ToolExecuteCode,
		Description: "Validate a Python script (syntax, undefined names, imports), add missing " +
			"well-known imports, run it in the sandbox and retry once per missing import.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: &destructive},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in ExecuteCodeInput) (*mcp.CallToolResult, driver.ToolResult, error) {
		res := d.ExecuteCode(ctx, driver.Request{
			Code:        in.Code,
			Description: in.Description,
			Timeout:     seconds(in.Timeout),
		})
		return toCallResult(res), res, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        driver.ToolRunCommand,
		Description: "Run a shell command in the sandbox. Destructive commands are refused.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: &destructive},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in RunCommandInput) (*mcp.CallToolResult, driver.ToolResult, error) {
		res := d.RunCommand(ctx, driver.CommandRequest{
			Command:     in.Command,
			Description: in.Description,
			Timeout:     seconds(in.Timeout),
		})
		return toCallResult(res), res, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        driver.ToolRunScript,
		Description: "Validate and run a saved Python script once, without automatic fixes.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: &destructive},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in RunScriptInput) (*mcp.CallToolResult, driver.ToolResult, error) {
		res := d.RunScript(ctx, driver.ScriptRequest{
			Path:        in.Path,
			Description: in.Description,
			Timeout:     seconds(in.Timeout),
		})
		return toCallResult(res), res, nil
	})

	return server
}

// Serve runs the server over stdin/stdout until ctx ends or the client leaves.
func Serve(ctx context.Context, d *driver.Driver) error {
	return New(d).Run(ctx, &mcp.StdioTransport{})
}

func toCallResult(res driver.ToolResult) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.String()}},
		IsError: !res.Success,
	}
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
