package mcpserver

import (
	"context"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptgate/internal/driver"
	"scriptgate/internal/sandbox"
)

func connect(t *testing.T, exec sandbox.Executor) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := New(driver.New(driver.Options{Executor: exec}))
	st, ct := mcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, nil)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotNil(t, tool.InputSchema, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{driver.ToolExecuteCode, driver.ToolRunCommand, driver.ToolRunScript}, names)
}

func TestExecuteCodeRejectsBeforeSandbox(t *testing.T) {
	called := false
	exec := sandbox.ExecutorFunc(func(context.Context, sandbox.Request) (sandbox.Result, error) {
		called = true
		return sandbox.Result{Success: true}, nil
	})
	cs := connect(t, exec)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      driver.ToolExecuteCode,
		Arguments: map[string]any{"code": "x = ("},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "Script rejected before execution")
	assert.False(t, called)

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content %T", res.StructuredContent)
	assert.Equal(t, true, structured["validation_failed"])
}

func TestExecuteCodeRuns(t *testing.T) {
	var got sandbox.Request
	exec := sandbox.ExecutorFunc(func(_ context.Context, req sandbox.Request) (sandbox.Result, error) {
		got = req
		return sandbox.Result{Success: true, Output: "6\n", Method: "fake"}, nil
	})
	cs := connect(t, exec)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      driver.ToolExecuteCode,
		Arguments: map[string]any{"code": "print(sum([1, 2, 3]))\n", "timeout": 5},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "6")
	assert.Equal(t, "print(sum([1, 2, 3]))\n", got.Code)
	assert.Equal(t, int64(5), int64(got.Timeout.Seconds()))
}

func TestRunCommandBlocked(t *testing.T) {
	cs := connect(t, nil)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      driver.ToolRunCommand,
		Arguments: map[string]any{"command": "rm -rf /"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "command blocked")
}
