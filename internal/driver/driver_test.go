package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptgate/internal/audit"
	"scriptgate/internal/rules"
	"scriptgate/internal/sandbox"
	"scriptgate/internal/validate"
)

// scripted replays canned sandbox results and records every request.
type scripted struct {
	mu       sync.Mutex
	requests []sandbox.Request
	results  []sandbox.Result
	err      error
}

func (s *scripted) Execute(_ context.Context, req sandbox.Request) (sandbox.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return sandbox.Result{Method: "fake"}, s.err
	}
	if len(s.results) == 0 {
		return sandbox.Result{Success: true, Method: "fake"}, nil
	}
	res := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	if res.Method == "" {
		res.Method = "fake"
	}
	return res, nil
}

func (s *scripted) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func nameError(name string) sandbox.Result {
	return sandbox.Result{
		ExitCode: 1,
		Error: "Traceback (most recent call last):\n" +
			"  File \"/tmp/script.py\", line 2, in <module>\n" +
			"NameError: name '" + name + "' is not defined\n",
	}
}

func newDriver(exec sandbox.Executor, log audit.Logger) *Driver {
	return New(Options{
		Validator: validate.New(validate.Options{}),
		Executor:  exec,
		Audit:     log,
	})
}

func TestExecuteCodeRejectsSyntaxErrorWithoutSandbox(t *testing.T) {
	exec := &scripted{}
	res := newDriver(exec, nil).ExecuteCode(context.Background(), Request{Code: "x = ("})

	assert.False(t, res.Success)
	assert.True(t, res.ValidationFailed)
	assert.Equal(t, MethodValidation, res.ExecutionMethod)
	assert.Contains(t, res.Error, "[syntax]")
	assert.Zero(t, exec.calls(), "sandbox must not be contacted")
}

func TestExecuteCodeRejectsUnknownName(t *testing.T) {
	exec := &scripted{}
	res := newDriver(exec, nil).ExecuteCode(context.Background(), Request{Code: "print(previous_result)\n"})

	assert.True(t, res.ValidationFailed)
	assert.Contains(t, res.Error, "previous_result")
	assert.Zero(t, exec.calls())
}

func TestExecuteCodeRunsFixedScript(t *testing.T) {
	exec := &scripted{results: []sandbox.Result{{Success: true, Output: "   0\n0  1\n"}}}
	res := newDriver(exec, nil).ExecuteCode(context.Background(), Request{Code: "print(pd.DataFrame([1,2,3]))\n"})

	require.True(t, res.Success, res.String())
	require.Equal(t, 1, exec.calls())
	assert.True(t, strings.HasPrefix(exec.requests[0].Code, "import pandas as pd\n"), exec.requests[0].Code)
	assert.Equal(t, sandbox.Python, exec.requests[0].Language)
	assert.Contains(t, res.Note, "import pandas as pd")
	assert.Zero(t, res.AutoRetries)
}

func TestExecuteCodeRetriesNameError(t *testing.T) {
	exec := &scripted{results: []sandbox.Result{
		nameError("np"),
		{Success: true, Output: "[0. 0. 0.]\n"},
	}}
	src := "from math import *\nprint(np.zeros(3))\n"
	res := newDriver(exec, nil).ExecuteCode(context.Background(), Request{Code: src})

	require.True(t, res.Success, res.String())
	assert.Equal(t, 1, res.AutoRetries)
	require.Equal(t, 2, exec.calls())
	assert.Equal(t, src, exec.requests[0].Code)
	assert.Contains(t, exec.requests[1].Code, "import numpy as np\n")
	assert.Contains(t, res.Note, "retry 1")
}

func TestExecuteCodeRetryBudget(t *testing.T) {
	exec := &scripted{results: []sandbox.Result{
		nameError("np"),
		nameError("plt"),
		nameError("json"),
		{Success: true},
	}}
	src := "from math import *\nprint(np, plt, json)\n"
	res := newDriver(exec, nil).ExecuteCode(context.Background(), Request{Code: src})

	assert.False(t, res.Success)
	assert.Equal(t, MaxRetries, res.AutoRetries)
	assert.Equal(t, MaxRetries+1, exec.calls())
	assert.Contains(t, res.ErrorAnalysis, "[name_error]")
}

func TestExecuteCodeStopsWhenImportAlreadyPresent(t *testing.T) {
	exec := &scripted{results: []sandbox.Result{nameError("np")}}
	src := "import numpy as np\nfrom math import *\ndel np\nprint(np)\n"
	res := newDriver(exec, nil).ExecuteCode(context.Background(), Request{Code: src})

	assert.False(t, res.Success)
	assert.Zero(t, res.AutoRetries)
	assert.Equal(t, 1, exec.calls())
}

func TestExecuteCodeNeverRetriesOtherFailures(t *testing.T) {
	exec := &scripted{results: []sandbox.Result{{
		ExitCode: 1,
		Error:    "Traceback (most recent call last):\n  File \"s.py\", line 1, in <module>\nKeyError: 'total'\n",
	}}}
	res := newDriver(exec, nil).ExecuteCode(context.Background(), Request{Code: "d = {}\nprint(d['total'])\n"})

	assert.False(t, res.Success)
	assert.Equal(t, 1, exec.calls())
	assert.Zero(t, res.AutoRetries)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.ErrorAnalysis, "[key_error]")
}

func TestExecuteCodeBackendError(t *testing.T) {
	exec := &scripted{err: errors.New("connection refused")}
	res := newDriver(exec, nil).ExecuteCode(context.Background(), Request{Code: "print(1)\n"})

	assert.False(t, res.Success)
	assert.False(t, res.ValidationFailed)
	assert.Contains(t, res.Error, "sandbox error: connection refused")
	assert.NotEmpty(t, res.ErrorAnalysis)
}

func TestExecuteCodeTimeoutReachesExecutor(t *testing.T) {
	exec := &scripted{}
	d := newDriver(exec, nil)
	d.ExecuteCode(context.Background(), Request{Code: "print(1)\n", Timeout: 10 * time.Minute})
	d.ExecuteCode(context.Background(), Request{Code: "print(1)\n"})

	require.Equal(t, 2, exec.calls())
	assert.Equal(t, MaxTimeout, exec.requests[0].Timeout)
	assert.Equal(t, DefaultTimeout, exec.requests[1].Timeout)
}

func TestTimeoutClamp(t *testing.T) {
	d := New(Options{MaxTimeout: 30 * time.Second})
	assert.Equal(t, 30*time.Second, d.Timeout(0), "default is capped by the limit")
	assert.Equal(t, 5*time.Second, d.Timeout(5*time.Second))
	assert.Equal(t, 30*time.Second, d.Timeout(time.Hour))

	d = New(Options{MaxTimeout: time.Hour, MaxRetries: 10})
	assert.Equal(t, MaxTimeout, d.Timeout(time.Hour))
	assert.Equal(t, MaxRetries, d.maxRetries)

	assert.Zero(t, New(Options{MaxRetries: -1}).maxRetries)
}

func TestRunCommandBlocked(t *testing.T) {
	exec := &scripted{}
	log := &audit.Memory{}
	res := newDriver(exec, log).RunCommand(context.Background(), CommandRequest{Command: "sudo rm -rf /"})

	assert.False(t, res.Success)
	assert.True(t, res.Blocked)
	assert.Equal(t, MethodGuard, res.ExecutionMethod)
	assert.Contains(t, res.Error, "command blocked")
	assert.Zero(t, exec.calls())

	recs := log.Records()
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Blocked)
	assert.Equal(t, ToolRunCommand, recs[0].Tool)
}

func TestRunCommandExecutesWithShell(t *testing.T) {
	exec := &scripted{results: []sandbox.Result{{ExitCode: 2, Error: "ls: cannot access 'nope': No such file or directory\n"}}}
	res := newDriver(exec, nil).RunCommand(context.Background(), CommandRequest{Command: "ls nope"})

	require.Equal(t, 1, exec.calls())
	assert.Equal(t, sandbox.Bash, exec.requests[0].Language)
	assert.Equal(t, "ls nope", exec.requests[0].Code)
	assert.False(t, res.Success)
	assert.Equal(t, 2, res.ExitCode)
	assert.NotEmpty(t, res.ErrorAnalysis)
}

func TestRunScriptRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.py")
	require.NoError(t, os.WriteFile(path, []byte("def f(:\n"), 0o600))

	exec := &scripted{}
	res := newDriver(exec, nil).RunScript(context.Background(), ScriptRequest{Path: path})

	assert.True(t, res.ValidationFailed)
	assert.Zero(t, exec.calls())
}

func TestRunScriptMissingFile(t *testing.T) {
	res := newDriver(&scripted{}, nil).RunScript(context.Background(), ScriptRequest{Path: filepath.Join(t.TempDir(), "nope.py")})
	assert.True(t, res.ValidationFailed)
	assert.Contains(t, res.Error, "cannot read script")
}

func TestRunScriptNoRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.py")
	src := "x = 1\nprint(np.zeros(x))\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	exec := &scripted{results: []sandbox.Result{nameError("np")}}
	res := newDriver(exec, nil).RunScript(context.Background(), ScriptRequest{Path: path})

	assert.False(t, res.Success)
	assert.Zero(t, res.AutoRetries)
	require.Equal(t, 1, exec.calls())
	assert.Equal(t, src, exec.requests[0].Code, "saved scripts run unmodified")
	assert.Contains(t, res.ErrorAnalysis, "import numpy as np")
}

func TestAuditRecordPerCall(t *testing.T) {
	log := &audit.Memory{}
	exec := &scripted{results: []sandbox.Result{nameError("np"), {Success: true}}}
	d := newDriver(exec, log)

	d.ExecuteCode(context.Background(), Request{Code: "x = (", Description: "broken"})
	d.ExecuteCode(context.Background(), Request{Code: "from math import *\nprint(np)\n", Description: "retry"})

	recs := log.Records()
	require.Len(t, recs, 2)
	assert.True(t, recs[0].ValidationFailed)
	assert.Equal(t, "broken", recs[0].Description)
	assert.Equal(t, "validation", recs[0].ErrorCategory)
	assert.True(t, recs[1].Success)
	assert.Equal(t, 1, recs[1].Retries)
	assert.Equal(t, rules.Default().Version(), recs[1].RulesVersion)
	assert.NotEmpty(t, recs[1].ID)
}

func TestTruncateKeepsTail(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, truncate(short))

	long := strings.Repeat("ж", MaxOutputBytes) + "END"
	out := truncate(long)
	assert.True(t, strings.HasSuffix(out, "END"))
	assert.True(t, strings.HasPrefix(out, "[... "))
	body := out[strings.Index(out, "\n")+1:]
	assert.LessOrEqual(t, len(body), MaxOutputBytes)
	assert.True(t, strings.HasPrefix(body, "ж"), "cut must land on a rune boundary")
}

func TestToolResultString(t *testing.T) {
	res := ToolResult{
		ExecutionMethod: "local",
		ElapsedMS:       12,
		Error:           "NameError: name 'np' is not defined",
		ExitCode:        1,
		ErrorAnalysis:   "[name_error] add import",
		AutoRetries:     2,
	}
	s := res.String()
	assert.Contains(t, s, "Execution failed (local, 12 ms, exit code 1) after 2 automatic retries")
	assert.Contains(t, s, "Analysis: [name_error] add import")

	data, err := ToolResult{Success: true, ExecutionMethod: "remote"}.JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "validation_failed")
	assert.Contains(t, string(data), `"execution_method": "remote"`)
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	write("a.py", "print(1)\n")
	write("b.py", "print(pd.DataFrame())\n")
	write("sub/c.py", "x = (\n")
	write(".venv/d.py", "x = (\n")
	write("__pycache__/e.py", "x = (\n")
	write("notes.txt", "x = (\n")

	var mu sync.Mutex
	seen := map[string]CheckStatus{}
	results, err := newDriver(nil, nil).CheckDir(context.Background(), dir, CheckOptions{
		Jobs:    2,
		AutoFix: true,
		Progress: func(ev CheckEvent) {
			mu.Lock()
			seen[filepath.Base(ev.Path)] = ev.Status
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(dir, "a.py"), results[0].Path)
	assert.Equal(t, CheckPassed, results[0].Status())
	assert.Equal(t, CheckFixable, results[1].Status())
	assert.True(t, results[1].Result.HasFix())
	assert.Equal(t, CheckFailed, results[2].Status())

	assert.Equal(t, map[string]CheckStatus{"a.py": CheckPassed, "b.py": CheckFixable, "c.py": CheckFailed}, seen)

	errs, warns := CountIssues(results)
	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, warns)
}

func TestCheckDirCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("print(1)\n"), 0o600))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newDriver(nil, nil).CheckDir(ctx, dir, CheckOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenizeAndParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o600))

	tr, err := Tokenize(path, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, tr.Tokens)
	assert.Zero(t, tr.Bag.Len())

	pr, err := Parse(path)
	require.NoError(t, err)
	assert.True(t, pr.OK)
	require.NotNil(t, pr.Module)
	assert.Len(t, pr.Module.Body, 1)
}

func TestListScriptsSkipsEnvironments(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"z.py", "a.py", "pkg/m.py", "venv/lib.py", "node_modules/x.py", "lib/site-packages/y.py", "README.md"} {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("pass\n"), 0o600))
	}

	files, err := ListScripts(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.py"),
		filepath.Join(dir, "pkg", "m.py"),
		filepath.Join(dir, "z.py"),
	}, files)
}
