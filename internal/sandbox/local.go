package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// MethodLocal is reported in Result.Method by Local.
const MethodLocal = "local"

// Local runs scripts as child processes of the current host.
// It is not an isolation boundary; use it for development and tests.
type Local struct {
	Python string // default "python3"
	Shell  string // default "bash"
	// WorkDir is where temp scripts are written and run. Empty: os.TempDir().
	WorkDir string
	Env     []string
}

func (l *Local) interpreter(lang Language) (string, []string, error) {
	switch lang {
	case Python, "":
		py := l.Python
		if py == "" {
			py = "python3"
		}
		return py, []string{"-u"}, nil
	case Bash:
		sh := l.Shell
		if sh == "" {
			sh = "bash"
		}
		return sh, nil, nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
}

// Execute writes the code to a temp file and runs it under req.Timeout.
func (l *Local) Execute(ctx context.Context, req Request) (Result, error) {
	bin, args, err := l.interpreter(req.Language)
	if err != nil {
		return Result{Method: MethodLocal}, err
	}
	if _, err := exec.LookPath(bin); err != nil {
		return Result{Method: MethodLocal}, fmt.Errorf("%w: %s not found: %v", ErrBackendUnavailable, bin, err)
	}

	path := req.Path
	if path == "" {
		path, err = l.writeTemp(req)
		if err != nil {
			return Result{Method: MethodLocal}, err
		}
		defer func() { _ = os.Remove(path) }()
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	// #nosec G204 -- interpreter is configured by the operator, path is ours
	cmd := exec.CommandContext(ctx, bin, append(args, path)...)
	cmd.Dir = l.WorkDir
	// дочерние процессы могут держать pipe после kill
	cmd.WaitDelay = time.Second
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{
		Method: MethodLocal,
		Output: stdout.String(),
		Error:  strings.TrimRight(stderr.String(), "\n"),
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		terr := timeoutError(req.Timeout)
		res.ExitCode = -1
		res.Error = joinErr(res.Error, terr.Error())
		return res, terr
	}
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		res.Success = true
	case errors.As(runErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if res.Error == "" {
			res.Error = fmt.Sprintf("process exited with code %d", res.ExitCode)
		}
	default:
		return res, fmt.Errorf("%w: %v", ErrBackendUnavailable, runErr)
	}
	return res, nil
}

func (l *Local) writeTemp(req Request) (string, error) {
	ext, err := extension(req.Language)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(l.WorkDir, "scriptgate-*"+ext)
	if err != nil {
		return "", fmt.Errorf("%w: create script file: %v", ErrBackendUnavailable, err)
	}
	if _, err := f.WriteString(req.Code); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: write script file: %v", ErrBackendUnavailable, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close script file: %v", ErrBackendUnavailable, err)
	}
	return f.Name(), nil
}

func joinErr(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
