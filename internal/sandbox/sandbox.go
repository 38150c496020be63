// Package sandbox holds the executor contract the driver runs scripts
// through, plus a local os/exec adapter and an HTTP adapter for a remote
// sandbox service.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTimeout is returned when an execution exceeded its deadline.
	ErrTimeout = errors.New("execution timed out")
	// ErrBackendUnavailable is returned when the executor could not run the code at all.
	ErrBackendUnavailable = errors.New("sandbox backend unavailable")
	// ErrUnsupportedLanguage is returned for languages an adapter cannot run.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Language is the interpreter a request targets.
type Language string

const (
	Python Language = "python"
	Bash   Language = "bash"
)

// Request is one execution.
type Request struct {
	Language Language
	Code     string
	Timeout  time.Duration
	// Path, when set, names an existing script to run instead of Code.
	Path string
}

// Result is what the sandbox reports back.
type Result struct {
	Success  bool
	Output   string
	Error    string
	ExitCode int
	Method   string
}

// Executor runs code in some isolated environment. Execute is the only
// blocking call in a driver invocation and must honour ctx and Timeout.
//
// A returned error means the backend failed; script failures are reported
// through Result with Success=false.
type Executor interface {
	Execute(ctx context.Context, req Request) (Result, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, req Request) (Result, error)

func (f ExecutorFunc) Execute(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// Settle folds a backend error into res, keeping any partial output, so
// callers always have failure text to classify.
func Settle(res Result, err error) Result {
	if err == nil {
		return res
	}
	res.Success = false
	if res.ExitCode == 0 {
		res.ExitCode = -1
	}
	msg := err.Error()
	if !errors.Is(err, ErrTimeout) {
		msg = "sandbox error: " + msg
	}
	if !strings.Contains(res.Error, err.Error()) {
		res.Error = joinErr(res.Error, msg)
	}
	return res
}

func timeoutError(d time.Duration) error {
	return fmt.Errorf("%w after %s", ErrTimeout, d.Round(time.Millisecond))
}

func extension(lang Language) (string, error) {
	switch lang {
	case Python, "":
		return ".py", nil
	case Bash:
		return ".sh", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
}
