package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MethodRemote is reported in Result.Method by Remote.
const MethodRemote = "remote"

// Remote runs scripts through an HTTP sandbox service: the code is written
// with POST /v1/file/write and run with POST /v1/shell/exec.
type Remote struct {
	BaseURL string
	WorkDir string // default "/tmp"
	Python  string // default "python3"
	Client  *http.Client
}

// envelope is the response shape of every sandbox endpoint.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

type fileWriteResult struct {
	File         string `json:"file"`
	BytesWritten int    `json:"bytes_written,omitempty"`
}

type shellExecResult struct {
	SessionID string  `json:"session_id,omitempty"`
	Command   string  `json:"command"`
	Status    string  `json:"status"`
	Output    *string `json:"output,omitempty"`
	Stderr    *string `json:"stderr,omitempty"`
	ExitCode  *int    `json:"exit_code,omitempty"`
}

// Execute uploads the script (unless req.Path names one already in the
// sandbox) and runs it.
func (r *Remote) Execute(ctx context.Context, req Request) (Result, error) {
	res := Result{Method: MethodRemote}
	if strings.TrimSpace(r.BaseURL) == "" {
		return res, fmt.Errorf("%w: remote base URL is not configured", ErrBackendUnavailable)
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout+5*time.Second)
		defer cancel()
	}

	file := req.Path
	if file == "" {
		ext, err := extension(req.Language)
		if err != nil {
			return res, err
		}
		dir := r.WorkDir
		if dir == "" {
			dir = "/tmp"
		}
		file = path.Join(dir, "scriptgate-"+uuid.NewString()+ext)
		var wrote envelope[fileWriteResult]
		if err := r.do(ctx, "/v1/file/write", map[string]any{"file": file, "content": req.Code}, &wrote); err != nil {
			return res, r.wrap(ctx, req, err)
		}
		if !wrote.Success {
			return res, fmt.Errorf("%w: file write failed: %s", ErrBackendUnavailable, wrote.Message)
		}
		defer r.remove(ctx, file)
	}

	command, err := r.command(req.Language, file)
	if err != nil {
		return res, err
	}
	payload := map[string]any{"command": command}
	if req.Timeout > 0 {
		payload["timeout"] = req.Timeout.Seconds()
	}
	var ran envelope[shellExecResult]
	if err := r.do(ctx, "/v1/shell/exec", payload, &ran); err != nil {
		return res, r.wrap(ctx, req, err)
	}
	if !ran.Success || ran.Data == nil {
		if strings.Contains(strings.ToLower(ran.Message), "timeout") || strings.Contains(strings.ToLower(ran.Message), "timed out") {
			return res, timeoutError(req.Timeout)
		}
		return res, fmt.Errorf("%w: shell exec failed: %s", ErrBackendUnavailable, ran.Message)
	}

	data := ran.Data
	if data.Output != nil {
		res.Output = *data.Output
	}
	if data.Stderr != nil {
		res.Error = strings.TrimRight(*data.Stderr, "\n")
	}
	if data.ExitCode != nil {
		res.ExitCode = *data.ExitCode
	}
	switch {
	case data.Status == "timeout" || data.Status == "timed_out":
		res.ExitCode = -1
		return res, timeoutError(req.Timeout)
	case res.ExitCode != 0:
		// некоторые сервисы пишут stderr в общий output
		if res.Error == "" {
			res.Error = strings.TrimRight(res.Output, "\n")
			res.Output = ""
		}
	default:
		res.Success = true
	}
	return res, nil
}

func (r *Remote) command(lang Language, file string) (string, error) {
	switch lang {
	case Python, "":
		py := r.Python
		if py == "" {
			py = "python3"
		}
		return py + " -u " + shellQuote(file), nil
	case Bash:
		return "bash " + shellQuote(file), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
}

// remove deletes an uploaded script; failures are ignored. The run's own
// deadline may already be spent, so it gets a short one of its own.
func (r *Remote) remove(ctx context.Context, file string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	var out envelope[shellExecResult]
	_ = r.do(ctx, "/v1/shell/exec", map[string]any{"command": "rm -f " + shellQuote(file)}, &out)
}

func (r *Remote) wrap(ctx context.Context, req Request, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeoutError(req.Timeout)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}

func (r *Remote) do(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sandbox request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(r.BaseURL, "/")+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sandbox request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sandbox request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sandbox request failed: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode sandbox response: %w", err)
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
