// Package driver runs the validate → execute → analyze → retry lifecycle
// behind the three tool entry points, and the batch check used by the CLI.
package driver

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"scriptgate/internal/audit"
	"scriptgate/internal/sandbox"
	"scriptgate/internal/trace"
	"scriptgate/internal/triage"
	"scriptgate/internal/validate"
)

const (
	DefaultTimeout = 60 * time.Second
	MaxTimeout     = 300 * time.Second
	// MaxRetries bounds runtime auto-repairs per invocation.
	MaxRetries = 2
	// MaxOutputBytes caps Output and Error; the tail is kept.
	MaxOutputBytes = 64 << 10
)

// Tool names, used in results, audit records and the MCP server.
const (
	ToolExecuteCode = "execute_code"
	ToolRunCommand  = "run_command"
	ToolRunScript   = "run_script"
)

// Execution methods reported when the sandbox was never reached.
const (
	MethodValidation = "validation"
	MethodGuard      = "guard"
)

// Options configures a Driver. Zero values get defaults.
type Options struct {
	Validator  *validate.Validator
	Executor   sandbox.Executor
	Audit      audit.Logger
	Classifier *triage.Classifier

	DefaultTimeout time.Duration
	MaxTimeout     time.Duration
	MaxRetries     int // < 0 disables retries
	// Heartbeat emits trace heartbeats while a sandbox call runs.
	Heartbeat time.Duration
}

// Driver holds no per-call state and is safe for concurrent use.
type Driver struct {
	validator  *validate.Validator
	executor   sandbox.Executor
	audit      audit.Logger
	classifier *triage.Classifier

	defTimeout time.Duration
	maxTimeout time.Duration
	maxRetries int
	heartbeat  time.Duration
}

func New(opts Options) *Driver {
	d := &Driver{
		validator:  opts.Validator,
		executor:   opts.Executor,
		audit:      opts.Audit,
		classifier: opts.Classifier,
		defTimeout: opts.DefaultTimeout,
		maxTimeout: opts.MaxTimeout,
		maxRetries: opts.MaxRetries,
		heartbeat:  opts.Heartbeat,
	}
	if d.validator == nil {
		d.validator = validate.New(validate.Options{})
	}
	if d.executor == nil {
		d.executor = &sandbox.Local{}
	}
	if d.audit == nil {
		d.audit = audit.Nop
	}
	if d.classifier == nil {
		d.classifier = triage.New(d.validator.Rules())
	}
	if d.maxTimeout <= 0 || d.maxTimeout > MaxTimeout {
		d.maxTimeout = MaxTimeout
	}
	if d.defTimeout <= 0 {
		d.defTimeout = DefaultTimeout
	}
	d.defTimeout = min(d.defTimeout, d.maxTimeout)
	switch {
	case opts.MaxRetries < 0:
		d.maxRetries = 0
	case opts.MaxRetries == 0 || opts.MaxRetries > MaxRetries:
		d.maxRetries = MaxRetries
	}
	return d
}

// Validator returns the validator the driver gates scripts with.
func (d *Driver) Validator() *validate.Validator { return d.validator }

// Timeout clamps a caller-supplied timeout: <= 0 means the default.
func (d *Driver) Timeout(requested time.Duration) time.Duration {
	if requested <= 0 {
		return d.defTimeout
	}
	return min(requested, d.maxTimeout)
}

// execute runs one sandbox attempt and folds backend errors into the result.
func (d *Driver) execute(ctx context.Context, req sandbox.Request, attempt int) sandbox.Result {
	span := trace.Child(ctx, trace.ScopeAttempt, fmt.Sprintf("attempt#%d", attempt))
	hb := trace.StartHeartbeat(trace.FromContext(ctx), d.heartbeat, span.ID())
	res, err := d.executor.Execute(ctx, req)
	hb.Stop()
	res = sandbox.Settle(res, err)
	if !res.Success {
		span.Fail()
	}
	span.WithExtra("exit", fmt.Sprint(res.ExitCode)).End(res.Method)
	return res
}

// analyze classifies the failure text of res.
func (d *Driver) analyze(res sandbox.Result) triage.Analysis {
	text := res.Error
	if strings.TrimSpace(text) == "" {
		text = res.Output
	}
	return d.classifier.Classify(text)
}

// invocation is the bookkeeping shared by all entry points.
type invocation struct {
	tool        string
	description string
	start       time.Time
	span        *trace.Span
	category    string
}

func (d *Driver) begin(ctx context.Context, tool, description string) (context.Context, *invocation) {
	span := trace.Child(ctx, trace.ScopeDriver, tool)
	return span.Context(ctx), &invocation{
		tool:        tool,
		description: description,
		start:       time.Now(),
		span:        span,
	}
}

// finish stamps elapsed time, ends the trace span and writes the audit record.
func (d *Driver) finish(ctx context.Context, inv *invocation, res *ToolResult) {
	res.ElapsedMS = time.Since(inv.start).Milliseconds()
	res.Output = truncate(res.Output)
	res.Error = truncate(res.Error)
	if !res.Success {
		inv.span.Fail()
	}
	inv.span.WithExtra("retries", fmt.Sprint(res.AutoRetries)).End(res.ExecutionMethod)

	d.audit.Record(ctx, audit.Record{
		Tool:             inv.tool,
		Description:      inv.description,
		Success:          res.Success,
		ElapsedMS:        res.ElapsedMS,
		Method:           res.ExecutionMethod,
		Retries:          res.AutoRetries,
		ValidationFailed: res.ValidationFailed,
		Blocked:          res.Blocked,
		ErrorCategory:    inv.category,
		RulesVersion:     d.validator.Rules().Version(),
	})
}

// truncate keeps the last MaxOutputBytes of s, cut at a rune boundary.
func truncate(s string) string {
	if len(s) <= MaxOutputBytes {
		return s
	}
	cut := len(s) - MaxOutputBytes
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return fmt.Sprintf("[... %d bytes truncated ...]\n", cut) + s[cut:]
}
