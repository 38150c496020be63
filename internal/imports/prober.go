package imports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Prober answers whether modules resolve in the target interpreter.
type Prober interface {
	Probe(ctx context.Context, modules []string) (map[string]bool, error)
}

// DefaultProbeTimeout bounds one probe subprocess.
const DefaultProbeTimeout = 5 * time.Second

const probeScript = `import importlib.util, json, sys
out = {}
for name in sys.argv[1:]:
    try:
        out[name] = importlib.util.find_spec(name) is not None
    except Exception:
        out[name] = False
print(json.dumps(out))
`

// PythonProber asks a python interpreter via importlib.util.find_spec.
type PythonProber struct {
	Python  string        // путь к интерпретатору, по умолчанию python3
	Timeout time.Duration // по умолчанию DefaultProbeTimeout
}

func (p PythonProber) Probe(ctx context.Context, modules []string) (map[string]bool, error) {
	if len(modules) == 0 {
		return map[string]bool{}, nil
	}
	python := p.Python
	if python == "" {
		python = "python3"
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append([]string{"-I", "-c", probeScript}, modules...)
	cmd := exec.CommandContext(ctx, python, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("probe %s: %w (%s)", python, err, bytes.TrimSpace(stderr.Bytes()))
	}
	found := make(map[string]bool, len(modules))
	if err := json.Unmarshal(stdout.Bytes(), &found); err != nil {
		return nil, fmt.Errorf("probe %s: decode output: %w", python, err)
	}
	return found, nil
}

// StaticProber reports a fixed set of installed modules. It never fails.
type StaticProber map[string]bool

func (s StaticProber) Probe(_ context.Context, modules []string) (map[string]bool, error) {
	out := make(map[string]bool, len(modules))
	for _, m := range modules {
		out[m] = s[m]
	}
	return out, nil
}

// FailingProber always returns Err; useful when probing is disabled but the
// caller still wants "could not verify" warnings.
type FailingProber struct{ Err error }

func (f FailingProber) Probe(context.Context, []string) (map[string]bool, error) {
	return nil, f.Err
}
