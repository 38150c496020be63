package imports_test

import (
	"context"
	"os/exec"
	"testing"

	"scriptgate/internal/imports"
)

func TestPythonProber(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	found, err := imports.PythonProber{}.Probe(context.Background(), []string{"json", "scriptgate_no_such_module"})
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !found["json"] {
		t.Error("json should resolve")
	}
	if found["scriptgate_no_such_module"] {
		t.Error("missing module reported as installed")
	}
}

func TestPythonProberBadInterpreter(t *testing.T) {
	_, err := imports.PythonProber{Python: "/nonexistent/python3"}.Probe(context.Background(), []string{"json"})
	if err == nil {
		t.Fatal("expected error for missing interpreter")
	}
	found, err := imports.PythonProber{Python: "/nonexistent/python3"}.Probe(context.Background(), nil)
	if err != nil || len(found) != 0 {
		t.Fatalf("empty probe should not start python: %v %v", found, err)
	}
}
