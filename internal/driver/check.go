package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"scriptgate/internal/diag"
	"scriptgate/internal/source"
	"scriptgate/internal/validate"
)

// CheckStatus is the state of one file in a batch check.
type CheckStatus uint8

const (
	CheckQueued CheckStatus = iota
	CheckRunning
	CheckPassed
	CheckFixable
	CheckFailed
)

func (s CheckStatus) String() string {
	switch s {
	case CheckQueued:
		return "queued"
	case CheckRunning:
		return "checking"
	case CheckPassed:
		return "ok"
	case CheckFixable:
		return "fixable"
	case CheckFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CheckEvent reports progress of a batch check.
type CheckEvent struct {
	Path   string
	Status CheckStatus
	Issues int
}

// CheckOptions tunes CheckDir.
type CheckOptions struct {
	Jobs    int  // <= 0 means GOMAXPROCS
	AutoFix bool // compute FixedCode for fixable scripts
	// Progress, if set, is called from worker goroutines.
	Progress func(CheckEvent)
}

// CheckResult is the validation result of one file.
type CheckResult struct {
	Path   string
	Result validate.Result
	// LoadErr is set when the file could not be read; Result is empty then.
	LoadErr error
}

// Status summarizes the result for progress output.
func (r CheckResult) Status() CheckStatus {
	switch {
	case r.LoadErr != nil || !r.Result.Valid && !r.Result.HasFix():
		return CheckFailed
	case r.Result.HasFix() || len(r.Result.Issues) > 0:
		return CheckFixable
	default:
		return CheckPassed
	}
}

// CheckFile validates one script from disk.
func (d *Driver) CheckFile(ctx context.Context, path string, autoFix bool) CheckResult {
	file, err := source.Load(path)
	if err != nil {
		return CheckResult{Path: path, LoadErr: err}
	}
	return CheckResult{Path: path, Result: d.validator.ValidateFile(ctx, file, autoFix)}
}

// CheckDir validates every *.py file under dir in parallel.
// Results come back in path order.
func (d *Driver) CheckDir(ctx context.Context, dir string, opts CheckOptions) ([]CheckResult, error) {
	files, err := ListScripts(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	progress := opts.Progress
	if progress == nil {
		progress = func(CheckEvent) {}
	}
	for _, path := range files {
		progress(CheckEvent{Path: path, Status: CheckQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индекс i уникален для каждой горутины, мьютекс не нужен
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			progress(CheckEvent{Path: path, Status: CheckRunning})
			res := d.CheckFile(gctx, path, opts.AutoFix)
			results[i] = res
			progress(CheckEvent{Path: path, Status: res.Status(), Issues: len(res.Result.Issues)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListScripts returns the sorted *.py files under dir, skipping hidden
// directories, bytecode caches and virtual environments.
func ListScripts(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "__pycache__", "venv", "node_modules", "site-packages":
		return true
	}
	return false
}

// CountIssues totals issues by severity over a batch.
func CountIssues(results []CheckResult) (errors, warnings int) {
	for _, r := range results {
		if r.LoadErr != nil {
			errors++
			continue
		}
		for _, is := range r.Result.Issues {
			switch is.Severity {
			case diag.SevError:
				errors++
			case diag.SevWarning:
				warnings++
			}
		}
	}
	return errors, warnings
}
