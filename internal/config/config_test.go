package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptgate/internal/rules"
)

func write(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := write(t, t.TempDir(), `
[driver]
default_timeout = 30

[rules]
implicit_names = ["i", "row"]

[rules.known_imports]
tab = "import tabulate as tab"

[rules.common_modules]
names = ["polars", "torch"]

[rules.risky_modules]
django = "http.server"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)

	def, limit := cfg.Timeouts()
	assert.Equal(t, 30*time.Second, def)
	assert.Equal(t, DefaultMaxTimeout, limit)
	assert.Equal(t, DefaultMaxRetries, cfg.Driver.MaxRetries)
	assert.Equal(t, "local", cfg.Driver.Backend)
	assert.True(t, cfg.Driver.ProbeImports)

	rs := cfg.RuleSet()
	stmt, ok := rs.KnownImport("tab")
	assert.True(t, ok)
	assert.Equal(t, "import tabulate as tab", stmt)
	assert.True(t, rs.IsImplicit("row"))
	assert.False(t, rs.IsImplicit("item"))
	assert.True(t, rs.IsCommon("torch"))
	_, risky := rs.Risky("torch")
	assert.False(t, risky)
	_, risky = rs.Risky("django")
	assert.True(t, risky)
	assert.Equal(t, rules.Version+"+local", rs.Version())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "[driver]\nretries = 3\n",
		"timeout order":    "[driver]\ndefault_timeout = 400\n",
		"retries":          "[driver]\nmax_retries = 5\n",
		"backend":          "[driver]\nbackend = \"docker\"\n",
		"remote needs url": "[driver]\nbackend = \"remote\"\n",
		"audit format":     "[audit]\nformat = \"xml\"\n",
		"not an import":    "[rules.known_imports]\npd = \"pandas\"\n",
		"negative max":     "[driver]\nmax_timeout = -1\n",
		"zero default":     "[driver]\ndefault_timeout = 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, t.TempDir(), body))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Load(write(t, t.TempDir(), "[driver\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := write(t, root, "[driver]\nmax_retries = 1\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, path, found)

	cfg, err := Resolve("", nested)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Driver.MaxRetries)
}

func TestResolveWithoutFile(t *testing.T) {
	cfg, err := Resolve("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Overrides().IsZero())
	assert.Same(t, rules.Default(), cfg.RuleSet())
}

func TestWriteRulesRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRules(&buf, rules.Default()))
	assert.Contains(t, buf.String(), "# rules version "+rules.Version)

	path := write(t, t.TempDir(), buf.String())
	cfg, err := Load(path)
	require.NoError(t, err)
	stmt, ok := cfg.RuleSet().KnownImport("pd")
	assert.True(t, ok)
	assert.Equal(t, "import pandas as pd", stmt)
}
