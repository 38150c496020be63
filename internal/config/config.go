// Package config loads scriptgate.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"scriptgate/internal/audit"
	"scriptgate/internal/rules"
)

// FileName is the configuration file looked up by Find.
const FileName = "scriptgate.toml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	DefaultTimeout    = 60 * time.Second
	DefaultMaxTimeout = 300 * time.Second
	DefaultMaxRetries = 2
)

type Config struct {
	Driver DriverConfig `toml:"driver"`
	Remote RemoteConfig `toml:"remote"`
	Audit  AuditConfig  `toml:"audit"`
	Rules  RulesConfig  `toml:"rules"`

	// Path is where the file was loaded from; empty for defaults.
	Path string `toml:"-"`
}

type DriverConfig struct {
	DefaultTimeout int    `toml:"default_timeout"` // секунды
	MaxTimeout     int    `toml:"max_timeout"`
	MaxRetries     int    `toml:"max_retries"`
	Backend        string `toml:"backend"`
	Python         string `toml:"python"`
	ProbeImports   bool   `toml:"probe_imports"`
}

type RemoteConfig struct {
	BaseURL string `toml:"base_url"`
	WorkDir string `toml:"workdir"`
}

type AuditConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

type RulesConfig struct {
	ImplicitNames []string          `toml:"implicit_names"`
	KnownImports  map[string]string `toml:"known_imports"`
	CommonModules ModuleList        `toml:"common_modules"`
	RiskyModules  map[string]string `toml:"risky_modules"`
}

type ModuleList struct {
	Names []string `toml:"names"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Driver: DriverConfig{
			DefaultTimeout: int(DefaultTimeout / time.Second),
			MaxTimeout:     int(DefaultMaxTimeout / time.Second),
			MaxRetries:     DefaultMaxRetries,
			Backend:        "local",
			Python:         "python3",
			ProbeImports:   true,
		},
		Remote: RemoteConfig{WorkDir: "/tmp/scriptgate"},
		Audit:  AuditConfig{Format: "ndjson"},
	}
}

// Load decodes path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir looking for scriptgate.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads explicit when set, otherwise the nearest scriptgate.toml
// above startDir, otherwise the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks ranges and enums.
func (c *Config) Validate() error {
	d := c.Driver
	switch {
	case d.DefaultTimeout <= 0:
		return fmt.Errorf("%w: [driver].default_timeout must be positive", ErrInvalid)
	case d.MaxTimeout <= 0:
		return fmt.Errorf("%w: [driver].max_timeout must be positive", ErrInvalid)
	case d.DefaultTimeout > d.MaxTimeout:
		return fmt.Errorf("%w: [driver].default_timeout exceeds max_timeout", ErrInvalid)
	case d.MaxRetries < 0 || d.MaxRetries > DefaultMaxRetries:
		return fmt.Errorf("%w: [driver].max_retries must be between 0 and %d", ErrInvalid, DefaultMaxRetries)
	}
	switch d.Backend {
	case "local":
	case "remote":
		if strings.TrimSpace(c.Remote.BaseURL) == "" {
			return fmt.Errorf("%w: [remote].base_url is required for the remote backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: [driver].backend must be local or remote, got %q", ErrInvalid, d.Backend)
	}
	if _, err := audit.ParseFormat(c.Audit.Format); err != nil {
		return fmt.Errorf("%w: [audit].format: %v", ErrInvalid, err)
	}
	for name, stmt := range c.Rules.KnownImports {
		if !strings.HasPrefix(stmt, "import ") && !strings.HasPrefix(stmt, "from ") {
			return fmt.Errorf("%w: [rules.known_imports].%s must be an import statement", ErrInvalid, name)
		}
	}
	return nil
}

// Timeouts returns the default and maximum execution timeouts.
func (c *Config) Timeouts() (def, limit time.Duration) {
	return time.Duration(c.Driver.DefaultTimeout) * time.Second, time.Duration(c.Driver.MaxTimeout) * time.Second
}

// Overrides converts [rules] into table overrides.
func (c *Config) Overrides() rules.Overrides {
	return rules.Overrides{
		ImplicitNames: c.Rules.ImplicitNames,
		KnownImports:  c.Rules.KnownImports,
		CommonModules: c.Rules.CommonModules.Names,
		RiskyModules:  c.Rules.RiskyModules,
	}
}

// RuleSet merges the overrides into the built-in tables.
func (c *Config) RuleSet() *rules.Set {
	return rules.Merge(rules.Default(), c.Overrides())
}
