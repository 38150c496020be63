package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"scriptgate/internal/audit"
	"scriptgate/internal/config"
	"scriptgate/internal/driver"
	"scriptgate/internal/imports"
	"scriptgate/internal/sandbox"
	"scriptgate/internal/validate"
)

// app is the wiring shared by subcommands.
type app struct {
	cfg       config.Config
	validator *validate.Validator
	driver    *driver.Driver
	audit     io.Closer
}

// loadConfig resolves --config or the nearest scriptgate.toml.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	return config.Resolve(explicit, wd)
}

// newProber returns nil when probing is off or scripts run on a remote
// backend: the local interpreter says nothing about the remote one, so those
// modules stay "could not verify" warnings.
func newProber(d config.DriverConfig) imports.Prober {
	if !d.ProbeImports || d.Backend == "remote" {
		return nil
	}
	return imports.PythonProber{Python: d.Python}
}

// newApp builds the validator, executor and audit sink from configuration.
// withAudit opens the audit log; pure analysis commands skip it.
func newApp(cmd *cobra.Command, withAudit bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	maxIssues, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	heartbeat, err := cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	v := validate.New(validate.Options{
		Rules:     cfg.RuleSet(),
		Prober:    newProber(cfg.Driver),
		MaxIssues: maxIssues,
	})

	a := &app{cfg: cfg, validator: v}

	var logger audit.Logger = audit.Nop
	if withAudit && cfg.Audit.Path != "" {
		format, err := audit.ParseFormat(cfg.Audit.Format)
		if err != nil {
			return nil, err
		}
		w, err := audit.Open(cfg.Audit.Path, format)
		if err != nil {
			return nil, fmt.Errorf("audit log: %w", err)
		}
		logger, a.audit = w, w
	}

	def, limit := cfg.Timeouts()
	retries := cfg.Driver.MaxRetries
	if retries == 0 {
		retries = -1 // 0 в конфиге значит «без повторов»
	}
	a.driver = driver.New(driver.Options{
		Validator:      v,
		Executor:       newExecutor(cfg),
		Audit:          logger,
		DefaultTimeout: def,
		MaxTimeout:     limit,
		MaxRetries:     retries,
		Heartbeat:      heartbeat,
	})
	return a, nil
}

func newExecutor(cfg config.Config) sandbox.Executor {
	if cfg.Driver.Backend == "remote" {
		return &sandbox.Remote{
			BaseURL: cfg.Remote.BaseURL,
			WorkDir: cfg.Remote.WorkDir,
			Python:  cfg.Driver.Python,
		}
	}
	return &sandbox.Local{Python: cfg.Driver.Python}
}

func (a *app) Close() {
	if a.audit == nil {
		return
	}
	if err := a.audit.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "audit: close error: %v\n", err)
	}
}
