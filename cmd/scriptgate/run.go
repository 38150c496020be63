package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scriptgate/internal/driver"
	"scriptgate/internal/observ"
)

var execCmd = &cobra.Command{
	Use:   "exec [flags] <file.py|->",
	Short: "Validate, run and auto-repair a Python script (execute_code)",
	Long: `Exec feeds a script through the full gate: validation with import auto-fix,
sandbox execution, runtime error triage and a bounded retry for missing imports`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

var shellCmd = &cobra.Command{
	Use:   "shell [flags] -- <command...>",
	Short: "Run a shell command behind the destructive-command blocklist (run_command)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShell,
}

var scriptCmd = &cobra.Command{
	Use:   "script [flags] <file.py>",
	Short: "Validate and run a saved script once, without fixes (run_script)",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	for _, c := range []*cobra.Command{execCmd, shellCmd, scriptCmd} {
		c.Flags().Duration("timeout", 0, "execution timeout (0 = configured default)")
		c.Flags().String("description", "", "note recorded in the audit log")
		c.Flags().String("format", "text", "result format (text|json)")
	}
}

type runFlags struct {
	timeout     time.Duration
	description string
	format      string
}

func readRunFlags(cmd *cobra.Command) (runFlags, error) {
	var f runFlags
	var err error
	if f.timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return f, fmt.Errorf("failed to get timeout flag: %w", err)
	}
	if f.description, err = cmd.Flags().GetString("description"); err != nil {
		return f, fmt.Errorf("failed to get description flag: %w", err)
	}
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if f.format != "text" && f.format != "json" {
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	return f, nil
}

func runExec(cmd *cobra.Command, args []string) error {
	flags, err := readRunFlags(cmd)
	if err != nil {
		return err
	}
	var code []byte
	if args[0] == "-" {
		code, err = io.ReadAll(os.Stdin)
	} else {
		// #nosec G304 -- path is provided by the user
		code, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}
	return withApp(cmd, flags, func(a *app) driver.ToolResult {
		return a.driver.ExecuteCode(cmd.Context(), driver.Request{
			Code:        string(code),
			Description: flags.description,
			Timeout:     flags.timeout,
		})
	})
}

func runShell(cmd *cobra.Command, args []string) error {
	flags, err := readRunFlags(cmd)
	if err != nil {
		return err
	}
	return withApp(cmd, flags, func(a *app) driver.ToolResult {
		return a.driver.RunCommand(cmd.Context(), driver.CommandRequest{
			Command:     strings.Join(args, " "),
			Description: flags.description,
			Timeout:     flags.timeout,
		})
	})
}

func runScript(cmd *cobra.Command, args []string) error {
	flags, err := readRunFlags(cmd)
	if err != nil {
		return err
	}
	return withApp(cmd, flags, func(a *app) driver.ToolResult {
		return a.driver.RunScript(cmd.Context(), driver.ScriptRequest{
			Path:        args[0],
			Description: flags.description,
			Timeout:     flags.timeout,
		})
	})
}

// withApp builds the app, runs one entry point and prints its result.
// A failed result exits non-zero.
func withApp(cmd *cobra.Command, flags runFlags, run func(a *app) driver.ToolResult) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		cmd.SetContext(observ.WithTimer(cmd.Context(), timer))
	}

	res := run(a)

	out := cmd.OutOrStdout()
	if flags.format == "json" {
		data, err := res.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintln(out, res.String())
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if !res.Success {
		return errSilent
	}
	return nil
}
