package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scriptgate/internal/diag"
	"scriptgate/internal/diagfmt"
	"scriptgate/internal/driver"
	"scriptgate/internal/observ"
	"scriptgate/internal/source"
	"scriptgate/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.py|directory|->",
	Short: "Validate Python scripts without running them",
	Long: `Check runs the syntax, scope and import passes over a script, every *.py file
in a directory, or stdin ("-"), and reports issues with hints`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Bool("fix", false, "show the import rewrite for fixable scripts")
	checkCmd.Flags().Bool("write", false, "write the import rewrite back to fixable files")
	checkCmd.Flags().Bool("warnings-as-errors", false, "exit non-zero on warnings too")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type checkOptions struct {
	format           string
	fix              bool
	write            bool
	warningsAsErrors bool
	pathMode         diagfmt.PathMode
	color            bool
	quiet            bool
	timings          bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	opts, err := readCheckOptions(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var timer *observ.Timer
	if opts.timings {
		timer = observ.NewTimer()
		ctx = observ.WithTimer(ctx, timer)
	}

	var results []driver.CheckResult
	switch st, statErr := os.Stat(target); {
	case target == "-":
		res, err := checkStdin(ctx, a, opts.fix)
		if err != nil {
			return err
		}
		results = []driver.CheckResult{res}
	case statErr != nil:
		return statErr
	case st.IsDir():
		results, err = checkDir(ctx, cmd, a, target, opts)
		if err != nil {
			return err
		}
	default:
		results = []driver.CheckResult{a.driver.CheckFile(ctx, target, opts.fix || opts.write)}
	}

	if err := printCheckResults(cmd.OutOrStdout(), results, opts, a.validator.Rules().Version()); err != nil {
		return err
	}
	if opts.write {
		if err := writeFixes(cmd.ErrOrStderr(), results, opts.quiet); err != nil {
			return err
		}
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	errs, warns := driver.CountIssues(results)
	if errs > 0 || (opts.warningsAsErrors && warns > 0) {
		return errSilent
	}
	return nil
}

func readCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	var opts checkOptions
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch opts.format {
	case "pretty", "short", "json", "sarif":
	default:
		return opts, fmt.Errorf("unknown format: %s", opts.format)
	}
	if opts.fix, err = cmd.Flags().GetBool("fix"); err != nil {
		return opts, fmt.Errorf("failed to get fix flag: %w", err)
	}
	if opts.write, err = cmd.Flags().GetBool("write"); err != nil {
		return opts, fmt.Errorf("failed to get write flag: %w", err)
	}
	if opts.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	fullpath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullpath {
		opts.pathMode = diagfmt.PathModeAbsolute
	}
	if opts.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts.color = useColor(cmd, os.Stdout)
	return opts, nil
}

func checkStdin(ctx context.Context, a *app, autoFix bool) (driver.CheckResult, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return driver.CheckResult{}, fmt.Errorf("read stdin: %w", err)
	}
	file := source.NewFile("", data, source.FileVirtual)
	return driver.CheckResult{Path: file.Path, Result: a.validator.ValidateFile(ctx, file, autoFix)}, nil
}

func checkDir(ctx context.Context, cmd *cobra.Command, a *app, dir string, opts checkOptions) ([]driver.CheckResult, error) {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiMode, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	checkOpts := driver.CheckOptions{Jobs: jobs, AutoFix: opts.fix || opts.write}

	showUI := uiMode == "on" || (uiMode == "auto" && !opts.quiet && opts.format == "pretty" && isTerminal(os.Stdout))
	if !showUI {
		return a.driver.CheckDir(ctx, dir, checkOpts)
	}
	files, err := driver.ListScripts(dir)
	if err != nil {
		return nil, err
	}
	return runCheckWithUI(ctx, a.driver, dir, files, checkOpts)
}

func printCheckResults(w io.Writer, results []driver.CheckResult, opts checkOptions, rulesVersion string) error {
	switch opts.format {
	case "json":
		if len(results) == 1 {
			return diagfmt.JSON(w, jsonOutput(results[0], opts))
		}
		out := make(map[string]diagfmt.IssuesOutput, len(results))
		for _, r := range results {
			out[r.Path] = jsonOutput(r, opts)
		}
		return diagfmt.JSON(w, out)
	case "sarif":
		inputs := make([]diagfmt.SarifInput, 0, len(results))
		for _, r := range results {
			inputs = append(inputs, diagfmt.SarifInput{File: r.Result.File, Issues: r.Result.Shown()})
		}
		return diagfmt.Sarif(w, inputs, diagfmt.SarifRunMeta{
			ToolName:       "scriptgate",
			ToolVersion:    version.Version,
			RulesVersion:   rulesVersion,
			InvocationArgs: os.Args[1:],
		})
	}

	for _, r := range results {
		if r.LoadErr != nil {
			fmt.Fprintf(w, "%s: %v\n", r.Path, r.LoadErr)
			continue
		}
		if opts.format == "short" {
			fmt.Fprint(w, diag.FormatShort(r.Result.Shown(), r.Path, !opts.quiet))
		} else {
			diagfmt.Pretty(w, r.Result.Shown(), r.Result.File, diagfmt.PrettyOpts{
				Color:     opts.color,
				Context:   1,
				PathMode:  opts.pathMode,
				ShowHints: !opts.quiet,
			})
			if len(r.Result.Issues) > 0 {
				fmt.Fprintln(w)
			}
		}
		if opts.fix && r.Result.HasFix() {
			fmt.Fprintf(w, "fix for %s:\n", r.Path)
			diagfmt.FixPreview(w, r.Result.File.Text(), r.Result.Code(), opts.color)
			fmt.Fprintln(w)
		}
	}
	if !opts.quiet && opts.format == "pretty" {
		fmt.Fprintln(w, summaryLine(results))
	}
	return nil
}

func jsonOutput(r driver.CheckResult, opts checkOptions) diagfmt.IssuesOutput {
	out := diagfmt.BuildIssuesOutput(r.Result.Issues, r.Result.File, r.Result.Valid, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         opts.pathMode,
		IncludeNotes:     true,
		Max:              r.Result.Limit,
	})
	if opts.fix {
		out.FixedCode = r.Result.FixedCode
	}
	return out
}

func summaryLine(results []driver.CheckResult) string {
	errs, warns := driver.CountIssues(results)
	fixable := 0
	for _, r := range results {
		if r.Result.HasFix() {
			fixable++
		}
	}
	parts := []string{fmt.Sprintf("%d script(s) checked", len(results))}
	parts = append(parts, fmt.Sprintf("%d error(s)", errs), fmt.Sprintf("%d warning(s)", warns))
	if fixable > 0 {
		parts = append(parts, fmt.Sprintf("%d auto-fixable", fixable))
	}
	return strings.Join(parts, ", ")
}

func writeFixes(w io.Writer, results []driver.CheckResult, quiet bool) error {
	for _, r := range results {
		if !r.Result.HasFix() || r.Result.File == nil || r.Result.File.Flags&source.FileVirtual != 0 {
			continue
		}
		st, err := os.Stat(r.Path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(r.Path, []byte(r.Result.Code()), st.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", r.Path, err)
		}
		if !quiet {
			fmt.Fprintf(w, "fixed %s: %s\n", r.Path, strings.Join(r.Result.AddedImports, "; "))
		}
	}
	return nil
}
