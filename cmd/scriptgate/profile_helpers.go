package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scriptgate/internal/prof"
)

// profiling is the active session; Stop on a nil session is a no-op.
var profiling *prof.Session

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if opts == (prof.Options{}) {
		return nil
	}
	profiling, err = prof.Start(opts)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	return nil
}
