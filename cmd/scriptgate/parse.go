package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scriptgate/internal/diagfmt"
	"scriptgate/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse file.py",
	Short: "Parse a Python script and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	result, err := driver.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if !result.OK {
		diagfmt.Pretty(os.Stderr, result.Bag.Items(), result.File, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   2,
			ShowHints: true,
		})
		return errSilent
	}
	return diagfmt.FormatASTPretty(cmd.OutOrStdout(), result.Module, result.File)
}
