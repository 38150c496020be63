package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scriptgate/internal/mcpserver"
	"scriptgate/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve execute_code, run_command and run_script over MCP on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			// stdout занят протоколом
			fmt.Fprintf(os.Stderr, "%s: serving MCP on stdio\n", version.Summary(a.validator.Rules().Version()))
		}
		return mcpserver.Serve(cmd.Context(), a.driver)
	},
}
