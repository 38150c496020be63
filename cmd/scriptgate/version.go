package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scriptgate/internal/rules"
	"scriptgate/internal/version"
)

type versionPayload struct {
	Tool         string `json:"tool"`
	Version      string `json:"version"`
	RulesVersion string `json:"rules_version"`
	GitCommit    string `json:"git_commit,omitempty"`
	BuildDate    string `json:"build_date,omitempty"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show scriptgate and rule table versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		switch strings.ToLower(versionFormat) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(versionPayload{
				Tool:         "scriptgate",
				Version:      version.Version,
				RulesVersion: rules.Version,
				GitCommit:    version.GitCommit,
				BuildDate:    version.BuildDate,
			})
		case "pretty":
			color.NoColor = !useColor(cmd, os.Stdout)
			fmt.Fprintf(out, "scriptgate %s (rules %s)\n", version.Colored(), rules.Version)
			if version.GitCommit != "" {
				fmt.Fprintf(out, "commit: %s\n", version.GitCommit)
			}
			if version.BuildDate != "" {
				fmt.Fprintf(out, "built:  %s\n", version.BuildDate)
			}
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}
