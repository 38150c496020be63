package main

import (
	"github.com/spf13/cobra"

	"scriptgate/internal/config"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule tables as TOML",
	Long: `Rules prints the built-in known-import, common-module and risky-module tables
merged with the [rules] section of scriptgate.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return config.WriteRules(cmd.OutOrStdout(), cfg.RuleSet())
	},
}
