package command

import (
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/sqlexpr/config"
)

// AnalyticfmtCommand holds state shared by the analyticfmt commands.
type AnalyticfmtCommand struct {
	cfg *config.Config
}

// GetRootCommand creates and returns the root command with all subcommands.
func GetRootCommand() *cobra.Command {
	ac := &AnalyticfmtCommand{}

	root := &cobra.Command{
		Use:   "analyticfmt",
		Short: "Analyze and render SQL analytic (window) function expressions",
		Long: `analyticfmt reads analytic expressions from a YAML file, checks them
against a function catalog and column types, and prints their SQL, digest
and dialect-specific rendering.

Column types come from the "columns" map of the config file, or from a
live Postgres catalog when "catalog" is configured.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Silence usage for application errors, flag errors still show it
			cmd.SilenceUsage = true

			path, _ := cmd.Flags().GetString("config")
			cfg := config.Default()
			if path != "" {
				var err error
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("dialect") {
				cfg.Dialect, _ = cmd.Flags().GetString("dialect")
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ac.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Path to the analyticfmt YAML config file")
	root.PersistentFlags().String("dialect", "postgres", "SQL dialect to render for (postgres, mysql, tidb)")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	AddRenderCommand(root, ac)

	return root
}
