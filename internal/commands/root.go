package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/concilia/internal/buildinfo"
	"github.com/cleared-dev/concilia/internal/config"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	envFile    string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:     "concilia",
		Short:   "Bank reconciliation and ledger normalization",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", config.FileName, "configuration file (env "+config.EnvConfig+")")
	flags.StringVar(&g.envFile, "env-file", "", "load environment variables from this file")
	flags.StringVar(&g.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newEntitiesCommand(g))
	rootCmd.AddCommand(newRunCommand(g))
	rootCmd.AddCommand(newStatementCommand(g))
	rootCmd.AddCommand(newClassifyCommand(g))
	rootCmd.AddCommand(newDeParaCommand(g))
	rootCmd.AddCommand(newLogCommand(g))

	return rootCmd
}
