package main

import (
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-circulation/circulation/shell/config"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Library circulation service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newCreateAdminCommand(),
	)

	return root
}

// loadConfig resolves the configuration after cobra has merged the persistent flags into cmd.Flags().
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(cmd.Flags(), config.DefaultDotEnv)
}
