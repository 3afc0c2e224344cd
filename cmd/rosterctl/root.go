package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Administer the collaborator roster",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return e.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringP("output", "o", "table", "output format: table, json or yaml")

	root.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newStatsCmd(e),
		newListCmd(e),
		newStatusesCmd(e),
	)
	return root
}
