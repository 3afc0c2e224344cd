package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/roster-service/internal/persistence"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the collaborators schema",
	}

	withMigrator := func(run func(cmd *cobra.Command, mg *persistence.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			if e.cfg.Postgres.DSN == "" {
				return errNoDSN
			}
			mg, err := persistence.NewMigrator(e.cfg.Postgres.DSN, e.logger)
			if err != nil {
				return err
			}
			defer mg.Close() //nolint:errcheck
			return run(cmd, mg)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ *cobra.Command, mg *persistence.Migrator) error {
				return mg.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ *cobra.Command, mg *persistence.Migrator) error {
				return mg.Down()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, mg *persistence.Migrator) error {
				version, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return err
			}),
		},
	)
	return cmd
}
