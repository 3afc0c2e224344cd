package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
)

func newSeedCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert collaborators from a YAML seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = e.cfg.Roster.SeedFile
			}
			if file == "" {
				return fmt.Errorf("--file is required when ROSTER_SEED_FILE is unset")
			}
			records, err := repository.LoadSeedFile(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := e.openStore(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer st.close()

			err = persistence.WithinTx(ctx, st.tx, func(ctx context.Context) error {
				for i := range records {
					if err := st.repo.Create(ctx, &records[i]); err != nil {
						return fmt.Errorf("insert %q: %w", records[i].Name, err)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			e.logger.Info("roster seeded", zap.String("file", file), zap.Int("count", len(records)))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "inserted %d collaborators\n", len(records))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (defaults to ROSTER_SEED_FILE)")
	return cmd
}
