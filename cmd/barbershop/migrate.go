package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/barbershop-booking/internal/infra/storage/migrations"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			applied, err := migrations.Up(cmd.Context(), a.db, a.log)
			if err != nil {
				a.log.Error("Migrate: failed after %d migrations: %v", applied, err)
				return err
			}
			a.log.Info("Migrate: applied %d migrations", applied)
			return nil
		},
	}
}
