package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-RepairService/internal/infra/storage/migrations"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить встроенные SQL миграции",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, wrappedDB, err := app.openDB(nil, nil)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migrations.NewRunner(wrappedDB, app.newTxManager(wrappedDB), app.log)
			applied, err := runner.Run(cmd.Context())
			if err != nil {
				app.log.Error("Migrations failed after %d files: %v", applied, err)
				return err
			}

			app.log.Info("Migrations done: %d applied", applied)
			return nil
		},
	}
}
