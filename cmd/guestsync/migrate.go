package main

import (
	"github.com/spf13/cobra"
	"github.com/xavierca1/ligue-guest-sync/internal/infra/database"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrations do banco de estado",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewDBConnection(root.cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			return database.Migrate(cmd.Context(), db)
		},
	}
}
