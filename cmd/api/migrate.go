package main

import (
	"github.com/spf13/cobra"

	"github.com/vortrixs/user-api/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var target int32

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, loggerService, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			return database.Migrate(cmd.Context(), &log, cfg, target)
		},
	}

	cmd.Flags().Int32Var(&target, "to", -1, "schema version to migrate to (default latest, 0 rolls everything back)")

	return cmd
}
