package commands

import (
	"fmt"

	"rentpos-backend/internal/database"

	"github.com/spf13/cobra"
)

func MigrateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := env.Open()
			if err != nil {
				return err
			}
			if err := database.Migrate(db, env.Log); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
