package cli

import (
	"fmt"

	"github.com/dimitrije/keyforge-api/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and seed the super admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%d statements), super admin %q seeded\n",
				len(database.Migrations()), a.Config.SuperAdminID)
			return nil
		},
	}
}
