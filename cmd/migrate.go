package cmd

import (
	"fmt"

	"registry-sync/feature/licensing/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		db, err := a.database()
		if err != nil {
			return err
		}
		if err := models.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		a.logger.Info("Schema migrated", zap.Int("tables", len(models.All())))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
