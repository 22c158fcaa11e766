package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"registry-sync/feature/licensing/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncDryRun  bool
	syncFile    string
	syncMigrate bool
	syncReport  string
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync <registry>",
	Short: "Synchronize one registry into the database",
	Long: `Renders the registry page, extracts and normalizes every license card and
reconciles the batch in one transaction. Every run is recorded, including failed ones.`,
	Args: cobra.ExactArgs(1),
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
		if syncMigrate {
			if err := models.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
		}

		svc, err := a.licensing(cmd.Context(), db, syncFile, prometheus.NewRegistry())
		if err != nil {
			return err
		}

		res, err := svc.Sync(cmd.Context(), args[0], syncDryRun)
		if res != nil {
			a.logger.Info("Run recorded",
				zap.String("run_id", res.Run.ID.String()),
				zap.String("registry", res.Run.Registry),
				zap.Int("total", res.Run.Total),
				zap.Int("accepted", res.Run.Accepted),
				zap.Int("skipped", res.Run.Skipped),
				zap.Bool("dry_run", res.Run.DryRun),
			)
			if res.Report != nil {
				for reason, n := range res.Report.Summary.ByReason {
					a.logger.Info("Skipped records", zap.String("reason", string(reason)), zap.Int("count", n))
				}
			}
			if syncReport != "" {
				if werr := writeJSON(syncReport, res); werr != nil {
					a.logger.Error("Failed to save run report", zap.Error(werr))
				} else {
					a.logger.Info("Run report saved", zap.String("file", syncReport))
				}
			}
		}
		return err
	},
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "apply the batch and roll it back")
	syncCmd.Flags().StringVar(&syncFile, "file", "", "read the registry page from a saved HTML file")
	syncCmd.Flags().BoolVar(&syncMigrate, "migrate", false, "migrate the schema before syncing")
	syncCmd.Flags().StringVar(&syncReport, "report", "", "write the run record and outcomes as JSON to this file ('-' for stdout)")
	RootCmd.AddCommand(syncCmd)
}
