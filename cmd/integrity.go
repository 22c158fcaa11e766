package cmd

import (
	"context"
	"errors"

	"registry-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// errIntegrity marks a check that found problems.
var errIntegrity = errors.New("integrity check failed")

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and the snapshot archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Compare the database schema with the licensing models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// snapshotsCmd represents the integrity snapshots command
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Check and fix the snapshot bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	snapshotsCmd.Flags().BoolVar(&fixFlag, "fix", false, "create the bucket and missing folders")
	integrityCmd.AddCommand(schemaCmd)
	integrityCmd.AddCommand(snapshotsCmd)
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityChecks(ctx context.Context, runSchema, runSnapshots bool) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	logg := a.logger

	failed := false

	if runSchema {
		db, err := a.database()
		if err != nil {
			return err
		}

		svc := integrity.NewService(nil, "", "", db, logg)
		logg.Info("Checking database schema...", zap.String("driver", a.cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			return err
		}

		if report.Matched {
			logg.Info("Database schema matches the licensing models.")
		} else {
			failed = true
			logg.Warn("Schema mismatches found", zap.String("driver", report.Driver))
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if tbl.Status == "missing" {
					logg.Warn("Missing Table", zap.String("table", table))
					continue
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runSnapshots {
		client := a.storageClient()
		if client == nil {
			return integrity.ErrNoStorage
		}

		svc := integrity.NewService(client, a.cfg.Storage.Bucket, a.cfg.Render.ArchivePrefix, nil, logg)
		logg.Info("Checking snapshot archive...", zap.String("bucket", a.cfg.Storage.Bucket))
		report, err := svc.CheckSnapshots(ctx)
		if err != nil {
			return err
		}

		switch {
		case report.OK():
			logg.Info("Snapshot archive is intact.")
		case fixFlag:
			logg.Info("Fixing snapshot archive...")
			if err := svc.FixSnapshots(ctx, report); err != nil {
				return err
			}
			logg.Info("Snapshot archive fixed successfully.")
		default:
			failed = true
			logg.Warn("Missing snapshot folders detected",
				zap.Bool("bucket_missing", report.BucketMissing),
				zap.Strings("missing", report.Missing))
			logg.Info("Run with --fix to create them.")
		}
	}

	if failed {
		return errIntegrity
	}
	return nil
}
