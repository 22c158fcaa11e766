package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"registry-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "registry-sync",
	Short: "Regulatory registry synchronizer",
	Long: `registry-sync renders the public license registries, extracts every
license card and reconciles the result into the licensing database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configDir string

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Console format and debug level give readable ISO8601 output for a CLI.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding the .env file")
}
