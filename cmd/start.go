package cmd

import (
	"fmt"
	"time"

	"registry-sync/core/loader"
	"registry-sync/core/logger"
	"registry-sync/core/middleware/auth"
	"registry-sync/core/middleware/rayid"
	"registry-sync/feature/integrity"
	"registry-sync/feature/licensing"
	"registry-sync/feature/licensing/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsPath = "/metrics"

var startMigrate bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the registry-sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration and logger
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		logg := a.logger

		// 2. Database
		db, err := a.database()
		if err != nil {
			return err
		}
		if startMigrate {
			if err := models.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			logg.Info("Schema migrated")
		}

		// 3. Services
		svc, err := a.licensing(cmd.Context(), db, "", prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}

		// 4. Feature Loader
		mgr := loader.NewManager(logg)
		syncTimeout := time.Duration(a.cfg.Server.SyncTimeoutSeconds) * time.Second
		mgr.Register(licensing.NewFeature(svc, syncTimeout))
		mgr.Register(integrity.NewFeature(a.storageClient(), a.cfg.Storage.Bucket, a.cfg.Render.ArchivePrefix, db, logg))

		srv := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID must be first to trace everything.
		srv.Use(rayid.New())

		srv.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		srv.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{metricsPath}}))
		if !a.cfg.Server.AuthEnabled() {
			logg.Warn("API key is empty, authentication is disabled")
		}

		srv.Get(metricsPath, adaptor.HTTPHandler(promhttp.Handler()))

		if err := mgr.LoadAll(srv); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		// 5. Serve
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			errCh <- srv.Listen(":" + a.cfg.Server.Port)
		}()

		// 6. Graceful Shutdown on SIGINT/SIGTERM (see Execute)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-cmd.Context().Done():
		}

		logg.Info("Shutting down server...")
		timeout := time.Duration(a.cfg.Server.ShutdownTimeoutSeconds) * time.Second
		return srv.ShutdownWithTimeout(timeout)
	},
}

func init() {
	startCmd.Flags().BoolVar(&startMigrate, "migrate", false, "migrate the schema before serving")
	RootCmd.AddCommand(startCmd)
}
