package cmd

import (
	"context"
	"fmt"
	"time"

	"registry-sync/core/config"
	"registry-sync/core/database"
	"registry-sync/core/lock"
	"registry-sync/core/logger"
	"registry-sync/core/metrics"
	"registry-sync/core/reconcile"
	"registry-sync/core/render"
	"registry-sync/core/resolver"
	"registry-sync/core/storage"
	"registry-sync/feature/licensing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles the configuration and logger every command starts from.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	return &app{cfg: cfg, logger: logg}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) database() (*gorm.DB, error) {
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Connected to database",
		zap.String("driver", a.cfg.Database.Driver),
		zap.String("name", a.cfg.Database.Name))
	return db, nil
}

// storageClient returns nil when the client cannot be built.
func (a *app) storageClient() storage.Client {
	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		a.logger.Warn("Snapshot storage unavailable", zap.Error(err))
		return nil
	}
	return client
}

// storage returns the snapshot client, or nil when archiving is disabled.
func (a *app) storage() storage.Client {
	if !a.cfg.Render.Archive {
		return nil
	}
	return a.storageClient()
}

// provider builds the DOM provider. A non-empty file overrides the configured driver.
func (a *app) provider(file string) (render.Provider, error) {
	cfg := a.cfg.Render
	if file != "" {
		cfg.Driver = render.DriverFile
		cfg.FilePath = file
	}

	return render.New(cfg, a.storage(), a.cfg.Storage.Bucket, a.logger.Named("render"))
}

func (a *app) resolver() reconcile.Resolver {
	if a.cfg.Resolver.BaseURL == "" {
		a.logger.Info("No organization directory configured, unknown organizations are skipped")
		return reconcile.NoResolver
	}

	var r reconcile.Resolver = resolver.New(a.cfg.Resolver, a.logger.Named("resolver"))
	if ttl := a.cfg.Resolver.CacheTTLSeconds; ttl > 0 {
		r = reconcile.NewCachedResolver(r, time.Duration(ttl)*time.Second)
	}
	return r
}

// locker prefers Redis and falls back to an in-process lock.
func (a *app) locker(ctx context.Context) lock.Locker {
	if a.cfg.Redis.Addr == "" {
		return lock.NewLocal()
	}

	client, err := lock.Connect(ctx, a.cfg.Redis)
	if err != nil {
		a.logger.Warn("Redis unavailable, using in-process lock", zap.Error(err))
		return lock.NewLocal()
	}
	ttl := time.Duration(a.cfg.Redis.TTLSeconds) * time.Second
	return lock.NewRedis(client, a.cfg.Redis.Prefix, ttl, a.logger.Named("lock"))
}

func (a *app) licensing(ctx context.Context, db *gorm.DB, file string, reg prometheus.Registerer) (*licensing.Service, error) {
	provider, err := a.provider(file)
	if err != nil {
		return nil, err
	}
	return licensing.NewService(db, provider, a.resolver(), a.locker(ctx), metrics.New(reg), a.logger), nil
}
