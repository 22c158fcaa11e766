package integrity

import (
	"context"
	"errors"

	"registry-sync/core/storage"
	"registry-sync/feature/integrity/checks"
	"registry-sync/feature/licensing"
	"registry-sync/feature/licensing/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoStorage is returned by snapshot checks when no storage client is configured.
var ErrNoStorage = errors.New("snapshot storage is not configured")

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	prefix string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil when
// snapshot archiving is disabled.
func NewService(client storage.Client, bucket, prefix string, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		bucket: bucket,
		prefix: prefix,
		db:     db,
		logger: logger,
	}
}

// CheckSchema compares the live database against the licensing models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.All()...)
}

// CheckSnapshots reports missing snapshot folders, one per registry.
func (s *Service) CheckSnapshots(ctx context.Context) (*checks.SnapshotReport, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	return checks.CheckSnapshots(ctx, s.client, s.bucket, s.prefix, registryNames())
}

// FixSnapshots creates what CheckSnapshots reported missing.
func (s *Service) FixSnapshots(ctx context.Context, report *checks.SnapshotReport) error {
	if s.client == nil {
		return ErrNoStorage
	}
	return checks.FixSnapshots(ctx, s.client, report, s.logger)
}

func registryNames() []string {
	regs := licensing.Registries()
	names := make([]string, 0, len(regs))
	for _, r := range regs {
		names = append(names, r.Name)
	}
	return names
}
