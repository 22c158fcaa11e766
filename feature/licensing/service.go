package licensing

import (
	"context"
	"errors"
	"fmt"

	"registry-sync/core/extract"
	"registry-sync/core/lock"
	"registry-sync/core/metrics"
	"registry-sync/core/normalize"
	"registry-sync/core/reconcile"
	"registry-sync/core/render"
	"registry-sync/core/runs"
	"registry-sync/feature/licensing/models"
	"registry-sync/feature/licensing/store"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Service runs registry synchronizations and serves their results.
type Service struct {
	store    *store.Store
	engine   *reconcile.Engine
	tracker  *runs.Tracker
	locker   lock.Locker
	provider render.Provider
	logger   *zap.Logger
	group    singleflight.Group
}

// SyncResult is the outcome of one Sync call.
type SyncResult struct {
	Run    runs.Record       `json:"run"`
	Report *reconcile.Report `json:"report,omitempty"`
}

// Export holds the canonical records of one registry page.
type Export struct {
	Registry  string                     `json:"registry"`
	Count     int                        `json:"count"`
	Licenses  []normalize.EntityUpdate   `json:"licenses,omitempty"`
	Sanctions []normalize.SanctionRecord `json:"sanctions,omitempty"`
	Raw       []RawCard                  `json:"raw,omitempty"`
}

// RawCard is one card's label/value map as it appears on the page.
type RawCard struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
}

// NewService creates a new licensing service.
// A nil locker falls back to an in-process lock.
func NewService(db *gorm.DB, provider render.Provider, resolver reconcile.Resolver, locker lock.Locker, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = lock.NewLocal()
	}
	if resolver == nil {
		resolver = reconcile.NoResolver
	}

	st := store.New(db)
	return &Service{
		store:    st,
		engine:   reconcile.NewEngine(st, resolver, logger.Named("reconcile")),
		tracker:  runs.NewTracker(st, m, logger.Named("runs")),
		locker:   locker,
		provider: provider,
		logger:   logger,
	}
}

// Sync renders, extracts and reconciles one registry as a tracked run.
// Concurrent calls for the same registry and mode share one run.
func (s *Service) Sync(ctx context.Context, name string, dryRun bool) (*SyncResult, error) {
	reg, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if reg.ExportOnly {
		return nil, fmt.Errorf("%w: %s", ErrExportOnly, reg.Name)
	}

	key := fmt.Sprintf("%s:%t", reg.Name, dryRun)
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.sync(ctx, reg, dryRun)
	})
	if shared {
		s.logger.Debug("Joined running sync", zap.String("registry", reg.Name))
	}

	res, _ := v.(*SyncResult)
	return res, err
}

func (s *Service) sync(ctx context.Context, reg Registry, dryRun bool) (*SyncResult, error) {
	// A held lock belongs to a run that records itself. Any other lock
	// failure is this run failing and is recorded as such.
	release, lockErr := s.locker.Acquire(ctx, reg.Name)
	if errors.Is(lockErr, lock.ErrLocked) {
		return nil, fmt.Errorf("failed to lock registry %s: %w", reg.Name, lockErr)
	}
	if lockErr == nil {
		defer release()
	}

	var report *reconcile.Report
	rec, err := s.tracker.Track(ctx, reg.Name, func(ctx context.Context, stats *runs.Stats) error {
		stats.DryRun = dryRun
		if lockErr != nil {
			return fmt.Errorf("failed to lock registry %s: %w", reg.Name, lockErr)
		}

		export, err := ExtractRegistry(ctx, s.provider, reg)
		if err != nil {
			return err
		}
		stats.Total = export.Count

		report, err = s.engine.Apply(ctx, export.Licenses, reconcile.Options{DryRun: dryRun})
		if report != nil {
			stats.Accepted = report.Summary.Accepted
			stats.Skipped = report.Summary.Skipped
		}
		return err
	})

	return &SyncResult{Run: rec, Report: report}, err
}

// Extract renders and normalizes a registry without touching the store.
func (s *Service) Extract(ctx context.Context, name string) (*Export, error) {
	reg, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return ExtractRegistry(ctx, s.provider, reg)
}

// ExtractRegistry renders the registry page through provider and returns its
// canonical records.
func ExtractRegistry(ctx context.Context, provider render.Provider, reg Registry) (*Export, error) {
	markup, err := provider.Render(render.WithSnapshotName(ctx, reg.Name), reg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", reg.Name, err)
	}

	raws, err := extract.Extract(markup, reg.Layout, reg.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", reg.Name, err)
	}

	out := &Export{Registry: reg.Name, Count: len(raws)}
	if reg.Variant == normalize.VariantSanctions {
		out.Sanctions = normalize.NormalizeSanctions(raws)
	} else {
		out.Licenses = normalize.NormalizeAll(raws, reg.Variant)
	}
	if reg.RawLabels {
		out.Raw = make([]RawCard, 0, len(raws))
		for _, raw := range raws {
			out.Raw = append(out.Raw, RawCard{Name: raw.Name, Labels: raw.Labels})
		}
	}
	return out, nil
}

// ListRuns returns recent run records, newest first.
func (s *Service) ListRuns(ctx context.Context, registry string, limit int) ([]models.RunRecord, error) {
	return s.store.ListRuns(ctx, registry, limit)
}

// Organization returns an organization with its licenses.
func (s *Service) Organization(ctx context.Context, identifier string) (*models.Organization, error) {
	return s.store.FindOrganization(ctx, identifier)
}
