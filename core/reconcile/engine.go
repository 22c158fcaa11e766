package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"registry-sync/core/normalize"

	"go.uber.org/zap"
)

// errDryRun forces the store to roll back a dry-run batch.
var errDryRun = errors.New("dry run rollback")

// Engine applies batches of updates to a Store.
type Engine struct {
	store    Store
	resolver Resolver
	logger   *zap.Logger
}

// NewEngine creates an engine. A nil resolver never resolves, a nil logger is a no-op.
func NewEngine(store Store, resolver Resolver, logger *zap.Logger) *Engine {
	if resolver == nil {
		resolver = NoResolver
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, resolver: resolver, logger: logger}
}

// Apply reconciles updates in order inside one transaction.
// The returned report is never nil. When err is non-nil nothing was committed
// and the report holds the counts reached before the failure.
func (e *Engine) Apply(ctx context.Context, updates []normalize.EntityUpdate, opts Options) (*Report, error) {
	var report *Report

	err := e.store.WithinTransaction(ctx, func(tx Tx) error {
		// A store may retry the function, so every attempt starts from scratch.
		report = newReport(len(updates), opts.DryRun)

		for i := range updates {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := e.applyOne(ctx, tx, updates[i], report)
			if err != nil {
				return fmt.Errorf("update %d (%s): %w", i, strings.TrimSpace(updates[i].Identifier), err)
			}
			report.record(outcome)
		}

		if opts.DryRun {
			return errDryRun
		}
		return nil
	})

	if report == nil {
		report = newReport(0, opts.DryRun)
	}
	if opts.DryRun && errors.Is(err, errDryRun) {
		err = nil
	}
	if err != nil {
		return report, err
	}

	e.logger.Debug("Batch reconciled",
		zap.Int("total", report.Summary.Total),
		zap.Int("accepted", report.Summary.Accepted),
		zap.Int("skipped", report.Summary.Skipped),
		zap.Bool("dry_run", opts.DryRun),
	)
	return report, nil
}

func newReport(capacity int, dryRun bool) *Report {
	return &Report{
		Outcomes: make([]Outcome, 0, capacity),
		Summary:  Summary{ByReason: make(map[SkipReason]int)},
		DryRun:   dryRun,
	}
}

func (e *Engine) applyOne(ctx context.Context, tx Tx, u normalize.EntityUpdate, report *Report) (Outcome, error) {
	u.Identifier = strings.TrimSpace(u.Identifier)
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	u.CurrentLicenseNumber = strings.TrimSpace(u.CurrentLicenseNumber)

	outcome := Outcome{Identifier: u.Identifier, LicenseNumber: u.CurrentLicenseNumber}

	if u.Identifier == "" || u.DisplayName == "" {
		outcome.Reason = SkipIdentifierMissing
		return outcome, nil
	}

	entity, err := e.findOrResolve(ctx, tx, u.Identifier, report)
	if err != nil {
		return outcome, err
	}
	if entity == nil {
		outcome.Reason = SkipParentNotFound
		return outcome, nil
	}

	licenseID, err := tx.UpsertLicense(ctx, entity.ID, u)
	if err != nil {
		return outcome, fmt.Errorf("upsert license: %w", err)
	}
	if err := tx.SetReissues(ctx, licenseID, u.Reissues); err != nil {
		return outcome, fmt.Errorf("set reissues: %w", err)
	}
	if err := tx.SetOperations(ctx, licenseID, u.OrganizationType, u.Operations); err != nil {
		return outcome, fmt.Errorf("set operations: %w", err)
	}

	outcome.Applied = true
	outcome.LicenseID = licenseID
	return outcome, nil
}

// findOrResolve returns nil without error when the entity cannot be obtained.
func (e *Engine) findOrResolve(ctx context.Context, tx Tx, identifier string, report *Report) (*Entity, error) {
	entity, err := tx.FindEntity(ctx, identifier)
	if err == nil {
		return entity, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find entity: %w", err)
	}

	resolved, err := e.resolver.Resolve(ctx, identifier)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, ErrNotFound) {
			e.logger.Warn("Entity resolution failed", zap.String("identifier", identifier), zap.Error(err))
		}
		return nil, nil
	}

	resolved.ID = 0
	resolved.Identifier = identifier
	if err := tx.SaveEntity(ctx, &resolved); err != nil {
		return nil, fmt.Errorf("save resolved entity: %w", err)
	}
	report.Summary.Resolved++
	return &resolved, nil
}
