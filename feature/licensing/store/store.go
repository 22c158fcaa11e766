package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"registry-sync/core/normalize"
	"registry-sync/core/reconcile"
	"registry-sync/core/runs"
	"registry-sync/feature/licensing/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists licenses and run records through gorm.
// It implements reconcile.Store and runs.Sink.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithinTransaction runs fn in one database transaction.
// Any error returned by fn rolls the transaction back.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx reconcile.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&Tx{db: db})
	})
}

// Append stores a run record.
func (s *Store) Append(ctx context.Context, rec runs.Record) error {
	row := models.RunRecord{
		ID:         rec.ID.String(),
		Registry:   rec.Registry,
		Total:      rec.Total,
		Accepted:   rec.Accepted,
		Skipped:    rec.Skipped,
		DryRun:     rec.DryRun,
		Error:      rec.Error,
		StartedAt:  rec.StartedAt.UTC(),
		DurationMs: rec.Duration.Milliseconds(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store run %s: %w", row.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first. An empty registry lists all of them.
func (s *Store) ListRuns(ctx context.Context, registry string, limit int) ([]models.RunRecord, error) {
	q := s.db.WithContext(ctx).Order("started_at DESC")
	if registry != "" {
		q = q.Where("registry = ?", registry)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.RunRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return out, nil
}

// FindOrganization loads an organization with its licenses and their children.
func (s *Store) FindOrganization(ctx context.Context, identifier string) (*models.Organization, error) {
	var org models.Organization
	err := s.db.WithContext(ctx).
		Preload("Licenses", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Licenses.Reissues", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Licenses.Operations", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Licenses.Operations.LicenseType").
		Preload("Licenses.Operations.OperationType").
		Where("identifier = ?", strings.TrimSpace(identifier)).
		Take(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reconcile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load organization %s: %w", identifier, err)
	}
	return &org, nil
}

// Tx is the transactional view handed to the reconciliation engine.
type Tx struct {
	db *gorm.DB
}

// FindEntity looks an organization up by identifier.
func (t *Tx) FindEntity(ctx context.Context, identifier string) (*reconcile.Entity, error) {
	var org models.Organization
	err := t.db.WithContext(ctx).Where("identifier = ?", identifier).Take(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reconcile.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reconcile.Entity{
		ID:           org.ID,
		Identifier:   org.Identifier,
		FullName:     org.FullName,
		ShortName:    org.ShortName,
		Status:       org.Status,
		Address:      org.Address,
		RegisteredAt: org.RegisteredAt,
	}, nil
}

// SaveEntity inserts a resolved organization and sets e.ID.
func (t *Tx) SaveEntity(ctx context.Context, e *reconcile.Entity) error {
	org := models.Organization{
		Identifier:   e.Identifier,
		FullName:     e.FullName,
		ShortName:    e.ShortName,
		Status:       e.Status,
		Address:      e.Address,
		RegisteredAt: e.RegisteredAt,
	}
	if err := t.db.WithContext(ctx).Create(&org).Error; err != nil {
		return fmt.Errorf("failed to save organization %s: %w", e.Identifier, err)
	}
	e.ID = org.ID
	return nil
}

// UpsertLicense creates or overwrites the license keyed by
// (entityID, CurrentLicenseNumber) and returns its ID.
func (t *Tx) UpsertLicense(ctx context.Context, entityID uint, u normalize.EntityUpdate) (uint, error) {
	db := t.db.WithContext(ctx)

	var lic models.License
	err := db.Where("organization_id = ? AND current_license_number = ?", entityID, u.CurrentLicenseNumber).
		Take(&lic).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		lic = models.License{OrganizationID: entityID, CurrentLicenseNumber: u.CurrentLicenseNumber}
	case err != nil:
		return 0, err
	}

	lic.Registry = string(u.Variant)
	lic.DisplayName = u.DisplayName
	lic.OrganizationType = u.OrganizationType
	lic.PrimaryLicenseNumber = u.PrimaryLicenseNumber
	lic.PrimaryLicenseDate = u.PrimaryLicenseDate
	lic.CurrentLicenseDate = u.CurrentLicenseDate
	lic.DecisionNumber = u.DecisionNumber
	lic.DecisionDate = u.DecisionDate
	lic.Currency = u.Currency
	lic.OperationsCount = u.OperationsCount
	lic.OperationsDescription = u.OperationsDescription
	lic.IsReissued = u.IsReissued

	if err := db.Omit(clause.Associations).Save(&lic).Error; err != nil {
		return 0, fmt.Errorf("failed to save license %s: %w", u.CurrentLicenseNumber, err)
	}
	return lic.ID, nil
}

// SetReissues replaces the reissue history of a license.
func (t *Tx) SetReissues(ctx context.Context, licenseID uint, reissues []normalize.Reissue) error {
	db := t.db.WithContext(ctx)
	if err := db.Where("license_id = ?", licenseID).Delete(&models.Reissue{}).Error; err != nil {
		return fmt.Errorf("failed to clear reissues of license %d: %w", licenseID, err)
	}
	if len(reissues) == 0 {
		return nil
	}

	rows := make([]models.Reissue, 0, len(reissues))
	for i, r := range reissues {
		rows = append(rows, models.Reissue{
			LicenseID:    licenseID,
			Position:     i,
			Date:         r.Date,
			Basis:        r.Basis,
			Reason:       r.Reason,
			CurrencyType: r.CurrencyType,
		})
	}
	return db.Create(&rows).Error
}

// SetOperations replaces the granted operations of a license. Catalog
// entries are created on first use under the lowercased organization type.
func (t *Tx) SetOperations(ctx context.Context, licenseID uint, organizationType string, ops []normalize.Operation) error {
	db := t.db.WithContext(ctx)
	if err := db.Where("license_id = ?", licenseID).Delete(&models.LicenseOperation{}).Error; err != nil {
		return fmt.Errorf("failed to clear operations of license %d: %w", licenseID, err)
	}
	if len(ops) == 0 {
		return nil
	}

	orgType, err := t.organizationType(db, strings.ToLower(strings.TrimSpace(organizationType)))
	if err != nil {
		return err
	}

	licenseTypes := make(map[string]uint)
	rows := make([]models.LicenseOperation, 0, len(ops))
	for i, op := range ops {
		ltID, ok := licenseTypes[op.LicenseTypeName]
		if !ok {
			lt, err := t.licenseType(db, orgType.ID, op.LicenseTypeName)
			if err != nil {
				return err
			}
			ltID = lt.ID
			licenseTypes[op.LicenseTypeName] = ltID
		}

		ot, err := t.operationType(db, ltID, op.OperationTypeName)
		if err != nil {
			return err
		}

		rows = append(rows, models.LicenseOperation{
			LicenseID:       licenseID,
			Position:        i,
			LicenseTypeID:   ltID,
			OperationTypeID: ot.ID,
			LicenseName:     op.LicenseDisplayName,
		})
	}
	return db.Omit(clause.Associations).Create(&rows).Error
}

func (t *Tx) organizationType(db *gorm.DB, name string) (models.OrganizationType, error) {
	var row models.OrganizationType
	err := getOrCreate(db, &models.OrganizationType{Name: name}, &row, "name = ?", name)
	return row, err
}

func (t *Tx) licenseType(db *gorm.DB, orgTypeID uint, name string) (models.LicenseType, error) {
	var row models.LicenseType
	err := getOrCreate(db, &models.LicenseType{OrganizationTypeID: orgTypeID, Name: name}, &row,
		"organization_type_id = ? AND name = ?", orgTypeID, name)
	return row, err
}

func (t *Tx) operationType(db *gorm.DB, licenseTypeID uint, name string) (models.OperationType, error) {
	var row models.OperationType
	err := getOrCreate(db, &models.OperationType{LicenseTypeID: licenseTypeID, Name: name}, &row,
		"license_type_id = ? AND name = ?", licenseTypeID, name)
	return row, err
}

// getOrCreate inserts candidate unless its natural key exists, then loads
// the stored row into out.
func getOrCreate(db *gorm.DB, candidate, out any, query string, args ...any) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create catalog entry: %w", err)
	}
	if err := db.Where(query, args...).Take(out).Error; err != nil {
		return fmt.Errorf("failed to load catalog entry: %w", err)
	}
	return nil
}
