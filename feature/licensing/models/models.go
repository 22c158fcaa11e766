package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the regulated entity a license belongs to.
type Organization struct {
	ID           uint       `gorm:"column:id;primaryKey" json:"id"`
	Identifier   string     `gorm:"column:identifier;size:32;uniqueIndex;not null" json:"identifier"`
	FullName     string     `gorm:"column:full_name;size:512" json:"full_name"`
	ShortName    string     `gorm:"column:short_name;size:512" json:"short_name"`
	Status       string     `gorm:"column:status;size:100" json:"status"`
	Address      string     `gorm:"column:address;type:text" json:"address"`
	RegisteredAt *time.Time `gorm:"column:registered_at" json:"registered_at"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
	Licenses     []License  `gorm:"foreignKey:OrganizationID" json:"licenses,omitempty"`
}

func (Organization) TableName() string { return "organizations" }

// License is one license of an organization, keyed by its current number.
type License struct {
	ID                    uint               `gorm:"column:id;primaryKey" json:"id"`
	OrganizationID        uint               `gorm:"column:organization_id;not null;uniqueIndex:idx_license_org_number" json:"organization_id"`
	CurrentLicenseNumber  string             `gorm:"column:current_license_number;size:128;not null;uniqueIndex:idx_license_org_number" json:"current_license_number"`
	Registry              string             `gorm:"column:registry;size:32;index" json:"registry"`
	DisplayName           string             `gorm:"column:display_name;size:512" json:"display_name"`
	OrganizationType      string             `gorm:"column:organization_type;size:255" json:"organization_type"`
	PrimaryLicenseNumber  string             `gorm:"column:primary_license_number;size:128" json:"primary_license_number"`
	PrimaryLicenseDate    *time.Time         `gorm:"column:primary_license_date" json:"primary_license_date"`
	CurrentLicenseDate    *time.Time         `gorm:"column:current_license_date" json:"current_license_date"`
	DecisionNumber        string             `gorm:"column:decision_number;size:1000" json:"decision_number"`
	DecisionDate          *time.Time         `gorm:"column:decision_date" json:"decision_date"`
	Currency              string             `gorm:"column:currency;size:255" json:"currency"`
	OperationsCount       int                `gorm:"column:operations_count" json:"operations_count"`
	OperationsDescription string             `gorm:"column:operations_description;type:text" json:"operations_description"`
	IsReissued            bool               `gorm:"column:is_reissued" json:"is_reissued"`
	CreatedAt             time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt             time.Time          `gorm:"column:updated_at" json:"updated_at"`
	Reissues              []Reissue          `gorm:"foreignKey:LicenseID" json:"reissues"`
	Operations            []LicenseOperation `gorm:"foreignKey:LicenseID" json:"operations"`
}

func (License) TableName() string { return "licenses" }

// Reissue is one row of a license's reissue history. Position keeps page order.
type Reissue struct {
	ID           uint       `gorm:"column:id;primaryKey" json:"-"`
	LicenseID    uint       `gorm:"column:license_id;not null;index" json:"-"`
	Position     int        `gorm:"column:position" json:"position"`
	Date         *time.Time `gorm:"column:date" json:"date"`
	Basis        string     `gorm:"column:basis;type:text" json:"basis"`
	Reason       string     `gorm:"column:reason;type:text" json:"reason"`
	CurrencyType string     `gorm:"column:currency_type;size:255" json:"currency_type"`
}

func (Reissue) TableName() string { return "license_reissues" }

// OrganizationType is a catalog entry, stored lowercased.
type OrganizationType struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:255;uniqueIndex" json:"name"`
}

func (OrganizationType) TableName() string { return "organization_types" }

// LicenseType is a catalog entry scoped to an organization type.
type LicenseType struct {
	ID                 uint   `gorm:"column:id;primaryKey" json:"id"`
	OrganizationTypeID uint   `gorm:"column:organization_type_id;not null;uniqueIndex:idx_license_type_name" json:"organization_type_id"`
	Name               string `gorm:"column:name;size:512;uniqueIndex:idx_license_type_name" json:"name"`
}

func (LicenseType) TableName() string { return "license_types" }

// OperationType is a catalog entry scoped to a license type.
type OperationType struct {
	ID            uint   `gorm:"column:id;primaryKey" json:"id"`
	LicenseTypeID uint   `gorm:"column:license_type_id;not null;uniqueIndex:idx_operation_type_name" json:"license_type_id"`
	Name          string `gorm:"column:name;size:512;uniqueIndex:idx_operation_type_name" json:"name"`
}

func (OperationType) TableName() string { return "operation_types" }

// LicenseOperation links a license to a granted operation.
type LicenseOperation struct {
	ID              uint          `gorm:"column:id;primaryKey" json:"-"`
	LicenseID       uint          `gorm:"column:license_id;not null;index" json:"-"`
	Position        int           `gorm:"column:position" json:"position"`
	LicenseTypeID   uint          `gorm:"column:license_type_id;not null" json:"license_type_id"`
	OperationTypeID uint          `gorm:"column:operation_type_id;not null" json:"operation_type_id"`
	LicenseName     string        `gorm:"column:license_name;size:512" json:"license_name"`
	LicenseType     LicenseType   `gorm:"foreignKey:LicenseTypeID" json:"license_type"`
	OperationType   OperationType `gorm:"foreignKey:OperationTypeID" json:"operation_type"`
}

func (LicenseOperation) TableName() string { return "license_operations" }

// RunRecord is the persisted audit entry of one run.
type RunRecord struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Registry   string    `gorm:"column:registry;size:32;index" json:"registry"`
	Total      int       `gorm:"column:total" json:"total"`
	Accepted   int       `gorm:"column:accepted" json:"accepted"`
	Skipped    int       `gorm:"column:skipped" json:"skipped"`
	DryRun     bool      `gorm:"column:dry_run" json:"dry_run"`
	Error      string    `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt  time.Time `gorm:"column:started_at;index" json:"started_at"`
	DurationMs int64     `gorm:"column:duration_ms" json:"duration_ms"`
}

func (RunRecord) TableName() string { return "run_records" }

// All returns one value of every persisted model, in dependency order.
func All() []any {
	return []any{
		&Organization{},
		&License{},
		&Reissue{},
		&OrganizationType{},
		&LicenseType{},
		&OperationType{},
		&LicenseOperation{},
		&RunRecord{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
