package normalize

import "time"

// Variant tags the registry family a raw record came from.
type Variant string

const (
	VariantIssued     Variant = "issued"
	VariantInsurance  Variant = "insurance"
	VariantSecurities Variant = "securities"
	VariantSanctions  Variant = "sanctions"
)

// Reissue is one entry of a license's reissue history.
type Reissue struct {
	Date         *time.Time `json:"date"`
	Basis        string     `json:"basis"`
	Reason       string     `json:"reason"`
	CurrencyType string     `json:"currency_type"`
}

// Operation is one granted capability of a license.
type Operation struct {
	LicenseTypeName    string `json:"license_type_name"`
	OperationTypeName  string `json:"operation_type_name"`
	LicenseDisplayName string `json:"license_display_name"`
}

// EntityUpdate is the canonical, store-independent form of one license record.
type EntityUpdate struct {
	Variant               Variant     `json:"variant"`
	Identifier            string      `json:"identifier"`
	DisplayName           string      `json:"display_name"`
	OrganizationType      string      `json:"organization_type"`
	PrimaryLicenseNumber  string      `json:"primary_license_number"`
	PrimaryLicenseDate    *time.Time  `json:"primary_license_date"`
	CurrentLicenseNumber  string      `json:"current_license_number"`
	CurrentLicenseDate    *time.Time  `json:"current_license_date"`
	DecisionNumber        string      `json:"decision_number"`
	DecisionDate          *time.Time  `json:"decision_date"`
	Currency              string      `json:"currency"`
	OperationsCount       int         `json:"operations_count"`
	OperationsDescription string      `json:"operations_description"`
	IsReissued            bool        `json:"is_reissued"`
	Reissues              []Reissue   `json:"reissues"`
	Operations            []Operation `json:"operations"`
}

// SanctionRecord is the canonical form of one sanction decision.
type SanctionRecord struct {
	Identifier       string     `json:"identifier"`
	OrganizationName string     `json:"organization_name"`
	DecisionNumber   string     `json:"decision_number"`
	DecisionDate     *time.Time `json:"decision_date"`
	ViolationType    string     `json:"violation_type"`
	SanctionType     string     `json:"sanction_type"`
	SanctionImposed  string     `json:"sanction_imposed"`
	Violation        string     `json:"violation"`
	Deadline         string     `json:"deadline"`
	Article          string     `json:"article"`
	Note             string     `json:"note"`
	LegalActType     string     `json:"legal_act_type"`
	Department       string     `json:"department"`
}
