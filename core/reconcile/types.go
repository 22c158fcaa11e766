package reconcile

import "time"

// Entity is the canonical organization a license belongs to.
type Entity struct {
	// ID is the store key. Zero until the entity has been saved.
	ID uint `json:"id"`

	// Identifier is the unique business identification number.
	Identifier string `json:"identifier"`

	// FullName is the registered name of the organization.
	FullName string `json:"full_name"`

	// ShortName is the abbreviated name, if any.
	ShortName string `json:"short_name"`

	// Status is the registration status reported by the resolver.
	Status string `json:"status"`

	// Address is the legal address.
	Address string `json:"address"`

	// RegisteredAt is the registration date, if known.
	RegisteredAt *time.Time `json:"registered_at"`
}

// SkipReason explains why an update was not applied.
type SkipReason string

const (
	// SkipIdentifierMissing marks updates without an identifier or display name.
	SkipIdentifierMissing SkipReason = "identifier_missing"
	// SkipParentNotFound marks updates whose entity could not be found or resolved.
	SkipParentNotFound SkipReason = "parent_not_found"
)

// Outcome is the per-record result of applying one update.
type Outcome struct {
	// Identifier is the trimmed identifier of the update.
	Identifier string `json:"identifier"`

	// LicenseNumber is the current license number of the update.
	LicenseNumber string `json:"license_number"`

	// Applied is true when the license and its children were written.
	Applied bool `json:"applied"`

	// Reason is set when Applied is false.
	Reason SkipReason `json:"reason,omitempty"`

	// LicenseID is the store key of the written license.
	LicenseID uint `json:"license_id,omitempty"`
}

// Summary provides aggregate counts for one batch.
type Summary struct {
	// Total is the number of updates processed before the batch ended.
	Total int `json:"total"`

	// Accepted counts applied updates.
	Accepted int `json:"accepted"`

	// Skipped counts skipped updates.
	Skipped int `json:"skipped"`

	// ByReason breaks Skipped down by reason.
	ByReason map[SkipReason]int `json:"by_reason"`

	// Resolved counts entities created through the resolver.
	Resolved int `json:"resolved"`
}

// Report is the result of Engine.Apply.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
	Summary  Summary   `json:"summary"`
	DryRun   bool      `json:"dry_run"`
}

func (r *Report) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Summary.Total++
	if o.Applied {
		r.Summary.Accepted++
		return
	}
	r.Summary.Skipped++
	r.Summary.ByReason[o.Reason]++
}

// Options controls how a batch is applied.
type Options struct {
	// DryRun applies the batch and then rolls it back.
	DryRun bool
}
