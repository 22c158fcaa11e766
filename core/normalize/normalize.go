package normalize

import (
	"strings"

	"registry-sync/core/extract"
	"registry-sync/core/utils"
)

// CheckMarks are the glyphs that mark a capability as granted.
var CheckMarks = []string{"✓", "✔"}

// Normalize converts a raw license record into an EntityUpdate.
// The display name falls back to a dictionary-matched name when the section
// header carried none.
func Normalize(raw extract.RawRecord, variant Variant) EntityUpdate {
	get := func(f extract.Field) string {
		return strings.TrimSpace(raw.Get(f))
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = get(extract.FieldDisplayName)
	}

	u := EntityUpdate{
		Variant:               variant,
		Identifier:            get(extract.FieldIdentifier),
		DisplayName:           name,
		OrganizationType:      get(extract.FieldOrganizationType),
		PrimaryLicenseNumber:  get(extract.FieldPrimaryLicenseNumber),
		PrimaryLicenseDate:    utils.ToDate(get(extract.FieldPrimaryLicenseDate)),
		CurrentLicenseNumber:  get(extract.FieldCurrentLicenseNumber),
		CurrentLicenseDate:    utils.ToDate(get(extract.FieldCurrentLicenseDate)),
		DecisionNumber:        get(extract.FieldDecisionNumber),
		DecisionDate:          utils.ToDate(get(extract.FieldDecisionDate)),
		Currency:              get(extract.FieldCurrency),
		OperationsCount:       utils.ToNonNegativeInt(get(extract.FieldOperationsCount)),
		OperationsDescription: get(extract.FieldOperationsDescription),
		Reissues:              normalizeReissues(raw.Reissues),
	}
	u.IsReissued = len(u.Reissues) > 0
	u.Operations = normalizeOperations(raw.Capabilities, u.CurrentLicenseNumber)

	return u
}

// NormalizeAll applies Normalize to every record, preserving order.
func NormalizeAll(raws []extract.RawRecord, variant Variant) []EntityUpdate {
	out := make([]EntityUpdate, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw, variant))
	}
	return out
}

func normalizeReissues(rows [][]string) []Reissue {
	out := make([]Reissue, 0, len(rows))
	for _, cells := range rows {
		if len(cells) < 4 {
			continue
		}
		out = append(out, Reissue{
			Date:         utils.ToDate(cells[0]),
			Basis:        cells[1],
			Reason:       cells[2],
			CurrencyType: cells[3],
		})
	}
	return out
}

func normalizeOperations(rows []extract.CapabilityRow, licenseName string) []Operation {
	out := make([]Operation, 0)
	for _, row := range rows {
		if !utils.ContainsAny(row.Mark, CheckMarks...) {
			continue
		}
		section := strings.TrimSpace(strings.ReplaceAll(row.Section, ":", ""))
		label := strings.TrimSpace(row.Label)
		if section == "" || label == "" {
			continue
		}
		out = append(out, Operation{
			LicenseTypeName:    section,
			OperationTypeName:  label,
			LicenseDisplayName: licenseName,
		})
	}
	return out
}

// NormalizeSanction converts a raw sanction record.
func NormalizeSanction(raw extract.RawRecord) SanctionRecord {
	get := func(f extract.Field) string {
		return strings.TrimSpace(raw.Get(f))
	}

	name := get(extract.FieldDisplayName)
	if name == "" {
		name = strings.TrimSpace(raw.Name)
	}

	return SanctionRecord{
		Identifier:       get(extract.FieldIdentifier),
		OrganizationName: name,
		DecisionNumber:   get(extract.FieldDecisionNumber),
		DecisionDate:     utils.ToDate(get(extract.FieldDecisionDate)),
		ViolationType:    get(extract.FieldViolationType),
		SanctionType:     get(extract.FieldSanctionType),
		SanctionImposed:  get(extract.FieldSanctionImposed),
		Violation:        get(extract.FieldViolation),
		Deadline:         get(extract.FieldDeadline),
		Article:          get(extract.FieldArticle),
		Note:             get(extract.FieldNote),
		LegalActType:     get(extract.FieldLegalActType),
		Department:       get(extract.FieldDepartment),
	}
}

// NormalizeSanctions applies NormalizeSanction to every record.
func NormalizeSanctions(raws []extract.RawRecord) []SanctionRecord {
	out := make([]SanctionRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeSanction(raw))
	}
	return out
}
