package extract

import "strings"

// Field identifies a canonical target field of a raw record.
type Field string

const (
	FieldIdentifier            Field = "identifier"
	FieldDisplayName           Field = "display_name"
	FieldOrganizationType      Field = "organization_type"
	FieldPrimaryLicenseNumber  Field = "primary_license_number"
	FieldPrimaryLicenseDate    Field = "primary_license_date"
	FieldCurrentLicenseNumber  Field = "current_license_number"
	FieldCurrentLicenseDate    Field = "current_license_date"
	FieldDecisionNumber        Field = "decision_number"
	FieldDecisionDate          Field = "decision_date"
	FieldCurrency              Field = "currency"
	FieldOperationsCount       Field = "operations_count"
	FieldOperationsDescription Field = "operations_description"

	FieldViolationType   Field = "violation_type"
	FieldSanctionType    Field = "sanction_type"
	FieldSanctionImposed Field = "sanction_imposed"
	FieldViolation       Field = "violation"
	FieldDeadline        Field = "deadline"
	FieldArticle         Field = "article"
	FieldNote            Field = "note"
	FieldLegalActType    Field = "legal_act_type"
	FieldDepartment      Field = "department"
)

// Rule maps every label containing Match onto Field.
// When UseLabel is set the label text itself becomes the value.
type Rule struct {
	Match    string
	Field    Field
	UseLabel bool
}

// Dictionary is an ordered rule table. The first matching rule wins.
type Dictionary []Rule

// Match returns the first rule whose Match is a substring of label.
func (d Dictionary) Match(label string) (Rule, bool) {
	for _, r := range d {
		if r.Match != "" && strings.Contains(label, r.Match) {
			return r, true
		}
	}
	return Rule{}, false
}

// With returns a copy of d where the rule targeting field is replaced by r.
// Rules for other fields keep their position.
func (d Dictionary) With(r Rule) Dictionary {
	out := make(Dictionary, 0, len(d))
	replaced := false
	for _, existing := range d {
		if existing.Field == r.Field && !replaced {
			out = append(out, r)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, r)
	}
	return out
}
