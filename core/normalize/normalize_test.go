package normalize

import (
	"testing"
	"time"

	"registry-sync/core/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(fields map[extract.Field]string) extract.RawRecord {
	return extract.RawRecord{Labels: map[string]string{}, Fields: fields}
}

func TestNormalize_EndToEndRecord(t *testing.T) {
	r := raw(map[extract.Field]string{
		extract.FieldIdentifier:           "123456789012",
		extract.FieldCurrentLicenseNumber: "L-7",
		extract.FieldCurrentLicenseDate:   "15.06.2022",
		extract.FieldOperationsCount:      "12",
	})
	r.Name = "Acme"
	r.Reissues = [][]string{{"01.02.2020", "basis", "reason", "KZT"}}
	r.Capabilities = []extract.CapabilityRow{
		{Section: "Banking:", Label: "Deposits", Mark: "✓"},
		{Section: "Banking", Label: "Loans", Mark: "✔ yes"},
		{Section: "Banking", Label: "Leasing", Mark: "—"},
	}

	u := Normalize(r, VariantInsurance)

	assert.Equal(t, VariantInsurance, u.Variant)
	assert.Equal(t, "123456789012", u.Identifier)
	assert.Equal(t, "Acme", u.DisplayName)
	assert.Equal(t, "L-7", u.CurrentLicenseNumber)
	require.NotNil(t, u.CurrentLicenseDate)
	assert.Equal(t, time.Date(2022, time.June, 15, 0, 0, 0, 0, time.UTC), *u.CurrentLicenseDate)
	assert.Equal(t, 12, u.OperationsCount)

	assert.True(t, u.IsReissued)
	require.Len(t, u.Reissues, 1)
	assert.Equal(t, "basis", u.Reissues[0].Basis)
	assert.Equal(t, "KZT", u.Reissues[0].CurrencyType)
	require.NotNil(t, u.Reissues[0].Date)

	require.Len(t, u.Operations, 2)
	assert.Equal(t, Operation{LicenseTypeName: "Banking", OperationTypeName: "Deposits", LicenseDisplayName: "L-7"}, u.Operations[0])
	assert.Equal(t, "Loans", u.Operations[1].OperationTypeName)
}

func TestNormalize_NumericDefaulting(t *testing.T) {
	for _, in := range []string{"", "N/A", "abc", "-4", "99999999999999999999"} {
		u := Normalize(raw(map[extract.Field]string{extract.FieldOperationsCount: in}), VariantIssued)
		assert.Equal(t, 0, u.OperationsCount, "input %q", in)
	}
}

func TestNormalize_MissingAndMalformedDates(t *testing.T) {
	u := Normalize(raw(map[extract.Field]string{
		extract.FieldPrimaryLicenseDate: "2020-01-01",
		extract.FieldDecisionDate:       "",
	}), VariantIssued)

	assert.Nil(t, u.PrimaryLicenseDate)
	assert.Nil(t, u.DecisionDate)
	assert.Nil(t, u.CurrentLicenseDate)
}

func TestNormalize_EmptyCollections(t *testing.T) {
	u := Normalize(raw(map[extract.Field]string{}), VariantIssued)

	assert.False(t, u.IsReissued)
	assert.NotNil(t, u.Reissues)
	assert.Empty(t, u.Reissues)
	assert.NotNil(t, u.Operations)
	assert.Empty(t, u.Operations)
	assert.Empty(t, u.Identifier)
}

func TestNormalize_ShortReissueRowsAreDropped(t *testing.T) {
	r := raw(map[extract.Field]string{})
	r.Reissues = [][]string{{"01.01.2020", "only two"}}

	u := Normalize(r, VariantIssued)
	assert.False(t, u.IsReissued)
	assert.Empty(t, u.Reissues)
}

func TestNormalize_DisplayNameFallback(t *testing.T) {
	u := Normalize(raw(map[extract.Field]string{extract.FieldDisplayName: " From Row "}), VariantSecurities)
	assert.Equal(t, "From Row", u.DisplayName)
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	out := NormalizeAll([]extract.RawRecord{
		raw(map[extract.Field]string{extract.FieldIdentifier: "1"}),
		raw(map[extract.Field]string{extract.FieldIdentifier: "2"}),
	}, VariantIssued)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].Identifier)
	assert.Equal(t, "2", out[1].Identifier)
}

func TestNormalizeSanction(t *testing.T) {
	s := NormalizeSanction(raw(map[extract.Field]string{
		extract.FieldIdentifier:     "990011223344",
		extract.FieldDisplayName:    "Gamma",
		extract.FieldDecisionDate:   "03.04.2024",
		extract.FieldViolationType:  "Fine",
		extract.FieldDecisionNumber: "17",
	}))

	assert.Equal(t, "990011223344", s.Identifier)
	assert.Equal(t, "Gamma", s.OrganizationName)
	assert.Equal(t, "17", s.DecisionNumber)
	assert.Equal(t, "Fine", s.ViolationType)
	require.NotNil(t, s.DecisionDate)
	assert.Equal(t, time.April, s.DecisionDate.Month())

	all := NormalizeSanctions([]extract.RawRecord{raw(nil)})
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Identifier)
}
