package licensing

import (
	"errors"
	"fmt"
	"sort"

	"registry-sync/core/extract"
	"registry-sync/core/normalize"
)

var (
	// ErrUnknownRegistry is returned for a registry name with no profile.
	ErrUnknownRegistry = errors.New("unknown registry")
	// ErrExportOnly is returned when syncing a registry that is only exported.
	ErrExportOnly = errors.New("registry is export-only")
)

const baseURL = "https://www.gov.kz/memleket/entities/ardfm"

// Registry describes one public registry page and how to read it.
// RawLabels adds every card's full label map to its export.
type Registry struct {
	Name       string             `json:"name"`
	Title      string             `json:"title"`
	URL        string             `json:"url"`
	Variant    normalize.Variant  `json:"variant"`
	ExportOnly bool               `json:"export_only"`
	RawLabels  bool               `json:"raw_labels"`
	Layout     extract.Layout     `json:"-"`
	Dictionary extract.Dictionary `json:"-"`
}

var licenseDictionary = extract.Dictionary{
	{Match: "БИН", Field: extract.FieldIdentifier},
	{Match: "Тип организации", Field: extract.FieldOrganizationType},
	{Match: "Номер первичной лицензии", Field: extract.FieldPrimaryLicenseNumber},
	{Match: "Дата первичной лицензии", Field: extract.FieldPrimaryLicenseDate},
	{Match: "Номер действующей лицензии", Field: extract.FieldCurrentLicenseNumber},
	{Match: "Дата действующей лицензии", Field: extract.FieldCurrentLicenseDate},
	{Match: "Номер решения", Field: extract.FieldDecisionNumber},
	{Match: "Дата решения", Field: extract.FieldDecisionDate},
	{Match: "в тенге", Field: extract.FieldCurrency},
	{Match: "Количество", Field: extract.FieldOperationsCount},
	{Match: "Банковские заемные операции", Field: extract.FieldOperationsDescription, UseLabel: true},
}

var sanctionDictionary = extract.Dictionary{
	{Match: "БИН", Field: extract.FieldIdentifier},
	{Match: "Наименование организации", Field: extract.FieldDisplayName},
	{Match: "Дата решения", Field: extract.FieldDecisionDate},
	{Match: "Номер принятия", Field: extract.FieldDecisionNumber},
	{Match: "Вид взыскания", Field: extract.FieldViolationType},
	{Match: "Тип взыскания", Field: extract.FieldSanctionType},
	{Match: "Наложенное взыскание", Field: extract.FieldSanctionImposed},
	{Match: "Существо нарушения", Field: extract.FieldViolation},
	{Match: "Срок исполнения", Field: extract.FieldDeadline},
	{Match: "Статья", Field: extract.FieldArticle},
	{Match: "Примечание", Field: extract.FieldNote},
	{Match: "Тип НПА", Field: extract.FieldLegalActType},
	{Match: "Наименование департамента", Field: extract.FieldDepartment},
}

var registries = map[string]Registry{
	"issued": {
		Name:       "issued",
		Title:      "Выданные лицензии",
		URL:        baseURL + "/permissions-notifications/section/1/subsection/5/registry/19?lang=ru",
		Variant:    normalize.VariantIssued,
		Layout:     extract.CardLayout(),
		Dictionary: licenseDictionary,
	},
	"insurance": {
		Name:    "insurance",
		Title:   "Лицензии страховых организаций",
		URL:     baseURL + "/permissions-notifications/section/1/subsection/8/registry/22?lang=ru",
		Variant: normalize.VariantInsurance,
		Layout:  extract.CardLayout(),
		Dictionary: licenseDictionary.With(extract.Rule{
			Match: "Национальная валюта/ национальная и иностранная валюта",
			Field: extract.FieldCurrency,
		}),
	},
	"securities": {
		Name:       "securities",
		Title:      "Лицензии участников рынка ценных бумаг",
		URL:        baseURL + "/permissions-notifications/section/1/subsection/3/registry/29?lang=ru",
		Variant:    normalize.VariantSecurities,
		RawLabels:  true,
		Layout:     extract.CardLayout(),
		Dictionary: licenseDictionary,
	},
	"sanctions": {
		Name:       "sanctions",
		Title:      "Меры надзорного реагирования и санкции",
		URL:        baseURL + "/sanctions?lang=ru",
		Variant:    normalize.VariantSanctions,
		ExportOnly: true,
		Layout:     extract.SanctionLayout(),
		Dictionary: sanctionDictionary,
	},
}

// Lookup returns the registry profile registered under name.
func Lookup(name string) (Registry, error) {
	r, ok := registries[name]
	if !ok {
		return Registry{}, fmt.Errorf("%w: %q", ErrUnknownRegistry, name)
	}
	return r, nil
}

// Registries returns every profile sorted by name.
func Registries() []Registry {
	out := make([]Registry, 0, len(registries))
	for _, r := range registries {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
