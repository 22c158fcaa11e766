package extract

// CardLayout describes the collapsible license cards used by the license registries.
func CardLayout() Layout {
	return Layout{
		Block:       ".collapse__content__card",
		Section:     ".collapse",
		SectionName: ".collapse__value",
		Rows: []RowSet{
			{Row: "tr.ant-descriptions-row", Label: "th", Value: "td"},
		},
		ReissueTable:     ".ant-table-wrapper table",
		ReissueCell:      "td.ant-table-cell",
		ReissueMinCells:  4,
		CapabilityHeader: "b",
	}
}

// SanctionLayout describes the sanction decision cards.
func SanctionLayout() Layout {
	return Layout{
		Block: ".collapse-group .card.collapse",
		Rows: []RowSet{
			{Row: ".collapse__header__title--html .row", Label: ".col-md-4", Value: ".col-md-8"},
			{Row: ".collapse__content__card .row", Label: ".typography__variant-bodyhl", Value: ".typography__variant-body"},
		},
	}
}
