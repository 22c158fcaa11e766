package extract

// RowSet describes one family of label/value rows inside a block.
type RowSet struct {
	// Row selects the rows inside the block.
	Row string
	// Label selects the label cell inside a row.
	Label string
	// Value selects the value cell inside a row.
	Value string
}

// Layout names the selectors that describe one registry family.
type Layout struct {
	// Block selects one card per record.
	Block string
	// Section is the closest ancestor of a block that carries the display name.
	Section string
	// SectionName selects the display name inside Section.
	SectionName string
	// Rows lists the label/value row families, applied in order.
	Rows []RowSet
	// ReissueTable selects the nested reissue table; only the first match counts.
	ReissueTable string
	// ReissueCell selects the cells of a reissue row.
	ReissueCell string
	// ReissueMinCells drops reissue rows with fewer cells.
	ReissueMinCells int
	// CapabilityHeader selects the bold headers that introduce capability tables.
	CapabilityHeader string
}

// CapabilityRow is one two-cell row of a capability table.
type CapabilityRow struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Mark    string `json:"mark"`
}

// RawRecord is the ephemeral result of extracting one block.
type RawRecord struct {
	// Name is the display name taken from the enclosing section header.
	Name string `json:"name,omitempty"`
	// Labels holds every label/value pair seen, matched or not.
	Labels map[string]string `json:"labels"`
	// Fields holds the values of matched labels. Later rows overwrite earlier ones.
	Fields map[Field]string `json:"fields"`
	// Reissues holds the cell texts of each reissue row.
	Reissues [][]string `json:"reissues,omitempty"`
	// Capabilities holds the rows of every capability table.
	Capabilities []CapabilityRow `json:"capabilities,omitempty"`
}

// Get returns the value of f, or "" when it was never seen.
func (r RawRecord) Get(f Field) string {
	return r.Fields[f]
}
