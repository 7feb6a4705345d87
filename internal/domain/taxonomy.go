package domain

// TaxonomyCode is the canonical identity of a stage, semester or department,
// independent of how the source text was spelled.
type TaxonomyCode struct {
	ID             string  `json:"id"`
	DisplayName    string  `json:"name"`
	SortOrder      int     `json:"sortOrder"`
	RawSourceValue *string `json:"-"`
}

// Raw returns the source text the code was resolved from, or "" when the
// source was NULL.
func (c TaxonomyCode) Raw() string {
	if c.RawSourceValue == nil {
		return ""
	}
	return *c.RawSourceValue
}

// Sort priorities shared by every taxonomy.
const (
	SortOrderOther     = 50
	SortOrderUndefined = 99
)
