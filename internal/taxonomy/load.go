package taxonomy

import (
	"context"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/schema"
)

// Attributes returns the grouped columns of a taxonomy read: department and
// stage, plus semester when the store has it.
func Attributes(caps schema.CapabilitySet) []schema.Attribute {
	attrs := []schema.Attribute{schema.AttrDepartment, schema.AttrStage}
	if caps.Has(schema.AttrSemester) {
		attrs = append(attrs, schema.AttrSemester)
	}
	return attrs
}

// FromCounts converts rows read with Attributes into GroupRows.
func FromCounts(rows []domain.CountRow) []GroupRow {
	out := make([]GroupRow, 0, len(rows))
	for _, r := range rows {
		g := GroupRow{Count: r.Count}
		if len(r.Values) > 0 {
			g.Department = r.Values[0]
		}
		if len(r.Values) > 1 {
			g.Stage = r.Values[1]
		}
		if len(r.Values) > 2 {
			g.Semester = r.Values[2]
		}
		out = append(out, g)
	}
	return out
}

// Load prepares department text normalization for the values in rows and
// builds the Catalog. rows must be the unfiltered taxonomy read.
func Load(ctx context.Context, text TextSource, rows []GroupRow, withSemester bool) (*Catalog, error) {
	depts := make([]string, 0, len(rows))
	for _, r := range rows {
		depts = append(depts, r.Department)
	}
	tn, err := PrepareText(ctx, text, depts)
	if err != nil {
		return nil, err
	}
	return NewCatalog(NewNormalizer(tn), rows, withSemester), nil
}
