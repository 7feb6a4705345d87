package statistics

import (
	"context"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/predicate"
	"github.com/ignite/student-registry/internal/schema"
)

// Repository defines the read contract the report needs.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Columns lists the columns that exist on dbSchema.table.
	Columns(ctx context.Context, dbSchema, table string) (map[string]bool, error)

	// GroupCount counts the records of caps' entity matching c, grouped by
	// attrs. With no attrs it returns a single row holding the total.
	GroupCount(ctx context.Context, caps schema.CapabilitySet, attrs []schema.Attribute, c predicate.Clause) ([]domain.CountRow, error)
}
