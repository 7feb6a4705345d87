package audience

import (
	"context"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/predicate"
	"github.com/ignite/student-registry/internal/schema"
)

// Candidate is one student row read for recipient selection. Name fields
// whose attribute does not exist are "".
type Candidate struct {
	ID         string
	Phone      string
	FullNameAr string
	FullNameEn string
	FirstName  string
	LastName   string
}

// RecipientQuery describes one recipient read.
type RecipientQuery struct {
	Caps schema.CapabilitySet

	// Phones lists the phone attributes in preference order; the first
	// non-blank one is the candidate's phone.
	Phones []schema.Attribute

	// Names lists the name attributes to read.
	Names []schema.Attribute

	Clause predicate.Clause
}

// Repository defines the read contract of the resolver.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Columns lists the columns that exist on dbSchema.table.
	Columns(ctx context.Context, dbSchema, table string) (map[string]bool, error)

	// GroupCount counts records grouped by attrs; used for the taxonomy read.
	GroupCount(ctx context.Context, caps schema.CapabilitySet, attrs []schema.Attribute, c predicate.Clause) ([]domain.CountRow, error)

	// Recipients streams the matching candidates in id order, calling visit
	// for each until it returns false.
	Recipients(ctx context.Context, q RecipientQuery, visit func(Candidate) bool) error
}
