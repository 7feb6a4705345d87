package predicate

import (
	"fmt"
	"strings"

	"github.com/ignite/student-registry/internal/schema"
)

// PendingStatuses are the registration_status values that mark an applicant
// as not yet registered.
var PendingStatuses = []string{"pending", "new", "incomplete"}

// PendingRegistration appends one predicate OR-combining every supported
// pending-registration marker. It reports false, and appends nothing, when
// the store has none of them.
func (b *Builder) PendingRegistration() bool {
	var parts []string
	for _, a := range b.caps.Supported(schema.PendingRegistration...) {
		col := column(b.caps, a)
		switch a {
		case schema.AttrRegistrationStatus:
			quoted := make([]string, len(PendingStatuses))
			for i, s := range PendingStatuses {
				quoted[i] = "'" + s + "'"
			}
			parts = append(parts, fmt.Sprintf("LOWER(BTRIM(%s::text)) IN (%s)", col, strings.Join(quoted, ", ")))
		case schema.AttrIsRegistered:
			parts = append(parts, fmt.Sprintf("%s = FALSE", col))
		case schema.AttrRegisteredAt:
			parts = append(parts, fmt.Sprintf("%s IS NULL", col))
		}
	}
	if len(parts) == 0 {
		return false
	}
	b.Add("(" + strings.Join(parts, " OR ") + ")")
	return true
}
