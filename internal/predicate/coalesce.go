package predicate

import (
	"fmt"
	"strings"

	"github.com/ignite/student-registry/internal/schema"
)

// Coalesce returns an expression yielding the first of attrs whose trimmed
// value is non-blank, or NULL when none is. attrs must all exist in caps.
func Coalesce(caps schema.CapabilitySet, attrs []schema.Attribute) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = fmt.Sprintf("NULLIF(BTRIM(%s::text), '')", column(caps, a))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "COALESCE(" + strings.Join(parts, ", ") + ")"
}
