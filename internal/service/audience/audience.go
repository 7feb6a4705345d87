package audience

import (
	"fmt"
	"strings"

	"github.com/ignite/student-registry/internal/domain"
)

// Type is the wire name of an audience variant.
type Type string

const (
	TypeAll         Type = "all"
	TypeDepartment  Type = "department"
	TypeStage       Type = "stage"
	TypeSemester    Type = "semester"
	TypeNewStudents Type = "newStudents"
	TypeCustom      Type = "custom"
)

// Audience is the rule selecting a campaign's recipients. Only the variants
// in this package implement it.
type Audience interface {
	Type() Type
	audience()
}

// All selects every student with a phone number, narrowed by Filters.
type All struct {
	Filters domain.FilterRequest
}

// Department selects the students of one department.
type Department struct {
	ID      string
	Filters domain.FilterRequest
}

// Stage selects the students of one admission stage.
type Stage struct {
	ID      string
	Filters domain.FilterRequest
}

// Semester selects the students of one semester. ID may be a full semester
// id or a semester label; a label is scoped by the stage in Filters.
type Semester struct {
	ID      string
	Filters domain.FilterRequest
}

// NewStudents selects applicants whose registration is still pending.
type NewStudents struct {
	Filters domain.FilterRequest
}

// Custom is an explicit phone list supplied by the caller.
type Custom struct {
	Phones []string
}

func (All) Type() Type         { return TypeAll }
func (Department) Type() Type  { return TypeDepartment }
func (Stage) Type() Type       { return TypeStage }
func (Semester) Type() Type    { return TypeSemester }
func (NewStudents) Type() Type { return TypeNewStudents }
func (Custom) Type() Type      { return TypeCustom }

func (All) audience()         {}
func (Department) audience()  {}
func (Stage) audience()       {}
func (Semester) audience()    {}
func (NewStudents) audience() {}
func (Custom) audience()      {}

// Parse maps a wire audience type and its payload onto a variant. The
// department, stage and semester variants take their value from the filter
// of the same name.
func Parse(typ string, filters domain.FilterRequest, phones []string) (Audience, error) {
	switch normalizeType(typ) {
	case TypeAll:
		return All{Filters: filters}, nil
	case TypeDepartment:
		return withValue(filters, domain.DimDepartment, func(v string) Audience {
			return Department{ID: v, Filters: filters}
		})
	case TypeStage:
		return withValue(filters, domain.DimStage, func(v string) Audience {
			return Stage{ID: v, Filters: filters}
		})
	case TypeSemester:
		return withValue(filters, domain.DimSemester, func(v string) Audience {
			return Semester{ID: v, Filters: filters}
		})
	case TypeNewStudents:
		return NewStudents{Filters: filters}, nil
	case TypeCustom:
		return Custom{Phones: phones}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAudience, typ)
	}
}

func withValue(filters domain.FilterRequest, d domain.Dimension, build func(string) Audience) (Audience, error) {
	if !filters.IsConstrained(d) {
		return nil, fmt.Errorf("%w: %s", ErrMissingAudienceValue, d)
	}
	return build(filters.Value(d)), nil
}

func normalizeType(typ string) Type {
	t := strings.ToLower(strings.TrimSpace(typ))
	switch t {
	case "newstudents", "new_students", "new-students":
		return TypeNewStudents
	}
	return Type(t)
}
