package domain

import (
	"net/url"
	"strings"
)

// Dimension names one recognized filter key.
type Dimension string

const (
	DimDepartment       Dimension = "department"
	DimStage            Dimension = "stage"
	DimSemester         Dimension = "semester"
	DimAcademicYear     Dimension = "academicYear"
	DimStatus           Dimension = "status"
	DimGender           Dimension = "gender"
	DimAdmissionChannel Dimension = "admissionChannel"
	DimStudyType        Dimension = "studyType"
	DimPaymentStatus    Dimension = "paymentStatus"
)

// FilterDimensions lists every recognized dimension in the order predicates
// are emitted.
var FilterDimensions = []Dimension{
	DimDepartment,
	DimStage,
	DimSemester,
	DimAcademicYear,
	DimStatus,
	DimGender,
	DimAdmissionChannel,
	DimStudyType,
	DimPaymentStatus,
}

// AllValue is the filter value meaning "no constraint on this dimension".
const AllValue = "all"

// UnspecifiedValue selects records whose attribute is NULL or blank.
const UnspecifiedValue = "unspecified"

var dimensionAliases = map[string]Dimension{
	"academic_year":     DimAcademicYear,
	"admission_channel": DimAdmissionChannel,
	"admission_type":    DimAdmissionChannel,
	"study_type":        DimStudyType,
	"payment_status":    DimPaymentStatus,
}

// FilterRequest holds the constraint for each recognized dimension. A missing
// key, an empty value and "all" all mean unconstrained.
type FilterRequest struct {
	values map[Dimension]string
}

// NewFilterRequest builds a FilterRequest from dimension/value pairs.
// Unconstrained values are dropped.
func NewFilterRequest(values map[Dimension]string) FilterRequest {
	f := FilterRequest{values: make(map[Dimension]string, len(values))}
	for d, v := range values {
		f.set(d, v)
	}
	return f
}

// ParseFilterRequest reads recognized keys from a query payload. Unknown keys
// are ignored; snake_case spellings of the multi-word keys are accepted.
func ParseFilterRequest(q url.Values) FilterRequest {
	f := FilterRequest{values: make(map[Dimension]string)}
	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		d, ok := lookupDimension(key)
		if !ok {
			continue
		}
		f.set(d, vals[0])
	}
	return f
}

func lookupDimension(key string) (Dimension, bool) {
	for _, d := range FilterDimensions {
		if string(d) == key {
			return d, true
		}
	}
	d, ok := dimensionAliases[strings.ToLower(key)]
	return d, ok
}

func (f *FilterRequest) set(d Dimension, v string) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, AllValue) {
		delete(f.values, d)
		return
	}
	f.values[d] = v
}

// Value returns the constraint for d, or "" when unconstrained.
func (f FilterRequest) Value(d Dimension) string {
	return f.values[d]
}

// IsConstrained reports whether d carries a constraint.
func (f FilterRequest) IsConstrained(d Dimension) bool {
	return f.values[d] != ""
}

// Empty reports whether no dimension is constrained.
func (f FilterRequest) Empty() bool {
	return len(f.values) == 0
}

// With returns a copy of f with d set to v.
func (f FilterRequest) With(d Dimension, v string) FilterRequest {
	out := FilterRequest{values: make(map[Dimension]string, len(f.values)+1)}
	for k, val := range f.values {
		out.values[k] = val
	}
	out.set(d, v)
	return out
}
