package predicate

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/schema"
	"github.com/ignite/student-registry/internal/taxonomy"
)

func testCatalog(withSemester bool) *taxonomy.Catalog {
	rows := []taxonomy.GroupRow{
		{Department: "هندسة البرمجيات", Stage: "الأولى", Semester: "الأول", Count: 10},
		{Department: "هَندسة البرمجيات", Stage: "الاولى", Semester: "الفصل الأول", Count: 2},
		{Department: "المحاسبة", Stage: "الثانية", Semester: "الأول", Count: 4},
		{Department: "", Stage: "", Semester: "", Count: 1},
	}
	return taxonomy.NewCatalog(taxonomy.NewNormalizer(nil), rows, withSemester)
}

func allCaps() schema.CapabilitySet {
	return schema.NewCapabilitySet(schema.StudentEntity("public", "students", nil), schema.StudentOptional...)
}

func filters(kv map[domain.Dimension]string) domain.FilterRequest {
	return domain.NewFilterRequest(kv)
}

func TestBuilder_EmptyFilter(t *testing.T) {
	c := NewBuilder(allCaps(), testCatalog(true)).Filters(filters(nil)).Build()

	assert.True(t, c.Empty())
	assert.Equal(t, "", c.Where())
	assert.Equal(t, "$1", c.Placeholder())
}

func TestBuilder_PlaceholdersFollowDimensionOrder(t *testing.T) {
	c := NewBuilder(allCaps(), testCatalog(true)).Filters(filters(map[domain.Dimension]string{
		domain.DimStatus:     "active",
		domain.DimDepartment: "هندسة البرمجيات",
		domain.DimStage:      "stage-first",
		domain.DimGender:     "ذكر",
	})).Build()

	require.Len(t, c.Predicates, 4)
	assert.Equal(t, `COALESCE("department"::text, '') = ANY($1)`, c.Predicates[0])
	assert.Equal(t, `COALESCE("stage"::text, '') = ANY($2)`, c.Predicates[1])
	assert.Equal(t, `BTRIM("status"::text) = $3`, c.Predicates[2])
	assert.Equal(t, `LOWER(BTRIM("gender"::text)) = ANY($4)`, c.Predicates[3])

	require.Len(t, c.Args, 4)
	assert.Equal(t, pq.Array([]string{"هندسة البرمجيات", "هَندسة البرمجيات"}), c.Args[0])
	assert.Equal(t, pq.Array([]string{"الأولى", "الاولى"}), c.Args[1])
	assert.Equal(t, "active", c.Args[2])
	assert.Equal(t, pq.Array(domain.GenderAliases[domain.GenderMale]), c.Args[3])
	assert.Equal(t, "$5", c.Placeholder())
}

func TestBuilder_DepartmentById(t *testing.T) {
	cat := testCatalog(true)
	id := cat.Normalizer().DepartmentID("المحاسبة")

	c := NewBuilder(allCaps(), cat).Filters(filters(map[domain.Dimension]string{domain.DimDepartment: id})).Build()

	require.Len(t, c.Args, 1)
	assert.Equal(t, pq.Array([]string{"المحاسبة"}), c.Args[0])
}

func TestBuilder_UnknownTaxonomyValueFailsClosed(t *testing.T) {
	c := NewBuilder(allCaps(), testCatalog(true)).Filters(filters(map[domain.Dimension]string{
		domain.DimDepartment: "dept-physics",
		domain.DimStage:      "stage-fourth",
	})).Build()

	assert.Equal(t, []string{"FALSE", "FALSE"}, c.Predicates)
	assert.Empty(t, c.Args)
}

func TestBuilder_UnspecifiedStage(t *testing.T) {
	c := NewBuilder(allCaps(), testCatalog(true)).Filters(filters(map[domain.Dimension]string{
		domain.DimStage: domain.UnspecifiedValue,
	})).Build()

	require.Len(t, c.Args, 1)
	assert.Equal(t, pq.Array([]string{""}), c.Args[0])
}

func TestBuilder_SemesterById(t *testing.T) {
	c := NewBuilder(allCaps(), testCatalog(true)).Filters(filters(map[domain.Dimension]string{
		domain.DimSemester: "stage-first-semester-first",
	})).Build()

	require.Len(t, c.Predicates, 1)
	assert.Equal(t, `(COALESCE("stage"::text, '') = ANY($1) AND COALESCE("semester"::text, '') = ANY($2))`, c.Predicates[0])
	assert.Equal(t, pq.Array([]string{"الأولى", "الاولى"}), c.Args[0])
	assert.Equal(t, pq.Array([]string{"الأول", "الفصل الأول"}), c.Args[1])
}

func TestBuilder_SemesterLabelScopedToStageFilter(t *testing.T) {
	c := NewBuilder(allCaps(), testCatalog(true)).Filters(filters(map[domain.Dimension]string{
		domain.DimStage:    "stage-second",
		domain.DimSemester: "الأول",
	})).Build()

	require.Len(t, c.Args, 3)
	assert.Equal(t, pq.Array([]string{"الثانية"}), c.Args[1])
	assert.Equal(t, pq.Array([]string{"الأول"}), c.Args[2])
}

func TestBuilder_SemesterLabelWithoutStageUsesFirstStage(t *testing.T) {
	c := NewBuilder(allCaps(), testCatalog(true)).Filters(filters(map[domain.Dimension]string{
		domain.DimSemester: "first",
	})).Build()

	require.Len(t, c.Args, 2)
	assert.Equal(t, pq.Array([]string{"الأولى", "الاولى"}), c.Args[0])
}

func TestBuilder_MissingCapabilitiesSkipDimensions(t *testing.T) {
	caps := schema.NewCapabilitySet(schema.StudentEntity("public", "students", nil))

	c := NewBuilder(caps, testCatalog(false)).Filters(filters(map[domain.Dimension]string{
		domain.DimSemester:      "stage-first-semester-first",
		domain.DimGender:        "male",
		domain.DimAcademicYear:  "2024",
		domain.DimPaymentStatus: "paid",
	})).Build()

	assert.True(t, c.Empty())
	assert.Empty(t, c.Args)
}

func TestBuilder_UnspecifiedFlatValue(t *testing.T) {
	c := NewBuilder(allCaps(), nil).Filters(filters(map[domain.Dimension]string{
		domain.DimStudyType: domain.UnspecifiedValue,
	})).Build()

	assert.Equal(t, []string{`("study_type" IS NULL OR BTRIM("study_type"::text) = '')`}, c.Predicates)
	assert.Empty(t, c.Args)
}

func TestBuilder_ColumnOverridesAreQuoted(t *testing.T) {
	e := schema.StudentEntity("public", "students", map[string]string{"status": `weird"col`})
	caps := schema.NewCapabilitySet(e, schema.AttrStatus)

	c := NewBuilder(caps, nil).Filters(filters(map[domain.Dimension]string{
		domain.DimStatus: "x'; DROP TABLE students; --",
	})).Build()

	assert.Equal(t, []string{`BTRIM("weird""col"::text) = $1`}, c.Predicates)
	assert.Equal(t, []interface{}{"x'; DROP TABLE students; --"}, c.Args)
}

func TestBuilder_ExtraPredicatesContinueNumbering(t *testing.T) {
	b := NewBuilder(allCaps(), nil).Filters(filters(map[domain.Dimension]string{domain.DimStatus: "active"}))
	b.Add(b.Column(schema.AttrAcademicYear) + " = " + b.Arg("2024"))
	c := b.Build()

	assert.Equal(t, `"academic_year" = $2`, c.Predicates[1])
	assert.Equal(t, "WHERE BTRIM(\"status\"::text) = $1\n  AND \"academic_year\" = $2", c.Where())
}

func TestBuilder_PendingRegistration(t *testing.T) {
	e := schema.StudentEntity("public", "students", nil)

	tests := []struct {
		name    string
		present []schema.Attribute
		wantOK  bool
		want    string
	}{
		{"none", nil, false, ""},
		{"is_registered only", []schema.Attribute{schema.AttrIsRegistered}, true, `("is_registered" = FALSE)`},
		{
			"all markers",
			schema.PendingRegistration,
			true,
			`(LOWER(BTRIM("registration_status"::text)) IN ('pending', 'new', 'incomplete') OR "is_registered" = FALSE OR "registered_at" IS NULL)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(schema.NewCapabilitySet(e, tt.present...), nil)
			ok := b.PendingRegistration()
			c := b.Build()

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.True(t, c.Empty())
				return
			}
			assert.Equal(t, []string{tt.want}, c.Predicates)
			assert.Empty(t, c.Args)
		})
	}
}

func TestCoalesce(t *testing.T) {
	caps := allCaps()

	assert.Equal(t, `NULLIF(BTRIM("phone"::text), '')`, Coalesce(caps, []schema.Attribute{schema.AttrPhone}))
	assert.Equal(t,
		`COALESCE(NULLIF(BTRIM("phone"::text), ''), NULLIF(BTRIM("emergency_phone"::text), ''))`,
		Coalesce(caps, []schema.Attribute{schema.AttrPhone, schema.AttrEmergencyPhone}))
}
