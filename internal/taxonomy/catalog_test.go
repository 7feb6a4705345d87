package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/student-registry/internal/domain"
)

func sampleRows() []GroupRow {
	return []GroupRow{
		{Department: "هندسة البرمجيات", Stage: "الأولى", Semester: "الأول", Count: 10},
		{Department: "هندسة البرمجيات", Stage: "الاولى", Semester: "الفصل الأول", Count: 4},
		{Department: "هَندسة البرمجيات", Stage: "الثانية", Semester: "الأول", Count: 2},
		{Department: "المحاسبة", Stage: "first", Semester: "الثاني", Count: 5},
		{Department: "", Stage: "", Semester: "", Count: 3},
		{Department: "المحاسبة", Stage: "custom-track", Semester: "", Count: 1},
		{Department: "المحاسبة", Stage: "Custom Track", Semester: "", Count: 2},
	}
}

func TestCatalog_ReverseLookup(t *testing.T) {
	c := NewCatalog(NewNormalizer(nil), sampleRows(), true)

	assert.Equal(t, []string{"first", "الأولى", "الاولى"}, c.StageRaws("stage-first"))
	assert.Equal(t, []string{""}, c.StageRaws("stage-undefined"))
	assert.Nil(t, c.StageRaws("stage-ninth"))

	deptID := c.Normalizer().DepartmentID("هندسة البرمجيات")
	assert.Equal(t, []string{"هندسة البرمجيات", "هَندسة البرمجيات"}, c.DepartmentRaws(deptID))

	stageRaws, semRaws, ok := c.SemesterRaws("stage-first-semester-first")
	require.True(t, ok)
	assert.Equal(t, []string{"first", "الأولى", "الاولى"}, stageRaws)
	assert.Equal(t, []string{"الأول", "الفصل الأول"}, semRaws)

	_, _, ok = c.SemesterRaws("stage-third-semester-first")
	assert.False(t, ok)
}

func TestCatalog_DisplayNameIsMostFrequentSpelling(t *testing.T) {
	c := NewCatalog(NewNormalizer(nil), sampleRows(), true)

	dept, ok := c.Department(c.Normalizer().DepartmentID("هندسة البرمجيات"))
	require.True(t, ok)
	assert.Equal(t, "هندسة البرمجيات", dept.DisplayName)

	stage, ok := c.Stage("stage-custom-track")
	require.True(t, ok)
	assert.Equal(t, "Custom Track", stage.DisplayName)

	// Canonical stages keep their label whatever the source spelling.
	first, _ := c.Stage("stage-first")
	assert.Equal(t, "المرحلة الأولى", first.DisplayName)
}

func TestCatalog_LiteralUndefinedKeepsItsOwnBucket(t *testing.T) {
	blank := GroupRow{Department: "", Stage: "", Semester: "", Count: 3}
	literal := GroupRow{Department: "undefined", Stage: "undefined", Semester: "undefined", Count: 7}

	for name, rows := range map[string][]GroupRow{
		"blank first":   {blank, literal},
		"literal first": {literal, blank},
	} {
		t.Run(name, func(t *testing.T) {
			c := NewCatalog(NewNormalizer(nil), rows, true)

			undef, ok := c.Stage("stage-undefined")
			require.True(t, ok)
			assert.Equal(t, UndefinedStageName, undef.DisplayName)
			assert.Equal(t, domain.SortOrderUndefined, undef.SortOrder)
			assert.Equal(t, []string{""}, c.StageRaws("stage-undefined"))

			lit, ok := c.Stage("stage-raw-undefined")
			require.True(t, ok)
			assert.Equal(t, "undefined", lit.DisplayName)
			assert.Equal(t, domain.SortOrderOther, lit.SortOrder)

			sem, _, ok := c.Semester("stage-undefined-semester-undefined")
			require.True(t, ok)
			assert.Equal(t, domain.SortOrderUndefined, sem.SortOrder)
			_, _, ok = c.Semester("stage-raw-undefined-semester-raw-undefined")
			assert.True(t, ok)

			dept, ok := c.Department("dept-undefined")
			require.True(t, ok)
			assert.Equal(t, UndefinedDepartmentName, dept.DisplayName)
			assert.Equal(t, []string{"undefined"}, c.DepartmentRaws("dept-raw-undefined"))

			for _, r := range c.Resolve(rows) {
				if r.Stage.ID == "stage-undefined" {
					assert.Equal(t, domain.SortOrderUndefined, r.Stage.SortOrder)
				}
			}
		})
	}
}

func TestCatalog_SemestersWithKey(t *testing.T) {
	c := NewCatalog(NewNormalizer(nil), sampleRows(), true)

	assert.Equal(t,
		[]string{"stage-first-semester-first", "stage-second-semester-first"},
		c.SemestersWithKey("first"))
	assert.Empty(t, c.SemestersWithKey("fifth"))
}

func TestCatalog_WithoutSemester(t *testing.T) {
	c := NewCatalog(NewNormalizer(nil), sampleRows(), false)

	assert.False(t, c.HasSemester())
	_, _, ok := c.SemesterRaws("stage-first-semester-first")
	assert.False(t, ok)
	for _, r := range c.Resolve(sampleRows()) {
		assert.Nil(t, r.Semester)
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := NewCatalog(NewNormalizer(nil), sampleRows(), true)

	got := c.Resolve([]GroupRow{{Department: "المحاسبة", Stage: "custom-track", Count: 1}})
	require.Len(t, got, 1)
	assert.Equal(t, "stage-custom-track", got[0].Stage.ID)
	assert.Equal(t, "Custom Track", got[0].Stage.DisplayName)
	require.NotNil(t, got[0].Semester)
	assert.Equal(t, "stage-custom-track-semester-undefined", got[0].Semester.ID)
}

type fakeText struct {
	out map[string]string
	err error
	got []string
}

func (f *fakeText) NormalizeTexts(_ context.Context, values []string) (map[string]string, error) {
	f.got = values
	return f.out, f.err
}

func TestPrepareText(t *testing.T) {
	src := &fakeText{out: map[string]string{"Dept A": "dept a"}}

	tn, err := PrepareText(context.Background(), src, []string{"Dept A", "Dept A", " ", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dept A"}, src.got)
	assert.Equal(t, "dept a", tn.NormalizeText("Dept A"))
	// Values outside the batch use the local fold.
	assert.Equal(t, "احمد", tn.NormalizeText("أحمد"))

	_, err = PrepareText(context.Background(), &fakeText{err: errors.New("boom")}, []string{"x"})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	counts := []domain.CountRow{
		{Values: []string{"المحاسبة", "الأولى", "الأول"}, Count: 3},
		{Values: []string{"المحاسبه", "2", ""}, Count: 2},
	}
	src := &fakeText{out: map[string]string{"المحاسبة": "محاسبه", "المحاسبه": "محاسبه"}}

	c, err := Load(context.Background(), src, FromCounts(counts), true)
	require.NoError(t, err)

	assert.Equal(t, 5, c.Total())
	assert.Len(t, c.Rows(), 2)
	assert.Equal(t, []string{"المحاسبة", "المحاسبه"}, c.DepartmentRaws("dept-محاسبه"))
	_, ok := c.Stage("stage-second")
	assert.True(t, ok)
}
