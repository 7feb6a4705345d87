package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/student-registry/internal/domain"
)

func TestNormalizer_Stage(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		raw       string
		wantID    string
		wantName  string
		wantOrder int
	}{
		{"الأولى", "stage-first", "المرحلة الأولى", 1},
		{"الاولى", "stage-first", "المرحلة الأولى", 1},
		{"  Stage   1 ", "stage-first", "المرحلة الأولى", 1},
		{"first", "stage-first", "المرحلة الأولى", 1},
		{"المرحلة الثانية", "stage-second", "المرحلة الثانية", 2},
		{"3", "stage-third", "المرحلة الثالثة", 3},
		{"FOURTH", "stage-fourth", "المرحلة الرابعة", 4},
		{"", "stage-undefined", UndefinedStageName, domain.SortOrderUndefined},
		{"   ", "stage-undefined", UndefinedStageName, domain.SortOrderUndefined},
		{"custom-track", "stage-custom-track", "custom-track", domain.SortOrderOther},
		{" Evening  Track ", "stage-evening-track", "Evening  Track", domain.SortOrderOther},
		{"!!!", "stage-other", "!!!", domain.SortOrderOther},
		{"undefined", "stage-raw-undefined", "undefined", domain.SortOrderOther},
		{"Other", "stage-raw-other", "Other", domain.SortOrderOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := n.Stage(tt.raw)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantName, got.DisplayName)
			assert.Equal(t, tt.wantOrder, got.SortOrder)
		})
	}
}

func TestNormalizer_StageRawSource(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Nil(t, n.Stage("").RawSourceValue)
	got := n.Stage(" الأولى")
	if assert.NotNil(t, got.RawSourceValue) {
		assert.Equal(t, " الأولى", *got.RawSourceValue)
	}
}

func TestNormalizer_Semester(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		stage, raw string
		wantID     string
		wantName   string
		wantOrder  int
	}{
		{"stage-first", "الأول", "stage-first-semester-first", "الفصل الأول", 1},
		{"stage-first", "الفصل الثاني", "stage-first-semester-second", "الفصل الثاني", 2},
		{"stage-second", "semester 2", "stage-second-semester-second", "الفصل الثاني", 2},
		{"stage-fourth", "8", "stage-fourth-semester-eighth", "الفصل الثامن", 8},
		{"stage-first", "", "stage-first-semester-undefined", UndefinedSemesterName, domain.SortOrderUndefined},
		{"stage-undefined", "summer", "stage-undefined-semester-summer", "summer", domain.SortOrderOther},
	}

	for _, tt := range tests {
		t.Run(tt.stage+"/"+tt.raw, func(t *testing.T) {
			got := n.Semester(tt.stage, tt.raw)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantName, got.DisplayName)
			assert.Equal(t, tt.wantOrder, got.SortOrder)
		})
	}
}

func TestNormalizer_SemesterScopedToStage(t *testing.T) {
	n := NewNormalizer(nil)
	a := n.Semester("stage-first", "الأول")
	b := n.Semester("stage-second", "الأول")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.DisplayName, b.DisplayName)
}

func TestNormalizer_Department(t *testing.T) {
	n := NewNormalizer(nil)

	// Spelling variants of the same name collapse onto one id.
	a := n.Department("هندسة البرمجيات")
	b := n.Department("  هَندسة  البرمجيات ")
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "هندسة البرمجيات", a.DisplayName)

	assert.Equal(t, n.Department("المحاسبة").ID, n.Department("المحاسبه").ID)
	assert.Equal(t, n.Department("Computer Science").ID, n.Department("computer science").ID)
	assert.Equal(t, "dept-computer-science", n.Department("Computer Science").ID)

	undef := n.Department("")
	assert.Equal(t, "dept-undefined", undef.ID)
	assert.Equal(t, UndefinedDepartmentName, undef.DisplayName)
	assert.Equal(t, domain.SortOrderUndefined, undef.SortOrder)
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer(nil)
	inputs := []string{"الأولى", "stage 2", "custom-track", "!!!", "Evening Track", "ثالثة", "undefined"}

	for _, raw := range inputs {
		first := n.Stage(raw)
		again := n.Stage(raw)
		assert.Equal(t, first.ID, again.ID, raw)
		// Resolving the canonical label again lands on the same code.
		assert.Equal(t, first.ID, n.Stage(first.DisplayName).ID, raw)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"custom-track":      "custom-track",
		"  Evening  Track ": "evening-track",
		"a__b--c":           "a-b-c",
		"هندسة البرمجيات":   "هندسة-البرمجيات",
		"علوم، حاسوب":       "علوم-حاسوب",
		"---":               "",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestFoldArabic(t *testing.T) {
	tests := map[string]string{
		"أحمد":        "احمد",
		"إسلام":       "اسلام",
		"مُحَمَّد":    "محمد",
		"مدرســة":     "مدرسه",
		"مستشفى":      "مستشفي",
		"  A   b  ":   "a b",
		"آداب  اللغة": "اداب اللغه",
	}
	for in, want := range tests {
		assert.Equal(t, want, FoldArabic(in), in)
	}
}
