// Package taxonomy maps the free-text stage, semester and department values
// found in student records onto stable canonical codes.
package taxonomy

import (
	"strings"

	"github.com/ignite/student-registry/internal/domain"
)

// Labels for buckets whose source value is NULL or blank.
const (
	UndefinedStageName      = "unspecified stage"
	UndefinedSemesterName   = "unspecified semester"
	UndefinedDepartmentName = "unspecified department"
)

// Normalizer resolves raw values to TaxonomyCodes. Every method is total and
// deterministic: the same input always yields the same code, and no input
// makes it fail.
type Normalizer struct {
	text TextNormalizer
}

// NewNormalizer creates a Normalizer. text is used for department names; a
// nil text falls back to FoldArabic.
func NewNormalizer(text TextNormalizer) *Normalizer {
	if text == nil {
		text = TextNormalizerFunc(FoldArabic)
	}
	return &Normalizer{text: text}
}

// Stage resolves a raw stage value.
func (n *Normalizer) Stage(raw string) domain.TaxonomyCode {
	key := collapse(raw)
	switch {
	case key == "":
		return code("stage-"+undefinedKey, UndefinedStageName, domain.SortOrderUndefined, raw)
	case hasAlias(stageAliases, key):
		c := stageAliases[key]
		return code("stage-"+c.key, c.label, c.order, raw)
	}
	return code("stage-"+slugKey(key), strings.TrimSpace(raw), domain.SortOrderOther, raw)
}

// SemesterKey resolves the stage-independent part of a semester value: the
// key used in the code, its label and its sort order.
func (n *Normalizer) SemesterKey(raw string) (key, label string, order int) {
	k := collapse(raw)
	if k == "" {
		return undefinedKey, UndefinedSemesterName, domain.SortOrderUndefined
	}
	if c, ok := semesterAliases[k]; ok {
		return c.key, c.label, c.order
	}
	return slugKey(k), strings.TrimSpace(raw), domain.SortOrderOther
}

// Semester resolves a raw semester value in the context of its parent stage.
// Semester codes are scoped to the stage: the same text under two stages
// yields two codes.
func (n *Normalizer) Semester(stageID, raw string) domain.TaxonomyCode {
	key, label, order := n.SemesterKey(raw)
	return code(SemesterID(stageID, key), label, order, raw)
}

// SemesterID joins a stage id and a semester key.
func SemesterID(stageID, key string) string {
	return stageID + "-semester-" + key
}

// DepartmentID returns the canonical id for a raw department name.
func (n *Normalizer) DepartmentID(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "dept-" + undefinedKey
	}
	return "dept-" + slugKey(n.text.NormalizeText(raw))
}

// Department resolves a raw department name. The display name is the trimmed
// raw text; Catalog replaces it with the most frequent spelling.
func (n *Normalizer) Department(raw string) domain.TaxonomyCode {
	id := n.DepartmentID(raw)
	if id == "dept-"+undefinedKey {
		return code(id, UndefinedDepartmentName, domain.SortOrderUndefined, raw)
	}
	return code(id, strings.TrimSpace(raw), domain.SortOrderOther, raw)
}

func hasAlias(m map[string]canonical, key string) bool {
	_, ok := m[key]
	return ok
}

func code(id, name string, order int, raw string) domain.TaxonomyCode {
	c := domain.TaxonomyCode{ID: id, DisplayName: name, SortOrder: order}
	if raw != "" {
		r := raw
		c.RawSourceValue = &r
	}
	return c
}
