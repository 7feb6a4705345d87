package statistics

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/taxonomy"
)

// Display names of the canonical flat buckets.
const (
	unspecifiedName = "unspecified"
	maleName        = "ذكر"
	femaleName      = "أنثى"
)

// sorter orders entries by display name with Arabic collation. A Collator
// is not safe for concurrent use, so each report builds its own.
type sorter struct {
	coll *collate.Collator
}

func newSorter() *sorter {
	return &sorter{coll: collate.New(language.Arabic)}
}

func (s *sorter) compare(a, b string) int {
	return s.coll.CompareString(a, b)
}

// byCount orders entries by descending count, then name, then id.
func (s *sorter) byCount(entries []domain.AggregationEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if c := s.compare(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// departments counts rows per department, with percentages against total.
func (s *sorter) departments(rows []taxonomy.Resolved, total int) []domain.AggregationEntry {
	acc := make(map[string]*domain.AggregationEntry)
	for _, r := range rows {
		e, ok := acc[r.Department.ID]
		if !ok {
			e = &domain.AggregationEntry{ID: r.Department.ID, Name: r.Department.DisplayName}
			acc[r.Department.ID] = e
		}
		e.Count += r.Count
	}

	out := make([]domain.AggregationEntry, 0, len(acc))
	for _, e := range acc {
		e.Percentage = domain.Percentage(e.Count, total)
		out = append(out, *e)
	}
	s.byCount(out)
	return out
}

type stageAcc struct {
	entry     domain.StageEntry
	semesters map[string]*domain.SemesterEntry
}

// stages counts rows per stage, with percentages against the rows' own
// total, and nests each stage's semesters with percentages against the
// stage count. Rows without a semester produce empty semester lists.
func (s *sorter) stages(rows []taxonomy.Resolved) []domain.StageEntry {
	total := 0
	acc := make(map[string]*stageAcc)
	for _, r := range rows {
		total += r.Count
		st, ok := acc[r.Stage.ID]
		if !ok {
			st = &stageAcc{
				entry: domain.StageEntry{
					AggregationEntry: domain.AggregationEntry{ID: r.Stage.ID, Name: r.Stage.DisplayName},
					SortOrder:        r.Stage.SortOrder,
				},
				semesters: make(map[string]*domain.SemesterEntry),
			}
			acc[r.Stage.ID] = st
		}
		st.entry.Count += r.Count

		if r.Semester == nil {
			continue
		}
		sem, ok := st.semesters[r.Semester.ID]
		if !ok {
			sem = &domain.SemesterEntry{
				AggregationEntry: domain.AggregationEntry{ID: r.Semester.ID, Name: r.Semester.DisplayName},
				StageID:          r.Stage.ID,
			}
			st.semesters[r.Semester.ID] = sem
		}
		sem.Count += r.Count
	}

	out := make([]domain.StageEntry, 0, len(acc))
	for _, st := range acc {
		st.entry.Percentage = domain.Percentage(st.entry.Count, total)
		st.entry.Semesters = make([]domain.SemesterEntry, 0, len(st.semesters))
		for _, sem := range st.semesters {
			sem.Percentage = domain.Percentage(sem.Count, st.entry.Count)
			st.entry.Semesters = append(st.entry.Semesters, *sem)
		}
		sort.Slice(st.entry.Semesters, func(i, j int) bool {
			a, b := st.entry.Semesters[i], st.entry.Semesters[j]
			if c := s.compare(a.Name, b.Name); c != 0 {
				return c < 0
			}
			return a.ID < b.ID
		})
		out = append(out, st.entry)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if c := s.compare(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return out
}

// departmentStages builds the stage tree of every department independently.
func (s *sorter) departmentStages(rows []taxonomy.Resolved) map[string][]domain.StageEntry {
	byDept := make(map[string][]taxonomy.Resolved)
	for _, r := range rows {
		byDept[r.Department.ID] = append(byDept[r.Department.ID], r)
	}
	out := make(map[string][]domain.StageEntry, len(byDept))
	for id, group := range byDept {
		out[id] = s.stages(group)
	}
	return out
}

// semesters flattens the semester entries of stages, in stage order.
func semesters(stages []domain.StageEntry) []domain.SemesterEntry {
	out := make([]domain.SemesterEntry, 0)
	for _, st := range stages {
		out = append(out, st.Semesters...)
	}
	return out
}

// bucketFunc maps a raw flat value to its bucket id and display name.
type bucketFunc func(raw string) (id, name string)

func rawBucket(raw string) (string, string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return domain.UnspecifiedValue, unspecifiedName
	}
	return v, v
}

func genderBucket(raw string) (string, string) {
	switch domain.CanonicalGender(raw) {
	case domain.GenderMale:
		return domain.GenderMale, maleName
	case domain.GenderFemale:
		return domain.GenderFemale, femaleName
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return domain.UnspecifiedValue, unspecifiedName
	}
	return strings.ToLower(v), v
}

// flat merges single-column count rows into buckets, with percentages
// against total.
func (s *sorter) flat(rows []domain.CountRow, total int, bucket bucketFunc) []domain.AggregationEntry {
	acc := make(map[string]*domain.AggregationEntry)
	for _, r := range rows {
		raw := ""
		if len(r.Values) > 0 {
			raw = r.Values[0]
		}
		id, name := bucket(raw)
		e, ok := acc[id]
		if !ok {
			e = &domain.AggregationEntry{ID: id, Name: name}
			acc[id] = e
		}
		e.Count += r.Count
	}

	out := make([]domain.AggregationEntry, 0, len(acc))
	for _, e := range acc {
		e.Percentage = domain.Percentage(e.Count, total)
		out = append(out, *e)
	}
	s.byCount(out)
	return out
}

// genderTotals sums the rows of a gender read into male and female counts.
func genderTotals(rows []domain.CountRow) (male, female int) {
	for _, r := range rows {
		if len(r.Values) == 0 {
			continue
		}
		switch domain.CanonicalGender(r.Values[0]) {
		case domain.GenderMale:
			male += r.Count
		case domain.GenderFemale:
			female += r.Count
		}
	}
	return male, female
}
