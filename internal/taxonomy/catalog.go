package taxonomy

import (
	"sort"
	"strings"

	"github.com/ignite/student-registry/internal/domain"
)

// GroupRow is one department/stage/semester combination and the number of
// records carrying it. NULL columns are represented as "".
type GroupRow struct {
	Department string
	Stage      string
	Semester   string
	Count      int
}

// Resolved is a GroupRow mapped onto canonical codes. Semester is nil when
// the store has no semester attribute.
type Resolved struct {
	Department domain.TaxonomyCode
	Stage      domain.TaxonomyCode
	Semester   *domain.TaxonomyCode
	Count      int
}

type node struct {
	code    domain.TaxonomyCode
	raws    map[string]int
	names   map[string]int
	stageID string
	key     string
}

func (nd *node) add(raw string, count int) {
	nd.raws[raw] += count
	if name := strings.TrimSpace(raw); name != "" {
		nd.names[name] += count
	}
}

// Catalog is the set of codes observed in the unfiltered record set together
// with the raw values behind each code. It answers reverse lookups from a
// canonical id back to the source text that has to be matched in queries.
type Catalog struct {
	norm         *Normalizer
	withSemester bool

	departments map[string]*node
	stages      map[string]*node
	semesters   map[string]*node

	rows []GroupRow
}

// NewCatalog resolves rows and indexes them. withSemester reports whether
// rows carry a semester value at all.
func NewCatalog(n *Normalizer, rows []GroupRow, withSemester bool) *Catalog {
	c := &Catalog{
		norm:         n,
		withSemester: withSemester,
		departments:  make(map[string]*node),
		stages:       make(map[string]*node),
		semesters:    make(map[string]*node),
	}
	for _, r := range rows {
		dept := n.Department(r.Department)
		c.index(c.departments, dept, r.Department, r.Count)

		stage := n.Stage(r.Stage)
		c.index(c.stages, stage, r.Stage, r.Count)

		if withSemester {
			sem := n.Semester(stage.ID, r.Semester)
			nd := c.index(c.semesters, sem, r.Semester, r.Count)
			nd.stageID = stage.ID
			nd.key, _, _ = n.SemesterKey(r.Semester)
		}
	}
	c.rows = rows
	for _, m := range []map[string]*node{c.departments, c.stages, c.semesters} {
		for _, nd := range m {
			if nd.code.SortOrder == domain.SortOrderOther {
				nd.code.DisplayName = mostFrequent(nd.names, nd.code.DisplayName)
			}
			nd.code.RawSourceValue = nil
		}
	}
	return c
}

func (c *Catalog) index(m map[string]*node, code domain.TaxonomyCode, raw string, count int) *node {
	nd, ok := m[code.ID]
	if !ok {
		nd = &node{code: code, raws: make(map[string]int), names: make(map[string]int)}
		m[code.ID] = nd
	}
	nd.add(raw, count)
	return nd
}

// mostFrequent returns the spelling with the highest count, breaking ties by
// the lexically smaller spelling.
func mostFrequent(names map[string]int, fallback string) string {
	best, bestCount := fallback, -1
	for name, n := range names {
		if n > bestCount || (n == bestCount && name < best) {
			best, bestCount = name, n
		}
	}
	return best
}

// Rows returns the rows the catalog was built from.
func (c *Catalog) Rows() []GroupRow { return c.rows }

// Total returns the record count across all indexed rows.
func (c *Catalog) Total() int {
	total := 0
	for _, r := range c.rows {
		total += r.Count
	}
	return total
}

// Normalizer returns the normalizer the catalog was built with.
func (c *Catalog) Normalizer() *Normalizer { return c.norm }

// HasSemester reports whether semester codes were indexed.
func (c *Catalog) HasSemester() bool { return c.withSemester }

// Resolve maps rows onto codes, using the catalog's display names for codes
// it knows.
func (c *Catalog) Resolve(rows []GroupRow) []Resolved {
	out := make([]Resolved, 0, len(rows))
	for _, r := range rows {
		res := Resolved{
			Department: c.display(c.departments, c.norm.Department(r.Department)),
			Stage:      c.display(c.stages, c.norm.Stage(r.Stage)),
			Count:      r.Count,
		}
		if c.withSemester {
			sem := c.display(c.semesters, c.norm.Semester(res.Stage.ID, r.Semester))
			res.Semester = &sem
		}
		out = append(out, res)
	}
	return out
}

func (c *Catalog) display(m map[string]*node, code domain.TaxonomyCode) domain.TaxonomyCode {
	if nd, ok := m[code.ID]; ok {
		code.DisplayName = nd.code.DisplayName
		code.SortOrder = nd.code.SortOrder
	}
	return code
}

// Department returns the indexed department code for id.
func (c *Catalog) Department(id string) (domain.TaxonomyCode, bool) {
	return lookup(c.departments, id)
}

// Stage returns the indexed stage code for id.
func (c *Catalog) Stage(id string) (domain.TaxonomyCode, bool) {
	return lookup(c.stages, id)
}

// Semester returns the indexed semester code for id and its parent stage id.
func (c *Catalog) Semester(id string) (code domain.TaxonomyCode, stageID string, ok bool) {
	nd, ok := c.semesters[id]
	if !ok {
		return domain.TaxonomyCode{}, "", false
	}
	return nd.code, nd.stageID, true
}

func lookup(m map[string]*node, id string) (domain.TaxonomyCode, bool) {
	nd, ok := m[id]
	if !ok {
		return domain.TaxonomyCode{}, false
	}
	return nd.code, true
}

// DepartmentRaws returns the raw department values behind id, sorted.
func (c *Catalog) DepartmentRaws(id string) []string {
	return rawsOf(c.departments[id])
}

// StageRaws returns the raw stage values behind id, sorted.
func (c *Catalog) StageRaws(id string) []string {
	return rawsOf(c.stages[id])
}

// SemesterRaws returns the raw stage values of the semester's parent stage
// and the raw semester values recorded under it. Matching a semester
// requires both.
func (c *Catalog) SemesterRaws(id string) (stageRaws, semesterRaws []string, ok bool) {
	nd, ok := c.semesters[id]
	if !ok {
		return nil, nil, false
	}
	return rawsOf(c.stages[nd.stageID]), rawsOf(nd), true
}

// SemestersWithKey returns the ids of every indexed semester whose key is
// key, ordered by their parent stage's sort order and then id.
func (c *Catalog) SemestersWithKey(key string) []string {
	var ids []string
	for id, nd := range c.semesters {
		if nd.key == key {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := c.stages[c.semesters[ids[i]].stageID], c.stages[c.semesters[ids[j]].stageID]
		if si.code.SortOrder != sj.code.SortOrder {
			return si.code.SortOrder < sj.code.SortOrder
		}
		return ids[i] < ids[j]
	})
	return ids
}

func rawsOf(nd *node) []string {
	if nd == nil {
		return nil
	}
	out := make([]string, 0, len(nd.raws))
	for raw := range nd.raws {
		out = append(out, raw)
	}
	sort.Strings(out)
	return out
}
