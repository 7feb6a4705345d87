// Package predicate turns a FilterRequest into parameterized SQL predicates.
// Values never reach the SQL text; every value is bound as a positional
// argument and only capability-checked column names are interpolated.
package predicate

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/pkg/logger"
	"github.com/ignite/student-registry/internal/schema"
	"github.com/ignite/student-registry/internal/taxonomy"
)

// Clause is an ordered list of predicates to be AND-combined and the
// arguments their placeholders ($1..$n) refer to.
type Clause struct {
	Predicates []string
	Args       []interface{}
}

// Empty reports whether the clause constrains nothing.
func (c Clause) Empty() bool { return len(c.Predicates) == 0 }

// Where renders the clause as a WHERE fragment, or "" when empty.
func (c Clause) Where() string {
	if c.Empty() {
		return ""
	}
	return "WHERE " + strings.Join(c.Predicates, "\n  AND ")
}

// Placeholder returns the placeholder that the next appended argument gets.
func (c Clause) Placeholder() string {
	return fmt.Sprintf("$%d", len(c.Args)+1)
}

var flatAttributes = map[domain.Dimension]schema.Attribute{
	domain.DimAcademicYear:     schema.AttrAcademicYear,
	domain.DimStatus:           schema.AttrStatus,
	domain.DimAdmissionChannel: schema.AttrAdmissionType,
	domain.DimStudyType:        schema.AttrStudyType,
	domain.DimPaymentStatus:    schema.AttrPaymentStatus,
}

// Builder accumulates predicates for one query.
type Builder struct {
	caps    schema.CapabilitySet
	catalog *taxonomy.Catalog

	predicates []string
	args       []interface{}
	argCounter int
}

// NewBuilder creates a Builder for the entity caps was probed for. catalog
// resolves taxonomy ids to raw values; it may be nil when no taxonomy
// dimension will be filtered.
func NewBuilder(caps schema.CapabilitySet, catalog *taxonomy.Catalog) *Builder {
	return &Builder{
		caps:       caps,
		catalog:    catalog,
		args:       make([]interface{}, 0),
		argCounter: 1,
	}
}

// nextArg returns the next argument placeholder
func (b *Builder) nextArg(value interface{}) string {
	b.args = append(b.args, value)
	placeholder := fmt.Sprintf("$%d", b.argCounter)
	b.argCounter++
	return placeholder
}

// Arg binds value and returns its placeholder, for callers adding their own
// predicates through Add.
func (b *Builder) Arg(value interface{}) string { return b.nextArg(value) }

// Add appends a raw predicate. It must only reference placeholders obtained
// from Arg.
func (b *Builder) Add(predicate string) *Builder {
	b.predicates = append(b.predicates, predicate)
	return b
}

// Column returns the quoted column for a, for use in Add.
func (b *Builder) Column(a schema.Attribute) string {
	return column(b.caps, a)
}

// Build returns the accumulated clause.
func (b *Builder) Build() Clause {
	return Clause{Predicates: b.predicates, Args: b.args}
}

// Filters appends one predicate per constrained dimension of f, in the fixed
// dimension order. Dimensions whose attribute does not exist are skipped.
// A value that resolves to nothing yields FALSE so the query matches no rows.
func (b *Builder) Filters(f domain.FilterRequest) *Builder {
	for _, d := range domain.FilterDimensions {
		if !f.IsConstrained(d) {
			continue
		}
		v := f.Value(d)

		switch d {
		case domain.DimDepartment:
			b.department(v)
		case domain.DimStage:
			b.stage(v)
		case domain.DimSemester:
			b.semester(v, f.Value(domain.DimStage))
		case domain.DimGender:
			b.gender(v)
		default:
			b.flat(flatAttributes[d], v)
		}
	}
	return b
}

func (b *Builder) department(v string) {
	if b.catalog == nil {
		b.Add("FALSE")
		return
	}
	id := v
	if v == domain.UnspecifiedValue {
		id = b.catalog.Normalizer().DepartmentID("")
	}
	if _, ok := b.catalog.Department(id); !ok {
		id = b.catalog.Normalizer().DepartmentID(v)
	}
	raws := b.catalog.DepartmentRaws(id)
	if len(raws) == 0 {
		b.Add("FALSE")
		return
	}
	b.Add(b.anyOf(schema.AttrDepartment, raws))
}

func (b *Builder) resolveStage(v string) (string, bool) {
	if b.catalog == nil {
		return "", false
	}
	if v == domain.UnspecifiedValue {
		v = ""
	}
	if _, ok := b.catalog.Stage(v); ok {
		return v, true
	}
	id := b.catalog.Normalizer().Stage(v).ID
	_, ok := b.catalog.Stage(id)
	return id, ok
}

func (b *Builder) stage(v string) {
	id, ok := b.resolveStage(v)
	if !ok {
		b.Add("FALSE")
		return
	}
	b.Add(b.anyOf(schema.AttrStage, b.catalog.StageRaws(id)))
}

func (b *Builder) semester(v, stageFilter string) {
	if !b.caps.Has(schema.AttrSemester) {
		return
	}
	id, ok := b.resolveSemester(v, stageFilter)
	if !ok {
		b.Add("FALSE")
		return
	}
	stageRaws, semRaws, _ := b.catalog.SemesterRaws(id)
	b.Add("(" + b.anyOf(schema.AttrStage, stageRaws) + " AND " + b.anyOf(schema.AttrSemester, semRaws) + ")")
}

// resolveSemester accepts a full semester id or a stage-independent label.
// A label is scoped to the filtered stage when there is one; otherwise it
// resolves to the matching semester of the lowest-ordered stage.
func (b *Builder) resolveSemester(v, stageFilter string) (string, bool) {
	if b.catalog == nil || !b.catalog.HasSemester() {
		return "", false
	}
	if _, _, ok := b.catalog.Semester(v); ok {
		return v, true
	}

	key, _, _ := b.catalog.Normalizer().SemesterKey(v)
	if v == domain.UnspecifiedValue {
		key, _, _ = b.catalog.Normalizer().SemesterKey("")
	}

	if stageFilter != "" {
		stageID, ok := b.resolveStage(stageFilter)
		if !ok {
			return "", false
		}
		id := taxonomy.SemesterID(stageID, key)
		_, _, ok = b.catalog.Semester(id)
		return id, ok
	}

	ids := b.catalog.SemestersWithKey(key)
	if len(ids) == 0 {
		return "", false
	}
	if len(ids) > 1 {
		logger.Warn("semester filter matched by label without a stage",
			"value", v, "resolved", ids[0], "candidates", len(ids))
	}
	return ids[0], true
}

func (b *Builder) gender(v string) {
	if !b.caps.Has(schema.AttrGender) {
		return
	}
	col := column(b.caps, schema.AttrGender)
	if v == domain.UnspecifiedValue {
		b.Add(blank(col))
		return
	}
	values := []string{strings.ToLower(v)}
	if g := domain.CanonicalGender(v); g != "" {
		values = domain.GenderAliases[g]
	}
	b.Add(fmt.Sprintf("LOWER(BTRIM(%s::text)) = ANY(%s)", col, b.nextArg(pq.Array(values))))
}

func (b *Builder) flat(a schema.Attribute, v string) {
	if a == "" || !b.caps.Has(a) {
		return
	}
	col := column(b.caps, a)
	if v == domain.UnspecifiedValue {
		b.Add(blank(col))
		return
	}
	b.Add(fmt.Sprintf("BTRIM(%s::text) = %s", col, b.nextArg(v)))
}

func (b *Builder) anyOf(a schema.Attribute, raws []string) string {
	return fmt.Sprintf("COALESCE(%s::text, '') = ANY(%s)", column(b.caps, a), b.nextArg(pq.Array(raws)))
}

func blank(col string) string {
	return fmt.Sprintf("(%s IS NULL OR BTRIM(%s::text) = '')", col, col)
}

func column(caps schema.CapabilitySet, a schema.Attribute) string {
	return pq.QuoteIdentifier(caps.Column(a))
}
