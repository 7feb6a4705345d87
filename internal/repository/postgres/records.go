package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/predicate"
	"github.com/ignite/student-registry/internal/schema"
	"github.com/ignite/student-registry/internal/service/audience"
	"github.com/ignite/student-registry/internal/service/statistics"
)

var (
	_ statistics.Repository = (*RecordRepo)(nil)
	_ audience.Repository   = (*RecordRepo)(nil)
)

// RecordRepo implements statistics.Repository and audience.Repository
// against PostgreSQL. It only reads.
type RecordRepo struct {
	db      *sql.DB
	timeout time.Duration
}

// NewRecordRepo creates a Postgres-backed record repository. A positive
// queryTimeout bounds every statement.
func NewRecordRepo(db *sql.DB, queryTimeout time.Duration) *RecordRepo {
	return &RecordRepo{db: db, timeout: queryTimeout}
}

func (r *RecordRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Columns lists the columns of dbSchema.table from information_schema. A
// missing table yields an empty set.
func (r *RecordRepo) Columns(ctx context.Context, dbSchema, table string) (map[string]bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
	`, dbSchema, table)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	return cols, nil
}

// GroupCount counts the records matching c grouped by attrs. NULL group
// values come back as "".
func (r *RecordRepo) GroupCount(ctx context.Context, caps schema.CapabilitySet, attrs []schema.Attribute, c predicate.Clause) ([]domain.CountRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	sel := make([]string, 0, len(attrs)+1)
	group := make([]string, 0, len(attrs))
	for i, a := range attrs {
		sel = append(sel, fmt.Sprintf("COALESCE(%s::text, '')", pq.QuoteIdentifier(caps.Column(a))))
		group = append(group, fmt.Sprint(i+1))
	}
	sel = append(sel, "COUNT(*)")

	q := "SELECT " + strings.Join(sel, ", ") + "\nFROM " + tableName(caps.Entity())
	if w := c.Where(); w != "" {
		q += "\n" + w
	}
	if len(group) > 0 {
		q += "\nGROUP BY " + strings.Join(group, ", ")
	}

	rows, err := r.db.QueryContext(ctx, q, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("group count: %w", err)
	}
	defer rows.Close()

	var out []domain.CountRow
	for rows.Next() {
		values := make([]string, len(attrs))
		var count int
		dest := make([]interface{}, 0, len(attrs)+1)
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &count)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan group count: %w", err)
		}
		out = append(out, domain.CountRow{Values: values, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("group count: %w", err)
	}
	return out, nil
}

var candidateNames = []schema.Attribute{
	schema.AttrFullNameAr,
	schema.AttrFullNameEn,
	schema.AttrFirstName,
	schema.AttrLastName,
}

// Recipients streams candidates matching q in id order until visit returns
// false. Name attributes missing from q.Names are read as "".
func (r *RecordRepo) Recipients(ctx context.Context, q audience.RecipientQuery, visit func(audience.Candidate) bool) error {
	if len(q.Phones) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	wanted := make(map[schema.Attribute]bool, len(q.Names))
	for _, a := range q.Names {
		wanted[a] = true
	}

	id := pq.QuoteIdentifier(q.Caps.Column(schema.AttrID))
	sel := []string{id + "::text", predicate.Coalesce(q.Caps, q.Phones)}
	for _, a := range candidateNames {
		if wanted[a] {
			sel = append(sel, fmt.Sprintf("COALESCE(%s::text, '')", pq.QuoteIdentifier(q.Caps.Column(a))))
		} else {
			sel = append(sel, "''")
		}
	}

	query := "SELECT " + strings.Join(sel, ", ") + "\nFROM " + tableName(q.Caps.Entity())
	if w := q.Clause.Where(); w != "" {
		query += "\n" + w
	}
	query += "\nORDER BY " + id

	rows, err := r.db.QueryContext(ctx, query, q.Clause.Args...)
	if err != nil {
		return fmt.Errorf("select recipients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c audience.Candidate
		var phone sql.NullString
		if err := rows.Scan(&c.ID, &phone, &c.FullNameAr, &c.FullNameEn, &c.FirstName, &c.LastName); err != nil {
			return fmt.Errorf("scan recipient: %w", err)
		}
		c.Phone = phone.String
		if !visit(c) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("select recipients: %w", err)
	}
	return nil
}

func tableName(e schema.Entity) string {
	return pq.QuoteIdentifier(e.Schema) + "." + pq.QuoteIdentifier(e.Table)
}
