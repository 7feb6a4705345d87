// Command verify-taxonomy checks a live student table against the taxonomy
// rules: which optional columns exist, whether every stage spelling maps to a
// canonical stage, and whether grouped counts add up to the row count.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/student-registry/internal/config"
	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/predicate"
	"github.com/ignite/student-registry/internal/repository/postgres"
	"github.com/ignite/student-registry/internal/schema"
	"github.com/ignite/student-registry/internal/service/statistics"
	"github.com/ignite/student-registry/internal/taxonomy"
)

type checkResult struct {
	Name    string
	Passed  bool
	Detail  string
	Elapsed time.Duration
}

func main() {
	cfg, err := config.LoadFromEnv(envOrDefault("CONFIG_PATH", "config/config.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		fmt.Fprintln(os.Stderr, "FATAL: set database.url or DATABASE_URL")
		os.Exit(1)
	}
	students, deliveries := entities(cfg)

	fmt.Println("=========================================================")
	fmt.Println(" Student Taxonomy Verification")
	fmt.Println("=========================================================")
	fmt.Printf("Students table:     %s.%s\n", students.Schema, students.Table)
	fmt.Printf("Deliveries table:   %s.%s\n", deliveries.Schema, deliveries.Table)
	fmt.Printf("Normalizer:         %s\n", cfg.Taxonomy.Normalizer)
	fmt.Println("---------------------------------------------------------")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(3)
	if err := db.PingContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Database connection established")

	var text taxonomy.TextSource = taxonomy.LocalText{}
	if cfg.Taxonomy.Normalizer == config.NormalizerPostgres {
		text = postgres.NewArabicText(db)
	}

	repo := postgres.NewRecordRepo(db, cfg.Database.QueryTimeout())
	results := runChecks(ctx, repo, text, students, deliveries)

	if !printReport(results) {
		os.Exit(1)
	}
}

// entities builds the student and delivery entities exactly as the server
// does, column overrides included.
func entities(cfg *config.Config) (students, deliveries schema.Entity) {
	students = schema.StudentEntity(cfg.Schema.Name, cfg.Schema.StudentsTable, cfg.Schema.Columns)
	deliveries = schema.DeliveryEntity(cfg.Schema.Name, cfg.Schema.DeliveriesTable, cfg.Schema.Columns)
	return students, deliveries
}

// runChecks runs every check in order. A failed student probe stops the run
// since nothing after it can be evaluated.
func runChecks(ctx context.Context, repo statistics.Repository, text taxonomy.TextSource, students, deliveries schema.Entity) []checkResult {
	prober := schema.NewProber(repo)

	caps, probe := checkProbe(ctx, prober, students)
	results := []checkResult{probe}
	if !probe.Passed {
		return results
	}
	_, deliveryProbe := checkProbe(ctx, prober, deliveries)
	results = append(results, deliveryProbe)

	catalog, load := checkLoad(ctx, repo, text, caps)
	results = append(results, load)
	if catalog == nil {
		return results
	}

	results = append(results,
		checkTotals(ctx, repo, caps, catalog),
		checkUnmappedStages(catalog),
		checkUnmappedSemesters(catalog),
	)
	return results
}

func checkProbe(ctx context.Context, p *schema.Prober, e schema.Entity) (schema.CapabilitySet, checkResult) {
	start := time.Now()
	name := fmt.Sprintf("Schema probe (%s)", e.Name)

	caps, err := p.Probe(ctx, e)
	if err != nil {
		return caps, checkResult{Name: name, Passed: false, Detail: err.Error(), Elapsed: time.Since(start)}
	}

	var missing []string
	for _, a := range e.Optional {
		if !caps.Has(a) {
			missing = append(missing, string(a))
		}
	}
	detail := "present: " + caps.String()
	if len(missing) > 0 {
		detail += "\nmissing: " + strings.Join(missing, ", ")
	}
	return caps, checkResult{Name: name, Passed: true, Detail: detail, Elapsed: time.Since(start)}
}

func checkLoad(ctx context.Context, repo statistics.Repository, text taxonomy.TextSource, caps schema.CapabilitySet) (*taxonomy.Catalog, checkResult) {
	start := time.Now()
	name := "Taxonomy loads"

	rows, err := repo.GroupCount(ctx, caps, taxonomy.Attributes(caps), predicate.Clause{})
	if err != nil {
		return nil, checkResult{Name: name, Passed: false, Detail: fmt.Sprintf("Query error: %v", err), Elapsed: time.Since(start)}
	}
	catalog, err := taxonomy.Load(ctx, text, taxonomy.FromCounts(rows), caps.Has(schema.AttrSemester))
	if err != nil {
		return nil, checkResult{Name: name, Passed: false, Detail: fmt.Sprintf("Normalization error: %v", err), Elapsed: time.Since(start)}
	}

	depts, stages, semesters := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, r := range catalog.Resolve(catalog.Rows()) {
		depts[r.Department.ID] = true
		stages[r.Stage.ID] = true
		if r.Semester != nil {
			semesters[r.Semester.ID] = true
		}
	}
	detail := fmt.Sprintf("%d departments, %d stages, %d semesters across %d groups",
		len(depts), len(stages), len(semesters), len(rows))
	return catalog, checkResult{Name: name, Passed: true, Detail: detail, Elapsed: time.Since(start)}
}

// checkTotals compares the grouped taxonomy read with a plain row count.
func checkTotals(ctx context.Context, repo statistics.Repository, caps schema.CapabilitySet, catalog *taxonomy.Catalog) checkResult {
	start := time.Now()
	name := "Grouped counts match row count"

	rows, err := repo.GroupCount(ctx, caps, nil, predicate.Clause{})
	if err != nil {
		return checkResult{Name: name, Passed: false, Detail: fmt.Sprintf("Query error: %v", err), Elapsed: time.Since(start)}
	}
	total := domain.SumCounts(rows)
	if total != catalog.Total() {
		return checkResult{Name: name, Passed: false,
			Detail:  fmt.Sprintf("row count %d, grouped total %d", total, catalog.Total()),
			Elapsed: time.Since(start)}
	}
	return checkResult{Name: name, Passed: true, Detail: fmt.Sprintf("%d records", total), Elapsed: time.Since(start)}
}

// checkUnmappedStages lists stage spellings that fell outside the canonical
// stages. They still group, but sort after every known stage.
func checkUnmappedStages(catalog *taxonomy.Catalog) checkResult {
	start := time.Now()
	name := "Stage spellings map to canonical stages"

	counts := map[string]int{}
	for _, r := range catalog.Resolve(catalog.Rows()) {
		if r.Stage.SortOrder == domain.SortOrderOther {
			counts[r.Stage.ID] += r.Count
		}
	}
	if len(counts) == 0 {
		return checkResult{Name: name, Passed: true, Elapsed: time.Since(start)}
	}
	return checkResult{Name: name, Passed: false, Detail: describeUnmapped(counts, catalog.StageRaws), Elapsed: time.Since(start)}
}

func checkUnmappedSemesters(catalog *taxonomy.Catalog) checkResult {
	start := time.Now()
	name := "Semester spellings map to canonical semesters"
	if !catalog.HasSemester() {
		return checkResult{Name: name, Passed: true, Detail: "no semester column", Elapsed: time.Since(start)}
	}

	counts := map[string]int{}
	for _, r := range catalog.Resolve(catalog.Rows()) {
		if r.Semester != nil && r.Semester.SortOrder == domain.SortOrderOther {
			counts[r.Semester.ID] += r.Count
		}
	}
	if len(counts) == 0 {
		return checkResult{Name: name, Passed: true, Elapsed: time.Since(start)}
	}
	raws := func(id string) []string {
		_, sem, _ := catalog.SemesterRaws(id)
		return sem
	}
	return checkResult{Name: name, Passed: false, Detail: describeUnmapped(counts, raws), Elapsed: time.Since(start)}
}

func describeUnmapped(counts map[string]int, raws func(string) []string) string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("%s (%d records): %q", id, counts[id], raws(id)))
	}
	return strings.Join(lines, "\n")
}

// printReport writes the results table and reports whether every check passed.
func printReport(results []checkResult) bool {
	fmt.Println()
	fmt.Println("=========================================================")
	fmt.Println(" VERIFICATION REPORT")
	fmt.Println("=========================================================")

	allPassed := true
	for i, r := range results {
		status := "PASS ✓"
		if !r.Passed {
			status = "FAIL ✗"
			allPassed = false
		}
		fmt.Printf("  [%d] %-45s %s  (%s)\n", i+1, r.Name, status, r.Elapsed.Round(time.Millisecond))
		if r.Detail != "" {
			for _, line := range strings.Split(r.Detail, "\n") {
				fmt.Printf("      %s\n", line)
			}
		}
	}

	fmt.Println("=========================================================")
	if allPassed {
		fmt.Println("  OVERALL: PASS ✓")
	} else {
		fmt.Println("  OVERALL: FAIL ✗")
	}
	fmt.Println("=========================================================")
	return allPassed
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
