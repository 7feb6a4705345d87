package statistics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/pkg/logger"
	"github.com/ignite/student-registry/internal/pkg/metrics"
	"github.com/ignite/student-registry/internal/predicate"
	"github.com/ignite/student-registry/internal/schema"
	"github.com/ignite/student-registry/internal/taxonomy"
)

// flatView is one single-dimension breakdown of the student report.
type flatView struct {
	name   string
	attr   schema.Attribute
	bucket bucketFunc
	dst    func(*Breakdown) *[]domain.AggregationEntry
}

var flatViews = []flatView{
	{"gender", schema.AttrGender, genderBucket, func(b *Breakdown) *[]domain.AggregationEntry { return &b.Genders }},
	{"status", schema.AttrStatus, rawBucket, func(b *Breakdown) *[]domain.AggregationEntry { return &b.Statuses }},
	{"admission_channel", schema.AttrAdmissionType, rawBucket, func(b *Breakdown) *[]domain.AggregationEntry { return &b.AdmissionChannels }},
	{"study_type", schema.AttrStudyType, rawBucket, func(b *Breakdown) *[]domain.AggregationEntry { return &b.StudyTypes }},
	{"academic_year", schema.AttrAcademicYear, rawBucket, func(b *Breakdown) *[]domain.AggregationEntry { return &b.AcademicYears }},
	{"payment_status", schema.AttrPaymentStatus, rawBucket, func(b *Breakdown) *[]domain.AggregationEntry { return &b.PaymentStatuses }},
}

// Options configures a Service.
type Options struct {
	Students   schema.Entity
	Deliveries schema.Entity

	// Text normalizes department names. Nil uses the in-process fold.
	Text taxonomy.TextSource

	Metrics *metrics.Metrics
}

// Service builds statistics reports. All public methods are safe for
// concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo       Repository
	prober     *schema.Prober
	text       taxonomy.TextSource
	students   schema.Entity
	deliveries schema.Entity
	metrics    *metrics.Metrics
}

// NewService creates a statistics service backed by the given repository.
func NewService(repo Repository, opts Options) *Service {
	text := opts.Text
	if text == nil {
		text = taxonomy.LocalText{}
	}
	return &Service{
		repo:       repo,
		prober:     schema.NewProber(repo),
		text:       text,
		students:   opts.Students,
		deliveries: opts.Deliveries,
		metrics:    opts.Metrics,
	}
}

// Report builds the statistics report for f.
func (s *Service) Report(ctx context.Context, f domain.FilterRequest) (*Report, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveReport(time.Since(start)) }()

	caps, err := s.probe(ctx, s.students)
	if err != nil {
		return nil, err
	}

	attrs := taxonomy.Attributes(caps)
	all, err := s.groupCount(ctx, "taxonomy_all", caps, attrs, predicate.Clause{})
	if err != nil {
		return nil, err
	}
	catalog, err := taxonomy.Load(ctx, s.text, taxonomy.FromCounts(all), caps.Has(schema.AttrSemester))
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}

	clause := predicate.NewBuilder(caps, catalog).Filters(f).Build()

	var (
		filtered []domain.CountRow
		flat     = make([][]domain.CountRow, len(flatViews))
		pending  []domain.CountRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.groupCount(gctx, "taxonomy", caps, attrs, clause)
		filtered = rows
		return err
	})
	for i, v := range flatViews {
		if !caps.Has(v.attr) {
			continue
		}
		i, v := i, v
		g.Go(func() error {
			rows, err := s.groupCount(gctx, v.name, caps, []schema.Attribute{v.attr}, clause)
			flat[i] = rows
			return err
		})
	}
	pb := predicate.NewBuilder(caps, catalog).Filters(f)
	if pb.PendingRegistration() {
		pendingClause := pb.Build()
		g.Go(func() error {
			rows, err := s.groupCount(gctx, "new_students", caps, nil, pendingClause)
			pending = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	srt := newSorter()
	grand := catalog.Total()
	unfiltered := catalog.Resolve(catalog.Rows())
	resolved := catalog.Resolve(taxonomy.FromCounts(filtered))
	total := domain.SumCounts(filtered)

	globalStages := srt.stages(unfiltered)
	stages := srt.stages(resolved)

	r := &Report{
		Totals: Totals{
			TotalStudents: total,
			GrandTotal:    grand,
		},
		NewStudentsCount: domain.SumCounts(pending),
		Filters: Filters{
			Departments:      srt.departments(unfiltered, grand),
			DepartmentStages: srt.departmentStages(unfiltered),
			Stages:           globalStages,
			Semesters:        semesters(globalStages),
		},
		Breakdown: Breakdown{
			Departments: srt.departments(resolved, total),
			Stages:      stages,
			Semesters:   semesters(stages),
		},
	}

	for i, v := range flatViews {
		dst := v.dst(&r.Breakdown)
		*dst = srt.flat(flat[i], total, v.bucket)
	}
	r.Totals.Male, r.Totals.Female = genderTotals(flat[0])

	logger.Info("statistics report built",
		"total", total,
		"grand_total", grand,
		"filters", len(clause.Predicates),
		"capabilities", caps.String(),
		"duration_ms", time.Since(start).Milliseconds())
	return r, nil
}

// DeliverySummary breaks down the SMS deliveries of campaignID by status,
// provider and error code, each against the campaign's delivery total.
// Breakdowns whose column does not exist are empty.
func (s *Service) DeliverySummary(ctx context.Context, campaignID string) (*DeliverySummary, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, ErrMissingCampaign
	}

	caps, err := s.probe(ctx, s.deliveries)
	if err != nil {
		return nil, err
	}

	b := predicate.NewBuilder(caps, nil)
	b.Add(fmt.Sprintf("BTRIM(%s::text) = %s", b.Column(schema.AttrCampaignID), b.Arg(campaignID)))
	clause := b.Build()

	views := []schema.Attribute{schema.AttrDeliveryStatus, schema.AttrProvider, schema.AttrErrorCode}
	var (
		totals []domain.CountRow
		rows   = make([][]domain.CountRow, len(views))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.groupCount(gctx, "delivery_total", caps, nil, clause)
		totals = r
		return err
	})
	for i, a := range views {
		if !caps.Has(a) {
			continue
		}
		i, a := i, a
		g.Go(func() error {
			r, err := s.groupCount(gctx, string(a), caps, []schema.Attribute{a}, clause)
			rows[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	srt := newSorter()
	total := domain.SumCounts(totals)
	return &DeliverySummary{
		CampaignID: campaignID,
		Total:      total,
		Statuses:   srt.flat(rows[0], total, rawBucket),
		Providers:  srt.flat(rows[1], total, rawBucket),
		ErrorCodes: srt.flat(rows[2], total, rawBucket),
	}, nil
}

func (s *Service) probe(ctx context.Context, e schema.Entity) (schema.CapabilitySet, error) {
	caps, err := s.prober.Probe(ctx, e)
	if err != nil {
		s.metrics.IncProbeFailure(e.Name)
		return schema.CapabilitySet{}, err
	}
	return caps, nil
}

func (s *Service) groupCount(ctx context.Context, view string, caps schema.CapabilitySet, attrs []schema.Attribute, c predicate.Clause) ([]domain.CountRow, error) {
	start := time.Now()
	rows, err := s.repo.GroupCount(ctx, caps, attrs, c)
	s.metrics.ObserveGroupRead(view, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("reading %s counts: %w", view, err)
	}
	return rows, nil
}
