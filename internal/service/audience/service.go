package audience

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/pkg/logger"
	"github.com/ignite/student-registry/internal/pkg/metrics"
	"github.com/ignite/student-registry/internal/predicate"
	"github.com/ignite/student-registry/internal/schema"
	"github.com/ignite/student-registry/internal/taxonomy"
)

// Defaults applied by NewService.
const (
	DefaultMaxRecipients   = 500
	DefaultPlaceholderName = "طالب"
)

// DefaultPhonePreference is the phone attribute order used when none is
// configured.
var DefaultPhonePreference = []schema.Attribute{schema.AttrPhone, schema.AttrEmergencyPhone}

var nameAttributes = []schema.Attribute{
	schema.AttrFullNameAr,
	schema.AttrFullNameEn,
	schema.AttrFirstName,
	schema.AttrLastName,
}

// Options configures a Service.
type Options struct {
	Students schema.Entity

	// Text normalizes department names. Nil uses the in-process fold.
	Text taxonomy.TextSource

	MaxRecipients   int
	PhonePreference []schema.Attribute
	PlaceholderName string

	Metrics *metrics.Metrics
}

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	ID         string                   `json:"resolutionId"`
	Count      int                      `json:"count"`
	Recipients []domain.RecipientRecord `json:"recipients"`
}

// Service resolves audiences to recipients.
type Service struct {
	repo        Repository
	prober      *schema.Prober
	text        taxonomy.TextSource
	students    schema.Entity
	max         int
	phones      []schema.Attribute
	placeholder string
	metrics     *metrics.Metrics
}

// NewService creates an audience service backed by the given repository.
func NewService(repo Repository, opts Options) *Service {
	s := &Service{
		repo:        repo,
		prober:      schema.NewProber(repo),
		text:        opts.Text,
		students:    opts.Students,
		max:         opts.MaxRecipients,
		phones:      opts.PhonePreference,
		placeholder: opts.PlaceholderName,
		metrics:     opts.Metrics,
	}
	if s.text == nil {
		s.text = taxonomy.LocalText{}
	}
	if s.max <= 0 {
		s.max = DefaultMaxRecipients
	}
	if len(s.phones) == 0 {
		s.phones = DefaultPhonePreference
	}
	if s.placeholder == "" {
		s.placeholder = DefaultPlaceholderName
	}
	return s
}

// Resolve returns the deduplicated, capped recipient list of a. An audience
// that cannot be evaluated against the current schema resolves to an empty
// list, not an error.
func (s *Service) Resolve(ctx context.Context, a Audience) (*Resolution, error) {
	res := &Resolution{ID: uuid.New().String(), Recipients: make([]domain.RecipientRecord, 0)}

	var err error
	switch a := a.(type) {
	case Custom:
		res.Recipients = s.custom(a.Phones)
	case All:
		err = s.selectStudents(ctx, res, a.Filters, false)
	case Department:
		err = s.selectStudents(ctx, res, a.Filters.With(domain.DimDepartment, a.ID), false)
	case Stage:
		err = s.selectStudents(ctx, res, a.Filters.With(domain.DimStage, a.ID), false)
	case Semester:
		err = s.selectStudents(ctx, res, a.Filters.With(domain.DimSemester, a.ID), false)
	case NewStudents:
		err = s.selectStudents(ctx, res, a.Filters, true)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAudience, a)
	}
	if err != nil {
		return nil, err
	}

	res.Count = len(res.Recipients)
	s.metrics.ObserveAudience(string(a.Type()), res.Count)
	logger.Info("audience resolved",
		"resolution_id", res.ID,
		"audience", string(a.Type()),
		"count", res.Count)
	return res, nil
}

// selectStudents reads the students matching f that have a phone. pending narrows
// the read to applicants with a pending registration.
func (s *Service) selectStudents(ctx context.Context, res *Resolution, f domain.FilterRequest, pending bool) error {
	caps, err := s.prober.Probe(ctx, s.students)
	if err != nil {
		s.metrics.IncProbeFailure(s.students.Name)
		return err
	}

	phones := caps.Supported(s.phones...)
	if len(phones) == 0 {
		logger.Warn("no phone attribute available, audience is empty",
			"resolution_id", res.ID, "capabilities", caps.String())
		return nil
	}

	var catalog *taxonomy.Catalog
	if needsCatalog(f) {
		rows, err := s.repo.GroupCount(ctx, caps, taxonomy.Attributes(caps), predicate.Clause{})
		if err != nil {
			return fmt.Errorf("reading taxonomy counts: %w", err)
		}
		catalog, err = taxonomy.Load(ctx, s.text, taxonomy.FromCounts(rows), caps.Has(schema.AttrSemester))
		if err != nil {
			return fmt.Errorf("loading taxonomy: %w", err)
		}
	}

	b := predicate.NewBuilder(caps, catalog).Filters(f)
	if pending && !b.PendingRegistration() {
		logger.Info("no pending-registration attribute available, audience is empty",
			"resolution_id", res.ID, "capabilities", caps.String())
		return nil
	}
	b.Add(predicate.Coalesce(caps, phones) + " IS NOT NULL")

	q := RecipientQuery{
		Caps:   caps,
		Phones: phones,
		Names:  caps.Supported(nameAttributes...),
		Clause: b.Build(),
	}

	seen := make(map[string]bool)
	err = s.repo.Recipients(ctx, q, func(c Candidate) bool {
		phone := strings.TrimSpace(c.Phone)
		k := PhoneKey(phone)
		if k == "" || seen[k] {
			return true
		}
		seen[k] = true
		name := s.displayName(c)
		res.Recipients = append(res.Recipients, domain.RecipientRecord{ID: c.ID, Name: &name, Phone: phone})
		return len(res.Recipients) < s.max
	})
	if err != nil {
		return fmt.Errorf("reading recipients: %w", err)
	}
	return nil
}

func needsCatalog(f domain.FilterRequest) bool {
	return f.IsConstrained(domain.DimDepartment) ||
		f.IsConstrained(domain.DimStage) ||
		f.IsConstrained(domain.DimSemester)
}

// custom trims the caller's list, drops empties and duplicates, and caps it.
func (s *Service) custom(phones []string) []domain.RecipientRecord {
	out := make([]domain.RecipientRecord, 0, len(phones))
	seen := make(map[string]bool, len(phones))
	for _, p := range phones {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k := PhoneKey(p)
		if k == "" {
			k = p
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, domain.RecipientRecord{ID: "custom-" + strconv.Itoa(len(out)+1), Phone: p})
		if len(out) >= s.max {
			break
		}
	}
	return out
}

// displayName prefers the Arabic full name, then the English full name, then
// first and last name, then the placeholder.
func (s *Service) displayName(c Candidate) string {
	if n := strings.TrimSpace(c.FullNameAr); n != "" {
		return n
	}
	if n := strings.TrimSpace(c.FullNameEn); n != "" {
		return n
	}
	if n := strings.Join(strings.Fields(c.FirstName+" "+c.LastName), " "); n != "" {
		return n
	}
	return s.placeholder
}
