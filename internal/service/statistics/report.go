package statistics

import "github.com/ignite/student-registry/internal/domain"

// Report is the full statistics response.
type Report struct {
	Totals           Totals    `json:"totals"`
	NewStudentsCount int       `json:"newStudentsCount"`
	Filters          Filters   `json:"filters"`
	Breakdown        Breakdown `json:"breakdown"`
}

// Totals holds the headline counts. TotalStudents, Male and Female respect
// the filter; GrandTotal does not.
type Totals struct {
	TotalStudents int `json:"totalStudents"`
	Male          int `json:"male"`
	Female        int `json:"female"`
	GrandTotal    int `json:"grandTotal"`
}

// Filters is the unfiltered taxonomy. Department and stage percentages are
// against the grand total; nested levels are against their parent.
type Filters struct {
	Departments      []domain.AggregationEntry      `json:"departments"`
	DepartmentStages map[string][]domain.StageEntry `json:"departmentStages"`
	Stages           []domain.StageEntry            `json:"stages"`
	Semesters        []domain.SemesterEntry         `json:"semesters"`
}

// Breakdown holds the filtered counts. Percentages are against the filtered
// total, except semesters which are against their parent stage.
type Breakdown struct {
	Departments       []domain.AggregationEntry `json:"departments"`
	Stages            []domain.StageEntry       `json:"stages"`
	Semesters         []domain.SemesterEntry    `json:"semesters"`
	Genders           []domain.AggregationEntry `json:"genders"`
	Statuses          []domain.AggregationEntry `json:"statuses"`
	AdmissionChannels []domain.AggregationEntry `json:"admissionChannels"`
	StudyTypes        []domain.AggregationEntry `json:"studyTypes"`
	AcademicYears     []domain.AggregationEntry `json:"academicYears"`
	PaymentStatuses   []domain.AggregationEntry `json:"paymentStatuses"`
}

// DeliverySummary breaks down the SMS deliveries of one campaign.
type DeliverySummary struct {
	CampaignID string                    `json:"campaignId"`
	Total      int                       `json:"total"`
	Statuses   []domain.AggregationEntry `json:"statuses"`
	Providers  []domain.AggregationEntry `json:"providers"`
	ErrorCodes []domain.AggregationEntry `json:"errorCodes"`
}
