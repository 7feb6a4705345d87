package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/pkg/httputil"
	"github.com/ignite/student-registry/internal/schema"
	"github.com/ignite/student-registry/internal/service/statistics"
)

// GetStatistics returns totals, filter catalogs and breakdowns for the
// filters given in the query string.
//
//	GET /api/statistics?department=dept-cs&stage=stage-first&gender=male
func (h *Handlers) GetStatistics(w http.ResponseWriter, r *http.Request) {
	f := domain.ParseFilterRequest(r.URL.Query())

	report, err := h.statistics.Report(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, report)
}

// GetDeliverySummary returns delivery counts for one campaign.
//
//	GET /api/campaigns/{campaignID}/deliveries/summary
func (h *Handlers) GetDeliverySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statistics.DeliverySummary(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		if errors.Is(err, statistics.ErrMissingCampaign) {
			httputil.BadRequest(w, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, summary)
}

// writeServiceError maps fatal service failures onto generic responses.
// A failed schema probe means the store cannot be described at all.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, schema.ErrProbeFailed) {
		httputil.ServiceUnavailable(w, err)
		return
	}
	httputil.InternalError(w, err)
}
