package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/pkg/httputil"
	"github.com/ignite/student-registry/internal/service/audience"
)

// resolveAudienceRequest is the body of an audience resolution call.
type resolveAudienceRequest struct {
	AudienceType string            `json:"audienceType"`
	Filters      map[string]string `json:"filters"`
	Recipients   []string          `json:"recipients"`
}

// ResolveAudience turns an audience description into a deduplicated,
// capped recipient list.
//
//	POST /api/campaigns/audience/resolve
func (h *Handlers) ResolveAudience(w http.ResponseWriter, r *http.Request) {
	var req resolveAudienceRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	q := make(url.Values, len(req.Filters))
	for k, v := range req.Filters {
		q.Set(k, v)
	}

	a, err := audience.Parse(req.AudienceType, domain.ParseFilterRequest(q), req.Recipients)
	if err != nil {
		switch {
		case errors.Is(err, audience.ErrUnknownAudience):
			httputil.ErrorCode(w, http.StatusBadRequest, "unknown_audience", err.Error())
		case errors.Is(err, audience.ErrMissingAudienceValue):
			httputil.ErrorCode(w, http.StatusBadRequest, "missing_value", err.Error())
		default:
			httputil.BadRequest(w, err.Error())
		}
		return
	}

	res, err := h.audience.Resolve(r.Context(), a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, res)
}
