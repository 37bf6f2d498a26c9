// Package http provides http transport for reward reports
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"conflux/internal/modkit/httpkit"
	perr "conflux/internal/platform/errors"
	ptime "conflux/internal/platform/time"
	"conflux/internal/services/reward/domain"
)

// Register mounts the report endpoints on the given router
func Register(r httpkit.Router, p domain.ReportPort) {
	h := &handlers{reports: p}

	// configured window, overridable by query
	httpkit.Get(r, "/report", h.get)

	// overrides in the body
	httpkit.PostJSON[domain.ReportInput](r, "/report", h.post)
}

type handlers struct{ reports domain.ReportPort }

// swagger:route GET /rewards/report Rewards rewardsReport
// @Summary Compute the reward report
// @Tags Rewards
// @Produce json
// @Param from query string false "exclusive lower bound, RFC3339"
// @Param to query string false "exclusive upper bound, RFC3339"
// @Param languages query string false "comma separated BCP 47 tags"
// @Success 200 {object} domain.Report "ok"
// @Router /rewards/report [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	in, err := InputFromQuery(r)
	if err != nil {
		return nil, err
	}
	return h.reports.Compute(r.Context(), in)
}

// swagger:route POST /rewards/report Rewards rewardsReportWith
// @Summary Compute the reward report with overrides
// @Tags Rewards
// @Accept json
// @Produce json
// @Param payload body domain.ReportInput true "Overrides"
// @Success 200 {object} domain.Report "ok"
// @Router /rewards/report [post]
func (h *handlers) post(r *stdhttp.Request, in domain.ReportInput) (any, error) {
	return h.reports.Compute(r.Context(), in)
}

// InputFromQuery reads from, to and languages query params
// archiving writes to clickhouse, so it is only accepted in a POST body
func InputFromQuery(r *stdhttp.Request) (domain.ReportInput, error) {
	q := r.URL.Query()
	var in domain.ReportInput

	for _, b := range []struct {
		key string
		dst **time.Time
	}{{"from", &in.From}, {"to", &in.To}} {
		t, err := ptime.ParseBound(q.Get(b.key))
		if err != nil {
			return in, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be RFC3339", b.key), b.key)
		}
		*b.dst = t
	}

	for _, l := range strings.Split(q.Get("languages"), ",") {
		if l = strings.TrimSpace(l); l != "" {
			in.Languages = append(in.Languages, l)
		}
	}

	if q.Has("archive") {
		return in, perr.WithField(perr.New(perr.ErrorCodeValidation, "archive is only accepted in a POST body"), "archive")
	}
	return in, nil
}
