package controllers

import (
	"net/http"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/api/validators"
	"github.com/dealdesk/merchant-portal/internal/analytics"
	"github.com/dealdesk/merchant-portal/pkg/logger"
)

const maxSearchLen = 100

// parseDashboardQuery reads preset, from, to, q and limit.
func parseDashboardQuery(r *http.Request) (analytics.Query, error) {
	q := r.URL.Query()
	selector, err := analytics.ParseSelector(q.Get("preset"), q.Get("from"), q.Get("to"))
	if err != nil {
		return analytics.Query{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
	if err != nil {
		return analytics.Query{}, err
	}
	return analytics.Query{
		Selector: selector,
		Search:   validators.SanitizeString(q.Get("q"), maxSearchLen),
		Limit:    limit,
	}, nil
}

func DashboardOverview(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("analytics"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query, err := parseDashboardQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overview, err := svc.Overview(r.Context(), merchantID, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

func DashboardAnalytics(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("analytics"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query, err := parseDashboardQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Analytics(r.Context(), merchantID, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
