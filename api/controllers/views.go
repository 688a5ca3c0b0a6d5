package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/api/validators"
	"github.com/dealdesk/merchant-portal/internal/views"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/logger"
)

// ViewRender returns the model of one dashboard screen.
func ViewRender(svc views.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("views"))
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
		draft, err := validators.ParseOptionalUUIDQuery(r, "draft")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		name := chi.URLParam(r, "view")
		view, ok := views.Parse(name, views.Params{
			Query:  query,
			Status: r.URL.Query().Get("status"),
			Draft:  draft,
		})
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "view not found").
				WithDetails(map[string]string{"view": name}))
			return
		}

		model, err := svc.Render(r.Context(), merchantID, view)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, model)
	}
}
