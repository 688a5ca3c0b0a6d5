package controllers

import (
	"net/http"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/api/validators"
	"github.com/dealdesk/merchant-portal/internal/settings"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/logger"
)

type updateSettingsRequest struct {
	DarkMode *bool `json:"dark_mode" validate:"required"`
}

// SettingsGet returns the settings the Settings middleware loaded for this request.
func SettingsGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := settings.FromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings not loaded"))
			return
		}
		responses.WriteSuccess(w, current)
	}
}

func SettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("settings"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), merchantID, settings.Update{DarkMode: body.DarkMode})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
