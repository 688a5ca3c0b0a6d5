package controllers

import (
	"net/http"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/api/validators"
	"github.com/dealdesk/merchant-portal/internal/merchants"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/dealdesk/merchant-portal/pkg/logger"
)

// updateProfileRequest is the profile form; absent fields stay unchanged and
// an empty string clears an optional one.
type updateProfileRequest struct {
	Email        *string             `json:"email" validate:"omitempty,email"`
	OwnerName    *string             `json:"owner_name" validate:"omitempty,max=120"`
	BusinessName *string             `json:"business_name" validate:"omitempty,max=160"`
	Phone        *string             `json:"phone" validate:"omitempty,max=32"`
	Address      *string             `json:"address" validate:"omitempty,max=300"`
	Category     *enums.DealCategory `json:"category"`
	Description  *string             `json:"description" validate:"omitempty,max=2000"`
	OpeningHours *string             `json:"opening_hours" validate:"omitempty,max=300"`
	LogoDataURL  *string             `json:"logo_data_url"`
}

func MerchantMe(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("merchants"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		merchant, err := svc.Get(r.Context(), merchantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, merchant)
	}
}

func MerchantUpdate(svc merchants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("merchants"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		merchant, err := svc.Update(r.Context(), merchantID, merchants.UpdateProfileInput{
			Email:        body.Email,
			OwnerName:    body.OwnerName,
			BusinessName: body.BusinessName,
			Phone:        body.Phone,
			Address:      body.Address,
			Category:     body.Category,
			Description:  body.Description,
			OpeningHours: body.OpeningHours,
			LogoDataURL:  body.LogoDataURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, merchant)
	}
}
