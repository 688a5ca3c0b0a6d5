package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/api/validators"
	"github.com/dealdesk/merchant-portal/internal/redemptions"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/dealdesk/merchant-portal/pkg/pagination"
	"github.com/dealdesk/merchant-portal/pkg/qrcode"
	"github.com/dealdesk/merchant-portal/pkg/types"
)

type scanRequest struct {
	Payload string `json:"payload" validate:"required,max=256"`
}

type redeemRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// RedemptionQR renders a coupon's QR code as PNG.
func RedemptionQR(svc redemptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("redemptions"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := validators.ParseQueryInt(r, "size", 0, qrcode.MinSize, qrcode.MaxSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		png, err := svc.QRCode(r.Context(), merchantID, chi.URLParam(r, "code"), size, r.URL.Query().Get("level"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePNG(w, png)
	}
}

// RedemptionScan decodes a scanned payload and reports whether it can be redeemed.
func RedemptionScan(svc redemptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("redemptions"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body scanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Scan(r.Context(), merchantID, body.Payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func RedemptionRedeem(svc redemptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("redemptions"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body redeemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Redeem(r.Context(), merchantID, body.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func RedemptionList(svc redemptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("redemptions"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), merchantID, pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, result.Redemptions, types.PageMeta{NextCursor: result.NextCursor, Limit: limit})
	}
}
