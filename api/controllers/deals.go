package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/api/validators"
	"github.com/dealdesk/merchant-portal/internal/deals"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/dealdesk/merchant-portal/pkg/pagination"
	"github.com/dealdesk/merchant-portal/pkg/types"
)

const dateLayout = "2006-01-02"

type validityPeriodRequest struct {
	ValidFrom     *string `json:"valid_from"`
	ValidTo       *string `json:"valid_to"`
	ValidTimeFrom string  `json:"valid_time_from"`
	ValidTimeTo   string  `json:"valid_time_to"`
}

// draftRequest is a partial wizard form. Only fields present in the JSON are
// applied; completeness is checked per step, not here.
type draftRequest struct {
	Title           *string                  `json:"title" validate:"omitempty,max=160"`
	Category        *enums.DealCategory      `json:"category"`
	Description     *string                  `json:"description" validate:"omitempty,max=4000"`
	Images          *[]string                `json:"images" validate:"omitempty,max=10"`
	OriginalPrice   *decimal.Decimal         `json:"original_price"`
	DiscountedPrice *decimal.Decimal         `json:"discounted_price"`
	CouponQuantity  *int                     `json:"coupon_quantity"`
	Terms           *string                  `json:"terms" validate:"omitempty,max=4000"`
	TermsAccepted   *bool                    `json:"terms_accepted"`
	ValidityPeriods *[]validityPeriodRequest `json:"validity_periods" validate:"omitempty,max=10"`
}

func (req draftRequest) toInput() (deals.DraftInput, error) {
	input := deals.DraftInput{
		Title:           req.Title,
		Category:        req.Category,
		Description:     req.Description,
		Images:          req.Images,
		OriginalPrice:   req.OriginalPrice,
		DiscountedPrice: req.DiscountedPrice,
		CouponQuantity:  req.CouponQuantity,
		Terms:           req.Terms,
		TermsAccepted:   req.TermsAccepted,
	}
	if req.ValidityPeriods == nil {
		return input, nil
	}

	periods := make([]deals.ValidityPeriod, 0, len(*req.ValidityPeriods))
	for _, p := range *req.ValidityPeriods {
		from, err := parseOptionalDate("valid_from", p.ValidFrom)
		if err != nil {
			return deals.DraftInput{}, err
		}
		to, err := parseOptionalDate("valid_to", p.ValidTo)
		if err != nil {
			return deals.DraftInput{}, err
		}
		period := deals.ValidityPeriod{
			ValidFrom:     from,
			ValidTo:       to,
			ValidTimeFrom: strings.TrimSpace(p.ValidTimeFrom),
			ValidTimeTo:   strings.TrimSpace(p.ValidTimeTo),
		}
		if err := checkClock("valid_time_from", period.ValidTimeFrom); err != nil {
			return deals.DraftInput{}, err
		}
		if err := checkClock("valid_time_to", period.ValidTimeTo); err != nil {
			return deals.DraftInput{}, err
		}
		periods = append(periods, period)
	}
	input.ValidityPeriods = &periods
	return input, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field+" date").
			WithDetails(map[string]string{"field": field, "expected": dateLayout})
	}
	return &t, nil
}

func checkClock(field, value string) error {
	if deals.ValidClock(value) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field+" time").
		WithDetails(map[string]string{"field": field, "expected": "HH:MM"})
}

type transitionRequest struct {
	Kind   deals.TransitionKind `json:"kind" validate:"required,oneof=next back jump"`
	Target int                  `json:"target"`
}

func decodeDraft(r *http.Request) (deals.DraftInput, error) {
	var body draftRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return deals.DraftInput{}, err
	}
	return body.toInput()
}

func DealCreateDraft(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("deals"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := decodeDraft(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.CreateDraft(r.Context(), merchantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, draft)
	}
}

func DealGet(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("deals"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := validators.ParseUUIDParam(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithDealID(r.Context(), dealID)

		deal, err := svc.Get(ctx, merchantID, dealID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

func DealUpdateDraft(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("deals"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := validators.ParseUUIDParam(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithDealID(r.Context(), dealID)
		input, err := decodeDraft(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		draft, err := svc.UpdateDraft(ctx, merchantID, dealID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// DealTransition moves the wizard: next is gated on the current step, back
// and jump are not.
func DealTransition(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("deals"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := validators.ParseUUIDParam(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithDealID(r.Context(), dealID)

		var body transitionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		draft, err := svc.Transition(ctx, merchantID, dealID, deals.Transition{
			Kind:   body.Kind,
			Target: deals.Step(body.Target),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

func DealPublish(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("deals"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := validators.ParseUUIDParam(r, "dealId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithDealID(r.Context(), dealID)

		deal, err := svc.Publish(ctx, merchantID, dealID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

func DealList(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("deals"))
			return
		}
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), merchantID, deals.ListParams{
			Status: r.URL.Query().Get("status"),
			Params: pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, result.Deals, types.PageMeta{NextCursor: result.NextCursor, Limit: limit})
	}
}
