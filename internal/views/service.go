package views

import (
	"context"
	"fmt"

	"github.com/dealdesk/merchant-portal/internal/analytics"
	"github.com/dealdesk/merchant-portal/internal/deals"
	"github.com/dealdesk/merchant-portal/internal/merchants"
	"github.com/dealdesk/merchant-portal/internal/redemptions"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/pagination"
	"github.com/google/uuid"
)

// recentRedemptions is how many rows the redeem screen shows under the scanner.
const recentRedemptions = 5

// Model is what a screen renders: its name, title and data.
type Model struct {
	View  Name   `json:"view"`
	Title string `json:"title"`
	Data  any    `json:"data"`
}

// Wizard is the create-deal screen: an empty stepper or a resumed draft.
type Wizard struct {
	Steps []deals.StepState `json:"steps"`
	Draft *deals.DealDTO    `json:"draft,omitempty"`
}

// RedeemScreen lists the latest redemptions under the scanner.
type RedeemScreen struct {
	Recent []redemptions.RedemptionDTO `json:"recent"`
}

type Service interface {
	Render(ctx context.Context, merchantID uuid.UUID, v View) (*Model, error)
}

type ServiceParams struct {
	Analytics   analytics.Service
	Deals       deals.Service
	Merchants   merchants.Service
	Redemptions redemptions.Service
}

type service struct {
	analytics   analytics.Service
	deals       deals.Service
	merchants   merchants.Service
	redemptions redemptions.Service
}

func NewService(params ServiceParams) (Service, error) {
	if params.Analytics == nil {
		return nil, fmt.Errorf("analytics service required")
	}
	if params.Deals == nil {
		return nil, fmt.Errorf("deals service required")
	}
	if params.Merchants == nil {
		return nil, fmt.Errorf("merchants service required")
	}
	if params.Redemptions == nil {
		return nil, fmt.Errorf("redemptions service required")
	}
	return &service{
		analytics:   params.Analytics,
		deals:       params.Deals,
		merchants:   params.Merchants,
		redemptions: params.Redemptions,
	}, nil
}

func (s *service) Render(ctx context.Context, merchantID uuid.UUID, v View) (*Model, error) {
	if v == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "view not found")
	}

	var (
		data  any
		err   error
		title string
	)
	switch view := v.(type) {
	case Overview:
		title = "Overview"
		data, err = s.analytics.Overview(ctx, merchantID, view.Query)
	case Analytics:
		title = "Analytics"
		data, err = s.analytics.Analytics(ctx, merchantID, view.Query)
	case Deals:
		title = "Deals"
		data, err = s.deals.List(ctx, merchantID, deals.ListParams{Status: view.Status})
	case CreateDeal:
		title = "Create Deal"
		data, err = s.wizard(ctx, merchantID, view.DraftID)
	case Profile:
		title = "Profile"
		data, err = s.merchants.Get(ctx, merchantID)
	case Redeem:
		title = "Redeem"
		data, err = s.redeem(ctx, merchantID)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unhandled view %T", v))
	}
	if err != nil {
		return nil, err
	}
	return &Model{View: v.Name(), Title: title, Data: data}, nil
}

func (s *service) wizard(ctx context.Context, merchantID uuid.UUID, draftID *uuid.UUID) (*Wizard, error) {
	if draftID == nil {
		steps := make([]deals.StepState, 0, len(deals.Steps))
		for _, step := range deals.Steps {
			steps = append(steps, deals.StepState{
				Step:    int(step),
				Name:    step.String(),
				Current: step == deals.FirstStep,
			})
		}
		return &Wizard{Steps: steps}, nil
	}
	draft, err := s.deals.Get(ctx, merchantID, *draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != enums.DealStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deal is already published")
	}
	return &Wizard{Steps: draft.Steps, Draft: draft}, nil
}

func (s *service) redeem(ctx context.Context, merchantID uuid.UUID) (*RedeemScreen, error) {
	page, err := s.redemptions.List(ctx, merchantID, pagination.Params{Limit: recentRedemptions})
	if err != nil {
		return nil, err
	}
	return &RedeemScreen{Recent: page.Redemptions}, nil
}
