package deals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/db"
	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dealRepository interface {
	Create(ctx context.Context, deal *models.Deal) error
	FindByID(ctx context.Context, merchantID, id uuid.UUID) (*models.Deal, error)
	SaveDraft(ctx context.Context, deal *models.Deal, replacePeriods bool) error
	Publish(ctx context.Context, deal *models.Deal, coupons []models.Coupon) error
	List(ctx context.Context, merchantID uuid.UUID, status *enums.DealStatus, cursor *pagination.Cursor, limit int) ([]models.Deal, error)
}

// Service drives the deal-creation wizard and the deal list.
type Service interface {
	CreateDraft(ctx context.Context, merchantID uuid.UUID, input DraftInput) (*DealDTO, error)
	Get(ctx context.Context, merchantID, dealID uuid.UUID) (*DealDTO, error)
	UpdateDraft(ctx context.Context, merchantID, dealID uuid.UUID, input DraftInput) (*DealDTO, error)
	Transition(ctx context.Context, merchantID, dealID uuid.UUID, t Transition) (*DealDTO, error)
	Publish(ctx context.Context, merchantID, dealID uuid.UUID) (*DealDTO, error)
	List(ctx context.Context, merchantID uuid.UUID, params ListParams) (*ListResult, error)
}

// ListParams filters the deal list; Status is optional.
type ListParams struct {
	Status string
	pagination.Params
}

type service struct {
	repo dealRepository
	now  func() time.Time
}

// NewService builds the deal service on top of repo.
func NewService(repo dealRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deal repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) CreateDraft(ctx context.Context, merchantID uuid.UUID, input DraftInput) (*DealDTO, error) {
	deal := &models.Deal{
		ID:          uuid.New(),
		MerchantID:  merchantID,
		Images:      []string{},
		Status:      enums.DealStatusDraft,
		CurrentStep: int(FirstStep),
	}
	input.apply(deal)
	if err := s.repo.Create(ctx, deal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create draft")
	}
	return FromModel(deal), nil
}

func (s *service) Get(ctx context.Context, merchantID, dealID uuid.UUID) (*DealDTO, error) {
	deal, err := s.load(ctx, merchantID, dealID)
	if err != nil {
		return nil, err
	}
	return FromModel(deal), nil
}

func (s *service) UpdateDraft(ctx context.Context, merchantID, dealID uuid.UUID, input DraftInput) (*DealDTO, error) {
	deal, err := s.loadDraft(ctx, merchantID, dealID)
	if err != nil {
		return nil, err
	}
	input.apply(deal)
	if err := s.repo.SaveDraft(ctx, deal, input.ValidityPeriods != nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save draft")
	}
	return FromModel(deal), nil
}

func (s *service) Transition(ctx context.Context, merchantID, dealID uuid.UUID, t Transition) (*DealDTO, error) {
	deal, err := s.loadDraft(ctx, merchantID, dealID)
	if err != nil {
		return nil, err
	}
	next, err := Advance(Step(deal.CurrentStep), t, toDraft(deal))
	if err != nil {
		return nil, err
	}
	if int(next) == deal.CurrentStep {
		return FromModel(deal), nil
	}
	deal.CurrentStep = int(next)
	if err := s.repo.SaveDraft(ctx, deal, false); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save draft step")
	}
	return FromModel(deal), nil
}

func (s *service) Publish(ctx context.Context, merchantID, dealID uuid.UUID) (*DealDTO, error) {
	deal, err := s.loadDraft(ctx, merchantID, dealID)
	if err != nil {
		return nil, err
	}
	if Step(deal.CurrentStep) != LastStep {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deals can only be published from the review step")
	}
	if err := ValidateAll(toDraft(deal)); err != nil {
		return nil, validationError("draft is incomplete", err)
	}

	codes, err := newCouponCodes(deal.CouponQuantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue coupons")
	}
	now := s.now().UTC()
	coupons := make([]models.Coupon, 0, len(codes))
	for _, code := range codes {
		coupons = append(coupons, models.Coupon{
			DealID:      deal.ID,
			MerchantID:  deal.MerchantID,
			Code:        code,
			Status:      enums.CouponStatusPurchased,
			PurchasedAt: now,
		})
	}

	deal.Status = enums.DealStatusActive
	deal.PublishedAt = &now
	if err := s.repo.Publish(ctx, deal, coupons); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deal was already published")
		case db.IsUniqueViolation(err, ""):
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon code collision, retry publish")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish deal")
	}
	return FromModel(deal), nil
}

func (s *service) List(ctx context.Context, merchantID uuid.UUID, params ListParams) (*ListResult, error) {
	var status *enums.DealStatus
	if raw := strings.TrimSpace(params.Status); raw != "" {
		parsed, err := enums.ParseDealStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		status = &parsed
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, merchantID, status, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deals")
	}
	rows, next := pagination.Trim(rows, params.Limit, func(d models.Deal) pagination.Cursor {
		return pagination.Cursor{At: d.CreatedAt, ID: d.ID}
	})

	out := &ListResult{Deals: make([]DealDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		out.Deals = append(out.Deals, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, merchantID, dealID uuid.UUID) (*models.Deal, error) {
	deal, err := s.repo.FindByID(ctx, merchantID, dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deal")
	}
	return deal, nil
}

func (s *service) loadDraft(ctx context.Context, merchantID, dealID uuid.UUID) (*models.Deal, error) {
	deal, err := s.load(ctx, merchantID, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status != enums.DealStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deal is no longer a draft")
	}
	return deal, nil
}
