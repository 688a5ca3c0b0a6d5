package redemptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/metrics"
	"github.com/dealdesk/merchant-portal/pkg/pagination"
	"github.com/dealdesk/merchant-portal/pkg/qrcode"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type couponRepository interface {
	FindByCode(ctx context.Context, merchantID uuid.UUID, code string) (*models.Coupon, error)
	MarkRedeemed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ListRedeemed(ctx context.Context, merchantID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Coupon, error)
}

// Service is the QR redemption simulator.
type Service interface {
	QRCode(ctx context.Context, merchantID uuid.UUID, code string, size int, level string) ([]byte, error)
	Scan(ctx context.Context, merchantID uuid.UUID, payload string) (*Verification, error)
	Verify(ctx context.Context, merchantID uuid.UUID, code string) (*Verification, error)
	Redeem(ctx context.Context, merchantID uuid.UUID, code string) (*Verification, error)
	List(ctx context.Context, merchantID uuid.UUID, params pagination.Params) (*ListResult, error)
}

type ServiceParams struct {
	Repo         couponRepository
	Codec        qrcode.Codec
	ReferenceDay time.Time
	DefaultSize  int
	PageLimit    int
	Metrics      *metrics.Portal
}

type service struct {
	repo        couponRepository
	codec       qrcode.Codec
	reference   time.Time
	defaultSize int
	pageLimit   int
	metrics     *metrics.Portal
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if params.ReferenceDay.IsZero() {
		return nil, fmt.Errorf("reference day required")
	}
	size := params.DefaultSize
	if size == 0 {
		size = qrcode.DefaultSize
	}
	return &service{
		repo:        params.Repo,
		codec:       params.Codec,
		reference:   params.ReferenceDay.UTC().Truncate(24 * time.Hour),
		defaultSize: size,
		pageLimit:   params.PageLimit,
		metrics:     params.Metrics,
		now:         time.Now,
	}, nil
}

func (s *service) QRCode(ctx context.Context, merchantID uuid.UUID, code string, size int, level string) ([]byte, error) {
	if size == 0 {
		size = s.defaultSize
	}
	lvl, err := qrcode.ParseLevel(level)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid level")
	}
	coupon, err := s.find(ctx, merchantID, qrcode.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	png, err := s.codec.PNG(coupon.Code, size, lvl)
	if err != nil {
		if errors.Is(err, qrcode.ErrInvalidSize) || errors.Is(err, qrcode.ErrInvalidPayload) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cannot render qr")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render qr")
	}
	return png, nil
}

func (s *service) Scan(ctx context.Context, merchantID uuid.UUID, payload string) (*Verification, error) {
	code, err := s.codec.Decode(payload)
	if err != nil {
		s.metrics.IncRedemption("unreadable")
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable qr payload")
	}
	return s.Verify(ctx, merchantID, code)
}

func (s *service) Verify(ctx context.Context, merchantID uuid.UUID, code string) (*Verification, error) {
	coupon, err := s.find(ctx, merchantID, qrcode.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	return s.verification(coupon), nil
}

func (s *service) Redeem(ctx context.Context, merchantID uuid.UUID, code string) (*Verification, error) {
	coupon, err := s.find(ctx, merchantID, qrcode.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	v := s.verification(coupon)
	if !v.Redeemable {
		s.metrics.IncRedemption(v.Reason)
		if v.Reason == ReasonAlreadyRedeemed {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon already redeemed").WithDetails(v)
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon cannot be redeemed").WithDetails(v)
	}

	at := s.now().UTC()
	ok, err := s.repo.MarkRedeemed(ctx, coupon.ID, at)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupon")
	}
	if !ok {
		s.metrics.IncRedemption(ReasonAlreadyRedeemed)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon already redeemed")
	}
	s.metrics.IncRedemption("redeemed")

	coupon.Status = enums.CouponStatusRedeemed
	coupon.RedeemedAt = &at
	return s.verification(coupon), nil
}

func (s *service) List(ctx context.Context, merchantID uuid.UUID, params pagination.Params) (*ListResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = s.pageLimit
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListRedeemed(ctx, merchantID, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list redemptions")
	}
	rows, next := pagination.Trim(rows, limit, func(c models.Coupon) pagination.Cursor {
		at := time.Time{}
		if c.RedeemedAt != nil {
			at = *c.RedeemedAt
		}
		return pagination.Cursor{At: at, ID: c.ID}
	})

	out := &ListResult{Redemptions: make([]RedemptionDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		out.Redemptions = append(out.Redemptions, toRedemption(row))
	}
	return out, nil
}

func (s *service) find(ctx context.Context, merchantID uuid.UUID, code string) (*models.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, merchantID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncRedemption("not_found")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return coupon, nil
}

func (s *service) verification(c *models.Coupon) *Verification {
	v := &Verification{
		Code:         c.Code,
		Payload:      s.codec.Payload(c.Code),
		Status:       c.Status,
		CustomerName: c.CustomerName,
		PurchasedAt:  c.PurchasedAt,
		RedeemedAt:   c.RedeemedAt,
		Deal:         summarize(c.Deal),
		Windows:      windows(c.Deal),
	}
	v.Reason = s.blockReason(c)
	v.Redeemable = v.Reason == ""
	return v
}

func (s *service) blockReason(c *models.Coupon) string {
	switch c.Status {
	case enums.CouponStatusRedeemed:
		return ReasonAlreadyRedeemed
	case enums.CouponStatusExpired:
		return ReasonExpired
	}
	if c.Deal == nil || c.Deal.Status != enums.DealStatusActive {
		return ReasonDealInactive
	}
	if !withinValidity(c.Deal.ValidityPeriods, s.reference) {
		return ReasonOutsideValidity
	}
	return ""
}

// withinValidity checks day against the date part of each period. A period
// without an end date stays open from its start.
func withinValidity(periods []models.ValidityPeriod, day time.Time) bool {
	for _, p := range periods {
		if p.ValidFrom == nil {
			continue
		}
		from := p.ValidFrom.UTC().Truncate(24 * time.Hour)
		if day.Before(from) {
			continue
		}
		if p.ValidTo != nil && day.After(p.ValidTo.UTC().Truncate(24*time.Hour)) {
			continue
		}
		return true
	}
	return false
}
