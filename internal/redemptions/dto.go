package redemptions

import (
	"time"

	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/dealdesk/merchant-portal/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reasons a coupon cannot be redeemed right now.
const (
	ReasonAlreadyRedeemed = "already_redeemed"
	ReasonExpired         = "expired"
	ReasonDealInactive    = "deal_inactive"
	ReasonOutsideValidity = "outside_validity"
)

type DealSummary struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Category        enums.DealCategory `json:"category"`
	OriginalPrice   decimal.Decimal    `json:"original_price"`
	DiscountedPrice decimal.Decimal    `json:"discounted_price"`
	PriceDisplay    string             `json:"price_display"`
}

type Window struct {
	ValidFrom     *string `json:"valid_from,omitempty"`
	ValidTo       *string `json:"valid_to,omitempty"`
	ValidTimeFrom string  `json:"valid_time_from"`
	ValidTimeTo   string  `json:"valid_time_to"`
}

// Verification is what the cashier sees after scanning.
type Verification struct {
	Code         string             `json:"code"`
	Payload      string             `json:"payload"`
	Status       enums.CouponStatus `json:"status"`
	Redeemable   bool               `json:"redeemable"`
	Reason       string             `json:"reason,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	PurchasedAt  time.Time          `json:"purchased_at"`
	RedeemedAt   *time.Time         `json:"redeemed_at,omitempty"`
	Deal         *DealSummary       `json:"deal,omitempty"`
	Windows      []Window           `json:"windows"`
}

// RedemptionDTO is one row of the recent redemptions list.
type RedemptionDTO struct {
	CouponID     uuid.UUID `json:"coupon_id"`
	Code         string    `json:"code"`
	DealID       uuid.UUID `json:"deal_id"`
	DealTitle    string    `json:"deal_title"`
	CustomerName string    `json:"customer_name,omitempty"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}

type ListResult struct {
	Redemptions []RedemptionDTO `json:"redemptions"`
	NextCursor  string          `json:"next_cursor,omitempty"`
}

func summarize(d *models.Deal) *DealSummary {
	if d == nil {
		return nil
	}
	return &DealSummary{
		ID:              d.ID,
		Title:           d.Title,
		Category:        d.Category,
		OriginalPrice:   d.OriginalPrice,
		DiscountedPrice: d.DiscountedPrice,
		PriceDisplay:    money.FormatDecimal(d.DiscountedPrice),
	}
}

func windows(d *models.Deal) []Window {
	if d == nil {
		return []Window{}
	}
	out := make([]Window, 0, len(d.ValidityPeriods))
	for _, p := range d.ValidityPeriods {
		out = append(out, Window{
			ValidFrom:     formatDay(p.ValidFrom),
			ValidTo:       formatDay(p.ValidTo),
			ValidTimeFrom: p.ValidTimeFrom,
			ValidTimeTo:   p.ValidTimeTo,
		})
	}
	return out
}

func toRedemption(c models.Coupon) RedemptionDTO {
	dto := RedemptionDTO{
		CouponID:     c.ID,
		Code:         c.Code,
		DealID:       c.DealID,
		CustomerName: c.CustomerName,
	}
	if c.Deal != nil {
		dto.DealTitle = c.Deal.Title
	}
	if c.RedeemedAt != nil {
		dto.RedeemedAt = *c.RedeemedAt
	}
	return dto
}

func formatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
