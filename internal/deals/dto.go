package deals

import (
	"time"

	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftInput is a partial update of the wizard form. Nil fields are left unchanged.
type DraftInput struct {
	Title           *string
	Category        *enums.DealCategory
	Description     *string
	Images          *[]string
	OriginalPrice   *decimal.Decimal
	DiscountedPrice *decimal.Decimal
	CouponQuantity  *int
	Terms           *string
	TermsAccepted   *bool
	ValidityPeriods *[]ValidityPeriod
}

type ValidityPeriodDTO struct {
	ValidFrom     *string `json:"valid_from,omitempty"`
	ValidTo       *string `json:"valid_to,omitempty"`
	ValidTimeFrom string  `json:"valid_time_from"`
	ValidTimeTo   string  `json:"valid_time_to"`
}

// StepState drives the stepper: whether each page currently validates.
type StepState struct {
	Step     int    `json:"step"`
	Name     string `json:"name"`
	Complete bool   `json:"complete"`
	Current  bool   `json:"current"`
}

// DealDTO is the API shape of a deal or draft.
type DealDTO struct {
	ID              uuid.UUID           `json:"id"`
	MerchantID      uuid.UUID           `json:"merchant_id"`
	Title           string              `json:"title"`
	Category        enums.DealCategory  `json:"category"`
	Description     string              `json:"description"`
	Images          []string            `json:"images"`
	OriginalPrice   decimal.Decimal     `json:"original_price"`
	DiscountedPrice decimal.Decimal     `json:"discounted_price"`
	DiscountPercent int64               `json:"discount_percent"`
	CouponQuantity  int                 `json:"coupon_quantity"`
	Terms           string              `json:"terms"`
	TermsAccepted   bool                `json:"terms_accepted"`
	ValidityPeriods []ValidityPeriodDTO `json:"validity_periods"`
	Status          enums.DealStatus    `json:"status"`
	CurrentStep     int                 `json:"current_step"`
	Steps           []StepState         `json:"steps,omitempty"`
	PublishedAt     *time.Time          `json:"published_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ListResult is one page of deals.
type ListResult struct {
	Deals      []DealDTO `json:"deals"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted deal into a DTO; drafts include the stepper state.
func FromModel(m *models.Deal) *DealDTO {
	if m == nil {
		return nil
	}
	dto := &DealDTO{
		ID:              m.ID,
		MerchantID:      m.MerchantID,
		Title:           m.Title,
		Category:        m.Category,
		Description:     m.Description,
		Images:          append([]string{}, m.Images...),
		OriginalPrice:   m.OriginalPrice,
		DiscountedPrice: m.DiscountedPrice,
		DiscountPercent: discountPercent(m.OriginalPrice, m.DiscountedPrice),
		CouponQuantity:  m.CouponQuantity,
		Terms:           m.Terms,
		TermsAccepted:   m.TermsAccepted,
		ValidityPeriods: make([]ValidityPeriodDTO, 0, len(m.ValidityPeriods)),
		Status:          m.Status,
		CurrentStep:     m.CurrentStep,
		PublishedAt:     m.PublishedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for _, p := range m.ValidityPeriods {
		dto.ValidityPeriods = append(dto.ValidityPeriods, ValidityPeriodDTO{
			ValidFrom:     formatDate(p.ValidFrom),
			ValidTo:       formatDate(p.ValidTo),
			ValidTimeFrom: p.ValidTimeFrom,
			ValidTimeTo:   p.ValidTimeTo,
		})
	}

	if m.Status == enums.DealStatusDraft {
		draft := toDraft(m)
		for _, step := range Steps {
			dto.Steps = append(dto.Steps, StepState{
				Step:     int(step),
				Name:     step.String(),
				Complete: StepComplete(step, draft),
				Current:  int(step) == m.CurrentStep,
			})
		}
	}
	return dto
}

func toDraft(m *models.Deal) Draft {
	d := Draft{
		Title:           m.Title,
		Category:        m.Category,
		Description:     m.Description,
		Images:          append([]string(nil), m.Images...),
		OriginalPrice:   m.OriginalPrice,
		DiscountedPrice: m.DiscountedPrice,
		CouponQuantity:  m.CouponQuantity,
		Terms:           m.Terms,
		TermsAccepted:   m.TermsAccepted,
	}
	for _, p := range m.ValidityPeriods {
		d.ValidityPeriods = append(d.ValidityPeriods, ValidityPeriod{
			ValidFrom:     p.ValidFrom,
			ValidTo:       p.ValidTo,
			ValidTimeFrom: p.ValidTimeFrom,
			ValidTimeTo:   p.ValidTimeTo,
		})
	}
	return d
}

// apply copies the set fields of input onto the model.
func (input DraftInput) apply(m *models.Deal) {
	if input.Title != nil {
		m.Title = *input.Title
	}
	if input.Category != nil {
		m.Category = *input.Category
	}
	if input.Description != nil {
		m.Description = *input.Description
	}
	if input.Images != nil {
		m.Images = append([]string{}, (*input.Images)...)
	}
	if input.OriginalPrice != nil {
		m.OriginalPrice = *input.OriginalPrice
	}
	if input.DiscountedPrice != nil {
		m.DiscountedPrice = *input.DiscountedPrice
	}
	if input.CouponQuantity != nil {
		m.CouponQuantity = *input.CouponQuantity
	}
	if input.Terms != nil {
		m.Terms = *input.Terms
	}
	if input.TermsAccepted != nil {
		m.TermsAccepted = *input.TermsAccepted
	}
	if input.ValidityPeriods != nil {
		periods := make([]models.ValidityPeriod, 0, len(*input.ValidityPeriods))
		for i, p := range *input.ValidityPeriods {
			periods = append(periods, models.ValidityPeriod{
				DealID:        m.ID,
				Position:      i,
				ValidFrom:     p.ValidFrom,
				ValidTo:       p.ValidTo,
				ValidTimeFrom: p.ValidTimeFrom,
				ValidTimeTo:   p.ValidTimeTo,
			})
		}
		m.ValidityPeriods = periods
	}
}

func discountPercent(original, discounted decimal.Decimal) int64 {
	if !original.IsPositive() || !discounted.IsPositive() || discounted.GreaterThanOrEqual(original) {
		return 0
	}
	return original.Sub(discounted).Div(original).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
