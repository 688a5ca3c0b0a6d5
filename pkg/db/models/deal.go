package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/dealdesk/merchant-portal/pkg/db/types"
	"github.com/dealdesk/merchant-portal/pkg/enums"
)

// Deal is a listing; drafts carry the wizard step they were left on.
type Deal struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey"`
	MerchantID      uuid.UUID          `gorm:"column:merchant_id;type:uuid;not null;index"`
	Title           string             `gorm:"column:title;not null;default:''"`
	Category        enums.DealCategory `gorm:"column:category;not null;default:''"`
	Description     string             `gorm:"column:description;not null;default:''"`
	Images          dbtypes.StringList `gorm:"column:images;type:text;not null;default:'[]'"`
	OriginalPrice   decimal.Decimal    `gorm:"column:original_price;type:numeric(12,2);not null;default:0"`
	DiscountedPrice decimal.Decimal    `gorm:"column:discounted_price;type:numeric(12,2);not null;default:0"`
	CouponQuantity  int                `gorm:"column:coupon_quantity;not null;default:0"`
	Terms           string             `gorm:"column:terms;not null;default:''"`
	TermsAccepted   bool               `gorm:"column:terms_accepted;not null;default:false"`
	Status          enums.DealStatus   `gorm:"column:status;not null;default:'draft';index"`
	CurrentStep     int                `gorm:"column:current_step;not null;default:1"`
	ValidityPeriods []ValidityPeriod   `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE"`
	PublishedAt     *time.Time         `gorm:"column:published_at"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *Deal) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ValidityPeriod is a redemption window. Times are wall-clock HH:MM strings in
// the merchant's local day.
type ValidityPeriod struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DealID        uuid.UUID  `gorm:"column:deal_id;type:uuid;not null;index"`
	Position      int        `gorm:"column:position;not null;default:0"`
	ValidFrom     *time.Time `gorm:"column:valid_from;type:date"`
	ValidTo       *time.Time `gorm:"column:valid_to;type:date"`
	ValidTimeFrom string     `gorm:"column:valid_time_from;not null;default:''"`
	ValidTimeTo   string     `gorm:"column:valid_time_to;not null;default:''"`
}

func (v *ValidityPeriod) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
