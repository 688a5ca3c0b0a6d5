package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealdesk/merchant-portal/pkg/enums"
)

// Coupon is one purchased unit of a deal, identified at the counter by Code.
type Coupon struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey"`
	DealID       uuid.UUID          `gorm:"column:deal_id;type:uuid;not null;index"`
	MerchantID   uuid.UUID          `gorm:"column:merchant_id;type:uuid;not null;index"`
	Code         string             `gorm:"column:code;not null;uniqueIndex"`
	Status       enums.CouponStatus `gorm:"column:status;not null;default:'purchased'"`
	CustomerName string             `gorm:"column:customer_name;not null;default:''"`
	PurchasedAt  time.Time          `gorm:"column:purchased_at;not null"`
	RedeemedAt   *time.Time         `gorm:"column:redeemed_at;index"`
	Deal         *Deal              `gorm:"foreignKey:DealID"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Coupon) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
