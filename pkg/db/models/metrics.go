package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyMetric is one day of a merchant's dashboard series.
type DailyMetric struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID uuid.UUID `gorm:"column:merchant_id;type:uuid;not null;uniqueIndex:idx_daily_metrics_merchant_date"`
	Date       time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_daily_metrics_merchant_date"`
	Earnings   int64     `gorm:"column:earnings;not null;default:0"`
	Redeemed   int64     `gorm:"column:redeemed;not null;default:0"`
	Purchased  int64     `gorm:"column:purchased;not null;default:0"`
	Views      int64     `gorm:"column:views;not null;default:0"`
}

func (m *DailyMetric) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// DealPerformance is a row of the analytics deal table.
type DealPerformance struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	MerchantID uuid.UUID  `gorm:"column:merchant_id;type:uuid;not null;index"`
	DealID     *uuid.UUID `gorm:"column:deal_id;type:uuid"`
	Name       string     `gorm:"column:name;not null"`
	Date       time.Time  `gorm:"column:date;type:date;not null;index"`
	Views      int64      `gorm:"column:views;not null;default:0"`
	Purchased  int64      `gorm:"column:purchased;not null;default:0"`
	Redeemed   int64      `gorm:"column:redeemed;not null;default:0"`
	Earnings   int64      `gorm:"column:earnings;not null;default:0"`
}

func (DealPerformance) TableName() string {
	return "deal_performance"
}

func (p *DealPerformance) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
