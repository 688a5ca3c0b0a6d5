package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealdesk/merchant-portal/pkg/enums"
)

// Merchant is the business account that signs in to the portal.
type Merchant struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Email         string             `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash  string             `gorm:"column:password_hash;not null"`
	OwnerName     string             `gorm:"column:owner_name;not null"`
	BusinessName  string             `gorm:"column:business_name;not null"`
	Phone         *string            `gorm:"column:phone"`
	Address       *string            `gorm:"column:address"`
	Category      enums.DealCategory `gorm:"column:category;not null;default:'food_drink'"`
	Description   *string            `gorm:"column:description"`
	OpeningHours  *string            `gorm:"column:opening_hours"`
	LogoDataURL   *string            `gorm:"column:logo_data_url"`
	EmailVerified bool               `gorm:"column:email_verified;not null;default:false"`
	LastLoginAt   *time.Time         `gorm:"column:last_login_at"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Merchant) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
