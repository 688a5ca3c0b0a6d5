package merchants

import (
	"time"

	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/google/uuid"
)

// MerchantDTO is the profile and business settings screen.
type MerchantDTO struct {
	ID            uuid.UUID          `json:"id"`
	Email         string             `json:"email"`
	OwnerName     string             `json:"owner_name"`
	BusinessName  string             `json:"business_name"`
	Phone         *string            `json:"phone,omitempty"`
	Address       *string            `json:"address,omitempty"`
	Category      enums.DealCategory `json:"category"`
	Description   *string            `json:"description,omitempty"`
	OpeningHours  *string            `json:"opening_hours,omitempty"`
	LogoDataURL   *string            `json:"logo_data_url,omitempty"`
	EmailVerified bool               `json:"email_verified"`
	LastLoginAt   *time.Time         `json:"last_login_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// CreateMerchantDTO holds sign-up data for a new merchant.
type CreateMerchantDTO struct {
	Email        string
	PasswordHash string
	OwnerName    string
	BusinessName string
	Phone        *string
	Category     enums.DealCategory
}

func (dto CreateMerchantDTO) ToModel() *models.Merchant {
	category := dto.Category
	if category == "" {
		category = enums.DealCategoryFoodDrink
	}
	return &models.Merchant{
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		OwnerName:    dto.OwnerName,
		BusinessName: dto.BusinessName,
		Phone:        cloneString(dto.Phone),
		Category:     category,
	}
}

func FromModel(m *models.Merchant) *MerchantDTO {
	if m == nil {
		return nil
	}
	return &MerchantDTO{
		ID:            m.ID,
		Email:         m.Email,
		OwnerName:     m.OwnerName,
		BusinessName:  m.BusinessName,
		Phone:         cloneString(m.Phone),
		Address:       cloneString(m.Address),
		Category:      m.Category,
		Description:   cloneString(m.Description),
		OpeningHours:  cloneString(m.OpeningHours),
		LogoDataURL:   cloneString(m.LogoDataURL),
		EmailVerified: m.EmailVerified,
		LastLoginAt:   m.LastLoginAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
