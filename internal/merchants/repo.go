package merchants

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes merchant persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, dto CreateMerchantDTO) (*models.Merchant, error) {
	m := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// FindByEmail matches case-insensitively; emails are stored lower-cased.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) Update(ctx context.Context, m *models.Merchant) error {
	if m == nil {
		return fmt.Errorf("merchant is required")
	}
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *Repository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("id = ?", id).
		UpdateColumn("email_verified", true).Error
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
