package deals

import (
	"context"
	"fmt"

	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/dealdesk/merchant-portal/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const couponBatchSize = 100

// Repository persists deals, their validity periods and issued coupons.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a deal together with any validity periods it carries.
func (r *Repository) Create(ctx context.Context, deal *models.Deal) error {
	if deal == nil {
		return fmt.Errorf("deal is required")
	}
	return r.db.WithContext(ctx).Create(deal).Error
}

// FindByID loads a merchant's deal with its periods in entry order.
func (r *Repository) FindByID(ctx context.Context, merchantID, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.WithContext(ctx).
		Preload("ValidityPeriods", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ? AND merchant_id = ?", id, merchantID).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// SaveDraft updates the deal row. When replacePeriods is set the stored
// periods are swapped for deal.ValidityPeriods in the same transaction.
func (r *Repository) SaveDraft(ctx context.Context, deal *models.Deal, replacePeriods bool) error {
	if deal == nil {
		return fmt.Errorf("deal is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("ValidityPeriods").Save(deal).Error; err != nil {
			return err
		}
		if !replacePeriods {
			return nil
		}
		if err := tx.Where("deal_id = ?", deal.ID).Delete(&models.ValidityPeriod{}).Error; err != nil {
			return err
		}
		for i := range deal.ValidityPeriods {
			deal.ValidityPeriods[i].ID = uuid.Nil
			deal.ValidityPeriods[i].DealID = deal.ID
			deal.ValidityPeriods[i].Position = i
		}
		if len(deal.ValidityPeriods) == 0 {
			return nil
		}
		return tx.Create(&deal.ValidityPeriods).Error
	})
}

// Publish flips the deal to active and inserts its coupons atomically.
func (r *Repository) Publish(ctx context.Context, deal *models.Deal, coupons []models.Coupon) error {
	if deal == nil {
		return fmt.Errorf("deal is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Deal{}).
			Where("id = ? AND status = ?", deal.ID, enums.DealStatusDraft).
			Updates(map[string]any{
				"status":       deal.Status,
				"current_step": deal.CurrentStep,
				"published_at": deal.PublishedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if len(coupons) == 0 {
			return nil
		}
		return tx.CreateInBatches(&coupons, couponBatchSize).Error
	})
}

// List returns up to limit deals newest first, starting after cursor.
func (r *Repository) List(ctx context.Context, merchantID uuid.UUID, status *enums.DealStatus, cursor *pagination.Cursor, limit int) ([]models.Deal, error) {
	q := r.db.WithContext(ctx).
		Preload("ValidityPeriods", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("merchant_id = ?", merchantID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if cursor != nil {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.At, cursor.At, cursor.ID)
	}

	var rows []models.Deal
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountCoupons reports how many coupons a deal has issued.
func (r *Repository) CountCoupons(ctx context.Context, dealID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("deal_id = ?", dealID).Count(&n).Error
	return n, err
}
