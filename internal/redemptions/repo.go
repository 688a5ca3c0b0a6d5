package redemptions

import (
	"context"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/dealdesk/merchant-portal/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads and redeems coupons.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func withDeal(db *gorm.DB) *gorm.DB {
	return db.Preload("Deal").Preload("Deal.ValidityPeriods", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// FindByCode loads a merchant's coupon with its deal and validity periods.
func (r *Repository) FindByCode(ctx context.Context, merchantID uuid.UUID, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := withDeal(r.db.WithContext(ctx)).
		Where("merchant_id = ? AND code = ?", merchantID, code).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// MarkRedeemed flips a purchased coupon to redeemed. It reports false when the
// coupon was no longer in the purchased state.
func (r *Repository) MarkRedeemed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND status = ?", id, enums.CouponStatusPurchased).
		Updates(map[string]any{
			"status":      enums.CouponStatusRedeemed,
			"redeemed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListRedeemed returns redeemed coupons, most recent first, after cursor.
func (r *Repository) ListRedeemed(ctx context.Context, merchantID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Coupon, error) {
	q := r.db.WithContext(ctx).
		Preload("Deal").
		Where("merchant_id = ? AND status = ? AND redeemed_at IS NOT NULL", merchantID, enums.CouponStatusRedeemed)
	if cursor != nil {
		q = q.Where("(redeemed_at < ? OR (redeemed_at = ? AND id < ?))", cursor.At, cursor.At, cursor.ID)
	}

	var rows []models.Coupon
	if err := q.Order("redeemed_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
