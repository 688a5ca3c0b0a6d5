package analytics

import (
	"context"
	"fmt"

	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads dashboard series from daily_metrics and deal_performance.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DailyMetrics(ctx context.Context, merchantID uuid.UUID, rng DateRange) ([]DailyMetric, error) {
	var rows []models.DailyMetric
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND date >= ? AND date <= ?", merchantID, rng.Start, rng.End).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]DailyMetric, 0, len(rows))
	for _, row := range rows {
		out = append(out, DailyMetric{
			Date:      truncateDay(row.Date),
			Earnings:  row.Earnings,
			Redeemed:  row.Redeemed,
			Purchased: row.Purchased,
			Views:     row.Views,
		})
	}
	return out, nil
}

func (r *Repository) DealPerformance(ctx context.Context, merchantID uuid.UUID, rng DateRange) ([]DealPerformance, error) {
	var rows []models.DealPerformance
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND date >= ? AND date <= ?", merchantID, rng.Start, rng.End).
		Order("date ASC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]DealPerformance, 0, len(rows))
	for _, row := range rows {
		rec := DealPerformance{
			Name:      row.Name,
			Date:      truncateDay(row.Date),
			Views:     row.Views,
			Purchased: row.Purchased,
			Redeemed:  row.Redeemed,
			Earnings:  row.Earnings,
		}
		if row.DealID != nil {
			rec.DealID = row.DealID.String()
		}
		out = append(out, rec)
	}
	return out, nil
}

// SeedFixtures copies the built-in dataset into the tables for merchantID.
// Existing days are left untouched.
func (r *Repository) SeedFixtures(ctx context.Context, merchantID uuid.UUID) error {
	daily := FixtureDailyMetrics()
	metricRows := make([]models.DailyMetric, 0, len(daily))
	for _, m := range daily {
		metricRows = append(metricRows, models.DailyMetric{
			MerchantID: merchantID,
			Date:       m.Date,
			Earnings:   m.Earnings,
			Redeemed:   m.Redeemed,
			Purchased:  m.Purchased,
			Views:      m.Views,
		})
	}

	deals := FixtureDealPerformance()
	dealRows := make([]models.DealPerformance, 0, len(deals))
	for _, p := range deals {
		dealRows = append(dealRows, models.DealPerformance{
			MerchantID: merchantID,
			Name:       p.Name,
			Date:       p.Date,
			Views:      p.Views,
			Purchased:  p.Purchased,
			Redeemed:   p.Redeemed,
			Earnings:   p.Earnings,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&metricRows, 100).Error; err != nil {
			return fmt.Errorf("seed daily metrics: %w", err)
		}
		var existing int64
		if err := tx.Model(&models.DealPerformance{}).Where("merchant_id = ?", merchantID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		if err := tx.CreateInBatches(&dealRows, 100).Error; err != nil {
			return fmt.Errorf("seed deal performance: %w", err)
		}
		return nil
	})
}
