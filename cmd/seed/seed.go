package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealdesk/merchant-portal/internal/analytics"
	"github.com/dealdesk/merchant-portal/internal/deals"
	"github.com/dealdesk/merchant-portal/internal/merchants"
	"github.com/dealdesk/merchant-portal/internal/redemptions"
	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/dealdesk/merchant-portal/pkg/qrcode"
	"github.com/dealdesk/merchant-portal/pkg/security"
)

const (
	demoEmail    = "demo@oceangrill.lk"
	demoPassword = "oceangrill-demo"
)

var demoCustomers = []string{"Kasun Jayasinghe", "Dilani Fernando", "Ruwan Silva", "Ishara Perera", "Tharindu Bandara"}

type seeder struct {
	db   *gorm.DB
	cfg  *config.Config
	logg *logger.Logger
}

type seedResult struct {
	MerchantID string
	DealID     string
	Coupons    []string
	Redeemed   string
}

// run creates the demo merchant with one active deal, its coupons and the
// dashboard series. A second run finds the merchant and does nothing.
func (s seeder) run(ctx context.Context) (*seedResult, error) {
	merchantRepo := merchants.NewRepository(s.db)
	if existing, err := merchantRepo.FindByEmail(ctx, demoEmail); err == nil {
		s.logg.Info(s.logg.WithField(ctx, "merchant_id", existing.ID.String()), "seed.already_present")
		return &seedResult{MerchantID: existing.ID.String()}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup demo merchant: %w", err)
	}

	hash, err := security.HashPassword(demoPassword, s.cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	phone := "+94 11 234 5678"
	merchant, err := merchantRepo.Create(ctx, merchants.CreateMerchantDTO{
		Email:        demoEmail,
		PasswordHash: hash,
		OwnerName:    "Nimal Perera",
		BusinessName: "Ocean Grill",
		Phone:        &phone,
		Category:     enums.DealCategoryFoodDrink,
	})
	if err != nil {
		return nil, fmt.Errorf("create demo merchant: %w", err)
	}
	if err := merchantRepo.MarkEmailVerified(ctx, merchant.ID); err != nil {
		return nil, fmt.Errorf("verify demo merchant: %w", err)
	}
	ctx = s.logg.WithMerchantID(ctx, merchant.ID)

	if err := analytics.NewRepository(s.db).SeedFixtures(ctx, merchant.ID); err != nil {
		return nil, err
	}

	dealSvc, err := deals.NewService(deals.NewRepository(s.db))
	if err != nil {
		return nil, err
	}
	draft, err := dealSvc.CreateDraft(ctx, merchant.ID, demoDraft())
	if err != nil {
		return nil, fmt.Errorf("create demo draft: %w", err)
	}
	if _, err := dealSvc.Transition(ctx, merchant.ID, draft.ID, deals.Transition{Kind: deals.TransitionJump, Target: deals.LastStep}); err != nil {
		return nil, fmt.Errorf("advance demo draft: %w", err)
	}
	deal, err := dealSvc.Publish(ctx, merchant.ID, draft.ID)
	if err != nil {
		return nil, fmt.Errorf("publish demo deal: %w", err)
	}

	var coupons []models.Coupon
	if err := s.db.WithContext(ctx).Where("deal_id = ?", deal.ID).Order("code").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("load demo coupons: %w", err)
	}
	result := &seedResult{MerchantID: merchant.ID.String(), DealID: deal.ID.String()}
	for i, c := range coupons {
		name := demoCustomers[i%len(demoCustomers)]
		if err := s.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", c.ID).Update("customer_name", name).Error; err != nil {
			return nil, fmt.Errorf("name demo coupon: %w", err)
		}
		result.Coupons = append(result.Coupons, c.Code)
	}

	if len(coupons) > 0 {
		referenceDay, err := s.cfg.Dashboard.ReferenceDay()
		if err != nil {
			return nil, err
		}
		redemptionSvc, err := redemptions.NewService(redemptions.ServiceParams{
			Repo:         redemptions.NewRepository(s.db),
			Codec:        qrcode.NewCodec(s.cfg.Redemption.QRScheme),
			ReferenceDay: referenceDay,
		})
		if err != nil {
			return nil, err
		}
		if _, err := redemptionSvc.Redeem(ctx, merchant.ID, coupons[0].Code); err != nil {
			return nil, fmt.Errorf("redeem demo coupon: %w", err)
		}
		result.Redeemed = coupons[0].Code
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"deal_id": result.DealID,
		"coupons": len(result.Coupons),
	}), "seed.done")
	return result, nil
}

func demoDraft() deals.DraftInput {
	title := "Seafood Platter for Two"
	category := enums.DealCategoryFoodDrink
	description := "Grilled prawns, cuttlefish and the catch of the day with garlic rice."
	images := []string{"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8/x8AAwMCAO+ip1sAAAAASUVORK5CYII="}
	original := decimal.NewFromInt(4800)
	discounted := decimal.NewFromInt(2400)
	quantity := 10
	terms := "Valid for dine-in only. One coupon per table."
	accepted := true
	from := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	periods := []deals.ValidityPeriod{{ValidFrom: &from, ValidTo: &to, ValidTimeFrom: "11:00", ValidTimeTo: "22:00"}}
	return deals.DraftInput{
		Title:           &title,
		Category:        &category,
		Description:     &description,
		Images:          &images,
		OriginalPrice:   &original,
		DiscountedPrice: &discounted,
		CouponQuantity:  &quantity,
		Terms:           &terms,
		TermsAccepted:   &accepted,
		ValidityPeriods: &periods,
	}
}
