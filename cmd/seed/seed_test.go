package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/dealdesk/merchant-portal/pkg/db/models"
	"github.com/dealdesk/merchant-portal/pkg/enums"
	"github.com/dealdesk/merchant-portal/pkg/logger"
)

func newSeeder(t *testing.T) seeder {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	cfg := &config.Config{
		Password:   config.PasswordConfig{MinLength: 8, ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		Dashboard:  config.DashboardConfig{ReferenceDate: "2024-12-29"},
		Redemption: config.RedemptionConfig{QRScheme: "dealdesk://redeem/"},
	}
	return seeder{db: conn, cfg: cfg, logg: logger.Nop()}
}

func TestSeedCreatesDemoData(t *testing.T) {
	s := newSeeder(t)
	ctx := context.Background()

	result, err := s.run(ctx)
	require.NoError(t, err)
	require.Len(t, result.Coupons, 10)
	assert.Equal(t, result.Coupons[0], result.Redeemed)

	var merchant models.Merchant
	require.NoError(t, s.db.Where("email = ?", demoEmail).First(&merchant).Error)
	assert.True(t, merchant.EmailVerified)

	var deal models.Deal
	require.NoError(t, s.db.Where("merchant_id = ?", merchant.ID).First(&deal).Error)
	assert.Equal(t, enums.DealStatusActive, deal.Status)

	var redeemed models.Coupon
	require.NoError(t, s.db.Where("code = ?", result.Redeemed).First(&redeemed).Error)
	assert.Equal(t, enums.CouponStatusRedeemed, redeemed.Status)
	assert.Equal(t, demoCustomers[0], redeemed.CustomerName)

	var metrics int64
	require.NoError(t, s.db.Model(&models.DailyMetric{}).Where("merchant_id = ?", merchant.ID).Count(&metrics).Error)
	assert.Positive(t, metrics)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newSeeder(t)
	ctx := context.Background()

	first, err := s.run(ctx)
	require.NoError(t, err)
	second, err := s.run(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.MerchantID, second.MerchantID)
	assert.Empty(t, second.DealID)

	var deals int64
	require.NoError(t, s.db.Model(&models.Deal{}).Count(&deals).Error)
	assert.Equal(t, int64(1), deals)
}
