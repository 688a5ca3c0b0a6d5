package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/dealdesk/merchant-portal/pkg/db"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/dealdesk/merchant-portal/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	result, err := seeder{db: dbClient.DB(), cfg: cfg, logg: logg}.run(ctx)
	if err != nil {
		logg.Error(ctx, "seed.failed", err)
		os.Exit(1)
	}

	fmt.Printf("merchant %s (%s / %s)\n", result.MerchantID, demoEmail, demoPassword)
	if result.DealID != "" {
		fmt.Printf("deal %s with %d coupons, %s already redeemed\n", result.DealID, len(result.Coupons), result.Redeemed)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "resource", resource), "seed.resource_unavailable", err)
	os.Exit(1)
}
