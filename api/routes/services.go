package routes

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dealdesk/merchant-portal/internal/analytics"
	"github.com/dealdesk/merchant-portal/internal/auth"
	"github.com/dealdesk/merchant-portal/internal/deals"
	"github.com/dealdesk/merchant-portal/internal/media"
	"github.com/dealdesk/merchant-portal/internal/merchants"
	"github.com/dealdesk/merchant-portal/internal/redemptions"
	"github.com/dealdesk/merchant-portal/internal/settings"
	"github.com/dealdesk/merchant-portal/internal/views"
	"github.com/dealdesk/merchant-portal/pkg/auth/session"
	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/dealdesk/merchant-portal/pkg/latency"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/dealdesk/merchant-portal/pkg/metrics"
	"github.com/dealdesk/merchant-portal/pkg/qrcode"
	"github.com/dealdesk/merchant-portal/pkg/redis"
)

// Deps are the connections the services are built on.
type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Sessions  *session.Manager
	Metrics   *metrics.Portal
	OTPSender auth.OTPSender
}

// BuildServices wires every domain service from config and shared connections.
func BuildServices(cfg *config.Config, logg *logger.Logger, deps Deps) (Services, error) {
	if deps.DB == nil || deps.Redis == nil || deps.Sessions == nil {
		return Services{}, fmt.Errorf("db, redis and session manager are required")
	}
	referenceDay, err := cfg.Dashboard.ReferenceDay()
	if err != nil {
		return Services{}, err
	}
	delay := latency.New(cfg.App.SimulatedLatency)

	var provider analytics.Provider = analytics.NewRepository(deps.DB)
	if cfg.FeatureFlags.UseFixtures {
		provider = analytics.NewFixtureProvider()
	}
	analyticsSvc, err := analytics.NewService(analytics.ServiceParams{
		Provider:     provider,
		ReferenceDay: referenceDay,
		MaxTableRows: cfg.Dashboard.MaxTableRows,
		Metrics:      deps.Metrics,
	})
	if err != nil {
		return Services{}, fmt.Errorf("analytics service: %w", err)
	}

	store, err := settings.NewRedisStore(deps.Redis)
	if err != nil {
		return Services{}, fmt.Errorf("settings store: %w", err)
	}
	settingsSvc, err := settings.NewService(store)
	if err != nil {
		return Services{}, fmt.Errorf("settings service: %w", err)
	}

	merchantRepo := merchants.NewRepository(deps.DB)
	merchantSvc, err := merchants.NewService(merchants.ServiceParams{
		Repo:         merchantRepo,
		Latency:      delay,
		MaxLogoBytes: cfg.Media.MaxImageBytes,
	})
	if err != nil {
		return Services{}, fmt.Errorf("merchant service: %w", err)
	}

	sender := deps.OTPSender
	if sender == nil {
		sender = auth.LogSender{Logger: logg}
	}
	authSvc, err := auth.NewService(auth.ServiceParams{
		Merchants:      merchantRepo,
		SessionManager: deps.Sessions,
		Settings:       settingsSvc,
		OTPStore:       deps.Redis,
		OTPSender:      sender,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		OTPConfig:      cfg.OTP,
		Latency:        delay,
	})
	if err != nil {
		return Services{}, fmt.Errorf("auth service: %w", err)
	}

	mediaSvc, err := media.NewService(cfg.Media)
	if err != nil {
		return Services{}, fmt.Errorf("media service: %w", err)
	}

	dealSvc, err := deals.NewService(deals.NewRepository(deps.DB))
	if err != nil {
		return Services{}, fmt.Errorf("deal service: %w", err)
	}

	redemptionSvc, err := redemptions.NewService(redemptions.ServiceParams{
		Repo:         redemptions.NewRepository(deps.DB),
		Codec:        qrcode.NewCodec(cfg.Redemption.QRScheme),
		ReferenceDay: referenceDay,
		DefaultSize:  cfg.Redemption.QRSize,
		PageLimit:    cfg.Redemption.PageLimit,
		Metrics:      deps.Metrics,
	})
	if err != nil {
		return Services{}, fmt.Errorf("redemption service: %w", err)
	}

	viewSvc, err := views.NewService(views.ServiceParams{
		Analytics:   analyticsSvc,
		Deals:       dealSvc,
		Merchants:   merchantSvc,
		Redemptions: redemptionSvc,
	})
	if err != nil {
		return Services{}, fmt.Errorf("view service: %w", err)
	}

	return Services{
		Auth:        authSvc,
		Analytics:   analyticsSvc,
		Views:       viewSvc,
		Settings:    settingsSvc,
		Merchants:   merchantSvc,
		Media:       mediaSvc,
		Deals:       dealSvc,
		Redemptions: redemptionSvc,
	}, nil
}
