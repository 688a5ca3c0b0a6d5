package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealdesk/merchant-portal/api/controllers"
	"github.com/dealdesk/merchant-portal/api/middleware"
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
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/dealdesk/merchant-portal/pkg/metrics"
	"github.com/dealdesk/merchant-portal/pkg/redis"
)

// Services are the domain services the HTTP surface exposes.
type Services struct {
	Auth        auth.Service
	Analytics   analytics.Service
	Views       views.Service
	Settings    settings.Service
	Merchants   merchants.Service
	Media       media.Service
	Deals       deals.Service
	Redemptions redemptions.Service
}

// Infra is what the router needs besides services.
type Infra struct {
	Sessions session.AccessSessionChecker
	Redis    *redis.Client
	Metrics  *metrics.Portal
	// MetricsHandler serves /metrics; nil leaves the route out.
	MetricsHandler http.Handler
	Ready          map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, infra.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.Ready))
	})
	if infra.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", infra.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		registerLimit := middleware.AuthRateLimit(registerPolicy, rateLimiter(infra.Redis), logg)
		loginLimit := middleware.AuthRateLimit(loginPolicy, rateLimiter(infra.Redis), logg)

		r.With(registerLimit).Post("/register", controllers.AuthRegister(svc.Auth, logg))
		r.With(registerLimit).Post("/verify-otp", controllers.AuthVerifyOTP(svc.Auth, logg))
		r.With(registerLimit).Post("/resend-otp", controllers.AuthResendOTP(svc.Auth, logg))
		r.With(loginLimit).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svc.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, infra.Sessions, logg))
		r.Use(middleware.Settings(svc.Settings, logg))

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/overview", controllers.DashboardOverview(svc.Analytics, logg))
			r.Get("/analytics", controllers.DashboardAnalytics(svc.Analytics, logg))
		})

		r.Get("/views/{view}", controllers.ViewRender(svc.Views, logg))

		r.Get("/settings", controllers.SettingsGet(logg))
		r.Put("/settings", controllers.SettingsUpdate(svc.Settings, logg))

		r.Get("/merchants/me", controllers.MerchantMe(svc.Merchants, logg))
		r.Put("/merchants/me", controllers.MerchantUpdate(svc.Merchants, logg))

		r.Post("/media/crop", controllers.MediaCrop(svc.Media, logg))

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", controllers.DealList(svc.Deals, logg))
			r.Post("/drafts", controllers.DealCreateDraft(svc.Deals, logg))
			r.Get("/drafts/{dealId}", controllers.DealGet(svc.Deals, logg))
			r.Patch("/drafts/{dealId}", controllers.DealUpdateDraft(svc.Deals, logg))
			r.Post("/drafts/{dealId}/transition", controllers.DealTransition(svc.Deals, logg))
			r.Post("/drafts/{dealId}/publish", controllers.DealPublish(svc.Deals, logg))
		})

		r.Route("/redemptions", func(r chi.Router) {
			r.Get("/", controllers.RedemptionList(svc.Redemptions, logg))
			r.Get("/coupons/{code}/qr", controllers.RedemptionQR(svc.Redemptions, logg))
			r.Post("/scan", controllers.RedemptionScan(svc.Redemptions, logg))
			r.Post("/redeem", controllers.RedemptionRedeem(svc.Redemptions, logg))
		})
	})

	return r
}

// rateLimiter keeps a nil client from becoming a non-nil interface.
func rateLimiter(client *redis.Client) middleware.WindowLimiter {
	if client == nil {
		return nil
	}
	return client
}
