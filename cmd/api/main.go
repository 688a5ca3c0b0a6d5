package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/dealdesk/merchant-portal/api/controllers"
	"github.com/dealdesk/merchant-portal/api/routes"
	"github.com/dealdesk/merchant-portal/pkg/auth/session"
	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/dealdesk/merchant-portal/pkg/db"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/dealdesk/merchant-portal/pkg/metrics"
	"github.com/dealdesk/merchant-portal/pkg/migrate"
	"github.com/dealdesk/merchant-portal/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := connectRedis(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	portal := metrics.New(registry)

	services, err := routes.BuildServices(cfg, logg, routes.Deps{
		DB:       dbClient.DB(),
		Redis:    redisClient,
		Sessions: sessionManager,
		Metrics:  portal,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Infra{
		Sessions:       sessionManager,
		Redis:          redisClient,
		Metrics:        portal,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Ready: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
	}, services)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"fixtures": cfg.FeatureFlags.UseFixtures,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// connectRedis falls back to the in-process store when no endpoint is configured.
func connectRedis(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		logg.Warn(ctx, "redis not configured, sessions and settings are kept in memory")
		return redis.NewInMemory(), nil
	}
	return redis.New(ctx, cfg.Redis, logg)
}
