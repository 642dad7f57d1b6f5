package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/jobs"
	"github.com/anjiri1684/skill_swap/logger"
	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/routes"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logger.SetupDefault(os.Stderr, slog.LevelInfo)
		return err
	}
	logger.SetupDefault(os.Stdout, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	slog.Info("database connection established", slog.String("driver", cfg.DBDriver))

	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.SeedSkills {
		created, err := database.SeedSkills(db)
		if err != nil {
			return err
		}
		slog.Info("skill catalog seeded", slog.Int("created", created))
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	bookings := services.NewBookingService(db, collector)
	h := &handlers.Handlers{
		DB:       db,
		Identity: services.NewIdentityService(db, tokens),
		Catalog:  services.NewCatalogService(db),
		Listings: services.NewListingService(db, collector),
		Bookings: bookings,
		Reviews:  services.NewReviewService(db, collector),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SessionSweepSchedule != "" {
		scheduler, err := jobs.StartScheduler(ctx, cfg.SessionSweepSchedule, bookings)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
		slog.Info("stale session sweep scheduled", slog.String("schedule", cfg.SessionSweepSchedule))
	}

	appCfg := routes.AppConfig{
		JWTSecret:        cfg.JWTSecret,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:        true,
	}
	if cfg.AuthRateLimit > 0 {
		limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.AuthRateLimit))
		defer limiter.Stop()
		appCfg.AuthLimiter = limiter
	}
	app := routes.NewApp(appCfg, h, collector, registry)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", slog.String("port", cfg.ServerPort))
		errCh <- app.Listen(":" + cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	slog.Info("API server stopped gracefully")
	return nil
}
