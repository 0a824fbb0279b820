package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"booking-service/internal/app"
	"booking-service/internal/config"
	"booking-service/internal/logging"
	"booking-service/internal/ratelimit"
	"booking-service/internal/server"
	"booking-service/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Init(cfg.LogLevel)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	pg := store.NewPostgres(pool)
	if err := pg.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	a := app.New(pg)
	a.Logger = logger
	a.JWTSecret = cfg.JWTSecret
	a.TokenTTL = time.Duration(cfg.TokenTTLMinutes) * time.Minute
	if cfg.SameDayUpdates != nil {
		a.SameDayUpdates = *cfg.SameDayUpdates
	}

	if cfg.GoogleClientID != "" && cfg.GoogleToken != "" {
		sink, err := app.NewGoogleCalendarSync(cfg.GoogleClientID, cfg.GoogleSecret, cfg.GoogleRedirect, cfg.GoogleToken)
		if err != nil {
			log.Fatalf("google calendar sync: %v", err)
		}
		a.Events = sink
	}

	opts := app.RouterOptions{}
	if cfg.RedisAddr != "" && cfg.RateLimit > 0 {
		limiter, err := ratelimit.NewFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "booking:ratelimit",
			cfg.RateLimit, time.Duration(cfg.RateWindowSecs)*time.Second)
		if err != nil {
			log.Fatalf("rate limiter: %v", err)
		}
		opts.Limit = limiter.Middleware()
	}

	if a.Events != nil && cfg.SyncSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.SyncSchedule, func() {
			if err := a.SyncUpcomingBookings(context.Background()); err != nil {
				logger.Warn("scheduled calendar sync failed", "error", err)
			}
		}); err != nil {
			log.Fatalf("sync schedule: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	router := app.NewRouter(a, opts)
	logger.Info("starting server", "port", cfg.Port)
	server.Run(router, cfg.Port)
}
