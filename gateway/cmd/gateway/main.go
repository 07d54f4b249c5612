package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowmart-systems/orderflow-stack/common/logging"
	natsclient "github.com/flowmart-systems/orderflow-stack/common/messaging/nats"
	"github.com/flowmart-systems/orderflow-stack/gateway/internal/config"
	"github.com/flowmart-systems/orderflow-stack/gateway/internal/handlers"
	"github.com/flowmart-systems/orderflow-stack/gateway/internal/ratelimit"
	"github.com/flowmart-systems/orderflow-stack/gateway/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("gateway"))
	logging.SetDefault(logger)

	slog.Info("Starting Gateway service",
		slog.Int("port", cfg.Server.Port),
		slog.String("nats_url", cfg.NATS.URL),
		slog.String("log_level", cfg.Logging.Level),
	)

	var limiter ratelimit.RateLimiter
	if cfg.Redis.Enabled && cfg.Intake.RateLimitEnabled {
		l, err := ratelimit.NewRedisRateLimiter(
			cfg.Redis.URL,
			cfg.Intake.RateLimitRequests,
			cfg.Intake.RateLimitWindow,
		)
		if err != nil {
			slog.Warn("rate limiter unavailable, continuing without rate limiting", logging.Error(err))
			limiter = &ratelimit.NoOpRateLimiter{}
		} else {
			limiter = l
			slog.Info("rate limiting enabled",
				slog.Int("requests", cfg.Intake.RateLimitRequests),
				slog.Duration("window", cfg.Intake.RateLimitWindow),
			)
		}
	} else {
		limiter = &ratelimit.NoOpRateLimiter{}
		slog.Info("rate limiting disabled")
	}
	defer limiter.Close()

	js, err := natsclient.NewJetStreamClient(natsclient.Config{
		URL:           cfg.NATS.URL,
		Name:          cfg.NATS.Name,
		MaxReconnects: -1,
		ReconnectWait: cfg.NATS.ReconnectWait,
		Timeout:       cfg.NATS.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer js.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := js.CreateOrUpdateStream(ctx, natsclient.OrdersStream); err != nil {
		log.Fatalf("Failed to create orders stream: %v", err)
	}

	handler := handlers.NewOrdersHandler(js, limiter, cfg.Intake.Token, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("gateway listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", logging.Error(err))
	}
}
