package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowmart-systems/orderflow-stack/common/logging"
	"github.com/flowmart-systems/orderflow-stack/common/messaging"
	natsclient "github.com/flowmart-systems/orderflow-stack/common/messaging/nats"
	"github.com/flowmart-systems/orderflow-stack/consumer/internal/config"
	"github.com/flowmart-systems/orderflow-stack/consumer/internal/service"
	"github.com/flowmart-systems/orderflow-stack/consumer/internal/store"
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
	).With(logging.Service("consumer"))
	logging.SetDefault(logger)

	slog.Info("Starting Consumer service",
		slog.Int("port", cfg.Server.Port),
		slog.String("nats_url", cfg.NATS.URL),
		slog.String("db_host", cfg.Database.Host),
	)

	connString := cfg.Database.ConnString()
	if err := store.Migrate(connString); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, connString)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer st.Close()

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

	if _, err := js.CreateOrUpdateStream(ctx, natsclient.OrdersStream); err != nil {
		log.Fatalf("Failed to create stream: %v", err)
	}

	consumerCfg := natsclient.DefaultConsumerConfig(messaging.ConsumerCanonical, messaging.SubjectOrdersRaw)
	if _, err := js.CreateOrUpdateConsumer(ctx, natsclient.OrdersStream.Name, consumerCfg); err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	writer := service.NewWriter(st, logger)

	stopConsume, err := js.ConsumeMessages(ctx, natsclient.OrdersStream.Name, messaging.ConsumerCanonical, writer.HandleMessage)
	if err != nil {
		log.Fatalf("Failed to start consuming: %v", err)
	}
	defer stopConsume()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(writer.Health())
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		slog.Info("consumer service listening", slog.String("addr", srv.Addr))
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
