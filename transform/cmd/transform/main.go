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
	"github.com/flowmart-systems/orderflow-stack/transform/internal/config"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/projector"
	"github.com/flowmart-systems/orderflow-stack/transform/internal/service"
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
	).With(logging.Service("transform"))
	logging.SetDefault(logger)

	slog.Info("Starting Transform service",
		slog.Int("port", cfg.Server.Port),
		slog.String("nats_url", cfg.NATS.URL),
		slog.String("log_level", cfg.Logging.Level),
	)

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

	for _, stream := range []natsclient.StreamConfig{
		natsclient.OrdersStream,
		natsclient.CuratedStream,
		natsclient.TransformDLQStream,
	} {
		if _, err := js.CreateOrUpdateStream(ctx, stream); err != nil {
			log.Fatalf("Failed to create stream %s: %v", stream.Name, err)
		}
	}

	consumerCfg := natsclient.DefaultConsumerConfig(messaging.ConsumerTransform, messaging.SubjectOrdersRaw)
	if _, err := js.CreateOrUpdateConsumer(ctx, natsclient.OrdersStream.Name, consumerCfg); err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	processor := service.NewProcessor(js, projector.All(), logger)

	stopConsume, err := js.ConsumeMessages(ctx, natsclient.OrdersStream.Name, messaging.ConsumerTransform, processor.HandleMessage)
	if err != nil {
		log.Fatalf("Failed to start consuming: %v", err)
	}
	defer stopConsume()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(processor.Health())
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		slog.Info("transform service listening", slog.String("addr", srv.Addr))
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
