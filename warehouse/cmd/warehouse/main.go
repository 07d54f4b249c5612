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
	"github.com/flowmart-systems/orderflow-stack/warehouse/internal/client"
	"github.com/flowmart-systems/orderflow-stack/warehouse/internal/config"
	"github.com/flowmart-systems/orderflow-stack/warehouse/internal/indexmgr"
	"github.com/flowmart-systems/orderflow-stack/warehouse/internal/service"
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
	).With(logging.Service("warehouse"))
	logging.SetDefault(logger)

	slog.Info("Starting Warehouse service",
		slog.Int("port", cfg.Server.Port),
		slog.String("nats_url", cfg.NATS.URL),
		slog.String("opensearch_url", cfg.OpenSearch.URL),
	)

	osClient, err := client.NewOpenSearchClient(client.Config{
		URL:      cfg.OpenSearch.URL,
		Username: cfg.OpenSearch.Username,
		Password: cfg.OpenSearch.Password,
		Insecure: cfg.OpenSearch.Insecure,
	})
	if err != nil {
		log.Fatalf("Failed to connect to OpenSearch: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := indexmgr.NewIndexManager(osClient, indexmgr.Config{
		IndexPrefix:  cfg.Index.Prefix,
		ShardCount:   cfg.Index.ShardCount,
		ReplicaCount: cfg.Index.ReplicaCount,
	})
	if err := manager.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize index management: %v", err)
	}

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

	if _, err := js.CreateOrUpdateStream(ctx, natsclient.CuratedStream); err != nil {
		log.Fatalf("Failed to create curated stream: %v", err)
	}

	consumerCfg := natsclient.DefaultConsumerConfig(messaging.ConsumerWarehouse, "orders.curated.>")
	if _, err := js.CreateOrUpdateConsumer(ctx, natsclient.CuratedStream.Name, consumerCfg); err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	sink := service.NewSink(osClient, manager, logger)

	stopConsume, err := js.ConsumeBatches(ctx, natsclient.CuratedStream.Name, messaging.ConsumerWarehouse,
		cfg.Bulk.Size, cfg.Bulk.MaxWait, sink.HandleBatch)
	if err != nil {
		log.Fatalf("Failed to start consuming: %v", err)
	}
	defer stopConsume()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sink.Health())
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		slog.Info("warehouse service listening", slog.String("addr", srv.Addr))
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
