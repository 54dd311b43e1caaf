package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cmartindale/warmup-prometheus-exporter/pkg/collector"
	"github.com/cmartindale/warmup-prometheus-exporter/pkg/config"
	"github.com/cmartindale/warmup-prometheus-exporter/pkg/logger"
	"github.com/cmartindale/warmup-prometheus-exporter/pkg/metrics"
	"github.com/cmartindale/warmup-prometheus-exporter/pkg/warmup"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	log.Info("warmup-prometheus-exporter starting", "config", cfg.String())

	// Create context with graceful shutdown support
	ctx := SetupGracefulShutdown(log)

	warmupCollector, err := buildCollector(cfg, log)
	if err != nil {
		log.Error("Initialization error", "error", err.Error())
		os.Exit(1)
	}

	if err := StartServer(ctx, cfg, warmupCollector, log); err != nil {
		log.Error("Server error", "error", err.Error())
		os.Exit(1)
	}
}

// buildCollector wires the Warmup client, circuit breaker, metrics and
// collector together. Authentication is lazy: the client obtains its first
// session token on the first scrape.
func buildCollector(cfg *config.Config, log *logger.Logger) (*collector.WarmupCollector, error) {
	metricDescs, err := metrics.NewMetricDescriptors()
	if err != nil {
		return nil, fmt.Errorf("failed to create metric descriptors: %w", err)
	}

	exporterMetrics, err := metrics.NewExporterMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter metrics: %w", err)
	}

	client := warmup.NewClientWithLogger(warmup.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
	}, log)

	// Protect the scrape path against a flapping vendor API
	api := collector.NewWarmupAPIWithCircuitBreaker(client, collector.DefaultCircuitBreakerConfig())

	scrapeTimeout := time.Duration(cfg.ScrapeTimeout) * time.Second
	warmupCollector := collector.NewWarmupCollectorWithLogger(api, metricDescs, scrapeTimeout, cfg.LocationID, log).
		WithExporterMetrics(exporterMetrics)

	return warmupCollector, nil
}
