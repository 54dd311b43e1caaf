// Package collector implements the Prometheus collector for Warmup metrics.
//
// It provides:
//   - Prometheus collector interface implementation
//   - Warmup API status fetching on each scrape
//   - Graceful handling of the client's "no session yet" soft state
//   - Exporter health metrics reporting
//
// The collector fetches the account status on-demand when Prometheus scrapes
// the /metrics endpoint. A scrape where the client had no session yet is
// recorded as skipped, not failed; the client re-authenticates on the next
// scrape, so the polling loop doubles as the retry mechanism.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cmartindale/warmup-prometheus-exporter/pkg/logger"
	"github.com/cmartindale/warmup-prometheus-exporter/pkg/metrics"
	"github.com/cmartindale/warmup-prometheus-exporter/pkg/warmup"
	"github.com/prometheus/client_golang/prometheus"
)

// WarmupCollector implements the prometheus.Collector interface.
// It fetches Warmup room status on-demand when Prometheus scrapes the
// /metrics endpoint.
type WarmupCollector struct {
	client            WarmupAPI
	metricDescriptors *metrics.MetricDescriptors
	scrapeTimeout     time.Duration
	locationID        string // Optional: filter to specific location
	log               *logger.Logger
	exporterMetrics   *metrics.ExporterMetrics // Optional: for internal health monitoring
}

// NewWarmupCollector creates a new Warmup metrics collector
func NewWarmupCollector(
	client WarmupAPI,
	metricDescriptors *metrics.MetricDescriptors,
	scrapeTimeout time.Duration,
	locationID string,
) *WarmupCollector {
	return NewWarmupCollectorWithLogger(client, metricDescriptors, scrapeTimeout, locationID, nil)
}

// NewWarmupCollectorWithLogger creates a new Warmup metrics collector with logging
func NewWarmupCollectorWithLogger(
	client WarmupAPI,
	metricDescriptors *metrics.MetricDescriptors,
	scrapeTimeout time.Duration,
	locationID string,
	log *logger.Logger,
) *WarmupCollector {
	// Use noop logger if none provided
	if log == nil {
		noop, _ := logger.NewWithWriter("error", "text", io.Discard)
		log = noop
	}

	return &WarmupCollector{
		client:            client,
		metricDescriptors: metricDescriptors,
		scrapeTimeout:     scrapeTimeout,
		locationID:        locationID,
		log:               log,
	}
}

// WithExporterMetrics adds exporter health metrics to the collector
func (wc *WarmupCollector) WithExporterMetrics(em *metrics.ExporterMetrics) *WarmupCollector {
	wc.exporterMetrics = em
	return wc
}

// Describe sends the super-set of all possible descriptors of metrics collected by this collector
func (wc *WarmupCollector) Describe(ch chan<- *prometheus.Desc) {
	wc.metricDescriptors.TemperatureCurrentCelsius.Describe(ch)
	wc.metricDescriptors.TemperatureTargetCelsius.Describe(ch)
	wc.metricDescriptors.OverrideRemainingMinutes.Describe(ch)
	wc.metricDescriptors.RunMode.Describe(ch)
	wc.metricDescriptors.ThermostatCount.Describe(ch)
	wc.metricDescriptors.LocationRooms.Describe(ch)

	// Exporter health metrics if configured
	if wc.exporterMetrics != nil {
		wc.exporterMetrics.ScrapeDurationSeconds.Describe(ch)
		wc.exporterMetrics.ScrapeErrorsTotal.Describe(ch)
		wc.exporterMetrics.ScrapesSkippedTotal.Describe(ch)
		wc.exporterMetrics.BuildInfo.Describe(ch)
		wc.exporterMetrics.AuthenticationValid.Describe(ch)
		wc.exporterMetrics.AuthenticationErrorsTotal.Describe(ch)
		wc.exporterMetrics.LastAuthenticationSuccessUnix.Describe(ch)
	}
}

// Collect is called by the Prometheus client when scraping /metrics.
// It fetches the current account status from the Warmup API and sends the
// resulting metrics to the channel.
func (wc *WarmupCollector) Collect(ch chan<- prometheus.Metric) {
	// Create context with timeout to prevent hanging requests
	ctx, cancel := context.WithTimeout(context.Background(), wc.scrapeTimeout)
	defer cancel()

	startTime := time.Now()

	if err := wc.fetchAndCollectMetrics(ctx); err != nil {
		wc.log.Warn("Failed to collect Warmup metrics", "error", err.Error())
		// Don't return - Prometheus will use last known values
	}

	if wc.exporterMetrics != nil {
		wc.exporterMetrics.RecordScrapeDuration(time.Since(startTime).Seconds())
	}

	// Send collected metrics to channel
	wc.metricDescriptors.TemperatureCurrentCelsius.Collect(ch)
	wc.metricDescriptors.TemperatureTargetCelsius.Collect(ch)
	wc.metricDescriptors.OverrideRemainingMinutes.Collect(ch)
	wc.metricDescriptors.RunMode.Collect(ch)
	wc.metricDescriptors.ThermostatCount.Collect(ch)
	wc.metricDescriptors.LocationRooms.Collect(ch)

	// Send exporter health metrics to channel if configured
	if wc.exporterMetrics != nil {
		wc.exporterMetrics.ScrapeDurationSeconds.Collect(ch)
		wc.exporterMetrics.ScrapeErrorsTotal.Collect(ch)
		wc.exporterMetrics.ScrapesSkippedTotal.Collect(ch)
		wc.exporterMetrics.BuildInfo.Collect(ch)
		wc.exporterMetrics.AuthenticationValid.Collect(ch)
		wc.exporterMetrics.AuthenticationErrorsTotal.Collect(ch)
		wc.exporterMetrics.LastAuthenticationSuccessUnix.Collect(ch)
	}
}

// fetchAndCollectMetrics fetches the account status and updates metric values.
// Three outcomes are possible: a decoded response (metrics updated), a skipped
// call because no session was available (recorded, previous values kept), or
// an error (authentication terminal failures are tracked separately).
func (wc *WarmupCollector) fetchAndCollectMetrics(ctx context.Context) error {
	status, err := wc.client.GetStatus(ctx)
	if err != nil {
		var authErr *warmup.AuthenticationError
		if errors.As(err, &authErr) {
			if wc.exporterMetrics != nil {
				wc.exporterMetrics.IncrementAuthenticationErrors()
				wc.exporterMetrics.SetAuthenticationValid(false)
			}
			return fmt.Errorf("authentication is terminally broken, check credentials: %w", err)
		}
		if wc.exporterMetrics != nil {
			wc.exporterMetrics.IncrementScrapeErrors()
		}
		return fmt.Errorf("unable to retrieve account status: %w", err)
	}

	// No result and no error: the client had no session yet, or the API
	// reported a non-success status. The client retries on the next scrape.
	if status == nil {
		wc.log.Debug("Scrape skipped: Warmup session not ready")
		if wc.exporterMetrics != nil {
			wc.exporterMetrics.IncrementScrapesSkipped()
			wc.exporterMetrics.SetAuthenticationValid(false)
		}
		return nil
	}

	// A decoded response means the session token was accepted
	if wc.exporterMetrics != nil {
		wc.exporterMetrics.SetAuthenticationValid(true)
		wc.exporterMetrics.RecordAuthenticationSuccess()
	}

	// Reset room gauges so rooms removed from the account do not linger
	wc.metricDescriptors.Reset()

	locationCount := 0
	for _, location := range status.Data.User.Locations {
		locationIDStr := strconv.Itoa(location.ID)

		// Filter to specific location if specified
		if wc.locationID != "" && locationIDStr != wc.locationID {
			continue
		}

		locationCount++
		wc.collectLocationMetrics(location)
	}

	if locationCount == 0 {
		wc.log.Warn("No locations matched", "location_id", wc.locationID)
	}

	return nil
}

// collectLocationMetrics records metrics for one location and its rooms
func (wc *WarmupCollector) collectLocationMetrics(location warmup.Location) {
	locationIDStr := strconv.Itoa(location.ID)

	wc.metricDescriptors.LocationRooms.WithLabelValues(locationIDStr, location.Name).Set(float64(len(location.Rooms)))

	for _, room := range location.Rooms {
		labels := []string{locationIDStr, location.Name, strconv.Itoa(room.ID), room.Name}

		wc.metricDescriptors.TemperatureCurrentCelsius.WithLabelValues(labels...).Set(warmup.DecodeTemperature(room.CurrentTemp))
		wc.metricDescriptors.TemperatureTargetCelsius.WithLabelValues(labels...).Set(warmup.DecodeTemperature(room.TargetTemp))
		wc.metricDescriptors.OverrideRemainingMinutes.WithLabelValues(labels...).Set(float64(room.OverrideDur))
		wc.metricDescriptors.RunMode.WithLabelValues(labels...).Set(metrics.RunModeValue(room.RunMode))
		wc.metricDescriptors.ThermostatCount.WithLabelValues(labels...).Set(float64(len(room.Thermostats)))
	}
}
