package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ExporterMetrics holds Prometheus metrics for exporter internal monitoring
type ExporterMetrics struct {
	// Scrape duration histogram (in seconds)
	ScrapeDurationSeconds prometheus.Histogram

	// Scrape error counter
	ScrapeErrorsTotal prometheus.Counter

	// Scrapes skipped because the session was not ready (soft authentication
	// failure or a non-success API status)
	ScrapesSkippedTotal prometheus.Counter

	// Build info gauge
	BuildInfo prometheus.Gauge

	// Authentication status gauge (1 = valid, 0 = invalid/expired)
	AuthenticationValid prometheus.Gauge

	// Authentication error counter
	AuthenticationErrorsTotal prometheus.Counter

	// Last successful authentication timestamp (unix seconds)
	LastAuthenticationSuccessUnix prometheus.Gauge
}

// NewExporterMetrics creates exporter health metrics and registers them with
// the default registerer
func NewExporterMetrics() (*ExporterMetrics, error) {
	return NewExporterMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewExporterMetricsWithRegisterer creates exporter health metrics and
// registers them with the given registerer (useful for testing)
func NewExporterMetricsWithRegisterer(reg prometheus.Registerer) (*ExporterMetrics, error) {
	em := &ExporterMetrics{
		ScrapeDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "warmup_exporter_scrape_duration_seconds",
			Help:    "Time taken to collect metrics from the Warmup API in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 6), // 0.1, 0.2, 0.4, 0.8, 1.6, 3.2
		}),

		ScrapeErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warmup_exporter_scrape_errors_total",
			Help: "Total number of errors while collecting metrics from the Warmup API",
		}),

		ScrapesSkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warmup_exporter_scrapes_skipped_total",
			Help: "Total number of scrapes skipped because no session was available yet",
		}),

		BuildInfo: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "warmup_exporter_build_info",
			Help: "Build information for the exporter (value is always 1)",
		}),

		AuthenticationValid: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "warmup_exporter_authentication_valid",
			Help: "Set to 1 if Warmup authentication is valid, 0 if the session token is absent or rejected",
		}),

		AuthenticationErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warmup_exporter_authentication_errors_total",
			Help: "Total number of authentication failures",
		}),

		LastAuthenticationSuccessUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "warmup_exporter_last_authentication_success_unix",
			Help: "Unix timestamp of the last successful authentication",
		}),
	}

	// Register metrics
	if err := em.register(reg); err != nil {
		return nil, err
	}

	// Set build info to 1
	em.BuildInfo.Set(1)

	// Authentication status starts at 0 until the first successful scrape
	em.AuthenticationValid.Set(0)

	return em, nil
}

// register registers exporter metrics with the given registerer
func (em *ExporterMetrics) register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		em.ScrapeDurationSeconds,
		em.ScrapeErrorsTotal,
		em.ScrapesSkippedTotal,
		em.BuildInfo,
		em.AuthenticationValid,
		em.AuthenticationErrorsTotal,
		em.LastAuthenticationSuccessUnix,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordScrapeDuration records the duration of a metrics collection attempt
func (em *ExporterMetrics) RecordScrapeDuration(duration float64) {
	em.ScrapeDurationSeconds.Observe(duration)
}

// IncrementScrapeErrors increments the error counter
func (em *ExporterMetrics) IncrementScrapeErrors() {
	em.ScrapeErrorsTotal.Inc()
}

// IncrementScrapesSkipped increments the skipped scrape counter
func (em *ExporterMetrics) IncrementScrapesSkipped() {
	em.ScrapesSkippedTotal.Inc()
}

// SetAuthenticationValid sets the authentication status gauge
func (em *ExporterMetrics) SetAuthenticationValid(valid bool) {
	if valid {
		em.AuthenticationValid.Set(1)
	} else {
		em.AuthenticationValid.Set(0)
	}
}

// IncrementAuthenticationErrors increments the authentication error counter
func (em *ExporterMetrics) IncrementAuthenticationErrors() {
	em.AuthenticationErrorsTotal.Inc()
}

// RecordAuthenticationSuccess records a successful authentication by setting the timestamp
func (em *ExporterMetrics) RecordAuthenticationSuccess() {
	em.LastAuthenticationSuccessUnix.Set(float64(time.Now().Unix()))
}
