// Package metrics exposes Prometheus counters for uploads, resolves and QR exports.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Metrics groups the collectors. Use New for an isolated set, or Init and the
// package-level Record functions for the process-wide one.
type Metrics struct {
	Uploads   *prometheus.CounterVec
	Resolves  *prometheus.CounterVec
	QRExports *prometheus.CounterVec
	BackendUp prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zaplink_uploads_total",
			Help: "Upload submissions by content type and outcome",
		}, []string{"type", "outcome"}),
		Resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zaplink_resolves_total",
			Help: "Short link resolutions by outcome",
		}, []string{"outcome"}),
		QRExports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zaplink_qr_exports_total",
			Help: "QR code renders by frame style and format",
		}, []string{"frame", "format"}),
		BackendUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zaplink_backend_up",
			Help: "1 if the last backend probe succeeded, 0 otherwise",
		}),
	}
	reg.MustRegister(m.Uploads, m.Resolves, m.QRExports, m.BackendUp)
	return m
}

var (
	defaultMetrics *Metrics
	initOnce       sync.Once
)

// Init registers the process-wide collectors with the default registry.
// Safe to call more than once.
func Init() *Metrics {
	initOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// RecordUpload counts an upload attempt. outcome is "success", "invalid" or "failed".
func RecordUpload(contentType, outcome string) {
	if defaultMetrics == nil {
		return
	}
	defaultMetrics.Uploads.WithLabelValues(contentType, outcome).Inc()
}

// RecordResolve counts a resolve outcome.
func RecordResolve(outcome string) {
	if defaultMetrics == nil {
		return
	}
	defaultMetrics.Resolves.WithLabelValues(outcome).Inc()
}

// RecordQRExport counts a render in format "svg" or "png".
func RecordQRExport(frame, format string) {
	if defaultMetrics == nil {
		return
	}
	defaultMetrics.QRExports.WithLabelValues(frame, format).Inc()
}

// SetBackendUp records the result of a backend probe.
func SetBackendUp(up bool) {
	if defaultMetrics == nil {
		return
	}
	if up {
		defaultMetrics.BackendUp.Set(1)
	} else {
		defaultMetrics.BackendUp.Set(0)
	}
}

var activeSessionsDesc = prometheus.NewDesc(
	"zaplink_sessions_active",
	"Unexpired wizard sessions held in session storage",
	nil,
	nil,
)

// SessionCounter counts stored sessions.
type SessionCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

// SessionCollector reads the active session count from storage on each scrape.
type SessionCollector struct {
	counter SessionCounter
}

// NewSessionCollector creates a collector backed by counter.
func NewSessionCollector(counter SessionCounter) *SessionCollector {
	return &SessionCollector{counter: counter}
}

// Describe sends the metric descriptor to the channel.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- activeSessionsDesc
}

// Collect queries storage and emits the count as a gauge.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := c.counter.CountActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to collect session metrics")
		return
	}
	ch <- prometheus.MustNewConstMetric(activeSessionsDesc, prometheus.GaugeValue, float64(n))
}
