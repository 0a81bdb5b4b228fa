// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics for the harvesting pipeline
// and a small ops HTTP server for /metrics and /healthz.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects pipeline counters. All methods are safe on a nil receiver
// so callers can run without metrics wired.
type Metrics struct {
	registry *prometheus.Registry

	recordsProcessed    *prometheus.CounterVec
	attachmentsTotal    *prometheus.CounterVec
	detectedTypes       *prometheus.CounterVec
	probeRequests       *prometheus.CounterVec
	probeErrors         *prometheus.CounterVec
	recordDuration      *prometheus.HistogramVec
	encodingRecoveries  prometheus.Counter
	browserRenders      prometheus.Counter
	candidatesExtracted *prometheus.CounterVec
}

// NewMetrics builds the metric set on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "harvester"
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		recordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Announcements processed, labeled by source and outcome",
		}, []string{"source", "outcome"}),
		attachmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attachments_discovered_total",
			Help:      "Unique attachments discovered after deduplication",
		}, []string{"source"}),
		detectedTypes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detected_types_total",
			Help:      "Attachment classification results by type and method",
		}, []string{"type", "detected_by"}),
		probeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_requests_total",
			Help:      "HEAD/Range probes issued during classification",
		}, []string{"kind"}),
		probeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_errors_total",
			Help:      "Failed classification probes",
		}, []string{"kind"}),
		recordDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_duration_seconds",
			Help:      "Wall time to process one announcement",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		encodingRecoveries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filename_recoveries_total",
			Help:      "Filenames repaired by encoding recovery",
		}),
		browserRenders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "browser_renders_total",
			Help:      "Detail pages rendered through the browser fallback",
		}),
		candidatesExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_extracted_total",
			Help:      "Raw attachment candidates before deduplication",
		}, []string{"source"}),
	}
}

func (m *Metrics) RecordProcessed(source, outcome string) {
	if m == nil {
		return
	}
	m.recordsProcessed.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) AttachmentsDiscovered(source string, n int) {
	if m == nil {
		return
	}
	m.attachmentsTotal.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) TypeDetected(fileType, detectedBy string) {
	if m == nil {
		return
	}
	m.detectedTypes.WithLabelValues(fileType, detectedBy).Inc()
}

func (m *Metrics) ProbeIssued(kind string) {
	if m == nil {
		return
	}
	m.probeRequests.WithLabelValues(kind).Inc()
}

func (m *Metrics) ProbeFailed(kind string) {
	if m == nil {
		return
	}
	m.probeErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRecordDuration(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.recordDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) FilenameRecovered() {
	if m == nil {
		return
	}
	m.encodingRecoveries.Inc()
}

func (m *Metrics) BrowserRendered() {
	if m == nil {
		return
	}
	m.browserRenders.Inc()
}

func (m *Metrics) CandidatesExtracted(source string, n int) {
	if m == nil {
		return
	}
	m.candidatesExtracted.WithLabelValues(source).Add(float64(n))
}
