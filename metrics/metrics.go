// Package metrics holds the Prometheus collectors scraped from /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "asr_proxy"

// Metrics groups the proxy's Prometheus collectors.
type Metrics struct {
	Requests        *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	BackendErrors   *prometheus.CounterVec
	HealthChecks    *prometheus.CounterVec
	AudioBytes      prometheus.Histogram
}

// New registers the collectors on reg. Use a fresh prometheus.Registry per
// Metrics; registering twice on the same registry panics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_requests_total",
			Help:      "Transcription requests by response status and requested format.",
		}, []string{"status", "format"}),
		BackendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of transcription calls to the backend.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"backend", "outcome"}),
		BackendErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Backend calls that failed without a response.",
		}, []string{"backend", "kind"}),
		HealthChecks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_checks_total",
			Help:      "Backend health checks by result.",
		}, []string{"result"}),
		AudioBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "audio_upload_bytes",
			Help:      "Size of uploaded audio files.",
			Buckets:   prometheus.ExponentialBuckets(64<<10, 4, 8),
		}),
	}
}

// ObserveRequest counts a finished transcription request.
func (m *Metrics) ObserveRequest(status int, format string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(strconv.Itoa(status), format).Inc()
}

// ObserveBackend records a backend call. outcome is the backend HTTP status
// or an error kind such as "timeout".
func (m *Metrics) ObserveBackend(backend, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BackendDuration.WithLabelValues(backend, outcome).Observe(elapsed.Seconds())
}

// ObserveBackendError counts a backend call that produced no response.
func (m *Metrics) ObserveBackendError(backend, kind string) {
	if m == nil {
		return
	}
	m.BackendErrors.WithLabelValues(backend, kind).Inc()
}

// ObserveHealth counts a health check.
func (m *Metrics) ObserveHealth(ok bool) {
	if m == nil {
		return
	}
	result := "unreachable"
	if ok {
		result = "ok"
	}
	m.HealthChecks.WithLabelValues(result).Inc()
}

// ObserveAudio records the size of an uploaded file.
func (m *Metrics) ObserveAudio(size int) {
	if m == nil {
		return
	}
	m.AudioBytes.Observe(float64(size))
}
