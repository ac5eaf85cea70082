package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Decode stages recorded by RecordDecode.
const (
	StageParse      = "parse"
	StageVersionSum = "version_sum"
	StageEval       = "eval"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bitsctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bitsctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	decodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bitsctl",
			Subsystem: "decode",
			Name:      "transmissions_total",
			Help:      "Decoded transmissions by outcome.",
		},
		[]string{"outcome"},
	)
	decodeStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bitsctl",
			Subsystem: "decode",
			Name:      "stage_duration_seconds",
			Help:      "Time spent per decode stage.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"stage"},
	)
	decodePackets = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bitsctl",
			Subsystem: "decode",
			Name:      "packets",
			Help:      "Packets per decoded transmission.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodes, decodeStageDuration, decodePackets)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one decode attempt. packets is ignored unless the
// outcome is a success.
func RecordDecode(outcome string, packets int) {
	RegisterMetrics()
	decodes.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		decodePackets.Observe(float64(packets))
	}
}

func RecordDecodeStage(stage string, duration time.Duration) {
	RegisterMetrics()
	decodeStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}
