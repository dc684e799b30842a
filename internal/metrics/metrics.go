package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Move kinds counted by MovesTotal
const (
	MoveAsk             = "ask"
	MovePracticeAsk     = "practice_ask"
	MoveAnswerCorrect   = "answer_correct"
	MoveAnswerIncorrect = "answer_incorrect"
	MoveMFMultiple      = "mf_multiple"
	MoveMFSingle        = "mf_single"
)

// Metrics holds Prometheus metrics for the server. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MovesTotal      *prometheus.CounterVec
	SessionsCreated *prometheus.CounterVec
}

// NewMetrics registers the metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "verbclash",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "verbclash",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		MovesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "verbclash",
				Name:      "moves_total",
				Help:      "Moves recorded, by kind",
			},
			[]string{"kind"},
		),
		SessionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "verbclash",
				Name:      "sessions_created_total",
				Help:      "Sessions created, by mode",
			},
			[]string{"mode"},
		),
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// Move counts a move of the given kind
func (m *Metrics) Move(kind string) {
	if m == nil {
		return
	}
	m.MovesTotal.WithLabelValues(kind).Inc()
}

// SessionCreated counts a new session
func (m *Metrics) SessionCreated(mode string) {
	if m == nil {
		return
	}
	m.SessionsCreated.WithLabelValues(mode).Inc()
}
