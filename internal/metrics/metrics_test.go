package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCount(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.Move(MoveAsk)
	m.Move(MoveAsk)
	m.Move(MoveMFSingle)
	m.SessionCreated("practice")
	m.ObserveRequest("POST", "/api/sessions", 201, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MovesTotal.WithLabelValues(MoveAsk)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MovesTotal.WithLabelValues(MoveMFSingle)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCreated.WithLabelValues("practice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("POST", "/api/sessions", "201")))
}

func TestSeparateRegistries(t *testing.T) {
	// Registering twice on one registry would panic; separate ones must not
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Move(MoveAsk)
		m.SessionCreated("two_player")
		m.ObserveRequest("GET", "/healthz", 200, time.Millisecond)
	})
}
