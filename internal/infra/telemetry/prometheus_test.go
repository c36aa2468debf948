package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compassai/internal/domain"
)

func TestNewPrometheusMetrics(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	assert.NotNil(t, m)
	assert.NotNil(t, m.requestDuration)
	assert.NotNil(t, m.requests)
	assert.NotNil(t, m.staleDiscards)
	assert.NotNil(t, m.rollbacks)
}

func TestNewPrometheusMetrics_UsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewPrometheusMetrics(registry)
	m.ObserveRequest(domain.RequestMetric{
		Endpoint:   "/tools",
		Method:     "GET",
		StatusCode: 200,
		Status:     domain.RequestStatusSuccess,
		Duration:   10 * time.Millisecond,
	})
	m.ObserveStaleDiscard("discovery")
	m.ObserveRollback("moderation")

	metrics, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.GetName())
	}

	assert.Contains(t, names, "compass_api_request_duration_seconds")
	assert.Contains(t, names, "compass_api_requests_total")
	assert.Contains(t, names, "compass_stale_results_discarded_total")
	assert.Contains(t, names, "compass_optimistic_rollbacks_total")
}

func TestObserveRequest_Labels(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	m.ObserveRequest(domain.RequestMetric{Endpoint: "/tools/{id}", Method: "GET", StatusCode: 404, Status: domain.RequestStatusHTTPError})
	m.ObserveRequest(domain.RequestMetric{Endpoint: "/tools/{id}", Method: "GET", Status: domain.RequestStatusTransport})
	m.ObserveRequest(domain.RequestMetric{Endpoint: "/tools/{id}", Method: "GET", StatusCode: 404, Status: domain.RequestStatusHTTPError})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/tools/{id}", "GET", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/tools/{id}", "GET", "none")))
}

func TestWriteTextAndDumpFile(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPrometheusMetrics(registry)
	m.ObserveStaleDiscard("discovery")

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, registry))
	assert.Contains(t, buf.String(), `compass_stale_results_discarded_total{flow="discovery"} 1`)

	path := filepath.Join(t.TempDir(), "nested", "metrics.prom")
	require.NoError(t, DumpFile(path, registry))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}
