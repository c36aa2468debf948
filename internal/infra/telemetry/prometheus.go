package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"compassai/internal/domain"
)

type PrometheusMetrics struct {
	requestDuration *prometheus.HistogramVec
	requests        *prometheus.CounterVec
	staleDiscards   *prometheus.CounterVec
	rollbacks       *prometheus.CounterVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "compass_api_request_duration_seconds",
				Help:    "Duration of backend requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint", "status"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compass_api_requests_total",
				Help: "Total number of backend requests by response code",
			},
			[]string{"endpoint", "method", "code"},
		),
		staleDiscards: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compass_stale_results_discarded_total",
				Help: "Total number of fetch results dropped because a newer request superseded them",
			},
			[]string{"flow"},
		),
		rollbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compass_optimistic_rollbacks_total",
				Help: "Total number of optimistic updates reverted after a failed request",
			},
			[]string{"flow"},
		),
	}
}

func (p *PrometheusMetrics) ObserveRequest(metric domain.RequestMetric) {
	status := string(metric.Status)
	if status == "" {
		status = string(domain.RequestStatusSuccess)
	}
	code := "none"
	if metric.StatusCode > 0 {
		code = strconv.Itoa(metric.StatusCode)
	}
	p.requestDuration.WithLabelValues(metric.Endpoint, status).Observe(metric.Duration.Seconds())
	p.requests.WithLabelValues(metric.Endpoint, metric.Method, code).Inc()
}

func (p *PrometheusMetrics) ObserveStaleDiscard(flow string) {
	p.staleDiscards.WithLabelValues(flow).Inc()
}

func (p *PrometheusMetrics) ObserveRollback(flow string) {
	p.rollbacks.WithLabelValues(flow).Inc()
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
