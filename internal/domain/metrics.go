package domain

import "time"

// RequestStatus labels the outcome of a backend request.
type RequestStatus string

const (
	// RequestStatusSuccess indicates a 2xx response.
	RequestStatusSuccess RequestStatus = "success"
	// RequestStatusHTTPError indicates a non-2xx response.
	RequestStatusHTTPError RequestStatus = "http_error"
	// RequestStatusTransport indicates the request never got a response.
	RequestStatusTransport RequestStatus = "transport_error"
	// RequestStatusDecode indicates a malformed response body.
	RequestStatusDecode RequestStatus = "decode_error"
)

// RequestMetric describes a finished backend request.
type RequestMetric struct {
	Endpoint   string
	Method     string
	StatusCode int
	Status     RequestStatus
	Duration   time.Duration
}

// Metrics records client-side observations.
type Metrics interface {
	ObserveRequest(metric RequestMetric)
	ObserveStaleDiscard(flow string)
	ObserveRollback(flow string)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) ObserveRequest(RequestMetric) {}
func (NoopMetrics) ObserveStaleDiscard(string)   {}
func (NoopMetrics) ObserveRollback(string)       {}
