package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the provenance engine.
// It is passed explicitly to every component that records metrics; a nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// JSON-RPC
	rpcCallsTotal   *prometheus.CounterVec
	rpcCallDuration *prometheus.HistogramVec
	rpcRetries      *prometheus.CounterVec
	logPageSplits   *prometheus.CounterVec

	// Timestamp resolution
	timestampLookups *prometheus.CounterVec

	// Journey construction
	journeysBuilt        *prometheus.CounterVec
	journeyBuildDuration *prometheus.HistogramVec
	logsDropped          *prometheus.CounterVec

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provenance_rpc_calls_total",
				Help: "Total number of JSON-RPC calls by method and outcome",
			},
			[]string{"method", "status", "endpoint"},
		),
		rpcCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provenance_rpc_call_duration_seconds",
				Help:    "Duration of JSON-RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"method", "endpoint"},
		),
		rpcRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provenance_rpc_retries_total",
				Help: "Total number of JSON-RPC retry attempts after transport failures",
			},
			[]string{"method"},
		),
		logPageSplits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provenance_log_page_splits_total",
				Help: "Total number of eth_getLogs windows halved after the node refused the range",
			},
			[]string{"endpoint"},
		),
		timestampLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provenance_timestamp_lookups_total",
				Help: "Block timestamp lookups by cache outcome",
			},
			[]string{"result"},
		),
		journeysBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provenance_journeys_built_total",
				Help: "Total number of product journeys built by outcome",
			},
			[]string{"status"},
		),
		journeyBuildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provenance_journey_build_duration_seconds",
				Help:    "Duration of product journey construction in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"status"},
		),
		logsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provenance_logs_dropped_total",
				Help: "Total number of Transfer logs dropped during parsing by reason",
			},
			[]string{"reason"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provenance_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provenance_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"handler", "method"},
		),
	}
}

// RecordRPCCall records a JSON-RPC call with its duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, duration float64) {
	if m == nil {
		return
	}
	m.rpcCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.rpcCallDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordRPCRetry records a retry attempt.
func (m *Metrics) RecordRPCRetry(method string) {
	if m == nil {
		return
	}
	m.rpcRetries.WithLabelValues(method).Inc()
}

// RecordLogPageSplit records a halved eth_getLogs window.
func (m *Metrics) RecordLogPageSplit(endpoint string) {
	if m == nil {
		return
	}
	m.logPageSplits.WithLabelValues(endpoint).Inc()
}

// RecordTimestampLookup records a timestamp lookup; result is one of "hit", "miss", "shared" or "error".
func (m *Metrics) RecordTimestampLookup(result string) {
	if m == nil {
		return
	}
	m.timestampLookups.WithLabelValues(result).Inc()
}

// RecordJourneyBuild records a journey construction and its duration.
func (m *Metrics) RecordJourneyBuild(status string, duration float64) {
	if m == nil {
		return
	}
	m.journeysBuilt.WithLabelValues(status).Inc()
	m.journeyBuildDuration.WithLabelValues(status).Observe(duration)
}

// RecordLogsDropped records logs dropped by the parser.
func (m *Metrics) RecordLogsDropped(reason string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.logsDropped.WithLabelValues(reason).Add(float64(count))
}

// RecordHTTPRequest records an HTTP request with its duration.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(handler, method, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(handler, method).Observe(duration)
}
