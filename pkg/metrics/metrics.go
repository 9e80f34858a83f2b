package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Event publishing metrics
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec
	BreakerState    *prometheus.GaugeVec

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	// Notification worker metrics
	WorkerMessagesProcessed *prometheus.CounterVec
	WorkerMessagesFailed    *prometheus.CounterVec
	WorkerProcessingLatency prometheus.Histogram
}

// NewMetrics creates all application metrics and registers them with reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of events handed to the event bus",
		}, []string{"event"}),
		EventsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Total number of events that could not be published",
		}, []string{"event"}),
		BreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		}, []string{"name"}),

		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		WorkerMessagesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_messages_processed_total",
			Help:      "Total number of event messages handled by the notification worker",
		}, []string{"event"}),
		WorkerMessagesFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_messages_failed_total",
			Help:      "Total number of event messages the notification worker gave up on",
		}, []string{"event"}),
		WorkerProcessingLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_processing_duration_seconds",
			Help:      "Time spent handling one event message",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDB(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DatabaseOperations.WithLabelValues(operation, status).Inc()
	m.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) EventPublished(event string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(event).Inc()
}

func (m *Metrics) EventFailed(event string) {
	if m == nil {
		return
	}
	m.EventsFailed.WithLabelValues(event).Inc()
}

func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(state)
}

func (m *Metrics) WorkerProcessed(event string, start time.Time) {
	if m == nil {
		return
	}
	m.WorkerMessagesProcessed.WithLabelValues(event).Inc()
	m.WorkerProcessingLatency.Observe(time.Since(start).Seconds())
}

func (m *Metrics) WorkerFailed(event string) {
	if m == nil {
		return
	}
	m.WorkerMessagesFailed.WithLabelValues(event).Inc()
}
