// Package metrics provides Prometheus metrics for the freekicks chart service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset
	recordsLoaded    prometheus.Gauge
	validationErrors *prometheus.CounterVec

	// Chart behaviour
	renders        prometheus.Counter
	marksEntered   prometheus.Counter
	marksExited    prometheus.Counter
	visibleMarks   prometheus.Gauge
	hoverEvents    *prometheus.CounterVec
	filterChanges  *prometheus.CounterVec
	transitionsCut prometheus.Counter

	// Sessions
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEvicted prometheus.Counter

	// UI loop
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueRejected      *prometheus.CounterVec
	interactionLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "freekicks",
		subsystem:        "chart",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		Buckets: m.histogramBuckets, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.recordsLoaded = m.gauge("records_loaded", "Number of free-kick records loaded from the dataset")
	m.validationErrors = m.counterVec("validation_errors_total", "Dataset records rejected at load time by kind", "kind")

	m.renders = m.counter("renders_total", "Number of point renderer passes")
	m.marksEntered = m.counter("marks_entered_total", "Marks created by the point renderer")
	m.marksExited = m.counter("marks_exited_total", "Marks removed by the point renderer")
	m.visibleMarks = m.gauge("visible_marks", "Marks visible after the most recent render")
	m.hoverEvents = m.counterVec("hover_events_total", "Pointer events handled by the hover controller", "event")
	m.filterChanges = m.counterVec("filter_changes_total", "Dropdown selections applied", "category")
	m.transitionsCut = m.counter("transitions_interrupted_total", "In-flight transitions superseded by a newer one")

	m.sessionsActive = m.gauge("sessions_active", "Viewer sessions currently held in memory")
	m.sessionsCreated = m.counter("sessions_created_total", "Viewer sessions created")
	m.sessionsEvicted = m.counter("sessions_evicted_total", "Viewer sessions evicted to respect capacity")

	m.queueSize = m.gauge("interaction_queue_size", "Interactions waiting for the UI loop")
	m.queueCapacity = m.gauge("interaction_queue_capacity", "Capacity of the interaction queue")
	m.queueEnqueued = m.counter("interactions_enqueued_total", "Interactions accepted by the queue")
	m.queueRejected = m.counterVec("interactions_rejected_total", "Interactions refused by the queue", "reason")
	m.interactionLatency = m.histogramVec("interaction_latency_milliseconds", "Time spent applying an interaction on the UI loop", "kind")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("system_gc_pause_milliseconds"),
		Help: "Average GC pause in milliseconds", Buckets: m.histogramBuckets, ConstLabels: m.customLabels,
	})
}

// Dataset.

// UpdateRecordsLoaded sets the number of loaded records.
func UpdateRecordsLoaded(n int) {
	if globalManager.enabled {
		globalManager.recordsLoaded.Set(float64(n))
	}
}

// RecordValidationError counts a rejected record by kind.
func RecordValidationError(kind string) {
	if globalManager.enabled {
		globalManager.validationErrors.WithLabelValues(kind).Inc()
	}
}

// Chart behaviour.

// RecordRender counts one renderer pass with its diff sizes.
func RecordRender(entered, exited, visible int) {
	if !globalManager.enabled {
		return
	}
	globalManager.renders.Inc()
	globalManager.marksEntered.Add(float64(entered))
	globalManager.marksExited.Add(float64(exited))
	globalManager.visibleMarks.Set(float64(visible))
}

// RecordHoverEvent counts a pointer event ("enter", "leave", "replace").
func RecordHoverEvent(event string) {
	if globalManager.enabled {
		globalManager.hoverEvents.WithLabelValues(event).Inc()
	}
}

// RecordFilterChange counts a dropdown selection.
func RecordFilterChange(category string) {
	if globalManager.enabled {
		globalManager.filterChanges.WithLabelValues(category).Inc()
	}
}

// RecordTransitionInterrupted counts a transition cancelled by a newer one.
func RecordTransitionInterrupted() {
	if globalManager.enabled {
		globalManager.transitionsCut.Inc()
	}
}

// Sessions.

// UpdateSessionsActive sets the number of live sessions.
func UpdateSessionsActive(n int) {
	if globalManager.enabled {
		globalManager.sessionsActive.Set(float64(n))
	}
}

// RecordSessionCreated counts a new session.
func RecordSessionCreated() {
	if globalManager.enabled {
		globalManager.sessionsCreated.Inc()
	}
}

// RecordSessionEvicted counts an evicted session.
func RecordSessionEvicted() {
	if globalManager.enabled {
		globalManager.sessionsEvicted.Inc()
	}
}

// UI loop.

// UpdateQueueSize sets the interaction backlog.
func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the interaction queue capacity.
func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// RecordQueueEnqueue counts an accepted interaction.
func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueued.Inc()
	}
}

// RecordQueueRejected counts a refused interaction.
func RecordQueueRejected(reason string) {
	if globalManager.enabled {
		globalManager.queueRejected.WithLabelValues(reason).Inc()
	}
}

// RecordInteractionLatency observes how long the UI loop spent on one interaction.
func RecordInteractionLatency(kind string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.interactionLatency.WithLabelValues(kind).Observe(latencyMs)
	}
}

// HTTP.

// RecordHTTPRequest counts a request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// Errors.

// RecordErrorByComponent counts an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByEndpoint counts an HTTP error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// System.

// UpdateSystemMemoryUsage sets heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// RefreshInterval is how often periodic gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
